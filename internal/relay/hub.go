package relay

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // peers connect from arbitrary origins; the relay route is public and peers are identified only by session ID
	},
}

// Manager owns every live session, keyed by session ID. Unlike a
// global broadcast hub, each session is an isolated two-peer room —
// Manager only routes a joining connection to the right one.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager returns an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Open creates a new session with a freshly generated ID and game ID,
// returning both.
func (m *Manager) Open() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	gameID := uuid.New().ID() // first 32 bits of a fresh UUID, used as the match's u32 game_id
	s := NewSession(id, gameID)
	m.sessions[id] = s
	return s
}

// GetOrCreate looks up a session by ID, or creates one if it doesn't exist yet
// — the first peer to connect to a session ID may be establishing it.
func (m *Manager) GetOrCreate(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := NewSession(id, uuid.New().ID())
	m.sessions[id] = s
	return s
}

// Close removes a session, e.g. once its final log has been delivered.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// wsConn adapts a *websocket.Conn to peerConn, serializing writes with
// a mutex (gorilla/websocket forbids concurrent writers on one
// connection) exactly as the teacher's api.Hub does for its broadcast
// loop.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) Send(msg Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return w.conn.WriteMessage(websocket.TextMessage, b)
}

// ServeSession upgrades the HTTP connection, joins it to the named
// session, and runs its read pump until disconnect. sessionID would
// typically come from a path or query parameter on the caller's route.
func (m *Manager) ServeSession(c *gin.Context, sessionID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[relay] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := m.GetOrCreate(sessionID)
	peerConn := &wsConn{conn: conn}
	role, err := session.Join(peerConn)
	if err != nil {
		_ = peerConn.Send(Message{Type: MsgGameEnd, Reason: err.Error()})
		return
	}
	_ = peerConn.Send(Message{Type: MsgGameStart, Role: role, GameID: session.GameID})

	defer session.Disconnect(role)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[relay] session %s: read error: %v", sessionID, err)
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("[relay] session %s: malformed message from %s: %v", sessionID, role, err)
			continue
		}
		m.dispatch(session, role, msg)
	}
}

func (m *Manager) dispatch(session *Session, role Role, msg Message) {
	switch msg.Type {
	case MsgPlayerReady:
		session.SetReady(role)
	case MsgPaddlePosition:
		if err := session.HandlePaddlePosition(role, msg); err != nil {
			log.Printf("[relay] %v", err)
		}
	case MsgPlayerLog:
		session.RevealSeed(role, msg.Seed)
		if session.ReadyForFinalLog() {
			final, err := session.FinalLog()
			if err != nil {
				log.Printf("[relay] session %s: %v", session.ID, err)
				return
			}
			session.Broadcast(Message{Type: MsgGameEnd, Log: &final})
		}
	default:
		log.Printf("[relay] session %s: unrecognized message type %q from %s", session.ID, msg.Type, role)
	}
}
