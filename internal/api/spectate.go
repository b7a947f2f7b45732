package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var spectateUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // spectators are read-only; allow all origins
	},
}

// SpectatorHub fans a producer's live event stream out to any number of
// read-only websocket subscribers. It satisfies producer.Broadcaster
// (Broadcast([]byte)) without importing internal/producer, the same way
// the teacher's dashboard Hub broadcast block/cluster updates without
// its producers depending on the hub's package.
type SpectatorHub struct {
	clients   map[*websocket.Conn]bool
	broadcast chan []byte
	mutex     sync.Mutex
}

// NewSpectatorHub starts an empty hub; call Run in a goroutine to drain
// its broadcast channel.
func NewSpectatorHub() *SpectatorHub {
	return &SpectatorHub{
		broadcast: make(chan []byte, 256),
		clients:   make(map[*websocket.Conn]bool),
	}
}

// Run drains the broadcast channel, fanning each payload out to every
// connected spectator. It never returns; call it once in a goroutine.
func (h *SpectatorHub) Run() {
	for message := range h.broadcast {
		h.mutex.Lock()
		for client := range h.clients {
			_ = client.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[api] spectator write error: %v", err)
				client.Close()
				delete(h.clients, client)
			}
		}
		h.mutex.Unlock()
	}
}

// Subscribe upgrades the connection and adds it to the spectator set.
func (h *SpectatorHub) Subscribe(c *gin.Context) {
	conn, err := spectateUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[api] failed to upgrade spectator websocket: %v", err)
		return
	}

	h.mutex.Lock()
	h.clients[conn] = true
	h.mutex.Unlock()

	go func() {
		defer func() {
			h.mutex.Lock()
			delete(h.clients, conn)
			h.mutex.Unlock()
			conn.Close()
		}()
		for {
			// Spectators are read-only; we only read to detect disconnects.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends data to every connected spectator, satisfying
// producer.Broadcaster.
func (h *SpectatorHub) Broadcast(data []byte) {
	h.broadcast <- data
}
