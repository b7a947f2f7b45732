package relay

import (
	"fmt"
	"log"
	"sync"

	"github.com/kalepail/zkp-pong/pkg/models"
)

// peerConn is the minimal write surface a Session needs from a
// transport connection — satisfied by a websocket-backed peer in
// production and by a fake in tests.
type peerConn interface {
	Send(msg Message) error
}

type peer struct {
	role Role
	conn peerConn
	seed string
}

// pendingEvent is the at-most-one half-assembled event the session
// holds while waiting for both paddles to report the same eventIndex.
type pendingEvent struct {
	eventIndex  int
	leftPaddle  *string
	rightPaddle *string
}

// Session is a single relay session: at most two peers, single-
// threaded per session — every exported method takes the session's own
// mutex, so messages from the two peers' read loops are processed one
// at a time, matching spec.md §5's "single-threaded per session"
// scheduling model.
type Session struct {
	ID     string
	GameID uint32

	mu               sync.Mutex
	peers            map[Role]*peer
	pending          *pendingEvent
	events           []string
	leftCommitments  []string
	rightCommitments []string
	ready            map[Role]bool
	terminated       bool
	termReason       string
}

// NewSession allocates an empty, unready session for gameID.
func NewSession(id string, gameID uint32) *Session {
	return &Session{
		ID:     id,
		GameID: gameID,
		peers:  make(map[Role]*peer),
		ready:  make(map[Role]bool),
	}
}

// Join assigns the next free role to conn — left to the first peer to
// arrive, right to the second — and returns it. A third join attempt is
// refused: a session hosts at most two peers.
func (s *Session) Join(conn peerConn) (Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.peers[RoleLeft]; !taken {
		s.peers[RoleLeft] = &peer{role: RoleLeft, conn: conn}
		return RoleLeft, nil
	}
	if _, taken := s.peers[RoleRight]; !taken {
		s.peers[RoleRight] = &peer{role: RoleRight, conn: conn}
		_ = s.peers[RoleLeft].conn.Send(Message{Type: MsgOpponentConnected})
		return RoleRight, nil
	}
	return "", fmt.Errorf("relay: session %s already has two peers", s.ID)
}

// SetReady marks role ready and, once both peers are ready, broadcasts
// game_ready.
func (s *Session) SetReady(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready[role] = true
	if s.ready[RoleLeft] && s.ready[RoleRight] {
		s.broadcastLocked(Message{Type: MsgGameReady, GameID: s.GameID})
	}
}

// HandlePaddlePosition processes a paddle_position message from role,
// assembling interleaved events and forwarding the message to the
// opponent for optimistic-prediction comparison. Returns an error (and
// marks the session terminated) on eventIndex desynchronization.
func (s *Session) HandlePaddlePosition(role Role, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return fmt.Errorf("relay: session %s is terminated: %s", s.ID, s.termReason)
	}

	if role == RoleLeft {
		s.leftCommitments = append(s.leftCommitments, msg.Commitment)
	} else {
		s.rightCommitments = append(s.rightCommitments, msg.Commitment)
	}

	if s.pending == nil {
		s.pending = &pendingEvent{eventIndex: msg.EventIndex}
		s.fillPendingLocked(role, msg.PaddleY)
	} else if s.pending.eventIndex == msg.EventIndex {
		s.fillPendingLocked(role, msg.PaddleY)
		if s.pending.leftPaddle != nil && s.pending.rightPaddle != nil {
			s.events = append(s.events, *s.pending.leftPaddle, *s.pending.rightPaddle)
			s.pending = nil
		}
	} else {
		s.terminated = true
		s.termReason = fmt.Sprintf("eventIndex desync: pending=%d got=%d from %s", s.pending.eventIndex, msg.EventIndex, role)
		log.Printf("[relay] session %s: %s", s.ID, s.termReason)
		s.broadcastLocked(Message{Type: MsgDesyncWarning, Reason: s.termReason})
		return fmt.Errorf("relay: %s", s.termReason)
	}

	s.forwardLocked(role, Message{
		Type:       MsgOpponentPaddle,
		EventIndex: msg.EventIndex,
		PaddleY:    msg.PaddleY,
	})
	return nil
}

func (s *Session) fillPendingLocked(role Role, paddleY string) {
	y := paddleY
	if role == RoleLeft {
		s.pending.leftPaddle = &y
	} else {
		s.pending.rightPaddle = &y
	}
}

// RevealSeed records role's end-of-match seed reveal. Once both seeds
// are in, the session is ready to assemble a final CompactLog via
// FinalLog.
func (s *Session) RevealSeed(role Role, seed string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.peers[role]; ok {
		p.seed = seed
	}
}

// ReadyForFinalLog reports whether both peers have joined and revealed a seed.
func (s *Session) ReadyForFinalLog() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	left, lok := s.peers[RoleLeft]
	right, rok := s.peers[RoleRight]
	return lok && rok && left.seed != "" && right.seed != ""
}

// FinalLog assembles the session's authoritative CompactLog: the
// relay's own interleaved events array, commitments interleaved by the
// global index (left fills even positions, right fills odd), and the
// revealed seeds.
func (s *Session) FinalLog() (models.CompactLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	left, lok := s.peers[RoleLeft]
	right, rok := s.peers[RoleRight]
	if !lok || !rok || left.seed == "" || right.seed == "" {
		return models.CompactLog{}, fmt.Errorf("relay: session %s missing a peer or a revealed seed", s.ID)
	}
	if len(s.leftCommitments) != len(s.rightCommitments) {
		return models.CompactLog{}, fmt.Errorf("relay: session %s commitment lists diverge in length (%d vs %d)",
			s.ID, len(s.leftCommitments), len(s.rightCommitments))
	}

	commitments := make([]string, 0, len(s.leftCommitments)+len(s.rightCommitments))
	for i := range s.leftCommitments {
		commitments = append(commitments, s.leftCommitments[i], s.rightCommitments[i])
	}

	return models.CompactLog{
		V:               1,
		GameID:          s.GameID,
		Events:          append([]string(nil), s.events...),
		Commitments:     commitments,
		PlayerLeftSeed:  left.seed,
		PlayerRightSeed: right.seed,
	}, nil
}

// Broadcast sends msg to every joined peer.
func (s *Session) Broadcast(msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcastLocked(msg)
}

func (s *Session) broadcastLocked(msg Message) {
	for _, p := range s.peers {
		if err := p.conn.Send(msg); err != nil {
			log.Printf("[relay] session %s: send to %s failed: %v", s.ID, p.role, err)
		}
	}
}

// forwardLocked sends msg to the peer that is not from.
func (s *Session) forwardLocked(from Role, msg Message) {
	opponent := RoleRight
	if from == RoleRight {
		opponent = RoleLeft
	}
	if p, ok := s.peers[opponent]; ok {
		if err := p.conn.Send(msg); err != nil {
			log.Printf("[relay] session %s: forward to %s failed: %v", s.ID, opponent, err)
		}
	}
}

// Disconnect marks the session terminated due to a peer dropping
// before match end; per spec.md §5 this is a session fault and never
// mutates an existing log.
func (s *Session) Disconnect(role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return
	}
	s.terminated = true
	s.termReason = fmt.Sprintf("%s disconnected before match end", role)
	s.forwardLocked(role, Message{Type: MsgOpponentDisconnected})
}
