// Package matchmgr tracks the lifecycle of live and recently finished
// matches so the API's status endpoints have somewhere to look without
// going back to the relay session or the database on every poll.
package matchmgr

import (
	"sync"
	"time"

	"github.com/kalepail/zkp-pong/pkg/models"
)

// Session lifecycle:
//
//	waiting     → one peer connected, waiting for the other
//	in_progress → both peers connected and playing
//	completed   → final log assembled and validated
//	terminated  → ended early (disconnect, desync) with no final log
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusTerminated = "terminated"
)

// Session is one tracked match, relay session or local producer run.
type Session struct {
	ID         string                    `json:"id"`
	GameID     uint32                    `json:"gameId"`
	Status     string                    `json:"status"`
	TermReason string                    `json:"termReason,omitempty"`
	FinalLog   *models.CompactLog        `json:"finalLog,omitempty"`
	Result     *models.ValidateLogOutput `json:"result,omitempty"`
	CreatedAt  time.Time                 `json:"createdAt"`
	UpdatedAt  time.Time                 `json:"updatedAt"`
}

// Manager is a CRUD registry of tracked sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// New returns an empty manager.
func New() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// CreateSession starts tracking a new session in the waiting state.
func (m *Manager) CreateSession(id string, gameID uint32) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		GameID:    gameID,
		Status:    StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s
}

// GetSession retrieves a session by ID, or nil if unknown.
func (m *Manager) GetSession(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// ListSessions returns every tracked session.
func (m *Manager) ListSessions() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*Session
	for _, s := range m.sessions {
		list = append(list, s)
	}
	return list
}

// SetInProgress marks a session as having both peers connected.
func (s *Session) SetInProgress() {
	s.Status = StatusInProgress
	s.UpdatedAt = time.Now()
}

// Complete records the final log and its validation result.
func (s *Session) Complete(log models.CompactLog, result models.ValidateLogOutput) {
	s.FinalLog = &log
	s.Result = &result
	s.Status = StatusCompleted
	s.UpdatedAt = time.Now()
}

// Terminate marks a session ended early with no final log, e.g. on
// disconnect or protocol desync.
func (s *Session) Terminate(reason string) {
	s.Status = StatusTerminated
	s.TermReason = reason
	s.UpdatedAt = time.Now()
}

// Forget removes a session from tracking, e.g. after its result has
// been fetched and persisted.
func (m *Manager) Forget(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
