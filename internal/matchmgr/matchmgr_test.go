package matchmgr

import (
	"testing"

	"github.com/kalepail/zkp-pong/pkg/models"
)

func TestCreateAndGetSession(t *testing.T) {
	m := New()
	s := m.CreateSession("sess-1", 42)
	if s.Status != StatusWaiting {
		t.Fatalf("new session status = %s, want %s", s.Status, StatusWaiting)
	}

	got := m.GetSession("sess-1")
	if got == nil || got.GameID != 42 {
		t.Fatalf("GetSession returned %+v", got)
	}
	if m.GetSession("missing") != nil {
		t.Errorf("expected nil for unknown session ID")
	}
}

func TestSessionLifecycleTransitions(t *testing.T) {
	m := New()
	s := m.CreateSession("sess-2", 1)

	s.SetInProgress()
	if s.Status != StatusInProgress {
		t.Fatalf("status = %s, want %s", s.Status, StatusInProgress)
	}

	result := models.ValidateLogOutput{Fair: true, LeftScore: 3, RightScore: 1}
	s.Complete(models.CompactLog{GameID: 1, V: 1}, result)
	if s.Status != StatusCompleted || s.Result == nil || !s.Result.Fair {
		t.Fatalf("Complete did not set expected fields: %+v", s)
	}
}

func TestSessionTerminate(t *testing.T) {
	m := New()
	s := m.CreateSession("sess-3", 7)
	s.Terminate("left disconnected before match end")
	if s.Status != StatusTerminated || s.TermReason == "" {
		t.Fatalf("Terminate did not set expected fields: %+v", s)
	}
}

func TestListAndForgetSessions(t *testing.T) {
	m := New()
	m.CreateSession("a", 1)
	m.CreateSession("b", 2)

	if len(m.ListSessions()) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(m.ListSessions()))
	}

	m.Forget("a")
	if len(m.ListSessions()) != 1 {
		t.Fatalf("expected 1 session after Forget, got %d", len(m.ListSessions()))
	}
	if m.GetSession("a") != nil {
		t.Errorf("expected forgotten session to be gone")
	}
}
