package replay

import (
	"context"
	"testing"

	"github.com/kalepail/zkp-pong/internal/producer"
)

func TestRunMatchesValidatorOutput(t *testing.T) {
	m, err := producer.NewMatch(99)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	log, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var snapshots []Snapshot
	d := Driver{} // Speed 0: no pacing delay, suitable for tests
	result, err := d.Run(context.Background(), log, func(s Snapshot) {
		snapshots = append(snapshots, s)
	})
	if err != nil {
		t.Fatalf("replay Run: %v", err)
	}
	if !result.Fair {
		t.Fatalf("expected a fair match from producer output, got reason=%v", result.Reason)
	}
	if len(snapshots) == 0 {
		t.Fatalf("expected at least one snapshot to have been emitted")
	}
	last := snapshots[len(snapshots)-1]
	if last.LeftScore != result.LeftScore || last.RightScore != result.RightScore {
		t.Errorf("final snapshot scores (%d,%d) disagree with validator (%d,%d)",
			last.LeftScore, last.RightScore, result.LeftScore, result.RightScore)
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	m, err := producer.NewMatch(100)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	log, err := m.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := Driver{}
	_, err = d.Run(ctx, log, nil)
	if err == nil {
		t.Fatalf("expected cancellation error from an already-cancelled context")
	}
}
