// Package producer drives the kinematic engine forward locally, committing
// to each paddle-plane event and assembling a CompactLog. It is the
// single-process analogue of two peers exchanging positions through the
// relay (internal/relay): here one process plans and commits to both
// paddles itself.
package producer

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"strconv"

	"github.com/kalepail/zkp-pong/internal/commitment"
	"github.com/kalepail/zkp-pong/internal/engine"
	"github.com/kalepail/zkp-pong/pkg/models"
)

// Broadcaster forwards a live-progress payload to any connected
// spectators. A producer runs fine with none attached.
type Broadcaster interface {
	Broadcast(payload []byte)
}

// Persister saves a finished match. A producer runs fine with none
// attached — the caller still gets the CompactLog back from Run.
type Persister interface {
	SaveMatch(ctx context.Context, log models.CompactLog) error
}

// EventPayload is the live-progress message broadcast after each
// appended event, for spectators — never consulted by the validator.
type EventPayload struct {
	GameID     uint32 `json:"game_id"`
	EventIndex int    `json:"event_index"`
	LeftY      string `json:"left_y"`
	RightY     string `json:"right_y"`
	LeftScore  uint32 `json:"left_score"`
	RightScore uint32 `json:"right_score"`
}

// Match holds everything one local producer run needs.
type Match struct {
	GameID    uint32
	LeftSeed  commitment.Seed
	RightSeed commitment.Seed

	Broadcast Broadcaster
	Persist   Persister
}

// NewMatch allocates a Match with freshly generated seeds for gameID.
func NewMatch(gameID uint32) (*Match, error) {
	m := &Match{GameID: gameID}
	if _, err := rand.Read(m.LeftSeed[:]); err != nil {
		return nil, fmt.Errorf("producer: generating left seed: %w", err)
	}
	if _, err := rand.Read(m.RightSeed[:]); err != nil {
		return nil, fmt.Errorf("producer: generating right seed: %w", err)
	}
	return m, nil
}

// Run drives the match to completion (or until ctx is cancelled), then
// returns the assembled CompactLog. It enforces events.length <
// MAX_EVENTS, forcing termination without appending once the cap would
// be reached.
func (m *Match) Run(ctx context.Context) (models.CompactLog, error) {
	var events []string
	var commitments []string

	s := engine.Serve(0, m.GameID, engine.InitialServeDirection, 0)
	var leftScore, rightScore uint32

	for {
		select {
		case <-ctx.Done():
			return models.CompactLog{}, ctx.Err()
		default:
		}

		if len(events) >= engine.MaxEvents {
			log.Printf("[producer] game %d hit MAX_EVENTS cap, forcing termination without appending", m.GameID)
			break
		}

		dt, err := engine.TimeToPaddle(s)
		if err != nil {
			return models.CompactLog{}, fmt.Errorf("producer: %w", err)
		}
		tHit := s.T0 + dt
		yAtHit := engine.YAtHit(s, dt)
		receiver := s.ReceiverSide()

		pairIdx := uint32(len(events) / 2)
		leftTarget, rightTarget := engine.PlanTargets(receiver, yAtHit, pairIdx, m.GameID)
		loggedL := engine.PaddleYAt(engine.PaddleMotion{Y0: s.LeftY, T0: s.T0, Target: leftTarget}, tHit)
		loggedR := engine.PaddleYAt(engine.PaddleMotion{Y0: s.RightY, T0: s.T0, Target: rightTarget}, tHit)

		leftIdx := uint32(len(events))
		rightIdx := leftIdx + 1
		events = append(events, strconv.FormatInt(loggedL, 10), strconv.FormatInt(loggedR, 10))
		commitments = append(commitments,
			commitment.Hex(commitment.Compute(m.LeftSeed, leftIdx, loggedL)),
			commitment.Hex(commitment.Compute(m.RightSeed, rightIdx, loggedR)),
		)

		result, err := engine.Step(s, loggedL, loggedR)
		if err != nil {
			return models.CompactLog{}, fmt.Errorf("producer: %w", err)
		}

		if result.Hit {
			s = result.Next
		} else {
			if receiver == engine.Left {
				rightScore++
			} else {
				leftScore++
			}
			ended := leftScore == engine.PointsToWin || rightScore == engine.PointsToWin
			if !ended {
				newDir := -1
				if receiver == engine.Left {
					newDir = 1
				}
				s = engine.Serve(len(events), m.GameID, newDir, result.THit)
			}
		}

		if m.Broadcast != nil {
			m.broadcastEvent(len(events)-1, loggedL, loggedR, leftScore, rightScore)
		}

		if leftScore == engine.PointsToWin || rightScore == engine.PointsToWin {
			break
		}
	}

	out := models.CompactLog{
		V:               1,
		GameID:          m.GameID,
		Events:          events,
		Commitments:     commitments,
		PlayerLeftSeed:  commitment.Hex(seedAsCommitment(m.LeftSeed)),
		PlayerRightSeed: commitment.Hex(seedAsCommitment(m.RightSeed)),
	}

	if m.Persist != nil {
		if err := m.Persist.SaveMatch(ctx, out); err != nil {
			log.Printf("[producer] failed to persist match %d: %v", m.GameID, err)
		}
	}

	return out, nil
}
