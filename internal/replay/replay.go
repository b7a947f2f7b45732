// Package replay drives a CompactLog through the kinematic engine at
// wall-clock speed so an observer can watch a finished match, the way
// the teacher's shadow runner replays production data against a second
// code path for comparison — except here there is only one code path:
// replay must reach the exact scores the validator reaches, or the bug
// is in replay, never in the log.
package replay

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kalepail/zkp-pong/internal/engine"
	"github.com/kalepail/zkp-pong/internal/validator"
	"github.com/kalepail/zkp-pong/pkg/models"
)

// Snapshot is one paddle-plane event, timestamped for display.
type Snapshot struct {
	EventIndex int
	LeftY      string
	RightY     string
	LeftScore  uint32
	RightScore uint32
	ElapsedSec float64
}

// Driver replays a log event-by-event, pacing emission to the logged
// inter-event timing (optionally scaled by Speed) and never mutating
// the log it reads from.
type Driver struct {
	// Speed scales wall-clock pacing: 1.0 is real-time, 2.0 is double
	// speed, 0 (the zero value) means emit as fast as possible.
	Speed float64
}

// Run replays log, invoking onEvent for each paddle-plane event in
// order, and returns the same ValidateLogOutput the validator would —
// computed by the validator directly, never re-derived here, so replay
// can never silently disagree with it.
func (d Driver) Run(ctx context.Context, log models.CompactLog, onEvent func(Snapshot)) (models.ValidateLogOutput, error) {
	result := validator.ValidateLog(log)

	events := make([]int64, len(log.Events))
	for i, s := range log.Events {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return result, fmt.Errorf("replay: event %d is not a valid integer: %q", i, s)
		}
		events[i] = v
	}

	pairs := len(events) / 2
	s := engine.Serve(0, log.GameID, engine.InitialServeDirection, 0)
	var leftScore, rightScore uint32

	for pairIdx := 0; pairIdx < pairs; pairIdx++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		loggedL := events[2*pairIdx]
		loggedR := events[2*pairIdx+1]

		step, err := engine.Step(s, loggedL, loggedR)
		if err != nil {
			return result, fmt.Errorf("replay: diverged from validator at pair %d: %w", pairIdx, err)
		}

		receiver := s.ReceiverSide()
		if !step.Hit {
			if receiver == engine.Left {
				rightScore++
			} else {
				leftScore++
			}
		}

		if onEvent != nil {
			onEvent(Snapshot{
				EventIndex: pairIdx,
				LeftY:      strconv.FormatInt(loggedL, 10),
				RightY:     strconv.FormatInt(loggedR, 10),
				LeftScore:  leftScore,
				RightScore: rightScore,
				ElapsedSec: q16ToFloat(step.THit),
			})
		}

		if d.pace(ctx, step.Dt) {
			return result, ctx.Err()
		}

		if step.Hit {
			s = step.Next
			continue
		}
		if leftScore == engine.PointsToWin || rightScore == engine.PointsToWin {
			break
		}
		newDir := -1
		if receiver == engine.Left {
			newDir = 1
		}
		s = engine.Serve(2*(pairIdx+1), log.GameID, newDir, step.THit)
	}

	if leftScore != result.LeftScore || rightScore != result.RightScore {
		return result, fmt.Errorf("replay: final scores (%d,%d) diverge from validator's (%d,%d) — this is a bug in replay",
			leftScore, rightScore, result.LeftScore, result.RightScore)
	}

	return result, nil
}

// pace sleeps for dtQ16 (Q16.16 seconds) scaled by d.Speed, or returns
// true immediately if ctx is cancelled during the wait.
func (d Driver) pace(ctx context.Context, dtQ16 int64) bool {
	if d.Speed <= 0 {
		return false
	}
	wait := time.Duration(q16ToFloat(dtQ16) / d.Speed * float64(time.Second))
	if wait <= 0 {
		return false
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return true
	case <-timer.C:
		return false
	}
}

func q16ToFloat(v int64) float64 {
	return float64(v) / 65536.0
}
