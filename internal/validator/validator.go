// Package validator replays a CompactLog (or a bare guest event stream)
// against the kinematic engine and checks every invariant the producer
// is supposed to have upheld: well-formedness, commitment integrity,
// reachability, bounds, hit geometry, and termination. It never panics
// and never returns a Go error — a rejected log is reported the same
// way an accepted one is, through ValidateLogOutput.
package validator

import (
	"fmt"
	"strconv"

	"github.com/kalepail/zkp-pong/internal/commitment"
	"github.com/kalepail/zkp-pong/internal/engine"
	"github.com/kalepail/zkp-pong/internal/fixedpoint"
	"github.com/kalepail/zkp-pong/internal/guestio"
	"github.com/kalepail/zkp-pong/pkg/models"
)

func rejectOutput(eventsLen int, msg string) models.ValidateLogOutput {
	r := msg
	return models.ValidateLogOutput{
		Fair:      false,
		Reason:    &r,
		EventsLen: uint32(eventsLen),
	}
}

// ValidateLog checks a full CompactLog: seed and commitment integrity,
// then the replay (shared with ValidateInput). It is the host-side
// entrypoint — the one the CLI, the API and the replay driver call.
func ValidateLog(log models.CompactLog) models.ValidateLogOutput {
	n := len(log.Events)

	if log.V != 1 {
		return rejectOutput(n, reject(CategoryMalformedInput, map[string]any{"field": "v", "got": log.V}))
	}
	if n == 0 {
		return rejectOutput(n, rejectText("No events provided", nil))
	}
	if n%2 != 0 {
		return rejectOutput(n, rejectText("Malformed events length", map[string]any{"length": n}))
	}
	if n > engine.MaxEvents {
		return rejectOutput(n, reject(CategoryCapacityExceeded, map[string]any{"length": n, "max": engine.MaxEvents}))
	}
	if len(log.Commitments) != n {
		return rejectOutput(n, reject(CategoryMalformedInput, map[string]any{
			"field": "commitments", "commitments_len": len(log.Commitments), "events_len": n,
		}))
	}

	leftSeed, err := commitment.ParseSeedHex(log.PlayerLeftSeed)
	if err != nil {
		return rejectOutput(n, reject(CategoryMalformedInput, map[string]any{"field": "player_left_seed", "error": err.Error()}))
	}
	rightSeed, err := commitment.ParseSeedHex(log.PlayerRightSeed)
	if err != nil {
		return rejectOutput(n, reject(CategoryMalformedInput, map[string]any{"field": "player_right_seed", "error": err.Error()}))
	}
	if leftSeed == rightSeed {
		return rejectOutput(n, rejectText("Players must use unique commitment seeds", nil))
	}
	if leftSeed.NonzeroBytes() <= 3 {
		return rejectOutput(n, rejectText("Player left seed has insufficient entropy", map[string]any{"nonzero_bytes": leftSeed.NonzeroBytes()}))
	}
	if rightSeed.NonzeroBytes() <= 3 {
		return rejectOutput(n, rejectText("Player right seed has insufficient entropy", map[string]any{"nonzero_bytes": rightSeed.NonzeroBytes()}))
	}

	events, parseOut, ok := parseEvents(n, log.Events)
	if !ok {
		return parseOut
	}

	for i := 0; i < n; i++ {
		seed := leftSeed
		if i%2 == 1 {
			seed = rightSeed
		}
		expected := commitment.Compute(seed, uint32(i), events[i])
		got, err := commitment.ParseHash(log.Commitments[i])
		if err != nil || got != expected {
			return rejectOutput(n, rejectText(fmt.Sprintf("Commitment verification failed at index %d", i), nil))
		}
	}

	return replay(log.GameID, events)
}

// ValidateInput is the guest-bound entrypoint: it has only the event
// stream and game_id, never seeds or commitments (those are checked at
// the host boundary before a log is ever turned into guest input). It
// shares the replay logic with ValidateLog verbatim.
func ValidateInput(input models.ValidateLogInput) models.ValidateLogOutput {
	n := len(input.Events)
	if n == 0 {
		return rejectOutput(n, rejectText("No events provided", nil))
	}
	if n%2 != 0 {
		return rejectOutput(n, rejectText("Malformed events length", map[string]any{"length": n}))
	}
	if n > engine.MaxEvents {
		return rejectOutput(n, reject(CategoryCapacityExceeded, map[string]any{"length": n, "max": engine.MaxEvents}))
	}
	return replay(input.GameID, input.Events)
}

// parseEvents decodes the log's decimal event strings into signed
// 64-bit integers. ok is false if any entry fails to parse, in which
// case out already carries the rejection.
func parseEvents(n int, raw []string) (events []int64, out models.ValidateLogOutput, ok bool) {
	events = make([]int64, n)
	for i, s := range raw {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, rejectOutput(n, reject(CategoryMalformedInput, map[string]any{"field": "events", "index": i, "value": s})), false
		}
		events[i] = v
	}
	return events, models.ValidateLogOutput{}, true
}

// replay drives the engine's shared Step function across every logged
// event pair, checking reachability, bounds, and hit geometry as it
// goes, then checks termination. This is the one piece of logic the
// producer's forward simulation, the host validator, and the guest all
// agree on by construction — there is no second implementation to drift
// out of sync with this one.
func replay(gameID uint32, events []int64) models.ValidateLogOutput {
	n := len(events)
	pairs := n / 2

	var leftScore, rightScore uint32
	s := engine.Serve(0, gameID, engine.InitialServeDirection, 0)
	processed := 0

	for pairIdx := 0; pairIdx < pairs; pairIdx++ {
		loggedL := events[2*pairIdx]
		loggedR := events[2*pairIdx+1]

		result, err := engine.Step(s, loggedL, loggedR)
		if err != nil {
			return rejectOutput(n, reject(CategoryKinematic, map[string]any{"index": pairIdx, "error": err.Error()}))
		}
		maxDelta := fixedpoint.Mul(engine.PaddleMaxSpeedQ, result.Dt)

		if fixedpoint.Abs(loggedL-s.LeftY) > maxDelta {
			return rejectOutput(n, reject(CategoryReachability, map[string]any{
				"side": "left", "index": pairIdx, "delta": loggedL - s.LeftY, "max": maxDelta,
			}))
		}
		if fixedpoint.Abs(loggedR-s.RightY) > maxDelta {
			return rejectOutput(n, reject(CategoryReachability, map[string]any{
				"side": "right", "index": pairIdx, "delta": loggedR - s.RightY, "max": maxDelta,
			}))
		}
		if fixedpoint.ClampPaddleY(loggedL, engine.PaddleHalfQ, engine.HeightQ) != loggedL {
			return rejectOutput(n, reject(CategoryBounds, map[string]any{"side": "left", "index": pairIdx, "y": loggedL}))
		}
		if fixedpoint.ClampPaddleY(loggedR, engine.PaddleHalfQ, engine.HeightQ) != loggedR {
			return rejectOutput(n, reject(CategoryBounds, map[string]any{"side": "right", "index": pairIdx, "y": loggedR}))
		}

		processed = pairIdx + 1

		if result.Hit {
			s = result.Next
			continue
		}

		receiver := s.ReceiverSide()
		if receiver == engine.Left {
			rightScore++
		} else {
			leftScore++
		}

		if leftScore == engine.PointsToWin || rightScore == engine.PointsToWin {
			break
		}

		newDir := -1
		if receiver == engine.Left {
			newDir = 1
		}
		s = engine.Serve(processed*2, gameID, newDir, result.THit)
	}

	if processed != pairs {
		return rejectOutput(n, reject(CategoryMalformedInput, map[string]any{
			"reason": "events continue after match end", "processed_pairs": processed, "total_pairs": pairs,
		}))
	}
	if leftScore != engine.PointsToWin && rightScore != engine.PointsToWin {
		return rejectOutput(n, reject(CategoryTermination, map[string]any{"left": leftScore, "right": rightScore}))
	}
	if leftScore > engine.PointsToWin || rightScore > engine.PointsToWin {
		return rejectOutput(n, reject(CategoryTermination, map[string]any{"left": leftScore, "right": rightScore}))
	}
	if leftScore == rightScore {
		return rejectOutput(n, reject(CategoryTermination, map[string]any{"left": leftScore, "right": rightScore}))
	}

	return models.ValidateLogOutput{
		Fair:          true,
		LeftScore:     leftScore,
		RightScore:    rightScore,
		EventsLen:     uint32(n),
		LogHashSHA256: guestio.LogHash(gameID, events),
	}
}
