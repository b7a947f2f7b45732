package validator

import (
	"strconv"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/kalepail/zkp-pong/internal/commitment"
	"github.com/kalepail/zkp-pong/internal/engine"
	"github.com/kalepail/zkp-pong/internal/fixedpoint"
	"github.com/kalepail/zkp-pong/pkg/models"
)

func seedFrom(fill byte, nonzero int) commitment.Seed {
	var s commitment.Seed
	for i := 0; i < nonzero && i < len(s); i++ {
		s[i] = fill
	}
	return s
}

// buildLog drives the engine exactly like a producer would, committing
// to each logged Y with the given seeds, and appends an entry on every
// paddle-plane event until the match ends or maxPairs is reached.
// forceMiss, when true, deliberately dodges every ball so the match
// proceeds purely by alternating misses.
func buildLog(t *testing.T, gameID uint32, leftSeed, rightSeed commitment.Seed, forceMiss bool, maxPairs int) models.CompactLog {
	t.Helper()

	var events []string
	var commitments []string

	s := engine.Serve(0, gameID, engine.InitialServeDirection, 0)
	var leftScore, rightScore uint32
	idx := 0

	for pairIdx := 0; pairIdx < maxPairs; pairIdx++ {
		dt, err := engine.TimeToPaddle(s)
		if err != nil {
			t.Fatalf("TimeToPaddle: %v", err)
		}
		yAtHit := engine.YAtHit(s, dt)
		maxDelta := fixedpoint.Mul(engine.PaddleMaxSpeedQ, dt)

		loggedL := s.LeftY
		loggedR := s.RightY

		receiver := s.ReceiverSide()
		if forceMiss {
			missY := chooseMissY(s.PaddleY(receiver), yAtHit, maxDelta)
			if receiver == engine.Left {
				loggedL = missY
			} else {
				loggedR = missY
			}
		} else {
			if receiver == engine.Left {
				loggedL = yAtHit
			} else {
				loggedR = yAtHit
			}
		}

		events = append(events, strconv.FormatInt(loggedL, 10), strconv.FormatInt(loggedR, 10))

		leftSeedIdx := uint32(idx)
		rightSeedIdx := uint32(idx + 1)
		commitments = append(commitments,
			commitment.Hex(commitment.Compute(leftSeed, leftSeedIdx, loggedL)),
			commitment.Hex(commitment.Compute(rightSeed, rightSeedIdx, loggedR)),
		)
		idx += 2

		result, err := engine.Step(s, loggedL, loggedR)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		if result.Hit {
			s = result.Next
			continue
		}

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
		s = engine.Serve(len(events), gameID, newDir, result.THit)
	}

	return models.CompactLog{
		V:               1,
		GameID:          gameID,
		Events:          events,
		Commitments:     commitments,
		PlayerLeftSeed:  commitment.Hex(asHash(leftSeed)),
		PlayerRightSeed: commitment.Hex(asHash(rightSeed)),
	}
}

func asHash(seed commitment.Seed) (h chainhash.Hash) {
	copy(h[:], seed[:])
	return h
}

func chooseMissY(prevY, yAtHit, maxDelta int64) int64 {
	margin := engine.HitLimitQ + fixedpoint.FromInt(2)
	for _, candidate := range []int64{yAtHit + margin, yAtHit - margin} {
		clamped := fixedpoint.ClampPaddleY(candidate, engine.PaddleHalfQ, engine.HeightQ)
		if clamped != candidate {
			continue
		}
		if fixedpoint.Abs(clamped-prevY) > maxDelta {
			continue
		}
		if fixedpoint.Abs(clamped-yAtHit) <= engine.HitLimitQ {
			continue
		}
		return clamped
	}
	if prevY+maxDelta <= engine.HeightQ-engine.PaddleHalfQ {
		return fixedpoint.ClampPaddleY(prevY+maxDelta, engine.PaddleHalfQ, engine.HeightQ)
	}
	return fixedpoint.ClampPaddleY(prevY-maxDelta, engine.PaddleHalfQ, engine.HeightQ)
}

func TestValidateLogEmptyEvents(t *testing.T) {
	log := models.CompactLog{
		V:               1,
		GameID:          0,
		Events:          []string{},
		Commitments:     []string{},
		PlayerLeftSeed:  strings.Repeat("00", 32),
		PlayerRightSeed: strings.Repeat("ff", 32),
	}
	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for empty log")
	}
	if out.Reason == nil || !strings.Contains(*out.Reason, "No events provided") {
		t.Errorf("reason = %v, want to contain %q", out.Reason, "No events provided")
	}
}

func TestValidateLogOddEventCount(t *testing.T) {
	log := models.CompactLog{
		V:               1,
		GameID:          0,
		Events:          []string{"1030792151040"},
		Commitments:     []string{strings.Repeat("ab", 32)},
		PlayerLeftSeed:  strings.Repeat("11", 32),
		PlayerRightSeed: strings.Repeat("22", 32),
	}
	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for odd event count")
	}
	if out.Reason == nil || !strings.Contains(*out.Reason, "Malformed") {
		t.Errorf("reason = %v, want to contain %q", out.Reason, "Malformed")
	}
}

func TestValidateLogCapacityExceeded(t *testing.T) {
	n := engine.MaxEvents + 2
	events := make([]string, n)
	commitments := make([]string, n)
	for i := range events {
		events[i] = "0"
		commitments[i] = strings.Repeat("00", 32)
	}
	log := models.CompactLog{
		V:               1,
		GameID:          0,
		Events:          events,
		Commitments:     commitments,
		PlayerLeftSeed:  strings.Repeat("33", 32),
		PlayerRightSeed: strings.Repeat("44", 32),
	}
	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for event count exceeding MAX_EVENTS")
	}
}

func TestValidateLogIdenticalSeeds(t *testing.T) {
	sameSeed := strings.Repeat("55", 32)
	log := buildLog(t, 1, seedFrom(0x55, 32), seedFrom(0x55, 32), false, 1)
	log.PlayerLeftSeed = sameSeed
	log.PlayerRightSeed = sameSeed
	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for identical seeds")
	}
	if out.Reason == nil || !strings.Contains(*out.Reason, "unique commitment seeds") {
		t.Errorf("reason = %v, want to contain %q", out.Reason, "unique commitment seeds")
	}
}

func TestValidateLogLowEntropySeed(t *testing.T) {
	log := buildLog(t, 2, seedFrom(0xAB, 3), seedFrom(0xCD, 32), false, 1)
	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for low-entropy left seed")
	}
	if out.Reason == nil || !strings.Contains(*out.Reason, "insufficient entropy") {
		t.Errorf("reason = %v, want to contain %q", out.Reason, "insufficient entropy")
	}
}

func TestValidateLogSpeedViolation(t *testing.T) {
	leftSeed := seedFrom(0x11, 32)
	rightSeed := seedFrom(0x22, 32)
	events := []int64{1030792151040, 1030792151040, 1030792151040, 2000000000000}
	commitments := make([]string, 4)
	for i, y := range events {
		seed := leftSeed
		if i%2 == 1 {
			seed = rightSeed
		}
		commitments[i] = commitment.Hex(commitment.Compute(seed, uint32(i), y))
	}
	eventStrs := make([]string, 4)
	for i, y := range events {
		eventStrs[i] = strconv.FormatInt(y, 10)
	}
	log := models.CompactLog{
		V:               1,
		GameID:          0,
		Events:          eventStrs,
		Commitments:     commitments,
		PlayerLeftSeed:  commitment.Hex(asHash(leftSeed)),
		PlayerRightSeed: commitment.Hex(asHash(rightSeed)),
	}
	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for implausible paddle speed")
	}
	if out.Reason == nil || !strings.Contains(*out.Reason, "too fast") {
		t.Errorf("reason = %v, want to contain %q", out.Reason, "too fast")
	}
}

func TestValidateLogWinningGame(t *testing.T) {
	log := buildLog(t, 42, seedFrom(0x7a, 32), seedFrom(0x3c, 32), true, 20)
	out := ValidateLog(log)
	if !out.Fair {
		t.Fatalf("expected a fair result, got reason=%v", out.Reason)
	}
	if out.LeftScore+out.RightScore != 5 {
		t.Errorf("leftScore+rightScore = %d, want 5", out.LeftScore+out.RightScore)
	}
	if out.LeftScore != engine.PointsToWin && out.RightScore != engine.PointsToWin {
		t.Errorf("neither side reached PointsToWin: left=%d right=%d", out.LeftScore, out.RightScore)
	}
	if out.LeftScore == out.RightScore {
		t.Errorf("scores must not tie: left=%d right=%d", out.LeftScore, out.RightScore)
	}
}

func TestValidateLogTamperedCommitment(t *testing.T) {
	log := buildLog(t, 9, seedFrom(0x91, 32), seedFrom(0x19, 32), false, 5)
	if len(log.Commitments) < 6 {
		t.Fatalf("test setup needs at least 6 commitments, got %d", len(log.Commitments))
	}
	// Overwrite the first hex character (the high nibble of byte 0) at index 5.
	tampered := []byte(log.Commitments[5])
	if tampered[0] == 'f' {
		tampered[0] = '0'
	} else {
		tampered[0] = 'f'
	}
	log.Commitments[5] = string(tampered)

	out := ValidateLog(log)
	if out.Fair {
		t.Fatalf("expected rejection for tampered commitment")
	}
	if out.Reason == nil || !strings.Contains(*out.Reason, "index 5") {
		t.Errorf("reason = %v, want to contain %q", out.Reason, "index 5")
	}
}

func TestValidateInputMatchesValidateLog(t *testing.T) {
	log := buildLog(t, 13, seedFrom(0xa1, 32), seedFrom(0xb2, 32), true, 20)

	full := ValidateLog(log)
	if !full.Fair {
		t.Fatalf("expected ValidateLog to accept, got reason=%v", full.Reason)
	}

	events := make([]int64, len(log.Events))
	for i, s := range log.Events {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		events[i] = v
	}
	guest := ValidateInput(models.ValidateLogInput{GameID: log.GameID, Events: events})
	if !guest.Fair {
		t.Fatalf("expected ValidateInput to accept, got reason=%v", guest.Reason)
	}
	if guest.LeftScore != full.LeftScore || guest.RightScore != full.RightScore {
		t.Errorf("guest scores (%d,%d) != host scores (%d,%d)", guest.LeftScore, guest.RightScore, full.LeftScore, full.RightScore)
	}
	if guest.LogHashSHA256 != full.LogHashSHA256 {
		t.Errorf("guest and host log hashes diverge")
	}
}
