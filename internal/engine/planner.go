package engine

import "github.com/kalepail/zkp-pong/internal/fixedpoint"

// mixAim derives a deterministic 32-bit value from (eventIndex, gameID)
// using an LCG step followed by an xorshift finisher — the same kind of
// small, pure, capped numeric helper as the teacher's ssmp.go subset-sum
// pruning helpers, just used here to turn two integers into one
// well-distributed 32-bit word instead of pruning a combinatorial search.
//
// Because this drives only the *producer's* receiver-aim target — never a
// value that is checked by the validator — both peers in a two-peer match
// must compute it identically so each can predict the opponent's planned
// target without waiting (spec.md §4.4/§4.7), but a validator or guest
// never needs to reproduce it.
func mixAim(eventIndex, gameID uint32) uint32 {
	const lcgMul = 1664525
	const lcgInc = 1013904223
	x := eventIndex*lcgMul + gameID + lcgInc
	x ^= x << 16
	x ^= x >> 13
	x *= 0x85ebca6b
	x ^= x >> 16
	return x
}

// aimOffset returns a deterministic offset in [-PaddleH/2, +PaddleH/2)
// pixels (as a plain integer, pre-Q16.16-scale) for the given event index
// and game ID.
func aimOffset(eventIndex, gameID uint32) int64 {
	span := PaddleH // PaddleH/2 - (-PaddleH/2) == PaddleH
	m := mixAim(eventIndex, gameID)
	return int64(m%uint32(span)) - PaddleH/2
}

// PlanTargets returns the target Y (Q16.16) for the left and right
// paddles ahead of the upcoming event: the receiver aims for the
// predicted intercept offset by aimOffset; the non-receiver returns to
// board center. Pure function of (receiver, predictedInterceptY,
// eventIndex, gameID) — no mutable planner state is kept across calls.
func PlanTargets(receiver Side, predictedInterceptY int64, eventIndex, gameID uint32) (leftTarget, rightTarget int64) {
	centerQ := HeightQ / 2
	offsetQ := fixedpoint.FromInt(aimOffset(eventIndex, gameID))
	receiverTarget := fixedpoint.ClampPaddleY(predictedInterceptY+offsetQ, PaddleHalfQ, HeightQ)

	switch receiver {
	case Left:
		return receiverTarget, centerQ
	default:
		return centerQ, receiverTarget
	}
}
