package engine

import (
	"errors"

	"github.com/kalepail/zkp-pong/internal/cordic"
	"github.com/kalepail/zkp-pong/internal/fixedpoint"
)

// Sentinel errors for impossible-physics conditions. The engine fails fast
// on these; the validator catches the same conditions earlier with a
// cleaner, indexed message — callers of the engine directly should treat
// these as bugs in the caller, not recoverable match outcomes.
var (
	ErrZeroVX         = errors.New("engine: vx is zero while ball in play")
	ErrNonPositiveDt  = errors.New("engine: non-positive time to paddle plane")
	ErrNonPositiveLim = errors.New("engine: non-positive bounce limit")
)

// targetX returns the paddle-plane X coordinate the ball is travelling
// toward, given its current direction.
func targetX(dir int) int64 {
	if dir < 0 {
		return PaddleMargQ + PaddleWQ + BallRadQ
	}
	return WidthQ - (PaddleMargQ + PaddleWQ) - BallRadQ
}

// ServeAngleDeg computes the deterministic serve angle, in whole Q16.16
// degrees, for serve index k and game ID gameID (spec.md §4.4).
func ServeAngleDeg(k int, gameID uint32) int64 {
	entropy := int32(uint32(k) + gameID) // wraps to 32-bit signed
	angleRaw := fixedpoint.EuclideanMod(int64(entropy)*ServeAngleMult, AngleRange) - MaxBounceAngleDeg
	return fixedpoint.FromInt(angleRaw)
}

// Serve returns the FixState for a new rally: serve index k, receiver
// direction dir (+1 or -1), beginning at absolute time t0 (Q16.16
// seconds). The ball starts centered; paddles start centered; speed is
// ServeSpeed.
func Serve(k int, gameID uint32, dir int, t0 int64) FixState {
	angleDeg := ServeAngleDeg(k, gameID)
	rad := cordic.DegToRad(angleDeg)
	trig := cordic.SinCos(rad)

	vx := fixedpoint.Mul(ServeSpeedQ, trig.Cos)
	if dir < 0 {
		vx = -vx
	}
	vy := fixedpoint.Mul(ServeSpeedQ, trig.Sin)

	return FixState{
		T0:     t0,
		X:      WidthQ / 2,
		Y:      HeightQ / 2,
		VX:     vx,
		VY:     vy,
		Speed:  ServeSpeedQ,
		LeftY:  HeightQ / 2,
		RightY: HeightQ / 2,
		Dir:    dir,
	}
}

// TimeToPaddle returns the strictly-positive Q16.16 seconds until the
// ball crosses the receiving paddle's plane from state s.
func TimeToPaddle(s FixState) (int64, error) {
	if s.VX == 0 {
		return 0, ErrZeroVX
	}
	tx := targetX(s.Dir)
	dt := fixedpoint.Div(tx-s.X, s.VX)
	if dt <= 0 {
		return 0, ErrNonPositiveDt
	}
	return dt, nil
}

// YAtHit returns the ball's Y position (Q16.16) when it reaches the
// paddle plane, dt seconds after state s.
func YAtHit(s FixState, dt int64) int64 {
	return fixedpoint.Reflect1D(s.Y, s.VY, dt, BallMinYQ, BallMaxYQ)
}

// IsHit reports whether the receiver's logged paddle Y is within hit
// range of the ball's Y at the paddle plane.
func IsHit(receiverLoggedY, yAtHit int64) bool {
	return fixedpoint.Abs(receiverLoggedY-yAtHit) <= HitLimitQ
}

// Bounce computes the post-bounce velocity and speed after the ball
// strikes the receiver's paddle at yAtHit, given the receiver's logged
// paddle Y and the pre-bounce state s (for its direction and speed).
func Bounce(s FixState, yAtHit, receiverLoggedY int64) (vx, vy, newSpeed int64, err error) {
	limit := HitLimitQ
	if limit <= 0 {
		return 0, 0, 0, ErrNonPositiveLim
	}
	offset := fixedpoint.Clamp(yAtHit-receiverLoggedY, -limit, limit)
	norm := fixedpoint.Div(offset, limit)
	angleDeg := fixedpoint.Clamp(fixedpoint.Mul(norm, MaxBounceAngleDegQ), -MaxBounceAngleDegQ, MaxBounceAngleDegQ)

	newSpeed = s.Speed + SpeedIncQ
	newDir := -s.Dir

	rad := cordic.DegToRad(angleDeg)
	trig := cordic.SinCos(rad)

	vx = fixedpoint.Mul(newSpeed, trig.Cos)
	if newDir < 0 {
		vx = -vx
	}
	vy = fixedpoint.Mul(newSpeed, trig.Sin)
	return vx, vy, newSpeed, nil
}

// StepResult captures the outcome of advancing one rally segment to its
// next paddle-plane event.
type StepResult struct {
	Dt     int64
	THit   int64
	YAtHit int64
	Hit    bool
	Next   FixState // valid only when Hit is true
}

// Step advances state s to the next paddle-plane event using the already-
// decided logged paddle positions for that event (loggedLeftY,
// loggedRightY — supplied by the producer's planner or read back from a
// log by the validator). This single function is shared, verbatim, by the
// producer's forward simulation and the validator's replay so the two can
// never diverge in how they turn logged positions into physics.
func Step(s FixState, loggedLeftY, loggedRightY int64) (StepResult, error) {
	dt, err := TimeToPaddle(s)
	if err != nil {
		return StepResult{}, err
	}
	tHit := s.T0 + dt
	yAtHit := YAtHit(s, dt)

	receiverY := loggedRightY
	if s.Dir < 0 {
		receiverY = loggedLeftY
	}
	hit := IsHit(receiverY, yAtHit)

	result := StepResult{Dt: dt, THit: tHit, YAtHit: yAtHit, Hit: hit}
	if !hit {
		return result, nil
	}

	vx, vy, newSpeed, err := Bounce(s, yAtHit, receiverY)
	if err != nil {
		return StepResult{}, err
	}
	result.Next = FixState{
		T0:     tHit,
		X:      targetX(s.Dir),
		Y:      yAtHit,
		VX:     vx,
		VY:     vy,
		Speed:  newSpeed,
		LeftY:  loggedLeftY,
		RightY: loggedRightY,
		Dir:    -s.Dir,
	}
	return result, nil
}
