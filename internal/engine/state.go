package engine

import "github.com/kalepail/zkp-pong/internal/fixedpoint"

// Side identifies a paddle side.
type Side int

const (
	Left Side = iota
	Right
)

// FixState is the per-rally kinematic snapshot. It is created at each
// serve, mutated only at paddle-plane events, and discarded at terminal
// score. The engine owns it exclusively for the life of a rally; no
// aliasing across goroutines is required or permitted.
type FixState struct {
	T0 int64 // Q16.16 seconds, time origin of this segment

	X, Y   int64 // Q16.16 pixels, ball position
	VX, VY int64 // Q16.16 px/s, ball velocity
	Speed  int64 // Q16.16 px/s, scalar ball speed

	LeftY, RightY int64 // Q16.16 pixels, paddle center positions

	Dir int // +1 = ball travelling right (toward Right paddle), -1 = toward Left
}

// PaddleMotion models one paddle ramping linearly toward a target Y at
// PaddleMaxSpeed. It is evaluated analytically for any t >= T0 — there is
// no per-tick simulation loop.
type PaddleMotion struct {
	Y0     int64 // Q16.16, position at T0
	T0     int64 // Q16.16 seconds
	Target int64 // Q16.16, destination Y
}

// PaddleYAt returns the paddle's Y position at time t (Q16.16 seconds),
// clamped to the board. t must be >= m.T0.
func PaddleYAt(m PaddleMotion, t int64) int64 {
	dt := t - m.T0
	if dt < 0 {
		dt = 0
	}
	delta := m.Target - m.Y0
	maxStep := fixedpoint.Mul(PaddleMaxSpeedQ, dt)
	var step int64
	if delta < 0 {
		step = -fixedpoint.Min(-delta, maxStep)
	} else {
		step = fixedpoint.Min(delta, maxStep)
	}
	y := m.Y0 + step
	return fixedpoint.ClampPaddleY(y, PaddleHalfQ, HeightQ)
}

// ReceiverSide returns the side the ball is currently travelling toward —
// the side whose Y is compared against the ball's Y for hit/miss.
func (s FixState) ReceiverSide() Side {
	if s.Dir < 0 {
		return Left
	}
	return Right
}

// PaddleY returns the logged Y for the given side in this state.
func (s FixState) PaddleY(side Side) int64 {
	if side == Left {
		return s.LeftY
	}
	return s.RightY
}
