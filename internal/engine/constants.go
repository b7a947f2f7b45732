// Package engine implements the event-driven kinematic core: analytic
// between-event motion, reflective wall bouncing, paddle-plane event
// timing, hit/miss geometry, and angled rebound. It is pure, synchronous,
// and performs no I/O — the producer, validator, and guest packages all
// drive the same state machine defined here so their results can never
// diverge.
package engine

import "github.com/kalepail/zkp-pong/internal/fixedpoint"

// Domain constants, identical on producer and validator — changing one
// without the other breaks every previously-logged match. They are
// defined once here, package-level and read-only, and imported by every
// other package that needs them (never redefined locally).
const (
	Width      int64 = 800
	Height     int64 = 480
	PaddleH    int64 = 80
	PaddleW    int64 = 10
	PaddleMarg int64 = 16
	BallRadius int64 = 6

	PaddleMaxSpeed int64 = 200 // px/s
	ServeSpeed     int64 = 500 // px/s
	SpeedIncrement int64 = 50  // px/s

	MaxBounceAngleDeg int64 = 60
	AngleRange        int64 = 121
	ServeAngleMult    int64 = 37

	PointsToWin            = 3
	InitialServeDirection  = 1
	MaxEvents              = 10000
)

// Q16.16 versions of the integer constants above, computed once at
// package-init from the hardcoded integers (never from a runtime value).
var (
	WidthQ      = fixedpoint.FromInt(Width)
	HeightQ     = fixedpoint.FromInt(Height)
	PaddleHQ    = fixedpoint.FromInt(PaddleH)
	PaddleWQ    = fixedpoint.FromInt(PaddleW)
	PaddleMargQ = fixedpoint.FromInt(PaddleMarg)
	BallRadQ    = fixedpoint.FromInt(BallRadius)

	PaddleMaxSpeedQ = fixedpoint.FromInt(PaddleMaxSpeed)
	ServeSpeedQ     = fixedpoint.FromInt(ServeSpeed)
	SpeedIncQ       = fixedpoint.FromInt(SpeedIncrement)

	MaxBounceAngleDegQ = fixedpoint.FromInt(MaxBounceAngleDeg)

	PaddleHalfQ = PaddleHQ / 2

	// HitLimitQ is PADDLE_HEIGHT/2 + BALL_RADIUS, the maximum distance
	// between ball and paddle center that still counts as a hit.
	HitLimitQ = PaddleHalfQ + BallRadQ

	// BallMinYQ/BallMaxYQ bound the ball center for wall reflection.
	BallMinYQ = BallRadQ
	BallMaxYQ = HeightQ - BallRadQ
)
