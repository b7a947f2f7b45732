package engine

import "testing"

func TestServeAngleDegWithinBounds(t *testing.T) {
	for k := 0; k < 500; k++ {
		deg := ServeAngleDeg(k, 7)
		degInt := deg >> 16
		if degInt < -MaxBounceAngleDeg || degInt > MaxBounceAngleDeg {
			t.Fatalf("serve angle %d out of range at k=%d", degInt, k)
		}
	}
}

func TestServeAngleDegDeterministic(t *testing.T) {
	a := ServeAngleDeg(12, 99)
	b := ServeAngleDeg(12, 99)
	if a != b {
		t.Errorf("ServeAngleDeg not deterministic: %d != %d", a, b)
	}
}

func TestServeProducesNonZeroVX(t *testing.T) {
	s := Serve(0, 1, 1, 0)
	if s.VX == 0 {
		t.Fatalf("serve produced zero VX, ball would never reach a paddle plane")
	}
	if s.X != WidthQ/2 || s.Y != HeightQ/2 {
		t.Errorf("serve should start centered, got (%d,%d)", s.X, s.Y)
	}
	if s.Speed != ServeSpeedQ {
		t.Errorf("serve speed = %d, want %d", s.Speed, ServeSpeedQ)
	}
}

func TestServeDirectionFlipsVXSign(t *testing.T) {
	right := Serve(3, 5, 1, 0)
	left := Serve(3, 5, -1, 0)
	if right.VX <= 0 {
		t.Errorf("dir=1 serve should have positive VX, got %d", right.VX)
	}
	if left.VX >= 0 {
		t.Errorf("dir=-1 serve should have negative VX, got %d", left.VX)
	}
}

func TestTimeToPaddleZeroVX(t *testing.T) {
	s := FixState{X: WidthQ / 2, VX: 0, Dir: 1}
	if _, err := TimeToPaddle(s); err != ErrZeroVX {
		t.Errorf("expected ErrZeroVX, got %v", err)
	}
}

func TestTimeToPaddleNonPositiveDt(t *testing.T) {
	// Ball already past the right paddle plane, still moving right: dt <= 0.
	s := FixState{X: WidthQ, VX: ServeSpeedQ, Dir: 1}
	if _, err := TimeToPaddle(s); err != ErrNonPositiveDt {
		t.Errorf("expected ErrNonPositiveDt, got %v", err)
	}
}

func TestTimeToPaddlePositive(t *testing.T) {
	s := Serve(0, 0, 1, 0)
	dt, err := TimeToPaddle(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dt <= 0 {
		t.Errorf("expected dt > 0, got %d", dt)
	}
}

func TestIsHitBoundary(t *testing.T) {
	if !IsHit(HitLimitQ, 0) {
		t.Errorf("exactly HitLimitQ away should count as a hit")
	}
	if IsHit(HitLimitQ+1, 0) {
		t.Errorf("one unit beyond HitLimitQ should not count as a hit")
	}
}

func TestStepHitAdvancesRally(t *testing.T) {
	s := Serve(0, 1, 1, 0)
	dt, err := TimeToPaddle(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	yAtHit := YAtHit(s, dt)

	// Receiver (right paddle, since dir=1) parks exactly on the ball.
	result, err := Step(s, HeightQ/2, yAtHit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Hit {
		t.Fatalf("expected a hit when receiver paddle matches ball Y exactly")
	}
	if result.Next.Dir != -1 {
		t.Errorf("post-bounce direction should flip, got %d", result.Next.Dir)
	}
	if result.Next.Speed != s.Speed+SpeedIncQ {
		t.Errorf("post-bounce speed = %d, want %d", result.Next.Speed, s.Speed+SpeedIncQ)
	}
	if result.Next.T0 != s.T0+dt {
		t.Errorf("post-bounce T0 = %d, want %d", result.Next.T0, s.T0+dt)
	}
}

func TestStepMissDetected(t *testing.T) {
	s := Serve(0, 1, 1, 0)
	dt, err := TimeToPaddle(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	yAtHit := YAtHit(s, dt)

	// Receiver paddle parked far from the ball: certain miss.
	farY := yAtHit + HitLimitQ + fixedpointOne()
	result, err := Step(s, HeightQ/2, clampToBoard(farY))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Hit {
		t.Fatalf("expected a miss when receiver paddle is far from the ball")
	}
}

func TestBounceAngleWithinLimit(t *testing.T) {
	s := Serve(0, 1, 1, 0)
	dt, _ := TimeToPaddle(s)
	yAtHit := YAtHit(s, dt)

	// Receiver hits at the very edge of the paddle.
	receiverY := yAtHit - HitLimitQ
	vx, vy, newSpeed, err := Bounce(s, yAtHit, receiverY)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vx == 0 && vy == 0 {
		t.Errorf("bounce should not produce zero velocity")
	}
	if newSpeed != s.Speed+SpeedIncQ {
		t.Errorf("newSpeed = %d, want %d", newSpeed, s.Speed+SpeedIncQ)
	}
}

// fixedpointOne and clampToBoard are tiny local helpers kept out of the
// fixedpoint package since they only matter to this test's miss scenario.
func fixedpointOne() int64 { return 1 << 16 }

func clampToBoard(y int64) int64 {
	if y > BallMaxYQ {
		return BallMaxYQ
	}
	if y < BallMinYQ {
		return BallMinYQ
	}
	return y
}
