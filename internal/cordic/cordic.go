// Package cordic implements pure-integer CORDIC sine/cosine in Q16.16.
//
// All trigonometry in the match core goes through this package. The
// rotation-mode CORDIC algorithm is shift-add only; its atan(2^-i) table
// and gain constant are hardcoded rather than derived at runtime so that
// every implementation of this spec — producer, validator, guest — lands
// on bit-identical results. Recomputing sin/cos from a platform's
// floating-point math library is forbidden: float64 transcendental
// functions are not guaranteed bit-identical across compilers/platforms,
// and this system's value proposition is that guarantee.
package cordic

import "github.com/kalepail/zkp-pong/internal/fixedpoint"

// Iterations is the fixed CORDIC iteration count (~0.23 degrees of
// residual precision after reduction by the hardcoded atan table).
const Iterations = 8

// ATANQ16 is the hardcoded atan(2^-i) table in Q16.16 radians, i = 0..7.
var ATANQ16 = [Iterations]int64{51472, 30386, 16055, 8150, 4091, 2047, 1024, 512}

// KQ16 is the hardcoded CORDIC gain constant in Q16.16.
const KQ16 int64 = 39797

// PIQ16 is pi in Q16.16, used for degree-to-radian conversion.
const PIQ16 int64 = 205887

// twoPiQ16 is derived once from the hardcoded PIQ16, not recomputed from a
// float library, and used to fold an input angle into [-pi, pi).
const twoPiQ16 = 2 * PIQ16

// DegToRad converts a Q16.16 degree value to Q16.16 radians using only
// integer multiplication and division: rad = deg * PIQ16 / 180.
func DegToRad(degQ16 int64) int64 {
	return fixedpoint.Div(fixedpoint.Mul(degQ16, PIQ16), fixedpoint.FromInt(180))
}

// Result holds a CORDIC sine/cosine pair, both in Q16.16.
type Result struct {
	Sin int64
	Cos int64
}

// SinCos computes sin and cos of angleQ16 (Q16.16 radians, |angle| <= 8*pi)
// using 8 iterations of rotation-mode CORDIC.
func SinCos(angleQ16 int64) Result {
	// First fold into [-pi, pi) via Euclidean modulo (handles the full
	// |angle| <= 8*pi contract), then into [-pi/2, pi/2] so the rotation
	// loop converges, tracking a sign flip for the two excluded quadrants.
	angle := fixedpoint.EuclideanMod(angleQ16+PIQ16, twoPiQ16) - PIQ16

	negate := false
	if angle > PIQ16/2 {
		angle -= PIQ16
		negate = true
	} else if angle < -PIQ16/2 {
		angle += PIQ16
		negate = true
	}

	// Rotate by |angle| and restore the sign afterwards: the shift steps
	// round toward -infinity, so rotating by a negative angle directly
	// would not give the exact negation. This keeps sin(-x) == -sin(x)
	// and cos(-x) == cos(x) bit-for-bit; a zero angle has a zero sine.
	negAngle := angle < 0
	if negAngle {
		angle = -angle
	}

	x := KQ16
	y := int64(0)
	z := angle

	for i := 0; i < Iterations; i++ {
		var sigma int64 = 1
		if z < 0 {
			sigma = -1
		}
		xNew := x - sigma*arithShift(y, i)
		yNew := y + sigma*arithShift(x, i)
		x, y = xNew, yNew
		if sigma > 0 {
			z -= ATANQ16[i]
		} else {
			z += ATANQ16[i]
		}
	}

	cos, sin := x, y
	if angle == 0 {
		sin = 0
	}
	if negAngle {
		sin = -sin
	}
	if negate {
		cos, sin = -cos, -sin
	}
	return Result{Sin: sin, Cos: cos}
}

// arithShift performs y >> i with sign extension (Go's native >> on a
// signed int64 is already arithmetic, but the name documents the CORDIC
// step for readability).
func arithShift(v int64, i int) int64 {
	return v >> uint(i)
}
