// Package fixedpoint implements Q16.16 signed fixed-point arithmetic.
//
// Every quantity that feeds the kinematic engine or crosses the producer/
// validator/guest boundary is a Q16.16 scalar: a signed 64-bit integer
// scaled by 2^16. Multiplication widens to 128 bits before shifting back
// down so the square of a Q16.16 value never overflows the native int64
// range. Apart from FromFloatConst, which is for hardcoded constants only,
// no operation in this package touches float64 — that boundary is owned
// by the (out-of-scope) rendering layer, never by physics.
package fixedpoint

import "math/bits"

// Shift is the number of fractional bits in a Q16.16 scalar.
const Shift = 16

// One is the Q16.16 representation of the integer 1.
const One int64 = 1 << Shift

// Q16 is a signed fixed-point scalar scaled by 2^16.
type Q16 = int64

// FromInt converts an integer pixel/unit count to Q16.16.
func FromInt(n int64) Q16 {
	return n << Shift
}

// ToInt converts a Q16.16 value back to an integer with an arithmetic
// shift, rounding toward negative infinity.
func ToInt(q Q16) int64 {
	return q >> Shift
}

// FromFloatConst converts a float64 literal to Q16.16. This must only be
// called at package-initialization time against hardcoded constants (e.g.
// degree-to-radian conversion tables); it must never be applied to a value
// derived from runtime physics.
func FromFloatConst(f float64) Q16 {
	return int64(f * float64(One))
}

// Mul multiplies two Q16.16 values, widening the product to a true signed
// 128-bit value before taking an arithmetic right shift by Shift — not a
// round-toward-zero divide. bits.Mul64 only computes the unsigned product
// of the two 64-bit bit patterns, so a negative operand's high word is
// corrected by subtracting the other (bit-pattern) operand, the standard
// trick for recovering a signed 128-bit product from an unsigned widening
// multiply. The low 64 bits of (hi:lo) >> Shift are then exactly the
// arithmetic shift of the full 128-bit product, floored toward -infinity
// for negative products the same way a real 128-bit shift would be.
func Mul(a, b Q16) Q16 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	if a < 0 {
		hi -= uint64(b)
	}
	if b < 0 {
		hi -= uint64(a)
	}
	return int64((lo >> Shift) | (hi << (64 - Shift)))
}

// Div divides a by b in Q16.16: the dividend is widened to 128 bits and
// shifted left by Shift before a native signed division, so a large
// intermediate numerator cannot silently overflow int64 the way a bare
// "(a << Shift) / b" would.
func Div(a, b Q16) Q16 {
	if b == 0 {
		panic("fixedpoint: division by zero")
	}
	hi, lo := bits.Mul64(uint64(absI64(a)), uint64(1)<<Shift)
	quotient, _ := bits.Div64(hi, lo, uint64(absI64(b)))
	result := int64(quotient)
	if (a < 0) != (b < 0) {
		result = -result
	}
	return result
}

// Abs returns the absolute value of a Q16.16 scalar.
func Abs(a Q16) Q16 {
	return absI64(a)
}

// Min returns the smaller of two Q16.16 scalars.
func Min(a, b Q16) Q16 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two Q16.16 scalars.
func Max(a, b Q16) Q16 {
	if a > b {
		return a
	}
	return b
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi Q16) Q16 {
	return Max(lo, Min(hi, v))
}

func absI64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// EuclideanMod returns a mod n with the result always in [0, n), correcting
// for Go's native '%' which may return a negative remainder for a negative
// dividend. n must be positive.
func EuclideanMod(a, n int64) int64 {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}

// Reflect1D computes the analytic position of a value bouncing elastically
// between minY and maxY, starting at y0 moving at velocity vy for elapsed
// time dt (all Q16.16). This closed form replaces any per-bounce iteration.
func Reflect1D(y0, vy, dt, minY, maxY Q16) Q16 {
	span := maxY - minY
	if span <= 0 {
		return y0
	}
	period := 2 * span
	raw := y0 + Mul(vy, dt) - minY
	y := EuclideanMod(raw, period)
	if y > span {
		return maxY - (y - span)
	}
	return minY + y
}

// ClampPaddleY restricts a paddle's center Y to [half, height-half].
func ClampPaddleY(y, half, height Q16) Q16 {
	return Clamp(y, half, height-half)
}
