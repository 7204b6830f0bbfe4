// Package fixedpoint implements the Q15 and Q31 sample formats with
// saturating arithmetic.
//
// Both formats carry one sign bit and N fractional bits and represent values
// in [-1, 1). Every operation saturates at the format bounds instead of
// wrapping.
package fixedpoint

import "math"

// Format parameters.
const (
	q15FracBits = 15
	q31FracBits = 31

	q15Scale = 1 << q15FracBits
	q31Scale = 1 << q31FracBits
)

// Q15 is a signed fixed-point value with 15 fractional bits.
type Q15 int16

// Q31 is a signed fixed-point value with 31 fractional bits.
type Q31 int32

// Format bounds.
const (
	MaxQ15 Q15 = math.MaxInt16
	MinQ15 Q15 = math.MinInt16
	MaxQ31 Q31 = math.MaxInt32
	MinQ31 Q31 = math.MinInt32
)

// Sat16 clamps a 32-bit intermediate to the Q15 range.
func Sat16(a int32) Q15 {
	if a > math.MaxInt16 {
		return MaxQ15
	} else if a < math.MinInt16 {
		return MinQ15
	}
	return Q15(a)
}

// Sat32 clamps a 64-bit intermediate to the Q31 range.
func Sat32(a int64) Q31 {
	if a > math.MaxInt32 {
		return MaxQ31
	} else if a < math.MinInt32 {
		return MinQ31
	}
	return Q31(a)
}

// AddSat64 adds two int64 values, clamping at the int64 bounds on overflow.
func AddSat64(a, b int64) int64 {
	s := a + b
	// Overflow iff both operands share a sign that differs from the result.
	if (a^s)&(b^s) < 0 {
		if a < 0 {
			return math.MinInt64
		}
		return math.MaxInt64
	}
	return s
}

// Q15FromFloat converts x to Q15, rounding to nearest and saturating.
func Q15FromFloat(x float64) Q15 {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * q15Scale)
	if v >= math.MaxInt16 {
		return MaxQ15
	} else if v <= math.MinInt16 {
		return MinQ15
	}
	return Q15(v)
}

// Q31FromFloat converts x to Q31, rounding to nearest and saturating.
func Q31FromFloat(x float64) Q31 {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * q31Scale)
	if v >= math.MaxInt32 {
		return MaxQ31
	} else if v <= math.MinInt32 {
		return MinQ31
	}
	return Q31(v)
}

// Float returns the value of q as a float64 in [-1, 1).
func (q Q15) Float() float64 {
	return float64(q) / q15Scale
}

// Float returns the value of q as a float64 in [-1, 1).
func (q Q31) Float() float64 {
	return float64(q) / q31Scale
}

// Add returns the saturated sum q + r.
func (q Q15) Add(r Q15) Q15 {
	return Sat16(int32(q) + int32(r))
}

// Add returns the saturated sum q + r.
func (q Q31) Add(r Q31) Q31 {
	return Sat32(int64(q) + int64(r))
}

// Mul returns the saturated product q * r. Only -1 * -1 saturates.
func (q Q15) Mul(r Q15) Q15 {
	return Sat16((int32(q) * int32(r)) >> q15FracBits)
}

// Mul returns the saturated product q * r. Only -1 * -1 saturates.
func (q Q31) Mul(r Q31) Q31 {
	return Sat32((int64(q) * int64(r)) >> q31FracBits)
}

// DotQ15 returns the saturated Q15 result of sum(a[i] * b[i]).
// Products are accumulated at full Q30 precision in 64 bits and only the
// final result is shifted back and clamped, so intermediate sums never wrap.
// b must be at least as long as a.
func DotQ15(a, b []Q15) Q15 {
	b = b[:len(a)]
	var acc int64
	for i, x := range a {
		acc += int64(x) * int64(b[i])
	}
	return sat16Wide(acc >> q15FracBits)
}

// DotQ31 returns the saturated Q31 result of sum(a[i] * b[i]).
// Q62 products are accumulated with saturating 64-bit addition.
// b must be at least as long as a.
func DotQ31(a, b []Q31) Q31 {
	b = b[:len(a)]
	var acc int64
	for i, x := range a {
		acc = AddSat64(acc, int64(x)*int64(b[i]))
	}
	return Sat32(acc >> q31FracBits)
}

func sat16Wide(a int64) Q15 {
	if a > math.MaxInt16 {
		return MaxQ15
	} else if a < math.MinInt16 {
		return MinQ15
	}
	return Q15(a)
}
