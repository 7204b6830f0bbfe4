package fir

import (
	"github.com/tphakala/go-fir/internal/fixedpoint"
	"github.com/tphakala/go-fir/internal/kernel"
)

// Q15 is a fixed-point sample with 1 sign bit and 15 fractional bits,
// covering [-1, 1). Arithmetic on Q15 saturates.
type Q15 = fixedpoint.Q15

// Q31 is a fixed-point sample with 1 sign bit and 31 fractional bits,
// covering [-1, 1). Arithmetic on Q31 saturates.
type Q31 = fixedpoint.Q31

// Sample is the type constraint for the supported numeric domains.
type Sample = kernel.Sample

// Format bounds.
const (
	MaxQ15 = fixedpoint.MaxQ15
	MinQ15 = fixedpoint.MinQ15
	MaxQ31 = fixedpoint.MaxQ31
	MinQ31 = fixedpoint.MinQ31
)

// Q15FromFloat converts x to Q15, rounding to nearest and saturating at the
// format bounds.
func Q15FromFloat(x float64) Q15 {
	return fixedpoint.Q15FromFloat(x)
}

// Q31FromFloat converts x to Q31, rounding to nearest and saturating at the
// format bounds.
func Q31FromFloat(x float64) Q31 {
	return fixedpoint.Q31FromFloat(x)
}

// FromFloat converts x to sample type S.
func FromFloat[S Sample](x float64) S {
	var s S
	switch p := any(&s).(type) {
	case *float32:
		*p = float32(x)
	case *Q15:
		*p = fixedpoint.Q15FromFloat(x)
	case *Q31:
		*p = fixedpoint.Q31FromFloat(x)
	}
	return s
}

// ToFloat converts s to float64. Fixed-point samples map to [-1, 1).
func ToFloat[S Sample](s S) float64 {
	switch v := any(s).(type) {
	case float32:
		return float64(v)
	case Q15:
		return v.Float()
	case Q31:
		return v.Float()
	}
	return 0
}

// FromFloats converts src into dst and returns the number of samples written.
func FromFloats[S Sample](dst []S, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = FromFloat[S](src[i])
	}
	return n
}

// ToFloats converts src into dst and returns the number of samples written.
func ToFloats[S Sample](dst []float64, src []S) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = ToFloat(src[i])
	}
	return n
}

// Format returns the name of the numeric domain of S: "f32", "q15" or "q31".
func Format[S Sample]() string {
	return kernel.For[S]().Format
}
