// Package kernel holds the numeric FIR primitives behind the public filter
// types.
//
// Nothing here validates buffer sizes: callers in package fir check every
// precondition before a kernel runs. A per-domain [Ops] table keeps the
// block loops generic over float32, Q15 and Q31.
package kernel

import (
	"github.com/tphakala/go-fir/internal/fixedpoint"
	"github.com/tphakala/simd/f32"
)

// Sample is the type constraint for supported sample formats.
type Sample interface {
	float32 | fixedpoint.Q15 | fixedpoint.Q31
}

// Ops describes one numeric domain.
// Function pointers let the block loops stay generic while delegating the
// multiply-accumulate to a type-specific implementation.
type Ops[S Sample] struct {
	// Format names the domain ("f32", "q15", "q31").
	Format string

	// Dot computes sum(coeffs[i] * window[i]) over len(coeffs) terms.
	// Fixed-point domains saturate the result at the format bounds.
	Dot func(coeffs, window []S) S

	// MinDirectTaps is the exclusive lower bound on the tap count of a
	// direct filter. Zero means any positive count is accepted.
	MinDirectTaps int

	// EvenDirectTaps requires an even tap count for direct filters.
	EvenDirectTaps bool
}

// q15MinTaps is the block convolution limit of the Q15 direct kernel.
const q15MinTaps = 4

var (
	opsF32 = Ops[float32]{
		Format: "f32",
		Dot:    dotF32,
	}
	opsQ15 = Ops[fixedpoint.Q15]{
		Format:         "q15",
		Dot:            fixedpoint.DotQ15,
		MinDirectTaps:  q15MinTaps,
		EvenDirectTaps: true,
	}
	opsQ31 = Ops[fixedpoint.Q31]{
		Format: "q31",
		Dot:    fixedpoint.DotQ31,
	}
)

// For returns the Ops instance for type S.
// The type switch happens at construction time, not in hot paths.
func For[S Sample]() *Ops[S] {
	var zero S
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&opsF32).(*Ops[S])
		if !ok {
			panic("kernel: type assertion failed for float32")
		}
		return ops
	case fixedpoint.Q15:
		ops, ok := any(&opsQ15).(*Ops[S])
		if !ok {
			panic("kernel: type assertion failed for Q15")
		}
		return ops
	case fixedpoint.Q31:
		ops, ok := any(&opsQ31).(*Ops[S])
		if !ok {
			panic("kernel: type assertion failed for Q31")
		}
		return ops
	default:
		panic("kernel: unsupported sample type")
	}
}

// ValidDirectTaps reports whether numTaps satisfies the direct kernel's
// tap-count rules for this domain.
func (o *Ops[S]) ValidDirectTaps(numTaps int) bool {
	if numTaps <= o.MinDirectTaps {
		return false
	}
	if o.EvenDirectTaps && numTaps%2 != 0 {
		return false
	}
	return true
}

func dotF32(coeffs, window []float32) float32 {
	return f32.DotProductUnsafe(coeffs, window[:len(coeffs)])
}
