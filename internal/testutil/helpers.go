// Package testutil provides reusable test helpers for the filter packages.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-fir/internal/kernel"
	"gonum.org/v1/gonum/floats"
)

// Default tolerances for various test scenarios.
const (
	// Float32Tolerance covers accumulation-order differences in float32 kernels.
	Float32Tolerance = 1e-5

	// ExactTolerance is used where fixed-point results must match bit for bit.
	ExactTolerance = 0
)

// Float64s returns the raw numeric values of s as float64. Fixed-point
// samples are not rescaled, so tolerances are in LSBs.
func Float64s[S kernel.Sample](s []S) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}

// AssertSamplesInDelta verifies that got matches want element-wise within
// tolerance, in raw sample units.
func AssertSamplesInDelta[S kernel.Sample](t *testing.T, want, got []S, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return false
	}
	w, g := Float64s(want), Float64s(got)
	if floats.EqualApprox(w, g, tolerance) {
		return true
	}
	for i := range w {
		if math.Abs(w[i]-g[i]) > tolerance {
			return assert.Fail(t, "samples differ",
				"index %d: want %v, got %v (tolerance %v)", i, w[i], g[i], tolerance)
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float32, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(f, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertDCGain verifies that the sum of coefficients equals the expected DC gain.
func AssertDCGain(t *testing.T, coeffs []float64, expectedGain, tolerance float64) bool {
	t.Helper()
	sum := floats.Sum(coeffs)
	return assert.InDelta(t, expectedGain, sum, tolerance,
		"DC gain = %f, want %f", sum, expectedGain)
}
