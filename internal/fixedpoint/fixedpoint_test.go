package fixedpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQ15FromFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want Q15
	}{
		{"zero", 0, 0},
		{"half", 0.5, 16384},
		{"negative_half", -0.5, -16384},
		{"minus_one", -1, MinQ15},
		{"one_saturates", 1, MaxQ15},
		{"large_saturates", 3.7, MaxQ15},
		{"large_negative_saturates", -8, MinQ15},
		{"lsb", 1.0 / 32768, 1},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Q15FromFloat(tt.in))
		})
	}
}

func TestQ31FromFloat(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want Q31
	}{
		{"zero", 0, 0},
		{"half", 0.5, 1 << 30},
		{"quarter_negative", -0.25, -(1 << 29)},
		{"minus_one", -1, MinQ31},
		{"one_saturates", 1, MaxQ31},
		{"inf_saturates", math.Inf(1), MaxQ31},
		{"negative_inf_saturates", math.Inf(-1), MinQ31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Q31FromFloat(tt.in))
		})
	}
}

func TestFloatRoundTrip(t *testing.T) {
	for _, x := range []float64{-1, -0.75, -0.001, 0, 0.125, 0.999} {
		assert.InDelta(t, x, Q15FromFloat(x).Float(), 1.0/q15Scale, "Q15 %v", x)
		assert.InDelta(t, x, Q31FromFloat(x).Float(), 1.0/q31Scale, "Q31 %v", x)
	}
}

func TestAdd_Saturates(t *testing.T) {
	assert.Equal(t, MaxQ15, MaxQ15.Add(1))
	assert.Equal(t, MinQ15, MinQ15.Add(-1))
	assert.Equal(t, Q15(300), Q15(100).Add(200))

	assert.Equal(t, MaxQ31, MaxQ31.Add(MaxQ31))
	assert.Equal(t, MinQ31, MinQ31.Add(-5))
	assert.Equal(t, Q31(-7), Q31(3).Add(-10))
}

func TestMul(t *testing.T) {
	half15 := Q15FromFloat(0.5)
	assert.Equal(t, Q15FromFloat(0.25), half15.Mul(half15))
	assert.Equal(t, MaxQ15, MinQ15.Mul(MinQ15), "-1 * -1 must saturate")

	half31 := Q31FromFloat(0.5)
	assert.Equal(t, Q31FromFloat(0.25), half31.Mul(half31))
	assert.Equal(t, MaxQ31, MinQ31.Mul(MinQ31), "-1 * -1 must saturate")
}

func TestAddSat64(t *testing.T) {
	assert.Equal(t, int64(math.MaxInt64), AddSat64(math.MaxInt64, 1))
	assert.Equal(t, int64(math.MinInt64), AddSat64(math.MinInt64, -1))
	assert.Equal(t, int64(5), AddSat64(7, -2))
}

func TestDotQ15(t *testing.T) {
	half := Q15FromFloat(0.5)
	quarter := Q15FromFloat(0.25)

	// 0.5*0.5 + 0.25*0.5 = 0.375
	got := DotQ15([]Q15{half, quarter}, []Q15{half, half})
	assert.Equal(t, Q15FromFloat(0.375), got)

	// Intermediate sums beyond [-1, 1) must not wrap.
	a := []Q15{MaxQ15, MaxQ15, MaxQ15, MaxQ15, MinQ15, MinQ15}
	b := []Q15{MaxQ15, MaxQ15, MaxQ15, MaxQ15, MaxQ15, MaxQ15}
	// 4*(~1) - 2*(~1) = ~2 -> saturates high.
	assert.Equal(t, MaxQ15, DotQ15(a, b))

	neg := []Q15{MinQ15, MinQ15, MinQ15}
	assert.Equal(t, MinQ15, DotQ15(neg, []Q15{MaxQ15, MaxQ15, MaxQ15}))
}

func TestDotQ31(t *testing.T) {
	half := Q31FromFloat(0.5)
	got := DotQ31([]Q31{half, half}, []Q31{half, Q31FromFloat(-0.25)})
	assert.Equal(t, Q31FromFloat(0.125), got)

	a := []Q31{MinQ31, MinQ31, MinQ31, MinQ31}
	b := []Q31{MinQ31, MinQ31, MinQ31, MinQ31}
	// Each Q62 product is 2^62; the running sum overflows int64 without saturation.
	assert.Equal(t, MaxQ31, DotQ31(a, b))

	c := []Q31{MaxQ31, MaxQ31, MaxQ31, MaxQ31}
	assert.Equal(t, MinQ31, DotQ31(a, c))
}
