package fir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/go-fir/internal/testutil"
)

// assertPanicsWith verifies that fn panics with an error matching target.
func assertPanicsWith(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic wrapping %v", target)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.ErrorIs(t, err, target)
	}()
	fn()
}

// runBlocks feeds x through f in consecutive blocks of the given sizes and
// returns the concatenated output.
func runBlocks[S Sample](t *testing.T, f *Fir[S], x []S, sizes ...int) []S {
	t.Helper()
	var got []S
	start := 0
	for _, n := range sizes {
		out := make([]S, n)
		written := f.Run(x[start:start+n], out)
		require.Equal(t, n, written)
		got = append(got, out...)
		start += n
	}
	require.Equal(t, len(x), start, "block sizes must cover the input")
	return got
}

func TestNewFir_Validation(t *testing.T) {
	coeffs := make([]float32, 8)

	tests := []struct {
		name         string
		numTaps      int
		maxBlockSize int
		coeffs       []float32
		state        []float32
		wantErr      error
	}{
		{"valid", 8, 16, coeffs, make([]float32, 23), nil},
		{"valid_larger_buffers", 4, 16, coeffs, make([]float32, 64), nil},
		{"nil_state", 8, 16, coeffs, nil, nil},
		{"coeffs_too_short", 9, 16, coeffs, make([]float32, 24), ErrCoefficientsTooShort},
		{"state_too_short", 8, 16, coeffs, make([]float32, 22), ErrStateTooShort},
		{"zero_taps", 0, 16, coeffs, make([]float32, 23), ErrInvalidConfig},
		{"zero_block", 8, 0, coeffs, make([]float32, 23), ErrInvalidConfig},
		{"too_many_taps", MaxNumTaps + 1, 16, coeffs, nil, ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFloatFir(tt.numTaps, tt.maxBlockSize, tt.coeffs, tt.state)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				assertPanicsWith(t, tt.wantErr, func() {
					MustNewFir(tt.numTaps, tt.maxBlockSize, tt.coeffs, tt.state)
				})
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.numTaps, f.NumTaps())
			assert.Equal(t, tt.maxBlockSize, f.MaxBlockSize())
			assert.Len(t, f.Coefficients(), tt.numTaps)
		})
	}
}

func TestNewQ15Fir_TapRule(t *testing.T) {
	const maxBlock = 8
	coeffs := make([]Q15, 16)

	for _, numTaps := range []int{1, 2, 3, 4, 5, 7, 9} {
		_, err := NewQ15Fir(numTaps, maxBlock, coeffs, make([]Q15, StateLen(numTaps, maxBlock)))
		assert.ErrorIs(t, err, ErrInvalidTapCount, "numTaps=%d", numTaps)
	}

	assertPanicsWith(t, ErrInvalidTapCount, func() {
		MustNewFir(3, maxBlock, coeffs, make([]Q15, StateLen(3, maxBlock)))
	})
	assertPanicsWith(t, ErrInvalidTapCount, func() {
		MustNewFir(4, maxBlock, coeffs, make([]Q15, StateLen(4, maxBlock)))
	})

	for _, numTaps := range []int{6, 8, 16} {
		f, err := NewQ15Fir(numTaps, maxBlock, coeffs, make([]Q15, StateLen(numTaps, maxBlock)))
		require.NoError(t, err, "numTaps=%d", numTaps)
		assert.Equal(t, numTaps, f.NumTaps())
	}

	// The rule is specific to the Q15 direct kernel.
	_, err := NewQ31Fir(3, maxBlock, make([]Q31, 3), nil)
	require.NoError(t, err)
	_, err = NewFloatFir(3, maxBlock, make([]float32, 3), nil)
	require.NoError(t, err)
}

func TestFir_LengthContract(t *testing.T) {
	const numTaps, maxBlock = 4, 10
	f := MustNewFir(numTaps, maxBlock, []float32{1, 0.5, 0.25, 0.125}, make([]float32, StateLen(numTaps, maxBlock)))

	for k := 0; k <= maxBlock; k++ {
		out := make([]float32, k)
		assert.Equal(t, k, f.Run(make([]float32, k), out), "k=%d", k)
	}

	// Longer output buffers are allowed; only len(input) samples are written.
	out := []float32{7, 7, 7, 7}
	assert.Equal(t, 2, f.Run([]float32{1, 1}, out))
	assert.Equal(t, float32(7), out[2])

	assertPanicsWith(t, ErrBlockTooLarge, func() {
		f.Run(make([]float32, maxBlock+1), make([]float32, maxBlock+1))
	})
	assertPanicsWith(t, ErrOutputTooSmall, func() {
		f.Run(make([]float32, 5), make([]float32, 4))
	})
}

func TestFir_ProcessRejectsBeforeMutation(t *testing.T) {
	const numTaps, maxBlock = 6, 4
	state := make([]Q15, StateLen(numTaps, maxBlock))
	f, err := NewQ15Fir(numTaps, maxBlock, QuantizeQ15([]float64{0.5, 0.25, 0.125, 0, 0, 0}), state)
	require.NoError(t, err)

	f.Run(QuantizeQ15([]float64{0.1, 0.2, 0.3, 0.4}), make([]Q15, maxBlock))
	before := append([]Q15(nil), state...)

	n, err := f.Process(make([]Q15, maxBlock+1), make([]Q15, maxBlock+1))
	require.ErrorIs(t, err, ErrBlockTooLarge)
	assert.Zero(t, n)

	n, err = f.Process(make([]Q15, 3), make([]Q15, 2))
	require.ErrorIs(t, err, ErrOutputTooSmall)
	assert.Zero(t, n)

	assert.Equal(t, before, state, "rejected calls must not touch the delay line")
}

func TestFir_Identity(t *testing.T) {
	const numTaps, maxBlock = 8, 32
	input := testutil.DeterministicNoise(1, 0.9, maxBlock)

	t.Run("f32", func(t *testing.T) {
		f := MustNewFir(numTaps, maxBlock, Float32s(testutil.UnitImpulseTaps(numTaps, 1)), nil)
		x := Float32s(input)
		out := make([]float32, len(x))
		f.Run(x, out)
		testutil.AssertSamplesInDelta(t, x, out, testutil.Float32Tolerance)
	})

	// 1.0 is not representable in Q15/Q31; 0.5 is, and halves even raw
	// samples exactly.
	t.Run("q15", func(t *testing.T) {
		f := MustNewFir(numTaps, maxBlock, QuantizeQ15(testutil.UnitImpulseTaps(numTaps, 0.5)), nil)
		x := QuantizeQ15(input)
		want := make([]Q15, len(x))
		for i := range x {
			x[i] &^= 1
			want[i] = x[i] / 2
		}
		out := make([]Q15, len(x))
		f.Run(x, out)
		testutil.AssertSamplesInDelta(t, want, out, testutil.ExactTolerance)
	})

	t.Run("q31", func(t *testing.T) {
		f := MustNewFir(numTaps, maxBlock, QuantizeQ31(testutil.UnitImpulseTaps(numTaps, 0.5)), nil)
		x := QuantizeQ31(input)
		want := make([]Q31, len(x))
		for i := range x {
			x[i] &^= 1
			want[i] = x[i] / 2
		}
		out := make([]Q31, len(x))
		f.Run(x, out)
		testutil.AssertSamplesInDelta(t, want, out, testutil.ExactTolerance)
	})
}

func TestFir_MatchesReferenceConvolution(t *testing.T) {
	const numTaps, maxBlock = 12, 64
	taps := testutil.DeterministicNoise(2, 0.3, numTaps)
	x := testutil.DeterministicNoise(3, 0.5, 4*maxBlock)
	want := Float32s(testutil.Convolve(taps, x))

	f := MustNewFir(numTaps, maxBlock, Float32s(taps), nil)
	got := runBlocks(t, f, Float32s(x), maxBlock, maxBlock, maxBlock, maxBlock)
	testutil.AssertSamplesInDelta(t, want, got, 1e-5)
	testutil.AssertNoNaNOrInf(t, got)
}

func TestFir_CrossCallContinuity(t *testing.T) {
	const numTaps, total = 6, 40
	taps := []float64{0.4, -0.3, 0.2, 0.1, -0.05, 0.025}
	signal := testutil.DeterministicSine(1000, 8000, 0.8, total)
	splits := [][]int{{20, 20}, {1, 39}, {39, 1}, {3, 2, 35}, {2, 2, 2, 2, 32}}

	t.Run("f32", func(t *testing.T) {
		x := Float32s(signal)
		want := runBlocks(t, MustNewFir(numTaps, total, Float32s(taps), nil), x, total)
		for _, s := range splits {
			got := runBlocks(t, MustNewFir(numTaps, total, Float32s(taps), nil), x, s...)
			testutil.AssertSamplesInDelta(t, want, got, testutil.Float32Tolerance, "split %v", s)
		}
	})

	t.Run("q15", func(t *testing.T) {
		x := QuantizeQ15(signal)
		want := runBlocks(t, MustNewFir(numTaps, total, QuantizeQ15(taps), nil), x, total)
		for _, s := range splits {
			got := runBlocks(t, MustNewFir(numTaps, total, QuantizeQ15(taps), nil), x, s...)
			assert.Equal(t, want, got, "split %v", s)
		}
	})

	t.Run("q31", func(t *testing.T) {
		x := QuantizeQ31(signal)
		want := runBlocks(t, MustNewFir(numTaps, total, QuantizeQ31(taps), nil), x, total)
		for _, s := range splits {
			got := runBlocks(t, MustNewFir(numTaps, total, QuantizeQ31(taps), nil), x, s...)
			assert.Equal(t, want, got, "split %v", s)
		}
	})
}

func TestFir_Saturation(t *testing.T) {
	t.Run("q15", func(t *testing.T) {
		const numTaps = 6
		coeffs := []Q15{MaxQ15, MaxQ15, MaxQ15, MaxQ15, MaxQ15, MaxQ15}
		f := MustNewFir(numTaps, numTaps, coeffs, nil)

		out := make([]Q15, numTaps)
		f.Run([]Q15{MaxQ15, MaxQ15, MaxQ15, MaxQ15, MaxQ15, MaxQ15}, out)
		assert.Equal(t, Q15(32766), out[0], "single product stays in range")
		for i := 1; i < numTaps; i++ {
			assert.Equal(t, MaxQ15, out[i], "out[%d] must clamp, not wrap", i)
		}

		f.Reset()
		f.Run([]Q15{MinQ15, MinQ15, MinQ15, MinQ15, MinQ15, MinQ15}, out)
		for i := 1; i < numTaps; i++ {
			assert.Equal(t, MinQ15, out[i], "out[%d] must clamp, not wrap", i)
		}
	})

	t.Run("q31", func(t *testing.T) {
		const numTaps = 4
		coeffs := []Q31{MinQ31, MinQ31, MinQ31, MinQ31}
		f := MustNewFir(numTaps, numTaps, coeffs, nil)

		out := make([]Q31, numTaps)
		f.Run([]Q31{MinQ31, MinQ31, MinQ31, MinQ31}, out)
		for i := range out {
			assert.Equal(t, MaxQ31, out[i], "out[%d] must clamp, not wrap", i)
		}

		f.Reset()
		f.Run([]Q31{MaxQ31, MaxQ31, MaxQ31, MaxQ31}, out)
		for i := 1; i < numTaps; i++ {
			assert.Equal(t, MinQ31, out[i], "out[%d] must clamp, not wrap", i)
		}
	})
}

func TestFir_NilStateMatchesBorrowedState(t *testing.T) {
	const numTaps, maxBlock = 5, 16
	taps := Float32s([]float64{0.1, 0.2, 0.4, 0.2, 0.1})
	x := Float32s(testutil.DeterministicNoise(4, 1, 3*maxBlock))

	owned := MustNewFir(numTaps, maxBlock, taps, nil)
	borrowed := MustNewFir(numTaps, maxBlock, taps, make([]float32, StateLen(numTaps, maxBlock)))

	a := runBlocks(t, owned, x, maxBlock, maxBlock, maxBlock)
	b := runBlocks(t, borrowed, x, maxBlock, maxBlock, maxBlock)
	assert.Equal(t, a, b)
}

func TestNewFir_ClearsState(t *testing.T) {
	state := []Q31{9, 9, 9, 9, 9, 9}
	f := MustNewFir(3, 4, []Q31{Q31FromFloat(0.5), 0, 0}, state)
	assert.Equal(t, []Q31{0, 0, 0, 0, 0, 0}, state)

	out := make([]Q31, 1)
	f.Run([]Q31{0}, out)
	assert.Equal(t, Q31(0), out[0], "stale state must not leak into the first block")
}

func TestFir_Reset(t *testing.T) {
	taps := []float32{0.25, 0.5, 0.25}
	f := MustNewFir(3, 4, taps, nil)
	out := make([]float32, 4)

	f.Run([]float32{1, 0.5, -0.3, 0.7}, out)
	f.Reset()

	f.Run([]float32{1, 0, 0, 0}, out)
	assert.Equal(t, []float32{0.25, 0.5, 0.25, 0}, out, "impulse response after reset")
}

func TestFir_SharedCoefficients(t *testing.T) {
	const numTaps, maxBlock = 6, 8
	taps := QuantizeQ15([]float64{0.3, 0.2, 0.1, -0.1, -0.2, 0.05})
	left := QuantizeQ15(testutil.DeterministicNoise(5, 0.5, 2*maxBlock))
	right := QuantizeQ15(testutil.DeterministicNoise(6, 0.5, 2*maxBlock))

	wantL := runBlocks(t, MustNewFir(numTaps, maxBlock, taps, nil), left, maxBlock, maxBlock)
	wantR := runBlocks(t, MustNewFir(numTaps, maxBlock, taps, nil), right, maxBlock, maxBlock)

	fl := MustNewFir(numTaps, maxBlock, taps, nil)
	fr := MustNewFir(numTaps, maxBlock, taps, nil)
	gotL := make([]Q15, 0, len(left))
	gotR := make([]Q15, 0, len(right))
	out := make([]Q15, maxBlock)
	for start := 0; start < len(left); start += maxBlock {
		fl.Run(left[start:start+maxBlock], out)
		gotL = append(gotL, out...)
		fr.Run(right[start:start+maxBlock], out)
		gotR = append(gotR, out...)
	}

	assert.Equal(t, wantL, gotL)
	assert.Equal(t, wantR, gotR)
}
