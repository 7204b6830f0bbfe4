package fir

import (
	"github.com/tphakala/go-fir/internal/kernel"
)

// FirDecimate is a FIR filter fused with downsampling by an integer factor
// M. Each block of n input samples produces n/M output samples, taken at
// phase 0 of every group of M.
//
// Buffer ownership follows the same rules as [Fir].
type FirDecimate[S Sample] struct {
	k         *kernel.Decimator[S]
	numTaps   int
	factor    int
	blockSize int
}

// Named decimating filter variants.
type (
	FloatFirDecimate = FirDecimate[float32]
	Q15FirDecimate   = FirDecimate[Q15]
	Q31FirDecimate   = FirDecimate[Q31]
)

// NewFirDecimate creates a decimating FIR filter with numTaps taps,
// decimation factor m and block size blockSize.
//
// blockSize must be a multiple of m. coeffs must hold at least numTaps
// values. state must hold at least numTaps+blockSize-1 values, or be nil.
// The state is cleared.
func NewFirDecimate[S Sample](numTaps, m, blockSize int, coeffs, state []S) (*FirDecimate[S], error) {
	if err := validateBuffers(numTaps, blockSize, coeffs, state); err != nil {
		return nil, err
	}

	if err := validateDecimation(m, blockSize); err != nil {
		return nil, err
	}

	if state == nil {
		state = make([]S, stateLen(numTaps, blockSize))
	}

	return &FirDecimate[S]{
		k:         kernel.NewDecimator(coeffs, state, numTaps, m, blockSize),
		numTaps:   numTaps,
		factor:    m,
		blockSize: blockSize,
	}, nil
}

// MustNewFirDecimate is like NewFirDecimate but panics if the configuration
// is invalid.
func MustNewFirDecimate[S Sample](numTaps, m, blockSize int, coeffs, state []S) *FirDecimate[S] {
	f, err := NewFirDecimate(numTaps, m, blockSize, coeffs, state)
	if err != nil {
		panic(err)
	}
	return f
}

// Run filters and decimates input into output and returns the number of
// samples written, len(input)/M. The delay line advances by len(input).
//
// It panics if len(input) > BlockSize() or len(output) < len(input)/M.
func (f *FirDecimate[S]) Run(input, output []S) int {
	n, err := f.Process(input, output)
	if err != nil {
		panic(err)
	}
	return n
}

// Process is like Run but reports a precondition violation as an error.
func (f *FirDecimate[S]) Process(input, output []S) (int, error) {
	outLen := len(input) / f.factor
	if err := checkBlock(len(input), len(output), f.blockSize, outLen); err != nil {
		return 0, err
	}

	f.k.Run(input, output)
	return outLen, nil
}

// Reset clears the delay line.
func (f *FirDecimate[S]) Reset() {
	f.k.Reset()
}

// NumTaps returns the number of filter taps.
func (f *FirDecimate[S]) NumTaps() int {
	return f.numTaps
}

// Factor returns the decimation factor M.
func (f *FirDecimate[S]) Factor() int {
	return f.factor
}

// BlockSize returns the largest input block Run accepts.
func (f *FirDecimate[S]) BlockSize() int {
	return f.blockSize
}

// Coefficients returns the taps in use. The slice aliases the caller's
// coefficient buffer and must not be modified.
func (f *FirDecimate[S]) Coefficients() []S {
	return f.k.Coefficients()
}
