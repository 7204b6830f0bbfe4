package fir

import (
	"fmt"

	"github.com/tphakala/go-fir/internal/kernel"
)

// Fir is a direct-form FIR filter producing one output sample per input
// sample.
//
// A Fir borrows its coefficient and state buffers from the caller. The
// coefficients may be shared by any number of filters. The state buffer
// belongs to the filter while it is in use: it must not be read, written or
// given to another filter until the caller is done with this one. Passing a
// nil state makes the filter allocate a private delay line instead.
//
// A Fir is not safe for concurrent use. Successive Run calls continue the
// same sample stream.
type Fir[S Sample] struct {
	k            *kernel.FIR[S]
	numTaps      int
	maxBlockSize int
}

// Named direct filter variants.
type (
	FloatFir = Fir[float32]
	Q15Fir   = Fir[Q15]
	Q31Fir   = Fir[Q31]
)

// NewFir creates a direct FIR filter with numTaps taps accepting blocks of
// up to maxBlockSize samples.
//
// coeffs must hold at least numTaps values; only coeffs[:numTaps] are used.
// state must hold at least numTaps+maxBlockSize-1 values, or be nil. The
// state is cleared. For Q15 filters numTaps must be even and greater than 4.
func NewFir[S Sample](numTaps, maxBlockSize int, coeffs, state []S) (*Fir[S], error) {
	if err := validateBuffers(numTaps, maxBlockSize, coeffs, state); err != nil {
		return nil, err
	}

	ops := kernel.For[S]()
	if !ops.ValidDirectTaps(numTaps) {
		return nil, fmt.Errorf("%w: %s direct filter with %d taps (need an even count > %d)",
			ErrInvalidTapCount, ops.Format, numTaps, ops.MinDirectTaps)
	}

	if state == nil {
		state = make([]S, stateLen(numTaps, maxBlockSize))
	}

	return &Fir[S]{
		k:            kernel.NewFIR(coeffs, state, numTaps, maxBlockSize),
		numTaps:      numTaps,
		maxBlockSize: maxBlockSize,
	}, nil
}

// MustNewFir is like NewFir but panics if the configuration is invalid.
func MustNewFir[S Sample](numTaps, maxBlockSize int, coeffs, state []S) *Fir[S] {
	f, err := NewFir(numTaps, maxBlockSize, coeffs, state)
	if err != nil {
		panic(err)
	}
	return f
}

// Run filters input into output and returns len(input).
//
// It panics if len(input) > MaxBlockSize() or len(output) < len(input);
// the delay line is untouched in that case.
func (f *Fir[S]) Run(input, output []S) int {
	n, err := f.Process(input, output)
	if err != nil {
		panic(err)
	}
	return n
}

// Process is like Run but reports a precondition violation as an error
// wrapping ErrBlockTooLarge or ErrOutputTooSmall.
func (f *Fir[S]) Process(input, output []S) (int, error) {
	if err := checkBlock(len(input), len(output), f.maxBlockSize, len(input)); err != nil {
		return 0, err
	}

	f.k.Run(input, output)
	return len(input), nil
}

// Reset clears the delay line.
func (f *Fir[S]) Reset() {
	f.k.Reset()
}

// NumTaps returns the number of filter taps.
func (f *Fir[S]) NumTaps() int {
	return f.numTaps
}

// MaxBlockSize returns the largest input block Run accepts.
func (f *Fir[S]) MaxBlockSize() int {
	return f.maxBlockSize
}

// Coefficients returns the taps in use. The slice aliases the caller's
// coefficient buffer and must not be modified.
func (f *Fir[S]) Coefficients() []S {
	return f.k.Coefficients()
}
