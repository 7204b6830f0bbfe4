// Package fir provides safe block FIR filters for float32 and fixed-point
// sample streams.
//
// Two filter families are available, each over three numeric domains:
//
//   - [Fir]: direct-form FIR filter, one output sample per input sample.
//   - [FirDecimate]: FIR filter fused with downsampling by an integer factor
//     M, len(input)/M output samples per block.
//
// The numeric domains are float32, [Q15] (1 sign bit, 15 fractional bits)
// and [Q31] (1 sign bit, 31 fractional bits). Fixed-point filters use
// saturating multiply-accumulate: results clamp to the format bounds instead
// of wrapping. The six combinations have named aliases ([FloatFir],
// [Q15Fir], [Q31Fir], [FloatFirDecimate], [Q15FirDecimate],
// [Q31FirDecimate]).
//
// # Quick Start
//
// A filter is constructed once from caller-owned coefficient and state
// buffers, then run once per incoming block:
//
//	const numTaps, blockSize = 32, 256
//
//	coeffs := fir.Float32s(designedTaps) // coefficient design is up to the caller
//	state := make([]float32, fir.StateLen(numTaps, blockSize))
//
//	f, err := fir.NewFloatFir(numTaps, blockSize, coeffs, state)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out := make([]float32, blockSize)
//	for block := range blocks {
//	    n := f.Run(block, out)
//	    consume(out[:n])
//	}
//
// # Buffer Rules
//
// Sizes that a C kernel would take as compile-time constants are constructor
// arguments here and are checked before any state is touched:
//
//   - len(coeffs) >= numTaps
//   - len(state) >= numTaps + blockSize - 1 (see [StateLen])
//   - Q15 direct filters: numTaps even and greater than 4
//   - decimating filters: blockSize % M == 0
//
// Per block, len(input) <= blockSize and len(output) must hold the produced
// samples (len(input) for [Fir], len(input)/M for [FirDecimate]).
//
// # Error Handling
//
// The New constructors and the Process methods return errors wrapping the
// package sentinels ([ErrStateTooShort], [ErrBlockTooLarge], ...). The
// Must constructors and the Run methods treat a violated precondition as a
// programming error and panic with the same error value. Neither form ever
// leaves the delay line half-updated.
//
// # State Ownership
//
// A filter mutates its state buffer on every call. The coefficients may be
// shared read-only between filters, but a state buffer must belong to exactly
// one filter for as long as that filter is used. Go cannot enforce this for
// a borrowed slice, so it is the caller's obligation. Passing a nil state
// makes the constructor allocate a private delay line, which rules out
// aliasing entirely.
//
// # Thread Safety
//
// Filters are not safe for concurrent use. Distinct filters with distinct
// state buffers may run in parallel, for example one filter per audio
// channel sharing the same coefficients.
package fir
