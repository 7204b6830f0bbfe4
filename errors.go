package fir

import (
	"errors"
	"fmt"
)

// Errors reported by the filter constructors and by Process. Run and the
// Must constructors panic with the same wrapped errors.
var (
	// ErrInvalidConfig indicates a tap count, block size or decimation
	// factor outside the kernel limits.
	ErrInvalidConfig = errors.New("invalid filter configuration")

	// ErrCoefficientsTooShort indicates fewer coefficients than taps.
	ErrCoefficientsTooShort = errors.New("coefficient buffer too short")

	// ErrStateTooShort indicates a state buffer shorter than
	// numTaps + blockSize - 1.
	ErrStateTooShort = errors.New("state buffer too short")

	// ErrInvalidTapCount indicates a tap count the numeric domain's kernel
	// cannot run (Q15 direct filters need an even count above 4).
	ErrInvalidTapCount = errors.New("tap count not supported by kernel")

	// ErrInvalidDecimation indicates a decimation factor that does not
	// divide the block size.
	ErrInvalidDecimation = errors.New("decimation factor must divide block size")

	// ErrBlockTooLarge indicates an input block longer than the filter's
	// block size.
	ErrBlockTooLarge = errors.New("input block too large")

	// ErrOutputTooSmall indicates an output buffer that cannot hold the
	// samples produced for the input block.
	ErrOutputTooSmall = errors.New("output buffer too small")
)

// validateBuffers checks the limits and buffer-size rules shared by both
// filter families. A nil state is accepted; the constructor allocates it.
func validateBuffers[S Sample](numTaps, blockSize int, coeffs, state []S) error {
	if numTaps < 1 || numTaps > MaxNumTaps {
		return fmt.Errorf("%w: numTaps %d outside [1, %d]", ErrInvalidConfig, numTaps, MaxNumTaps)
	}

	if blockSize < 1 || uint64(blockSize) > MaxBlockLen {
		return fmt.Errorf("%w: block size %d outside [1, %d]", ErrInvalidConfig, blockSize, uint64(MaxBlockLen))
	}

	if len(coeffs) < numTaps {
		return fmt.Errorf("%w: have %d, need %d", ErrCoefficientsTooShort, len(coeffs), numTaps)
	}

	if need := stateLen(numTaps, blockSize); state != nil && len(state) < need {
		return fmt.Errorf("%w: have %d, need %d (numTaps + blockSize - 1)", ErrStateTooShort, len(state), need)
	}

	return nil
}

// validateDecimation checks the decimation factor against the block size.
func validateDecimation(factor, blockSize int) error {
	if factor < 1 || factor > MaxDecimationFactor {
		return fmt.Errorf("%w: decimation factor %d outside [1, %d]", ErrInvalidConfig, factor, MaxDecimationFactor)
	}

	if blockSize%factor != 0 {
		return fmt.Errorf("%w: block size %d, factor %d", ErrInvalidDecimation, blockSize, factor)
	}

	return nil
}

// checkBlock validates one Run/Process call.
func checkBlock(inLen, outLen, blockSize, outNeed int) error {
	if inLen > blockSize {
		return fmt.Errorf("%w: %d samples, block size %d", ErrBlockTooLarge, inLen, blockSize)
	}

	if outLen < outNeed {
		return fmt.Errorf("%w: have %d, need %d", ErrOutputTooSmall, outLen, outNeed)
	}

	return nil
}

// stateLen returns the state buffer length a filter needs.
func stateLen(numTaps, blockSize int) int {
	return numTaps + blockSize - 1
}

// StateLen returns the minimum state buffer length for a filter with the
// given tap count and block size.
func StateLen(numTaps, blockSize int) int {
	return stateLen(numTaps, blockSize)
}
