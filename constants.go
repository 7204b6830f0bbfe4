package fir

import "math"

// Parameter limits of the underlying kernels.
const (
	// MaxNumTaps is the largest tap count a kernel accepts (16-bit tap field).
	MaxNumTaps = math.MaxUint16

	// MaxDecimationFactor is the largest decimation factor (8-bit field).
	MaxDecimationFactor = math.MaxUint8

	// MaxBlockLen is the largest block size (32-bit block field).
	MaxBlockLen = math.MaxUint32
)
