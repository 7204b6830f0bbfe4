package fir

// NewFloatFir creates a float32 direct FIR filter.
func NewFloatFir(numTaps, maxBlockSize int, coeffs, state []float32) (*FloatFir, error) {
	return NewFir(numTaps, maxBlockSize, coeffs, state)
}

// NewQ15Fir creates a Q15 direct FIR filter. numTaps must be even and
// greater than 4.
func NewQ15Fir(numTaps, maxBlockSize int, coeffs, state []Q15) (*Q15Fir, error) {
	return NewFir(numTaps, maxBlockSize, coeffs, state)
}

// NewQ31Fir creates a Q31 direct FIR filter.
func NewQ31Fir(numTaps, maxBlockSize int, coeffs, state []Q31) (*Q31Fir, error) {
	return NewFir(numTaps, maxBlockSize, coeffs, state)
}

// NewFloatFirDecimate creates a float32 decimating FIR filter.
func NewFloatFirDecimate(numTaps, m, blockSize int, coeffs, state []float32) (*FloatFirDecimate, error) {
	return NewFirDecimate(numTaps, m, blockSize, coeffs, state)
}

// NewQ15FirDecimate creates a Q15 decimating FIR filter.
func NewQ15FirDecimate(numTaps, m, blockSize int, coeffs, state []Q15) (*Q15FirDecimate, error) {
	return NewFirDecimate(numTaps, m, blockSize, coeffs, state)
}

// NewQ31FirDecimate creates a Q31 decimating FIR filter.
func NewQ31FirDecimate(numTaps, m, blockSize int, coeffs, state []Q31) (*Q31FirDecimate, error) {
	return NewFirDecimate(numTaps, m, blockSize, coeffs, state)
}

// QuantizeQ15 converts float coefficients or samples to Q15.
func QuantizeQ15(src []float64) []Q15 {
	dst := make([]Q15, len(src))
	FromFloats(dst, src)
	return dst
}

// QuantizeQ31 converts float coefficients or samples to Q31.
func QuantizeQ31(src []float64) []Q31 {
	dst := make([]Q31, len(src))
	FromFloats(dst, src)
	return dst
}

// Float32s converts float64 coefficients or samples to float32.
func Float32s(src []float64) []float32 {
	dst := make([]float32, len(src))
	FromFloats(dst, src)
	return dst
}
