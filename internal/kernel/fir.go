package kernel

// FIR is the direct-form block convolution kernel.
type FIR[S Sample] struct {
	ops    *Ops[S]
	coeffs []S
	line   DelayLine[S]
}

// NewFIR binds coeffs[:numTaps] and state to a kernel accepting blocks of
// up to maxBlock samples. The state is cleared.
func NewFIR[S Sample](coeffs, state []S, numTaps, maxBlock int) *FIR[S] {
	return &FIR[S]{
		ops:    For[S](),
		coeffs: coeffs[:numTaps:numTaps],
		line:   NewDelayLine(state, numTaps, maxBlock),
	}
}

// Run computes len(input) outputs:
//
//	y[n] = sum_{k=0}^{N-1} h[k] * x[n-k]
func (k *FIR[S]) Run(input, output []S) {
	k.line.Load(input)
	dot := k.ops.Dot
	out := output[:len(input)]
	for i := range out {
		out[i] = dot(k.coeffs, k.line.Window(i))
	}
	k.line.Advance(len(input))
}

// Reset clears the delay line.
func (k *FIR[S]) Reset() {
	k.line.Clear()
}

// Coefficients returns the bound taps.
func (k *FIR[S]) Coefficients() []S {
	return k.coeffs
}

// StateLen returns the number of state samples in use.
func (k *FIR[S]) StateLen() int {
	return k.line.Len()
}

// Decimator fuses the direct kernel with downsampling by an integer factor.
type Decimator[S Sample] struct {
	FIR[S]
	factor int
}

// NewDecimator builds a decimating kernel. blockSize must be a multiple of
// factor.
func NewDecimator[S Sample](coeffs, state []S, numTaps, factor, blockSize int) *Decimator[S] {
	return &Decimator[S]{
		FIR:    *NewFIR(coeffs, state, numTaps, blockSize),
		factor: factor,
	}
}

// Run computes len(input)/factor outputs, keeping phase 0 of each group:
//
//	y[j] = sum_{k=0}^{N-1} h[k] * x[j*M-k]
//
// The delay line advances by the full input length.
func (d *Decimator[S]) Run(input, output []S) {
	d.line.Load(input)
	dot := d.ops.Dot
	out := output[:len(input)/d.factor]
	for j := range out {
		out[j] = dot(d.coeffs, d.line.Window(j*d.factor))
	}
	d.line.Advance(len(input))
}
