package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// UnitImpulseTaps returns numTaps coefficients {v, 0, 0, ...}, the identity
// filter scaled by v.
func UnitImpulseTaps(numTaps int, v float64) []float64 {
	taps := make([]float64, numTaps)
	if numTaps > 0 {
		taps[0] = v
	}
	return taps
}

// Convolve is the reference direct convolution of x with h, zero history
// before x[0], truncated to len(x).
func Convolve(h, x []float64) []float64 {
	y := make([]float64, len(x))
	for n := range x {
		var acc float64
		for k, c := range h {
			if n-k < 0 {
				break
			}
			acc += c * x[n-k]
		}
		y[n] = acc
	}
	return y
}
