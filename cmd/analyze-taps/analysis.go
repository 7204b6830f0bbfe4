package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"slices"

	fir "github.com/tphakala/go-fir"
	"github.com/tphakala/go-fir/internal/filterfile"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	q15LSB = 1.0 / (1 << 15)
	q31LSB = 1.0 / (1 << 31)

	dbScale       = 20.0
	dcGainEpsilon = 1e-12
	minFFTSize    = 64
	halfDivisor   = 2
)

// quantReport describes how a tap set survives conversion to a fixed-point
// format.
type quantReport struct {
	maxErr    float64
	rmsErr    float64
	saturated int
	dcGain    float64
}

// formatCheck records whether a format can build the defined filter.
type formatCheck struct {
	format string
	err    error
}

// responsePoint is one magnitude response sample.
type responsePoint struct {
	freq float64 // cycles per input sample, 0 to 0.5
	db   float64
}

// tapsReport collects everything analyze-taps prints.
type tapsReport struct {
	def      *filterfile.Definition
	dcGain   float64
	peak     float64
	symmetry bool
	q15      quantReport
	q31      quantReport
	formats  []formatCheck
	response []responsePoint
}

func analyze(def *filterfile.Definition, bins int) (*tapsReport, error) {
	if len(def.Taps) == 0 {
		return nil, errors.New("definition has no taps")
	}

	peak := 0.0
	for _, t := range def.Taps {
		peak = max(peak, math.Abs(t))
	}

	response, err := magnitudeResponse(def.Taps, bins)
	if err != nil {
		return nil, err
	}

	return &tapsReport{
		def:      def,
		dcGain:   f64.Sum(def.Taps),
		peak:     peak,
		symmetry: isSymmetric(def.Taps),
		q15:      quantize(def.Taps, fir.MaxQ15, fir.MinQ15, q15LSB),
		q31:      quantize(def.Taps, fir.MaxQ31, fir.MinQ31, q31LSB),
		formats:  checkFormats(def),
		response: response,
	}, nil
}

// quantize converts taps to S and measures the round-trip error. A tap
// counts as saturated when it lies more than half an LSB outside the
// format range.
func quantize[S fir.Sample](taps []float64, maxS, minS S, lsb float64) quantReport {
	var r quantReport
	var sumSq float64
	hi, lo := fir.ToFloat(maxS)+lsb/2, fir.ToFloat(minS)-lsb/2

	for _, t := range taps {
		back := fir.ToFloat(fir.FromFloat[S](t))
		e := math.Abs(back - t)
		r.maxErr = max(r.maxErr, e)
		sumSq += e * e
		r.dcGain += back
		if t > hi || t < lo {
			r.saturated++
		}
	}
	r.rmsErr = math.Sqrt(sumSq / float64(len(taps)))
	return r
}

// checkFormats validates the definition once per sample format.
func checkFormats(def *filterfile.Definition) []formatCheck {
	formats := []string{filterfile.FormatFloat, filterfile.FormatQ15, filterfile.FormatQ31}
	checks := make([]formatCheck, 0, len(formats))
	for _, format := range formats {
		trial := *def
		trial.Format = format
		checks = append(checks, formatCheck{format: format, err: trial.Validate()})
	}
	return checks
}

// magnitudeResponse evaluates |H(f)| at bins evenly spaced frequencies from
// DC to Nyquist.
func magnitudeResponse(taps []float64, bins int) ([]responsePoint, error) {
	if bins < 2 {
		return nil, fmt.Errorf("need at least 2 bins, got %d", bins)
	}

	// Power-of-2 FFT covering the taps with at least one FFT bin per
	// requested point.
	fftSize := minFFTSize
	for fftSize < len(taps) || fftSize/halfDivisor < bins-1 {
		fftSize *= 2
	}

	padded := make([]float64, fftSize)
	copy(padded, taps)
	coeffs := fourier.NewFFT(fftSize).Coefficients(nil, padded)

	half := fftSize / halfDivisor
	points := make([]responsePoint, bins)
	for i := range bins {
		k := i * half / (bins - 1)
		mag := cmplx.Abs(coeffs[k])
		points[i] = responsePoint{
			freq: float64(k) / float64(fftSize),
			db:   dbScale * math.Log10(math.Max(mag, dcGainEpsilon)),
		}
	}
	return points, nil
}

func isSymmetric(taps []float64) bool {
	rev := slices.Clone(taps)
	slices.Reverse(rev)
	for i := range taps {
		if math.Abs(taps[i]-rev[i]) > dcGainEpsilon {
			return false
		}
	}
	return true
}

// normalized returns a copy of def scaled to unity DC gain.
func normalized(def *filterfile.Definition) (*filterfile.Definition, error) {
	sum := f64.Sum(def.Taps)
	if math.Abs(sum) < dcGainEpsilon {
		return nil, errors.New("DC gain is zero, cannot normalize")
	}

	out := *def
	out.Taps = make([]float64, len(def.Taps))
	f64.Scale(out.Taps, def.Taps, 1/sum)
	return &out, nil
}

func (r *tapsReport) print(w io.Writer) {
	name := r.def.Name
	if name == "" {
		name = "(unnamed)"
	}

	fmt.Fprintf(w, "=== %s ===\n", name)
	fmt.Fprintf(w, "  Taps: %d (format %s, block %d, decimation %d)\n",
		len(r.def.Taps), r.def.Format, r.def.BlockSize, r.def.Decimation)
	fmt.Fprintf(w, "  DC gain: %.10f\n", r.dcGain)
	fmt.Fprintf(w, "  Peak |tap|: %.10f\n", r.peak)
	fmt.Fprintf(w, "  Symmetric (linear phase): %v\n", r.symmetry)
	if r.symmetry {
		fmt.Fprintf(w, "  Group delay: %.1f samples\n", float64(len(r.def.Taps)-1)/halfDivisor)
	}

	fmt.Fprintln(w, "\nQuantization:")
	for _, q := range []struct {
		name string
		r    quantReport
	}{{"Q15", r.q15}, {"Q31", r.q31}} {
		fmt.Fprintf(w, "  %s: max err %.3e, rms err %.3e, DC gain %.10f, saturated taps %d\n",
			q.name, q.r.maxErr, q.r.rmsErr, q.r.dcGain, q.r.saturated)
	}

	fmt.Fprintln(w, "\nFormats:")
	for _, c := range r.formats {
		if c.err != nil {
			fmt.Fprintf(w, "  %-5s unsupported: %v\n", c.format, c.err)
		} else {
			fmt.Fprintf(w, "  %-5s ok\n", c.format)
		}
	}

	fmt.Fprintln(w, "\nMagnitude response:")
	for _, p := range r.response {
		fmt.Fprintf(w, "  f=%.4f  %8.2f dB\n", p.freq, p.db)
	}
}
