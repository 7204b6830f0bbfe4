package filterfile

import (
	"fmt"

	fir "github.com/tphakala/go-fir"
	"github.com/tphakala/go-fir/internal/pipeline"
)

// NewStage builds a filter stage of sample type S from the definition, with
// a private delay line. The coefficients are quantized for S once per call;
// build several stages from the same slice with NewStageWithTaps.
func NewStage[S fir.Sample](d *Definition) (pipeline.Stage[S], error) {
	if fir.Format[S]() != formatName(d.Format) {
		return nil, fmt.Errorf("%w: definition format %s, requested %s",
			ErrInvalidDefinition, d.Format, fir.Format[S]())
	}
	return newStage(d, Taps[S](d))
}

// NewStageWithTaps builds a stage sharing the given quantized coefficients.
func NewStageWithTaps[S fir.Sample](d *Definition, taps []S) (pipeline.Stage[S], error) {
	return newStage(d, taps)
}

// Taps returns the definition's coefficients converted to S.
func Taps[S fir.Sample](d *Definition) []S {
	taps := make([]S, len(d.Taps))
	fir.FromFloats(taps, d.Taps)
	return taps
}

func newStage[S fir.Sample](d *Definition, taps []S) (pipeline.Stage[S], error) {
	if d.IsDecimating() {
		f, err := fir.NewFirDecimate(len(taps), d.Decimation, d.BlockSize, taps, nil)
		if err != nil {
			return nil, err
		}
		return pipeline.Decimate(f), nil
	}

	f, err := fir.NewFir(len(taps), d.BlockSize, taps, nil)
	if err != nil {
		return nil, err
	}
	return pipeline.Direct(f), nil
}

// formatName maps a definition format to the library's format name.
func formatName(format string) string {
	if format == FormatFloat {
		return "f32"
	}
	return format
}
