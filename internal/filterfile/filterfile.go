// Package filterfile reads filter definitions from YAML.
//
// A definition names the sample format, the block size, an optional
// decimation factor and the coefficients:
//
//	name: lowpass-8k
//	format: q15
//	block_size: 240
//	decimation: 3
//	taps: [0.0123, 0.0456, ...]
package filterfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	fir "github.com/tphakala/go-fir"
	"gopkg.in/yaml.v3"
)

// Sample formats accepted in a definition.
const (
	FormatFloat = "float"
	FormatQ15   = "q15"
	FormatQ31   = "q31"
)

// Defaults applied to omitted fields.
const (
	defaultBlockSize  = 256
	defaultDecimation = 1
	yamlIndent        = 2
)

// ErrInvalidDefinition indicates a definition that cannot build a filter.
var ErrInvalidDefinition = errors.New("invalid filter definition")

// Definition describes one filter.
type Definition struct {
	Name       string    `yaml:"name"`
	Format     string    `yaml:"format"`
	BlockSize  int       `yaml:"block_size"`
	Decimation int       `yaml:"decimation"`
	Taps       []float64 `yaml:"taps"`
}

// Load reads and validates a definition from path.
func Load(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open filter definition: %w", err)
	}
	defer func() { _ = f.Close() }()

	def, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// Save writes the definition to path as YAML.
func Save(path string, d *Definition) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create filter definition: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(d); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode filter definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Parse decodes a definition, applies defaults and validates it.
func Parse(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	def.applyDefaults()
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (d *Definition) applyDefaults() {
	if d.Format == "" {
		d.Format = FormatFloat
	}
	if d.BlockSize == 0 {
		d.BlockSize = defaultBlockSize
	}
	if d.Decimation == 0 {
		d.Decimation = defaultDecimation
	}
}

// Validate checks the definition against the filter constructor rules so
// that errors surface before any audio is read.
func (d *Definition) Validate() error {
	switch d.Format {
	case FormatFloat, FormatQ15, FormatQ31:
	default:
		return fmt.Errorf("%w: unknown format %q (want %s, %s or %s)",
			ErrInvalidDefinition, d.Format, FormatFloat, FormatQ15, FormatQ31)
	}

	if len(d.Taps) == 0 {
		return fmt.Errorf("%w: no taps", ErrInvalidDefinition)
	}

	if d.BlockSize < 1 {
		return fmt.Errorf("%w: block size must be positive", ErrInvalidDefinition)
	}

	if d.Decimation < 1 {
		return fmt.Errorf("%w: decimation must be at least 1", ErrInvalidDefinition)
	}

	// Dry-run the constructor for the configured format.
	var err error
	switch d.Format {
	case FormatFloat:
		_, err = newStage(d, fir.Float32s(d.Taps))
	case FormatQ15:
		_, err = newStage(d, fir.QuantizeQ15(d.Taps))
	case FormatQ31:
		_, err = newStage(d, fir.QuantizeQ31(d.Taps))
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}
	return nil
}

// IsDecimating reports whether the definition describes a decimating filter.
func (d *Definition) IsDecimating() bool {
	return d.Decimation > 1
}
