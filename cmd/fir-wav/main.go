// Command fir-wav runs a WAV file through a block FIR filter described by a
// YAML filter definition.
//
// Usage:
//
//	fir-wav lowpass.yaml input.wav output.wav
//	fir-wav -format q15 lowpass.yaml input.wav output.wav   # override the definition format
//	fir-wav -parallel=false decim3.yaml input.wav out.wav   # filter channels one by one
//
// Each channel gets its own filter and delay line; all channels share the
// quantized coefficients. Decimating definitions write the output at
// rate/M.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	fir "github.com/tphakala/go-fir"
	"github.com/tphakala/go-fir/internal/filterfile"
)

const (
	// Interleaved frames read per chunk.
	bufferSize = 16384

	// Sample format constants
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Full-scale values per bit depth
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	progressInterval = 10 // Print progress every N%
	percentScale     = 100
	minRequiredArgs  = 3
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	format := flag.String("format", "", "Override the definition sample format: float, q15, q31")
	parallel := flag.Bool("parallel", true, "Filter channels concurrently")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < minRequiredArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] filter.yaml input.wav output.wav\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		return fmt.Errorf("insufficient arguments")
	}

	filterPath, inputPath, outputPath := args[0], args[1], args[2]

	def, err := loadDefinition(filterPath, *format)
	if err != nil {
		return err
	}

	if *verbose {
		log.Printf("Filter: %s (%s, %d taps, block %d, decimation %d)",
			def.Name, def.Format, len(def.Taps), def.BlockSize, def.Decimation)
		log.Printf("Input: %s", inputPath)
		log.Printf("Output: %s", outputPath)
		if *parallel {
			log.Printf("Parallel: enabled (one goroutine per channel)")
		}
	}

	start := time.Now()
	var stats *filterStats
	switch def.Format {
	case filterfile.FormatQ15:
		stats, err = filterWAV[fir.Q15](def, inputPath, outputPath, *verbose, *parallel)
	case filterfile.FormatQ31:
		stats, err = filterWAV[fir.Q31](def, inputPath, outputPath, *verbose, *parallel)
	default:
		stats, err = filterWAV[float32](def, inputPath, outputPath, *verbose, *parallel)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("Filtered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	fmt.Printf("  %d Hz -> %d Hz (%d channels, %d-bit, %s)\n",
		stats.inputRate, stats.outputRate, stats.channels, stats.bitDepth, def.Format)
	fmt.Printf("  %d frames -> %d frames\n", stats.inputFrames, stats.outputFrames)
	if elapsed > 0 && stats.inputRate > 0 {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n",
			elapsed.Seconds(),
			float64(stats.inputFrames)/float64(stats.inputRate)/elapsed.Seconds())
	}

	return nil
}

type filterStats struct {
	inputRate    int
	outputRate   int
	channels     int
	bitDepth     int
	inputFrames  int64
	outputFrames int64
}

// loadDefinition reads the filter definition and applies the format override.
func loadDefinition(path, format string) (*filterfile.Definition, error) {
	def, err := filterfile.Load(path)
	if err != nil {
		return nil, err
	}

	if format != "" && format != def.Format {
		def.Format = format
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%s with -format %s: %w", path, format, err)
		}
	}
	return def, nil
}

func filterWAV[S fir.Sample](def *filterfile.Definition, inputPath, outputPath string, verbose, parallel bool) (stats *filterStats, err error) {
	input, err := openWAVInput(inputPath, verbose)
	if err != nil {
		return nil, err
	}
	defer func() { _ = input.Close() }()

	if input.rate%def.Decimation != 0 {
		return nil, fmt.Errorf("sample rate %d Hz is not divisible by decimation factor %d", input.rate, def.Decimation)
	}
	outputRate := input.rate / def.Decimation

	chains, err := createChannelChains[S](def, input.channels)
	if err != nil {
		return nil, err
	}

	output, err := createWAVOutput(outputPath, outputRate, input.bitDepth, input.channels)
	if err != nil {
		return nil, err
	}
	// Close output, capturing close errors on success path (the encoder
	// patches the WAV header on close)
	defer func() {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}()

	buffers := newFilterBuffers[S](input.channels, input.bitDepth, input.format)

	stats = &filterStats{
		inputRate:  input.rate,
		outputRate: outputRate,
		channels:   input.channels,
		bitDepth:   input.bitDepth,
	}
	progress := newProgressTracker(input.totalFrames, verbose)

	for {
		n, err := input.decoder.PCMBuffer(buffers.intBuffer)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read audio data: %w", err)
		}
		if n == 0 {
			break
		}

		frames := n / input.channels
		stats.inputFrames += int64(frames)

		deinterleaveInto(buffers.intBuffer.Data[:frames*input.channels], buffers.channelBufs, input.channels, frames, buffers.invMaxVal)

		filtered, err := filterChannelData(chains, buffers.channelBufs, frames, parallel)
		if err != nil {
			return nil, err
		}

		written, err := writeChannels(output, filtered, buffers)
		if err != nil {
			return nil, err
		}
		stats.outputFrames += int64(written)

		progress.reportIfNeeded(stats.inputFrames)
	}

	flushed, err := flushChannels(chains)
	if err != nil {
		return nil, err
	}
	written, err := writeChannels(output, flushed, buffers)
	if err != nil {
		return nil, fmt.Errorf("failed to write flushed data: %w", err)
	}
	stats.outputFrames += int64(written)

	return stats, nil
}

// writeChannels interleaves filtered channels and writes them, returning the
// number of frames written.
func writeChannels[S fir.Sample](output *wavOutputWriter, channels [][]S, buffers *filterBuffers[S]) (int, error) {
	frames := framesIn(channels)
	if frames == 0 {
		return 0, nil
	}

	need := frames * len(channels)
	if cap(buffers.outputIntBuf) < need {
		buffers.outputIntBuf = make([]int, need)
	}
	dst := buffers.outputIntBuf[:need]
	interleaveInto(channels, dst, frames, buffers.maxVal)

	if err := output.WriteSamples(dst); err != nil {
		return 0, fmt.Errorf("failed to write audio data: %w", err)
	}
	return frames, nil
}

// fullScale returns the maximum sample value for the given bit depth.
func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}
