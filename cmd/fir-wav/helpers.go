package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	fir "github.com/tphakala/go-fir"
	"github.com/tphakala/go-fir/internal/filterfile"
	"github.com/tphakala/go-fir/internal/pipeline"
)

// wavInputInfo holds validated input file information.
type wavInputInfo struct {
	file        *os.File
	decoder     *wav.Decoder
	rate        int
	channels    int
	bitDepth    int
	totalFrames int64
	format      *audio.Format
}

// openWAVInput opens and validates a WAV file, returning format information.
func openWAVInput(path string, verbose bool) (*wavInputInfo, error) {
	inputFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}

	decoder := wav.NewDecoder(inputFile)
	if !decoder.IsValidFile() {
		_ = inputFile.Close()
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	format := decoder.Format()
	bitDepth := int(decoder.BitDepth)

	if verbose {
		log.Printf("Input format: %d Hz, %d channels, %d-bit", format.SampleRate, format.NumChannels, bitDepth)
	}

	// Duration is only used for progress reporting
	duration, err := decoder.Duration()
	if err != nil {
		duration = 0
	}

	return &wavInputInfo{
		file:        inputFile,
		decoder:     decoder,
		rate:        format.SampleRate,
		channels:    format.NumChannels,
		bitDepth:    bitDepth,
		totalFrames: int64(duration.Seconds() * float64(format.SampleRate)),
		format:      format,
	}, nil
}

// Close closes the input file.
func (w *wavInputInfo) Close() error {
	return w.file.Close()
}

// createChannelChains creates one filter chain per channel. The chains share
// the quantized coefficients and own their delay lines.
func createChannelChains[S fir.Sample](def *filterfile.Definition, numChannels int) ([]*pipeline.Chain[S], error) {
	taps := filterfile.Taps[S](def)

	chains := make([]*pipeline.Chain[S], numChannels)
	for ch := range numChannels {
		stage, err := filterfile.NewStageWithTaps(def, taps)
		if err != nil {
			return nil, fmt.Errorf("failed to create filter for channel %d: %w", ch, err)
		}
		chain, err := pipeline.NewChain(stage)
		if err != nil {
			return nil, fmt.Errorf("failed to create chain for channel %d: %w", ch, err)
		}
		chains[ch] = chain
	}
	return chains, nil
}

// wavOutputWriter wraps the output file and its encoder.
type wavOutputWriter struct {
	file     *os.File
	encoder  *wav.Encoder
	format   *audio.Format
	bitDepth int
}

// createWAVOutput creates the output file and a PCM encoder.
func createWAVOutput(path string, sampleRate, bitDepth, channels int) (*wavOutputWriter, error) {
	outputFile, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavOutputWriter{
		file:     outputFile,
		encoder:  wav.NewEncoder(outputFile, sampleRate, bitDepth, channels, 1),
		format:   &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		bitDepth: bitDepth,
	}, nil
}

// WriteSamples writes interleaved samples to the output file.
func (w *wavOutputWriter) WriteSamples(samples []int) error {
	return w.encoder.Write(&audio.IntBuffer{
		Format:         w.format,
		Data:           samples,
		SourceBitDepth: w.bitDepth,
	})
}

// Close finalizes the WAV header and closes the file.
func (w *wavOutputWriter) Close() error {
	if err := w.encoder.Close(); err != nil {
		_ = w.file.Close()
		return err
	}
	return w.file.Close()
}

// filterBuffers holds the preallocated per-chunk buffers.
type filterBuffers[S fir.Sample] struct {
	intBuffer    *audio.IntBuffer
	channelBufs  [][]S
	outputIntBuf []int
	invMaxVal    float64
	maxVal       float64
}

func newFilterBuffers[S fir.Sample](channels, bitDepth int, format *audio.Format) *filterBuffers[S] {
	channelBufs := make([][]S, channels)
	for ch := range channels {
		channelBufs[ch] = make([]S, bufferSize)
	}

	maxVal := fullScale(bitDepth)
	return &filterBuffers[S]{
		intBuffer: &audio.IntBuffer{
			Data:   make([]int, bufferSize*channels),
			Format: format,
		},
		channelBufs:  channelBufs,
		outputIntBuf: make([]int, bufferSize*channels),
		invMaxVal:    1.0 / maxVal,
		maxVal:       maxVal,
	}
}

// progressTracker handles progress reporting.
type progressTracker struct {
	totalFrames  int64
	lastProgress int
	verbose      bool
}

func newProgressTracker(totalFrames int64, verbose bool) *progressTracker {
	return &progressTracker{
		totalFrames: totalFrames,
		verbose:     verbose,
	}
}

// reportIfNeeded reports progress if threshold crossed.
func (p *progressTracker) reportIfNeeded(currentFrames int64) {
	if !p.verbose || p.totalFrames == 0 {
		return
	}

	progress := int(float64(currentFrames) / float64(p.totalFrames) * percentScale)
	if progress >= p.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		p.lastProgress = progress
	}
}

// deinterleaveInto converts interleaved PCM into per-channel samples of
// type S, normalizing to [-1, 1] first.
func deinterleaveInto[S fir.Sample](data []int, channelBufs [][]S, numChannels, frames int, invMaxVal float64) {
	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			channelBufs[ch][i] = fir.FromFloat[S](float64(data[base+ch]) * invMaxVal)
		}
	}
}

// interleaveInto converts the first frames samples of every channel into
// interleaved PCM, clamping to full scale.
func interleaveInto[S fir.Sample](channels [][]S, dst []int, frames int, maxVal float64) {
	numChannels := len(channels)
	for i := range frames {
		base := i * numChannels
		for ch := range numChannels {
			sample := math.Max(-1, math.Min(1, fir.ToFloat(channels[ch][i])))
			dst[base+ch] = int(math.Round(sample * maxVal))
		}
	}
}

// framesIn returns the frame count all channels can supply.
func framesIn[S fir.Sample](channels [][]S) int {
	if len(channels) == 0 {
		return 0
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}
	return frames
}

// filterChannelData feeds one chunk of every channel into its chain.
func filterChannelData[S fir.Sample](chains []*pipeline.Chain[S], channelBufs [][]S, frames int, parallel bool) ([][]S, error) {
	if parallel && len(chains) > 1 {
		return filterParallel(chains, channelBufs, frames)
	}
	return filterSequential(chains, channelBufs, frames)
}

// filterParallel processes channels concurrently. Each goroutine touches
// only its own chain and delay line.
func filterParallel[S fir.Sample](chains []*pipeline.Chain[S], channelBufs [][]S, frames int) ([][]S, error) {
	filtered := make([][]S, len(chains))
	var wg sync.WaitGroup
	var processErr error
	var errMu sync.Mutex

	for ch := range chains {
		wg.Add(1)
		go func(channel int) {
			defer wg.Done()
			out, err := chains[channel].Write(channelBufs[channel][:frames])
			if err != nil {
				errMu.Lock()
				if processErr == nil {
					processErr = fmt.Errorf("filtering failed on channel %d: %w", channel, err)
				}
				errMu.Unlock()
				return
			}
			filtered[channel] = out
		}(ch)
	}
	wg.Wait()

	if processErr != nil {
		return nil, processErr
	}
	return filtered, nil
}

// filterSequential processes channels one by one.
func filterSequential[S fir.Sample](chains []*pipeline.Chain[S], channelBufs [][]S, frames int) ([][]S, error) {
	filtered := make([][]S, len(chains))
	for ch, c := range chains {
		out, err := c.Write(channelBufs[ch][:frames])
		if err != nil {
			return nil, fmt.Errorf("filtering failed on channel %d: %w", ch, err)
		}
		filtered[ch] = out
	}
	return filtered, nil
}

// flushChannels pushes the trailing partial block of every chain.
func flushChannels[S fir.Sample](chains []*pipeline.Chain[S]) ([][]S, error) {
	flushed := make([][]S, len(chains))
	for ch, c := range chains {
		out, err := c.Flush()
		if err != nil {
			return nil, fmt.Errorf("failed to flush channel %d: %w", ch, err)
		}
		flushed[ch] = out
	}
	return flushed, nil
}
