// Package pipeline frames sample streams into filter blocks and cascades
// filter stages.
package pipeline

import (
	"fmt"

	fir "github.com/tphakala/go-fir"
	"github.com/tphakala/go-fir/internal/kernel"
)

// Stage is one block filter in a chain.
type Stage[S kernel.Sample] interface {
	// Process filters one block of at most BlockSize() samples and
	// returns the number of output samples written.
	Process(input, output []S) (int, error)

	// BlockSize returns the largest input block Process accepts.
	BlockSize() int

	// Factor returns the decimation factor (1 for direct filters).
	Factor() int

	// NumTaps returns the filter length.
	NumTaps() int

	// Reset clears the stage's delay line.
	Reset()
}

type directStage[S kernel.Sample] struct {
	*fir.Fir[S]
}

func (s directStage[S]) BlockSize() int { return s.MaxBlockSize() }

func (s directStage[S]) Factor() int { return 1 }

// Direct adapts a direct FIR filter to a Stage.
func Direct[S kernel.Sample](f *fir.Fir[S]) Stage[S] {
	return directStage[S]{f}
}

// Decimate adapts a decimating FIR filter to a Stage.
func Decimate[S kernel.Sample](f *fir.FirDecimate[S]) Stage[S] {
	return f
}

// Chain runs samples through a cascade of stages. Each stage sees full
// blocks of its BlockSize until Flush.
//
// A Chain is not safe for concurrent use.
type Chain[S kernel.Sample] struct {
	stages  []Stage[S]
	buffers []*RingBuffer[S]
	in      []S
	out     []S
}

// NewChain builds a chain over the given stages.
func NewChain[S kernel.Sample](stages ...Stage[S]) (*Chain[S], error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("pipeline: chain needs at least one stage")
	}

	c := &Chain[S]{
		stages:  stages,
		buffers: make([]*RingBuffer[S], len(stages)),
	}

	maxBlock := 0
	for i, s := range stages {
		if s.BlockSize() < 1 || s.Factor() < 1 {
			return nil, fmt.Errorf("pipeline: stage %d has block size %d, factor %d", i, s.BlockSize(), s.Factor())
		}
		c.buffers[i] = NewRingBuffer[S](s.BlockSize() * bufferBlockSlack)
		maxBlock = max(maxBlock, s.BlockSize())
	}
	c.in = make([]S, maxBlock)
	c.out = make([]S, maxBlock)

	return c, nil
}

// Write feeds samples into the chain and returns the output produced by
// every full block that became available.
func (c *Chain[S]) Write(samples []S) ([]S, error) {
	c.buffers[0].Write(samples)
	return c.drain(false)
}

// Flush pushes the remaining partial blocks through every stage. A
// decimating stage drops the trailing len%M samples of its last block.
func (c *Chain[S]) Flush() ([]S, error) {
	return c.drain(true)
}

// Reset clears all stage delay lines and buffered samples.
func (c *Chain[S]) Reset() {
	for i, s := range c.stages {
		s.Reset()
		c.buffers[i].Clear()
	}
}

// Factor returns the total decimation factor of the chain.
func (c *Chain[S]) Factor() int {
	f := 1
	for _, s := range c.stages {
		f *= s.Factor()
	}
	return f
}

// Latency returns the linear-phase group delay of the chain in input
// samples.
func (c *Chain[S]) Latency() float64 {
	var latency float64
	rate := 1
	for _, s := range c.stages {
		latency += float64(s.NumTaps()-1) / latencyDivisor * float64(rate)
		rate *= s.Factor()
	}
	return latency
}

func (c *Chain[S]) drain(flush bool) ([]S, error) {
	var result []S
	for i, s := range c.stages {
		buf := c.buffers[i]
		bs := s.BlockSize()
		for buf.Available() >= bs || (flush && buf.Available() > 0) {
			n := buf.ReadInto(c.in[:bs])
			k, err := s.Process(c.in[:n], c.out)
			if err != nil {
				return nil, fmt.Errorf("pipeline: stage %d: %w", i, err)
			}
			if i+1 < len(c.stages) {
				c.buffers[i+1].Write(c.out[:k])
			} else {
				result = append(result, c.out[:k]...)
			}
		}
	}
	return result, nil
}
