package pipeline

import (
	"sync"

	"github.com/tphakala/go-fir/internal/kernel"
)

// RingBuffer implements a growable circular buffer of samples.
// It frames arbitrary-sized writes into the fixed blocks a filter expects.
type RingBuffer[S kernel.Sample] struct {
	data     []S
	capacity int
	size     int
	readPos  int
	writePos int
	mu       sync.Mutex
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer[S kernel.Sample](capacity int) *RingBuffer[S] {
	if capacity < 1 {
		capacity = 1
	}

	return &RingBuffer[S]{
		data:     make([]S, capacity),
		capacity: capacity,
	}
}

// Write adds samples to the buffer.
// If the buffer doesn't have enough space, it will grow automatically.
func (b *RingBuffer[S]) Write(samples []S) {
	b.mu.Lock()
	defer b.mu.Unlock()

	needed := len(samples)
	if needed == 0 {
		return
	}

	if b.size+needed > b.capacity {
		b.grow(b.size + needed)
	}

	// Write in at most two contiguous runs
	n := copy(b.data[b.writePos:], samples)
	copy(b.data, samples[n:])
	b.writePos = (b.writePos + needed) % b.capacity
	b.size += needed
}

// ReadInto moves up to len(dst) samples into dst and returns the count.
func (b *RingBuffer[S]) ReadInto(dst []S) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := min(len(dst), b.size)
	if n == 0 {
		return 0
	}

	first := min(n, b.capacity-b.readPos)
	copy(dst, b.data[b.readPos:b.readPos+first])
	copy(dst[first:n], b.data)
	b.readPos = (b.readPos + n) % b.capacity
	b.size -= n
	return n
}

// Read retrieves up to n samples from the buffer.
// Returns fewer samples if less are available.
func (b *RingBuffer[S]) Read(n int) []S {
	if n <= 0 {
		return []S{}
	}
	out := make([]S, min(n, b.Available()))
	return out[:b.ReadInto(out)]
}

// Available returns the number of samples available for reading.
func (b *RingBuffer[S]) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Capacity returns the current buffer capacity.
func (b *RingBuffer[S]) Capacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.capacity
}

// Clear removes all samples from the buffer.
func (b *RingBuffer[S]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.size = 0
	b.readPos = 0
	b.writePos = 0
}

// grow increases the buffer capacity to at least the specified size.
func (b *RingBuffer[S]) grow(minCapacity int) {
	newCapacity := b.capacity
	for newCapacity < minCapacity {
		newCapacity *= bufferGrowthFactor
	}

	newData := make([]S, newCapacity)

	// Copy existing data to maintain order
	if b.size > 0 {
		if b.readPos < b.writePos {
			copy(newData, b.data[b.readPos:b.writePos])
		} else {
			n1 := copy(newData, b.data[b.readPos:])
			copy(newData[n1:], b.data[:b.writePos])
		}
	}

	b.data = newData
	b.capacity = newCapacity
	b.readPos = 0
	b.writePos = b.size
}
