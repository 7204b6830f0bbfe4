package kernel

// DelayLine lays out a caller-supplied state buffer so that every
// convolution window is one contiguous slice.
//
// Layout for a buffer of capacity+taps-1 samples:
//
//	[ block slots: capacity, reverse time ][ history: taps-1, newest first ]
//
// A block of n samples is written reversed into the last n block slots, so
// buf[capacity-1-i] holds x[i]. The window for output i then starts at
// buf[capacity-1-i] and walks backwards in time across the block and into
// the history, matching coeffs[0..taps) in natural order.
type DelayLine[S Sample] struct {
	buf      []S
	taps     int
	capacity int
}

// NewDelayLine binds state to a delay line and clears it.
// len(state) must be at least taps+capacity-1.
func NewDelayLine[S Sample](state []S, taps, capacity int) DelayLine[S] {
	d := DelayLine[S]{
		buf:      state[:taps+capacity-1],
		taps:     taps,
		capacity: capacity,
	}
	d.Clear()
	return d
}

// Len returns the number of state samples the line uses.
func (d *DelayLine[S]) Len() int {
	return len(d.buf)
}

// Clear zeroes the history and block slots.
func (d *DelayLine[S]) Clear() {
	clear(d.buf)
}

// Load writes a block of len(input) <= capacity samples into the block slots.
func (d *DelayLine[S]) Load(input []S) {
	base := d.capacity - 1
	for i, x := range input {
		d.buf[base-i] = x
	}
}

// Window returns the taps samples x[i], x[i-1], ..., x[i-taps+1] for the
// block most recently passed to Load.
func (d *DelayLine[S]) Window(i int) []S {
	start := d.capacity - 1 - i
	return d.buf[start : start+d.taps]
}

// Advance shifts the newest taps-1 samples of an n-sample block into the
// history slots. Blocks shorter than taps-1 keep the older history behind
// them because the two regions are adjacent.
func (d *DelayLine[S]) Advance(n int) {
	if n == 0 || d.taps == 1 {
		return
	}
	hist := d.taps - 1
	copy(d.buf[d.capacity:d.capacity+hist], d.buf[d.capacity-n:d.capacity-n+hist])
}
