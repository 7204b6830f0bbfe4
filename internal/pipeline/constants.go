package pipeline

// Buffer sizing
const (
	bufferGrowthFactor = 2 // Factor for buffer growth
	bufferBlockSlack   = 2 // Initial stage buffer capacity in blocks
)

// Latency calculation
const (
	latencyDivisor = 2 // Linear-phase group delay is (taps-1)/2
)
