package gauge

import "math"

// HistoryLength denotes the number of samples considered for stability detection
const HistoryLength = 4

// History denotes a fixed-size ring of the most recent weight samples. It is a plain
// value: copying it yields an independent snapshot.
type History struct {
	samples [HistoryLength]float64
	head    int // index of the oldest sample
	primed  bool
}

// Push evicts the oldest sample and appends the provided one. The first sample pushed
// into an unprimed history is replicated into all slots.
func (h *History) Push(sample float64) {
	if !h.primed {
		for i := range h.samples {
			h.samples[i] = sample
		}
		h.head = 0
		h.primed = true
		return
	}

	h.samples[h.head] = sample
	h.head = (h.head + 1) % HistoryLength
}

// Primed returns if at least one real sample has been pushed
func (h History) Primed() bool {
	return h.primed
}

// Len returns the number of samples in the window
func (h History) Len() int {
	return HistoryLength
}

// Values returns the samples in insertion order (oldest first)
func (h History) Values() []float64 {
	res := make([]float64, 0, HistoryLength)
	for i := 0; i < HistoryLength; i++ {
		res = append(res, h.samples[(h.head+i)%HistoryLength])
	}
	return res
}

// Latest returns the most recently pushed sample
func (h History) Latest() float64 {
	return h.samples[(h.head+HistoryLength-1)%HistoryLength]
}

// Mean returns the arithmetic mean of the window
func (h History) Mean() float64 {
	var sum float64
	for _, v := range h.samples {
		sum += v
	}
	return sum / HistoryLength
}

// StdDev returns the population standard deviation of the window
func (h History) StdDev() float64 {
	mean := h.Mean()

	var sum float64
	for _, v := range h.samples {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / HistoryLength)
}
