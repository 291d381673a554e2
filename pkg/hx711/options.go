package hx711

import (
	"time"

	"github.com/fako1024/potlight/pkg/scale"
	"periph.io/x/conn/v3/physic"
)

// WithGain sets the input channel / gain
func WithGain(gain Gain) func(*HX711) {
	return func(h *HX711) {
		h.gain = gain
	}
}

// WithTimeout sets the maximum time to wait for a conversion
func WithTimeout(timeout time.Duration) func(*HX711) {
	return func(h *HX711) {
		h.timeout = timeout
	}
}

// WithPollEdge detects the data ready edge by polling the data pin at the given frequency,
// for pins without native edge detection
func WithPollEdge(freq physic.Frequency) func(*HX711) {
	return func(h *HX711) {
		h.pollFreq = freq
	}
}

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*HX711) {
	return func(h *HX711) {
		h.logger = logger
	}
}
