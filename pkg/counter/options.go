package counter

import (
	"time"

	"github.com/fako1024/potlight/pkg/scale"
)

// WithSampleInterval sets the interval between two sensor readings
func WithSampleInterval(interval time.Duration) func(*Counter) {
	return func(c *Counter) {
		c.sampleInterval = interval
	}
}

// WithRenderInterval sets the interval between two frames
func WithRenderInterval(interval time.Duration) func(*Counter) {
	return func(c *Counter) {
		c.renderInterval = interval
	}
}

// WithAveraging sets the number of raw conversions averaged per reading
func WithAveraging(n int) func(*Counter) {
	return func(c *Counter) {
		c.averaging = n
	}
}

// WithPixelCount sets the number of pixels on the strip
func WithPixelCount(n int) func(*Counter) {
	return func(c *Counter) {
		c.pixelCount = n
	}
}

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*Counter) {
	return func(c *Counter) {
		c.logger = logger
	}
}
