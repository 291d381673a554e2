package serialcell

import (
	"time"

	"github.com/fako1024/potlight/pkg/scale"
)

// WithMaxSkips sets the number of consecutive malformed lines tolerated per reading
func WithMaxSkips(n int) func(*Cell) {
	return func(c *Cell) {
		c.maxSkips = n
	}
}

// WithReadTimeout sets the read timeout of the serial port
func WithReadTimeout(timeout time.Duration) func(*Cell) {
	return func(c *Cell) {
		c.readTimeout = timeout
	}
}

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*Cell) {
	return func(c *Cell) {
		c.logger = logger
	}
}
