package ledstrip

import (
	"github.com/fako1024/potlight/pkg/scale"
	"periph.io/x/conn/v3/physic"
)

// WithPixelCount sets the number of pixels on the strip
func WithPixelCount(n int) func(*Strip) {
	return func(s *Strip) {
		if n > 0 {
			s.pixelCount = n
		}
	}
}

// WithFrequency sets the SPI clock rate
func WithFrequency(f physic.Frequency) func(*Strip) {
	return func(s *Strip) {
		s.frequency = f
	}
}

// WithLogger sets a logger
func WithLogger(logger scale.Logger) func(*Strip) {
	return func(s *Strip) {
		s.logger = logger
	}
}
