package scale

import "github.com/fako1024/potlight/pkg/gauge"

// Sensor denotes a load cell delivering raw (unconverted) readings
type Sensor interface {

	// ReadRawAveraged returns the mean of n consecutive raw readings
	ReadRawAveraged(n int) (int32, error)

	// Close releases the underlying hardware
	Close() error
}

// Strip denotes an addressable LED strip (or anything else consuming pixel buffers)
type Strip interface {

	// Show commits the pixel buffer to the strip
	Show(buf gauge.Buffer) error

	// Close blanks the strip and releases the underlying hardware
	Close() error
}

// Multi denotes a set of strips showing the same buffer
type Multi []Strip

// Show commits the buffer to all strips, returning the first error encountered
func (m Multi) Show(buf gauge.Buffer) (err error) {
	for _, s := range m {
		if serr := s.Show(buf); serr != nil && err == nil {
			err = serr
		}
	}
	return
}

// Close closes all strips, returning the first error encountered
func (m Multi) Close() (err error) {
	for _, s := range m {
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return
}
