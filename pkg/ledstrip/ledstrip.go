// Package ledstrip drives a WS2812B style NRZ LED strip attached to an SPI port
package ledstrip

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

const (

	// DefaultPixelCount denotes the default number of pixels on the strip
	DefaultPixelCount = 24

	// DefaultFrequency denotes the SPI clock rate, three SPI bits encoding one NRZ bit at 800kHz
	DefaultFrequency = 2500 * physic.KiloHertz

	channels = 3
)

// ErrClosed denotes that the strip has already been closed
var ErrClosed = errors.New("strip already closed")

// writer denotes the minimal functionality required from the underlying device
type writer interface {
	Write(p []byte) (int, error)
	Halt() error
}

// Strip denotes an LED strip
type Strip struct {
	dev  writer
	port spi.PortCloser

	pixelCount int
	frequency  physic.Frequency
	closed     bool

	logger scale.Logger
	mu     sync.Mutex
}

// Open initializes the host drivers and opens an LED strip on the named SPI port (empty name
// selects the first available port), executing functional options, if any
func Open(portName string, options ...func(*Strip)) (*Strip, error) {
	s := newStrip(options...)

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port `%s`: %w", portName, err)
	}

	if err := s.attach(port); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to initialize LED strip on SPI port `%s`: %w", portName, err)
	}
	s.logger.Infof("opened LED strip with %d pixels on %s", s.pixelCount, port)

	return s, nil
}

// PixelCount returns the number of pixels on the strip
func (s *Strip) PixelCount() int {
	return s.pixelCount
}

// Show writes a frame to the strip, truncating / blank padding it to the strip length
func (s *Strip) Show(buf gauge.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, err := s.dev.Write(frame(buf, s.pixelCount)); err != nil {
		return fmt.Errorf("failed to write frame to LED strip: %w", err)
	}

	return nil
}

// Close blanks the strip and releases the underlying port
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if _, err := s.dev.Write(frame(nil, s.pixelCount)); err != nil {
		errs = append(errs, fmt.Errorf("failed to blank LED strip: %w", err))
	}
	if err := s.dev.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("failed to halt LED strip: %w", err))
	}
	if s.port != nil {
		if err := s.port.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close SPI port: %w", err))
		}
	}

	return errors.Join(errs...)
}

////////////////////////////////////////////////////////////////////////////////

func newStrip(options ...func(*Strip)) *Strip {
	s := &Strip{
		pixelCount: DefaultPixelCount,
		frequency:  DefaultFrequency,
		logger:     &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(s)
	}

	return s
}

func frame(buf gauge.Buffer, pixelCount int) []byte {
	out := make([]byte, pixelCount*channels)
	for i := 0; i < pixelCount && i < len(buf); i++ {
		out[i*channels] = buf[i].R
		out[i*channels+1] = buf[i].G
		out[i*channels+2] = buf[i].B
	}

	return out
}

func (s *Strip) attach(port spi.PortCloser) error {
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: s.pixelCount,
		Channels:  channels,
		Freq:      s.frequency,
	})
	if err != nil {
		return err
	}
	s.dev, s.port = dev, port

	return nil
}
