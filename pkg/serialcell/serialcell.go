// Package serialcell provides a load cell sensor attached via a serial line, e.g. a
// microcontroller forwarding raw ADC conversions as one decimal value per line
package serialcell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fako1024/potlight/pkg/scale"
	"go.bug.st/serial"
)

const (

	// DefaultBaudRate denotes the default serial baud rate
	DefaultBaudRate = 115200

	// DefaultMaxSkips denotes the default number of consecutive malformed lines tolerated
	DefaultMaxSkips = 5

	defaultReadTimeout = 2 * time.Second
)

// ErrTooManyMalformed denotes that no valid reading could be parsed from the line
var ErrTooManyMalformed = errors.New("too many malformed readings")

// Cell denotes a serial load cell
type Cell struct {
	port    io.ReadCloser
	scanner *bufio.Scanner

	name        string
	maxSkips    int
	readTimeout time.Duration

	logger scale.Logger
	mu     sync.Mutex
}

// Open opens the named serial port and instantiates a new Cell, executing functional options, if any
func Open(name string, baudRate int, options ...func(*Cell)) (*Cell, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}

	port, err := serial.Open(name, &serial.Mode{
		BaudRate: baudRate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", name, err)
	}

	c := newCell(name, port, options...)
	if err := port.SetReadTimeout(c.readTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout on serial port %s: %w", name, err)
	}

	return c, nil
}

// New instantiates a new Cell reading from an arbitrary source, executing functional options, if any
func New(name string, r io.ReadCloser, options ...func(*Cell)) *Cell {
	return newCell(name, r, options...)
}

// ReadRawAveraged returns the mean of the next n valid readings
func (c *Cell) ReadRawAveraged(n int) (int32, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var sum int64
	for i := 0; i < n; i++ {
		val, err := c.next()
		if err != nil {
			return 0, err
		}
		sum += int64(val)
	}

	return int32(math.Round(float64(sum) / float64(n))), nil
}

// Close closes the underlying port
func (c *Cell) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.port.Close()
}

// String returns a description of the device
func (c *Cell) String() string {
	return fmt.Sprintf("serial load cell on %s", c.name)
}

////////////////////////////////////////////////////////////////////////////////

func newCell(name string, r io.ReadCloser, options ...func(*Cell)) *Cell {
	c := &Cell{
		port:        r,
		scanner:     bufio.NewScanner(r),
		name:        name,
		maxSkips:    DefaultMaxSkips,
		readTimeout: defaultReadTimeout,
		logger:      &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(c)
	}

	return c
}

func (c *Cell) next() (int32, error) {
	for skipped := 0; skipped <= c.maxSkips; {
		if !c.scanner.Scan() {
			if err := c.scanner.Err(); err != nil {
				return 0, fmt.Errorf("failed to read from %s: %w", c.name, err)
			}
			return 0, fmt.Errorf("failed to read from %s: %w", c.name, io.EOF)
		}

		line := strings.TrimSpace(c.scanner.Text())
		if line == "" {
			continue
		}

		val, err := ParseLine(line)
		if err != nil {
			c.logger.Debugf("skipping malformed line `%s` from %s: %s", line, c.name, err)
			skipped++
			continue
		}

		return val, nil
	}

	return 0, fmt.Errorf("%w (more than %d in a row)", ErrTooManyMalformed, c.maxSkips)
}

// ParseLine parses a single reading, accepting an optional `raw:` / `raw=` prefix
func ParseLine(line string) (int32, error) {
	line = strings.TrimSpace(line)
	if idx := strings.IndexAny(line, ":="); idx >= 0 {
		if !strings.EqualFold(strings.TrimSpace(line[:idx]), "raw") {
			return 0, fmt.Errorf("unexpected field `%s`", line[:idx])
		}
		line = strings.TrimSpace(line[idx+1:])
	}

	val, err := strconv.ParseInt(line, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid raw value: %w", err)
	}

	return int32(val), nil
}
