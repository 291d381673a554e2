package mock

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
)

const (
	defaultOffset        = 84000
	defaultCountsPerUnit = 420.
)

// ErrClosed denotes an access to a closed mock device
var ErrClosed = errors.New("mock device closed")

// Sensor denotes a simulated load cell
type Sensor struct {
	offset        float64
	countsPerUnit float64
	weight        float64
	jitter        float64
	pressAmp      float64
	pressReads    int
	failReads     int
	reads         int

	rnd    *rand.Rand
	closed bool
	mu     sync.Mutex
}

// NewSensor instantiates a new simulated load cell, executing functional options, if any
func NewSensor(options ...func(*Sensor)) *Sensor {
	s := &Sensor{
		offset:        defaultOffset,
		countsPerUnit: defaultCountsPerUnit,
		rnd:           rand.New(rand.NewSource(1)),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// WithOffset sets the raw reading at zero load
func WithOffset(offset float64) func(*Sensor) {
	return func(s *Sensor) {
		s.offset = offset
	}
}

// WithCountsPerUnit sets the raw counts per unit of weight
func WithCountsPerUnit(counts float64) func(*Sensor) {
	return func(s *Sensor) {
		s.countsPerUnit = counts
	}
}

// WithJitter sets the amplitude (in units of weight) of the random sample noise
func WithJitter(amplitude float64) func(*Sensor) {
	return func(s *Sensor) {
		s.jitter = amplitude
	}
}

// WithWeight sets the initial load
func WithWeight(weight float64) func(*Sensor) {
	return func(s *Sensor) {
		s.weight = weight
	}
}

// SetWeight changes the simulated load
func (s *Sensor) SetWeight(weight float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.weight = weight
}

// Weight returns the simulated load
func (s *Sensor) Weight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.weight
}

// Press simulates someone handling the pot: the next n readings swing by +/- amplitude
func (s *Sensor) Press(amplitude float64, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pressAmp = amplitude
	s.pressReads = n
}

// Remove simulates lifting a pot of the given empty weight off the tared scale
func (s *Sensor) Remove(potWeight float64) {
	s.SetWeight(-potWeight)
}

// Fail causes the next n readings to fail
func (s *Sensor) Fail(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failReads = n
}

// Reads returns the number of (averaged) readings taken
func (s *Sensor) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reads
}

// Raw returns the raw reading corresponding to a weight
func (s *Sensor) Raw(weight float64) int32 {
	return int32(math.Round(s.offset + weight*s.countsPerUnit))
}

// ReadRawAveraged returns a simulated averaged raw reading
func (s *Sensor) ReadRawAveraged(n int) (int32, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	s.reads++

	if s.failReads > 0 {
		s.failReads--
		return 0, errors.New("simulated sensor failure")
	}

	weight := s.weight
	if s.jitter > 0 {
		weight += (s.rnd.Float64()*2 - 1) * s.jitter
	}
	if s.pressReads > 0 {
		if s.pressReads%2 == 0 {
			weight += s.pressAmp
		} else {
			weight -= s.pressAmp
		}
		s.pressReads--
	}

	return int32(math.Round(s.offset + weight*s.countsPerUnit)), nil
}

// Close terminates the simulated device
func (s *Sensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
