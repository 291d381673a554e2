package mock

import (
	"sync"

	"github.com/fako1024/potlight/pkg/gauge"
)

// Strip denotes a simulated LED strip recording all shown frames
type Strip struct {
	frames []gauge.Buffer
	closed bool

	frameChan chan gauge.Buffer
	mu        sync.Mutex
}

// NewStrip instantiates a new simulated LED strip
func NewStrip() *Strip {
	return &Strip{}
}

// SetFrameChannel defines a channel that receives a copy of every frame shown
func (s *Strip) SetFrameChannel(ch chan gauge.Buffer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.frameChan = ch
}

// Show records the pixel buffer
func (s *Strip) Show(buf gauge.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.frames = append(s.frames, buf.Copy())

	if s.frameChan != nil {
		select {
		case s.frameChan <- buf.Copy():
		default:
		}
	}

	return nil
}

// Frames returns the number of frames shown so far
func (s *Strip) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.frames)
}

// Last returns the last frame shown (nil if none)
func (s *Strip) Last() gauge.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1].Copy()
}

// Close terminates the simulated strip
func (s *Strip) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
