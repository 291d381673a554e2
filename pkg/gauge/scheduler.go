package gauge

import "time"

// RenderState denotes the logical state of the scheduler
type RenderState int

const (

	// RenderFill shows the fill level (or the absent color)
	RenderFill RenderState = iota

	// RenderDisturbance shows the disturbance animation
	RenderDisturbance
)

// String returns a string representation of the render state
func (s RenderState) String() string {
	switch s {
	case RenderFill:
		return "fill"
	case RenderDisturbance:
		return "disturbance"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s RenderState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot denotes an immutable copy of the sampling state handed to the render loop
type Snapshot struct {
	Weight  float64
	History History
	Valid   bool // Set once the first sample was converted
}

// Frame denotes the outcome of a single render cycle
type Frame struct {
	Pixels    Buffer
	Stability Stability
	State     RenderState
	Valid     bool
}

// Scheduler turns sampling snapshots into pixel buffers. It is not safe for concurrent
// use and is meant to be driven by a single render loop.
type Scheduler struct {
	pixelCount int
	animator   *Animator
	state      RenderState
	last       Buffer
}

// NewScheduler instantiates a new scheduler for a strip with the given number of pixels
func NewScheduler(pixelCount int) *Scheduler {
	return &Scheduler{
		pixelCount: pixelCount,
		animator:   NewAnimator(AnimationPeriod),
		last:       NewBuffer(pixelCount),
	}
}

// Render classifies the snapshot and computes the corresponding frame. Until the first
// sample was taken the strip stays unlit.
func (s *Scheduler) Render(now time.Duration, snap Snapshot, cfg DisplayConfig) Frame {
	frame := Frame{
		State: RenderFill,
		Valid: snap.Valid,
	}

	switch {
	case !snap.Valid:
		frame.Pixels = NewBuffer(s.pixelCount)
	default:
		frame.Stability = Classify(snap.History, snap.Weight, cfg.Capacity)
		switch frame.Stability {
		case StabilityPotAbsent:
			frame.Pixels = NewBuffer(s.pixelCount)
			frame.Pixels.Fill(AbsentColor(cfg.Brightness))
		case StabilityDisturbed:
			frame.State = RenderDisturbance
			frame.Pixels = s.animator.Frame(now, s.pixelCount, cfg.Brightness)
		default:
			frame.Pixels = Render(snap.Weight, cfg, s.pixelCount)
		}
	}

	s.state = frame.State
	s.last = frame.Pixels.Copy()

	return frame
}

// State returns the state selected by the last render cycle
func (s *Scheduler) State() RenderState {
	return s.state
}

// Last returns a copy of the last computed pixel buffer
func (s *Scheduler) Last() Buffer {
	return s.last.Copy()
}

// PixelCount returns the number of pixels of the strip
func (s *Scheduler) PixelCount() int {
	return s.pixelCount
}
