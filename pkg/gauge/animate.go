package gauge

import (
	"time"

	"github.com/chewxy/math32"
)

const (

	// AnimationPeriod denotes the duration of one sweep of the disturbance animation
	AnimationPeriod = time.Second

	// AnimationRepetitions denotes the number of wave crests travelling around the strip
	AnimationRepetitions = 3
)

// AdvanceEpoch returns the animation epoch to be used at time now. After more than two
// idle periods the animation restarts at now, after more than one period the epoch is
// moved forward by exactly one period to keep the phase continuous.
func AdvanceEpoch(now, epoch, period time.Duration) time.Duration {
	elapsed := now - epoch
	switch {
	case elapsed < 0 || elapsed > 2*period:
		return now
	case elapsed > period:
		return epoch + period
	default:
		return epoch
	}
}

// Animate computes a triangular brightness sweep for the given time since the
// animation epoch
func Animate(elapsed time.Duration, pixelCount int, brightness uint8) Buffer {
	buf := NewBuffer(pixelCount)
	if pixelCount == 0 {
		return buf
	}

	t := float32(elapsed) / float32(AnimationPeriod)
	for i := range buf {
		pos := (float32(i)/float32(pixelCount) + t) * AnimationRepetitions
		pos -= math32.Floor(pos)

		// Inverted V peaking at half the period, remapped to [-1, 1]
		symmetric := 1 - math32.Abs(pos-0.5)*2
		symmetric = symmetric*2 - 1

		v := uint8(math32.Max(float32(brightness)*symmetric, 0))
		buf[i] = RGB{R: v, G: v}
	}

	return buf
}

// Animator keeps track of the epoch of the disturbance animation
type Animator struct {
	period  time.Duration
	epoch   time.Duration
	started bool
}

// NewAnimator instantiates a new animator with the given period
func NewAnimator(period time.Duration) *Animator {
	if period <= 0 {
		period = AnimationPeriod
	}
	return &Animator{
		period: period,
	}
}

// Frame advances the epoch to now and returns the corresponding animation frame. The
// first frame ever requested starts the epoch
func (a *Animator) Frame(now time.Duration, pixelCount int, brightness uint8) Buffer {
	if !a.started {
		a.epoch, a.started = now, true
	}
	a.epoch = AdvanceEpoch(now, a.epoch, a.period)

	elapsed := now - a.epoch
	if a.period != AnimationPeriod {
		elapsed = time.Duration(float64(elapsed) * float64(AnimationPeriod) / float64(a.period))
	}
	return Animate(elapsed, pixelCount, brightness)
}

// Epoch returns the current animation epoch
func (a *Animator) Epoch() time.Duration {
	return a.epoch
}
