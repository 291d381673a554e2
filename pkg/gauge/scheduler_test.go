package gauge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSchedulerUnprimed(t *testing.T) {
	s := NewScheduler(testPixelCount)
	frame := s.Render(time.Second, Snapshot{}, DefaultDisplayConfig())

	assert.False(t, frame.Valid)
	assert.Equal(t, RenderFill, frame.State)
	assert.Equal(t, NewBuffer(testPixelCount), frame.Pixels)
}

func TestSchedulerStable(t *testing.T) {
	s := NewScheduler(testPixelCount)
	cfg := DefaultDisplayConfig()
	frame := s.Render(time.Second, Snapshot{Weight: 650, History: historyOf(650), Valid: true}, cfg)

	assert.Equal(t, StabilityStable, frame.Stability)
	assert.Equal(t, RenderFill, frame.State)
	assert.Equal(t, Render(650, cfg, testPixelCount), frame.Pixels)
	assert.Equal(t, frame.Pixels, s.Last())
}

func TestSchedulerAbsent(t *testing.T) {
	s := NewScheduler(testPixelCount)
	cfg := DefaultDisplayConfig()
	frame := s.Render(time.Second, Snapshot{Weight: -200, History: historyOf(650, 650, 650, -200), Valid: true}, cfg)

	assert.Equal(t, StabilityPotAbsent, frame.Stability)
	assert.Equal(t, RenderFill, s.State())
	for i := range frame.Pixels {
		assert.Equal(t, AbsentColor(cfg.Brightness), frame.Pixels[i])
	}
}

func TestSchedulerDisturbed(t *testing.T) {
	s := NewScheduler(testPixelCount)
	cfg := DefaultDisplayConfig()
	snap := Snapshot{Weight: 900, History: historyOf(650, 650, 650, 900), Valid: true}

	frame := s.Render(10*time.Second, snap, cfg)
	assert.Equal(t, StabilityDisturbed, frame.Stability)
	assert.Equal(t, RenderDisturbance, s.State())
	assert.Equal(t, Animate(0, testPixelCount, cfg.Brightness), frame.Pixels)

	// Back to a settled reading
	frame = s.Render(10*time.Second+50*time.Millisecond, Snapshot{Weight: 900, History: historyOf(900), Valid: true}, cfg)
	assert.Equal(t, RenderFill, s.State())
	assert.Equal(t, Render(900, cfg, testPixelCount), frame.Pixels)
}

func TestSchedulerLastIsCopy(t *testing.T) {
	s := NewScheduler(testPixelCount)
	frame := s.Render(0, Snapshot{Weight: 650, History: historyOf(650), Valid: true}, DefaultDisplayConfig())
	frame.Pixels[0] = RGB{B: 1}

	assert.NotEqual(t, frame.Pixels[0], s.Last()[0])
	assert.Equal(t, testPixelCount, s.PixelCount())
}
