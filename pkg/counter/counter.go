// Package counter implements the device runtime: it periodically samples the load cell,
// converts and classifies the readings and drives the LED strip from them
package counter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fako1024/potlight/pkg/calibration"
	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/fako1024/potlight/pkg/store"
	"github.com/fatih/stopwatch"
)

const (

	// DefaultSampleInterval denotes the default interval between two sensor readings
	DefaultSampleInterval = 500 * time.Millisecond

	// DefaultRenderInterval denotes the default interval between two frames
	DefaultRenderInterval = 50 * time.Millisecond

	// DefaultPixelCount denotes the default number of pixels on the strip
	DefaultPixelCount = 24
)

// Status denotes the current state of the counter
type Status struct {
	State       scale.State       `json:"state"`
	Raw         int32             `json:"raw"`
	Weight      float64           `json:"weight"`
	Servings    int               `json:"servings"`
	Stability   gauge.Stability   `json:"stability"`
	RenderState gauge.RenderState `json:"render_state"`
	LastSample  time.Time         `json:"last_sample"`
	Error       string            `json:"error,omitempty"`
}

// Counter denotes a coffee pot fill gauge
type Counter struct {
	sensor scale.Sensor
	strip  scale.Strip
	store  store.Store

	// Guarded by mu: the persisted record and the state handed from the
	// sampling to the render loop
	rec       store.Record
	history   gauge.History
	snap      gauge.Snapshot
	state     scale.State
	raw       int32
	last      time.Time
	lastErr   error
	stability gauge.Stability
	rendered  gauge.RenderState
	mu        sync.Mutex

	// Serializes access to the sensor between sampling and calibration
	sensorMu sync.Mutex

	// Guards the scheduler and the strip
	scheduler *gauge.Scheduler
	renderMu  sync.Mutex

	clock *stopwatch.Stopwatch

	sampleInterval time.Duration
	renderInterval time.Duration
	averaging      int
	pixelCount     int

	dataHandler func(data scale.DataPoint)
	dataChan    chan scale.DataPoint

	logger scale.Logger
}

// New instantiates a new Counter, executing functional options, if any. The persisted
// record is loaded from the store (falling back to defaults if none / an invalid one is found).
func New(sensor scale.Sensor, strip scale.Strip, st store.Store, options ...func(*Counter)) (*Counter, error) {
	if sensor == nil || strip == nil || st == nil {
		return nil, fmt.Errorf("sensor, strip and store are required")
	}

	c := &Counter{
		sensor:         sensor,
		strip:          strip,
		store:          st,
		sampleInterval: DefaultSampleInterval,
		renderInterval: DefaultRenderInterval,
		averaging:      calibration.DefaultAveraging,
		pixelCount:     DefaultPixelCount,
		logger:         &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(c)
	}

	if c.pixelCount <= 0 {
		return nil, fmt.Errorf("invalid number of pixels: %d", c.pixelCount)
	}
	if c.averaging <= 0 {
		return nil, fmt.Errorf("invalid number of samples to average: %d", c.averaging)
	}
	if c.sampleInterval <= 0 || c.renderInterval <= 0 {
		return nil, fmt.Errorf("invalid sampling / render interval: %v / %v", c.sampleInterval, c.renderInterval)
	}

	c.rec = store.LoadOrDefault(st, c.logger)
	c.scheduler = gauge.NewScheduler(c.pixelCount)
	c.clock = stopwatch.Start(0)

	return c, nil
}

// Run executes the sampling and render loops until the context is cancelled
func (c *Counter) Run(ctx context.Context) error {
	c.logger.Infof("starting counter (sampling every %v, rendering every %v)", c.sampleInterval, c.renderInterval)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c.loop(ctx, c.sampleInterval, c.sample)
	}()
	go func() {
		defer wg.Done()
		c.loop(ctx, c.renderInterval, c.render)
	}()
	wg.Wait()

	c.logger.Infof("stopped counter")
	return nil
}

// Status returns the current state of the counter
func (c *Counter) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := Status{
		State:       c.state,
		Raw:         c.raw,
		Weight:      c.snap.Weight,
		Servings:    servings(c.snap.Weight, c.rec.Display.UnitPerServing),
		Stability:   c.stability,
		RenderState: c.rendered,
		LastSample:  c.last,
	}
	if c.lastErr != nil {
		status.Error = c.lastErr.Error()
	}

	return status
}

// Config returns the active display configuration
func (c *Counter) Config() gauge.DisplayConfig {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rec.Display
}

// Calibration returns the active calibration parameters
func (c *Counter) Calibration() gauge.CalibrationParams {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rec.Calibration
}

// UpdateConfig validates, persists and applies a new display configuration and
// immediately re-renders the strip. An invalid configuration leaves the active one untouched.
func (c *Counter) UpdateConfig(cfg gauge.DisplayConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := c.update(func(rec *store.Record) {
		rec.Display = cfg
	}); err != nil {
		return err
	}
	c.logger.Infof("applied display configuration: %+v", cfg)

	c.render()
	return nil
}

// Tare sets the current load as zero point
func (c *Counter) Tare() error {
	c.sensorMu.Lock()
	offset, err := calibration.Tare(c.sensor, c.averaging)
	c.sensorMu.Unlock()
	if err != nil {
		return err
	}

	if err := c.update(func(rec *store.Record) {
		rec.Calibration.Offset = offset
	}); err != nil {
		return err
	}
	c.logger.Infof("tared scale, new offset: %v", offset)

	c.render()
	return nil
}

// Calibrate determines the scale factor from a known reference weight currently placed
// on the (previously tared) scale
func (c *Counter) Calibrate(referenceWeight float64) error {
	offset := c.Calibration().Offset

	c.sensorMu.Lock()
	params, err := calibration.Calibrate(c.sensor, c.averaging, offset, referenceWeight)
	c.sensorMu.Unlock()
	if err != nil {
		return err
	}

	if err := c.update(func(rec *store.Record) {
		rec.Calibration = params
	}); err != nil {
		return err
	}
	c.logger.Infof("calibrated scale with reference weight %v, new scale factor: %v", referenceWeight, params.Scale)

	c.render()
	return nil
}

// Pixels returns a copy of the last frame sent to the strip
func (c *Counter) Pixels() gauge.Buffer {
	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	return c.scheduler.Last()
}

// SetDataHandler defines a handler function that is called upon retrieval of data
func (c *Counter) SetDataHandler(fn func(data scale.DataPoint)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dataHandler = fn
}

// SetDataChannel defines a channel that receives every data point (dropped if the
// channel is not ready)
func (c *Counter) SetDataChannel(ch chan scale.DataPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.dataChan = ch
}

// Close terminates the connection to sensor and strip
func (c *Counter) Close() error {
	c.sensorMu.Lock()
	sensorErr := c.sensor.Close()
	c.sensorMu.Unlock()

	c.renderMu.Lock()
	c.clock.Stop()
	stripErr := c.strip.Close()
	c.renderMu.Unlock()

	return errors.Join(sensorErr, stripErr)
}

////////////////////////////////////////////////////////////////////////////////

func (c *Counter) loop(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		fn()

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// sample takes a single (averaged) reading and publishes the resulting snapshot
func (c *Counter) sample() {
	c.sensorMu.Lock()
	raw, err := c.sensor.ReadRawAveraged(c.averaging)
	c.sensorMu.Unlock()

	c.mu.Lock()
	if err != nil {
		c.state, c.lastErr = scale.StateSensorError, err
		c.mu.Unlock()
		c.logger.Warnf("failed to read sensor: %s", err)
		return
	}

	state := scale.StateRunning
	weight, err := gauge.Convert(raw, c.rec.Calibration)
	if err != nil {
		state, weight = scale.StateUncalibrated, 0
	}

	c.history.Push(weight)
	c.snap = gauge.Snapshot{
		Weight:  weight,
		History: c.history,
		Valid:   true,
	}
	if c.state != state {
		c.logger.Infof("changed state from `%s` to `%s`", c.state, state)
	}
	c.state, c.raw, c.lastErr, c.last = state, raw, err, time.Now()

	dataPoint := scale.DataPoint{
		TimeStamp: c.last,
		Unit:      scale.UnitGrams,
		Raw:       raw,
		Weight:    weight,
		Stability: gauge.Classify(c.history, weight, c.rec.Display.Capacity),
	}
	dataHandler, dataChan := c.dataHandler, c.dataChan
	c.mu.Unlock()

	c.logger.Debugf("sampled raw value %d, weight %.1f (%s)", raw, weight, dataPoint.Stability)

	// Call handler function, if any
	if dataHandler != nil {
		dataHandler(dataPoint)
	}

	// Put data point on channel, if any
	if dataChan != nil {
		select {
		case dataChan <- dataPoint:
		default:
		}
	}
}

// render computes the next frame from the latest snapshot and shows it on the strip
func (c *Counter) render() {
	c.mu.Lock()
	snap, cfg := c.snap, c.rec.Display
	c.mu.Unlock()

	c.renderMu.Lock()
	frame := c.scheduler.Render(c.clock.ElapsedTime(), snap, cfg)
	if err := c.strip.Show(frame.Pixels); err != nil {
		c.logger.Warnf("failed to show frame: %s", err)
	}
	c.renderMu.Unlock()

	c.mu.Lock()
	c.stability, c.rendered = frame.Stability, frame.State
	c.mu.Unlock()
}

// update persists a modified copy of the record and applies it once stored
func (c *Counter) update(fn func(rec *store.Record)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.rec
	fn(&rec)
	if err := c.store.Save(rec); err != nil {
		return fmt.Errorf("failed to persist record: %w", err)
	}
	rec.Version = store.Version

	calibrationChanged := rec.Calibration != c.rec.Calibration
	c.rec = rec

	// Readings taken with the former parameters are not comparable anymore, restart
	// from the last raw value converted with the new ones
	if calibrationChanged && c.snap.Valid {
		weight, err := gauge.Convert(c.raw, rec.Calibration)
		switch {
		case err != nil:
			weight, c.state, c.lastErr = 0, scale.StateUncalibrated, err
		case c.state == scale.StateUncalibrated:
			c.state, c.lastErr = scale.StateRunning, nil
		}

		c.history = gauge.History{}
		c.history.Push(weight)
		c.snap = gauge.Snapshot{
			Weight:  weight,
			History: c.history,
			Valid:   true,
		}
	}

	return nil
}

func servings(weight, unitPerServing float64) int {
	if weight <= 0 || unitPerServing <= 0 {
		return 0
	}

	return int(math.Floor(weight / unitPerServing))
}
