package hx711

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/fako1024/potlight/pkg/scale"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpioutil"
	"periph.io/x/conn/v3/physic"
	driver "periph.io/x/devices/v3/hx711"
	"periph.io/x/host/v3"
)

const defaultTimeout = time.Second

// Gain denotes the input channel and amplifier gain
type Gain = driver.InputMode

const (

	// GainA128 selects channel A with a gain of 128
	GainA128 = driver.CHANNEL_A_GAIN_128

	// GainB32 selects channel B with a gain of 32
	GainB32 = driver.CHANNEL_B_GAIN_32

	// GainA64 selects channel A with a gain of 64
	GainA64 = driver.CHANNEL_A_GAIN_64
)

// ErrTimeout denotes that the ADC did not signal a finished conversion in time
var ErrTimeout = driver.ErrTimeout

// HX711 denotes an HX711 load cell amplifier attached to two GPIO lines
type HX711 struct {
	dev  *driver.Dev
	clk  gpio.PinOut
	data gpio.PinIn

	gain     Gain
	timeout  time.Duration
	pollFreq physic.Frequency

	// The gain setting takes effect with the conversion following the next read
	settled bool

	logger scale.Logger
	mu     sync.Mutex
}

// New instantiates a new HX711 on the provided pins, executing functional options, if any.
// The data pin must support edge detection (see WithPollEdge otherwise).
func New(clk gpio.PinOut, data gpio.PinIn, options ...func(*HX711)) (*HX711, error) {
	if clk == nil || data == nil {
		return nil, fmt.Errorf("clock and data pins are required")
	}

	h := &HX711{
		clk:     clk,
		data:    data,
		gain:    GainA128,
		timeout: defaultTimeout,
		logger:  &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(h)
	}

	if pin, ok := h.data.(gpio.PinIO); ok && h.pollFreq > 0 {
		h.data = gpioutil.PollEdge(pin, h.pollFreq)
	}

	dev, err := driver.New(h.clk, h.data)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize HX711 on %s / %s: %w", clk, data, err)
	}
	h.dev = dev

	// The chip powers up with channel A / gain 128
	h.settled = h.gain == GainA128

	return h, nil
}

// Open initializes the host drivers and instantiates a new HX711 on the named pins
func Open(clkName, dataName string, options ...func(*HX711)) (*HX711, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	clk := gpioreg.ByName(clkName)
	if clk == nil {
		return nil, fmt.Errorf("failed to find clock pin `%s`", clkName)
	}
	data := gpioreg.ByName(dataName)
	if data == nil {
		return nil, fmt.Errorf("failed to find data pin `%s`", dataName)
	}

	return New(clk, data, options...)
}

// IsReady returns if a conversion is available
func (h *HX711) IsReady() bool {
	return h.dev.IsReady()
}

// Read returns a single raw conversion result
func (h *HX711) Read() (int32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.settled {
		if err := h.settle(); err != nil {
			return 0, err
		}
	}

	return h.dev.ReadTimeout(h.timeout)
}

// ReadRawAveraged returns the mean of n consecutive conversions
func (h *HX711) ReadRawAveraged(n int) (int32, error) {
	if n <= 0 {
		return 0, fmt.Errorf("invalid number of samples requested: %d", n)
	}

	var sum int64
	for i := 0; i < n; i++ {
		val, err := h.Read()
		if err != nil {
			return 0, err
		}
		sum += int64(val)
	}

	return int32(math.Round(float64(sum) / float64(n))), nil
}

// Close powers down the chip by holding the clock line high
func (h *HX711) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.dev.Halt(); err != nil {
		return err
	}
	h.settled = h.gain == GainA128

	return h.clk.Out(gpio.High)
}

// String returns a description of the device
func (h *HX711) String() string {
	return fmt.Sprintf("%s (gain setting %d)", h.dev, h.gain)
}

////////////////////////////////////////////////////////////////////////////////

// settle waits for a conversion and clocks it out with the gain pulses of the configured
// setting, discarding the value
func (h *HX711) settle() error {
	if !h.dev.IsReady() && !h.data.WaitForEdge(h.timeout) {
		return ErrTimeout
	}
	if err := h.dev.SetInputMode(h.gain); err != nil {
		return fmt.Errorf("failed to select gain setting %d: %w", h.gain, err)
	}
	h.settled = true
	h.logger.Debugf("discarded first conversion after switching to gain setting %d", h.gain)

	return nil
}
