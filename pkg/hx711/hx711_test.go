package hx711

import (
	"sync"
	"testing"
	"time"

	"github.com/fako1024/potlight/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

const dataBits = 24

var _ scale.Sensor = (*HX711)(nil)

// fakeADC emulates the serial interface of the chip: DOUT is low while a conversion is
// available, each rising clock edge shifts out the next bit (MSB first) and the clock
// pulses following the 24 data bits select the gain. A conversion is considered done
// once DOUT is sampled with the clock low after at least one gain pulse.
type fakeADC struct {
	samples []uint32
	idx     int
	pulses  int
	clkHigh bool
	busy    int
	gains   []int

	sync.Mutex
}

func (f *fakeADC) clock(l gpio.Level) {
	f.Lock()
	defer f.Unlock()

	if l == gpio.High && !f.clkHigh {
		f.pulses++
	}
	f.clkHigh = bool(l)
}

func (f *fakeADC) dout() gpio.Level {
	f.Lock()
	defer f.Unlock()

	if !f.clkHigh && f.pulses > dataBits {
		f.gains = append(f.gains, f.pulses-dataBits)
		f.pulses = 0
		f.idx++
	}

	if f.idx >= len(f.samples) {
		return gpio.High
	}
	if f.pulses == 0 {
		if f.busy > 0 {
			f.busy--
			return gpio.High
		}
		return gpio.Low
	}
	if f.pulses <= dataBits {
		return gpio.Level(f.samples[f.idx]>>(dataBits-f.pulses)&1 == 1)
	}
	return gpio.High
}

type fakeClock struct {
	*gpiotest.Pin
	adc *fakeADC
}

func (c *fakeClock) Out(l gpio.Level) error {
	c.adc.clock(l)
	return c.Pin.Out(l)
}

type fakeData struct {
	*gpiotest.Pin
	adc *fakeADC
}

func (d *fakeData) Read() gpio.Level {
	return d.adc.dout()
}

func newFake(t *testing.T, adc *fakeADC, options ...func(*HX711)) *HX711 {
	clk := &fakeClock{Pin: &gpiotest.Pin{N: "CLK"}, adc: adc}
	data := &fakeData{Pin: &gpiotest.Pin{N: "DOUT", EdgesChan: make(chan gpio.Level)}, adc: adc}

	h, err := New(clk, data, append([]func(*HX711){WithTimeout(20 * time.Millisecond)}, options...)...)
	require.NoError(t, err)

	return h
}

func TestRead(t *testing.T) {
	adc := &fakeADC{samples: []uint32{0x01E240, 0xFFFFFE, 0x800000, 0x7FFFFF}}
	h := newFake(t, adc)

	for _, expected := range []int32{123456, -2, -8388608, 8388607} {
		val, err := h.Read()
		require.NoError(t, err)
		assert.Equal(t, expected, val)
	}

	// The last conversion is only marked done by the next readiness check
	assert.False(t, h.IsReady())
	assert.Equal(t, []int{1, 1, 1, 1}, adc.gains)
}

func TestReadRawAveraged(t *testing.T) {
	h := newFake(t, &fakeADC{samples: []uint32{100, 200, 301, 0xFFFFFF}})

	val, err := h.ReadRawAveraged(3)
	require.NoError(t, err)
	assert.Equal(t, int32(200), val)

	_, err = h.ReadRawAveraged(0)
	assert.Error(t, err)
}

func TestReadRawAveragedNegative(t *testing.T) {
	h := newFake(t, &fakeADC{samples: []uint32{0xFFFFFF, 0xFFFFFE}})

	val, err := h.ReadRawAveraged(2)
	require.NoError(t, err)
	assert.Equal(t, int32(-2), val)
}

func TestGainDiscardsFirstConversion(t *testing.T) {
	adc := &fakeADC{samples: []uint32{999, 42}}
	h := newFake(t, adc, WithGain(GainA64))

	val, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, int32(42), val)

	assert.False(t, h.IsReady())
	assert.Equal(t, []int{int(GainA64), int(GainA64)}, adc.gains)
}

func TestPollEdge(t *testing.T) {
	adc := &fakeADC{samples: []uint32{999, 42}, busy: 3}
	h := newFake(t, adc,
		WithGain(GainB32),
		WithPollEdge(10*physic.KiloHertz),
		WithTimeout(time.Second),
	)

	val, err := h.Read()
	require.NoError(t, err)
	assert.Equal(t, int32(42), val)
	assert.Equal(t, []int{int(GainB32)}, adc.gains)
}

func TestReadTimeout(t *testing.T) {
	h := newFake(t, &fakeADC{})

	assert.False(t, h.IsReady())
	_, err := h.Read()
	assert.ErrorIs(t, err, ErrTimeout)

	_, err = h.ReadRawAveraged(2)
	assert.ErrorIs(t, err, ErrTimeout)

	// Same when settling a non-default gain setting
	h = newFake(t, &fakeADC{}, WithGain(GainA64), WithPollEdge(10*physic.KiloHertz))
	_, err = h.Read()
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClosePowersDown(t *testing.T) {
	clk := &gpiotest.Pin{N: "CLK"}
	data := &gpiotest.Pin{N: "DOUT", EdgesChan: make(chan gpio.Level)}

	h, err := New(clk, data)
	require.NoError(t, err)
	assert.Equal(t, gpio.Low, clk.Read())

	require.NoError(t, h.Close())
	assert.Equal(t, gpio.High, clk.Read())
	assert.Contains(t, h.String(), "CLK")
}

func TestNewInvalid(t *testing.T) {
	_, err := New(nil, &gpiotest.Pin{})
	assert.Error(t, err)

	// Edge detection unavailable on the data pin
	_, err = New(&gpiotest.Pin{N: "CLK"}, &gpiotest.Pin{N: "DOUT"})
	assert.Error(t, err)
}
