package mock

import (
	"testing"

	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ scale.Sensor = (*Sensor)(nil)
	_ scale.Strip  = (*Strip)(nil)
)

func TestSensorReading(t *testing.T) {
	s := NewSensor(WithOffset(1000), WithCountsPerUnit(10), WithWeight(50))

	raw, err := s.ReadRawAveraged(10)
	require.NoError(t, err)
	assert.Equal(t, int32(1500), raw)
	assert.Equal(t, s.Raw(50), raw)

	s.Remove(300)
	raw, err = s.ReadRawAveraged(10)
	require.NoError(t, err)
	assert.Equal(t, int32(-2000), raw)

	_, err = s.ReadRawAveraged(0)
	assert.Error(t, err)
}

func TestSensorPress(t *testing.T) {
	s := NewSensor(WithOffset(0), WithCountsPerUnit(1), WithWeight(500))
	s.Press(100, 2)

	first, err := s.ReadRawAveraged(1)
	require.NoError(t, err)
	second, err := s.ReadRawAveraged(1)
	require.NoError(t, err)
	third, err := s.ReadRawAveraged(1)
	require.NoError(t, err)

	assert.Equal(t, int32(600), first)
	assert.Equal(t, int32(400), second)
	assert.Equal(t, int32(500), third)
	assert.Equal(t, 3, s.Reads())
}

func TestSensorJitter(t *testing.T) {
	s := NewSensor(WithOffset(0), WithCountsPerUnit(1), WithWeight(500), WithJitter(5))
	for i := 0; i < 100; i++ {
		raw, err := s.ReadRawAveraged(1)
		require.NoError(t, err)
		assert.InDelta(t, 500, raw, 5)
	}
}

func TestSensorFailAndClose(t *testing.T) {
	s := NewSensor()
	s.Fail(1)

	_, err := s.ReadRawAveraged(1)
	assert.Error(t, err)
	_, err = s.ReadRawAveraged(1)
	assert.NoError(t, err)

	require.NoError(t, s.Close())
	_, err = s.ReadRawAveraged(1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStrip(t *testing.T) {
	s := NewStrip()
	assert.Nil(t, s.Last())

	ch := make(chan gauge.Buffer, 1)
	s.SetFrameChannel(ch)

	buf := gauge.NewBuffer(2)
	buf[1] = gauge.RGB{G: 3}
	require.NoError(t, s.Show(buf))
	buf[1] = gauge.RGB{}

	assert.Equal(t, 1, s.Frames())
	assert.Equal(t, gauge.RGB{G: 3}, s.Last()[1])
	assert.Equal(t, gauge.RGB{G: 3}, (<-ch)[1])

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Show(buf), ErrClosed)
}
