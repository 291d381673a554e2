package serialcell

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/fako1024/potlight/pkg/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ scale.Sensor = (*Cell)(nil)

type nopCloser struct {
	io.Reader
	closed bool
}

func (n *nopCloser) Close() error {
	n.closed = true
	return nil
}

func newTestCell(input string, options ...func(*Cell)) (*Cell, *nopCloser) {
	src := &nopCloser{Reader: strings.NewReader(input)}
	return New("test", src, options...), src
}

func TestParseLine(t *testing.T) {
	for _, cs := range []struct {
		in       string
		expected int32
		valid    bool
	}{
		{"84000", 84000, true},
		{" -12 ", -12, true},
		{"raw:1234", 1234, true},
		{"RAW = 55", 55, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12.5", 0, false},
		{"temp:20", 0, false},
		{"99999999999", 0, false},
	} {
		t.Run(cs.in, func(t *testing.T) {
			val, err := ParseLine(cs.in)
			if !cs.valid {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, cs.expected, val)
		})
	}
}

func TestReadRawAveraged(t *testing.T) {
	c, src := newTestCell("100\n200\n\n301\n-50\n-51\n")

	val, err := c.ReadRawAveraged(3)
	require.NoError(t, err)
	assert.Equal(t, int32(200), val)

	val, err = c.ReadRawAveraged(2)
	require.NoError(t, err)
	assert.Equal(t, int32(-51), val)

	_, err = c.ReadRawAveraged(1)
	assert.ErrorIs(t, err, io.EOF)

	_, err = c.ReadRawAveraged(0)
	assert.Error(t, err)

	require.NoError(t, c.Close())
	assert.True(t, src.closed)
}

func TestSkipMalformed(t *testing.T) {
	c, _ := newTestCell("garbage\n10\n#\n%\n20\n", WithMaxSkips(2))

	val, err := c.ReadRawAveraged(2)
	require.NoError(t, err)
	assert.Equal(t, int32(15), val)
}

func TestTooManyMalformed(t *testing.T) {
	c, _ := newTestCell("a\nb\nc\n10\n", WithMaxSkips(2))

	_, err := c.ReadRawAveraged(1)
	assert.True(t, errors.Is(err, ErrTooManyMalformed))
	assert.Contains(t, c.String(), "test")
}
