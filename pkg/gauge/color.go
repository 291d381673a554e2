package gauge

import (
	"fmt"
	"math"
)

// RGB denotes the color of a single pixel
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Off denotes an unlit pixel
var Off = RGB{}

// Hex returns the color in #rrggbb notation
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Buffer denotes the colors of all pixels of a strip
type Buffer []RGB

// NewBuffer returns an unlit buffer of the given length
func NewBuffer(pixelCount int) Buffer {
	if pixelCount < 0 {
		pixelCount = 0
	}
	return make(Buffer, pixelCount)
}

// Fill sets all pixels to the given color
func (b Buffer) Fill(c RGB) {
	for i := range b {
		b[i] = c
	}
}

// Set sets pixel i, silently ignoring indices outside the strip
func (b Buffer) Set(i int, c RGB) {
	if i < 0 || i >= len(b) {
		return
	}
	b[i] = c
}

// Copy returns an independent copy of the buffer
func (b Buffer) Copy() Buffer {
	if b == nil {
		return nil
	}
	res := make(Buffer, len(b))
	copy(res, b)
	return res
}

// Bytes returns the buffer as consecutive R, G, B bytes
func (b Buffer) Bytes() []byte {
	res := make([]byte, 0, 3*len(b))
	for _, c := range b {
		res = append(res, c.R, c.G, c.B)
	}
	return res
}

// Hex returns all pixel colors in #rrggbb notation
func (b Buffer) Hex() []string {
	res := make([]string, len(b))
	for i, c := range b {
		res[i] = c.Hex()
	}
	return res
}

// WarningColor returns the ramp color for an empty pixel
func WarningColor(brightness uint8) RGB {
	return RGB{R: brightness}
}

// FillColor returns the ramp color for a filled pixel
func FillColor(brightness uint8) RGB {
	return RGB{G: brightness}
}

// AbsentColor returns the uniform color shown while the pot is removed
func AbsentColor(brightness uint8) RGB {
	return RGB{B: brightness}
}

// Ramp blends linearly from the warning color (blend = 0) to the fill color (blend = 1)
func Ramp(brightness uint8, blend float64) RGB {
	if math.IsNaN(blend) {
		blend = 0
	}
	blend = clamp(blend, 0, 1)
	return lerp(WarningColor(brightness), FillColor(brightness), blend)
}

func lerp(from, to RGB, t float64) RGB {
	return RGB{
		R: uint8(float64(from.R)*(1-t) + float64(to.R)*t),
		G: uint8(float64(from.G)*(1-t) + float64(to.G)*t),
		B: uint8(float64(from.B)*(1-t) + float64(to.B)*t),
	}
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
