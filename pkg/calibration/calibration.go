package calibration

import (
	"errors"
	"fmt"

	"github.com/fako1024/potlight/pkg/gauge"
	"github.com/fako1024/potlight/pkg/scale"
)

// DefaultAveraging denotes the number of raw readings averaged per calibration step
const DefaultAveraging = 10

var (

	// ErrInvalidReference denotes a reference weight outside of (0, MaxWeight)
	ErrInvalidReference = errors.New("reference weight out of range")

	// ErrInvalidReading denotes a non-positive tared reading for the reference weight
	ErrInvalidReading = errors.New("tared reading must be positive")
)

// Tare determines the offset from the current (empty) load
func Tare(s scale.Sensor, n int) (float64, error) {
	raw, err := s.ReadRawAveraged(n)
	if err != nil {
		return 0, fmt.Errorf("failed to read sensor for tare: %w", err)
	}

	return float64(raw), nil
}

// Calibrate determines the scale factor from a known reference weight placed on the
// scale after taring with the given offset
func Calibrate(s scale.Sensor, n int, offset, referenceWeight float64) (gauge.CalibrationParams, error) {
	if !(referenceWeight > 0 && referenceWeight < gauge.MaxWeight) {
		return gauge.CalibrationParams{}, fmt.Errorf("%w: %v", ErrInvalidReference, referenceWeight)
	}

	raw, err := s.ReadRawAveraged(n)
	if err != nil {
		return gauge.CalibrationParams{}, fmt.Errorf("failed to read sensor for calibration: %w", err)
	}

	reading := float64(raw) - offset
	if reading <= 0 {
		return gauge.CalibrationParams{}, fmt.Errorf("%w: %v", ErrInvalidReading, reading)
	}

	return gauge.CalibrationParams{
		Offset: offset,
		Scale:  referenceWeight / reading,
	}, nil
}
