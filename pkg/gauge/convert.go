package gauge

import (
	"errors"
	"math"
)

// ErrUncalibrated denotes a conversion attempt without a usable scale factor
var ErrUncalibrated = errors.New("scale is not calibrated")

// CalibrationParams denotes the parameters required to convert raw load cell counts
// into a physical weight
type CalibrationParams struct {
	Offset float64 `yaml:"offset" json:"offset"` // Raw reading at zero weight (tare)
	Scale  float64 `yaml:"scale" json:"scale"`   // Weight units per raw count
}

// DefaultCalibrationParams returns an identity calibration (one count per weight unit)
func DefaultCalibrationParams() CalibrationParams {
	return CalibrationParams{
		Offset: 0,
		Scale:  1,
	}
}

// Calibrated returns if the parameters allow for a conversion
func (c CalibrationParams) Calibrated() bool {
	return c.Scale != 0 && !math.IsNaN(c.Scale) && !math.IsInf(c.Scale, 0) &&
		!math.IsNaN(c.Offset) && !math.IsInf(c.Offset, 0)
}

// Convert maps a raw reading to a weight, i.e. (raw - offset) * scale
func Convert(raw int32, cal CalibrationParams) (float64, error) {
	if !cal.Calibrated() {
		return 0, ErrUncalibrated
	}

	return (float64(raw) - cal.Offset) * cal.Scale, nil
}
