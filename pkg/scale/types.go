package scale

import (
	"time"

	"github.com/fako1024/potlight/pkg/gauge"
)

// Unit denotes the unit of the weight measurement
type Unit string

const (

	// UnitUnknown denotes an unknown / invalid unit
	UnitUnknown Unit = "--"

	// UnitGrams denotes metric units
	UnitGrams Unit = "g"
)

// State denotes the sampling state of the scale
type State int

const (

	// StatePriming is active until the first sample has been converted
	StatePriming State = iota

	// StateRunning is active while samples are converted successfully
	StateRunning

	// StateUncalibrated is active while no valid calibration is available
	StateUncalibrated

	// StateSensorError is active while the sensor fails to deliver readings
	StateSensorError
)

// String returns a string representation of the state
func (s State) String() string {
	switch s {
	case StatePriming:
		return "priming"
	case StateRunning:
		return "running"
	case StateUncalibrated:
		return "uncalibrated"
	case StateSensorError:
		return "sensor error"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DataPoint denotes a weight measurement at a certain point in time
type DataPoint struct {
	TimeStamp time.Time       `json:"timestamp"`
	Unit      Unit            `json:"unit"`
	Raw       int32           `json:"raw"`
	Weight    float64         `json:"weight"`
	Stability gauge.Stability `json:"stability"`
}

// Value provides a method to retrieve the current value (for interface use)
func (d DataPoint) Value() float64 {
	return d.Weight
}

// DataPoints denotes a set of data points
type DataPoints []DataPoint
