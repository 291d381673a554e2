package gauge

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxWeight denotes the hardware safety ceiling for any configured or calibrated weight
const MaxWeight = 5000.

// Mode denotes a visualization mode of the fill level
type Mode int

const (

	// ModeContinuous treats the whole strip as one continuous gauge
	ModeContinuous Mode = iota

	// ModeDiscrete shows one pixel per serving, capped at the configured capacity
	ModeDiscrete

	// ModeSegmented shows a group of pixels per serving, separated by an unlit pixel
	ModeSegmented
)

var modeNames = map[Mode]string{
	ModeContinuous: "continuous",
	ModeDiscrete:   "discrete",
	ModeSegmented:  "segmented",
}

// String returns a string representation of the mode
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "invalid"
}

// Valid returns if the mode denotes one of the known visualization modes
func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(data []byte) error {
	mode, err := ParseMode(string(data))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// UnmarshalJSON implements json.Unmarshaler, accepting both the name and the numeric
// representation of a mode
func (m *Mode) UnmarshalJSON(data []byte) error {
	return m.UnmarshalText([]byte(strings.Trim(string(data), `"`)))
}

// ParseMode parses a mode from its name or its numeric representation
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for mode, name := range modeNames {
		if s == name {
			return mode, nil
		}
	}

	if n, err := strconv.Atoi(s); err == nil && Mode(n).Valid() {
		return Mode(n), nil
	}

	return 0, &ValidationError{Field: FieldMode}
}

const (

	// FieldCapacity denotes the capacity field of the display configuration
	FieldCapacity = "capacity"

	// FieldUnitPerServing denotes the unit per serving field of the display configuration
	FieldUnitPerServing = "unitPerServing"

	// FieldMode denotes the mode field of the display configuration
	FieldMode = "mode"
)

// ValidationError denotes a rejected display configuration update
type ValidationError struct {
	Field string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid display configuration: %s", e.Field)
}

// DisplayConfig denotes the operator-tunable display parameters
type DisplayConfig struct {
	Capacity       float64 `yaml:"capacity" json:"capacity"`
	UnitPerServing float64 `yaml:"unit_per_serving" json:"unitPerServing"`
	Mode           Mode    `yaml:"mode" json:"mode"`
	Brightness     uint8   `yaml:"brightness" json:"brightness"`
}

// DefaultDisplayConfig returns the display configuration used when nothing was persisted
func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Capacity:       1500,
		UnitPerServing: 200,
		Mode:           ModeDiscrete,
		Brightness:     20,
	}
}

// Validate checks the configuration and reports the first offending field
func (c DisplayConfig) Validate() error {
	if c.UnitPerServing == 0 || math.IsNaN(c.UnitPerServing) || math.IsInf(c.UnitPerServing, 0) {
		return &ValidationError{Field: FieldUnitPerServing}
	}
	if !(c.Capacity > 0 && c.Capacity <= MaxWeight) {
		return &ValidationError{Field: FieldCapacity}
	}
	if !c.Mode.Valid() {
		return &ValidationError{Field: FieldMode}
	}

	return nil
}

// Servings returns the number of whole servings fitting into the capacity
func (c DisplayConfig) Servings() int {
	return int(c.Capacity / c.UnitPerServing)
}
