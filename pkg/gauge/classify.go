package gauge

const (

	// StableThreshold denotes the maximum standard deviation of the history for a
	// reading to be considered settled
	StableThreshold = 20.

	// AbsentFraction denotes the fraction of the capacity the weight has to fall below
	// (negatively) for the pot to be considered removed
	AbsentFraction = 0.1
)

// Stability denotes the classification of the current reading
type Stability int

const (

	// StabilityStable denotes a settled reading
	StabilityStable Stability = iota

	// StabilityDisturbed denotes a reading with high variance (e.g. someone pressing the lever)
	StabilityDisturbed

	// StabilityPotAbsent denotes a reading far below the tare baseline (pot removed)
	StabilityPotAbsent
)

// String returns a string representation of the stability
func (s Stability) String() string {
	switch s {
	case StabilityStable:
		return "stable"
	case StabilityDisturbed:
		return "disturbed"
	case StabilityPotAbsent:
		return "absent"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Stability) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Classify determines the stability of the current weight. A missing pot takes
// precedence over any disturbance.
func Classify(h History, weight, capacity float64) Stability {
	if weight < -AbsentFraction*capacity {
		return StabilityPotAbsent
	}
	if h.StdDev() > StableThreshold {
		return StabilityDisturbed
	}

	return StabilityStable
}
