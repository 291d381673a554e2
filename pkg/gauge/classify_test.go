package gauge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func historyOf(values ...float64) History {
	var h History
	for _, v := range values {
		h.Push(v)
	}
	return h
}

func TestClassify(t *testing.T) {
	for _, cs := range []struct {
		name     string
		history  History
		weight   float64
		capacity float64
		expected Stability
	}{
		{"settled", historyOf(650, 650, 650, 650), 650, 1500, StabilityStable},
		{"jitter", historyOf(640, 660, 645, 655), 655, 1500, StabilityStable},
		{"threshold is inclusive", historyOf(0, 0, 40, 40), 40, 1500, StabilityStable},
		{"pressing the lever", historyOf(650, 650, 650, 900), 900, 1500, StabilityDisturbed},
		{"absent", historyOf(650, 650, 650, 650), -200, 1500, StabilityPotAbsent},
		{"absent takes precedence", historyOf(650, -400, 900, -200), -200, 1500, StabilityPotAbsent},
		{"absent boundary", historyOf(-150, -150, -150, -150), -150, 1500, StabilityStable},
		{"empty pot", historyOf(-20, -20, -20, -20), -20, 1500, StabilityStable},
	} {
		t.Run(cs.name, func(t *testing.T) {
			assert.Equal(t, cs.expected, Classify(cs.history, cs.weight, cs.capacity))
		})
	}
}

func TestStabilityString(t *testing.T) {
	assert.Equal(t, "stable", StabilityStable.String())
	assert.Equal(t, "disturbed", StabilityDisturbed.String())
	assert.Equal(t, "absent", StabilityPotAbsent.String())
	assert.Equal(t, "unknown", Stability(42).String())
}
