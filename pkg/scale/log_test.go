package scale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("WARN")
	require.NoError(t, err)
	assert.False(t, logger.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Desugar().Core().Enabled(zap.WarnLevel))

	_, err = NewLogger("chatty")
	assert.Error(t, err)
}

func TestDefaultLogger(t *testing.T) {
	var _ Logger = NewDefaultLogger(false)
	var _ Logger = &NullLogger{}

	assert.True(t, NewDefaultLogger(true).Desugar().Core().Enabled(zap.DebugLevel))
}
