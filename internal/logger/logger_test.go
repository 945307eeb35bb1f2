package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/alexanderramin/slotter/internal/config"
)

func TestNew_LevelApplied(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		t.Run(format, func(t *testing.T) {
			log, err := New(config.LogConfig{Level: "warn", Format: format})
			require.NoError(t, err)
			assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
			assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}
