package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"", zapcore.InfoLevel},
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			for _, console := range []bool{true, false} {
				logger, err := build(tt.level, console)
				require.NoError(t, err)
				assert.True(t, logger.Core().Enabled(tt.expected))
				assert.False(t, logger.Core().Enabled(tt.expected-1))
			}
		})
	}
}

func TestBuildRejectsUnknownLevel(t *testing.T) {
	_, err := build("verbose", false)
	assert.ErrorContains(t, err, `invalid log level "verbose"`)
}
