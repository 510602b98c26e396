package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"json to stdout", Config{Level: "info", Format: "json", Output: "stdout"}},
		{"console to stderr", Config{Level: "debug", Format: "console", Output: "stderr"}},
		{"empty output defaults to stdout", Config{Level: "warn", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := t.TempDir() + "/app.log"
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("written to file")
	require.NoError(t, Sync(l))

	assert.FileExists(t, path)
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.in), "level %q", tt.in)
	}
}

func TestLevelFiltering(t *testing.T) {
	l, err := New(&Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}
