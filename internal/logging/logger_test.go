package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, c := range cases {
		l, err := New(Config{Level: c.level})
		require.NoError(t, err, c.level)
		assert.True(t, l.Core().Enabled(c.want), c.level)
		assert.False(t, l.Core().Enabled(c.want-1), c.level)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
	assert.NotNil(t, OrNop(Config{Level: "loud"}))
}

func TestJSONOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	l, err := New(Config{Level: "info", OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Info("run finished", zap.String("method", "newton"))
	require.NoError(t, l.Sync())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"message":"run finished"`)
	assert.Contains(t, string(b), `"method":"newton"`)
}

func TestDevelopmentOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	l, err := New(Config{Level: "debug", Development: true, OutputPaths: []string{path}})
	require.NoError(t, err)
	l.Debug("step", zap.Int("iteration", 1))
	require.NoError(t, l.Sync())
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "step")
	assert.NotContains(t, string(b), `"message"`)
}
