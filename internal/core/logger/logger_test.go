package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := NewWithRotate("info", true, FileRotate{Enable: true, Filename: path, MaxSizeMB: 1})
	l.Info("user registered", zap.String("email", "a@b.c"))
	l.Debug("dropped below level")
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"user registered"`)
	assert.NotContains(t, string(b), "dropped below level")
}

func TestBuildFallsBackToInfoOnBadLevel(t *testing.T) {
	l, cleanup := New("nonsense", false)
	defer cleanup()
	assert.True(t, l.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}
