package zap

import (
	"os"
	"path/filepath"
	"testing"

	"sos-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sos.log")

	logger, err := New(&config.Config{
		GinMode:     "release",
		LogLevel:    "warn",
		LogFile:     path,
		LogMaxSize:  1,
		ServiceName: "sos-service",
	})
	require.NoError(t, err)

	logger.Infow("dropped below level")
	logger.Warnw("sweep failed", "category", "FIRE")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"category":"FIRE"`)
	assert.Contains(t, string(data), `"service":"sos-service"`)
	assert.NotContains(t, string(data), "dropped below level")
}

func TestNewBadLevelFallsBackToInfo(t *testing.T) {
	logger, err := New(&config.Config{LogLevel: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Desugar().Core().Enabled(0))
	assert.False(t, logger.Desugar().Core().Enabled(-1))
}
