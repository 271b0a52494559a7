package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.DBDriver)
	assert.Equal(t, "0 0 * * * *", cfg.SweepSchedule)
	assert.Equal(t, 50.0, cfg.DefaultRadiusKm)
	assert.Equal(t, 50, cfg.LeaderboardDefaultLimit)
	assert.Equal(t, 60*time.Second, cfg.DependencyWait)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("DEFAULT_RADIUS_KM", "12.5")
	t.Setenv("CONSUL_ENABLED", "true")

	cfg := LoadConfig()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 12.5, cfg.DefaultRadiusKm)
	assert.True(t, cfg.ConsulEnabled)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("SWEEP_SCHEDULE: \"0 30 * * * *\"\nMONGO_DB: sos_test\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MONGO_DB", "from_env")

	cfg := LoadConfig()

	assert.Equal(t, "0 30 * * * *", cfg.SweepSchedule)
	assert.Equal(t, "from_env", cfg.MongoDB)
}
