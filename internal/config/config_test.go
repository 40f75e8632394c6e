package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "raw-soundings", cfg.KafkaSourceTopic)
	assert.Equal(t, "parsed-soundings", cfg.KafkaSinkTopic)
	assert.Equal(t, "emagram-etl", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)
	assert.Equal(t, 4, cfg.CurveWorkers)
	assert.Equal(t, 256, cfg.CurveCacheSize)
	assert.Equal(t, 10, cfg.MoistSubsteps)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("CURVE_WORKERS", "8")
	t.Setenv("CURVE_CACHE_SIZE", "64")
	t.Setenv("MOIST_SUBSTEPS", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)
	assert.Equal(t, 8, cfg.CurveWorkers)
	assert.Equal(t, 64, cfg.CurveCacheSize)
	assert.Equal(t, 20, cfg.MoistSubsteps)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration", "SHUTDOWN_TIMEOUT"},
		{"SHUTDOWN_TIMEOUT", "-1s", "SHUTDOWN_TIMEOUT"},
		{"BATCH_SIZE", "0", "BATCH_SIZE"},
		{"BATCH_SIZE", "9999", "BATCH_SIZE"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration", "BATCH_FLUSH_INTERVAL"},
		{"CURVE_WORKERS", "0", "CURVE_WORKERS"},
		{"CURVE_CACHE_SIZE", "many", "CURVE_CACHE_SIZE"},
		{"MOIST_SUBSTEPS", "-3", "MOIST_SUBSTEPS"},
		{"KAFKA_BROKERS", " , ", "KAFKA_BROKERS"},
		{"KAFKA_SINK_TOPIC", "raw-soundings", "must differ"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CURVE_WORKERS=7\nHTTP_ADDR=:7070\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("HTTP_ADDR", ":9191")
	t.Cleanup(func() { _ = os.Unsetenv("CURVE_WORKERS") })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.CurveWorkers)
	assert.Equal(t, ":9191", cfg.HTTPAddr, "process environment wins over .env")
}
