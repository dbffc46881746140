package engine

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/eventmesh/channel"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventmesh.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  event_channel_capacity: 64
  max_consecutive_errors: 3
  initial_backoff_ms: 50
  max_backoff_ms: 2000
  stop_timeout_ms: 1500
  stop_on_critical_error: true
event_channel:
  max_lag: 10
  on_lag: throw
  lag_report_interval: 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.EventChannelCapacity)
	assert.Equal(t, 3, cfg.MaxConsecutiveErrors)
	assert.Equal(t, 50*time.Millisecond, cfg.InitialBackoff)
	assert.Equal(t, 2*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 1500*time.Millisecond, cfg.StopTimeout)
	assert.True(t, cfg.StopOnCriticalError)

	assert.Equal(t, 10, cfg.EventChannelPolicy.MaxLag)
	assert.Equal(t, channel.OnLagThrow, cfg.EventChannelPolicy.OnLag)
	assert.Equal(t, 5, cfg.EventChannelPolicy.LagReportInterval)

	// Omitted fields keep their defaults.
	assert.Equal(t, DefaultConfig.ActionChannelCapacity, cfg.ActionChannelCapacity)
	assert.Equal(t, channel.OnLagLogOnly, cfg.ActionChannelPolicy.OnLag)
}

func TestLoadConfigEmptyFileYieldsDefaults(t *testing.T) {
	path := writeConfigFile(t, "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig.EventChannelCapacity, cfg.EventChannelCapacity)
	assert.Equal(t, DefaultConfig.InitialBackoff, cfg.InitialBackoff)
	assert.Equal(t, DefaultConfig.StopTimeout, cfg.StopTimeout)
	assert.False(t, cfg.StopOnCriticalError)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownOnLag(t *testing.T) {
	path := writeConfigFile(t, `
event_channel:
  on_lag: panic
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "on_lag")
}

func TestLoadConfigRejectsInvertedBackoffBounds(t *testing.T) {
	path := writeConfigFile(t, `
engine:
  initial_backoff_ms: 500
  max_backoff_ms: 100
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max backoff")
}
