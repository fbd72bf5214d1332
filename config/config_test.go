package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Kitchen.PollInterval)
	assert.Equal(t, 20, cfg.Kitchen.DelayedAfterMinutes)
	assert.Equal(t, 50, cfg.Notifications.Capacity)
	assert.Equal(t, "db", cfg.ChangeFeed.Driver)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
}

func TestLoadConfigFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: \"9090\"\nkitchen:\n  poll_interval: 5s\n")
	require.NoError(t, os.WriteFile(dir+"/config.yaml", yaml, 0o600))

	t.Setenv("RESTO_NOTIFICATIONS_CAPACITY", "10")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Kitchen.PollInterval)
	assert.Equal(t, 10, cfg.Notifications.Capacity)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.Database.Driver = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestDisplayLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, DisplayConfig{Timezone: "Nowhere/Invalid"}.Location())
}
