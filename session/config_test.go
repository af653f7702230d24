package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	t.Setenv("CIMD2_HOST", "smsc.example.com")
	t.Setenv("CIMD2_PORT", "9971")
	t.Setenv("CIMD2_USERNAME", "gateway")
	t.Setenv("CIMD2_PASSWORD", "hunter2")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "smsc.example.com", cfg.Host)
	assert.Equal(t, 9971, cfg.Port)
	assert.Equal(t, DefaultReconnectTimeout, cfg.ReconnectTimeout)
	assert.Equal(t, DefaultMaxReconnectBackoff, cfg.MaxReconnectBackoff)
	assert.False(t, cfg.UseChecksum)
	assert.Equal(t, "smsc.example.com:9971", cfg.Addr())
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("CIMD2_HOST", "smsc.example.com")
	t.Setenv("CIMD2_PORT", "9971")
	t.Setenv("CIMD2_USERNAME", "gateway")
	t.Setenv("CIMD2_PASSWORD", "hunter2")
	t.Setenv("CIMD2_USE_CHECKSUM", "true")
	t.Setenv("CIMD2_RECONNECT_TIMEOUT_SECONDS", "5")
	t.Setenv("CIMD2_WINDOW_SIZE", "7")
	t.Setenv("CIMD2_SUB_ADDR", "12")

	cfg, err := ConfigFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.UseChecksum)
	assert.Equal(t, 5*time.Second, cfg.ReconnectTimeout)
	assert.Equal(t, 7, cfg.WindowSize)
	assert.Equal(t, "12", cfg.SubAddr)
}

func TestConfigFromEnv_InvalidPort(t *testing.T) {
	t.Setenv("CIMD2_HOST", "smsc.example.com")
	t.Setenv("CIMD2_PORT", "not-a-number")
	t.Setenv("CIMD2_USERNAME", "gateway")
	t.Setenv("CIMD2_PASSWORD", "hunter2")

	_, err := ConfigFromEnv()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	base := Config{
		Host:             "smsc.example.com",
		Port:             9971,
		Username:         "gateway",
		Password:         "hunter2",
		ReconnectTimeout: time.Second,
	}
	assert.NoError(t, base.Validate())

	missingHost := base
	missingHost.Host = ""
	assert.Error(t, missingHost.Validate())

	badPort := base
	badPort.Port = 0
	assert.Error(t, badPort.Validate())

	longUsername := base
	longUsername.Username = string(make([]byte, 33))
	assert.Error(t, longUsername.Validate())

	longSubAddr := base
	longSubAddr.SubAddr = "1234"
	assert.Error(t, longSubAddr.Validate())

	badWindow := base
	badWindow.WindowSize = 129
	assert.Error(t, badWindow.Validate())

	noReconnect := base
	noReconnect.ReconnectTimeout = 0
	assert.Error(t, noReconnect.Validate())
}
