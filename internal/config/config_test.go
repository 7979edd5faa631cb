package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("DIRECTORY_API_URL", "")
	t.Setenv("SESSION_TOKEN_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, StoreDriverBolt, cfg.Storage.Driver)
	assert.Equal(t, "token", cfg.Storage.TokenKey)
	assert.True(t, cfg.Session.LogoutOnUnauthorized)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout())
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DIRECTORY_API_URL", "https://api.example.com/")
	t.Setenv("STORE_DRIVER", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_LOGOUT_ON_UNAUTHORIZED", "false")
	t.Setenv("APP_PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, StoreDriverRedis, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.False(t, cfg.Session.LogoutOnUnauthorized)
	assert.Equal(t, "127.0.0.1:9999", cfg.App.Addr())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestLoad_RejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
}

func TestGetEnvHelpersFallBack(t *testing.T) {
	t.Setenv("X_INT", "nope")
	t.Setenv("X_BOOL", "maybe")

	assert.Equal(t, 7, getEnvAsInt("X_INT", 7))
	assert.True(t, getEnvAsBool("X_BOOL", true))
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
}
