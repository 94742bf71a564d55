package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	unsetenv(t, "STORAGE_BACKEND", "STORAGE_KEY_PREFIX", "HTTP_ADDR", "PRODUCT_API_URL", "PRODUCT_API_TIMEOUT", "CORS_ORIGINS", "LOG_LEVEL", "CART_IDLE_TTL")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", c.StorageBackend)
	assert.Equal(t, "myapp-cart", c.StorageKeyPrefix)
	assert.Equal(t, ":8082", c.HTTPAddr)
	assert.Equal(t, time.Duration(0), c.ProductAPITimeout)
	assert.Equal(t, []string{"*"}, c.CORSOrigins)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 30*time.Minute, c.CartIdleTTL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("PRODUCT_API_TIMEOUT", "3s")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "redis", c.StorageBackend)
	assert.Equal(t, 3*time.Second, c.ProductAPITimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, c.CORSOrigins)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debgu")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "trace")
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "trace", c.LogLevel)
}

func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}
