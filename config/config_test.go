package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, 8080, GetInt("http_port"))
	assert.Equal(t, 9090, GetInt("metrics_port"))
	assert.Equal(t, 10*time.Second, GetDuration("market_poll_interval"))
	assert.Equal(t, 30*time.Second, GetDuration("portfolio_poll_interval"))
	assert.Equal(t, "https://api.binance.com", GetString("api_base_url"))
}

func TestEnvironmentFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	assert.True(t, IsProduction())

	t.Setenv("APP_ENV", "development")
	assert.False(t, IsProduction())
}
