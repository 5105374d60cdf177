package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	// PORT and LANG are often set by the host environment; empty env vars
	// fall through to the viper defaults
	t.Setenv("PORT", "")
	t.Setenv("LANG", "")

	assert.Equal(t, 8080, GetInt("port"))
	assert.Equal(t, "data/alerts.db", GetString("db_path"))
	assert.Equal(t, "en", GetString("lang"))
	assert.Equal(t, 60, GetInt("check_interval"))
	assert.Equal(t, 60, GetInt("quote_refresh"))
	assert.False(t, GetBool("debug"))
	assert.False(t, GetBool("market_hours_only"))
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("CHECK_INTERVAL", "30")
	t.Setenv("MARKET_HOURS_ONLY", "true")

	assert.Equal(t, 30, GetInt("check_interval"))
	assert.True(t, GetBool("market_hours_only"))
}
