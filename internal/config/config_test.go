package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:8080", cfg.AppBaseURL)
	assert.Equal(t, 8*time.Second, cfg.DeliveryTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("RELAY_CURRENT_SIGNING_KEY", "k1")
	t.Setenv("RELAY_NEXT_SIGNING_KEY", "k2")
	t.Setenv("DELIVERY_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "k1", cfg.Relay.CurrentSigningKey)
	assert.Equal(t, "k2", cfg.Relay.NextSigningKey)
	assert.Equal(t, 3*time.Second, cfg.DeliveryTimeout)
}
