package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "cash", cfg.DefaultPaymentMethod)
	assert.True(t, cfg.PointsRate.IsPositive())
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.LessOrEqual(t, cfg.GeneratorMinInterval, cfg.GeneratorMaxInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("POINTS_RATE", "0.5")
	t.Setenv("DEFAULT_PAYMENT_METHOD", "card")
	t.Setenv("GENERATOR_MIN_INTERVAL", "10s")
	t.Setenv("GENERATOR_MAX_INTERVAL", "5s")

	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.5", cfg.PointsRate.String())
	assert.Equal(t, "card", cfg.DefaultPaymentMethod)
	// max below min collapses to min
	assert.Equal(t, cfg.GeneratorMinInterval, cfg.GeneratorMaxInterval)
}

func TestLoadIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("POINTS_RATE", "-3")
	cfg := Load()
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "1", cfg.PointsRate.String())
}
