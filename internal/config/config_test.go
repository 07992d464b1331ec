package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SWEEP_SCHEDULE", "")
	t.Setenv("DB_TIMEOUT", "")

	cfg := Load()

	assert.Equal(t, "@every 5m", cfg.SweepSchedule)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, ":"+cfg.ServerPort, cfg.Addr())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SWEEP_BATCH_SIZE", "50")
	t.Setenv("SWEEP_TIMEOUT", "30s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("SMTP_HOST", "smtp.local")
	t.Setenv("SMTP_FROM", "agenda@barbearia.com")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, 50, cfg.SweepBatchSize)
	assert.Equal(t, 30*time.Second, cfg.SweepTimeout)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.True(t, cfg.EmailEnabled())
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("SWEEP_LOCK_TTL", "soon")
	t.Setenv("SWEEP_BATCH_SIZE", "many")

	cfg := Load()

	assert.Equal(t, 4*time.Minute, cfg.SweepLockTTL)
	assert.Equal(t, 200, cfg.SweepBatchSize)
}

func TestCORSOriginsList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://app.barbearia.com ,,https://admin.barbearia.com")

	cfg := Load()

	assert.Equal(t, []string{"https://app.barbearia.com", "https://admin.barbearia.com"}, cfg.CORSOrigins)
}
