package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, 50, cfg.Verifier.Workers)
	assert.Equal(t, 3*time.Second, cfg.Verifier.MXTimeout)
	assert.Equal(t, 6*time.Second, cfg.Verifier.SMTPTimeout)
	assert.Equal(t, 25, cfg.Verifier.SMTPPort)
	assert.Equal(t, 720*time.Hour, cfg.Verifier.CacheTTL)
	assert.Equal(t, ":8080", cfg.Server.ServerAddress)
	assert.Equal(t, "verify", cfg.AMQP.VerifyQueueName)
	assert.Equal(t, "status", cfg.AMQP.StatusQueueName)
}

func TestNewConfigEnvOverride(t *testing.T) {
	t.Setenv("VERIFIER_WORKERS", "8")
	t.Setenv("VERIFIER_SMTP_PORT", "2525")
	t.Setenv("LOG_LEVEL", "3")

	cfg := NewConfig()
	assert.Equal(t, 8, cfg.Verifier.Workers)
	assert.Equal(t, 2525, cfg.Verifier.SMTPPort)
	assert.Equal(t, 3, cfg.Logger.Level)
}
