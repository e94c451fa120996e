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

	assert.Equal(t, "identity-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "Admin", cfg.Auth.AdminRole)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("AUTH_ADMIN_ROLE", "Operator")
	t.Setenv("AUTH_TOKEN_TTL_HOURS", "2")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.App.Addr())
	assert.Equal(t, "Operator", cfg.Auth.AdminRole)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL())
	assert.False(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestTokenTTLFallsBackOnNonPositive(t *testing.T) {
	cfg := AuthConfig{TokenTTLHours: 0}
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}
