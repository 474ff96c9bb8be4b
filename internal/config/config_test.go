package config_test

import (
	"testing"
	"time"

	"trellix/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("JWT_EXPIRY_HOURS", "")
	t.Setenv("CACHE_TTL", "")

	cfg := config.Load()

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Contains(t, cfg.DSN(), "host=db ")
	assert.Contains(t, cfg.DSN(), "sslmode=disable")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := config.Load()

	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY_HOURS", "-3")
	t.Setenv("IDEMPOTENCY_TTL", "forever")
	t.Setenv("COOKIE_SECURE", "maybe")

	cfg := config.Load()

	assert.Equal(t, 30*24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.False(t, cfg.CookieSecure)
}

func TestMigrateURL(t *testing.T) {
	cfg := &config.Config{DBHost: "h", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "d"}

	assert.Equal(t, "pgx5://u:p@h:5432/d?sslmode=disable", cfg.MigrateURL())
}
