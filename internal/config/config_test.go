package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christianEkogha/basic-cash-card/internal/auth"
)

var configKeys = []string{
	"PORT", "STORE_DRIVER", "DATABASE_URL", "BOLT_PATH", "REDIS_ADDR", "REDIS_PASSWORD",
	"REDIS_DB", "CARD_CACHE_TTL", "EVENT_STREAM_MAXLEN", "JWT_SECRET", "TOKEN_TTL",
	"CARD_USERS", "SEED_DEMO_USERS", "BCRYPT_COST", "DEFAULT_PAGE_SIZE", "MAX_PAGE_SIZE",
	"STRICT_PAGING", "LOG_LEVEL", "LOG_FORMAT", "GIN_MODE",
}

// clearEnv blanks every key so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SEED_DEMO_USERS", "true")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoreBolt, cfg.StoreDriver)
	assert.Equal(t, "cashcards.db", cfg.BoltPath)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.CardCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 20, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.False(t, cfg.StrictPaging)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Len(t, cfg.Users(), 3)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/cards")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CARD_CACHE_TTL", "30s")
	t.Setenv("STRICT_PAGING", "true")
	t.Setenv("MAX_PAGE_SIZE", "50")
	t.Setenv("DEFAULT_PAGE_SIZE", "10")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("CARD_USERS", "sarah:pw:CARD-OWNER")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.CardCacheTTL)
	assert.True(t, cfg.StrictPaging)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.False(t, cfg.SeedDemoUsers, "demo users stay off in release mode")
	assert.Equal(t, []auth.User{{Username: "sarah", Password: "pw", Roles: []string{"CARD-OWNER"}}}, cfg.Users())
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "missing secret", env: map[string]string{"SEED_DEMO_USERS": "true"}, wantErr: "JWT_SECRET"},
		{name: "unknown store", env: map[string]string{"JWT_SECRET": "x", "SEED_DEMO_USERS": "true", "STORE_DRIVER": "mongo"}, wantErr: "STORE_DRIVER"},
		{name: "bad integer", env: map[string]string{"JWT_SECRET": "x", "SEED_DEMO_USERS": "true", "REDIS_DB": "one"}, wantErr: "REDIS_DB"},
		{name: "bad duration", env: map[string]string{"JWT_SECRET": "x", "SEED_DEMO_USERS": "true", "TOKEN_TTL": "forever"}, wantErr: "TOKEN_TTL"},
		{name: "default above max", env: map[string]string{"JWT_SECRET": "x", "SEED_DEMO_USERS": "true", "DEFAULT_PAGE_SIZE": "500"}, wantErr: "DEFAULT_PAGE_SIZE"},
		{name: "no users", env: map[string]string{"JWT_SECRET": "x", "SEED_DEMO_USERS": "false"}, wantErr: "no users"},
		{name: "malformed users", env: map[string]string{"JWT_SECRET": "x", "CARD_USERS": "broken"}, wantErr: "CARD_USERS"},
		{name: "unknown log format", env: map[string]string{"JWT_SECRET": "x", "SEED_DEMO_USERS": "true", "LOG_FORMAT": "xml"}, wantErr: "LOG_FORMAT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
