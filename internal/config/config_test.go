package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBase(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "4")
}

func TestLoadMemoryDefaults(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("ADMIN_EMAILS", " Root@Example.com, ,ops@example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, []string{"root@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.Equal(t, 10*time.Minute, cfg.Booking.LockTTL)
	assert.Equal(t, 24*time.Hour, cfg.Booking.CancelWindow)
	assert.False(t, cfg.Booking.Serialize)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.False(t, cfg.IsProd())
}

func TestLoadSQLRequiresDatabase(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "sql")
	t.Setenv("DB_USER", "root")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "MONGO_URI")
	assert.NotContains(t, err.Error(), "DB_USER")
}

func TestLoadReportsInvalidValues(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "cassandra")
	t.Setenv("BCRYPT_COST", "high")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `BCRYPT_COST="high"`)
	assert.Contains(t, err.Error(), `STORE_DRIVER="cassandra"`)
}

func TestBookingOverrides(t *testing.T) {
	setBase(t)
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("SEAT_LOCK_TTL", "2m")
	t.Setenv("SEAT_SERIALIZE", "yes")
	t.Setenv("SWEEPER_INTERVAL", "-1s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 2*time.Minute, cfg.Booking.LockTTL)
	assert.True(t, cfg.Booking.Serialize)
	assert.Equal(t, time.Minute, cfg.Booking.SweeperInterval)
}

func TestRateLimitClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestCacheMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestRedisOptionsHostPort(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	assert.Equal(t, "cache:6380", RedisOptions().Addr)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", RedisOptions().Addr)
}
