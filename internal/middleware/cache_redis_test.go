package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestReviewListCacheDroppedOnWrite(t *testing.T) {
	rdb := startRedis(t)
	cache := NewRedisCache(config.CacheConfig{
		Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute,
		KeyStrategy: "route_query", Prefix: "cache", MaxBodyBytes: 1 << 20,
	}, rdb, zerolog.Nop())
	require.NotNil(t, cache)

	var reviews []string
	e := echo.New()
	e.GET("/reviews/:movieId", func(c echo.Context) error {
		return c.JSON(http.StatusOK, reviews)
	}, cache.Cache("reviews"))
	e.POST("/reviews", func(c echo.Context) error {
		if c.QueryParam("fail") != "" {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate"})
		}
		reviews = append(reviews, "great")
		return c.JSON(http.StatusCreated, reviews)
	}, cache.Invalidate("reviews"))

	serve := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
		return rec
	}

	assert.Equal(t, "MISS", serve(http.MethodGet, "/reviews/m1").Header().Get("X-Cache"))
	hit := serve(http.MethodGet, "/reviews/m1")
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, "null", strings.TrimSpace(hit.Body.String()))

	// A rejected write keeps the entry.
	require.Equal(t, http.StatusConflict, serve(http.MethodPost, "/reviews?fail=1").Code)
	assert.Equal(t, "HIT", serve(http.MethodGet, "/reviews/m1").Header().Get("X-Cache"))

	require.Equal(t, http.StatusCreated, serve(http.MethodPost, "/reviews").Code)
	fresh := serve(http.MethodGet, "/reviews/m1")
	assert.Equal(t, "MISS", fresh.Header().Get("X-Cache"))
	assert.JSONEq(t, `["great"]`, fresh.Body.String())

	n, err := rdb.Exists(context.Background(), "cache:tag:reviews").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n, "the fresh entry is tagged again")
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *ResponseCache
	e := protectedServer(cache.Cache("reviews"), cache.Invalidate("reviews"))
	rec := do(e, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.NoError(t, cache.Purge(context.Background(), "reviews"))
}
