package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/config"
	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/utils"
)

const secret = "test-secret"

func protectedServer(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/private", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user": c.Get("user_id"), "role": c.Get("role")})
	}, mw...)
	return e
}

func do(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuth(t *testing.T) {
	e := protectedServer(JWTAuth(secret))

	rec := do(e, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")

	rec = do(e, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := utils.NewAccessToken("other-secret", 7, model.RoleCustomer, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, other.Token).Code)

	tok, err := utils.NewAccessToken(secret, 7, model.RoleCustomer, 5)
	require.NoError(t, err)
	rec = do(e, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":7,"role":"CUSTOMER"}`, rec.Body.String())
}

func TestRequireRole(t *testing.T) {
	e := protectedServer(JWTAuth(secret), RequireRole(model.RoleAdmin))

	customer, err := utils.NewAccessToken(secret, 1, model.RoleCustomer, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, do(e, customer.Token).Code)

	admin, err := utils.NewAccessToken(secret, 2, model.RoleAdmin, 5)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, do(e, admin.Token).Code)
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	e := protectedServer(RequireRole(model.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, do(e, "").Code)
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/lock-seats", nil)
	req.Header.Set("X-Real-IP", "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/api/bookings/lock-seats")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /api/bookings/lock-seats", buildRateKey(cfg, c))

	c.Set("user_id", uint64(42))
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:42", buildRateKey(cfg, c))
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	log := zerolog.Nop()
	e := protectedServer(
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil, log),
		NewRedisCache(config.CacheConfig{Enabled: true}, nil, log).Cache("movies"),
	)
	rec := do(e, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 0, retryAfterSeconds(-5))
	assert.Equal(t, 1, retryAfterSeconds(1))
	assert.Equal(t, 2, retryAfterSeconds(1001))
}

func TestCachePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`[{"id":"m1"}]`))
	require.NoError(t, err)

	status, got, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, `[{"id":"m1"}]`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
}

func TestCacheKeySeparatesPathParams(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}
	key := func(id string) string {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/reviews/"+id, nil), httptest.NewRecorder())
		c.SetPath("/api/reviews/:movieId")
		c.SetParamNames("movieId")
		c.SetParamValues(id)
		return cacheKeyFrom(cfg, c)
	}
	assert.NotEqual(t, key("a"), key("b"))
	assert.Equal(t, key("a"), key("a"))
}

func TestCaptureWriterLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, _ = cw.Write([]byte("abc"))
	assert.False(t, cw.truncated())
	_, _ = cw.Write([]byte("def"))
	assert.True(t, cw.truncated())
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRequestLoggerWritesLine(t *testing.T) {
	var buf bytes.Buffer
	e := protectedServer()
	e.Use(RequestLogger(zerolog.New(&buf)))
	rec := do(e, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"route":"/private"`)
}
