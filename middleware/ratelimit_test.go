package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.Use(RateLimiter(cfg))
	r.POST("/login", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})
	return r
}

func sendLogin(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "192.168.1.1:1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_WithoutRedis(t *testing.T) {
	withoutRedis(t)
	r := newRateLimitedRouter(RateLimitConfig{Limit: 5, Window: 15 * time.Minute})

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, sendLogin(r).Code, "request %d", i+1)
	}
}

func TestRateLimiter_DefaultConfig(t *testing.T) {
	withoutRedis(t)
	r := newRateLimitedRouter(RateLimitConfig{})
	assert.Equal(t, http.StatusOK, sendLogin(r).Code)
}

func TestRateLimiter_WithinLimit(t *testing.T) {
	mock := setupRedisMock(t)
	key := rateLimitKey("/login", "192.168.1.1")
	mock.ExpectIncr(key).SetVal(2)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	r := newRateLimitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})
	w := sendLogin(r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_OverLimit(t *testing.T) {
	mock := setupRedisMock(t)
	key := rateLimitKey("/login", "192.168.1.1")
	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	r := newRateLimitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})
	w := sendLogin(r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_RedisErrorFailsOpen(t *testing.T) {
	mock := setupRedisMock(t)
	key := rateLimitKey("/login", "192.168.1.1")
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	r := newRateLimitedRouter(RateLimitConfig{Limit: 2, Window: time.Minute})
	assert.Equal(t, http.StatusOK, sendLogin(r).Code)
}

func TestRateLimitConfigDefaults(t *testing.T) {
	cfg := RateLimitConfig{Limit: -1}.withDefaults()
	assert.Equal(t, 5, cfg.Limit)
	assert.Equal(t, 15*time.Minute, cfg.Window)
}

func TestResetRateLimit(t *testing.T) {
	t.Run("no redis", func(t *testing.T) {
		withoutRedis(t)
		assert.Error(t, ResetRateLimit(context.Background(), "192.168.1.1", "/login"))
	})
	t.Run("deletes key", func(t *testing.T) {
		mock := setupRedisMock(t)
		mock.ExpectDel(rateLimitKey("/login", "192.168.1.1")).SetVal(1)
		assert.NoError(t, ResetRateLimit(context.Background(), "192.168.1.1", "/login"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
