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

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubStorage struct {
	count int64
	err   error
}

func (s *stubStorage) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.count++
	return s.count, nil
}

func (s *stubStorage) TTL(ctx context.Context, key string) (time.Duration, error) {
	return time.Minute, s.err
}

func serveOnce(limiter *ratelimit.Limiter) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/x", RateLimit(limiter, "phonosemantic"), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	return w
}

func TestRateLimitNilLimiterPassesThrough(t *testing.T) {
	w := serveOnce(nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitDeniesOverBudget(t *testing.T) {
	storage := &stubStorage{count: 100} // already past the budget
	limiter := ratelimit.NewLimiter(storage)

	w := serveOnce(limiter)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate limit exceeded")
}

func TestRateLimitFailsOpenOnStorageError(t *testing.T) {
	storage := &stubStorage{err: errors.New("redis gone")}
	limiter := ratelimit.NewLimiter(storage)

	w := serveOnce(limiter)
	assert.Equal(t, http.StatusOK, w.Code)
}
