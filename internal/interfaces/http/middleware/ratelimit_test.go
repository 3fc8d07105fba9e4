package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glowstudio/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Take(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(ctx, 2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, left, _ := rl.Take("a")
	assert.True(t, ok)
	assert.Equal(t, 1, left)
	ok, left, _ = rl.Take("a")
	assert.True(t, ok)
	assert.Equal(t, 0, left)
	ok, _, reset := rl.Take("a")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), reset)

	ok, _, _ = rl.Take("b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Minute)
	ok, left, _ = rl.Take("a")
	assert.True(t, ok, "window resets")
	assert.Equal(t, 1, left)
}

func TestRateLimiter_Concurrent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	rl := NewRateLimiter(ctx, 50, time.Hour)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _, _ := rl.Take("ip"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestRateLimit_Middleware(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	router := okRouter(RequestID(), RateLimit(NewRateLimiter(ctx, 1, time.Minute)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, w))
}

func TestRateLimitByKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitByKey(NewRateLimiter(ctx, 1, time.Minute), func(c *gin.Context) string {
		return c.GetHeader("X-Login")
	}))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	send := func(login string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.Header.Set("X-Login", login)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusOK, send("ana@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, send("ana@example.com"))
	assert.Equal(t, http.StatusOK, send("bia@example.com"))
}
