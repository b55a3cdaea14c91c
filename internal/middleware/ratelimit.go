package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/marketplace-admin/internal/handler"
)

// ClientRateLimiter keeps one token bucket per client IP. Idle buckets
// expire after window.
type ClientRateLimiter struct {
	buckets *cache.Cache
	limit   rate.Limit
	burst   int
	window  time.Duration
}

// NewClientRateLimiter allows limit requests per window for each client.
func NewClientRateLimiter(limit int, window time.Duration) *ClientRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &ClientRateLimiter{
		buckets: cache.New(window, 2*window),
		limit:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		window:  window,
	}
}

func (rl *ClientRateLimiter) bucket(ip string) *rate.Limiter {
	if v, ok := rl.buckets.Get(ip); ok {
		l := v.(*rate.Limiter)
		rl.buckets.Set(ip, l, rl.window)
		return l
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	if err := rl.buckets.Add(ip, l, rl.window); err != nil {
		// lost a race with another request from the same client
		if v, ok := rl.buckets.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return l
}

func (rl *ClientRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucket(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, handler.NewErrorResponse("too many attempts, try again later"))
			return
		}
		c.Next()
	}
}
