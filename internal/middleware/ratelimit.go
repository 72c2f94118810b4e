package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
	// Idle is how long a client's limiter is kept after it was created.
	Idle time.Duration
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	limiters *cache.Cache
	config   RateLimiterConfig
}

func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Idle <= 0 {
		config.Idle = 10 * time.Minute
	}
	return &RateLimiter{
		limiters: cache.New(config.Idle, config.Idle),
		config:   config,
	}
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	if l, ok := rl.limiters.Get(key); ok {
		return l.(*rate.Limiter)
	}

	l := rate.NewLimiter(rl.config.Rate, rl.config.Burst)
	if err := rl.limiters.Add(key, l, cache.DefaultExpiration); err != nil {
		// Another request created it first.
		if existing, ok := rl.limiters.Get(key); ok {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiterFor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Status:  "error",
				Code:    "rate_limited",
				Message: "rate limit exceeded",
				TraceID: RequestIDFrom(c),
			})
			return
		}
		c.Next()
	}
}
