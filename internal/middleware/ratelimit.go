package middleware

import (
	"net/http"
	"sync"
	"time"

	"todo-app/backend/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// FixedWindowLimiter tracks recent request timestamps per client key and
// rejects a request once the count inside the trailing window reaches the
// limit. State lives in process memory only and resets on restart; this
// is abuse mitigation, not a hard quota.
type FixedWindowLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
}

func NewFixedWindowLimiter(max int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (l *FixedWindowLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.hits[key][:0]
	for _, t := range l.hits[key] {
		if now.Sub(t) < l.window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.hits[key] = recent
		return false
	}

	l.hits[key] = append(recent, now)
	return true
}

// AuthRateLimiter guards the sensitive credential endpoints (register,
// login, password change) with a strict fixed window keyed by client IP.
func AuthRateLimiter(max int, window time.Duration) gin.HandlerFunc {
	limiter := NewFixedWindowLimiter(max, window)
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is the general per-IP token-bucket limiter applied to the
// whole API. Idle visitors are dropped periodically so the map does not
// grow without bound.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate.Limit(float64(cfg.RequestsPerMin) / 60.0),
		burst:    cfg.BurstSize,
	}
	if cfg.CleanupInterval > 0 {
		go rl.cleanupLoop(cfg.CleanupInterval)
	}
	return rl
}

func (rl *RateLimiter) getVisitor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.visitors[key] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	for range time.Tick(interval) {
		rl.mu.Lock()
		for key, v := range rl.visitors {
			if time.Since(v.lastSeen) > interval {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getVisitor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests. Please try again later.",
			})
			return
		}
		c.Next()
	}
}
