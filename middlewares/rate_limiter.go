package middlewares

import (
	"net/http"
	"sync"
	"time"

	"coursehub/utils"

	"github.com/gin-gonic/gin"
)

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]int
	limit    int
	window   time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]int),
		limit:    limit,
		window:   window,
		stop:     make(chan struct{}),
	}
	go rl.resetLoop()
	return rl
}

func (rl *RateLimiter) resetLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.reset()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) reset() {
	rl.mu.Lock()
	rl.visitors = make(map[string]int)
	rl.mu.Unlock()
}

func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// allow records one request from ip and reports whether it is within the
// limit for the current window.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.visitors[ip]++
	return rl.visitors[ip] <= rl.limit
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				utils.Envelope("rate_limited", "too many requests, try again later"))
			return
		}
		c.Next()
	}
}
