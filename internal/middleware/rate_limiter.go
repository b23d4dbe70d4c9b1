package middleware

import (
	"net/http"
	"sync"
	"time"

	"bizzops/internal/apperror"

	"github.com/gin-gonic/gin"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	loginRateMap   = make(map[string]*rateEntry)
	loginRateMapMu sync.Mutex

	apiRateMap   = make(map[string]*rateEntry)
	apiRateMapMu sync.Mutex
)

// LoginRateLimiter limits auth attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return limiter(&loginRateMap, &loginRateMapMu, 20, time.Minute,
		"too many login attempts, try again in a minute")
}

// RateLimiter is the general-purpose sliding-window limiter for the API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return limiter(&apiRateMap, &apiRateMapMu, limit, window,
		"too many requests, try again shortly")
}

func limiter(entries *map[string]*rateEntry, mapMu *sync.Mutex, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		mapMu.Lock()
		entry, exists := (*entries)[ip]
		if !exists {
			entry = &rateEntry{}
			(*entries)[ip] = entry
		}
		mapMu.Unlock()

		entry.mu.Lock()
		defer entry.mu.Unlock()

		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(window)
		}

		entry.count++
		if entry.count > limit {
			c.Header("Retry-After", entry.windowEnd.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apperror.Response{
				Code:   "rate_limited",
				Detail: msg,
			})
			return
		}
		c.Next()
	}
}
