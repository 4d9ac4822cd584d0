package http

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

type clientWindow struct {
	count     int
	resetTime time.Time
}

// rateLimiter bounds requests per client IP to limit per window.
func rateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientWindow)

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			now := time.Now()
			for ip, cw := range clients {
				if now.After(cw.resetTime) {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cw, ok := clients[ip]
		now := time.Now()

		if !ok || now.After(cw.resetTime) {
			clients[ip] = &clientWindow{count: 1, resetTime: now.Add(window)}
			mu.Unlock()
			c.Next()
			return
		}

		if cw.count >= limit {
			retryAfter := cw.resetTime.Sub(now).Seconds()
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		cw.count++
		mu.Unlock()
		c.Next()
	}
}
