package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qoach/quiz-backend/internal/ratelimit"
)

// RateLimit throttles by client IP. Fails open: a broken Redis must not
// take the API down with it.
func RateLimit(limiter *ratelimit.FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("Rate limiter unavailable, allowing request: %v", err)
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":  "Rate limit exceeded",
				"limit":  limiter.Limit(),
				"window": limiter.Window().String(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
