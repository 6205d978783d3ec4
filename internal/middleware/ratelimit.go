package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/torarnehave1/VegvisrCrossCulturalSearch/internal/ratelimit"
)

// RateLimit enforces the per-action budget for each client IP. The
// limiter fails open: when the counter backend is unreachable the
// request proceeds.
func RateLimit(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		result, err := limiter.Check(c.Request.Context(), c.ClientIP(), action)
		if err != nil {
			log.Printf("rate limit check failed for %s: %v", action, err)
			c.Next()
			return
		}

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "rate limit exceeded",
				"limit":    result.Limit,
				"reset_at": result.ResetAt,
			})
			return
		}

		c.Next()
	}
}
