package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dedeku/tinicoach/internal/config"
	"github.com/dedeku/tinicoach/internal/ratelimit"
)

// RateLimitByIP bills one attempt per request against the caller's IP and
// the request path. Email-keyed limits live inside the handlers, after body
// binding, because the key depends on the parsed input.
func RateLimitByIP(limiter *ratelimit.Limiter, policy config.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.Request.URL.Path)
		res := limiter.Check(key, policy.MaxAttempts, policy.Window)
		SetRateLimitHeaders(c, policy.MaxAttempts, res)

		if !res.Allowed {
			WriteRateLimited(c, res)
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetRateLimitHeaders writes the X-RateLimit-* headers for a check result.
func SetRateLimitHeaders(c *gin.Context, limit int, res ratelimit.Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
}

// WriteRateLimited writes the 429 response with Retry-After timing.
func WriteRateLimited(c *gin.Context, res ratelimit.Result) {
	retryAfter := int(math.Ceil(time.Until(res.ResetAt).Seconds()))
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.JSON(http.StatusTooManyRequests, gin.H{
		"error":      "Too many requests. Please try again later.",
		"retryAfter": retryAfter,
	})
}
