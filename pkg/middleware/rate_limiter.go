package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	"go.uber.org/zap"

	"whistleline/pkg/logger"
)

// RateLimit limits requests per client IP using a rate expression such
// as "10-M" (ten per minute). Used on the public submission endpoints.
func RateLimit(rate string) gin.HandlerFunc {
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		logger.Warn("invalid rate expression, limiter disabled", zap.String("rate", rate), zap.Error(err))
		return func(c *gin.Context) { c.Next() }
	}
	lim := limiter.New(memory.NewStore(), parsed)

	return func(c *gin.Context) {
		key := c.ClientIP()
		lctx, err := lim.Get(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter store failure", zap.Error(err))
			c.Next()
			return
		}
		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "too many requests, please retry later",
			})
			return
		}
		c.Next()
	}
}
