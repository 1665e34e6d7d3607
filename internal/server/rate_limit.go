package server

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rextra/rextra/internal/observability/logger"
	"go.uber.org/zap"
)

// SimulateRateLimit throttles purchase simulations per client IP. The
// limiter is optional; without redis every request passes through.
func (s *Server) SimulateRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.simulateLimiter == nil || !s.simulateLimiter.Enabled() {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		endpoint := c.FullPath()

		result, err := s.simulateLimiter.Allow(ctx, c.ClientIP())
		if err != nil {
			logger.FromContext(ctx).Warn("simulate rate limit check failed", zap.Error(err))
			AbortWithError(c, ErrServiceUnavailable)
			return
		}
		if !result.Allowed {
			logger.FromContext(ctx).Warn("simulate rate limit exceeded",
				zap.String("endpoint", endpoint),
			)
			if s.obsMetrics != nil {
				s.obsMetrics.RecordRateLimitDenied(ctx, endpoint, "client-rate")
			}
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			AbortWithError(c, ErrRateLimited)
			return
		}

		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitAllowed(ctx, endpoint)
		}
		c.Next()
	}
}
