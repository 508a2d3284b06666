package middleware

import (
	"github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"
	"github.com/haierkeys/objective-share-service/pkg/limiter"
	"github.com/haierkeys/objective-share-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiter creates rate limiting middleware (supports dependency injection)
// RateLimiter 创建限流中间件（支持依赖注入）
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		if bucket, ok := l.GetBucket(key); ok {
			count := bucket.TakeAvailable(1)
			if count == 0 {
				response := app.NewResponse(c)
				response.ToResponse(code.ErrorTooManyRequests)
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// GuestRateLimiter limits guest token endpoints per client IP across all instances.
// Redis errors let the request through; the per-process method limiter still applies.
// GuestRateLimiter 按访客 IP 限制分享接口的访问频率（多实例共享计数）
func GuestRateLimiter(w *limiter.WindowLimiter, lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if w == nil {
			c.Next()
			return
		}
		allowed, err := w.Allow(c.Request.Context(), app.GetRequestIP(c))
		if err != nil {
			lg.Warn("guest rate limiter unavailable",
				zap.Error(err),
				logger.TraceFromContext(c.Request.Context()))
			c.Next()
			return
		}
		if !allowed {
			app.NewResponse(c).ToResponse(code.ErrorTooManyRequests)
			c.Abort()
			return
		}
		c.Next()
	}
}
