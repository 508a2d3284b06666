package middleware

import (
	"time"

	"github.com/haierkeys/objective-share-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLogWithLogger 访问日志；query 中可能带有分享 Token，只记录路由模板
func AccessLogWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		startTime := time.Now()
		c.Next()

		timeCost := time.Since(startTime)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		lg.Info(route,
			zap.String(logger.FieldMethod, c.Request.Method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration(logger.FieldDuration, timeCost),
			zap.String(logger.FieldIP, c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
			logger.TraceFromContext(c.Request.Context()),
		)
	}
}
