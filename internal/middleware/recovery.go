package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"
	pkglogger "github.com/haierkeys/objective-share-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger 创建带日志器的 Recovery 中间件（支持依赖注入）
// panic 详情只写日志，响应中不返回
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				fields := []zap.Field{
					zap.Int("status", c.Writer.Status()),
					zap.String("router", c.FullPath()),
					zap.String("method", c.Request.Method),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
					zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()), // 记录错误的上下文
					zap.String("stack", string(debug.Stack())),                           // 错误堆栈
					pkglogger.TraceFromContext(c.Request.Context()),
				}
				switch e := err.(type) {
				case error:
					logger.Error("Recovered from panic", append(fields, zap.Error(e))...)
				default:
					// 如果是其它类型的 panic（如非错误类型的 panic）
					logger.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", fmt.Sprintf("%v", e)))...)
				}

				// 返回统一的错误响应
				app.NewResponse(c).ToResponse(code.ErrorServerInternal)
				c.Abort()
			}
		}()

		c.Next()
	}
}
