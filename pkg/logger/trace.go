package logger

import (
	"context"

	"go.uber.org/zap"
)

// TraceFromContext 读取 Trace 中间件写入的 trace id
// gin.Context 的 Value 会按字符串键查找 c.Keys
func TraceFromContext(ctx context.Context) zap.Field {
	if ctx != nil {
		if v, ok := ctx.Value(FieldTraceID).(string); ok && v != "" {
			return zap.String(FieldTraceID, v)
		}
	}
	return zap.Skip()
}
