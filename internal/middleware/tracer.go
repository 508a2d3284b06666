package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/haierkeys/objective-share-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
)

const (
	// DefaultTraceIDHeader 默认的 Trace ID 请求头名称
	DefaultTraceIDHeader = "X-Trace-ID"
	// TraceIDKey Context 中存储 Trace ID 的键，与日志字段同名
	TraceIDKey = logger.FieldTraceID
)

// TraceConfig 追踪中间件配置
type TraceConfig struct {
	Enabled bool
	Header  string
	// Tracer 为 nil 时只生成 Trace ID，不创建 span
	Tracer opentracing.Tracer
}

// TraceMiddleware 创建请求追踪中间件
// 功能：
// 1. 从请求头获取或生成唯一的 Trace ID
// 2. 将 Trace ID 注入到 gin.Context 和 request.Context
// 3. 在响应头中返回 Trace ID
// 4. 配置了 Tracer 时开启请求 span，gorm 插件从 request.Context 中取出父 span
func TraceMiddleware(cfg TraceConfig) gin.HandlerFunc {
	headerName := cfg.Header
	if headerName == "" {
		headerName = DefaultTraceIDHeader
	}

	return func(c *gin.Context) {
		// 检查是否启用追踪
		if !cfg.Enabled {
			c.Next()
			return
		}

		// 尝试从请求头获取 Trace ID
		traceID := c.GetHeader(headerName)
		if traceID == "" {
			// 生成新的 Trace ID
			traceID = generateTraceID()
		}

		// 存储到 gin.Context
		c.Set(TraceIDKey, traceID)

		// 注入到 request.Context
		ctx := context.WithValue(c.Request.Context(), TraceIDKey, traceID) //nolint:staticcheck

		if cfg.Tracer != nil {
			var opts []opentracing.StartSpanOption
			if parent, err := cfg.Tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(c.Request.Header)); err == nil {
				opts = append(opts, opentracing.ChildOf(parent))
			}
			operation := c.FullPath()
			if operation == "" {
				operation = "unmatched"
			}
			span := cfg.Tracer.StartSpan(c.Request.Method+" "+operation, opts...)
			defer span.Finish()

			ext.HTTPMethod.Set(span, c.Request.Method)
			ext.HTTPUrl.Set(span, operation)
			span.SetTag(TraceIDKey, traceID)
			ctx = opentracing.ContextWithSpan(ctx, span)

			defer func() {
				ext.HTTPStatusCode.Set(span, uint16(c.Writer.Status()))
				if c.Writer.Status() >= 500 {
					ext.Error.Set(span, true)
				}
			}()
		}

		c.Request = c.Request.WithContext(ctx)

		// 添加到响应头
		c.Header(headerName, traceID)

		c.Next()
	}
}

// generateTraceID 生成唯一的 Trace ID
// 格式: {timestamp_nano}-{random_hex}
func generateTraceID() string {
	// 生成 8 字节随机数
	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		// 如果随机数生成失败，使用时间戳作为后备
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}

	return fmt.Sprintf("%d-%s",
		time.Now().UnixNano(),
		hex.EncodeToString(randomBytes)[:8])
}

// GetTraceID 从 context.Context 获取 Trace ID
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(TraceIDKey).(string); ok {
		return id
	}
	return ""
}
