package middleware

import (
	"strings"

	"github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// OwnerAuthToken owner JWT authentication middleware
// OwnerAuthToken owner JWT 认证中间件
// Try to get Token by priority: Authorization header -> Token header -> token query
// 按优先级尝试获取 Token：Authorization 头 -> Token 头 -> token 参数
func OwnerAuthToken(tm app.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		response := app.NewResponse(c)

		if s := c.GetHeader("Authorization"); len(s) != 0 {
			token = strings.TrimSpace(strings.TrimPrefix(s, "Bearer "))
		} else if s := c.GetHeader("Token"); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("authorization"); exist {
			token = s
		}

		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		claims, err := tm.Parse(token)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		app.SetOwner(c, claims)

		c.Next()
	}
}
