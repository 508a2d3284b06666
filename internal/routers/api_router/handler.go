// Package api_router 提供 HTTP API 路由处理器
package api_router

import (
	"context"
	"errors"
	"strings"

	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/domain"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"
	"github.com/haierkeys/objective-share-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 基础 Handler 结构体，封装 App Container
// 所有 API Handler 都应该嵌入此结构体以获得依赖注入能力
type Handler struct {
	App *app.App
}

// NewHandler 创建基础 Handler 实例
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}

// ownerErrorCode owner 接口的错误映射，可以返回具体原因
func ownerErrorCode(err error) *code.Code {
	switch {
	case errors.Is(err, domain.ErrInvalidRole):
		return code.ErrorInvalidRole
	case errors.Is(err, domain.ErrInvalidResourceID):
		return code.ErrorInvalidResourceID
	case errors.Is(err, domain.ErrInvalidEmail):
		return code.ErrorInvalidEmail
	case errors.Is(err, domain.ErrInvalidTitle):
		return code.ErrorInvalidTitle
	case errors.Is(err, domain.ErrResourceNotFound):
		return code.ErrorObjectiveNotFound
	case errors.Is(err, domain.ErrLinkNotFound):
		return code.ErrorShareLinkNotFound
	case domain.IsStorageError(err):
		return code.ErrorDBQuery
	}
	return code.ErrorServerInternal
}

// guestErrorCode 访客接口的错误映射
// 链接不存在、已撤销、已过期与邀请无效统一为 Access Restricted，不泄露具体原因
func guestErrorCode(err error) *code.Code {
	switch {
	case domain.IsGuestRejection(err):
		return code.ErrorShareAccessRestricted
	case errors.Is(err, domain.ErrRoleMismatch):
		return code.ErrorShareRoleMismatch
	case errors.Is(err, domain.ErrEmptyComment):
		return code.ErrorEmptyComment
	case errors.Is(err, domain.ErrEmptyEdit):
		return code.ErrorEmptyEdit
	case errors.Is(err, domain.ErrInvalidTitle):
		return code.ErrorInvalidTitle
	case errors.Is(err, domain.ErrInvalidAction):
		return code.ErrorInvalidParams
	case errors.Is(err, domain.ErrResourceNotFound):
		// 链接有效但资源已不存在，对访客同样视为受限
		return code.ErrorShareAccessRestricted
	case domain.IsStorageError(err):
		return code.ErrorDBQuery
	}
	return code.ErrorServerInternal
}

// respondError 5xx 记录错误日志（含 Trace ID），其余只返回错误码
func (h *Handler) respondError(c *gin.Context, method string, err error, codeObj *code.Code) {
	if codeObj.StatusCode() >= 500 {
		h.logError(c.Request.Context(), method, err)
	}
	pkgapp.NewResponse(c).ToResponse(codeObj)
}

// logError 记录错误日志，包含 Trace ID
func (h *Handler) logError(ctx context.Context, method string, err error) {
	h.App.Logger().Error(method,
		zap.Error(err),
		logger.TraceFromContext(ctx),
	)
}

// visitor 访客信息，用于审计记录
func visitor(c *gin.Context) domain.Visitor {
	return domain.Visitor{
		IP:        pkgapp.GetRequestIP(c),
		UserAgent: c.Request.UserAgent(),
	}
}

// absoluteURL share.base-url 为空时以当前访问地址补全
func absoluteURL(c *gin.Context, u string) string {
	if strings.HasPrefix(u, "/") {
		return pkgapp.GetAccessHost(c) + u
	}
	return u
}

// invalidParams 参数校验失败
func invalidParams(c *gin.Context, errs pkgapp.ValidErrors) {
	pkgapp.NewResponse(c).ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()...).WithData(errs.MapsToString()))
}
