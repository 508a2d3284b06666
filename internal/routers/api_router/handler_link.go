package api_router

import (
	"errors"

	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/dto"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// LinkHandler share link API router handler (owner side)
// LinkHandler 分享链接 API 路由处理器（owner 侧）
type LinkHandler struct {
	*Handler
}

// NewLinkHandler creates LinkHandler instance
// NewLinkHandler 创建 LinkHandler 实例
func NewLinkHandler(a *app.App) *LinkHandler {
	return &LinkHandler{Handler: NewHandler(a)}
}

// owns 资源不属于当前 owner 时按不存在处理
func (h *LinkHandler) owns(c *gin.Context, resourceID string) error {
	_, err := h.App.ObjectiveService.GetOwned(c.Request.Context(), pkgapp.GetUID(c), resourceID)
	return err
}

func (h *LinkHandler) linkDTO(c *gin.Context, l *domain.ShareLink) *dto.ShareLinkDTO {
	return toShareLinkDTO(l, absoluteURL(c, h.App.LinkService.ShareURL(l)))
}

// Create returns the active link of (resourceId, role), creating it when missing
// @Summary Get or create share link
// @Description Idempotent: repeated calls return the same active link for the same resource and role
// @Tags Link
// @Security OwnerAuthToken
// @Produce json
// @Param resourceId path string true "Resource ID"
// @Param role query string true "viewer or editor"
// @Success 200 {object} pkgapp.Res{data=dto.LinkCreateResponse} "Success"
// @Router /links/{resourceId} [post]
func (h *LinkHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	if err := h.owns(c, params.ResourceID); err != nil {
		h.respondError(c, "LinkHandler.Create", err, ownerErrorCode(err))
		return
	}

	link, created, err := h.App.LinkService.GetOrCreateLink(c.Request.Context(), pkgapp.GetUID(c), params.ResourceID, domain.Role(params.Role))
	if err != nil {
		h.respondError(c, "LinkHandler.Create", err, ownerErrorCode(err))
		return
	}

	out := h.linkDTO(c, link)
	response.ToResponse(code.Success.WithData(dto.LinkCreateResponse{
		URL:     out.URL,
		Created: created,
		Link:    out,
	}))
}

// List lists links of a resource with view statistics
// @Summary List share links
// @Description List every link of a resource, including revoked and expired ones, with view statistics
// @Tags Link
// @Security OwnerAuthToken
// @Produce json
// @Param resourceId path string true "Resource ID"
// @Success 200 {object} pkgapp.Res{data=pkgapp.ListRes{list=[]dto.ShareLinkDTO}} "Success"
// @Router /links/{resourceId} [get]
func (h *LinkHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkListRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	if err := h.owns(c, params.ResourceID); err != nil {
		h.respondError(c, "LinkHandler.List", err, ownerErrorCode(err))
		return
	}

	links, err := h.App.LinkService.ListLinks(c.Request.Context(), params.ResourceID)
	if err != nil {
		h.respondError(c, "LinkHandler.List", err, ownerErrorCode(err))
		return
	}

	list := make([]*dto.ShareLinkDTO, 0, len(links))
	for _, l := range links {
		list = append(list, h.linkDTO(c, l))
	}
	response.ToResponseList(code.Success, list, len(list))
}

// Revoke revokes a link by token
// @Summary Revoke share link
// @Description Revoke a link by its token; revoking an already revoked link is a no-op
// @Tags Link
// @Security OwnerAuthToken
// @Produce json
// @Param token query string true "Share token"
// @Success 200 {object} pkgapp.Res{data=dto.RevokeResponse} "Success"
// @Router /links/revoke [post]
func (h *LinkHandler) Revoke(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkRevokeRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	ctx := c.Request.Context()
	link, err := h.App.LinkService.Lookup(ctx, params.Token)
	if err == nil {
		// 他人资源的 Token 与不存在的 Token 返回相同结果
		if ownErr := h.owns(c, link.ResourceID); errors.Is(ownErr, domain.ErrResourceNotFound) {
			err = domain.ErrLinkNotFound
		} else {
			err = ownErr
		}
	}
	if err == nil {
		link, err = h.App.LinkService.Revoke(ctx, params.Token)
	}
	if err != nil {
		h.respondError(c, "LinkHandler.Revoke", err, ownerErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.RevokeResponse{OK: true, Link: h.linkDTO(c, link)}))
}

// RevokeRole revokes the active link of a role
// @Summary Revoke share link by role
// @Description Revoke the active link of the given resource and role
// @Tags Link
// @Security OwnerAuthToken
// @Produce json
// @Param resourceId path string true "Resource ID"
// @Param role query string true "viewer or editor"
// @Success 200 {object} pkgapp.Res{data=dto.RevokeResponse} "Success"
// @Router /links/{resourceId}/revoke [post]
func (h *LinkHandler) RevokeRole(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.LinkRevokeRoleRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	if err := h.owns(c, params.ResourceID); err != nil {
		h.respondError(c, "LinkHandler.RevokeRole", err, ownerErrorCode(err))
		return
	}

	link, err := h.App.LinkService.RevokeRole(c.Request.Context(), params.ResourceID, domain.Role(params.Role))
	if err != nil {
		h.respondError(c, "LinkHandler.RevokeRole", err, ownerErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.RevokeResponse{OK: true, Link: h.linkDTO(c, link)}))
}
