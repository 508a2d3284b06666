package api_router

import (
	"strings"

	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/dto"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// defaultGuestAuthor 访客未填写署名时使用
const defaultGuestAuthor = "Guest"

// ShareHandler guest share API router handler
// ShareHandler 访客分享 API 路由处理器
// Every write re-resolves the token right before writing, so a link revoked after the page was opened cannot be used.
// 每次写操作都在写入前重新校验 Token，页面打开后被撤销的链接无法再写入
type ShareHandler struct {
	*Handler
}

// NewShareHandler creates ShareHandler instance
// NewShareHandler 创建 ShareHandler 实例
func NewShareHandler(a *app.App) *ShareHandler {
	return &ShareHandler{Handler: NewHandler(a)}
}

// View resolves a share token and returns the objective at the granted role
// @Summary Open share link
// @Description Resolve a share token. Unknown, revoked and expired links all return the same Access Restricted response.
// @Tags Share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} pkgapp.Res{data=dto.SharedObjectiveResponse} "Success"
// @Failure 403 {object} pkgapp.Res "Access Restricted"
// @Router /share/{token} [get]
func (h *ShareHandler) View(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareTokenRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	ctx := c.Request.Context()
	link, err := h.App.RedemptionService.Resolve(ctx, params.Token, visitor(c))
	if err != nil {
		h.respondError(c, "ShareHandler.View", err, guestErrorCode(err))
		return
	}

	o, err := h.App.ObjectiveService.Get(ctx, link.ResourceID)
	if err != nil {
		h.respondError(c, "ShareHandler.View", err, guestErrorCode(err))
		return
	}
	comments, err := h.App.ObjectiveService.ListComments(ctx, link.ResourceID)
	if err != nil {
		h.respondError(c, "ShareHandler.View", err, guestErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.SharedObjectiveResponse{
		Role:      link.Role.String(),
		Objective: toObjectiveDTO(o),
		Comments:  toCommentDTOs(comments),
	}))
}

// Comment adds a guest comment through a share link
// @Summary Comment through share link
// @Description Viewer and editor links may comment
// @Tags Share
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param params body dto.ShareCommentRequest true "Comment"
// @Success 200 {object} pkgapp.Res{data=dto.SharedObjectiveResponse} "Success"
// @Failure 403 {object} pkgapp.Res "Access Restricted"
// @Router /share/{token}/comments [post]
func (h *ShareHandler) Comment(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareCommentRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	ctx := c.Request.Context()
	link, err := h.App.RedemptionService.Authorize(ctx, params.Token, domain.ActionComment, visitor(c))
	if err != nil {
		h.respondError(c, "ShareHandler.Comment", err, guestErrorCode(err))
		return
	}

	author := strings.TrimSpace(params.Author)
	if author == "" {
		author = defaultGuestAuthor
	}
	linkID := link.ID
	res, err := h.App.ObjectiveService.ApplyGuestAction(ctx, link.ResourceID, domain.GuestAction{
		Action: domain.ActionComment,
		Author: author,
		Body:   params.Body,
		LinkID: &linkID,
	})
	if err != nil {
		h.respondError(c, "ShareHandler.Comment", err, guestErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.SharedObjectiveResponse{
		Role:      link.Role.String(),
		Objective: toObjectiveDTO(res.Objective),
		Comment:   toCommentDTO(res.Comment),
	}))
}

// Edit updates the objective through an editor link
// @Summary Edit through share link
// @Description Only editor links may edit; viewer links receive a role mismatch error
// @Tags Share
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param params body dto.ShareEditRequest true "Fields to update"
// @Success 200 {object} pkgapp.Res{data=dto.SharedObjectiveResponse} "Success"
// @Failure 403 {object} pkgapp.Res "Access Restricted or role mismatch"
// @Router /share/{token}/objective [put]
func (h *ShareHandler) Edit(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ShareEditRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	action := domain.GuestAction{
		Action:      domain.ActionEdit,
		Title:       params.Title,
		Description: params.Description,
	}
	// 内容无效时不写访问记录
	if err := action.Validate(); err != nil {
		h.respondError(c, "ShareHandler.Edit", err, guestErrorCode(err))
		return
	}

	ctx := c.Request.Context()
	link, err := h.App.RedemptionService.Authorize(ctx, params.Token, domain.ActionEdit, visitor(c))
	if err != nil {
		h.respondError(c, "ShareHandler.Edit", err, guestErrorCode(err))
		return
	}

	linkID := link.ID
	action.LinkID = &linkID
	res, err := h.App.ObjectiveService.ApplyGuestAction(ctx, link.ResourceID, action)
	if err != nil {
		h.respondError(c, "ShareHandler.Edit", err, guestErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.SharedObjectiveResponse{
		Role:      link.Role.String(),
		Objective: toObjectiveDTO(res.Objective),
	}))
}
