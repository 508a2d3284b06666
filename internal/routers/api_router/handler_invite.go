package api_router

import (
	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/dto"
	"github.com/haierkeys/objective-share-service/internal/service"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// InviteHandler invite API router handler
// InviteHandler 邀请 API 路由处理器
type InviteHandler struct {
	*Handler
}

// NewInviteHandler creates InviteHandler instance
// NewInviteHandler 创建 InviteHandler 实例
func NewInviteHandler(a *app.App) *InviteHandler {
	return &InviteHandler{Handler: NewHandler(a)}
}

// Create creates an email invite for an owned objective
// @Summary Create invite
// @Description Create an invite bound to an email address. Invites expire after share.invite-expiry (7 days by default) and are multi-use unless singleUse is set.
// @Tags Invite
// @Security OwnerAuthToken
// @Accept json
// @Produce json
// @Param params body dto.InviteCreateRequest true "Invite"
// @Success 200 {object} pkgapp.Res{data=dto.InviteCreateResponse} "Success"
// @Router /invites [post]
func (h *InviteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.InviteCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)
	if _, err := h.App.ObjectiveService.GetOwned(ctx, uid, params.ResourceID); err != nil {
		h.respondError(c, "InviteHandler.Create", err, ownerErrorCode(err))
		return
	}

	res, err := h.App.InviteService.CreateInvite(ctx, uid, params.ResourceID, params.Email, domain.Role(params.Role), params.SingleUse)
	if err != nil {
		h.respondError(c, "InviteHandler.Create", err, ownerErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.InviteCreateResponse{
		Token:  res.Token,
		Link:   absoluteURL(c, res.Link),
		Invite: toInviteDTO(res.Invite),
	}))
}

// Redeem redeems an invite and applies the guest action
// @Summary Redeem invite
// @Description Redeem an invite token. The default action is comment; editor invites may also edit.
// @Tags Invite
// @Produce json
// @Param params query dto.RedeemRequest true "Redeem parameters"
// @Success 200 {object} pkgapp.Res{data=dto.RedeemResponse} "Success"
// @Failure 403 {object} pkgapp.Res "Invalid token, expired invite or role mismatch"
// @Router /redeem [get]
// @Router /redeem [post]
func (h *InviteHandler) Redeem(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.RedeemRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	action, err := domain.ParseAction(params.Action)
	if err != nil {
		h.respondError(c, "InviteHandler.Redeem", err, guestErrorCode(err))
		return
	}

	res, err := h.App.InviteService.RedeemInvite(c.Request.Context(), params.Token, service.RedeemInput{
		Action:      action,
		Body:        params.Body,
		Title:       params.Title,
		Description: params.Description,
	}, visitor(c))
	if err != nil {
		h.respondError(c, "InviteHandler.Redeem", err, guestErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(dto.RedeemResponse{
		Role:      res.Invite.Role.String(),
		Objective: toObjectiveDTO(res.Objective),
		Comment:   toCommentDTO(res.Comment),
	}))
}
