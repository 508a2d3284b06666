package api_router

import (
	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/dto"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// ObjectiveHandler objective API router handler
// ObjectiveHandler 目标 API 路由处理器
type ObjectiveHandler struct {
	*Handler
}

// NewObjectiveHandler creates ObjectiveHandler instance
// NewObjectiveHandler 创建 ObjectiveHandler 实例
func NewObjectiveHandler(a *app.App) *ObjectiveHandler {
	return &ObjectiveHandler{Handler: NewHandler(a)}
}

// Create creates an objective owned by the caller
// @Summary Create objective
// @Description Create an objective that can later be shared through links or invites
// @Tags Objective
// @Security OwnerAuthToken
// @Accept json
// @Produce json
// @Param params body dto.ObjectiveCreateRequest true "Objective"
// @Success 200 {object} pkgapp.Res{data=dto.ObjectiveDTO} "Success"
// @Router /objectives [post]
func (h *ObjectiveHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ObjectiveCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	o, err := h.App.ObjectiveService.Create(c.Request.Context(), pkgapp.GetUID(c), params.Title, params.Description)
	if err != nil {
		h.respondError(c, "ObjectiveHandler.Create", err, ownerErrorCode(err))
		return
	}

	response.ToResponse(code.Success.WithData(toObjectiveDTO(o)))
}

// Get returns an owned objective with its comments and share links
// @Summary Get objective
// @Description Get an objective owned by the caller, including guest comments and share link statistics
// @Tags Objective
// @Security OwnerAuthToken
// @Produce json
// @Param id path string true "Objective ID"
// @Success 200 {object} pkgapp.Res{data=dto.ObjectiveDetailResponse} "Success"
// @Router /objectives/{id} [get]
func (h *ObjectiveHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ObjectiveGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		invalidParams(c, errs)
		return
	}

	ctx := c.Request.Context()
	o, err := h.App.ObjectiveService.GetOwned(ctx, pkgapp.GetUID(c), params.ID)
	if err != nil {
		h.respondError(c, "ObjectiveHandler.Get", err, ownerErrorCode(err))
		return
	}

	comments, err := h.App.ObjectiveService.ListComments(ctx, o.ID)
	if err != nil {
		h.respondError(c, "ObjectiveHandler.Get", err, ownerErrorCode(err))
		return
	}

	links, err := h.App.LinkService.ListLinks(ctx, o.ID)
	if err != nil {
		h.respondError(c, "ObjectiveHandler.Get", err, ownerErrorCode(err))
		return
	}

	out := &dto.ObjectiveDetailResponse{
		Objective: toObjectiveDTO(o),
		Comments:  toCommentDTOs(comments),
		Links:     make([]*dto.ShareLinkDTO, 0, len(links)),
	}
	for _, l := range links {
		out.Links = append(out.Links, toShareLinkDTO(l, absoluteURL(c, h.App.LinkService.ShareURL(l))))
	}

	response.ToResponse(code.Success.WithData(out))
}
