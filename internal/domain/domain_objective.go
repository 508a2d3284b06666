package domain

import (
	"strings"
	"time"
)

// Objective 被分享的资源
type Objective struct {
	ID          string    `json:"id"`
	OwnerUID    int64     `json:"ownerUid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment 目标下的评论，访客评论带 LinkID 或 InviteID
type Comment struct {
	ID          int64     `json:"id"`
	ObjectiveID string    `json:"objectiveId"`
	Author      string    `json:"author"`
	Body        string    `json:"body"`
	LinkID      *int64    `json:"linkId,omitempty"`
	InviteID    *int64    `json:"inviteId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// GuestAction 访客在已验证角色下提交的操作
type GuestAction struct {
	Action      Action
	Author      string
	Body        string  // comment
	Title       *string // edit
	Description *string // edit
	LinkID      *int64
	InviteID    *int64
}

// Validate 检查操作内容是否可执行，不做角色校验
func (a GuestAction) Validate() error {
	switch a.Action {
	case ActionView:
	case ActionComment:
		if strings.TrimSpace(a.Body) == "" {
			return ErrEmptyComment
		}
	case ActionEdit:
		if a.Title == nil && a.Description == nil {
			return ErrEmptyEdit
		}
		if a.Title != nil && strings.TrimSpace(*a.Title) == "" {
			return ErrInvalidTitle
		}
	default:
		return ErrInvalidAction
	}
	return nil
}
