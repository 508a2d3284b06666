package dto

import "time"

// InviteCreateRequest create invite request
// InviteCreateRequest 创建邀请请求
type InviteCreateRequest struct {
	ResourceID string `json:"resourceId" form:"resourceId" binding:"required,resource_id"`
	Email      string `json:"email" form:"email" binding:"required,email" example:"guest@example.com"`
	Role       string `json:"role" form:"role" binding:"required,share_role" example:"viewer"`
	SingleUse  *bool  `json:"singleUse" form:"singleUse"` // Defaults to share.invite-single-use // 默认取配置
}

// InviteDTO invite data transfer object, never carries the token
// InviteDTO 邀请数据传输对象，不包含 Token
type InviteDTO struct {
	ID         int64      `json:"id"`
	ResourceID string     `json:"resourceId"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	SingleUse  bool       `json:"singleUse"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// InviteCreateResponse create invite response
// InviteCreateResponse 创建邀请响应
type InviteCreateResponse struct {
	Token  string     `json:"token"`
	Link   string     `json:"link"`
	Invite *InviteDTO `json:"invite"`
}

// RedeemRequest redeem invite request; action defaults to comment
// RedeemRequest 兑换邀请请求，action 缺省为 comment
type RedeemRequest struct {
	Token       string  `form:"token" json:"token" binding:"required"`
	Action      string  `form:"action" json:"action" binding:"share_action"`
	Body        string  `form:"body" json:"body" binding:"max=5000"`
	Title       *string `form:"title" json:"title" binding:"omitempty,max=200"`
	Description *string `form:"description" json:"description" binding:"omitempty,max=10000"`
}

// RedeemResponse redeem invite response
// RedeemResponse 兑换邀请响应
type RedeemResponse struct {
	Role      string        `json:"role"`
	Objective *ObjectiveDTO `json:"objective"`
	Comment   *CommentDTO   `json:"comment,omitempty"`
}
