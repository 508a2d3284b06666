package dto

import "time"

// LinkCreateRequest get-or-create share link request
// LinkCreateRequest 获取或创建分享链接请求
type LinkCreateRequest struct {
	ResourceID string `uri:"resourceId" binding:"required,resource_id"`                      // Resource ID // 资源 ID
	Role       string `form:"role" json:"role" binding:"required,share_role" example:"viewer"` // viewer / editor
}

// LinkListRequest list share links request
// LinkListRequest 列出分享链接请求
type LinkListRequest struct {
	ResourceID string `uri:"resourceId" binding:"required,resource_id"` // Resource ID // 资源 ID
}

// LinkRevokeRequest revoke by token request
// LinkRevokeRequest 按 Token 撤销请求
type LinkRevokeRequest struct {
	Token string `form:"token" json:"token" binding:"required"` // Share token // 分享 Token
}

// LinkRevokeRoleRequest revoke the active link of a role
// LinkRevokeRoleRequest 撤销某角色的有效链接
type LinkRevokeRoleRequest struct {
	ResourceID string `uri:"resourceId" binding:"required,resource_id"`
	Role       string `form:"role" json:"role" binding:"required,share_role"`
}

// ShareLinkDTO share link data transfer object
// ShareLinkDTO 分享链接数据传输对象
type ShareLinkDTO struct {
	ID           int64      `json:"id"`
	ResourceID   string     `json:"resourceId"`
	Role         string     `json:"role"`
	Token        string     `json:"token"`
	URL          string     `json:"url"`
	Revoked      bool       `json:"revoked"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	ViewCount    int64      `json:"viewCount"`
	LastViewedAt *time.Time `json:"lastViewedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// LinkCreateResponse get-or-create response
// LinkCreateResponse 获取或创建分享链接响应
type LinkCreateResponse struct {
	URL     string        `json:"url"`
	Created bool          `json:"created"` // false when an existing link was returned // 返回已有链接时为 false
	Link    *ShareLinkDTO `json:"link"`
}

// RevokeResponse revoke response
// RevokeResponse 撤销响应
type RevokeResponse struct {
	OK   bool          `json:"ok"`
	Link *ShareLinkDTO `json:"link,omitempty"`
}

// ShareTokenRequest guest request carrying a share token in the path
// ShareTokenRequest 路径中携带分享 Token 的访客请求
type ShareTokenRequest struct {
	Token string `uri:"token" binding:"required"`
}

// ShareCommentRequest guest comment through a share link
// ShareCommentRequest 通过分享链接评论
type ShareCommentRequest struct {
	Token  string `uri:"token" binding:"required"`
	Author string `json:"author" form:"author" binding:"max=100"` // Display name, optional // 署名，可选
	Body   string `json:"body" form:"body" binding:"required,max=5000"`
}

// ShareEditRequest guest edit through an editor link
// ShareEditRequest 通过 editor 链接编辑
type ShareEditRequest struct {
	Token       string  `uri:"token" binding:"required"`
	Title       *string `json:"title" form:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" form:"description" binding:"omitempty,max=10000"`
}

// SharedObjectiveResponse what a guest sees
// SharedObjectiveResponse 访客看到的内容
type SharedObjectiveResponse struct {
	Role      string        `json:"role"`
	Objective *ObjectiveDTO `json:"objective"`
	Comments  []*CommentDTO `json:"comments"`
	Comment   *CommentDTO   `json:"comment,omitempty"` // the comment just created // 刚创建的评论
}
