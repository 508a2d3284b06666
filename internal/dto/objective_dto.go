package dto

import "time"

// ObjectiveCreateRequest create objective request
// ObjectiveCreateRequest 创建目标请求
type ObjectiveCreateRequest struct {
	Title       string `json:"title" form:"title" binding:"required,max=200" example:"Ship v1"` // Title // 标题
	Description string `json:"description" form:"description" binding:"max=10000"`              // Description // 描述
}

// ObjectiveGetRequest get objective request
// ObjectiveGetRequest 获取目标请求
type ObjectiveGetRequest struct {
	ID string `uri:"id" binding:"required,resource_id"` // Objective ID // 目标 ID
}

// ObjectiveDTO objective data transfer object
// ObjectiveDTO 目标数据传输对象
type ObjectiveDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CommentDTO comment data transfer object
// CommentDTO 评论数据传输对象
type CommentDTO struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// ObjectiveDetailResponse objective with its comments
// ObjectiveDetailResponse 目标详情（含评论）
type ObjectiveDetailResponse struct {
	Objective *ObjectiveDTO   `json:"objective"`
	Comments  []*CommentDTO   `json:"comments"`
	Links     []*ShareLinkDTO `json:"links,omitempty"` // owner only // 仅 owner 可见
}
