// Package domain 定义分享子系统的领域模型、仓储接口与错误
package domain

import (
	"context"
	"time"
)

// ShareLinkRepository 分享链接仓储接口
// 查询不到时返回 gorm.ErrRecordNotFound
type ShareLinkRepository interface {
	// Create 插入新链接；同一 (resourceId, role) 已有有效链接时因唯一索引失败
	Create(ctx context.Context, link *ShareLink) (*ShareLink, error)

	// GetByToken 根据 Token 获取链接（包括已撤销、已过期）
	GetByToken(ctx context.Context, token string) (*ShareLink, error)

	// GetActive 获取 (resourceId, role) 当前占用唯一键的链接，可能已过期但尚未回收
	GetActive(ctx context.Context, resourceID string, role Role) (*ShareLink, error)

	// Revoke 撤销链接并释放唯一键，已撤销时不做任何修改；返回是否发生了变更
	Revoke(ctx context.Context, link *ShareLink, at time.Time) (bool, error)

	// RetireExpired 释放已过期链接占用的唯一键，resourceID 为空时处理全部资源
	RetireExpired(ctx context.Context, resourceID string, now time.Time) (int64, error)

	// ListByResource 列出资源的全部链接（新的在前）
	ListByResource(ctx context.Context, resourceID string) ([]*ShareLink, error)

	// UpdateViewStats 累加访问次数并更新最后访问时间
	UpdateViewStats(ctx context.Context, id int64, viewCountIncr int64, lastViewedAt time.Time) error
}

// InviteRepository 邀请仓储接口
type InviteRepository interface {
	Create(ctx context.Context, invite *Invite) (*Invite, error)
	GetByToken(ctx context.Context, token string) (*Invite, error)
	// MarkUsed 条件更新 used_at（仅当尚未使用），返回是否由本次调用完成标记
	MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error)
	// ReleaseUsed 撤回由 MarkUsed(at) 完成的标记，used_at 已被改写时不做修改
	ReleaseUsed(ctx context.Context, id int64, at time.Time) (bool, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Invite, error)
}

// AccessRecordRepository 访问记录仓储接口，只追加
type AccessRecordRepository interface {
	Append(ctx context.Context, record *AccessRecord) error
	ListByLink(ctx context.Context, linkID int64, limit int) ([]*AccessRecord, error)
	CountByLink(ctx context.Context, linkID int64) (int64, error)
}

// ObjectiveRepository 目标仓储接口
type ObjectiveRepository interface {
	Create(ctx context.Context, objective *Objective) (*Objective, error)
	GetByID(ctx context.Context, id string) (*Objective, error)
	Update(ctx context.Context, objective *Objective) error
	ListByOwner(ctx context.Context, ownerUID int64) ([]*Objective, error)
}

// CommentRepository 评论仓储接口
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	ListByObjective(ctx context.Context, objectiveID string) ([]*Comment, error)
}

// LocalCapabilityRepository 本地能力记录的持久化（单文件）
type LocalCapabilityRepository interface {
	Load(ctx context.Context) (map[string]*LocalCapability, error)
	Save(ctx context.Context, records map[string]*LocalCapability) error
}
