package domain

import "time"

// ShareLink 服务端分享链接
// 同一 (ResourceID, Role) 同时最多只有一个有效链接；Revoked 只会 false -> true；记录从不删除
type ShareLink struct {
	ID           int64      `json:"id"`
	ResourceID   string     `json:"resourceId"`
	Role         Role       `json:"role"`
	Token        string     `json:"token"`
	Revoked      bool       `json:"revoked"`
	RevokedAt    *time.Time `json:"revokedAt,omitempty"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CreatedBy    int64      `json:"createdBy"`
	ViewCount    int64      `json:"viewCount"`
	LastViewedAt *time.Time `json:"lastViewedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ActiveKey 唯一约束使用的键
func ActiveKey(resourceID string, role Role) string {
	return resourceID + ":" + string(role)
}

// IsExpired ExpiresAt 为空表示永不过期；到达 ExpiresAt 时即视为过期
func (l *ShareLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !now.Before(*l.ExpiresAt)
}

// IsActive 未撤销且未过期
func (l *ShareLink) IsActive(now time.Time) bool {
	return !l.Revoked && !l.IsExpired(now)
}

// Check 按 NotFound -> Revoked -> Expired 的顺序返回第一个拒绝原因
func (l *ShareLink) Check(now time.Time) error {
	switch {
	case l == nil:
		return ErrLinkNotFound
	case l.Revoked:
		return ErrLinkRevoked
	case l.IsExpired(now):
		return ErrLinkExpired
	}
	return nil
}
