package domain

import "time"

// Invite 指定邮箱的邀请
// UsedAt 在访客操作成功后保持不变，操作失败时会被撤回；SingleUse 为 false 的邀请在过期前可以重复兑换
type Invite struct {
	ID         int64      `json:"id"`
	ResourceID string     `json:"resourceId"`
	Email      string     `json:"email"`
	Role       Role       `json:"role"`
	Token      string     `json:"-"`
	SingleUse  bool       `json:"singleUse"`
	ExpiresAt  time.Time  `json:"expiresAt"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
	CreatedBy  int64      `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (i *Invite) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}

// GuestAuthor 访客评论的署名
func (i *Invite) GuestAuthor() string {
	return i.Email + " (guest)"
}
