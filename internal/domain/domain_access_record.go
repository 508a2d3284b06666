package domain

import "time"

// AccessRecord 访问审计记录，只追加
// 通过分享链接访问时 LinkID 有值，通过邀请兑换时 InviteID 有值
type AccessRecord struct {
	ID         int64     `json:"id"`
	LinkID     *int64    `json:"linkId,omitempty"`
	InviteID   *int64    `json:"inviteId,omitempty"`
	Email      *string   `json:"email,omitempty"`
	Action     Action    `json:"action"`
	IP         string    `json:"ip"`
	UserAgent  string    `json:"userAgent"`
	AccessedAt time.Time `json:"accessedAt"`
}

// Visitor 发起访问的访客信息
type Visitor struct {
	IP        string
	UserAgent string
}
