package model

import "github.com/haierkeys/objective-share-service/pkg/timex"

const TableNameShareLink = "share_link"

// ShareLink mapped from table <share_link>
// ActiveKey 仅在链接有效时为 "resourceId:role"，撤销或过期回收后置 NULL；唯一索引保证同一对只有一个有效链接
type ShareLink struct {
	ID           int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	ResourceID   string     `gorm:"column:resource_id;size:64;not null;index:idx_share_link_resource" json:"resourceId" form:"resourceId"`
	Role         string     `gorm:"column:role;size:16;not null" json:"role" form:"role"`
	Token        string     `gorm:"column:token;size:64;not null;uniqueIndex:uk_share_link_token" json:"token" form:"token"`
	ActiveKey    *string    `gorm:"column:active_key;size:96;uniqueIndex:uk_share_link_active" json:"activeKey" form:"activeKey"`
	Revoked      bool       `gorm:"column:revoked;not null;default:false" json:"revoked" form:"revoked"`
	RevokedAt    int64      `gorm:"column:revoked_at;not null;default:0" json:"revokedAt" form:"revokedAt"`
	ExpiresAt    int64      `gorm:"column:expires_at;not null;default:0;index:idx_share_link_expires" json:"expiresAt" form:"expiresAt"`
	CreatedBy    int64      `gorm:"column:created_by;not null;default:0" json:"createdBy" form:"createdBy"`
	ViewCount    int64      `gorm:"column:view_count;not null;default:0" json:"viewCount" form:"viewCount"`
	LastViewedAt int64      `gorm:"column:last_viewed_at;not null;default:0" json:"lastViewedAt" form:"lastViewedAt"`
	CreatedAt    timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName ShareLink's table name
func (*ShareLink) TableName() string {
	return TableNameShareLink
}
