package model

import "github.com/haierkeys/objective-share-service/pkg/timex"

const TableNameInvite = "invite"

// Invite mapped from table <invite>
type Invite struct {
	ID         int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	ResourceID string     `gorm:"column:resource_id;size:64;not null;index:idx_invite_resource" json:"resourceId" form:"resourceId"`
	Email      string     `gorm:"column:email;size:254;not null" json:"email" form:"email"`
	Role       string     `gorm:"column:role;size:16;not null" json:"role" form:"role"`
	Token      string     `gorm:"column:token;size:64;not null;uniqueIndex:uk_invite_token" json:"token" form:"token"`
	SingleUse  bool       `gorm:"column:single_use;not null;default:false" json:"singleUse" form:"singleUse"`
	ExpiresAt  int64      `gorm:"column:expires_at;not null" json:"expiresAt" form:"expiresAt"`
	UsedAt     int64      `gorm:"column:used_at;not null;default:0" json:"usedAt" form:"usedAt"`
	CreatedBy  int64      `gorm:"column:created_by;not null;default:0" json:"createdBy" form:"createdBy"`
	CreatedAt  timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName Invite's table name
func (*Invite) TableName() string {
	return TableNameInvite
}
