package model

const TableNameAccessRecord = "access_record"

// AccessRecord mapped from table <access_record>
type AccessRecord struct {
	ID         int64   `gorm:"column:id;primaryKey" json:"id" form:"id"`
	LinkID     *int64  `gorm:"column:link_id;index:idx_access_record_link" json:"linkId" form:"linkId"`
	InviteID   *int64  `gorm:"column:invite_id;index:idx_access_record_invite" json:"inviteId" form:"inviteId"`
	Email      *string `gorm:"column:email;size:254" json:"email" form:"email"`
	Action     string  `gorm:"column:action;size:16;not null" json:"action" form:"action"`
	IP         string  `gorm:"column:ip;size:64" json:"ip" form:"ip"`
	UserAgent  string  `gorm:"column:user_agent;size:512" json:"userAgent" form:"userAgent"`
	AccessedAt int64   `gorm:"column:accessed_at;not null" json:"accessedAt" form:"accessedAt"`
}

// TableName AccessRecord's table name
func (*AccessRecord) TableName() string {
	return TableNameAccessRecord
}
