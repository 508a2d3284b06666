package model

import "github.com/haierkeys/objective-share-service/pkg/timex"

const TableNameObjective = "objective"

// Objective mapped from table <objective>
type Objective struct {
	ID          string     `gorm:"column:id;size:64;primaryKey" json:"id" form:"id"`
	OwnerUID    int64      `gorm:"column:owner_uid;not null;index:idx_objective_owner" json:"ownerUid" form:"ownerUid"`
	Title       string     `gorm:"column:title;size:255;not null" json:"title" form:"title"`
	Description string     `gorm:"column:description;type:text" json:"description" form:"description"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt   timex.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Objective's table name
func (*Objective) TableName() string {
	return TableNameObjective
}

const TableNameComment = "comment"

// Comment mapped from table <comment>
type Comment struct {
	ID          int64      `gorm:"column:id;primaryKey" json:"id" form:"id"`
	ObjectiveID string     `gorm:"column:objective_id;size:64;not null;index:idx_comment_objective" json:"objectiveId" form:"objectiveId"`
	Author      string     `gorm:"column:author;size:300;not null" json:"author" form:"author"`
	Body        string     `gorm:"column:body;type:text;not null" json:"body" form:"body"`
	LinkID      *int64     `gorm:"column:link_id" json:"linkId" form:"linkId"`
	InviteID    *int64     `gorm:"column:invite_id" json:"inviteId" form:"inviteId"`
	CreatedAt   timex.Time `gorm:"column:created_at;autoCreateTime:false" json:"createdAt" form:"createdAt"`
}

// TableName Comment's table name
func (*Comment) TableName() string {
	return TableNameComment
}
