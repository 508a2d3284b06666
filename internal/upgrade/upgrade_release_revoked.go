package upgrade

import (
	"context"

	"github.com/haierkeys/objective-share-service/internal/model"

	"gorm.io/gorm"
)

// ReleaseRevokedActiveKey 清理已撤销链接残留的 active_key
// A revoked row that still holds its active_key blocks get-or-create for that (resource, role)
// on the unique index, so the slot is released here.
type ReleaseRevokedActiveKey struct{}

func (m *ReleaseRevokedActiveKey) Version() string {
	return "0.1.0"
}

func (m *ReleaseRevokedActiveKey) Description() string {
	return "release active_key held by revoked share links"
}

func (m *ReleaseRevokedActiveKey) Up(ctx context.Context, db *gorm.DB) error {
	if !db.Migrator().HasTable(&model.ShareLink{}) {
		return nil
	}
	return db.WithContext(ctx).
		Model(&model.ShareLink{}).
		Where("revoked = ? AND active_key IS NOT NULL", true).
		Update("active_key", nil).Error
}
