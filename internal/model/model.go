package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名迁移表结构，由仓储在首次使用时调用一次
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "ShareLink":
		return db.AutoMigrate(ShareLink{})

	case "Invite":
		return db.AutoMigrate(Invite{})

	case "AccessRecord":
		return db.AutoMigrate(AccessRecord{})

	case "Objective":
		return db.AutoMigrate(Objective{})

	case "Comment":
		return db.AutoMigrate(Comment{})
	}
	return nil
}

// AutoMigrateAll 启动时迁移全部表
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range []string{"ShareLink", "Invite", "AccessRecord", "Objective", "Comment"} {
		if err := AutoMigrate(db, key); err != nil {
			return err
		}
	}
	return nil
}
