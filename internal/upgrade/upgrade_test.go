package upgrade

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/haierkeys/objective-share-service/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "upgrade.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrateAll(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func strPtr(s string) *string { return &s }

func TestMigrationManager_Run(t *testing.T) {
	db := newTestDB(t)
	state := filepath.Join(t.TempDir(), "lastVersion")

	stale := &model.ShareLink{ResourceID: "obj", Role: "viewer", Token: "t-1", ActiveKey: strPtr("obj:viewer"), Revoked: true, RevokedAt: 1}
	live := &model.ShareLink{ResourceID: "obj", Role: "editor", Token: "t-2", ActiveKey: strPtr("obj:editor")}
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Create(live).Error)

	require.NoError(t, Execute(db, nil, "0.1.0", state))

	var got model.ShareLink
	require.NoError(t, db.First(&got, stale.ID).Error)
	assert.Nil(t, got.ActiveKey)
	require.NoError(t, db.First(&got, live.ID).Error)
	require.NotNil(t, got.ActiveKey)
	assert.Equal(t, "obj:editor", *got.ActiveKey)

	var versions []SchemaVersion
	require.NoError(t, db.Find(&versions).Error)
	require.Len(t, versions, 1)
	assert.Equal(t, "v0.1.0", versions[0].Version)

	content, err := os.ReadFile(state)
	require.NoError(t, err)
	assert.Equal(t, "v0.1.0", string(content))

	// 同一版本再次启动直接跳过
	require.NoError(t, Execute(db, nil, "0.1.0", state))
	require.NoError(t, db.Find(&versions).Error)
	assert.Len(t, versions, 1)
}

func TestMigrationManager_AlreadyApplied(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.AutoMigrate(&SchemaVersion{}))
	require.NoError(t, db.Create(&SchemaVersion{Version: "0.1.0", Description: "legacy record"}).Error)

	// 无状态文件时检查全部迁移，已记录的版本不会重复执行
	require.NoError(t, Execute(db, nil, "0.2.0", ""))

	var count int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMigrationManager_InvalidState(t *testing.T) {
	db := newTestDB(t)
	state := filepath.Join(t.TempDir(), "lastVersion")
	require.NoError(t, os.WriteFile(state, []byte("not-a-version"), 0644))

	require.NoError(t, NewMigrationManager(db, nil, "0.1.0", state).Run(context.Background()))

	var count int64
	require.NoError(t, db.Model(&SchemaVersion{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestExecute_NilDB(t *testing.T) {
	assert.Error(t, Execute(nil, nil, "0.1.0", ""))
}
