package upgrade

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/mod/semver"
	"gorm.io/gorm"
)

// defaultReferenceVersion 没有版本记录文件时的基准版本，所有迁移都会被检查
const defaultReferenceVersion = "v0.0.0"

// SchemaVersion 数据库版本记录表
type SchemaVersion struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Version     string    `gorm:"not null;uniqueIndex;type:varchar(64)" json:"version"`
	Description string    `gorm:"type:text" json:"description"`
	AppliedAt   time.Time `gorm:"not null" json:"applied_at"`
}

// TableName 指定表名
func (SchemaVersion) TableName() string {
	return "schema_version"
}

// Migration 定义升级接口
// Up 在事务中执行，必须可重复执行
type Migration interface {
	Version() string
	Description() string
	Up(ctx context.Context, db *gorm.DB) error
}

// MigrationManager 升级管理器
type MigrationManager struct {
	db         *gorm.DB
	logger     *zap.Logger
	migrations []Migration

	// runningVersion 当前程序版本
	runningVersion string
	// stateFile 记录上次运行版本的文件，为空时不读写
	stateFile string
}

// NewMigrationManager 创建升级管理器
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, runningVersion, stateFile string) *MigrationManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MigrationManager{
		db:             db,
		logger:         logger,
		runningVersion: runningVersion,
		stateFile:      stateFile,
		migrations: []Migration{
			// 在这里注册所有的升级脚本
			&ReleaseRevokedActiveKey{},
		},
	}
}

// normalize 补齐 semver 需要的 "v" 前缀
func normalize(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// Run 执行升级
func (m *MigrationManager) Run(ctx context.Context) error {
	// 确保 schema_version 表存在
	if err := m.db.AutoMigrate(&SchemaVersion{}); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	lastVersion := normalize(m.getReferenceVersion())
	if !semver.IsValid(lastVersion) {
		m.logger.Warn("reference version is not a valid semver, checking all migrations", zap.String("lastVersion", lastVersion))
		lastVersion = defaultReferenceVersion
	}

	// 当前版本不比上次运行的版本新时跳过
	runningVersion := normalize(m.runningVersion)
	if semver.IsValid(runningVersion) && semver.Compare(runningVersion, lastVersion) <= 0 {
		m.logger.Info("skipping upgrade", zap.String("runningVersion", runningVersion), zap.String("lastVersion", lastVersion))
		return nil
	}

	appliedVersions, err := m.getAppliedVersions()
	if err != nil {
		return fmt.Errorf("failed to get applied versions: %w", err)
	}

	executed := 0
	for _, migration := range m.migrations {
		scriptVersion := normalize(migration.Version())

		// 比较版本: 如果 migration.Version <= lastVersion, 则跳过
		if semver.IsValid(scriptVersion) && semver.Compare(scriptVersion, lastVersion) <= 0 {
			m.logger.Debug("skip migration <= lastVersion",
				zap.String("scriptVersion", scriptVersion),
				zap.String("lastVersion", lastVersion))
			continue
		}

		if appliedVersions[scriptVersion] {
			continue
		}

		m.logger.Info("applying migration",
			zap.String("scriptVersion", scriptVersion),
			zap.String("desc", migration.Description()))

		// 在事务中执行升级并记录版本
		if err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(ctx, tx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			record := &SchemaVersion{
				Version:     scriptVersion,
				Description: migration.Description(),
				AppliedAt:   time.Now(),
			}
			if err := tx.Create(record).Error; err != nil {
				return fmt.Errorf("failed to record version: %w", err)
			}
			return nil
		}); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", scriptVersion, err)
		}

		m.logger.Info("migration applied successfully", zap.String("scriptVersion", scriptVersion))
		executed++
	}

	if executed == 0 {
		m.logger.Info("database is already up to date")
	} else {
		m.logger.Info("upgrade completed", zap.Int("migrations_applied", executed))
	}

	// 记录错误但不阻断启动
	if err := m.saveReferenceVersion(runningVersion); err != nil {
		m.logger.Error("save lastVersion failed", zap.Error(err))
	}

	return nil
}

// getAppliedVersions 获取已应用的数据库版本
func (m *MigrationManager) getAppliedVersions() (map[string]bool, error) {
	var versions []SchemaVersion
	if err := m.db.Find(&versions).Error; err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[normalize(v.Version)] = true
	}
	return applied, nil
}

// getReferenceVersion 从 stateFile 读取上次运行的版本
func (m *MigrationManager) getReferenceVersion() string {
	if m.stateFile == "" {
		return defaultReferenceVersion
	}
	content, err := os.ReadFile(m.stateFile)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Warn("read lastVersion failed", zap.String("file", m.stateFile), zap.Error(err))
		}
		return defaultReferenceVersion
	}

	ver := strings.TrimSpace(string(content))
	if ver == "" {
		return defaultReferenceVersion
	}
	return ver
}

// saveReferenceVersion 保存当前版本号
func (m *MigrationManager) saveReferenceVersion(version string) error {
	if m.stateFile == "" {
		return nil
	}
	return os.WriteFile(m.stateFile, []byte(version), 0644)
}

// Execute 执行升级(便捷方法)
func Execute(db *gorm.DB, logger *zap.Logger, runningVersion, stateFile string) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	return NewMigrationManager(db, logger, runningVersion, stateFile).Run(context.Background())
}
