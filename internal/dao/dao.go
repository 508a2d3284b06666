package dao

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/haierkeys/objective-share-service/internal/model"
	"github.com/haierkeys/objective-share-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/gookit/goutil/fsutil"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type            string   // sqlite / mysql / postgres
	Path            string   // sqlite 文件路径
	UserName        string
	Password        string
	Host            string
	Name            string
	Charset         string
	ParseTime       bool
	AutoMigrate     bool
	Replicas        []string // 只读副本 DSN（mysql/postgres）
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	RunMode         string
}

// Dao 数据访问入口：连接、按需迁移与写队列
type Dao struct {
	db         *gorm.DB
	writeQueue *writequeue.Manager
	logger     *zap.Logger
	onceKeys   sync.Map
}

// New 创建 Dao；wq 为 nil 时写操作直接执行
func New(db *gorm.DB, wq *writequeue.Manager, lg *zap.Logger) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{db: db, writeQueue: wq, logger: lg}
}

func (d *Dao) DB() *gorm.DB {
	return d.db
}

// useModel 返回连接，并保证对应模型只迁移一次
func (d *Dao) useModel(name string) *gorm.DB {
	if _, loaded := d.onceKeys.LoadOrStore(name+"#migrated", true); !loaded {
		if err := model.AutoMigrate(d.db, name); err != nil {
			d.onceKeys.Delete(name + "#migrated")
			d.logger.Error("auto migrate failed", zap.String("model", name), zap.Error(err))
		}
	}
	return d.db
}

// ExecuteWrite 通过写队列串行执行同一 key 的写操作
func (d *Dao) ExecuteWrite(ctx context.Context, key string, fn func(db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(d.db)
	}
	return d.writeQueue.Execute(ctx, key, func() error {
		return fn(d.db)
	})
}

// resourceWriteKey 同一资源的写操作共用一个队列
func resourceWriteKey(resourceID string) string {
	return "resource#" + resourceID
}

// registerTracing 注册 opentracing 插件，失败只记录警告
func registerTracing(db *gorm.DB, lg *zap.Logger) {
	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil && lg != nil {
		lg.Warn("register gorm tracing plugin failed", zap.Error(err))
	}
}

// NewDBEngineWithConfig 创建 gorm 连接
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(c, c.dsn())
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", c.Type, err)
	}

	if len(c.Replicas) > 0 && c.Type != "sqlite" {
		replicas := make([]gorm.Dialector, 0, len(c.Replicas))
		for _, dsn := range c.Replicas {
			r, err := dialectorFor(c, dsn)
			if err != nil {
				return nil, err
			}
			replicas = append(replicas, r)
		}
		if err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		})); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		if lg != nil {
			lg.Info("database read replicas registered", zap.Int("count", len(replicas)))
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if c.Type == "sqlite" {
		// SQLite 只允许一个写连接
		sqlDB.SetMaxOpenConns(1)
	} else {
		if c.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(c.MaxIdleConns)
		}
		if c.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(c.MaxOpenConns)
		}
	}
	if c.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	if c.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(c.ConnMaxIdleTime)
	}

	registerTracing(db, lg)

	if c.AutoMigrate {
		if err := model.AutoMigrateAll(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return db, nil
}

func (c DatabaseConfig) dsn() string {
	switch c.Type {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName, c.Password, c.Host, c.Name, charset, c.ParseTime)
	case "postgres":
		host, port := c.Host, "5432"
		if i := strings.LastIndex(c.Host, ":"); i > 0 {
			host, port = c.Host[:i], c.Host[i+1:]
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			host, port, c.UserName, c.Password, c.Name)
	}
	return c.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func dialectorFor(c DatabaseConfig, dsn string) (gorm.Dialector, error) {
	switch c.Type {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite", "":
		if c.Path == "" {
			return nil, fmt.Errorf("database.path is required for sqlite")
		}
		if !fsutil.FileExists(c.Path) {
			if err := fsutil.MkParentDir(c.Path); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		return sqlite.Open(dsn), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}
