// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/haierkeys/objective-share-service/internal/dao"
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/service"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/limiter"
	"github.com/haierkeys/objective-share-service/pkg/mailer"
	"github.com/haierkeys/objective-share-service/pkg/tracer"
	"github.com/haierkeys/objective-share-service/pkg/workerpool"
	"github.com/haierkeys/objective-share-service/pkg/writequeue"

	"github.com/opentracing/opentracing-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用容器，封装所有依赖和服务
type App struct {
	// 基础设施（注入的依赖）
	config    *AppConfig
	logger    *zap.Logger
	DB        *gorm.DB
	Dao       *dao.Dao
	StartTime time.Time

	// 并发控制组件
	workerPool    *workerpool.Pool
	writeQueueMgr *writequeue.Manager

	// Repository 层
	ShareLinkRepo domain.ShareLinkRepository
	InviteRepo    domain.InviteRepository
	AccessRepo    domain.AccessRecordRepository
	ObjectiveRepo domain.ObjectiveRepository
	CommentRepo   domain.CommentRepository

	// Service 层
	ObjectiveService  service.ObjectiveService
	LinkService       service.LinkService
	RedemptionService service.RedemptionService
	InviteService     service.InviteService
	LocalShareStore   *service.LocalShareLinkStore

	// 基础设施组件
	TokenManager pkgapp.TokenManager
	TokenCodec   pkgapp.TokenCodec
	Mailer       *mailer.Mailer         // nil 表示未启用邮件
	GuestLimiter *limiter.WindowLimiter // nil 表示未配置 redis.url
	Tracer       opentracing.Tracer     // nil 表示未配置 Jaeger
	tracerCloser io.Closer

	// 关闭控制
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewApp 创建应用容器实例
// 初始化所有依赖并进行依赖注入
// cfg: 应用配置（必须）
// logger: zap 日志器（必须）
// db: 数据库连接（必须）
func NewApp(cfg *AppConfig, logger *zap.Logger, db *gorm.DB) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if db == nil {
		return nil, fmt.Errorf("database is required")
	}

	a := &App{
		config:     cfg,
		logger:     logger,
		DB:         db,
		StartTime:  time.Now(),
		shutdownCh: make(chan struct{}),
	}

	codec, err := pkgapp.NewTokenCodec(cfg.Share.TokenCodec, cfg.Share.TokenLength)
	if err != nil {
		return nil, fmt.Errorf("share.token-codec: %w", err)
	}
	a.TokenCodec = codec

	// 初始化 Worker Pool
	wpConfig := cfg.GetWorkerPoolConfig()
	a.workerPool = workerpool.New(&wpConfig, logger)

	// 初始化 Write Queue Manager
	wqConfig := cfg.GetWriteQueueConfig()
	a.writeQueueMgr = writequeue.New(&wqConfig, logger)

	// 初始化 DAO
	a.Dao = dao.New(db, a.writeQueueMgr, logger)

	// 初始化 TokenManager
	a.TokenManager = pkgapp.NewTokenManager(pkgapp.TokenConfig{
		SecretKey: cfg.Security.AuthTokenKey,
		Issuer:    "objective-share-service",
		Expiry:    cfg.GetTokenExpiry(),
	})

	// 邮件，未启用时跳过
	m, err := mailer.New(cfg.GetMailConfig())
	switch {
	case err == nil:
		a.Mailer = m
	case errors.Is(err, mailer.ErrDisabled):
	default:
		return nil, fmt.Errorf("mail: %w", err)
	}

	// 访客限流，需要 Redis
	if cfg.Redis.URL != "" {
		wl, err := limiter.NewWindowLimiter(cfg.Redis.URL, cfg.Share.GuestRateLimit, cfg.GetGuestRateWindow())
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		a.GuestLimiter = wl
	}

	// Jaeger，gorm 插件通过全局 tracer 上报
	if cfg.Tracer.Enabled && cfg.Tracer.JaegerAgent != "" {
		t, closer, err := tracer.NewJaegerTracer(cfg.Tracer.ServiceName, cfg.Tracer.JaegerAgent)
		if err != nil {
			logger.Warn("jaeger tracer init failed, spans disabled", zap.Error(err))
		} else {
			a.Tracer = t
			a.tracerCloser = closer
		}
	}

	// 初始化 Repository 层
	a.ShareLinkRepo = dao.NewShareLinkRepository(a.Dao)
	a.InviteRepo = dao.NewInviteRepository(a.Dao)
	a.AccessRepo = dao.NewAccessRecordRepository(a.Dao)
	a.ObjectiveRepo = dao.NewObjectiveRepository(a.Dao)
	a.CommentRepo = dao.NewCommentRepository(a.Dao)

	svcConfig := cfg.GetServiceConfig()

	// 初始化 Service 层（依赖注入）
	a.ObjectiveService = service.NewObjectiveService(a.ObjectiveRepo, a.CommentRepo, logger)
	a.LinkService = service.NewLinkService(a.ShareLinkRepo, a.ObjectiveService, codec, logger, svcConfig)
	a.RedemptionService = service.NewRedemptionService(a.ShareLinkRepo, a.AccessRepo, a.ObjectiveService, logger, svcConfig)
	a.InviteService = service.NewInviteService(a.InviteRepo, a.AccessRepo, a.ObjectiveService, codec, a.Mailer, a.workerPool, logger, svcConfig)
	a.LocalShareStore = service.NewLocalShareLinkStore(dao.NewLocalCapabilityRepository(cfg.LocalShare.Path), codec, logger)

	logger.Info("App container initialized successfully",
		zap.Int("workerPoolMaxWorkers", wpConfig.MaxWorkers),
		zap.Int("writeQueueCapacity", wqConfig.QueueCapacity),
		zap.Bool("mail", a.Mailer != nil),
		zap.Bool("guestLimiter", a.GuestLimiter != nil),
		zap.Bool("jaeger", a.Tracer != nil))

	return a, nil
}

// ShareStore 返回 owner 视角的服务端 ShareLinkStore
func (a *App) ShareStore(ownerUID int64) service.ShareLinkStore {
	return service.NewRemoteShareLinkStore(a.LinkService, a.RedemptionService, ownerUID)
}

// Close 释放应用容器持有的资源
func (a *App) Close() error {
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err != nil {
			return fmt.Errorf("failed to get sql.DB: %w", err)
		}
		if err := sqlDB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.logger.Info("Database connection closed")
	}
	return nil
}

// Config 获取应用配置
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger 获取日志器
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// Version 获取版本信息
func (a *App) Version() pkgapp.VersionInfo {
	return pkgapp.VersionInfo{
		Version:   Version,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	}
}

// IsProductionMode 是否为生产模式
// 根据日志配置中的 Production 字段判断
func (a *App) IsProductionMode() bool {
	return a.config.Log.Production
}

// WorkerPool 获取 Worker Pool（用于高级操作）
func (a *App) WorkerPool() *workerpool.Pool {
	return a.workerPool
}

// WriteQueueManager 获取 Write Queue Manager（用于高级操作）
func (a *App) WriteQueueManager() *writequeue.Manager {
	return a.writeQueueMgr
}

// DefaultShutdownTimeout 默认关闭超时时间
const DefaultShutdownTimeout = 30 * time.Second

// Shutdown 优雅关闭应用容器
// 按顺序关闭：RedemptionService -> Worker Pool -> Write Queue Manager -> Redis/Jaeger -> Database
// ctx 用于控制关闭超时，如果为 nil 则使用默认 30 秒超时
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("App container shutting down...")

	// 如果没有提供 context，使用默认超时
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
	}

	// 标记关闭
	select {
	case <-a.shutdownCh:
		// 已经关闭
		return nil
	default:
		close(a.shutdownCh)
	}

	var errs []error

	// 0. 关闭 RedemptionService（同步最后的访问统计）
	if a.RedemptionService != nil {
		a.logger.Info("Shutting down redemption service...")
		if err := a.RedemptionService.Shutdown(ctx); err != nil {
			a.logger.Warn("Redemption service shutdown error", zap.Error(err))
		}
	}

	// 1. 关闭 Worker Pool（停止接受新任务，等待邮件发送完成）
	if a.workerPool != nil {
		a.logger.Info("Shutting down worker pool...")
		if err := a.workerPool.Shutdown(ctx); err != nil {
			a.logger.Warn("Worker pool shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("worker pool shutdown: %w", err))
		} else {
			a.logger.Info("Worker pool shutdown completed")
		}
	}

	// 2. 关闭 Write Queue Manager（排空所有队列）
	if a.writeQueueMgr != nil {
		a.logger.Info("Shutting down write queue manager...")
		if err := a.writeQueueMgr.Shutdown(ctx); err != nil {
			a.logger.Warn("write queue manager shutdown error", zap.Error(err))
			errs = append(errs, fmt.Errorf("write queue manager shutdown: %w", err))
		} else {
			a.logger.Info("write queue manager shutdown completed")
		}
	}

	// 3. 等待所有后台操作完成
	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All background operations completed")
	case <-ctx.Done():
		a.logger.Warn("Shutdown timeout waiting for background operations")
		errs = append(errs, fmt.Errorf("background operations timeout: %w", ctx.Err()))
	}

	if a.GuestLimiter != nil {
		if err := a.GuestLimiter.Close(); err != nil {
			a.logger.Warn("redis client close error", zap.Error(err))
		}
	}
	if a.tracerCloser != nil {
		if err := a.tracerCloser.Close(); err != nil {
			a.logger.Warn("jaeger tracer close error", zap.Error(err))
		}
	}

	// 4. 关闭数据库连接
	if err := a.Close(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		a.logger.Warn("App container shutdown completed with errors",
			zap.Int("errorCount", len(errs)))
		return fmt.Errorf("shutdown completed with %d errors: %v", len(errs), errs)
	}

	a.logger.Info("App container shutdown completed successfully")
	return nil
}

// IsShuttingDown 检查应用是否正在关闭
func (a *App) IsShuttingDown() bool {
	select {
	case <-a.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownCh 返回关闭信号通道（用于监听关闭事件）
func (a *App) ShutdownCh() <-chan struct{} {
	return a.shutdownCh
}

// TrackOperation 跟踪后台操作（用于优雅关闭时等待）
// 返回一个函数，在操作完成时调用
func (a *App) TrackOperation() func() {
	a.wg.Add(1)
	return func() {
		a.wg.Done()
	}
}
