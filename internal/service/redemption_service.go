package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RedemptionService defines the share token redemption service interface
// RedemptionService 定义分享 Token 校验服务接口
type RedemptionService interface {
	// Resolve validates a share token (NotFound -> Revoked -> Expired) and records the view
	// Resolve 校验分享 Token 并记录访问
	Resolve(ctx context.Context, token string, visitor domain.Visitor) (*domain.ShareLink, error)

	// Authorize re-resolves the token and checks the granted role allows action.
	// Guest write paths must call it immediately before writing.
	// Authorize 重新校验 Token 并检查角色是否允许该操作，访客写操作前必须调用
	Authorize(ctx context.Context, token string, action domain.Action, visitor domain.Visitor) (*domain.ShareLink, error)

	// RecordView aggregates access statistics in memory
	// RecordView 在内存中聚合访问统计
	RecordView(linkID int64)

	// Shutdown shuts down the service and flushes remaining data
	// Shutdown 关闭服务并同步最后的数据
	Shutdown(ctx context.Context) error
}

// aggStats aggregated statistics
// aggStats 聚合统计
type aggStats struct {
	viewCount    int64     // View count // 访问计数
	lastViewedAt time.Time // Last viewed at // 最后访问时间
}

type redemptionService struct {
	repo       domain.ShareLinkRepository
	accessRepo domain.AccessRecordRepository
	resources  ResourceChecker
	logger     *zap.Logger
	now        func() time.Time

	// Statistics buffer
	// 统计缓冲区
	bufferMu    sync.Mutex
	statsBuffer map[int64]*aggStats
	ticker      *time.Ticker
	stopCh      chan struct{}
	doneCh      chan struct{}
	stopOnce    sync.Once
}

// NewRedemptionService creates RedemptionService instance
// NewRedemptionService 创建 RedemptionService 实例
// resources 为 nil 时不检查资源是否存在
func NewRedemptionService(repo domain.ShareLinkRepository, accessRepo domain.AccessRecordRepository, resources ResourceChecker, logger *zap.Logger, config *ServiceConfig) RedemptionService {
	s := &redemptionService{
		repo:        repo,
		accessRepo:  accessRepo,
		resources:   resources,
		logger:      logger,
		now:         time.Now,
		statsBuffer: make(map[int64]*aggStats),
		ticker:      time.NewTicker(config.Share.statsFlushInterval()),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}

	go s.startFlushLoop()

	return s
}

func (s *redemptionService) Resolve(ctx context.Context, token string, visitor domain.Visitor) (*domain.ShareLink, error) {
	link, err := s.check(ctx, token)
	if err == nil {
		err = s.record(ctx, link, domain.ActionView, visitor)
	}
	resolutionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (s *redemptionService) Authorize(ctx context.Context, token string, action domain.Action, visitor domain.Visitor) (*domain.ShareLink, error) {
	link, err := s.check(ctx, token)
	if err == nil && !link.Role.Allows(action) {
		s.logger.Info("share action rejected",
			zap.String(logger.FieldReason, domain.ErrRoleMismatch.Error()),
			zap.String(logger.FieldRole, link.Role.String()),
			zap.String(logger.FieldAction, string(action)),
			zap.String(logger.FieldToken, pkgapp.MaskToken(token)),
			logger.TraceFromContext(ctx))
		err = domain.ErrRoleMismatch
	}
	if err == nil {
		err = s.record(ctx, link, action, visitor)
	}
	resolutionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil {
		return nil, err
	}
	return link, nil
}

// check 查找并校验链接状态及所指资源，拒绝原因只写日志
func (s *redemptionService) check(ctx context.Context, token string) (*domain.ShareLink, error) {
	link, err := s.repo.GetByToken(ctx, token)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("share link lookup failed",
			zap.String(logger.FieldToken, pkgapp.MaskToken(token)),
			zap.Error(err),
			logger.TraceFromContext(ctx))
		return nil, domain.NewStorageError("share_link.get_by_token", err)
	}
	if err != nil {
		link = nil
	}

	if reason := link.Check(s.now()); reason != nil {
		s.logger.Info("share token rejected",
			zap.String(logger.FieldReason, reason.Error()),
			zap.String(logger.FieldToken, pkgapp.MaskToken(token)),
			logger.TraceFromContext(ctx))
		return nil, reason
	}

	// 资源已删除的链接不写访问记录
	if s.resources != nil {
		if err := s.resources.Exists(ctx, link.ResourceID); err != nil {
			if errors.Is(err, domain.ErrResourceNotFound) {
				s.logger.Info("share token rejected",
					zap.String(logger.FieldReason, err.Error()),
					zap.String(logger.FieldResourceID, link.ResourceID),
					zap.String(logger.FieldToken, pkgapp.MaskToken(token)),
					logger.TraceFromContext(ctx))
			}
			return nil, err
		}
	}
	return link, nil
}

// record 同步写入访问记录，失败时拒绝访问
func (s *redemptionService) record(ctx context.Context, link *domain.ShareLink, action domain.Action, visitor domain.Visitor) error {
	linkID := link.ID
	err := s.accessRepo.Append(ctx, &domain.AccessRecord{
		LinkID:     &linkID,
		Action:     action,
		IP:         visitor.IP,
		UserAgent:  visitor.UserAgent,
		AccessedAt: s.now(),
	})
	if err != nil {
		s.logger.Error("append access record failed",
			zap.Int64(logger.FieldLinkID, link.ID),
			zap.Error(err),
			logger.TraceFromContext(ctx))
		return domain.NewStorageError("access_record.append", err)
	}
	s.RecordView(link.ID)
	return nil
}

func (s *redemptionService) RecordView(linkID int64) {
	s.bufferMu.Lock()
	defer s.bufferMu.Unlock()

	stats, ok := s.statsBuffer[linkID]
	if !ok {
		stats = &aggStats{}
		s.statsBuffer[linkID] = stats
	}
	stats.viewCount++
	stats.lastViewedAt = s.now()
}

// startFlushLoop starts periodic synchronization goroutine
// startFlushLoop 启动定时同步协程
func (s *redemptionService) startFlushLoop() {
	defer close(s.doneCh)
	for {
		select {
		case <-s.ticker.C:
			s.flush()
		case <-s.stopCh:
			s.flush()
			return
		}
	}
}

// flush synchronizes incremental totals in memory to database
// flush 将内存中的增量合计同步到数据库
func (s *redemptionService) flush() {
	s.bufferMu.Lock()
	if len(s.statsBuffer) == 0 {
		s.bufferMu.Unlock()
		return
	}
	tempBuffer := s.statsBuffer
	s.statsBuffer = make(map[int64]*aggStats)
	s.bufferMu.Unlock()

	ctx := context.Background()
	for id, stats := range tempBuffer {
		if err := s.repo.UpdateViewStats(ctx, id, stats.viewCount, stats.lastViewedAt); err != nil {
			s.logger.Error("failed to flush share_link stats", zap.Int64(logger.FieldLinkID, id), zap.Error(err))
		}
	}
}

// Shutdown shuts down the service and flushes remaining data
// Shutdown 关闭服务并同步最后的数据
func (s *redemptionService) Shutdown(ctx context.Context) error {
	s.stopOnce.Do(func() {
		s.ticker.Stop()
		close(s.stopCh)
	})

	// Wait for periodic synchronization goroutine to end (i.e., last flush completed)
	// 等待定时同步协程结束（即最后一次 flush 完成）
	select {
	case <-s.doneCh:
		s.logger.Info("RedemptionService background flush loop stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("RedemptionService shutdown timeout, some data might not be flushed")
		return ctx.Err()
	}
}
