package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/logger"
	"github.com/haierkeys/objective-share-service/pkg/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// sharedCallTimeout 合并后的 getOrCreate 调用的超时时间
const sharedCallTimeout = 10 * time.Second

// LinkService defines the share link business service interface
// LinkService 定义分享链接业务服务接口
type LinkService interface {
	// GetOrCreateLink returns the active link of (resourceID, role), creating one when none exists.
	// created is false when an existing link (or a concurrent winner) is returned.
	// GetOrCreateLink 返回 (resourceID, role) 的有效链接，不存在时创建；返回已有链接时 created 为 false
	GetOrCreateLink(ctx context.Context, ownerUID int64, resourceID string, role domain.Role) (link *domain.ShareLink, created bool, err error)

	// Lookup returns a link by token in any state
	// Lookup 根据 Token 获取链接（任意状态）
	Lookup(ctx context.Context, token string) (*domain.ShareLink, error)

	// Revoke revokes a link by token; revoking twice is a no-op
	// Revoke 撤销链接，重复撤销不做任何修改
	Revoke(ctx context.Context, token string) (*domain.ShareLink, error)

	// RevokeRole revokes the active link of (resourceID, role)
	// RevokeRole 撤销某资源某角色的有效链接
	RevokeRole(ctx context.Context, resourceID string, role domain.Role) (*domain.ShareLink, error)

	// ListLinks lists all links of a resource with view statistics
	// ListLinks 列出资源的全部链接及访问统计
	ListLinks(ctx context.Context, resourceID string) ([]*domain.ShareLink, error)

	// ShareURL builds the public url of a link
	// ShareURL 生成对外分享地址
	ShareURL(link *domain.ShareLink) string
}

type linkService struct {
	repo      domain.ShareLinkRepository
	resources ResourceChecker
	codec     pkgapp.TokenCodec
	logger    *zap.Logger
	config    *ServiceConfig
	sf        *singleflight.Group
	now       func() time.Time
}

// NewLinkService creates LinkService instance
// NewLinkService 创建 LinkService 实例
func NewLinkService(repo domain.ShareLinkRepository, resources ResourceChecker, codec pkgapp.TokenCodec, logger *zap.Logger, config *ServiceConfig) LinkService {
	return &linkService{
		repo:      repo,
		resources: resources,
		codec:     codec,
		logger:    logger,
		config:    config,
		sf:        &singleflight.Group{},
		now:       time.Now,
	}
}

func (s *linkService) GetOrCreateLink(ctx context.Context, ownerUID int64, resourceID string, role domain.Role) (*domain.ShareLink, bool, error) {
	if !util.IsValidResourceID(resourceID) {
		return nil, false, domain.ErrInvalidResourceID
	}
	if !role.Valid() {
		return nil, false, domain.ErrInvalidRole
	}
	if s.resources != nil {
		if err := s.resources.Exists(ctx, resourceID); err != nil {
			return nil, false, err
		}
	}

	type result struct {
		link    *domain.ShareLink
		created bool
	}

	// 同一进程内同一 (resourceId, role) 的并发请求合并；跨进程由唯一索引兜底
	// 合并后的调用不跟随任何一个调用方的取消，每个调用方只等待自己的 ctx
	key := domain.ActiveKey(resourceID, role)
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedCallTimeout)
		defer cancel()
		link, created, err := s.getOrCreate(sctx, ownerUID, resourceID, role)
		if err != nil {
			return nil, err
		}
		return &result{link: link, created: created}, nil
	})

	var v interface{}
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		v = res.Val
	}

	r := v.(*result)
	linksIssuedTotal.WithLabelValues(role.String(), strconv.FormatBool(!r.created)).Inc()

	// 共享结果的副本，避免调用方相互修改
	link := *r.link
	return &link, r.created, nil
}

func (s *linkService) getOrCreate(ctx context.Context, ownerUID int64, resourceID string, role domain.Role) (*domain.ShareLink, bool, error) {
	now := s.now()

	active, err := s.repo.GetActive(ctx, resourceID, role)
	switch {
	case err == nil && active.IsActive(now):
		return active, false, nil
	case err == nil:
		// 已过期但仍占用唯一键
		if _, err := s.repo.RetireExpired(ctx, resourceID, now); err != nil {
			return nil, false, domain.NewStorageError("share_link.retire_expired", err)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, domain.NewStorageError("share_link.get_active", err)
	}

	token, err := s.codec.Generate()
	if err != nil {
		return nil, false, err
	}

	link := &domain.ShareLink{
		ResourceID: resourceID,
		Role:       role,
		Token:      token,
		CreatedBy:  ownerUID,
		CreatedAt:  now,
	}
	if s.config.Share.LinkExpiry > 0 {
		expiresAt := now.Add(s.config.Share.LinkExpiry)
		link.ExpiresAt = &expiresAt
	}

	created, err := s.repo.Create(ctx, link)
	if err != nil {
		// 另一实例先写入：返回胜者
		winner, gerr := s.repo.GetActive(ctx, resourceID, role)
		if gerr == nil && winner.IsActive(s.now()) {
			s.logger.Info("share link created concurrently, returning existing link",
				zap.String(logger.FieldResourceID, resourceID),
				zap.String(logger.FieldRole, role.String()),
				zap.String(logger.FieldToken, pkgapp.MaskToken(winner.Token)),
				logger.TraceFromContext(ctx))
			return winner, false, nil
		}
		return nil, false, domain.NewStorageError("share_link.create", err)
	}

	s.logger.Info("share link created",
		zap.Int64(logger.FieldUID, ownerUID),
		zap.String(logger.FieldResourceID, resourceID),
		zap.String(logger.FieldRole, role.String()),
		zap.String(logger.FieldToken, pkgapp.MaskToken(token)),
		logger.TraceFromContext(ctx))
	return created, true, nil
}

func (s *linkService) Lookup(ctx context.Context, token string) (*domain.ShareLink, error) {
	link, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.NewStorageError("share_link.get_by_token", err)
	}
	return link, nil
}

func (s *linkService) Revoke(ctx context.Context, token string) (*domain.ShareLink, error) {
	link, err := s.Lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.revoke(ctx, link)
}

func (s *linkService) RevokeRole(ctx context.Context, resourceID string, role domain.Role) (*domain.ShareLink, error) {
	if !util.IsValidResourceID(resourceID) {
		return nil, domain.ErrInvalidResourceID
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	link, err := s.repo.GetActive(ctx, resourceID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, domain.NewStorageError("share_link.get_active", err)
	}
	return s.revoke(ctx, link)
}

func (s *linkService) revoke(ctx context.Context, link *domain.ShareLink) (*domain.ShareLink, error) {
	if link.Revoked {
		return link, nil
	}
	now := s.now()
	changed, err := s.repo.Revoke(ctx, link, now)
	if err != nil {
		return nil, domain.NewStorageError("share_link.revoke", err)
	}
	if changed {
		link.Revoked = true
		link.RevokedAt = &now
		s.logger.Info("share link revoked",
			zap.Int64(logger.FieldLinkID, link.ID),
			zap.String(logger.FieldResourceID, link.ResourceID),
			zap.String(logger.FieldRole, link.Role.String()),
			zap.String(logger.FieldToken, pkgapp.MaskToken(link.Token)),
			logger.TraceFromContext(ctx))
		return link, nil
	}

	// 并发撤销：以数据库为准
	return s.Lookup(ctx, link.Token)
}

func (s *linkService) ListLinks(ctx context.Context, resourceID string) ([]*domain.ShareLink, error) {
	if !util.IsValidResourceID(resourceID) {
		return nil, domain.ErrInvalidResourceID
	}
	list, err := s.repo.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, domain.NewStorageError("share_link.list", err)
	}
	return list, nil
}

func (s *linkService) ShareURL(link *domain.ShareLink) string {
	return s.config.Share.ShareURL(link.Token)
}
