package service

import (
	"context"
	"sync"

	"github.com/haierkeys/objective-share-service/internal/domain"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/logger"
	"github.com/haierkeys/objective-share-service/pkg/util"

	"go.uber.org/zap"
)

// ShareLinkStore is the single abstraction over server-authoritative and local capability storage
// ShareLinkStore 统一服务端权威存储与本地能力存储的接口
type ShareLinkStore interface {
	// GetOrCreateToken returns the current token of (resourceID, role), creating one when missing
	// GetOrCreateToken 返回 (resourceID, role) 当前的 Token，不存在时创建
	GetOrCreateToken(ctx context.Context, resourceID string, role domain.Role) (string, error)

	// AcceptShare reports whether token is the current token of (resourceID, role)
	// AcceptShare Token 是否为 (resourceID, role) 当前的 Token
	AcceptShare(ctx context.Context, token string, role domain.Role, resourceID string) (bool, error)

	// RevokeShare revokes token of resourceID
	// RevokeShare 撤销资源下的 Token
	RevokeShare(ctx context.Context, resourceID string, token string) error

	// Authoritative is false for stores that cannot enforce access control
	// Authoritative 为 false 时不能作为访问控制边界
	Authoritative() bool
}

var (
	_ ShareLinkStore = (*RemoteShareLinkStore)(nil)
	_ ShareLinkStore = (*LocalShareLinkStore)(nil)
)

// RemoteShareLinkStore server-authoritative store backed by LinkService and RedemptionService
// RemoteShareLinkStore 基于 LinkService / RedemptionService 的服务端实现
type RemoteShareLinkStore struct {
	links      LinkService
	redemption RedemptionService
	ownerUID   int64
}

// NewRemoteShareLinkStore creates a remote store acting on behalf of ownerUID
// NewRemoteShareLinkStore 创建代表 ownerUID 操作的服务端存储
func NewRemoteShareLinkStore(links LinkService, redemption RedemptionService, ownerUID int64) *RemoteShareLinkStore {
	return &RemoteShareLinkStore{links: links, redemption: redemption, ownerUID: ownerUID}
}

func (r *RemoteShareLinkStore) GetOrCreateToken(ctx context.Context, resourceID string, role domain.Role) (string, error) {
	link, _, err := r.links.GetOrCreateLink(ctx, r.ownerUID, resourceID, role)
	if err != nil {
		return "", err
	}
	return link.Token, nil
}

func (r *RemoteShareLinkStore) AcceptShare(ctx context.Context, token string, role domain.Role, resourceID string) (bool, error) {
	link, err := r.redemption.Resolve(ctx, token, domain.Visitor{})
	if err != nil {
		if domain.IsGuestRejection(err) {
			return false, nil
		}
		return false, err
	}
	return link.ResourceID == resourceID && link.Role == role, nil
}

func (r *RemoteShareLinkStore) RevokeShare(ctx context.Context, resourceID string, token string) error {
	link, err := r.links.Lookup(ctx, token)
	if err != nil {
		return err
	}
	if link.ResourceID != resourceID {
		return domain.ErrLinkNotFound
	}
	_, err = r.links.Revoke(ctx, token)
	return err
}

func (r *RemoteShareLinkStore) Authoritative() bool {
	return true
}

// LocalShareLinkStore non-authoritative store persisted to a local file.
// Tokens are generated and compared locally; nothing prevents a holder of the file from forging them.
// LocalShareLinkStore 本地文件实现，不具备访问控制能力
type LocalShareLinkStore struct {
	repo   domain.LocalCapabilityRepository
	codec  pkgapp.TokenCodec
	logger *zap.Logger

	// 进程内串行化读-改-写，多进程同时写同一文件时以最后一次写入为准
	mu sync.Mutex
}

// NewLocalShareLinkStore creates LocalShareLinkStore instance
// NewLocalShareLinkStore 创建本地能力存储
func NewLocalShareLinkStore(repo domain.LocalCapabilityRepository, codec pkgapp.TokenCodec, logger *zap.Logger) *LocalShareLinkStore {
	return &LocalShareLinkStore{repo: repo, codec: codec, logger: logger}
}

func (l *LocalShareLinkStore) warn(op string) {
	l.logger.Warn("local capability store is not an access-control boundary",
		zap.String(logger.FieldMethod, op))
}

func (l *LocalShareLinkStore) GetOrCreateToken(ctx context.Context, resourceID string, role domain.Role) (string, error) {
	l.warn("GetOrCreateToken")
	if !util.IsValidResourceID(resourceID) {
		return "", domain.ErrInvalidResourceID
	}
	if !role.Valid() {
		return "", domain.ErrInvalidRole
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.repo.Load(ctx)
	if err != nil {
		return "", domain.NewStorageError("local.load", err)
	}
	rec, ok := records[resourceID]
	if !ok {
		rec = &domain.LocalCapability{}
		records[resourceID] = rec
	}
	slot := rec.Slot(role)
	if *slot != nil {
		return **slot, nil
	}

	token, err := l.codec.Generate()
	if err != nil {
		return "", err
	}
	*slot = &token
	if err := l.repo.Save(ctx, records); err != nil {
		return "", domain.NewStorageError("local.save", err)
	}
	return token, nil
}

// AcceptShare 与当前槽位不一致的 Token 不做任何修改
func (l *LocalShareLinkStore) AcceptShare(ctx context.Context, token string, role domain.Role, resourceID string) (bool, error) {
	l.warn("AcceptShare")
	if !role.Valid() {
		return false, domain.ErrInvalidRole
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.repo.Load(ctx)
	if err != nil {
		return false, domain.NewStorageError("local.load", err)
	}
	rec, ok := records[resourceID]
	if !ok {
		return false, nil
	}
	slot := rec.Slot(role)
	if *slot == nil || **slot != token {
		return false, nil
	}
	if rec.IsAccepted(token) {
		return true, nil
	}
	rec.Accepted = append(rec.Accepted, token)
	if err := l.repo.Save(ctx, records); err != nil {
		return false, domain.NewStorageError("local.save", err)
	}
	return true, nil
}

// RevokeShare 清空匹配的角色槽位并从 Accepted 中移除；未知资源或 Token 时不做修改
func (l *LocalShareLinkStore) RevokeShare(ctx context.Context, resourceID string, token string) error {
	l.warn("RevokeShare")

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.repo.Load(ctx)
	if err != nil {
		return domain.NewStorageError("local.load", err)
	}
	rec, ok := records[resourceID]
	if !ok {
		return nil
	}

	changed := false
	for _, role := range []domain.Role{domain.RoleViewer, domain.RoleEditor} {
		slot := rec.Slot(role)
		if *slot != nil && **slot == token {
			*slot = nil
			changed = true
		}
	}
	accepted := rec.Accepted[:0]
	for _, t := range rec.Accepted {
		if t == token {
			changed = true
			continue
		}
		accepted = append(accepted, t)
	}
	rec.Accepted = accepted

	if !changed {
		return nil
	}
	if err := l.repo.Save(ctx, records); err != nil {
		return domain.NewStorageError("local.save", err)
	}
	return nil
}

// Show returns the stored record of resourceID, nil when absent
// Show 返回资源的本地记录
func (l *LocalShareLinkStore) Show(ctx context.Context, resourceID string) (*domain.LocalCapability, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.repo.Load(ctx)
	if err != nil {
		return nil, domain.NewStorageError("local.load", err)
	}
	return records[resourceID], nil
}

func (l *LocalShareLinkStore) Authoritative() bool {
	return false
}
