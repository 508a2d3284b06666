package dao

import (
	"context"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/model"
	"github.com/haierkeys/objective-share-service/pkg/timex"

	"gorm.io/gorm"
)

// shareLinkRepository 实现 domain.ShareLinkRepository 接口
type shareLinkRepository struct {
	dao *Dao
}

// NewShareLinkRepository 创建 ShareLinkRepository 实例
func NewShareLinkRepository(dao *Dao) domain.ShareLinkRepository {
	return &shareLinkRepository{dao: dao}
}

func (r *shareLinkRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.useModel("ShareLink").WithContext(ctx)
}

func (r *shareLinkRepository) toDomain(m *model.ShareLink) *domain.ShareLink {
	if m == nil {
		return nil
	}
	return &domain.ShareLink{
		ID:           m.ID,
		ResourceID:   m.ResourceID,
		Role:         domain.Role(m.Role),
		Token:        m.Token,
		Revoked:      m.Revoked,
		RevokedAt:    timex.FromMilli(m.RevokedAt),
		ExpiresAt:    timex.FromMilli(m.ExpiresAt),
		CreatedBy:    m.CreatedBy,
		ViewCount:    m.ViewCount,
		LastViewedAt: timex.FromMilli(m.LastViewedAt),
		CreatedAt:    time.Time(m.CreatedAt),
	}
}

// Create 新链接总是有效的，占用 active_key
func (r *shareLinkRepository) Create(ctx context.Context, link *domain.ShareLink) (*domain.ShareLink, error) {
	activeKey := domain.ActiveKey(link.ResourceID, link.Role)
	createdAt := link.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	m := &model.ShareLink{
		ResourceID: link.ResourceID,
		Role:       string(link.Role),
		Token:      link.Token,
		ActiveKey:  &activeKey,
		ExpiresAt:  timex.ToMilli(link.ExpiresAt),
		CreatedBy:  link.CreatedBy,
		CreatedAt:  timex.Time(createdAt.UTC()),
	}

	err := r.dao.ExecuteWrite(ctx, resourceWriteKey(link.ResourceID), func(db *gorm.DB) error {
		return r.db(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *shareLinkRepository) GetByToken(ctx context.Context, token string) (*domain.ShareLink, error) {
	var m model.ShareLink
	if err := r.db(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

func (r *shareLinkRepository) GetActive(ctx context.Context, resourceID string, role domain.Role) (*domain.ShareLink, error) {
	var m model.ShareLink
	err := r.db(ctx).Where("active_key = ?", domain.ActiveKey(resourceID, role)).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Revoke 条件更新 revoked = false 的行，保证 revoked 单调
func (r *shareLinkRepository) Revoke(ctx context.Context, link *domain.ShareLink, at time.Time) (bool, error) {
	var affected int64
	err := r.dao.ExecuteWrite(ctx, resourceWriteKey(link.ResourceID), func(db *gorm.DB) error {
		res := r.db(ctx).Model(&model.ShareLink{}).
			Where("id = ? AND revoked = ?", link.ID, false).
			Updates(map[string]interface{}{
				"revoked":    true,
				"revoked_at": at.UnixMilli(),
				"active_key": nil,
			})
		affected = res.RowsAffected
		return res.Error
	})
	return affected > 0, err
}

func (r *shareLinkRepository) RetireExpired(ctx context.Context, resourceID string, now time.Time) (int64, error) {
	key := "share_link#sweep"
	if resourceID != "" {
		key = resourceWriteKey(resourceID)
	}

	var affected int64
	err := r.dao.ExecuteWrite(ctx, key, func(db *gorm.DB) error {
		q := r.db(ctx).Model(&model.ShareLink{}).
			Where("active_key IS NOT NULL AND expires_at > 0 AND expires_at <= ?", now.UnixMilli())
		if resourceID != "" {
			q = q.Where("resource_id = ?", resourceID)
		}
		res := q.Update("active_key", nil)
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}

func (r *shareLinkRepository) ListByResource(ctx context.Context, resourceID string) ([]*domain.ShareLink, error) {
	var ms []*model.ShareLink
	if err := r.db(ctx).Where("resource_id = ?", resourceID).Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.ShareLink, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

func (r *shareLinkRepository) UpdateViewStats(ctx context.Context, id int64, viewCountIncr int64, lastViewedAt time.Time) error {
	return r.db(ctx).Model(&model.ShareLink{}).Where("id = ?", id).Updates(map[string]interface{}{
		"view_count":     gorm.Expr("view_count + ?", viewCountIncr),
		"last_viewed_at": lastViewedAt.UnixMilli(),
	}).Error
}

var _ domain.ShareLinkRepository = (*shareLinkRepository)(nil)
