package dao

import (
	"context"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/model"
	"github.com/haierkeys/objective-share-service/pkg/timex"

	"gorm.io/gorm"
)

// inviteRepository 实现 domain.InviteRepository 接口
type inviteRepository struct {
	dao *Dao
}

func NewInviteRepository(dao *Dao) domain.InviteRepository {
	return &inviteRepository{dao: dao}
}

func (r *inviteRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.useModel("Invite").WithContext(ctx)
}

func (r *inviteRepository) toDomain(m *model.Invite) *domain.Invite {
	if m == nil {
		return nil
	}
	return &domain.Invite{
		ID:         m.ID,
		ResourceID: m.ResourceID,
		Email:      m.Email,
		Role:       domain.Role(m.Role),
		Token:      m.Token,
		SingleUse:  m.SingleUse,
		ExpiresAt:  time.UnixMilli(m.ExpiresAt).UTC(),
		UsedAt:     timex.FromMilli(m.UsedAt),
		CreatedBy:  m.CreatedBy,
		CreatedAt:  time.Time(m.CreatedAt),
	}
}

func (r *inviteRepository) Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	createdAt := invite.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	m := &model.Invite{
		ResourceID: invite.ResourceID,
		Email:      invite.Email,
		Role:       string(invite.Role),
		Token:      invite.Token,
		SingleUse:  invite.SingleUse,
		ExpiresAt:  invite.ExpiresAt.UnixMilli(),
		CreatedBy:  invite.CreatedBy,
		CreatedAt:  timex.Time(createdAt.UTC()),
	}
	err := r.dao.ExecuteWrite(ctx, resourceWriteKey(invite.ResourceID), func(db *gorm.DB) error {
		return r.db(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *inviteRepository) GetByToken(ctx context.Context, token string) (*domain.Invite, error) {
	var m model.Invite
	if err := r.db(ctx).Where("token = ?", token).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// MarkUsed used_at = 0 作为条件，并发兑换时只有一个调用返回 true
func (r *inviteRepository) MarkUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db(ctx).Model(&model.Invite{}).
		Where("id = ? AND used_at = 0", id).
		Update("used_at", at.UnixMilli())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseUsed 以 used_at = at 为条件清零，只撤回本次调用自己的标记
func (r *inviteRepository) ReleaseUsed(ctx context.Context, id int64, at time.Time) (bool, error) {
	res := r.db(ctx).Model(&model.Invite{}).
		Where("id = ? AND used_at = ?", id, at.UnixMilli()).
		Update("used_at", 0)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *inviteRepository) ListByResource(ctx context.Context, resourceID string) ([]*domain.Invite, error) {
	var ms []*model.Invite
	if err := r.db(ctx).Where("resource_id = ?", resourceID).Order("id DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.Invite, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

var _ domain.InviteRepository = (*inviteRepository)(nil)
