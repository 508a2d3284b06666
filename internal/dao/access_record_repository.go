package dao

import (
	"context"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/model"

	"gorm.io/gorm"
)

// accessRecordRepository 访问审计，只有插入和查询
type accessRecordRepository struct {
	dao *Dao
}

func NewAccessRecordRepository(dao *Dao) domain.AccessRecordRepository {
	return &accessRecordRepository{dao: dao}
}

func (r *accessRecordRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.useModel("AccessRecord").WithContext(ctx)
}

func (r *accessRecordRepository) Append(ctx context.Context, record *domain.AccessRecord) error {
	at := record.AccessedAt
	if at.IsZero() {
		at = time.Now()
	}
	m := &model.AccessRecord{
		LinkID:     record.LinkID,
		InviteID:   record.InviteID,
		Email:      record.Email,
		Action:     string(record.Action),
		IP:         record.IP,
		UserAgent:  truncate(record.UserAgent, 512),
		AccessedAt: at.UnixMilli(),
	}
	if err := r.db(ctx).Create(m).Error; err != nil {
		return err
	}
	record.ID = m.ID
	return nil
}

func (r *accessRecordRepository) ListByLink(ctx context.Context, linkID int64, limit int) ([]*domain.AccessRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var ms []*model.AccessRecord
	err := r.db(ctx).Where("link_id = ?", linkID).Order("id DESC").Limit(limit).Find(&ms).Error
	if err != nil {
		return nil, err
	}
	ds := make([]*domain.AccessRecord, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, &domain.AccessRecord{
			ID:         m.ID,
			LinkID:     m.LinkID,
			InviteID:   m.InviteID,
			Email:      m.Email,
			Action:     domain.Action(m.Action),
			IP:         m.IP,
			UserAgent:  m.UserAgent,
			AccessedAt: time.UnixMilli(m.AccessedAt).UTC(),
		})
	}
	return ds, nil
}

func (r *accessRecordRepository) CountByLink(ctx context.Context, linkID int64) (int64, error) {
	var n int64
	err := r.db(ctx).Model(&model.AccessRecord{}).Where("link_id = ?", linkID).Count(&n).Error
	return n, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ domain.AccessRecordRepository = (*accessRecordRepository)(nil)
