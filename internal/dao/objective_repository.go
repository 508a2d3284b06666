package dao

import (
	"context"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/model"
	"github.com/haierkeys/objective-share-service/pkg/timex"

	"gorm.io/gorm"
)

type objectiveRepository struct {
	dao *Dao
}

func NewObjectiveRepository(dao *Dao) domain.ObjectiveRepository {
	return &objectiveRepository{dao: dao}
}

func (r *objectiveRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.useModel("Objective").WithContext(ctx)
}

func (r *objectiveRepository) toDomain(m *model.Objective) *domain.Objective {
	return &domain.Objective{
		ID:          m.ID,
		OwnerUID:    m.OwnerUID,
		Title:       m.Title,
		Description: m.Description,
		CreatedAt:   time.Time(m.CreatedAt),
		UpdatedAt:   time.Time(m.UpdatedAt),
	}
}

func (r *objectiveRepository) Create(ctx context.Context, o *domain.Objective) (*domain.Objective, error) {
	now := timex.Now()
	m := &model.Objective{
		ID:          o.ID,
		OwnerUID:    o.OwnerUID,
		Title:       o.Title,
		Description: o.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := r.dao.ExecuteWrite(ctx, resourceWriteKey(o.ID), func(db *gorm.DB) error {
		return r.db(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

func (r *objectiveRepository) GetByID(ctx context.Context, id string) (*domain.Objective, error) {
	var m model.Objective
	if err := r.db(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Update 只更新标题、描述
func (r *objectiveRepository) Update(ctx context.Context, o *domain.Objective) error {
	return r.dao.ExecuteWrite(ctx, resourceWriteKey(o.ID), func(db *gorm.DB) error {
		res := r.db(ctx).Model(&model.Objective{}).Where("id = ?", o.ID).Updates(map[string]interface{}{
			"title":       o.Title,
			"description": o.Description,
			"updated_at":  timex.Now(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *objectiveRepository) ListByOwner(ctx context.Context, ownerUID int64) ([]*domain.Objective, error) {
	var ms []*model.Objective
	if err := r.db(ctx).Where("owner_uid = ?", ownerUID).Order("created_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.Objective, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, r.toDomain(m))
	}
	return ds, nil
}

var _ domain.ObjectiveRepository = (*objectiveRepository)(nil)

type commentRepository struct {
	dao *Dao
}

func NewCommentRepository(dao *Dao) domain.CommentRepository {
	return &commentRepository{dao: dao}
}

func (r *commentRepository) db(ctx context.Context) *gorm.DB {
	return r.dao.useModel("Comment").WithContext(ctx)
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	m := &model.Comment{
		ObjectiveID: c.ObjectiveID,
		Author:      c.Author,
		Body:        c.Body,
		LinkID:      c.LinkID,
		InviteID:    c.InviteID,
		CreatedAt:   timex.Now(),
	}
	err := r.dao.ExecuteWrite(ctx, resourceWriteKey(c.ObjectiveID), func(db *gorm.DB) error {
		return r.db(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	out := *c
	out.ID = m.ID
	out.CreatedAt = time.Time(m.CreatedAt)
	return &out, nil
}

func (r *commentRepository) ListByObjective(ctx context.Context, objectiveID string) ([]*domain.Comment, error) {
	var ms []*model.Comment
	if err := r.db(ctx).Where("objective_id = ?", objectiveID).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	ds := make([]*domain.Comment, 0, len(ms))
	for _, m := range ms {
		ds = append(ds, &domain.Comment{
			ID:          m.ID,
			ObjectiveID: m.ObjectiveID,
			Author:      m.Author,
			Body:        m.Body,
			LinkID:      m.LinkID,
			InviteID:    m.InviteID,
			CreatedAt:   time.Time(m.CreatedAt),
		})
	}
	return ds, nil
}

var _ domain.CommentRepository = (*commentRepository)(nil)
