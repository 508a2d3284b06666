package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/pkg/logger"
	"github.com/haierkeys/objective-share-service/pkg/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ResourceChecker reports whether a shareable resource exists
// ResourceChecker 检查被分享资源是否存在
type ResourceChecker interface {
	// Exists returns domain.ErrResourceNotFound when the resource is missing
	// Exists 资源不存在时返回 domain.ErrResourceNotFound
	Exists(ctx context.Context, resourceID string) error
}

// GuestActionApplier applies a role-checked guest action to a resource
// GuestActionApplier 在角色校验通过后执行访客操作
type GuestActionApplier interface {
	ApplyGuestAction(ctx context.Context, resourceID string, action domain.GuestAction) (*GuestActionResult, error)
}

// GuestActionResult result of a guest action
// GuestActionResult 访客操作结果
type GuestActionResult struct {
	Objective *domain.Objective
	Comment   *domain.Comment // only for comment // 仅评论时有值
}

// ObjectiveService defines the objective business service interface
// ObjectiveService 定义目标业务服务接口
type ObjectiveService interface {
	ResourceChecker
	GuestActionApplier

	// Create creates an objective owned by ownerUID
	// Create 创建目标
	Create(ctx context.Context, ownerUID int64, title, description string) (*domain.Objective, error)

	// Get returns an objective without ownership check (guest paths, after token resolution)
	// Get 获取目标，不校验归属（访客路径在 Token 校验之后调用）
	Get(ctx context.Context, id string) (*domain.Objective, error)

	// GetOwned returns the objective only when it belongs to ownerUID
	// GetOwned 仅当目标属于 ownerUID 时返回，否则视为不存在
	GetOwned(ctx context.Context, ownerUID int64, id string) (*domain.Objective, error)

	// ListOwned lists objectives of an owner
	// ListOwned 列出 owner 的目标
	ListOwned(ctx context.Context, ownerUID int64) ([]*domain.Objective, error)

	// ListComments lists comments of an objective
	// ListComments 列出目标下的评论
	ListComments(ctx context.Context, id string) ([]*domain.Comment, error)
}

type objectiveService struct {
	repo        domain.ObjectiveRepository
	commentRepo domain.CommentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewObjectiveService creates ObjectiveService instance
// NewObjectiveService 创建 ObjectiveService 实例
func NewObjectiveService(repo domain.ObjectiveRepository, commentRepo domain.CommentRepository, logger *zap.Logger) ObjectiveService {
	return &objectiveService{
		repo:        repo,
		commentRepo: commentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *objectiveService) Create(ctx context.Context, ownerUID int64, title, description string) (*domain.Objective, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.ErrInvalidTitle
	}
	now := s.now()
	o, err := s.repo.Create(ctx, &domain.Objective{
		ID:          uuid.NewString(),
		OwnerUID:    ownerUID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, domain.NewStorageError("objective.create", err)
	}
	return o, nil
}

func (s *objectiveService) Get(ctx context.Context, id string) (*domain.Objective, error) {
	if !util.IsValidResourceID(id) {
		return nil, domain.ErrInvalidResourceID
	}
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrResourceNotFound
		}
		return nil, domain.NewStorageError("objective.get", err)
	}
	return o, nil
}

func (s *objectiveService) GetOwned(ctx context.Context, ownerUID int64, id string) (*domain.Objective, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// 不暴露他人资源是否存在
	if o.OwnerUID != ownerUID {
		return nil, domain.ErrResourceNotFound
	}
	return o, nil
}

func (s *objectiveService) Exists(ctx context.Context, resourceID string) error {
	_, err := s.Get(ctx, resourceID)
	return err
}

func (s *objectiveService) ListOwned(ctx context.Context, ownerUID int64) ([]*domain.Objective, error) {
	list, err := s.repo.ListByOwner(ctx, ownerUID)
	if err != nil {
		return nil, domain.NewStorageError("objective.list", err)
	}
	return list, nil
}

func (s *objectiveService) ListComments(ctx context.Context, id string) ([]*domain.Comment, error) {
	list, err := s.commentRepo.ListByObjective(ctx, id)
	if err != nil {
		return nil, domain.NewStorageError("comment.list", err)
	}
	return list, nil
}

// ApplyGuestAction applies a guest action; callers must have authorized the action first
// ApplyGuestAction 执行访客操作，调用方必须先完成授权
func (s *objectiveService) ApplyGuestAction(ctx context.Context, resourceID string, action domain.GuestAction) (*GuestActionResult, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	o, err := s.Get(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	switch action.Action {
	case domain.ActionView:
		return &GuestActionResult{Objective: o}, nil

	case domain.ActionComment:
		c, err := s.commentRepo.Create(ctx, &domain.Comment{
			ObjectiveID: o.ID,
			Author:      action.Author,
			Body:        strings.TrimSpace(action.Body),
			LinkID:      action.LinkID,
			InviteID:    action.InviteID,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return nil, domain.NewStorageError("comment.create", err)
		}
		return &GuestActionResult{Objective: o, Comment: c}, nil

	case domain.ActionEdit:
		if action.Title != nil {
			o.Title = strings.TrimSpace(*action.Title)
		}
		if action.Description != nil {
			o.Description = *action.Description
		}
		o.UpdatedAt = s.now()
		if err := s.repo.Update(ctx, o); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, domain.ErrResourceNotFound
			}
			return nil, domain.NewStorageError("objective.update", err)
		}
		s.logger.Info("objective edited by guest",
			zap.String(logger.FieldResourceID, o.ID),
			zap.String("author", action.Author),
			logger.TraceFromContext(ctx))
		return &GuestActionResult{Objective: o}, nil
	}
	return nil, domain.ErrInvalidAction
}
