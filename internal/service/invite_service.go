package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/objective-share-service/internal/domain"
	pkgapp "github.com/haierkeys/objective-share-service/pkg/app"
	"github.com/haierkeys/objective-share-service/pkg/logger"
	"github.com/haierkeys/objective-share-service/pkg/mailer"
	"github.com/haierkeys/objective-share-service/pkg/util"
	"github.com/haierkeys/objective-share-service/pkg/workerpool"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// releaseClaimTimeout 撤回一次性邀请占用的超时时间
const releaseClaimTimeout = 5 * time.Second

// InviteResult result of CreateInvite
// InviteResult 创建邀请的结果
type InviteResult struct {
	Token  string
	Link   string
	Invite *domain.Invite
}

// RedeemInput guest input for an invite redemption
// RedeemInput 兑换邀请时访客提交的内容
type RedeemInput struct {
	Action      domain.Action
	Body        string  // comment body // 评论内容
	Title       *string // edit // 编辑标题
	Description *string // edit // 编辑描述
}

// RedeemResult result of RedeemInvite
// RedeemResult 兑换邀请的结果
type RedeemResult struct {
	Invite    *domain.Invite
	Objective *domain.Objective
	Comment   *domain.Comment
}

// InviteService defines the invite business service interface
// InviteService 定义邀请业务服务接口
type InviteService interface {
	// CreateInvite creates an email-targeted invite; singleUse nil uses the configured default
	// CreateInvite 创建指定邮箱的邀请，singleUse 为空时使用配置的默认值
	CreateInvite(ctx context.Context, ownerUID int64, resourceID, email string, role domain.Role, singleUse *bool) (*InviteResult, error)

	// RedeemInvite validates the invite and applies the guest action
	// RedeemInvite 校验邀请并执行访客操作
	RedeemInvite(ctx context.Context, token string, input RedeemInput, visitor domain.Visitor) (*RedeemResult, error)

	// ListInvites lists invites of a resource
	// ListInvites 列出资源的邀请
	ListInvites(ctx context.Context, resourceID string) ([]*domain.Invite, error)
}

type inviteService struct {
	repo       domain.InviteRepository
	accessRepo domain.AccessRecordRepository
	resources  ResourceChecker
	actions    GuestActionApplier
	codec      pkgapp.TokenCodec
	mailer     *mailer.Mailer // nil when mail is disabled // 未启用邮件时为 nil
	pool       *workerpool.Pool
	logger     *zap.Logger
	config     *ServiceConfig
	now        func() time.Time
}

// NewInviteService creates InviteService instance
// NewInviteService 创建 InviteService 实例
func NewInviteService(
	repo domain.InviteRepository,
	accessRepo domain.AccessRecordRepository,
	objectives ObjectiveService,
	codec pkgapp.TokenCodec,
	mail *mailer.Mailer,
	pool *workerpool.Pool,
	logger *zap.Logger,
	config *ServiceConfig,
) InviteService {
	return &inviteService{
		repo:       repo,
		accessRepo: accessRepo,
		resources:  objectives,
		actions:    objectives,
		codec:      codec,
		mailer:     mail,
		pool:       pool,
		logger:     logger,
		config:     config,
		now:        time.Now,
	}
}

func (s *inviteService) CreateInvite(ctx context.Context, ownerUID int64, resourceID, email string, role domain.Role, singleUse *bool) (*InviteResult, error) {
	email = strings.TrimSpace(email)
	if !util.IsValidResourceID(resourceID) {
		return nil, domain.ErrInvalidResourceID
	}
	if !util.IsValidEmail(email) {
		return nil, domain.ErrInvalidEmail
	}
	if !role.Valid() {
		return nil, domain.ErrInvalidRole
	}
	if s.resources != nil {
		if err := s.resources.Exists(ctx, resourceID); err != nil {
			return nil, err
		}
	}

	token, err := s.codec.Generate()
	if err != nil {
		return nil, err
	}

	single := s.config.Share.InviteSingleUse
	if singleUse != nil {
		single = *singleUse
	}

	now := s.now()
	invite, err := s.repo.Create(ctx, &domain.Invite{
		ResourceID: resourceID,
		Email:      email,
		Role:       role,
		Token:      token,
		SingleUse:  single,
		ExpiresAt:  now.Add(s.config.Share.inviteExpiry()),
		CreatedBy:  ownerUID,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, domain.NewStorageError("invite.create", err)
	}

	link := s.config.Share.RedeemURL(token)
	s.logger.Info("invite created",
		zap.Int64(logger.FieldUID, ownerUID),
		zap.Int64(logger.FieldInviteID, invite.ID),
		zap.String(logger.FieldResourceID, resourceID),
		zap.String(logger.FieldRole, role.String()),
		zap.Bool("singleUse", single),
		logger.TraceFromContext(ctx))

	s.notify(invite, link)

	return &InviteResult{Token: token, Link: link, Invite: invite}, nil
}

// notify 异步发送邀请邮件，失败只记录日志
func (s *inviteService) notify(invite *domain.Invite, link string) {
	if s.mailer == nil || s.pool == nil {
		return
	}
	mail := mailer.Mail{
		To:      invite.Email,
		Subject: "You have been invited to an objective",
		Body: fmt.Sprintf("You have been invited as %s.\n\nOpen this link to continue:\n%s\n\nThe invite expires at %s.\n",
			invite.Role, link, invite.ExpiresAt.Format(time.RFC1123)),
	}
	inviteID := invite.ID
	err := s.pool.SubmitAsync(context.Background(), func(ctx context.Context) error {
		if err := s.mailer.Send(ctx, mail); err != nil {
			s.logger.Warn("send invite mail failed", zap.Int64(logger.FieldInviteID, inviteID), zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("submit invite mail failed", zap.Int64(logger.FieldInviteID, inviteID), zap.Error(err))
	}
}

func (s *inviteService) RedeemInvite(ctx context.Context, token string, input RedeemInput, visitor domain.Visitor) (*RedeemResult, error) {
	res, err := s.redeem(ctx, token, input, visitor)
	inviteRedemptionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
	if err != nil && (domain.IsGuestRejection(err) || errors.Is(err, domain.ErrRoleMismatch)) {
		s.logger.Info("invite redemption rejected",
			zap.String(logger.FieldReason, err.Error()),
			zap.String(logger.FieldToken, pkgapp.MaskToken(token)),
			logger.TraceFromContext(ctx))
	}
	return res, err
}

func (s *inviteService) redeem(ctx context.Context, token string, input RedeemInput, visitor domain.Visitor) (*RedeemResult, error) {
	invite, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, domain.NewStorageError("invite.get_by_token", err)
	}

	now := s.now()
	if invite.UsedAt != nil {
		return nil, domain.ErrInviteUsed
	}
	if invite.IsExpired(now) {
		return nil, domain.ErrInviteExpired
	}
	if !invite.Role.Allows(input.Action) {
		return nil, domain.ErrRoleMismatch
	}

	inviteID := invite.ID
	action := domain.GuestAction{
		Action:      input.Action,
		Author:      invite.GuestAuthor(),
		Body:        input.Body,
		Title:       input.Title,
		Description: input.Description,
		InviteID:    &inviteID,
	}
	if err := action.Validate(); err != nil {
		return nil, err
	}

	if invite.SingleUse {
		claimed, err := s.repo.MarkUsed(ctx, invite.ID, now)
		if err != nil {
			return nil, domain.NewStorageError("invite.mark_used", err)
		}
		if !claimed {
			return nil, domain.ErrInviteUsed
		}
		invite.UsedAt = &now
	}

	applied, err := s.actions.ApplyGuestAction(ctx, invite.ResourceID, action)
	if err != nil {
		if invite.SingleUse {
			s.releaseClaim(ctx, invite.ID, now)
		}
		return nil, err
	}

	// 操作成功后才写访问记录；操作已生效，失败时不再释放邀请
	email := invite.Email
	if err := s.accessRepo.Append(ctx, &domain.AccessRecord{
		InviteID:   &inviteID,
		Email:      &email,
		Action:     input.Action,
		IP:         visitor.IP,
		UserAgent:  visitor.UserAgent,
		AccessedAt: now,
	}); err != nil {
		return nil, domain.NewStorageError("access_record.append", err)
	}

	s.logger.Info("invite redeemed",
		zap.Int64(logger.FieldInviteID, invite.ID),
		zap.String(logger.FieldAction, string(input.Action)),
		logger.TraceFromContext(ctx))

	return &RedeemResult{Invite: invite, Objective: applied.Objective, Comment: applied.Comment}, nil
}

// releaseClaim 访客操作失败时撤回 used_at，邀请可再次兑换
// 请求 ctx 可能已取消，撤回使用独立的超时
func (s *inviteService) releaseClaim(ctx context.Context, inviteID int64, at time.Time) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseClaimTimeout)
	defer cancel()
	if _, err := s.repo.ReleaseUsed(rctx, inviteID, at); err != nil {
		s.logger.Error("release invite claim failed",
			zap.Int64(logger.FieldInviteID, inviteID),
			zap.Error(err),
			logger.TraceFromContext(ctx))
	}
}

func (s *inviteService) ListInvites(ctx context.Context, resourceID string) ([]*domain.Invite, error) {
	if !util.IsValidResourceID(resourceID) {
		return nil, domain.ErrInvalidResourceID
	}
	list, err := s.repo.ListByResource(ctx, resourceID)
	if err != nil {
		return nil, domain.NewStorageError("invite.list", err)
	}
	return list, nil
}
