package task

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/pkg/logger"

	"go.uber.org/zap"
)

// LinkSweepTask 清理过期分享链接的活跃标记
// Expired links stay in the table with their audit history; only the active slot is released
// so the next get-or-create for that (resource, role) mints a fresh token.
type LinkSweepTask struct {
	repo   domain.ShareLinkRepository
	spec   string
	logger *zap.Logger
	now    func() time.Time
}

// Name 返回任务名称
func (t *LinkSweepTask) Name() string {
	return "LinkSweep"
}

// Spec cron 表达式
func (t *LinkSweepTask) Spec() string {
	return t.spec
}

// LoopInterval 由 Spec 决定
func (t *LinkSweepTask) LoopInterval() time.Duration {
	return 0
}

// IsStartupRun 是否立即执行一次
func (t *LinkSweepTask) IsStartupRun() bool {
	return true
}

// Run 执行清理
func (t *LinkSweepTask) Run(ctx context.Context) error {
	n, err := t.repo.RetireExpired(ctx, "", t.now())
	if err != nil {
		return domain.NewStorageError("share_link.retire_expired", err)
	}
	if n > 0 {
		t.logger.Info("task log",
			zap.String("task", t.Name()),
			zap.Int64("retired", n),
			logger.TraceFromContext(ctx))
	}
	return nil
}

// NewLinkSweepTask 创建过期链接清理任务，spec 为空时不启用
func NewLinkSweepTask(repo domain.ShareLinkRepository, spec string, lg *zap.Logger) *LinkSweepTask {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}
	return &LinkSweepTask{repo: repo, spec: spec, logger: lg, now: time.Now}
}

func init() {
	Register(func(a *app.App) (Task, error) {
		spec := a.Config().Share.SweepCron
		if strings.TrimSpace(spec) == "" {
			return nil, nil
		}
		if _, err := ParseSpec(spec); err != nil {
			return nil, err
		}
		return NewLinkSweepTask(a.ShareLinkRepo, spec, a.Logger()), nil
	})
}
