package task

import (
	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/pkg/safe_close"

	"go.uber.org/zap"
)

// Manager 任务管理器,负责创建和管理所有任务
type Manager struct {
	scheduler *Scheduler
	logger    *zap.Logger
	app       *app.App
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger, sc *safe_close.SafeClose, a *app.App) *Manager {
	return &Manager{
		scheduler: NewScheduler(logger, sc).WithTracker(a.TrackOperation),
		logger:    logger,
		app:       a,
	}
}

// RegisterTasks 注册所有任务
// 单个任务创建失败只跳过该任务
func (m *Manager) RegisterTasks() error {
	for _, factory := range GetFactories() {
		t, err := factory(m.app)
		if err != nil {
			m.logger.Warn("failed to create task", zap.Error(err))
			continue
		}
		if t == nil {
			continue
		}
		m.scheduler.AddTask(t)
	}
	return nil
}

// Start 启动所有已注册的任务
func (m *Manager) Start() {
	m.scheduler.Start()
}

// Scheduler 返回调度器
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}
