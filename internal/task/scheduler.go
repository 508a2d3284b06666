package task

import (
	"context"
	"time"

	"github.com/haierkeys/objective-share-service/pkg/safe_close"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task 定义任务接口
type Task interface {
	Name() string                  // 任务名称
	Run(ctx context.Context) error // 执行任务
	LoopInterval() time.Duration   // 执行间隔，<=0 且未实现 CronTask 时只执行一次
	IsStartupRun() bool            // 是否立即执行一次
}

// CronTask 按 cron 表达式调度的任务，优先于 LoopInterval
// Spec accepts five-field expressions and descriptors such as "@every 10m" or "@hourly".
type CronTask interface {
	Task
	Spec() string
}

// cronParser 与 cron 标准五段式一致，额外支持 @every / @daily 等描述符
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSpec 解析 cron 表达式
func ParseSpec(spec string) (cron.Schedule, error) {
	return cronParser.Parse(spec)
}

// Scheduler 任务调度器
type Scheduler struct {
	logger *zap.Logger
	tasks  []Task
	sc     *safe_close.SafeClose
	// track 可选，用于让应用关闭时等待正在执行的任务
	track func() func()
}

// NewScheduler 创建任务调度器
func NewScheduler(logger *zap.Logger, sc *safe_close.SafeClose) *Scheduler {
	return &Scheduler{
		logger: logger,
		tasks:  make([]Task, 0),
		sc:     sc,
	}
}

// WithTracker 设置执行跟踪函数
func (s *Scheduler) WithTracker(track func() func()) *Scheduler {
	s.track = track
	return s
}

// AddTask 添加任务
func (s *Scheduler) AddTask(task Task) {
	s.tasks = append(s.tasks, task)
}

// Tasks 已注册的任务
func (s *Scheduler) Tasks() []Task {
	return s.tasks
}

// Start 启动所有任务
func (s *Scheduler) Start() {
	if len(s.tasks) == 0 {
		s.logger.Info("no tasks to schedule")
		return
	}

	s.logger.Info("tasks starting ", zap.Int("count", len(s.tasks)))

	for _, task := range s.tasks {
		s.startTask(task)
	}
}

// startTask 启动单个任务
func (s *Scheduler) startTask(task Task) {
	var schedule cron.Schedule
	if ct, ok := task.(CronTask); ok {
		sched, err := ParseSpec(ct.Spec())
		if err != nil {
			s.logger.Error("task cron spec invalid, task disabled",
				zap.String("name", task.Name()),
				zap.String("spec", ct.Spec()),
				zap.Error(err))
			return
		}
		schedule = sched
	} else if task.LoopInterval() > 0 {
		schedule = cron.Every(task.LoopInterval())
	}

	s.sc.Attach(func(done func(), closeSignal <-chan struct{}) {
		defer done()

		// 如果任务需要立即执行
		if task.IsStartupRun() {
			s.logger.Info("task running", zap.String("name", task.Name()), zap.Bool("startupRun", true))
			go s.runOnce(task, "startupRun")
		}

		if schedule == nil {
			return
		}

		timer := time.NewTimer(time.Until(schedule.Next(time.Now())))
		defer timer.Stop()

		// 定时执行
		for {
			select {
			case <-timer.C:
				s.logger.Debug("task running", zap.String("name", task.Name()), zap.Bool("loopRun", true))
				s.runOnce(task, "loopRun")
				timer.Reset(time.Until(schedule.Next(time.Now())))
			case <-closeSignal:
				s.logger.Info("task stopped", zap.String("name", task.Name()), zap.Bool("loopRun", true))
				return
			}
		}
	})
}

// runOnce 执行一次任务，panic 只记录不扩散
func (s *Scheduler) runOnce(task Task, mode string) {
	if s.track != nil {
		finish := s.track()
		defer finish()
	}
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task "+mode+" panic",
				zap.String("name", task.Name()),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	if err := task.Run(context.Background()); err != nil {
		s.logger.Error("task running error",
			zap.String("name", task.Name()),
			zap.Bool(mode, true),
			zap.Error(err))
	}
}
