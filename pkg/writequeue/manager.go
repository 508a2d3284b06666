// Package writequeue 按资源串行化写操作
// Writes sharing a key run one at a time in FIFO order; different keys run in parallel.
// SQLite 下同一资源的并发写会触发 "database is locked"，同时也让同一资源的链接签发按顺序落库
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 单个 key 的写队列已满
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 写队列管理器已关闭
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 等待写操作结果超时
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity 每个 key 的队列容量，默认 100
	QueueCapacity int
	// WriteTimeout 写操作超时时间，默认 30 秒
	WriteTimeout time.Duration
	// IdleTimeout 空闲队列回收时间，默认 10 分钟
	IdleTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

type keyQueue struct {
	key      string
	ch       chan writeOp
	pending  int // 正在 Execute 中的调用数，受 Manager.mu 保护
	lastUsed time.Time
	stopCh   chan struct{}
	done     chan struct{}
}

// Manager 管理所有 key 的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[string]*keyQueue
	closed bool

	ctx    context.Context
	cancel context.CancelFunc

	cleanupDone chan struct{}
	cleanupWg   sync.WaitGroup
}

// New 创建写队列管理器，cfg 为 nil 时使用默认配置
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		config:      c,
		logger:      logger,
		queues:      make(map[string]*keyQueue),
		ctx:         ctx,
		cancel:      cancel,
		cleanupDone: make(chan struct{}),
	}

	m.cleanupWg.Add(1)
	go m.cleanupLoop()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))
	return m
}

// Execute 将写操作放入 key 对应的队列并等待结果
func (m *Manager) Execute(ctx context.Context, key string, fn func() error) error {
	q, err := m.acquire(key)
	if err != nil {
		return err
	}
	defer m.release(q)

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}
	select {
	case q.ch <- op:
	default:
		return ErrWriteQueueFull
	}

	timer := time.NewTimer(m.config.WriteTimeout)
	defer timer.Stop()

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteTimeout
	case <-m.ctx.Done():
		return ErrWriteQueueClosed
	}
}

func (m *Manager) acquire(key string) (*keyQueue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrWriteQueueClosed
	}

	q, ok := m.queues[key]
	if !ok {
		q = &keyQueue{
			key:    key,
			ch:     make(chan writeOp, m.config.QueueCapacity),
			stopCh: make(chan struct{}),
			done:   make(chan struct{}),
		}
		m.queues[key] = q
		go m.worker(q)
		m.logger.Debug("created write queue", zap.String("key", key))
	}
	q.pending++
	q.lastUsed = time.Now()
	return q, nil
}

func (m *Manager) release(q *keyQueue) {
	m.mu.Lock()
	q.pending--
	q.lastUsed = time.Now()
	m.mu.Unlock()
}

func (m *Manager) worker(q *keyQueue) {
	defer close(q.done)
	for {
		select {
		case op := <-q.ch:
			m.run(op)
		case <-q.stopCh:
			for {
				select {
				case op := <-q.ch:
					m.run(op)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) run(op writeOp) {
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	op.result <- m.call(op.fn)
}

func (m *Manager) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("write panic: %v", r)
			m.logger.Error("write queue panic recovered", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	return fn()
}

func (m *Manager) cleanupLoop() {
	defer m.cleanupWg.Done()

	ticker := time.NewTicker(m.config.IdleTimeout / 2)
	defer ticker.Stop()
	for {
		select {
		case <-m.cleanupDone:
			return
		case <-ticker.C:
			m.cleanupIdle(time.Now())
		}
	}
}

// cleanupIdle 回收空闲队列：没有进行中的调用、队列为空并且超过 IdleTimeout 未使用
func (m *Manager) cleanupIdle(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, q := range m.queues {
		if q.pending == 0 && len(q.ch) == 0 && now.Sub(q.lastUsed) > m.config.IdleTimeout {
			close(q.stopCh)
			delete(m.queues, key)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("cleaned up idle write queues", zap.Int("count", removed))
	}
	return removed
}

// Shutdown 停止接收写操作，执行完队列中剩余的操作
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	queues := make([]*keyQueue, 0, len(m.queues))
	for _, q := range m.queues {
		close(q.stopCh)
		queues = append(queues, q)
	}
	m.queues = map[string]*keyQueue{}
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down", zap.Int("queues", len(queues)))
	close(m.cleanupDone)

	done := make(chan struct{})
	go func() {
		for _, q := range queues {
			<-q.done
		}
		m.cleanupWg.Wait()
		close(done)
	}()

	defer m.cancel()
	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}

// Metrics 写队列指标
type Metrics struct {
	QueueCapacity int
	ActiveQueues  int
	QueuedOps     int
	IsClosed      bool
}

func (m *Manager) GetMetrics() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	queued := 0
	for _, q := range m.queues {
		queued += len(q.ch)
	}
	return Metrics{
		QueueCapacity: m.config.QueueCapacity,
		ActiveQueues:  len(m.queues),
		QueuedOps:     queued,
		IsClosed:      m.closed,
	}
}
