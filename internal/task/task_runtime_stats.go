package task

import (
	"context"
	"time"

	"github.com/haierkeys/objective-share-service/internal/app"
	"github.com/haierkeys/objective-share-service/pkg/workerpool"
	"github.com/haierkeys/objective-share-service/pkg/writequeue"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	workerPoolGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "objective_share",
		Subsystem: "workerpool",
		Name:      "state",
		Help:      "Worker pool state: max_workers, active, queued, queue_capacity, failed.",
	}, []string{"metric"})

	writeQueueGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "objective_share",
		Subsystem: "writequeue",
		Name:      "state",
		Help:      "Write queue state: capacity, active_queues, queued_ops.",
	}, []string{"metric"})
)

// RuntimeStatsTask 定期把工作池与写队列状态发布到 Prometheus
type RuntimeStatsTask struct {
	pool  func() workerpool.Metrics
	queue func() writequeue.Metrics
}

// Name 返回任务名称
func (t *RuntimeStatsTask) Name() string {
	return "RuntimeStats"
}

// LoopInterval 返回执行间隔
func (t *RuntimeStatsTask) LoopInterval() time.Duration {
	return time.Minute
}

// IsStartupRun 是否立即执行一次
func (t *RuntimeStatsTask) IsStartupRun() bool {
	return true
}

// Run 采集一次
func (t *RuntimeStatsTask) Run(ctx context.Context) error {
	if t.pool != nil {
		m := t.pool()
		workerPoolGauge.WithLabelValues("max_workers").Set(float64(m.MaxWorkers))
		workerPoolGauge.WithLabelValues("active").Set(float64(m.ActiveCount))
		workerPoolGauge.WithLabelValues("queued").Set(float64(m.QueuedCount))
		workerPoolGauge.WithLabelValues("queue_capacity").Set(float64(m.QueueCapacity))
		workerPoolGauge.WithLabelValues("failed").Set(float64(m.FailedCount))
	}
	if t.queue != nil {
		m := t.queue()
		writeQueueGauge.WithLabelValues("capacity").Set(float64(m.QueueCapacity))
		writeQueueGauge.WithLabelValues("active_queues").Set(float64(m.ActiveQueues))
		writeQueueGauge.WithLabelValues("queued_ops").Set(float64(m.QueuedOps))
	}
	return nil
}

// NewRuntimeStatsTask 创建运行状态采集任务
func NewRuntimeStatsTask(pool func() workerpool.Metrics, queue func() writequeue.Metrics) *RuntimeStatsTask {
	return &RuntimeStatsTask{pool: pool, queue: queue}
}

func init() {
	Register(func(a *app.App) (Task, error) {
		t := &RuntimeStatsTask{}
		if p := a.WorkerPool(); p != nil {
			t.pool = p.GetMetrics
		}
		if q := a.WriteQueueManager(); q != nil {
			t.queue = q.GetMetrics
		}
		return t, nil
	})
}
