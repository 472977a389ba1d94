package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 任务结果标签。skipped 表示处理器放弃重试（asynq.SkipRetry），通常是载荷无效。
const (
	outcomeOK      = "ok"
	outcomeRetry   = "retry"
	outcomeSkipped = "skipped"
)

var (
	taskOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Subsystem: "worker",
			Name:      "tasks_total",
			Help:      "按任务类型与结果统计的任务数。",
		},
		[]string{"task_type", "outcome"},
	)

	taskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folio",
			Subsystem: "worker",
			Name:      "task_duration_seconds",
			Help:      "任务耗时分布（秒），打印任务包含浏览器启动与出稿。",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 9),
		},
		[]string{"task_type", "outcome"},
	)

	taskInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "folio",
			Subsystem: "worker",
			Name:      "tasks_in_progress",
			Help:      "正在执行的任务数量。",
		},
		[]string{"task_type"},
	)
)

func taskOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, asynq.SkipRetry):
		return outcomeSkipped
	default:
		return outcomeRetry
	}
}

// AsynqMetricsMiddleware 为每个任务记录结果、耗时与并发数。
func AsynqMetricsMiddleware() asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, task *asynq.Task) error {
			inProgress := taskInProgress.WithLabelValues(task.Type())
			inProgress.Inc()
			defer inProgress.Dec()

			start := time.Now()
			err := next.ProcessTask(ctx, task)

			outcome := taskOutcome(err)
			taskDuration.WithLabelValues(task.Type(), outcome).Observe(time.Since(start).Seconds())
			taskOutcomes.WithLabelValues(task.Type(), outcome).Inc()
			return err
		})
	}
}
