package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	renderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "folio",
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "按版式统计的渲染耗时（秒）。",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
		[]string{"layout"},
	)

	aiTransforms = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "folio",
			Subsystem: "ai",
			Name:      "transforms_total",
			Help:      "AI 文本变换次数，按操作与结果分类。",
		},
		[]string{"operation", "outcome"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "folio",
			Subsystem: "editor",
			Name:      "active_sessions",
			Help:      "当前存活的编辑会话数量。",
		},
	)
)

// ObserveRender 记录一次渲染，签名与 render.Observer 一致。
func ObserveRender(layout string, elapsed time.Duration) {
	renderDuration.WithLabelValues(layout).Observe(elapsed.Seconds())
}

// ObserveAI 记录一次 AI 调用结果。
func ObserveAI(operation, outcome string) {
	aiTransforms.WithLabelValues(operation, outcome).Inc()
}

// SetActiveSessions 更新会话数量。
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}
