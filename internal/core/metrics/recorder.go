package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-aware/pkg/interfaces"
	"github.com/dep2p/go-aware/pkg/types"
)

// DefaultNamespace 默认指标命名空间
const DefaultNamespace = "aware"

// 确保实现了接口
var _ interfaces.SessionMetrics = (*Recorder)(nil)

// Recorder 基于 prometheus 的会话指标
type Recorder struct {
	registry *prometheus.Registry

	sessionsActive       prometheus.Gauge
	sessionsCreated      *prometheus.CounterVec
	peersAllocated       prometheus.Counter
	matches              *prometheus.CounterVec
	matchExpired         prometheus.Counter
	messagesReceived     prometheus.Counter
	commandFailures      *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
}

// NewRecorder 创建 Recorder 并注册全部指标
func NewRecorder(namespace string) (*Recorder, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Number of discovery sessions that have not been terminated.",
		}),
		sessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Discovery sessions created, by mode.",
		}, []string{"mode"}),
		peersAllocated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "peers_allocated_total",
			Help:      "Opaque peer ids allocated.",
		}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Match events delivered, by kind (plain or ranged).",
		}, []string{"kind"}),
		matchExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_expired_total",
			Help:      "Match expiry events that removed a peer.",
		}),
		messagesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_received_total",
			Help:      "Messages received from peers.",
		}),
		commandFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "command_failures_total",
			Help:      "Client commands that failed, by reason.",
		}, []string{"reason"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Client notifications that could not be delivered, by callback.",
		}, []string{"op"}),
	}

	collectors := []prometheus.Collector{
		r.sessionsActive,
		r.sessionsCreated,
		r.peersAllocated,
		r.matches,
		r.matchExpired,
		r.messagesReceived,
		r.commandFailures,
		r.notificationFailures,
	}
	for _, c := range collectors {
		if err := r.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Registry 返回内部注册表
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler 返回 /metrics HTTP 处理器
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// SessionCreated 实现 SessionMetrics
func (r *Recorder) SessionCreated(mode types.Mode) {
	r.sessionsCreated.WithLabelValues(mode.String()).Inc()
	r.sessionsActive.Inc()
}

// SessionTerminated 实现 SessionMetrics
func (r *Recorder) SessionTerminated(_ types.Mode) {
	r.sessionsActive.Dec()
}

// PeerAllocated 实现 SessionMetrics
func (r *Recorder) PeerAllocated() {
	r.peersAllocated.Inc()
}

// Matched 实现 SessionMetrics
func (r *Recorder) Matched(kind string) {
	r.matches.WithLabelValues(kind).Inc()
}

// MatchExpired 实现 SessionMetrics
func (r *Recorder) MatchExpired() {
	r.matchExpired.Inc()
}

// MessageReceived 实现 SessionMetrics
func (r *Recorder) MessageReceived() {
	r.messagesReceived.Inc()
}

// CommandFailed 实现 SessionMetrics
func (r *Recorder) CommandFailed(reason string) {
	r.commandFailures.WithLabelValues(reason).Inc()
}

// NotificationFailed 实现 SessionMetrics
func (r *Recorder) NotificationFailed(op string) {
	r.notificationFailures.WithLabelValues(op).Inc()
}
