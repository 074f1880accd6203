package observability

import (
	"context"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records traversal activity as Prometheus collectors.
type Metrics struct {
	nodeDispatch       *prometheus.CounterVec
	nodeSettlement     *prometheus.CounterVec
	invocationDuration *prometheus.HistogramVec
	invocationErrors   prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		nodeDispatch: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_dispatch_total",
				Help: "Nodes reached by the traversal, by outcome (entered or skipped).",
			},
			[]string{"node", "outcome"},
		),
		nodeSettlement: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arbor_node_settlement_total",
				Help: "Settlements of asynchronous nodes.",
			},
			[]string{"node", "settlement"},
		),
		invocationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arbor_invocation_duration_seconds",
				Help:    "Duration of invocations until their result is known.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		invocationErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "arbor_invocation_errors_total",
				Help: "Invocations that ended with a raised error or a rejected result.",
			},
		),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.nodeDispatch, m.nodeSettlement, m.invocationDuration, m.invocationErrors} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeDispatch.WithLabelValues(e.Node, "entered").Inc()
		},
		OnNodeSkip: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeDispatch.WithLabelValues(e.Node, "skipped").Inc()
		},
		OnNodeSettle: func(ctx context.Context, e *domain.NodeEvent) {
			m.nodeSettlement.WithLabelValues(e.Node, string(e.Settlement)).Inc()
		},
		OnInvokeEnd: func(ctx context.Context, e *domain.InvocationEvent) {
			mode := "immediate"
			if e.Deferred {
				mode = "deferred"
			}
			m.invocationDuration.WithLabelValues(mode).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.invocationErrors.Inc()
			}
		},
	}
}
