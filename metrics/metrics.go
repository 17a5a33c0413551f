// Package metrics exports resource.Stack lifecycle events as Prometheus
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wippyai/scope/resource"
)

// Observer counts stack events. Subscribe it to one or more stacks.
type Observer struct {
	events   *prometheus.CounterVec
	live     prometheus.Gauge
	failures *prometheus.CounterVec
}

// New registers the metrics with reg and returns an observer feeding them.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scope_guard_events_total",
				Help: "Total number of guard lifecycle events by type",
			},
			[]string{"type"},
		),
		live: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "scope_guards_live",
				Help: "Number of guards currently owned by stacks",
			},
		),
		failures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scope_guard_cleanup_failures_total",
				Help: "Total number of deleters that returned an error, by label",
			},
			[]string{"label"},
		),
	}
}

// Live returns the gauge of guards currently owned by stacks.
func (o *Observer) Live() prometheus.Gauge {
	return o.live
}

// OnResourceEvent implements resource.Observer.
func (o *Observer) OnResourceEvent(e resource.Event) {
	o.events.WithLabelValues(e.Type.String()).Inc()

	switch e.Type {
	case resource.EventPushed:
		o.live.Inc()
	case resource.EventDropped, resource.EventDetached:
		o.live.Dec()
	case resource.EventFailed:
		o.live.Dec()
		o.failures.WithLabelValues(e.Label).Inc()
	}
}

var _ resource.Observer = (*Observer)(nil)
