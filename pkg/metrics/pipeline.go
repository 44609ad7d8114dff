package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AlertPipelineMetrics records the outcome of each item evaluated by the
// low-stock pipeline.
type AlertPipelineMetrics struct {
	emitted    prometheus.Counter
	suppressed prometheus.Counter
	raceNoOps  prometheus.Counter
	itemErrors prometheus.Counter
}

// NewAlertPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewAlertPipelineMetrics(reg prometheus.Registerer) *AlertPipelineMetrics {
	if reg == nil {
		return &AlertPipelineMetrics{}
	}
	emitted := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medstock",
		Name:      "alerts_emitted_total",
		Help:      "Alerts inserted and queued for delivery.",
	})
	suppressed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medstock",
		Name:      "alerts_suppressed_total",
		Help:      "Breached items skipped because a recent alert already exists.",
	})
	raceNoOps := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medstock",
		Name:      "alerts_race_noops_total",
		Help:      "Alert inserts lost to a concurrent run for the same item and window.",
	})
	itemErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "medstock",
		Name:      "alert_item_errors_total",
		Help:      "Items whose alert step failed and was isolated from the run.",
	})
	reg.MustRegister(emitted, suppressed, raceNoOps, itemErrors)
	return &AlertPipelineMetrics{
		emitted:    emitted,
		suppressed: suppressed,
		raceNoOps:  raceNoOps,
		itemErrors: itemErrors,
	}
}

// IncEmitted increments the emitted alert counter.
func (m *AlertPipelineMetrics) IncEmitted() {
	if m == nil || m.emitted == nil {
		return
	}
	m.emitted.Inc()
}

// IncSuppressed increments the suppressed counter.
func (m *AlertPipelineMetrics) IncSuppressed() {
	if m == nil || m.suppressed == nil {
		return
	}
	m.suppressed.Inc()
}

// IncRaceNoOp increments the lost-race counter.
func (m *AlertPipelineMetrics) IncRaceNoOp() {
	if m == nil || m.raceNoOps == nil {
		return
	}
	m.raceNoOps.Inc()
}

// IncItemError increments the per-item failure counter.
func (m *AlertPipelineMetrics) IncItemError() {
	if m == nil || m.itemErrors == nil {
		return
	}
	m.itemErrors.Inc()
}
