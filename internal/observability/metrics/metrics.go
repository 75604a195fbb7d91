// Package metrics exposes Prometheus instrumentation for the simulation
// engine. All observe methods are nil-safe so call sites never need guards.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// EngineMetrics covers the booking, session, and claims pipelines.
type EngineMetrics struct {
	sessionsBooked    *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionsCancelled *prometheus.CounterVec
	sessionQuality    prometheus.Histogram
	claimsResolved    *prometheus.CounterVec
	clientsDropped    prometheus.Counter
	ticksTotal        *prometheus.CounterVec
	balance           prometheus.Gauge
}

func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	m := &EngineMetrics{
		sessionsBooked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "sessions_booked_total",
			Help:      "Total sessions booked",
		}, []string{"modality", "recurring"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "sessions_completed_total",
			Help:      "Total sessions completed",
		}, []string{"progress_type"}),
		sessionsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "sessions_cancelled_total",
			Help:      "Total sessions cancelled",
		}, []string{"reason"}),
		sessionQuality: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "session_quality",
			Help:      "Final quality of completed sessions",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		claimsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tycoon",
			Subsystem: "insurance",
			Name:      "claims_resolved_total",
			Help:      "Claims resolved by outcome",
		}, []string{"outcome"}),
		clientsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "clients_dropped_total",
			Help:      "Clients lost to waiting-list attrition or dropout",
		}),
		ticksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "ticks_total",
			Help:      "Simulation ticks processed",
		}, []string{"unit"}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tycoon",
			Subsystem: "engine",
			Name:      "balance",
			Help:      "Current practice balance",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		m.sessionsBooked, m.sessionsCompleted, m.sessionsCancelled,
		m.sessionQuality, m.claimsResolved, m.clientsDropped,
		m.ticksTotal, m.balance,
	)
	return m
}

func (m *EngineMetrics) ObserveBooking(isVirtual, recurring bool) {
	if m == nil {
		return
	}
	m.sessionsBooked.WithLabelValues(modalityLabel(isVirtual), boolLabel(recurring)).Inc()
}

func (m *EngineMetrics) ObserveCompletion(progressType string, quality float64) {
	if m == nil {
		return
	}
	m.sessionsCompleted.WithLabelValues(progressType).Inc()
	m.sessionQuality.Observe(quality)
}

func (m *EngineMetrics) ObserveCancellation(reason string) {
	if m == nil {
		return
	}
	m.sessionsCancelled.WithLabelValues(reason).Inc()
}

func (m *EngineMetrics) ObserveClaim(outcome string) {
	if m == nil {
		return
	}
	m.claimsResolved.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveClientDropped() {
	if m == nil {
		return
	}
	m.clientsDropped.Inc()
}

func (m *EngineMetrics) ObserveTick(unit string) {
	if m == nil {
		return
	}
	m.ticksTotal.WithLabelValues(unit).Inc()
}

func (m *EngineMetrics) SetBalance(balance int) {
	if m == nil {
		return
	}
	m.balance.Set(float64(balance))
}

func modalityLabel(isVirtual bool) string {
	if isVirtual {
		return "virtual"
	}
	return "in_person"
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
