// Package metrics chứa các Prometheus collector của ứng dụng.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Kết quả xử lý vote
const (
	ResultCreated      = "created"
	ResultFlipped      = "flipped"
	ResultRemoved      = "removed"
	ResultNoop         = "noop"
	ResultAlreadyVoted = "already_voted"
	ResultRejected     = "rejected"
	ResultError        = "error"
)

type Metrics struct {
	VotesProcessed       *prometheus.CounterVec
	VoteDuration         *prometheus.HistogramVec
	CacheRequests        *prometheus.CounterVec
	BreakerStateChanges  *prometheus.CounterVec
	AggregateCorrections prometheus.Counter
}

// New tạo và đăng ký toàn bộ collector vào reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VotesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "courtfinder",
				Name:      "votes_processed_total",
				Help:      "Vote operations by result",
			},
			[]string{"result"},
		),
		VoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "courtfinder",
				Name:      "vote_processing_duration_seconds",
				Help:      "Time spent processing a vote, including lock wait",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"operation"},
		),
		CacheRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "courtfinder",
				Name:      "rating_cache_requests_total",
				Help:      "Court rating cache lookups by result (hit, miss, error)",
			},
			[]string{"result"},
		),
		BreakerStateChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "courtfinder",
				Name:      "circuit_breaker_state_changes_total",
				Help:      "Circuit breaker transitions by breaker and new state",
			},
			[]string{"breaker", "state"},
		),
		AggregateCorrections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "courtfinder",
				Name:      "aggregate_corrections_total",
				Help:      "Rows corrected by the reconciliation job",
			},
		),
	}
	reg.MustRegister(m.VotesProcessed, m.VoteDuration, m.CacheRequests, m.BreakerStateChanges, m.AggregateCorrections)
	return m
}

// NewRegistry tạo registry riêng kèm collector của Go runtime và process
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveVote ghi nhận một thao tác vote. An toàn khi m là nil.
func (m *Metrics) ObserveVote(operation, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.VotesProcessed.WithLabelValues(result).Inc()
	m.VoteDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveBreaker(name, state string) {
	if m == nil {
		return
	}
	m.BreakerStateChanges.WithLabelValues(name, state).Inc()
}

func (m *Metrics) AddCorrections(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.AggregateCorrections.Add(float64(n))
}
