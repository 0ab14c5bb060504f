// Package metrics holds the prometheus collectors for upstream traffic and
// ingestion outcomes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

const namespace = "tracker"

type Metrics struct {
	upstreamRequests  *prometheus.CounterVec
	upstreamThrottled prometheus.Counter
	limiterWait       prometheus.Histogram
	ingestions        *prometheus.CounterVec
	matchesSkipped    *prometheus.CounterVec
	ingestionDuration prometheus.Histogram
}

// New registers every collector on reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream API calls by endpoint and final status code (0 = transport error)",
		}, []string{"endpoint", "status"}),
		upstreamThrottled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_rate_limited_total",
			Help:      "Upstream responses with status 429",
		}),
		limiterWait: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rate_limiter_wait_seconds",
			Help:      "Time callers spent waiting on the request pacing gate",
			Buckets:   []float64{0, 0.05, 0.1, 0.25, 0.5, 0.75, 1, 2, 5},
		}),
		ingestions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Ingestion runs by terminal reason",
		}, []string{"reason"}),
		matchesSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_skipped_total",
			Help:      "Matches dropped from a sample by reason",
		}, []string{"reason"}),
		ingestionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Wall-clock duration of ingestion runs",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
}

func NewDefault() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) ObserveRequest(endpoint string, status int) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveThrottled() {
	if m == nil {
		return
	}
	m.upstreamThrottled.Inc()
}

func (m *Metrics) ObserveLimiterWait(d time.Duration) {
	if m == nil {
		return
	}
	m.limiterWait.Observe(d.Seconds())
}

func (m *Metrics) ObserveIngestion(reason string, d time.Duration) {
	if m == nil {
		return
	}
	m.ingestions.WithLabelValues(reason).Inc()
	m.ingestionDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveSkippedMatch(reason string) {
	if m == nil {
		return
	}
	m.matchesSkipped.WithLabelValues(reason).Inc()
}

var Module = fx.Provide(NewDefault)
