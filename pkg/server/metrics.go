package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records what the API server observes
type Metrics interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncChecksTotal(outcome string)
	AddAchievementsUnlocked(count int)
}

type promMetrics struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	checksTotal          *prometheus.CounterVec
	achievementsUnlocked prometheus.Counter
}

// NewMetrics creates a prometheus-backed Metrics on the given registerer
func NewMetrics(reg prometheus.Registerer) Metrics {
	factory := promauto.With(reg)
	return &promMetrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_requests_total",
			Help: "API requests by endpoint and status class",
		}, []string{"endpoint", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "engage_request_duration_seconds",
			Help:    "API request duration by endpoint",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		checksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "engage_checks_total",
			Help: "Engagement checks by outcome",
		}, []string{"outcome"}),
		achievementsUnlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "engage_achievements_unlocked_total",
			Help: "Achievements unlocked through the API",
		}),
	}
}

func (m *promMetrics) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *promMetrics) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *promMetrics) IncChecksTotal(outcome string) {
	m.checksTotal.WithLabelValues(outcome).Inc()
}

func (m *promMetrics) AddAchievementsUnlocked(count int) {
	m.achievementsUnlocked.Add(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// noopMetrics is used when metrics are disabled
type noopMetrics struct{}

func (noopMetrics) IncRequestsTotal(string, int)                 {}
func (noopMetrics) ObserveRequestDuration(string, time.Duration) {}
func (noopMetrics) IncChecksTotal(string)                        {}
func (noopMetrics) AddAchievementsUnlocked(int)                  {}
