package metrics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const jobName = "paperless_date_normalizer"

type RunMetrics struct {
	registry *prometheus.Registry

	runsTotal       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	requestDuration *prometheus.HistogramVec
}

func NewRunMetrics() *RunMetrics {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "paperless",
			Subsystem: "normalizer",
			Name:      "runs_total",
			Help:      "Total normalizer runs by outcome.",
		},
		[]string{"outcome"},
	)
	runDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "paperless",
			Subsystem: "normalizer",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a normalizer run.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "paperless",
			Subsystem: "normalizer",
			Name:      "http_request_duration_seconds",
			Help:      "Paperless API request duration by operation and status code.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	registry.MustRegister(runsTotal, runDuration, requestDuration)

	return &RunMetrics{
		registry:        registry,
		runsTotal:       runsTotal,
		runDuration:     runDuration,
		requestDuration: requestDuration,
	}
}

// ObserveRequest matches paperless.RequestObserver. A zero status means the
// request failed before a response arrived.
func (m *RunMetrics) ObserveRequest(operation string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestDuration.WithLabelValues(operation, label).Observe(duration.Seconds())
}

func (m *RunMetrics) FinishRun(outcome string, duration time.Duration) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
}

// Push sends the registry to a Pushgateway, grouped by document id.
func (m *RunMetrics) Push(ctx context.Context, gatewayURL string, documentID int) error {
	err := push.New(gatewayURL, jobName).
		Gatherer(m.registry).
		Grouping("document_id", strconv.Itoa(documentID)).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
