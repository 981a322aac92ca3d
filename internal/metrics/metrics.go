// Package metrics provides the centralized Prometheus metrics registry for race-ev.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "race_ev"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EventsScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_scored_total",
		Help:      "Total number of events scored",
	})
	DegenerateEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "degenerate_events_total",
		Help:      "Total number of events scored with an empty field",
	})
	ScoringFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_failures_total",
		Help:      "Total number of events that failed to score",
	})
	ParticipantClassificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "participant_classifications_total",
		Help:      "Total number of participants by classification",
	}, []string{"classification"})
	WagersSynthesizedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wagers_synthesized_total",
		Help:      "Total number of wagers synthesized by strategy and bet type",
	}, []string{"strategy", "bet_type"})
	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Evaluation cache lookups by result",
	}, []string{"result"})
	SinkWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sink_writes_total",
		Help:      "Result sink writes by sink and status",
	}, []string{"sink", "status"})
)

// Gauge metrics
var (
	LastBatchSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_batch_size",
		Help:      "Number of events in the most recent batch",
	})
	LastBatchTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_batch_timestamp_seconds",
		Help:      "Unix time the most recent batch completed",
	})
)

// Histogram metrics
var (
	ScoringDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scoring_duration_seconds",
		Help:      "Duration of a single event evaluation in seconds",
		Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "batch_duration_seconds",
		Help:      "Duration of batch scoring runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EventsScoredTotal)
		registry.MustRegister(DegenerateEventsTotal)
		registry.MustRegister(ScoringFailuresTotal)
		registry.MustRegister(ParticipantClassificationsTotal)
		registry.MustRegister(WagersSynthesizedTotal)
		registry.MustRegister(CacheLookupsTotal)
		registry.MustRegister(SinkWritesTotal)

		registry.MustRegister(LastBatchSize)
		registry.MustRegister(LastBatchTimestamp)

		registry.MustRegister(ScoringDuration)
		registry.MustRegister(BatchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEventScored records a scored event and its evaluation time.
func RecordEventScored(durationSeconds float64) {
	EventsScoredTotal.Inc()
	ScoringDuration.Observe(durationSeconds)
}

// RecordDegenerateEvent records an event with no participants.
func RecordDegenerateEvent() {
	DegenerateEventsTotal.Inc()
}

// RecordScoringFailure records an event that could not be scored.
func RecordScoringFailure() {
	ScoringFailuresTotal.Inc()
}

// RecordClassification records one participant classification.
func RecordClassification(classification string, count int) {
	ParticipantClassificationsTotal.WithLabelValues(classification).Add(float64(count))
}

// RecordWager records a synthesized wager.
func RecordWager(strategy, betType string) {
	WagersSynthesizedTotal.WithLabelValues(strategy, betType).Inc()
}

// RecordCacheLookup records an evaluation cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordSinkWrite records a result sink write.
func RecordSinkWrite(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SinkWritesTotal.WithLabelValues(sink, status).Inc()
}

// RecordBatch records a completed batch.
func RecordBatch(events int, durationSeconds float64, completedAt float64) {
	LastBatchSize.Set(float64(events))
	LastBatchTimestamp.Set(completedAt)
	BatchDuration.Observe(durationSeconds)
}
