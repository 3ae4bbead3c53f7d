package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	FetchRequests   *prometheus.CounterVec // labels: source, outcome={success,error}
	RecordsParsed   *prometheus.CounterVec // labels: source
	DuplicatesDropped prometheus.Counter
	RecordsFiltered prometheus.Counter
	FeaturesEmitted prometheus.Counter
	PublishErrors   prometheus.Counter

	RunDuration     prometheus.Histogram
	RunsTotal       *prometheus.CounterVec // labels: outcome={success,error}
	PipelineRunning prometheus.Gauge
	LastRunUnixTime prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "fetch_requests_total",
			Help:      "Upstream fetch attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		RecordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "records_parsed_total",
			Help:      "Detections parsed per source before deduplication.",
		}, []string{"source"}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "duplicates_dropped_total",
			Help:      "Records discarded because another source already reported the same fingerprint.",
		}),
		RecordsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "records_filtered_total",
			Help:      "Unique records dropped by the confidence/FRP threshold filters.",
		}),
		FeaturesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "features_emitted_total",
			Help:      "Point features submitted to the feed sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "publish_errors_total",
			Help:      "Failed submissions to the feed sink.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fire_feed",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-parse-dedupe-publish run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fire_feed",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_feed",
			Name:      "pipeline_running",
			Help:      "1 while a run is in progress, 0 otherwise.",
		}),
		LastRunUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "fire_feed",
			Name:      "last_run_unix_time",
			Help:      "Unix timestamp of the last completed run.",
		}),
	}

	prometheus.MustRegister(
		m.FetchRequests,
		m.RecordsParsed,
		m.DuplicatesDropped,
		m.RecordsFiltered,
		m.FeaturesEmitted,
		m.PublishErrors,
		m.RunDuration,
		m.RunsTotal,
		m.PipelineRunning,
		m.LastRunUnixTime,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_feed", Name: "fetch_requests_total"}, []string{"source", "outcome"}),
		RecordsParsed:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_feed", Name: "records_parsed_total"}, []string{"source"}),
		DuplicatesDropped: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_feed", Name: "duplicates_dropped_total"}),
		RecordsFiltered:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_feed", Name: "records_filtered_total"}),
		FeaturesEmitted:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_feed", Name: "features_emitted_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "fire_feed", Name: "publish_errors_total"}),
		RunDuration:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "fire_feed", Name: "run_duration_seconds"}),
		RunsTotal:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "fire_feed", Name: "runs_total"}, []string{"outcome"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_feed", Name: "pipeline_running"}),
		LastRunUnixTime:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "fire_feed", Name: "last_run_unix_time"}),
	}
}
