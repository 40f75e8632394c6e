package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "emagram_etl"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// sounding pipeline and the curve engines.
type Metrics struct {
	SoundingsConsumed prometheus.Counter
	SoundingsProduced prometheus.Counter
	TransformErrors   prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Sounding content metrics.
	LevelsParsed  prometheus.Counter
	MissingFields prometheus.Counter

	// Curve metrics.
	CurvesComputed   *prometheus.CounterVec // labels: family={dryline,moistline,mixingratioline}, outcome={complete,truncated,failed}
	CurveCache       *prometheus.CounterVec // labels: family, result={hit,miss}
	BaselineDuration prometheus.Histogram
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SoundingsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "soundings_consumed_total",
			Help:      "Total raw sounding messages read from the source topic.",
		}),
		SoundingsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "soundings_produced_total",
			Help:      "Total parsed soundings written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total raw soundings that could not be parsed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		LevelsParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "levels_parsed_total",
			Help:      "Total sounding table lines parsed into observation records.",
		}),
		MissingFields: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "missing_fields_total",
			Help:      "Total observation record fields left missing by the parser.",
		}),
		CurvesComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curves_computed_total",
			Help:      "Reference curves computed by family and outcome.",
		}, []string{"family", "outcome"}),
		CurveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "curve_cache_total",
			Help:      "Curve cache lookups by family and result.",
		}, []string{"family", "result"}),
		BaselineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "baseline_duration_seconds",
			Help:      "Duration of a full baseline assembly.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.SoundingsConsumed,
		m.SoundingsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.LevelsParsed,
		m.MissingFields,
		m.CurvesComputed,
		m.CurveCache,
		m.BaselineDuration,
	}
}
