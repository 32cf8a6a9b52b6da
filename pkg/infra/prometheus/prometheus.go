package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	policyLabels = []string{"policy"}

	// Callback latency buckets in milliseconds
	dispatchBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	EventsRecorded = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_events_recorded_total",
			Help: "Events appended to debounce buckets",
		},
		append(policyLabels, "result"),
	)

	BatchesDispatched = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_batches_dispatched_total",
			Help: "Batches handed to policy callbacks",
		},
		append(policyLabels, "result"),
	)

	DispatchLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustbatch_dispatch_latency_ms",
			Help:    "Policy callback latency in milliseconds",
			Buckets: dispatchBuckets,
		},
		policyLabels,
	)

	BucketsDue = promauto.With(registerer).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "trustbatch_buckets_due",
			Help: "Buckets whose fire time elapsed but are not dispatched yet",
		},
		policyLabels,
	)

	RateLimitDecisions = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_ratelimit_decisions_total",
			Help: "Rate limiter admission decisions",
		},
		[]string{"event_type", "decision"},
	)

	RateLimitExceededSignals = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_ratelimit_exceeded_signals_total",
			Help: "Throttled limit exceeded meta signals",
		},
		[]string{"event_type"},
	)

	TelemetryEvents = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_telemetry_events_total",
			Help: "Ingested telemetry events by outcome",
		},
		[]string{"result"},
	)

	TelemetrySessions = promauto.With(registerer).NewGauge(
		prometheus.GaugeOpts{
			Name: "trustbatch_telemetry_sessions",
			Help: "Telemetry sessions holding a live rate limiter",
		},
	)

	HTTPRequests = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_http_requests_total",
			Help: "HTTP requests served by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trustbatch_http_latency_ms",
			Help:    "HTTP handler latency in milliseconds",
			Buckets: dispatchBuckets,
		},
		[]string{"method", "route"},
	)

	QueueDropped = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "trustbatch_queue_dropped_total",
			Help: "Tasks dropped because a worker queue was full",
		},
		[]string{"queue"},
	)
)

type MetricsConfig struct {
	EnableProcess bool
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableProcess: true,
	}
}

var Config MetricsConfig

func Initialize(cfg MetricsConfig) {
	Config = cfg
	if cfg.EnableProcess {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

func Registry() *prometheus.Registry {
	return registry
}
