package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Correlation sources.
const (
	SourceHTTP     = "http"
	SourceDocument = "document"
)

// Init results.
const (
	InitOK            = "ok"
	InitDuplicate     = "duplicate"
	InitInvalidConfig = "invalid_config"
)

// Metrics holds the agent's self-observability counters. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Server exposes /metrics. Nil when Config.Address is empty.
	Server *http.Server

	// Registry is the Prometheus registry where all metrics are registered.
	Registry *prometheus.Registry

	spansEnriched prometheus.Counter
	correlations  *prometheus.CounterVec
	inits         *prometheus.CounterVec
}

// NewMetrics initializes the registry and the agent counters.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{Address: ":9090", ServiceName: "storefront"})
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()

	// All metrics carry service="<cfg.ServiceName>".
	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
	}

	m.spansEnriched = createCounter(namespace, "spans_enriched_total", "Spans stamped with session and app attributes")
	m.correlations = createCounterVec(namespace, "server_timing_correlations_total", "Server-Timing correlation attempts by source and result", []string{"source", "result"})
	m.inits = createCounterVec(namespace, "init_total", "Agent init calls by result", []string{"result"})

	wrappedRegistry.MustRegister(
		m.spansEnriched,
		m.correlations,
		m.inits,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	if cfg.Address != "" {
		m.Server = &http.Server{
			Addr:    cfg.Address,
			Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}
	}

	return m
}

// SpanEnriched counts one span passing through the enrichment step.
func (m *Metrics) SpanEnriched() {
	if m == nil {
		return
	}
	m.spansEnriched.Inc()
}

// ObserveCorrelation counts a Server-Timing lookup for source.
func (m *Metrics) ObserveCorrelation(source string, linked bool) {
	if m == nil {
		return
	}
	result := "missing"
	if linked {
		result = "linked"
	}
	m.correlations.WithLabelValues(source, result).Inc()
}

// ObserveInit counts an init call by result.
func (m *Metrics) ObserveInit(result string) {
	if m == nil {
		return
	}
	m.inits.WithLabelValues(result).Inc()
}
