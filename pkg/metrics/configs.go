package metrics

// DefaultNamespace prefixes every agent metric.
const DefaultNamespace = "rum"

// Config defines the configuration structure for the agent's Prometheus metrics.
type Config struct {
	// Address determines the network address where the Prometheus
	// metrics HTTP server listens.
	//
	// Example values:
	//   - ":9090"   → Listen on all interfaces, port 9090
	//   - "127.0.0.1:9100" → Listen only on localhost, port 9100
	//
	// When empty no server is created and the registry is only reachable
	// through Metrics.Registry.
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors controls whether the built-in Go runtime
	// and process metrics are automatically registered.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace sets a global prefix for all metrics registered by the agent.
	//
	// Example:
	//   Namespace: "storefront_rum"
	//   → Metric name becomes "storefront_rum_spans_enriched_total"
	//
	// Default: "rum"
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is used as the constant "service" label on every metric.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}
