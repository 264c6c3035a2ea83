package tracer

// Config describes the tracer provider and its export pipeline.
type Config struct {
	// ServiceName becomes the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// ServiceVersion becomes the service.version resource attribute.
	ServiceVersion string `yaml:"service_version" envconfig:"TRACER_SERVICE_VERSION"`

	// EndpointURL is the full URL spans are exported to over OTLP/HTTP,
	// e.g. "https://rum-ingest.example.com/v1/traces".
	EndpointURL string `yaml:"endpoint_url" envconfig:"TRACER_ENDPOINT_URL"`

	// EnableExport turns the OTLP exporter on. An exporter passed with
	// WithExporter is always used.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`

	// RegisterGlobal installs the provider and the W3C propagators as the
	// OpenTelemetry globals.
	RegisterGlobal bool `yaml:"register_global" envconfig:"TRACER_REGISTER_GLOBAL"`
}
