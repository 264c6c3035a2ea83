package tracer

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// ErrMissingEndpoint is returned when export is enabled without an endpoint.
var ErrMissingEndpoint = errors.New("tracer: export enabled without endpoint url")

// Logger defines the interface for logging operations in the tracer package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Tracer owns the SDK tracer provider and the handle spans are created
// through. When an Enricher is configured that handle stamps every span.
type Tracer struct {
	tracer   *trace.TracerProvider
	provider traceSpan.TracerProvider
	logger   Logger
}

// Option customises NewClient.
type Option func(*options)

type options struct {
	exporter   trace.SpanExporter
	enricher   *Enricher
	processors []trace.SpanProcessor
}

// WithExporter exports spans synchronously through exp instead of the OTLP
// exporter. Tests pass a tracetest.InMemoryExporter here.
func WithExporter(exp trace.SpanExporter) Option {
	return func(o *options) { o.exporter = exp }
}

// WithEnricher wraps the provider handle with e.
func WithEnricher(e *Enricher) Option {
	return func(o *options) { o.enricher = e }
}

// WithSpanProcessor registers an additional span processor.
func WithSpanProcessor(sp trace.SpanProcessor) Option {
	return func(o *options) { o.processors = append(o.processors, sp) }
}

// NewClient creates the tracer provider and its export pipeline.
//
// Spans go to cfg.EndpointURL over OTLP/HTTP when cfg.EnableExport is set.
// The resource carries service.name and service.version.
//
// Example:
//
//	cfg := tracer.Config{
//	    ServiceName:  "storefront",
//	    EndpointURL:  "https://rum-ingest.example.com/v1/traces",
//	    EnableExport: true,
//	}
//
//	tracerClient, err := tracer.NewClient(cfg, logger, tracer.WithEnricher(enricher))
//	if err != nil {
//	    return err
//	}
//	ctx, span := tracerClient.StartSpan(context.Background(), "checkout")
//	defer span.End()
func NewClient(cfg Config, logger Logger, opts ...Option) (*Tracer, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var providerOptions []trace.TracerProviderOption

	switch {
	case o.exporter != nil:
		providerOptions = append(providerOptions, trace.WithSyncer(o.exporter))
	case cfg.EnableExport:
		if cfg.EndpointURL == "" {
			return nil, ErrMissingEndpoint
		}
		client := otlptracehttp.NewClient(otlptracehttp.WithEndpointURL(cfg.EndpointURL))
		exporter, err := otlptrace.New(context.Background(), client)
		if err != nil {
			return nil, fmt.Errorf("cannot initiate span exporter: %w", err)
		}
		providerOptions = append(providerOptions, trace.WithBatcher(exporter))
	default:
		logger.Warn("span export disabled, spans are dropped", nil, nil)
	}

	for _, sp := range o.processors {
		providerOptions = append(providerOptions, trace.WithSpanProcessor(sp))
	}

	providerOptions = append(providerOptions, trace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		VersionKey.String(cfg.ServiceVersion),
	)))

	tp := trace.NewTracerProvider(providerOptions...)

	var provider traceSpan.TracerProvider = tp
	if o.enricher != nil {
		provider = NewEnrichingProvider(tp, o.enricher)
	}

	if cfg.RegisterGlobal {
		otel.SetTracerProvider(provider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}

	logger.Debug("tracer provider created", nil, map[string]interface{}{
		"service":  cfg.ServiceName,
		"endpoint": cfg.EndpointURL,
	})

	return &Tracer{tracer: tp, provider: provider, logger: logger}, nil
}

// Provider returns the handle spans should be created through.
func (t *Tracer) Provider() traceSpan.TracerProvider {
	return t.provider
}

// ForceFlush exports all spans that have not been exported yet.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	return t.tracer.ForceFlush(ctx)
}

// Shutdown flushes and stops the export pipeline.
func (t *Tracer) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
