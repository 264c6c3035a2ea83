package tracer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	traceSpan "go.opentelemetry.io/otel/trace"
)

// Identity is the context every span is attributed to.
type Identity struct {
	SessionID  string
	Version    string
	App        string
	InstanceID string
}

// Enricher computes the attribute set added to each span at start. The
// identity part is fixed when the Enricher is built; the location is read
// for every span so spans started after a route change carry the new href.
type Enricher struct {
	static   []attribute.KeyValue
	location func() string
	observer func()
}

// NewEnricher builds an Enricher. A nil location source stamps an empty href.
func NewEnricher(id Identity, location func() string) *Enricher {
	if location == nil {
		location = func() string { return "" }
	}
	return &Enricher{
		static: []attribute.KeyValue{
			SessionIDKey.String(id.SessionID),
			VersionKey.String(id.Version),
			AppKey.String(id.App),
			ScriptInstanceKey.String(id.InstanceID),
		},
		location: location,
	}
}

// WithObserver registers fn to be called once per enriched span.
func (e *Enricher) WithObserver(fn func()) *Enricher {
	e.observer = fn
	return e
}

// Attributes returns the attribute set for a span starting now.
func (e *Enricher) Attributes() []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(e.static)+1)
	attrs = append(attrs, LocationHrefKey.String(e.location()))
	return append(attrs, e.static...)
}

// NewEnrichingProvider wraps base so that every span started through any of
// its tracers carries the Enricher's attributes. Names, timestamps and
// parent/child relationships are passed through unchanged.
func NewEnrichingProvider(base traceSpan.TracerProvider, e *Enricher) traceSpan.TracerProvider {
	return &enrichingProvider{TracerProvider: base, enricher: e}
}

type enrichingProvider struct {
	traceSpan.TracerProvider
	enricher *Enricher
}

func (p *enrichingProvider) Tracer(name string, opts ...traceSpan.TracerOption) traceSpan.Tracer {
	return &enrichingTracer{
		Tracer:   p.TracerProvider.Tracer(name, opts...),
		enricher: p.enricher,
	}
}

type enrichingTracer struct {
	traceSpan.Tracer
	enricher *Enricher
}

func (t *enrichingTracer) Start(ctx context.Context, name string, opts ...traceSpan.SpanStartOption) (context.Context, traceSpan.Span) {
	// Full slice expression so the caller's backing array is never written to.
	opts = append(opts[:len(opts):len(opts)], traceSpan.WithAttributes(t.enricher.Attributes()...))
	ctx, span := t.Tracer.Start(ctx, name, opts...)
	if t.enricher.observer != nil {
		t.enricher.observer()
	}
	return ctx, span
}
