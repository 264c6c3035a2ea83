package tracer

import (
	"context"

	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// FXModule provides the tracer client and flushes it on shutdown. The
// application supplies Config and Logger. An *Enricher or a
// trace.SpanExporter in the graph is picked up when present.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewFromParams,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// Params are the dependencies NewFromParams takes from the fx graph.
type Params struct {
	fx.In

	Config   Config
	Logger   Logger
	Enricher *Enricher          `optional:"true"`
	Exporter trace.SpanExporter `optional:"true"`
}

// NewFromParams builds the client from fx dependencies.
func NewFromParams(p Params) (*Tracer, error) {
	var opts []Option
	if p.Enricher != nil {
		opts = append(opts, WithEnricher(p.Enricher))
	}
	if p.Exporter != nil {
		opts = append(opts, WithExporter(p.Exporter))
	}
	return NewClient(p.Config, p.Logger, opts...)
}

func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("shutting down tracer...", nil, nil)
			return tracer.tracer.Shutdown(ctx)
		},
	})
}
