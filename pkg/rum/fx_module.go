package rum

import (
	"context"

	"go.uber.org/fx"

	"github.com/dadu109/splunk-otel-js-web/pkg/identity"
	"github.com/dadu109/splunk-otel-js-web/pkg/metrics"
)

// FXModule provides the Agent and initializes it when the application
// starts. The application supplies Config and Logger; an identity.Store and
// *metrics.Metrics are picked up when present.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    rum.FXModule,
//	    fx.Provide(
//	        func() logger.Config { return logger.Config{Level: logger.Info} },
//	        func(l *logger.Logger) rum.Logger { return l },
//	        rum.LoadConfig,
//	    ),
//	)
var FXModule = fx.Module("rum",
	fx.Provide(
		NewFromParams,
	),
	fx.Invoke(RegisterAgentLifecycle),
)

// Params are the dependencies NewFromParams takes from the fx graph.
type Params struct {
	fx.In

	Logger  Logger
	Store   identity.Store   `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// NewFromParams builds an uninitialized Agent from fx dependencies.
func NewFromParams(p Params) *Agent {
	return New(p.Logger, WithStore(p.Store), WithMetrics(p.Metrics))
}

// RegisterAgentLifecycle calls Init on start and flushes spans on stop. A
// failed Init is logged by the agent and does not stop the application.
func RegisterAgentLifecycle(lc fx.Lifecycle, agent *Agent, cfg Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_ = agent.Init(ctx, cfg)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			agent.logger.Info("shutting down rum agent...", nil, nil)
			return agent.Shutdown(ctx)
		},
	})
}
