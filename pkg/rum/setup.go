package rum

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/dadu109/splunk-otel-js-web/pkg/identity"
	"github.com/dadu109/splunk-otel-js-web/pkg/instrumentation"
	"github.com/dadu109/splunk-otel-js-web/pkg/logger"
	"github.com/dadu109/splunk-otel-js-web/pkg/metrics"
	"github.com/dadu109/splunk-otel-js-web/pkg/tracer"
)

// Version is the agent version stamped on every span.
const Version = "0.1.0"

// Logger defines the interface for logging operations in the rum package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// State is the lifecycle state of an Agent.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateInitialized
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateInitialized:
		return "initialized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Agent is the lifecycle object a host application holds. It is created
// uninitialized and becomes initialized through exactly one successful Init;
// there is no way back.
type Agent struct {
	logger         Logger
	store          identity.Store
	location       func() string
	exporter       sdktrace.SpanExporter
	metrics        *metrics.Metrics
	version        string
	registerGlobal bool

	mu           sync.Mutex
	state        State
	app          string
	sessionID    string
	instanceID   string
	tracer       *tracer.Tracer
	hooks        instrumentation.Hooks
	documentLoad *instrumentation.DocumentLoad
	interactions *instrumentation.Interactions
	reportError  func(ctx context.Context, err error, attrs map[string]interface{})
}

// Option customises an Agent.
type Option func(*Agent)

// WithStore sets where the session cookie lives. Default: a MemoryStore.
func WithStore(store identity.Store) Option {
	return func(a *Agent) { a.store = store }
}

// WithLocation sets the source of the current document location.
func WithLocation(location func() string) Option {
	return func(a *Agent) { a.location = location }
}

// WithExporter replaces the OTLP exporter, e.g. with an in-memory one.
func WithExporter(exp sdktrace.SpanExporter) Option {
	return func(a *Agent) { a.exporter = exp }
}

// WithMetrics records agent counters in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithVersion overrides the version stamped on spans.
func WithVersion(version string) Option {
	return func(a *Agent) { a.version = version }
}

// WithGlobalRegistration controls whether Init installs the provider as the
// OpenTelemetry global. Default: true.
func WithGlobalRegistration(enabled bool) Option {
	return func(a *Agent) { a.registerGlobal = enabled }
}

// New creates an uninitialized Agent. A nil log discards diagnostics.
func New(log Logger, opts ...Option) *Agent {
	a := &Agent{
		logger:         log,
		version:        Version,
		registerGlobal: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.NewNop()
	}
	if a.store == nil {
		a.store = identity.NewMemoryStore()
	}
	if a.location == nil {
		a.location = func() string { return "" }
	}
	return a
}

// Init sets the agent up once. A second call after success only logs a
// notice. A missing or malformed BeaconURL aborts with ErrMissingBeaconURL or
// ErrInvalidBeaconURL and leaves the agent uninitialized.
func (a *Agent) Init(ctx context.Context, cfg Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateInitialized {
		a.logger.Info("rum agent already initialized", nil, nil)
		a.metrics.ObserveInit(metrics.InitDuplicate)
		return nil
	}
	if err := cfg.validateBeaconURL(); err != nil {
		if errors.Is(err, ErrMissingBeaconURL) {
			a.logger.Error("rum init requires a beacon url", err, nil)
		} else {
			a.logger.Error("rum init received an invalid beacon url", err, map[string]interface{}{
				"beacon_url": cfg.BeaconURL,
			})
		}
		a.metrics.ObserveInit(metrics.InitInvalidConfig)
		return err
	}

	a.state = StateInitializing

	app := cfg.AppName()
	ids := identity.NewManager(a.store, a.logger)
	sessionID := ids.EnsureSessionID(identity.DefaultCookieName)
	instanceID := ids.NewInstanceID()

	enricher := tracer.NewEnricher(tracer.Identity{
		SessionID:  sessionID,
		Version:    a.version,
		App:        app,
		InstanceID: instanceID,
	}, a.location).WithObserver(a.metrics.SpanEnriched)

	tracerOpts := []tracer.Option{tracer.WithEnricher(enricher)}
	if a.exporter != nil {
		tracerOpts = append(tracerOpts, tracer.WithExporter(a.exporter))
	}

	client, err := tracer.NewClient(tracer.Config{
		ServiceName:    app,
		ServiceVersion: a.version,
		EndpointURL:    cfg.BeaconURL,
		EnableExport:   true,
		RegisterGlobal: a.registerGlobal,
	}, a.logger, tracerOpts...)
	if err != nil {
		a.state = StateUninitialized
		a.logger.Error("rum init failed to build export pipeline", err, nil)
		a.metrics.ObserveInit(metrics.InitInvalidConfig)
		return fmt.Errorf("rum: %w", err)
	}

	a.app = app
	a.sessionID = sessionID
	a.instanceID = instanceID
	a.tracer = client
	a.hooks = &correlationHooks{metrics: a.metrics}
	a.documentLoad = instrumentation.NewDocumentLoad(client.Provider(), a.hooks)
	a.interactions = instrumentation.NewInteractions(client.Provider(), a.hooks)

	if cfg.CaptureErrorsEnabled() {
		a.reportError = a.recordError
	} else {
		a.reportError = func(context.Context, error, map[string]interface{}) {}
	}

	a.state = StateInitialized
	a.metrics.ObserveInit(metrics.InitOK)
	a.logger.Info("rum init complete", nil, map[string]interface{}{
		"app":            app,
		"beacon_url":     cfg.BeaconURL,
		"capture_errors": cfg.CaptureErrorsEnabled(),
	})
	return nil
}

// State returns the current lifecycle state.
func (a *Agent) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SessionID returns the session identity, empty before Init.
func (a *Agent) SessionID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sessionID
}

// InstanceID returns the per-load instance identity, empty before Init.
func (a *Agent) InstanceID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.instanceID
}

// App returns the resolved application name, empty before Init.
func (a *Agent) App() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.app
}

// Provider returns the enriched tracer provider for ad hoc spans. Before
// Init it returns a no-op provider.
func (a *Agent) Provider() trace.TracerProvider {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracer == nil {
		return noop.NewTracerProvider()
	}
	return a.tracer.Provider()
}

// Transport instruments base for outgoing requests. Before Init, base is
// returned unchanged.
func (a *Agent) Transport(base http.RoundTripper) http.RoundTripper {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.tracer == nil {
		if base == nil {
			return http.DefaultTransport
		}
		return base
	}
	return instrumentation.NewTransport(base, a.tracer.Provider(), a.hooks)
}

// DocumentLoad returns the page-load adapter. Before Init its spans go nowhere.
func (a *Agent) DocumentLoad() *instrumentation.DocumentLoad {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.documentLoad == nil {
		return instrumentation.NewDocumentLoad(noop.NewTracerProvider(), nil)
	}
	return a.documentLoad
}

// Interactions returns the user interaction adapter. Before Init its spans go nowhere.
func (a *Agent) Interactions() *instrumentation.Interactions {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.interactions == nil {
		return instrumentation.NewInteractions(noop.NewTracerProvider(), nil)
	}
	return a.interactions
}

// Shutdown flushes pending spans and stops exporting. The agent stays
// initialized.
func (a *Agent) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	client := a.tracer
	a.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Shutdown(ctx)
}
