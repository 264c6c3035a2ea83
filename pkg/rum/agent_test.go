package rum

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dadu109/splunk-otel-js-web/pkg/identity"
	"github.com/dadu109/splunk-otel-js-web/pkg/instrumentation"
	"github.com/dadu109/splunk-otel-js-web/pkg/logger"
	"github.com/dadu109/splunk-otel-js-web/pkg/metrics"
	"github.com/dadu109/splunk-otel-js-web/pkg/servertiming"
	"github.com/dadu109/splunk-otel-js-web/pkg/tracer"
)

const (
	serverTraceID = "4bf92f3577b34da6a3ce929d0e0e4736"
	serverSpanID  = "00f067aa0ba902b7"
	pageHref      = "https://shop.example.com/cart"
)

type countingStore struct {
	identity.MemoryStore
	writes atomic.Int32
}

func (s *countingStore) Set(c *http.Cookie) error {
	s.writes.Add(1)
	return s.MemoryStore.Set(c)
}

type testAgent struct {
	*Agent
	exporter *tracetest.InMemoryExporter
	logs     *observer.ObservedLogs
}

func newTestAgent(t *testing.T, opts ...Option) testAgent {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	exp := tracetest.NewInMemoryExporter()
	base := []Option{
		WithExporter(exp),
		WithLocation(func() string { return pageHref }),
		WithGlobalRegistration(false),
	}
	a := New(logger.NewWithCore(core), append(base, opts...)...)
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })
	return testAgent{Agent: a, exporter: exp, logs: logs}
}

func attrMap(kvs []attribute.KeyValue) map[attribute.Key]string {
	m := make(map[attribute.Key]string, len(kvs))
	for _, kv := range kvs {
		m[kv.Key] = kv.Value.Emit()
	}
	return m
}

func requireEnriched(t *testing.T, a testAgent, span tracetest.SpanStub) {
	t.Helper()
	attrs := attrMap(span.Attributes)
	assert.Equal(t, pageHref, attrs[tracer.LocationHrefKey], span.Name)
	assert.Equal(t, a.SessionID(), attrs[tracer.SessionIDKey], span.Name)
	assert.Equal(t, Version, attrs[tracer.VersionKey], span.Name)
	assert.Equal(t, a.App(), attrs[tracer.AppKey], span.Name)
	assert.Equal(t, a.InstanceID(), attrs[tracer.ScriptInstanceKey], span.Name)
}

// counterValues flattens the registry into "name/value..." keys, label values
// in label name order with the service label left out.
func counterValues(t *testing.T, m *metrics.Metrics) map[string]float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			key := f.GetName()
			for _, l := range metric.GetLabel() {
				if l.GetName() != "service" {
					key += "/" + l.GetValue()
				}
			}
			values[key] = metric.GetCounter().GetValue()
		}
	}
	return values
}

func TestInitRequiresBeaconURL(t *testing.T) {
	a := newTestAgent(t)

	err := a.Init(context.Background(), Config{App: "storefront"})

	assert.ErrorIs(t, err, ErrMissingBeaconURL)
	assert.Equal(t, StateUninitialized, a.State())
	assert.Empty(t, a.SessionID())
	assert.Equal(t, 1, a.logs.FilterMessage("rum init requires a beacon url").Len())

	// The agent can still be initialized afterwards.
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))
	assert.Equal(t, StateInitialized, a.State())
}

func TestInitRejectsMalformedBeaconURL(t *testing.T) {
	tests := []struct {
		name   string
		beacon string
	}{
		{name: "schemeless", beacon: "rum.example.com/v1/traces"},
		{name: "unparsable", beacon: "https://rum example.com:port/"},
		{name: "missing host", beacon: "https:///v1/traces"},
		{name: "unsupported scheme", beacon: "ftp://rum.example.com/v1/traces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewMetrics(metrics.Config{})
			a := newTestAgent(t, WithMetrics(m))

			err := a.Init(context.Background(), Config{BeaconURL: tt.beacon})

			assert.ErrorIs(t, err, ErrInvalidBeaconURL)
			assert.Equal(t, StateUninitialized, a.State())
			assert.Empty(t, a.SessionID())
			assert.Equal(t, 1, a.logs.FilterMessage("rum init received an invalid beacon url").Len())
			assert.Equal(t, 1.0, counterValues(t, m)["rum_init_total/invalid_config"])
		})
	}
}

func TestNewWithoutLogger(t *testing.T) {
	exp := tracetest.NewInMemoryExporter()
	a := New(nil, WithExporter(exp), WithGlobalRegistration(false))
	t.Cleanup(func() { _ = a.Shutdown(context.Background()) })

	assert.ErrorIs(t, a.Init(context.Background(), Config{}), ErrMissingBeaconURL)
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))
	assert.Equal(t, StateInitialized, a.State())
}

func TestInitDefaultsApp(t *testing.T) {
	a := newTestAgent(t)
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))

	assert.Equal(t, DefaultApp, a.App())

	_, span := a.Provider().Tracer("test").Start(context.Background(), "adhoc")
	span.End()

	spans := a.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "unknown-browser-app", attrMap(spans[0].Attributes)[tracer.AppKey])
	assert.Equal(t, 1, a.logs.FilterMessage("rum init complete").Len())
}

func TestInitTwiceIsNoop(t *testing.T) {
	store := &countingStore{}
	a := newTestAgent(t, WithStore(store))

	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x", App: "first"}))
	session, instance := a.SessionID(), a.InstanceID()
	provider := a.Provider()

	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://y", App: "second"}))

	assert.Equal(t, StateInitialized, a.State())
	assert.Equal(t, "first", a.App())
	assert.Equal(t, session, a.SessionID())
	assert.Equal(t, instance, a.InstanceID())
	assert.Same(t, provider, a.Provider())
	assert.Equal(t, int32(1), store.writes.Load())
	assert.Equal(t, 1, a.logs.FilterMessage("rum agent already initialized").Len())

	_, span := a.Provider().Tracer("test").Start(context.Background(), "once")
	span.End()
	assert.Len(t, a.exporter.GetSpans(), 1)
}

func TestSessionSharedAcrossPageLoads(t *testing.T) {
	store := identity.NewMemoryStore()

	first := newTestAgent(t, WithStore(store))
	require.NoError(t, first.Init(context.Background(), Config{BeaconURL: "https://x"}))
	second := newTestAgent(t, WithStore(store))
	require.NoError(t, second.Init(context.Background(), Config{BeaconURL: "https://x"}))

	assert.Len(t, first.SessionID(), 32)
	assert.Len(t, first.InstanceID(), 16)
	assert.Equal(t, first.SessionID(), second.SessionID())
	assert.NotEqual(t, first.InstanceID(), second.InstanceID())

	stored, ok := store.Get(identity.DefaultCookieName)
	require.True(t, ok)
	assert.Equal(t, first.SessionID(), stored)
}

func TestTransportLinksServerTrace(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add(servertiming.HeaderName, "server;dur=1")
		w.Header().Add(servertiming.HeaderName, "traceparent;desc="+serverTraceID+";"+serverSpanID)
		_, _ = io.WriteString(w, "ok")
	}))
	defer srv.Close()

	m := metrics.NewMetrics(metrics.Config{ServiceName: "storefront"})
	a := newTestAgent(t, WithMetrics(m))
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x", App: "storefront"}))

	client := &http.Client{Transport: a.Transport(nil)}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_, _ = io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())

	spans := a.exporter.GetSpans()
	require.Len(t, spans, 1)
	requireEnriched(t, a, spans[0])

	require.Len(t, spans[0].Links, 1)
	assert.Equal(t, serverTraceID, spans[0].Links[0].SpanContext.TraceID().String())
	assert.Equal(t, serverSpanID, spans[0].Links[0].SpanContext.SpanID().String())
	assert.NotEqual(t, serverTraceID, spans[0].SpanContext.TraceID().String())

	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, instrumentation.HTTPComponent, attrs[tracer.ComponentKey])
	assert.Equal(t, serverTraceID, attrs[servertiming.LinkTraceIDKey])

	values := counterValues(t, m)
	assert.Equal(t, 1.0, values["rum_server_timing_correlations_total/linked/http"])
	assert.Equal(t, 1.0, values["rum_spans_enriched_total"])
}

func TestTransportWithoutServerTiming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	a := newTestAgent(t)
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))

	resp, err := (&http.Client{Transport: a.Transport(http.DefaultTransport)}).Get(srv.URL)
	require.NoError(t, err)
	_, _ = io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())

	spans := a.exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Empty(t, spans[0].Links)
	requireEnriched(t, a, spans[0])
}

func TestDocumentLoadLinksDocumentFetch(t *testing.T) {
	a := newTestAgent(t)
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))

	a.DocumentLoad().Record(context.Background(), instrumentation.PageLoad{
		Navigation: instrumentation.PerformanceEntry{
			Name:      pageHref,
			EntryType: instrumentation.EntryNavigation,
			ServerTiming: []servertiming.Entry{
				{Name: "traceparent", Description: "00-" + serverTraceID + "-" + serverSpanID + "-01"},
			},
		},
		Resources: []instrumentation.PerformanceEntry{
			{Name: "https://shop.example.com/app.js", EntryType: instrumentation.EntryResource},
		},
	})

	spans := a.exporter.GetSpans()
	require.Len(t, spans, 3)

	for _, s := range spans {
		requireEnriched(t, a, s)
		switch s.Name {
		case "documentFetch":
			require.Len(t, s.Links, 1)
			assert.Equal(t, serverTraceID, s.Links[0].SpanContext.TraceID().String())
		default:
			assert.Empty(t, s.Links, s.Name)
		}
	}
}

func TestInteractionsAllowList(t *testing.T) {
	a := newTestAgent(t)
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))

	ui := a.Interactions()
	assert.True(t, ui.Handle(context.Background(), instrumentation.Event{Type: "click", TargetElement: "BUTTON"}, nil))
	assert.False(t, ui.Handle(context.Background(), instrumentation.Event{Type: "mousemove"}, nil))
	assert.True(t, ui.Navigate(context.Background(), "https://shop.example.com/", pageHref))

	spans := a.exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "click", spans[0].Name)
	assert.Equal(t, "route change", spans[1].Name)
	for _, s := range spans {
		requireEnriched(t, a, s)
	}
}

func TestErrorCapture(t *testing.T) {
	a := newTestAgent(t)
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x"}))

	a.Error(context.Background(), errors.New("checkout failed"), map[string]interface{}{"order": 42})
	a.Error(context.Background(), nil, nil)

	spans := a.exporter.GetSpans()
	require.Len(t, spans, 1)
	requireEnriched(t, a, spans[0])

	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, "error", spans[0].Name)
	assert.Equal(t, "checkout failed", attrs["error.message"])
	assert.Equal(t, "*errors.errorString", attrs["error.object"])
	assert.Equal(t, "42", attrs["order"])
}

func TestErrorCaptureDisabled(t *testing.T) {
	a := newTestAgent(t)
	disabled := false
	require.NoError(t, a.Init(context.Background(), Config{BeaconURL: "https://x", CaptureErrors: &disabled}))

	a.Error(context.Background(), errors.New("ignored"), nil)
	assert.Empty(t, a.exporter.GetSpans())
}

func TestBeforeInit(t *testing.T) {
	a := newTestAgent(t)

	a.Error(context.Background(), errors.New("early"), nil)
	assert.Same(t, http.DefaultTransport, a.Transport(nil))

	_, span := a.Provider().Tracer("test").Start(context.Background(), "early")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	a.DocumentLoad().Record(context.Background(), instrumentation.PageLoad{})
	a.Interactions().Handle(context.Background(), instrumentation.Event{Type: "click"}, nil)

	assert.Empty(t, a.exporter.GetSpans())
	assert.NoError(t, a.Shutdown(context.Background()))
}

func TestInitMetrics(t *testing.T) {
	m := metrics.NewMetrics(metrics.Config{})
	a := newTestAgent(t, WithMetrics(m))

	_ = a.Init(context.Background(), Config{})
	_ = a.Init(context.Background(), Config{BeaconURL: "https://x"})
	_ = a.Init(context.Background(), Config{BeaconURL: "https://x"})

	_, span := a.Provider().Tracer("test").Start(context.Background(), "counted")
	span.End()

	values := counterValues(t, m)
	assert.Equal(t, 1.0, values["rum_init_total/invalid_config"])
	assert.Equal(t, 1.0, values["rum_init_total/ok"])
	assert.Equal(t, 1.0, values["rum_init_total/duplicate"])
	assert.Equal(t, 1.0, values["rum_spans_enriched_total"])
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "initializing", StateInitializing.String())
	assert.Equal(t, "initialized", StateInitialized.String())
	assert.Equal(t, "State(7)", State(7).String())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{BeaconURL: "https://x"}
	assert.Equal(t, DefaultApp, cfg.AppName())
	assert.True(t, cfg.CaptureErrorsEnabled())

	off := false
	cfg.CaptureErrors = &off
	assert.False(t, cfg.CaptureErrorsEnabled())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("SPLUNK_RUM_BEACON_URL", "https://rum.example.com/v1/traces")
	t.Setenv("SPLUNK_RUM_APP", "storefront")
	t.Setenv("SPLUNK_RUM_CAPTURE_ERRORS", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://rum.example.com/v1/traces", cfg.BeaconURL)
	assert.Equal(t, "storefront", cfg.AppName())
	assert.False(t, cfg.CaptureErrorsEnabled())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rum.yaml")
	require.NoError(t, os.WriteFile(path, []byte("beacon_url: https://rum.example.com/v1/traces\n"), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://rum.example.com/v1/traces", cfg.BeaconURL)
	assert.Equal(t, DefaultApp, cfg.AppName())
	assert.True(t, cfg.CaptureErrorsEnabled())

	_, err = LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFXModuleExportsToBeacon(t *testing.T) {
	var requests atomic.Int32
	beacon := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer beacon.Close()

	var agent *Agent
	app := fxtest.New(t,
		FXModule,
		fx.Provide(
			func() Config { return Config{BeaconURL: beacon.URL + "/v1/traces", App: "storefront"} },
			func() Logger { return logger.NewNop() },
		),
		fx.Populate(&agent),
	)
	app.RequireStart()

	require.Equal(t, StateInitialized, agent.State())
	_, span := agent.Provider().Tracer("test").Start(context.Background(), "exported", trace.WithSpanKind(trace.SpanKindInternal))
	span.End()

	app.RequireStop()
	assert.GreaterOrEqual(t, requests.Load(), int32(1))
}
