package instrumentation

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"

	"github.com/dadu109/splunk-otel-js-web/pkg/tracer"
)

// HTTPComponent is the component attribute of network request spans.
const HTTPComponent = "http"

// NewTransport returns a RoundTripper that traces every request through tp
// and hands the response headers to hooks.OnResponse. A nil base uses
// http.DefaultTransport.
func NewTransport(base http.RoundTripper, tp trace.TracerProvider, hooks Hooks, opts ...otelhttp.Option) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if hooks == nil {
		hooks = NopHooks{}
	}
	opts = append([]otelhttp.Option{otelhttp.WithTracerProvider(tp)}, opts...)
	return otelhttp.NewTransport(&responseTransport{base: base, hooks: hooks}, opts...)
}

// responseTransport runs inside the otelhttp span, so the request context
// carries the client span of this request.
type responseTransport struct {
	base  http.RoundTripper
	hooks Hooks
}

func (t *responseTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	span := trace.SpanFromContext(r.Context())
	span.SetAttributes(tracer.ComponentKey.String(HTTPComponent))

	resp, err := t.base.RoundTrip(r)
	if err != nil || resp == nil {
		return resp, err
	}
	t.hooks.OnResponse(span, resp.Header)
	return resp, nil
}
