package servertiming

import (
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// FormatTraceparent renders sc as the Server-Timing metric read by TokenFromHeader.
func FormatTraceparent(sc trace.SpanContext) string {
	return fmt.Sprintf(`%s;%s="00-%s-%s-%s"`, MetricName, DescriptionParam, sc.TraceID(), sc.SpanID(), sc.TraceFlags())
}

// Middleware publishes the active server span of each request in the
// Server-Timing response header so browser agents can link to it. It must
// run inside the handler that starts the server span (otelhttp.NewHandler).
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
			h := w.Header()
			h.Add(HeaderName, FormatTraceparent(sc))
			h.Add("Access-Control-Expose-Headers", HeaderName)
		}
		next.ServeHTTP(w, r)
	})
}
