package rum

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/dadu109/splunk-otel-js-web/pkg/instrumentation"
	"github.com/dadu109/splunk-otel-js-web/pkg/metrics"
	"github.com/dadu109/splunk-otel-js-web/pkg/servertiming"
)

// correlationHooks links adapter spans to the server traces announced
// through Server-Timing.
type correlationHooks struct {
	metrics *metrics.Metrics
}

func (h *correlationHooks) OnResponse(span trace.Span, header http.Header) {
	values := header.Values(servertiming.HeaderName)
	if len(values) == 0 {
		return
	}
	linked := servertiming.ExtractFromHeaderValue(strings.Join(values, ","), span)
	h.metrics.ObserveCorrelation(metrics.SourceHTTP, linked)
}

func (h *correlationHooks) OnEntries(span trace.Span, entries []instrumentation.PerformanceEntry) {
	linked := servertiming.ExtractFromPerformanceEntries(entries, span)
	h.metrics.ObserveCorrelation(metrics.SourceDocument, linked)
}

func (h *correlationHooks) AllowEvent(eventType string) bool {
	return instrumentation.AllowedEvent(eventType)
}
