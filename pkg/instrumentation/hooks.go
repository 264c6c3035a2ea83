package instrumentation

import (
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

// Hooks are the extension points an agent implements to take part in spans
// created by the adapters in this package.
type Hooks interface {
	// OnResponse is called once the response headers of a request are known.
	OnResponse(span trace.Span, header http.Header)
	// OnEntries is called with the timing entries behind a page-load span,
	// right before the span ends.
	OnEntries(span trace.Span, entries []PerformanceEntry)
	// AllowEvent decides whether a user event of this type produces a span.
	AllowEvent(eventType string) bool
}

// NopHooks accepts the default event allow-list and ignores everything else.
type NopHooks struct{}

func (NopHooks) OnResponse(trace.Span, http.Header)       {}
func (NopHooks) OnEntries(trace.Span, []PerformanceEntry) {}
func (NopHooks) AllowEvent(eventType string) bool         { return AllowedEvent(eventType) }

var allowedEvents = map[string]struct{}{
	"click":     {},
	"dblclick":  {},
	"submit":    {},
	"reset":     {},
	"dragend":   {},
	"drop":      {},
	"ended":     {},
	"pause":     {},
	"play":      {},
	"change":    {},
	"mousedown": {},
	"mouseup":   {},
}

// AllowedEvent reports whether eventType is on the fixed interaction
// allow-list. DOM event names are matched exactly.
func AllowedEvent(eventType string) bool {
	_, ok := allowedEvents[eventType]
	return ok
}
