package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dadu109/splunk-otel-js-web/pkg/servertiming"
	"github.com/dadu109/splunk-otel-js-web/pkg/tracer"
)

const (
	// DocumentLoadComponent is the component attribute of page-load spans.
	DocumentLoadComponent = "document-load"

	documentLoadSpan  = "documentLoad"
	documentFetchSpan = "documentFetch"
	resourceFetchSpan = "resourceFetch"

	httpURLKey = attribute.Key("http.url")
)

// Entry types.
const (
	EntryNavigation = "navigation"
	EntryResource   = "resource"
)

// PerformanceEntry is one navigation or resource timing entry reported by the host.
type PerformanceEntry struct {
	Name         string
	EntryType    string
	StartTime    time.Time
	Duration     time.Duration
	ServerTiming []servertiming.Entry
}

// ServerTimingEntries implements servertiming.Timing.
func (e PerformanceEntry) ServerTimingEntries() []servertiming.Entry {
	return e.ServerTiming
}

func (e PerformanceEntry) bounds(fallback time.Time) (time.Time, time.Time) {
	start := e.StartTime
	if start.IsZero() {
		start = fallback
	}
	return start, start.Add(e.Duration)
}

// PageLoad is what the host observed for one page load.
type PageLoad struct {
	Navigation PerformanceEntry
	Resources  []PerformanceEntry
}

// DocumentLoad turns page-load timing into spans: a documentLoad root, a
// documentFetch child for the document itself and one resourceFetch child
// per resource.
type DocumentLoad struct {
	tracer trace.Tracer
	hooks  Hooks
}

// NewDocumentLoad creates the page-load adapter.
func NewDocumentLoad(tp trace.TracerProvider, hooks Hooks) *DocumentLoad {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &DocumentLoad{
		tracer: tp.Tracer(DocumentLoadComponent),
		hooks:  hooks,
	}
}

// Record emits the spans for load. OnEntries runs for every span except the
// documentLoad root, which only groups the fetches.
func (d *DocumentLoad) Record(ctx context.Context, load PageLoad) {
	now := time.Now()
	navStart, navEnd := load.Navigation.bounds(now)

	end := navEnd
	for _, r := range load.Resources {
		if _, rEnd := r.bounds(navStart); rEnd.After(end) {
			end = rEnd
		}
	}

	ctx, root := d.start(ctx, documentLoadSpan, load.Navigation.Name, navStart)

	_, fetch := d.start(ctx, documentFetchSpan, load.Navigation.Name, navStart)
	d.end(fetch, []PerformanceEntry{load.Navigation}, navEnd)

	for _, r := range load.Resources {
		rStart, rEnd := r.bounds(navStart)
		_, span := d.start(ctx, resourceFetchSpan, r.Name, rStart)
		d.end(span, []PerformanceEntry{r}, rEnd)
	}

	root.End(trace.WithTimestamp(end))
}

func (d *DocumentLoad) start(ctx context.Context, name, url string, at time.Time) (context.Context, trace.Span) {
	return d.tracer.Start(ctx, name,
		trace.WithTimestamp(at),
		trace.WithAttributes(
			tracer.ComponentKey.String(DocumentLoadComponent),
			httpURLKey.String(url),
		),
	)
}

func (d *DocumentLoad) end(span trace.Span, entries []PerformanceEntry, at time.Time) {
	d.hooks.OnEntries(span, entries)
	span.End(trace.WithTimestamp(at))
}
