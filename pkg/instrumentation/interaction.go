package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dadu109/splunk-otel-js-web/pkg/tracer"
)

const (
	// InteractionComponent is the component attribute of user event spans.
	InteractionComponent = "user-interaction"

	routeTracerName = "route"
	routeChangeSpan = "route change"

	eventTypeKey     = attribute.Key("event_type")
	targetElementKey = attribute.Key("target_element")
	targetXPathKey   = attribute.Key("target_xpath")
	prevHrefKey      = attribute.Key("prev.href")
)

// Event is a user interaction dispatched by the host.
type Event struct {
	Type          string
	TargetElement string
	TargetXPath   string
}

// Interactions turns user events and history navigation into spans.
type Interactions struct {
	tracer trace.Tracer
	route  trace.Tracer
	hooks  Hooks
}

// NewInteractions creates the interaction adapter.
func NewInteractions(tp trace.TracerProvider, hooks Hooks) *Interactions {
	if hooks == nil {
		hooks = NopHooks{}
	}
	return &Interactions{
		tracer: tp.Tracer(InteractionComponent),
		route:  tp.Tracer(routeTracerName),
		hooks:  hooks,
	}
}

// Handle runs handler for ev. When the event type is allowed, handler runs
// inside a span named after the event type; otherwise it runs with ctx as is.
// Handle reports whether a span was created.
func (i *Interactions) Handle(ctx context.Context, ev Event, handler func(context.Context)) bool {
	if !i.hooks.AllowEvent(ev.Type) {
		if handler != nil {
			handler(ctx)
		}
		return false
	}

	eventType := ev.Type
	ctx, span := i.tracer.Start(ctx, eventType, trace.WithAttributes(
		tracer.ComponentKey.String(InteractionComponent),
		eventTypeKey.String(eventType),
		targetElementKey.String(ev.TargetElement),
		targetXPathKey.String(ev.TargetXPath),
	))
	defer span.End()

	if handler != nil {
		handler(ctx)
	}
	return true
}

// Navigate records a history navigation from oldHref to newHref as a
// zero-length "route change" span. The host calls it after its location
// changed; nothing is recorded when the href did not change.
func (i *Interactions) Navigate(ctx context.Context, oldHref, newHref string) bool {
	if oldHref == newHref {
		return false
	}
	now := time.Now()
	_, span := i.route.Start(ctx, routeChangeSpan,
		trace.WithTimestamp(now),
		trace.WithAttributes(prevHrefKey.String(oldHref)),
	)
	span.End(trace.WithTimestamp(now))
	return true
}
