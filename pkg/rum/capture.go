package rum

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dadu109/splunk-otel-js-web/pkg/tracer"
)

const (
	errorComponent = "error"
	errorSpanName  = "error"

	errorKey        = attribute.Key("error")
	errorMessageKey = attribute.Key("error.message")
	errorObjectKey  = attribute.Key("error.object")
)

// Error reports err as an "error" span. It does nothing before Init, for a
// nil error, or when error capture is disabled.
func (a *Agent) Error(ctx context.Context, err error, attrs map[string]interface{}) {
	a.mu.Lock()
	report := a.reportError
	a.mu.Unlock()

	if report == nil || err == nil {
		return
	}
	report(ctx, err, attrs)
}

func (a *Agent) recordError(ctx context.Context, err error, attrs map[string]interface{}) {
	_, span := a.tracer.Provider().Tracer(errorComponent).Start(ctx, errorSpanName, trace.WithAttributes(
		tracer.ComponentKey.String(errorComponent),
		errorKey.Bool(true),
		errorObjectKey.String(fmt.Sprintf("%T", err)),
		errorMessageKey.String(err.Error()),
	))
	a.tracer.SetAttributes(span, attrs)
	a.tracer.RecordErrorOnSpan(span, err)
	span.End()
}
