package servertiming

import (
	"encoding/hex"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// MetricName is the metric the server uses to publish its trace context.
	MetricName = "traceparent"

	// DescriptionParam is the metric parameter holding the encoded context.
	DescriptionParam = "desc"

	// LinkTraceIDKey and LinkSpanIDKey record the linked context as plain
	// span attributes next to the span link.
	LinkTraceIDKey = attribute.Key("link.traceId")
	LinkSpanIDKey  = attribute.Key("link.spanId")
)

// Token is a server trace context recovered from Server-Timing data.
type Token struct {
	TraceID trace.TraceID
	SpanID  trace.SpanID
	Flags   trace.TraceFlags
}

// SpanContext returns the remote span context the token describes.
func (t Token) SpanContext() trace.SpanContext {
	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    t.TraceID,
		SpanID:     t.SpanID,
		TraceFlags: t.Flags,
		Remote:     true,
	})
}

// Link returns a span link pointing at the server span.
func (t Token) Link() trace.Link {
	return trace.Link{SpanContext: t.SpanContext()}
}

// Attributes returns the link.traceId / link.spanId pair.
func (t Token) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		LinkTraceIDKey.String(t.TraceID.String()),
		LinkSpanIDKey.String(t.SpanID.String()),
	}
}

// TokenFromHeader looks for the traceparent metric in a raw Server-Timing
// header value. The first descriptor that decodes to a valid token wins.
func TokenFromHeader(headerValue string) (Token, bool) {
	for _, m := range Parse(headerValue) {
		if !strings.EqualFold(m.Name, MetricName) {
			continue
		}
		if tok, ok := tokenFromMetric(m); ok {
			return tok, true
		}
	}
	return Token{}, false
}

// TokenFromEntries does the same for server timing entries that were already
// parsed by the host (name and description only).
func TokenFromEntries(entries []Entry) (Token, bool) {
	for _, e := range entries {
		if !strings.EqualFold(e.Name, MetricName) {
			continue
		}
		if tok, ok := decodeDescription(e.Description, ""); ok {
			return tok, true
		}
	}
	return Token{}, false
}

func tokenFromMetric(m Metric) (Token, bool) {
	for i, p := range m.Params {
		if !p.HasValue || !strings.EqualFold(p.Name, DescriptionParam) {
			continue
		}
		// traceparent;desc=<traceId>;<spanId> leaves the span id as a bare param.
		next := ""
		if i+1 < len(m.Params) && !m.Params[i+1].HasValue {
			next = m.Params[i+1].Name
		}
		return decodeDescription(p.Value, next)
	}
	return Token{}, false
}

// decodeDescription accepts "<traceId>;<spanId>", "00-<traceId>-<spanId>-<flags>"
// or a trace id whose span id travelled as the following bare parameter.
func decodeDescription(desc, next string) (Token, bool) {
	desc = strings.TrimSpace(desc)
	switch {
	case strings.Contains(desc, ";"):
		parts := strings.Split(desc, ";")
		if len(parts) < 2 {
			return Token{}, false
		}
		return newToken(parts[0], parts[1], "")
	case strings.Count(desc, "-") == 3:
		parts := strings.Split(desc, "-")
		if v, err := hex.DecodeString(parts[0]); err != nil || len(v) != 1 || v[0] == 0xff {
			return Token{}, false
		}
		return newToken(parts[1], parts[2], parts[3])
	case next != "":
		return newToken(desc, next, "")
	}
	return Token{}, false
}

func newToken(traceID, spanID, flags string) (Token, bool) {
	tid, err := trace.TraceIDFromHex(strings.ToLower(strings.TrimSpace(traceID)))
	if err != nil {
		return Token{}, false
	}
	sid, err := trace.SpanIDFromHex(strings.ToLower(strings.TrimSpace(spanID)))
	if err != nil {
		return Token{}, false
	}
	tok := Token{TraceID: tid, SpanID: sid}
	if flags != "" {
		b, err := hex.DecodeString(flags)
		if err != nil || len(b) != 1 {
			return Token{}, false
		}
		tok.Flags = trace.TraceFlags(b[0])
	}
	return tok, true
}
