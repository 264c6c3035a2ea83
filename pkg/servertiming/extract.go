package servertiming

import "go.opentelemetry.io/otel/trace"

// Entry is one pre-parsed server timing metric, as exposed by navigation and
// resource timing entries.
type Entry struct {
	Name        string
	Duration    float64
	Description string
}

// Timing is implemented by timing entries that may carry server timing data.
// Entries without any return nil.
type Timing interface {
	ServerTimingEntries() []Entry
}

// ExtractFromHeaderValue links span to the server trace published in a raw
// Server-Timing value. It reports whether a link was added; when it was not,
// span is left untouched.
func ExtractFromHeaderValue(headerValue string, span trace.Span) bool {
	if span == nil || headerValue == "" {
		return false
	}
	tok, ok := TokenFromHeader(headerValue)
	if !ok {
		return false
	}
	Apply(span, tok)
	return true
}

// ExtractFromPerformanceEntries links span using the first entry whose server
// timing yields a valid token.
func ExtractFromPerformanceEntries[T Timing](entries []T, span trace.Span) bool {
	if span == nil {
		return false
	}
	tok, ok := TokenFromPerformanceEntries(entries)
	if !ok {
		return false
	}
	Apply(span, tok)
	return true
}

// TokenFromPerformanceEntries returns the token of the first entry that has one.
func TokenFromPerformanceEntries[T Timing](entries []T) (Token, bool) {
	for _, e := range entries {
		st := e.ServerTimingEntries()
		if len(st) == 0 {
			continue
		}
		if tok, ok := TokenFromEntries(st); ok {
			return tok, true
		}
	}
	return Token{}, false
}

// Apply records tok on span as a link. The span keeps its own trace and span ids.
func Apply(span trace.Span, tok Token) {
	span.AddLink(tok.Link())
	span.SetAttributes(tok.Attributes()...)
}
