// Package servertiming bridges server-side traces into client spans through
// the Server-Timing response header.
//
// A server that wants its trace correlated with a client span publishes its
// trace context as a metric named "traceparent":
//
//	Server-Timing: traceparent;desc="00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"
//	Server-Timing: server;dur=1, traceparent;desc=4bf92f3577b34da6a3ce929d0e0e4736;00f067aa0ba902b7
//
// The client side parses the value and records a span link to the server
// span. Parsing is best-effort: anything malformed is ignored and the span is
// left as it was.
//
//	if servertiming.ExtractFromHeaderValue(resp.Header.Get(servertiming.HeaderName), span) {
//		// span now links to the server trace
//	}
//
// Middleware is the server half of the convention for Go backends.
package servertiming
