package identity

import (
	"crypto/rand"

	"go.opentelemetry.io/otel/trace"
)

// NewSessionID returns a 128-bit random token, hex encoded.
func NewSessionID() string {
	var id trace.TraceID
	for !id.IsValid() {
		_, _ = rand.Read(id[:])
	}
	return id.String()
}

// NewInstanceID returns a 64-bit random token, hex encoded.
func NewInstanceID() string {
	var id trace.SpanID
	for !id.IsValid() {
		_, _ = rand.Read(id[:])
	}
	return id.String()
}
