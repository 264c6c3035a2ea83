package tracer

import "go.opentelemetry.io/otel/attribute"

// Attribute keys stamped on every span.
const (
	LocationHrefKey   = attribute.Key("location.href")
	SessionIDKey      = attribute.Key("splunk.rumSessionId")
	VersionKey        = attribute.Key("splunk.rumVersion")
	AppKey            = attribute.Key("app")
	ScriptInstanceKey = attribute.Key("splunk.scriptInstance")

	// ComponentKey names the instrumentation that produced a span.
	ComponentKey = attribute.Key("component")
)
