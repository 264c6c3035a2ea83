// Package tracer builds the OpenTelemetry tracer provider used by the agent
// and the span enrichment that runs on top of it.
//
// Enrichment wraps the provider handle: every Tracer obtained from it adds
// the agent's attribute set to each span at start, whatever instrumentation
// asked for the span.
//
//	enricher := tracer.NewEnricher(tracer.Identity{
//		SessionID:  sessionID,
//		Version:    "0.1.0",
//		App:        "storefront",
//		InstanceID: instanceID,
//	}, func() string { return currentHref })
//
//	client, err := tracer.NewClient(tracer.Config{
//		ServiceName:  "storefront",
//		EndpointURL:  "https://rum-ingest.example.com/v1/traces",
//		EnableExport: true,
//	}, log, tracer.WithEnricher(enricher))
//
//	ctx, span := client.Provider().Tracer("checkout").Start(ctx, "submit order")
//	defer span.End()
//
// Stamped attributes: location.href, splunk.rumSessionId, splunk.rumVersion,
// app and splunk.scriptInstance.
//
// Thread Safety:
//
// Tracer, Enricher and the enriching provider are safe for concurrent use.
package tracer
