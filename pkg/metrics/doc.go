// Package metrics exposes the agent's own counters through Prometheus:
// spans enriched, Server-Timing correlations per source and result, and init
// calls per result.
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "storefront"})
//	agent := rum.New(log, rum.WithMetrics(m))
//
// Every method accepts a nil receiver, so the agent can run without metrics.
package metrics
