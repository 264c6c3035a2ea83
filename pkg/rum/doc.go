// Package rum is the real-user-monitoring agent: it gives every span a
// session, app and instance identity and links client spans to the server
// traces announced in Server-Timing response headers.
//
// An Agent is created once per page (or per process hosting the page) and
// initialized once:
//
//	agent := rum.New(log,
//		rum.WithStore(cookieStore),
//		rum.WithLocation(func() string { return currentHref }),
//	)
//	if err := agent.Init(ctx, rum.Config{
//		BeaconURL: "https://rum-ingest.example.com/v1/traces",
//		App:       "storefront",
//	}); err != nil {
//		// rum.ErrMissingBeaconURL; the host keeps running without telemetry
//	}
//
//	client := &http.Client{Transport: agent.Transport(nil)}
//	agent.DocumentLoad().Record(ctx, pageLoad)
//	agent.Interactions().Handle(ctx, event, handler)
//	agent.Error(ctx, err, nil)
//
// A second Init is ignored. The session id is kept in the store under the
// "_splunk_rum_sid" cookie and reused by later agents sharing that store;
// the instance id is new for every Agent.
//
// Configuration:
//
//	SPLUNK_RUM_BEACON_URL=https://rum-ingest.example.com/v1/traces
//	SPLUNK_RUM_APP=storefront
//	SPLUNK_RUM_CAPTURE_ERRORS=false
//
// or the same keys in YAML (beacon_url, app, capture_errors) through
// LoadConfigFile.
package rum
