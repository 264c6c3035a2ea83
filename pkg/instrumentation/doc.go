// Package instrumentation contains the span sources of the agent: outgoing
// HTTP requests, page loads and user interactions.
//
// The adapters know nothing about sessions or server trace correlation.
// They expose that through Hooks, which the agent implements:
//
//	client := &http.Client{
//		Transport: instrumentation.NewTransport(nil, provider, hooks),
//	}
//
//	instrumentation.NewDocumentLoad(provider, hooks).Record(ctx, pageLoad)
//
//	ui := instrumentation.NewInteractions(provider, hooks)
//	ui.Handle(ctx, instrumentation.Event{Type: "click", TargetElement: "BUTTON"}, onClick)
//	ui.Navigate(ctx, "https://shop.example.com/", "https://shop.example.com/cart")
//
// Only these event types produce spans: click, dblclick, submit, reset,
// dragend, drop, ended, pause, play, change, mousedown and mouseup.
package instrumentation
