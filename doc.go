// Package metro is a typed client for the Metro real-time proxy API.
//
// The proxy aggregates two upstream sources (the times API and the train
// statuses API) into collated per-train records, stores their history and
// pushes live updates over text event streams. This package covers both
// sides: one-shot REST lookups and long-lived stream subscriptions.
//
// # REST lookups
//
//	client := metro.NewClient("https://api.example.net/metro")
//	trains, err := client.Trains(ctx, &metro.TrainsOptions{
//	    Props: []string{"lastChecked", "trains.keys"},
//	})
//
// Responses are decoded into typed records with every wire timestamp
// converted to an instant. Server-side props filtering can strip any part of
// a response; filtered-out fields decode to nil rather than failing, so a
// partial request yields a partial record.
//
// # Streams
//
//	stream := client.StreamTrains(metro.TrainsStreamHandlers{
//	    NewHistory: func(ev metro.NewHistoryEvent) { ... },
//	}, metro.OnDisconnect(func(cause error, retryIn time.Duration) {
//	    log.Printf("dropped (%v), retrying in %v", cause, retryIn)
//	}))
//	defer stream.Close()
//
// A Stream reconnects automatically after unexpected drops and dispatches
// each named event to its typed handler in transport order. Missed events
// are not replayed; callers needing gap detection should re-poll the
// matching REST resource after a reconnect.
package metro
