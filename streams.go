package metro

import (
	"github.com/hopperelec/metro-api-client/internal/jsoncodec"
)

// Stream event kinds carried on the push channels.
const (
	EventNewHistory        = "new-history"
	EventHeartbeatError    = "heartbeat-error"
	EventHeartbeatWarnings = "heartbeat-warnings"
	EventDueTimes          = "due-times"
)

// TrainsStreamHandlers receives events from a trains subscription. Nil
// handlers discard their kind without it counting as protocol drift.
type TrainsStreamHandlers struct {
	NewHistory        func(NewHistoryEvent)
	HeartbeatError    func(HeartbeatErrorEvent)
	HeartbeatWarnings func(HeartbeatWarningsEvent)
}

// DueTimesStreamHandlers receives events from a per-station due-times
// subscription.
type DueTimesStreamHandlers struct {
	DueTimes          func(DueTimesEvent)
	HeartbeatError    func(HeartbeatErrorEvent)
	HeartbeatWarnings func(HeartbeatWarningsEvent)
}

// StreamTrains subscribes to /stream/trains and starts connecting
// immediately. Close the returned Stream to unsubscribe.
func (c *Client) StreamTrains(handlers TrainsStreamHandlers, opts ...StreamOption) *Stream {
	dispatch := map[string]func([]byte) error{
		EventNewHistory:        typedHandler(handlers.NewHistory),
		EventHeartbeatError:    typedHandler(handlers.HeartbeatError),
		EventHeartbeatWarnings: typedHandler(handlers.HeartbeatWarnings),
	}
	return c.newStream("/stream/trains", dispatch, opts...)
}

// StreamDueTimes subscribes to the live due-time board for one station.
// Multiple station subscriptions are independent; each owns its own
// connection.
func (c *Client) StreamDueTimes(station string, handlers DueTimesStreamHandlers, opts ...StreamOption) *Stream {
	dispatch := map[string]func([]byte) error{
		EventDueTimes:          typedHandler(handlers.DueTimes),
		EventHeartbeatError:    typedHandler(handlers.HeartbeatError),
		EventHeartbeatWarnings: typedHandler(handlers.HeartbeatWarnings),
	}
	return c.newStream("/stream/due-times/"+pathEscape(station), dispatch, opts...)
}

// typedHandler adapts a typed callback to the dispatch table: each frame is
// decoded into a fresh value of T, so callbacks never share or alias the raw
// frame. A decode or shape failure is returned for the warning channel and
// the callback is not invoked.
func typedHandler[T any](fn func(T)) func([]byte) error {
	if fn == nil {
		return func([]byte) error { return nil }
	}
	return func(data []byte) error {
		var ev T
		if err := jsoncodec.Unmarshal(data, &ev); err != nil {
			return err
		}
		fn(ev)
		return nil
	}
}
