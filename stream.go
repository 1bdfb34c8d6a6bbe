package metro

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hopperelec/metro-api-client/internal/eventsource"
)

// StreamState is the connection state of one Stream.
type StreamState int

const (
	// StreamDisconnected is both the initial state and the terminal state
	// after Close; no transport resources are held.
	StreamDisconnected StreamState = iota
	// StreamConnecting means a connection attempt is in flight.
	StreamConnecting
	// StreamConnected means events are being read and dispatched.
	StreamConnected
	// StreamReconnectScheduled means the connection dropped and a retry
	// timer is pending.
	StreamReconnectScheduled
)

func (s StreamState) String() string {
	switch s {
	case StreamDisconnected:
		return "disconnected"
	case StreamConnecting:
		return "connecting"
	case StreamConnected:
		return "connected"
	case StreamReconnectScheduled:
		return "reconnect-scheduled"
	}
	return fmt.Sprintf("StreamState(%d)", int(s))
}

// ReconnectPolicy supplies the delay before each reconnect attempt. Reset is
// called after every successful connection so the next outage starts from the
// initial delay again.
type ReconnectPolicy interface {
	NextDelay() time.Duration
	Reset()
}

type exponentialPolicy struct {
	b *backoff.ExponentialBackOff
}

func (p *exponentialPolicy) NextDelay() time.Duration { return p.b.NextBackOff() }
func (p *exponentialPolicy) Reset()                   { p.b.Reset() }

// DefaultReconnectPolicy returns exponential backoff from 1s to 30s with
// jitter and no give-up point.
func DefaultReconnectPolicy() ReconnectPolicy {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return &exponentialPolicy{b: b}
}

// Stream is one persistent subscription to a push topic. It owns its
// connection and dispatch table exclusively; independent Streams share
// nothing and need no coordination.
//
// Events are decoded and dispatched from a single goroutine in transport
// order. Connection drops schedule an automatic reconnect; Close cancels
// everything and is idempotent, including when called from inside a callback.
type Stream struct {
	url      string
	hc       *http.Client
	dispatch map[string]func(data []byte) error
	policy   ReconnectPolicy

	onConnect    func()
	onDisconnect func(cause error, retryIn time.Duration)
	onWarning    func(err error)

	mu          sync.Mutex
	state       StreamState
	gen         int
	cancel      context.CancelFunc
	timer       *time.Timer
	lastEventID string
}

// StreamOption configures a Stream at subscription creation.
type StreamOption func(*Stream)

// WithReconnectPolicy replaces the default exponential backoff.
func WithReconnectPolicy(p ReconnectPolicy) StreamOption {
	return func(s *Stream) { s.policy = p }
}

// OnConnect registers a callback invoked after each successful connection,
// including reconnects.
func OnConnect(fn func()) StreamOption {
	return func(s *Stream) { s.onConnect = fn }
}

// OnDisconnect registers a callback invoked when the connection drops
// unexpectedly, with the cause and the delay before the scheduled retry.
// Without it, drops are retried silently. Close never invokes it.
func OnDisconnect(fn func(cause error, retryIn time.Duration)) StreamOption {
	return func(s *Stream) { s.onDisconnect = fn }
}

// OnWarning registers a callback for non-fatal per-frame problems: unknown
// event kinds, undecodable payloads, and malformed temporal values. The
// offending frame is dropped and the stream keeps running either way.
func OnWarning(fn func(err error)) StreamOption {
	return func(s *Stream) { s.onWarning = fn }
}

func (c *Client) newStream(path string, dispatch map[string]func([]byte) error, opts ...StreamOption) *Stream {
	s := &Stream{
		url:      c.baseURL + path,
		hc:       c.hc,
		dispatch: dispatch,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.policy == nil {
		s.policy = DefaultReconnectPolicy()
	}
	s.Connect()
	return s
}

// State reports the current connection state.
func (s *Stream) State() StreamState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect starts the subscription. It returns immediately; progress is
// reported through the lifecycle callbacks. No-op unless the stream is
// disconnected, so calling it on a live stream is safe.
func (s *Stream) Connect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StreamDisconnected {
		return
	}
	s.startLocked()
}

// startLocked launches a connection attempt. Caller holds s.mu.
func (s *Stream) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = StreamConnecting
	go s.run(ctx, s.gen)
}

// Close cancels any in-flight connection attempt and any scheduled reconnect,
// releases the transport and leaves the stream disconnected. Safe to call
// repeatedly and from within event callbacks. A closed stream can be revived
// with Connect.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StreamDisconnected {
		return
	}
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state = StreamDisconnected
}

// run owns one connection attempt and, on success, the read loop. gen guards
// against a Close that raced the goroutine: once the generation moves on,
// this run must touch nothing and die quietly.
func (s *Stream) run(ctx context.Context, gen int) {
	conn, err := eventsource.Dial(ctx, s.hc, s.url, s.lastID())
	if err != nil {
		s.scheduleReconnect(gen, err)
		return
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.state = StreamConnected
	s.policy.Reset()
	onConnect := s.onConnect
	s.mu.Unlock()

	if onConnect != nil {
		onConnect()
	}

	for {
		ev, err := conn.Next()
		if err != nil {
			_ = conn.Close()
			s.scheduleReconnect(gen, err)
			return
		}
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			_ = conn.Close()
			return
		}
		if ev.ID != "" {
			s.lastEventID = ev.ID
		}
		s.mu.Unlock()
		s.dispatchEvent(ev)
	}
}

func (s *Stream) lastID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastEventID
}

// dispatchEvent routes one frame by event kind. An unrecognized kind is
// protocol drift, not a failure: it is reported as a warning and the stream
// keeps running for the kinds it does know.
func (s *Stream) dispatchEvent(ev eventsource.Event) {
	handler, ok := s.dispatch[ev.Name]
	if !ok {
		s.warn(fmt.Errorf("metro: unknown stream event kind %q", ev.Name))
		return
	}
	if err := handler(ev.Data); err != nil {
		s.warn(fmt.Errorf("metro: %s event dropped: %w", ev.Name, err))
	}
}

func (s *Stream) warn(err error) {
	s.mu.Lock()
	onWarning := s.onWarning
	s.mu.Unlock()
	if onWarning != nil {
		onWarning(err)
	}
}

// scheduleReconnect handles an unexpected drop: unless the stream was closed
// in the meantime, it asks the policy for a delay, arms the retry timer and
// notifies the disconnect callback with the cause and delay.
func (s *Stream) scheduleReconnect(gen int, cause error) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	delay := s.policy.NextDelay()
	s.state = StreamReconnectScheduled
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || s.state != StreamReconnectScheduled {
			return
		}
		s.timer = nil
		s.startLocked()
	})
	onDisconnect := s.onDisconnect
	s.mu.Unlock()

	if onDisconnect != nil {
		onDisconnect(cause, delay)
	}
}
