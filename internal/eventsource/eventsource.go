// Package eventsource implements the client half of the text/event-stream
// protocol: it dials a stream URL and yields named events one at a time.
// Reconnection policy lives with the caller; this package only frames.
package eventsource

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Event is a single server-sent event. Name is the value of the "event:"
// field, or "message" when the server sent none.
type Event struct {
	Name string
	ID   string
	Data []byte
}

// BadHandshakeError reports a non-200 response to the stream request.
type BadHandshakeError struct {
	StatusCode int
}

func (e *BadHandshakeError) Error() string {
	return fmt.Sprintf("eventsource: handshake rejected with HTTP %d", e.StatusCode)
}

// Conn is one open event-stream connection. It is not safe for concurrent
// use; one goroutine should own the Next loop.
type Conn struct {
	resp  *http.Response
	br    *bufio.Reader
	retry time.Duration
}

// Dial opens an event-stream connection. lastEventID, when non-empty, is sent
// as Last-Event-ID so a resuming server can skip already-delivered events.
// Cancelling ctx aborts both the dial and any blocked Next call.
func Dial(ctx context.Context, hc *http.Client, url, lastEventID string) (*Conn, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &BadHandshakeError{StatusCode: resp.StatusCode}
	}

	return &Conn{resp: resp, br: bufio.NewReader(resp.Body)}, nil
}

// Next blocks until a complete event arrives or the connection fails.
// Events with no data are swallowed (they only carry id/retry bookkeeping).
func (c *Conn) Next() (Event, error) {
	ev := Event{Name: "message"}
	var data strings.Builder
	haveData := false

	for {
		line, err := c.br.ReadString('\n')
		if err != nil {
			return Event{}, err
		}
		line = strings.TrimRight(line, "\r\n")

		if line == "" {
			if !haveData {
				ev = Event{Name: "message"}
				continue
			}
			ev.Data = []byte(data.String())
			return ev, nil
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := line, ""
		if i := strings.IndexByte(line, ':'); i >= 0 {
			field, value = line[:i], strings.TrimPrefix(line[i+1:], " ")
		}
		switch field {
		case "event":
			ev.Name = value
		case "id":
			ev.ID = value
		case "retry":
			if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
				c.retry = time.Duration(ms) * time.Millisecond
			}
		case "data":
			if haveData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			haveData = true
		}
	}
}

// Retry reports the most recent server-suggested reconnect delay, or zero if
// the server never sent one.
func (c *Conn) Retry() time.Duration { return c.retry }

// Close releases the underlying response body. Safe to call while another
// goroutine is blocked in Next; that call returns with a read error.
func (c *Conn) Close() error { return c.resp.Body.Close() }
