package metro

import (
	"errors"
	"fmt"
)

// APIError reports a non-2xx HTTP response from the proxy. Body holds up to
// the first few KiB of the response so error messages from the server are not
// lost.
type APIError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *APIError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("metro: HTTP %s: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("metro: HTTP %s", e.Status)
}

// ShapeError reports a field that was present on the wire but could not be
// converted to its expected form, such as a timestamp that is neither an
// epoch-millisecond number nor an ISO 8601 string. Legitimate absence (an
// omitted or null field) never produces a ShapeError.
type ShapeError struct {
	Value string
	Err   error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("metro: malformed value %s: %v", e.Value, e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// ErrInvalidOptions wraps option-validation failures so callers can
// distinguish usage errors from transport or data errors.
var ErrInvalidOptions = errors.New("metro: invalid request options")
