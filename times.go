package metro

import (
	"fmt"
	"strconv"
	"time"
)

// Time is an instant decoded from the wire. The proxy transmits timestamps as
// either epoch milliseconds or ISO 8601 strings depending on which upstream
// produced them; both decode to the same UTC instant here.
type Time struct {
	time.Time
}

func (t *Time) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		parsed, err := time.Parse(time.RFC3339Nano, s[1:len(s)-1])
		if err != nil {
			return &ShapeError{Value: s, Err: fmt.Errorf("not an ISO 8601 instant: %w", err)}
		}
		t.Time = parsed.UTC()
		return nil
	}
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// some upstreams emit fractional milliseconds
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return &ShapeError{Value: s, Err: fmt.Errorf("not an epoch-millisecond value: %w", err)}
		}
		ms = int64(f)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// MarshalJSON writes the instant back as an ISO 8601 string, which the
// unmarshaler also accepts, so a marshal/unmarshal round trip is lossless at
// millisecond precision.
func (t Time) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}
