package metro

import (
	"regexp"
	"strconv"
)

// LastSeen is the structured form of a train statuses API location string
// such as "Arrived Monument platform 2 at 12:34". Time is the wall-clock
// "HH:MM" from the string; the upstream gives no date context.
type LastSeen struct {
	State    string
	Station  string
	Platform int
	Time     string
}

var (
	lastSeenEventRe = regexp.MustCompile(`^(Arrived|Departed|Approaching|Passed) (.+) platform (\d+) at (\d{1,2}:\d{2})$`)
	lastSeenStartRe = regexp.MustCompile(`^Ready to start from (.+) platform (\d+) at (\d{1,2}:\d{2})$`)
)

// ParseLastSeen parses an upstream location string. It returns nil when the
// string matches no known pattern; the raw string stays available on the
// record so an unparseable value is observable rather than silently lost.
func ParseLastSeen(s string) *LastSeen {
	if m := lastSeenEventRe.FindStringSubmatch(s); m != nil {
		platform, _ := strconv.Atoi(m[3])
		return &LastSeen{State: m[1], Station: m[2], Platform: platform, Time: m[4]}
	}
	if m := lastSeenStartRe.FindStringSubmatch(s); m != nil {
		platform, _ := strconv.Atoi(m[2])
		return &LastSeen{State: "Ready to start", Station: m[1], Platform: platform, Time: m[3]}
	}
	return nil
}
