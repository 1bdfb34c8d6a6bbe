package metro

import (
	"github.com/hopperelec/metro-api-client/internal/jsoncodec"
)

// Wire records for the proxy's REST resources and stream payloads.
//
// Every field that server-side props filtering can strip is a pointer (or a
// map/slice), so a partial response decodes to a partial record rather than
// failing or filling in zero values. Which fields arrive is decided entirely
// by the props the caller asked for; decoding probes rather than assumes.

// TrainsResponse is the body of GET /trains, keyed by TRN.
type TrainsResponse struct {
	LastChecked *Time                  `json:"lastChecked,omitempty"`
	Trains      map[string]TrainStatus `json:"trains,omitempty"`
}

// TrainResponse is the body of GET /trains/{trn}.
type TrainResponse struct {
	LastChecked *Time        `json:"lastChecked,omitempty"`
	Status      *TrainStatus `json:"status,omitempty"`
}

// TrainStatus is the current collated state of one train.
type TrainStatus struct {
	LastChanged *Time           `json:"lastChanged,omitempty"`
	Status      *CollatedStatus `json:"status,omitempty"`
}

// CollatedStatus merges the two upstream sources. At least one arm is present
// on a full response; props filtering can strip either. Which arms apply is
// decided purely by key presence.
type CollatedStatus struct {
	TimesAPI         *TimesAPIStatus      `json:"timesAPI,omitempty"`
	TrainStatusesAPI *TrainStatusesStatus `json:"trainStatusesAPI,omitempty"`
}

// TimesAPIStatus is the arm contributed by the times API.
type TimesAPIStatus struct {
	LastEvent           *TrainEvent          `json:"lastEvent,omitempty"`
	PlannedDestinations []PlannedDestination `json:"plannedDestinations,omitempty"`
}

// TrainEvent is the most recent movement event reported by the times API.
type TrainEvent struct {
	Type     *string `json:"type,omitempty"`
	Location *string `json:"location,omitempty"`
	Time     *Time   `json:"time,omitempty"`
}

// PlannedDestination is one leg of a train's planned route.
type PlannedDestination struct {
	Name *string          `json:"name,omitempty"`
	From *DestinationFrom `json:"from,omitempty"`
}

// DestinationFrom locates where and when a planned destination takes effect.
type DestinationFrom struct {
	Station  *string `json:"station,omitempty"`
	Platform *int    `json:"platform,omitempty"`
	Time     *Time   `json:"time,omitempty"`
}

// TrainStatusesStatus is the arm contributed by the train statuses API.
// LastSeen keeps the raw upstream string; LastSeenParsed is the structured
// view, absent when the string does not match a known pattern.
type TrainStatusesStatus struct {
	Destination    *string   `json:"destination,omitempty"`
	LastSeen       *string   `json:"lastSeen,omitempty"`
	LastSeenParsed *LastSeen `json:"-"`
}

func (s *TrainStatusesStatus) UnmarshalJSON(data []byte) error {
	type plain TrainStatusesStatus
	var p plain
	if err := jsoncodec.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = TrainStatusesStatus(p)
	if s.LastSeen != nil {
		s.LastSeenParsed = ParseLastSeen(*s.LastSeen)
	}
	return nil
}

// TrainHistoryEntry is one recorded state change. The active flag selects the
// variant: an inactive entry carries only the date it became inactive, an
// active entry additionally carries the collated status at that instant.
type TrainHistoryEntry struct {
	Active bool            `json:"active"`
	Date   *Time           `json:"date,omitempty"`
	Status *CollatedStatus `json:"status,omitempty"`
}

// TrainHistorySummary describes the stored history for one TRN.
type TrainHistorySummary struct {
	FirstEntry *Time `json:"firstEntry,omitempty"`
	LastEntry  *Time `json:"lastEntry,omitempty"`
	EntryCount *int  `json:"entryCount,omitempty"`
}

// HistorySummaryResponse is the body of GET /history.
type HistorySummaryResponse struct {
	LastChecked *Time                          `json:"lastChecked,omitempty"`
	Trains      map[string]TrainHistorySummary `json:"trains,omitempty"`
}

// TrainHistoryResponse is the body of GET /trains/{trn}/history, newest
// entry first.
type TrainHistoryResponse struct {
	LastChecked *Time               `json:"lastChecked,omitempty"`
	History     []TrainHistoryEntry `json:"history,omitempty"`
}

// Heartbeat records one check of an upstream API. Error and Warnings are
// both absent for a healthy check.
type Heartbeat struct {
	API      string   `json:"api"`
	Time     *Time    `json:"time,omitempty"`
	Error    *string  `json:"error,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// HeartbeatsResponse is the body of GET /heartbeats.
type HeartbeatsResponse struct {
	LastChecked *Time       `json:"lastChecked,omitempty"`
	Heartbeats  []Heartbeat `json:"heartbeats,omitempty"`
}

// DueTime is a server-computed arrival estimate for one train at one
// platform. DueIn is whole minutes until arrival; Scheduled and Predicted
// are the underlying instants when the upstream supplied them.
type DueTime struct {
	TRN         string `json:"trn"`
	Platform    *int   `json:"platform,omitempty"`
	DueIn       *int   `json:"dueIn,omitempty"`
	Scheduled   *Time  `json:"scheduled,omitempty"`
	Predicted   *Time  `json:"predicted,omitempty"`
	LastUpdated *Time  `json:"lastUpdated,omitempty"`
}

// DueTimesResponse is the body of GET /due-times/{station}.
type DueTimesResponse struct {
	LastChecked *Time     `json:"lastChecked,omitempty"`
	DueTimes    []DueTime `json:"dueTimes,omitempty"`
}

// TimetableEntry is one scheduled stop. Time is a wall-clock "HH:MM:SS" in
// the network's local timezone; it is not converted to an instant because
// the schedule has no date context of its own.
type TimetableEntry struct {
	TRN           string  `json:"trn"`
	Station       string  `json:"station"`
	Platform      *int    `json:"platform,omitempty"`
	Direction     *string `json:"direction,omitempty"`
	Time          string  `json:"time"`
	EmptyManeuver *bool   `json:"emptyManeuver,omitempty"`
}

// TimetableResponse is the body of GET /timetable.
type TimetableResponse struct {
	Date    string           `json:"date"`
	Entries []TimetableEntry `json:"entries,omitempty"`
}

// NewHistoryEvent is the payload of the "new-history" stream event: a fresh
// history entry for one train, emitted as soon as the proxy records it.
type NewHistoryEvent struct {
	Time  *Time             `json:"time,omitempty"`
	TRN   string            `json:"trn"`
	Entry TrainHistoryEntry `json:"entry"`
}

// HeartbeatErrorEvent is the payload of the "heartbeat-error" stream event.
type HeartbeatErrorEvent struct {
	Time  *Time  `json:"time,omitempty"`
	API   string `json:"api"`
	Error string `json:"error"`
}

// HeartbeatWarningsEvent is the payload of the "heartbeat-warnings" stream
// event.
type HeartbeatWarningsEvent struct {
	Time     *Time    `json:"time,omitempty"`
	API      string   `json:"api"`
	Warnings []string `json:"warnings,omitempty"`
}

// DueTimesEvent is the payload of the "due-times" stream event: the full
// refreshed due-time board for the subscribed station.
type DueTimesEvent struct {
	Time     *Time     `json:"time,omitempty"`
	Station  string    `json:"station"`
	DueTimes []DueTime `json:"dueTimes,omitempty"`
}
