package metro

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TimeRange selects history by time. Either At alone (a point lookup) or any
// combination of From/To (a range, open on whichever side is nil). Setting At
// together with From or To is a usage error caught by option validation
// before anything is encoded.
type TimeRange struct {
	At   *time.Time `validate:"excluded_with=From To"`
	From *time.Time
	To   *time.Time
}

// TrainsOptions filters GET /trains and GET /trains/{trn}.
type TrainsOptions struct {
	// Props selects which properties of the response to include, as
	// dot-separated paths ("trains.keys" requests just the key set). Paths
	// containing '.' or ',' as literal characters are not supported.
	Props []string
}

// HistoryOptions filters the history endpoints.
type HistoryOptions struct {
	Props  []string
	Time   *TimeRange
	Limit  *int `validate:"omitempty,gte=0"`
	Active *bool
}

// HeartbeatsOptions filters GET /heartbeats.
type HeartbeatsOptions struct {
	Time  *TimeRange
	Limit *int `validate:"omitempty,gte=0"`
	// Warnings includes warning heartbeats alongside errors.
	Warnings bool
	// APIs restricts results to the named upstream APIs.
	APIs []string
}

// DueTimesOptions filters GET /due-times/{station}.
type DueTimesOptions struct {
	Props     []string
	Platforms []int
}

// TimetableOptions filters GET /timetable.
type TimetableOptions struct {
	Date               string `validate:"omitempty,datetime=2006-01-02"`
	TRN                string
	Station            string
	Direction          string `validate:"omitempty,oneof=in out"`
	EmptyManeuvers     bool
	EmptyManeuverProps []string
	TableProps         []string
}

// queryBuilder accumulates parameters and renders them canonically: keys
// sorted, values escaped, boolean flags emitted as a bare key with no '='.
// net/url.Values cannot produce valueless parameters, hence the hand-rolled
// encoder. Encoding is total: unset options are simply never added.
type queryBuilder struct {
	params []queryParam
}

type queryParam struct {
	key   string
	value string
	flag  bool
}

func (b *queryBuilder) set(key, value string) {
	b.params = append(b.params, queryParam{key: key, value: value})
}

func (b *queryBuilder) setInt(key string, v int) {
	b.set(key, strconv.Itoa(v))
}

func (b *queryBuilder) setBool(key string, v bool) {
	b.set(key, strconv.FormatBool(v))
}

// setFlag adds a present-but-valueless parameter; presence carries the
// meaning, so false is expressed by never calling this.
func (b *queryBuilder) setFlag(key string) {
	b.params = append(b.params, queryParam{key: key, flag: true})
}

func (b *queryBuilder) setList(key string, vals []string) {
	if len(vals) == 0 {
		return
	}
	b.set(key, strings.Join(vals, ","))
}

func (b *queryBuilder) setIntList(key string, vals []int) {
	if len(vals) == 0 {
		return
	}
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.Itoa(v)
	}
	b.setList(key, strs)
}

// setTime encodes a TimeRange: a point collapses to its epoch milliseconds,
// a range renders "<fromMs>...<toMs>" with an empty side for an open bound.
func (b *queryBuilder) setTime(key string, r *TimeRange) {
	if r == nil {
		return
	}
	if r.At != nil {
		b.set(key, strconv.FormatInt(r.At.UnixMilli(), 10))
		return
	}
	if r.From == nil && r.To == nil {
		return
	}
	var from, to string
	if r.From != nil {
		from = strconv.FormatInt(r.From.UnixMilli(), 10)
	}
	if r.To != nil {
		to = strconv.FormatInt(r.To.UnixMilli(), 10)
	}
	b.set(key, from+"..."+to)
}

// String renders the canonical query string without a leading '?'. Empty
// when no parameters were set.
func (b *queryBuilder) String() string {
	if len(b.params) == 0 {
		return ""
	}
	sorted := make([]queryParam, len(b.params))
	copy(sorted, b.params)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].key < sorted[j].key })

	var sb strings.Builder
	for i, p := range sorted {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.key))
		if !p.flag {
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(p.value))
		}
	}
	return sb.String()
}

func (o *TrainsOptions) encode() string {
	if o == nil {
		return ""
	}
	var b queryBuilder
	b.setList("props", o.Props)
	return b.String()
}

func (o *HistoryOptions) encode() string {
	if o == nil {
		return ""
	}
	var b queryBuilder
	b.setList("props", o.Props)
	b.setTime("time", o.Time)
	if o.Limit != nil {
		b.setInt("limit", *o.Limit)
	}
	if o.Active != nil {
		b.setBool("active", *o.Active)
	}
	return b.String()
}

func (o *HeartbeatsOptions) encode() string {
	if o == nil {
		return ""
	}
	var b queryBuilder
	b.setTime("time", o.Time)
	if o.Limit != nil {
		b.setInt("limit", *o.Limit)
	}
	if o.Warnings {
		b.setFlag("warnings")
	}
	b.setList("apis", o.APIs)
	return b.String()
}

func (o *DueTimesOptions) encode() string {
	if o == nil {
		return ""
	}
	var b queryBuilder
	b.setList("props", o.Props)
	b.setIntList("platforms", o.Platforms)
	return b.String()
}

func (o *TimetableOptions) encode() string {
	if o == nil {
		return ""
	}
	var b queryBuilder
	if o.Date != "" {
		b.set("date", o.Date)
	}
	if o.TRN != "" {
		b.set("trn", o.TRN)
	}
	if o.Station != "" {
		b.set("station", o.Station)
	}
	if o.Direction != "" {
		b.set("direction", o.Direction)
	}
	if o.EmptyManeuvers {
		b.setFlag("emptyManeuvers")
	}
	b.setList("emptyManeuverProps", o.EmptyManeuverProps)
	b.setList("tableProps", o.TableProps)
	return b.String()
}
