package metro

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hopperelec/metro-api-client/internal/jsoncodec"
)

func TestHistoryEntryInactiveVariant(t *testing.T) {
	payload := []byte(`{"active": false, "date": "2024-01-01T00:00:00Z"}`)

	var entry TrainHistoryEntry
	require.NoError(t, jsoncodec.Unmarshal(payload, &entry))

	assert.False(t, entry.Active)
	require.NotNil(t, entry.Date)
	assert.True(t, entry.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, entry.Status)
}

func TestHistoryEntryActiveVariantResolvesUnionArm(t *testing.T) {
	payload := []byte(`{
		"active": true,
		"date": 1704067200000,
		"status": {
			"trainStatusesAPI": {
				"destination": "Airport",
				"lastSeen": "Arrived Monument platform 3 at 12:34"
			}
		}
	}`)

	var entry TrainHistoryEntry
	require.NoError(t, jsoncodec.Unmarshal(payload, &entry))

	assert.True(t, entry.Active)
	require.NotNil(t, entry.Date)
	assert.True(t, entry.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.NotNil(t, entry.Status)
	assert.Nil(t, entry.Status.TimesAPI, "times API arm must stay absent")
	require.NotNil(t, entry.Status.TrainStatusesAPI)
	assert.Equal(t, "Airport", *entry.Status.TrainStatusesAPI.Destination)

	parsed := entry.Status.TrainStatusesAPI.LastSeenParsed
	require.NotNil(t, parsed)
	assert.Equal(t, &LastSeen{State: "Arrived", Station: "Monument", Platform: 3, Time: "12:34"}, parsed)
}

func TestCollatedStatusBothArms(t *testing.T) {
	payload := []byte(`{
		"timesAPI": {
			"lastEvent": {"type": "ARRIVED", "location": "Monument", "time": 1704067200000},
			"plannedDestinations": [
				{"name": "Airport", "from": {"station": "MTS", "platform": 2, "time": "2024-01-01T00:05:00Z"}}
			]
		},
		"trainStatusesAPI": {"destination": "Airport", "lastSeen": "somewhere odd"}
	}`)

	var status CollatedStatus
	require.NoError(t, jsoncodec.Unmarshal(payload, &status))

	require.NotNil(t, status.TimesAPI)
	require.NotNil(t, status.TimesAPI.LastEvent)
	require.NotNil(t, status.TimesAPI.LastEvent.Time)
	assert.True(t, status.TimesAPI.LastEvent.Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.Len(t, status.TimesAPI.PlannedDestinations, 1)
	dest := status.TimesAPI.PlannedDestinations[0]
	require.NotNil(t, dest.From)
	require.NotNil(t, dest.From.Time)
	assert.True(t, dest.From.Time.Equal(time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)))

	// raw lastSeen kept, parsed view absent for an unrecognised pattern
	require.NotNil(t, status.TrainStatusesAPI)
	require.NotNil(t, status.TrainStatusesAPI.LastSeen)
	assert.Equal(t, "somewhere odd", *status.TrainStatusesAPI.LastSeen)
	assert.Nil(t, status.TrainStatusesAPI.LastSeenParsed)
}

// Server-side props filtering can strip any subtree; whatever is missing must
// decode to absent, never to an error or a zero-value substitute.
func TestFilteredResponseDecodesPartially(t *testing.T) {
	payload := []byte(`{"trains": {"123": {}, "124": {"lastChanged": 1704067200000}}}`)

	var resp TrainsResponse
	require.NoError(t, jsoncodec.Unmarshal(payload, &resp))

	assert.Nil(t, resp.LastChecked)
	require.Len(t, resp.Trains, 2)

	empty := resp.Trains["123"]
	assert.Nil(t, empty.LastChanged)
	assert.Nil(t, empty.Status)

	partial := resp.Trains["124"]
	require.NotNil(t, partial.LastChanged)
	assert.Nil(t, partial.Status)
}

func TestEmptyListsDecodeEmpty(t *testing.T) {
	payload := []byte(`{"timesAPI": {"plannedDestinations": []}}`)

	var status CollatedStatus
	require.NoError(t, jsoncodec.Unmarshal(payload, &status))
	require.NotNil(t, status.TimesAPI)
	assert.Empty(t, status.TimesAPI.PlannedDestinations)
}

func TestMalformedTemporalFieldSurfacesShapeError(t *testing.T) {
	payload := []byte(`{"active": true, "date": "not a date"}`)

	var entry TrainHistoryEntry
	err := jsoncodec.Unmarshal(payload, &entry)
	require.Error(t, err)
	var shapeErr *ShapeError
	assert.True(t, errors.As(err, &shapeErr), "expected *ShapeError, got %T", err)
}

// Re-encoding a normalized record and decoding it again must reproduce the
// record: instants marshal to a form the unmarshaler accepts.
func TestNormalizationRoundTrip(t *testing.T) {
	payload := []byte(`{
		"lastChecked": 1704067200000,
		"trains": {
			"123": {
				"lastChanged": "2024-01-01T10:30:00Z",
				"status": {"timesAPI": {"lastEvent": {"type": "DEPARTED", "time": 1704105000000}}}
			}
		}
	}`)

	var first TrainsResponse
	require.NoError(t, jsoncodec.Unmarshal(payload, &first))

	reencoded, err := jsoncodec.Marshal(first)
	require.NoError(t, err)

	var second TrainsResponse
	require.NoError(t, jsoncodec.Unmarshal(reencoded, &second))
	assert.Equal(t, first, second)
}

func TestDueTimeDecoding(t *testing.T) {
	payload := []byte(`{
		"dueTimes": [
			{"trn": "123", "platform": 2, "dueIn": 4, "predicted": 1704067440000, "lastUpdated": 1704067200000},
			{"trn": "124", "platform": 1, "dueIn": 0, "scheduled": "2024-01-01T00:06:00Z"}
		]
	}`)

	var resp DueTimesResponse
	require.NoError(t, jsoncodec.Unmarshal(payload, &resp))
	require.Len(t, resp.DueTimes, 2)

	first := resp.DueTimes[0]
	assert.Equal(t, "123", first.TRN)
	require.NotNil(t, first.DueIn)
	assert.Equal(t, 4, *first.DueIn)
	assert.Nil(t, first.Scheduled)
	require.NotNil(t, first.Predicted)
	assert.True(t, first.Predicted.Equal(time.Date(2024, 1, 1, 0, 4, 0, 0, time.UTC)))

	second := resp.DueTimes[1]
	require.NotNil(t, second.DueIn)
	assert.Equal(t, 0, *second.DueIn)
	require.NotNil(t, second.Scheduled)
	assert.Nil(t, second.Predicted)
}
