package metro

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, NewClient(srv.URL)
}

func TestTrainsRequestAndDecode(t *testing.T) {
	var gotPath, gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lastChecked": 1704067200000, "trains": {"123": {"lastChanged": 1704067100000}}}`))
	})

	resp, err := client.Trains(context.Background(), &TrainsOptions{Props: []string{"lastChecked", "trains.lastChanged"}})
	require.NoError(t, err)

	assert.Equal(t, "/trains", gotPath)
	assert.Equal(t, "props=lastChecked%2Ctrains.lastChanged", gotQuery)

	require.NotNil(t, resp.LastChecked)
	assert.True(t, resp.LastChecked.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Contains(t, resp.Trains, "123")
}

func TestTrainPathEscaping(t *testing.T) {
	var gotPath string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.Train(context.Background(), "12/3", nil)
	require.NoError(t, err)
	assert.Equal(t, "/trains/12%2F3", gotPath)
}

func TestTrainHistoryQuery(t *testing.T) {
	var gotPath, gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"history": []}`))
	})

	limit := 10
	active := false
	from := time.UnixMilli(1000).UTC()
	resp, err := client.TrainHistory(context.Background(), "123", &HistoryOptions{
		Time:   &TimeRange{From: &from},
		Limit:  &limit,
		Active: &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "/trains/123/history", gotPath)
	assert.Equal(t, "active=false&limit=10&time=1000...", gotQuery)
	assert.Empty(t, resp.History)
}

func TestHeartbeatsFlagOnWire(t *testing.T) {
	var gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"heartbeats": [{"api": "timesAPI", "time": 1704067200000, "warnings": ["slow response"]}]}`))
	})

	resp, err := client.Heartbeats(context.Background(), &HeartbeatsOptions{Warnings: true, APIs: []string{"timesAPI"}})
	require.NoError(t, err)

	assert.Equal(t, "apis=timesAPI&warnings", gotQuery)
	require.Len(t, resp.Heartbeats, 1)
	assert.Equal(t, []string{"slow response"}, resp.Heartbeats[0].Warnings)
}

func TestDueTimesRequest(t *testing.T) {
	var gotPath, gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"dueTimes": []}`))
	})

	_, err := client.DueTimes(context.Background(), "MTS", &DueTimesOptions{Platforms: []int{1, 2}})
	require.NoError(t, err)
	assert.Equal(t, "/due-times/MTS", gotPath)
	assert.Equal(t, "platforms=1%2C2", gotQuery)
}

func TestTimetableRequest(t *testing.T) {
	var gotQuery string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"date": "2024-01-01", "entries": [{"trn": "123", "station": "MTS", "time": "06:15:00"}]}`))
	})

	resp, err := client.Timetable(context.Background(), &TimetableOptions{Date: "2024-01-01", Direction: "out"})
	require.NoError(t, err)
	assert.Equal(t, "date=2024-01-01&direction=out", gotQuery)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "06:15:00", resp.Entries[0].Time)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such train", http.StatusNotFound)
	})

	_, err := client.Train(context.Background(), "999", nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, string(apiErr.Body), "no such train")
}

func TestInvalidOptionsRejectedBeforeRequest(t *testing.T) {
	requested := false
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		requested = true
		_, _ = w.Write([]byte(`{}`))
	})

	at := time.UnixMilli(1000).UTC()
	from := time.UnixMilli(2000).UTC()
	_, err := client.TrainHistory(context.Background(), "123", &HistoryOptions{
		Time: &TimeRange{At: &at, From: &from},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOptions)
	assert.False(t, requested, "no request should be issued for invalid options")
}

func TestUndecodableBodyIsAnError(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trains": `))
	})

	_, err := client.Trains(context.Background(), nil)
	require.Error(t, err)
}

func TestContextCancellationAborts(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := client.Trains(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
