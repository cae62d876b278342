// ABOUTME: Tests for flight-operations gateway calls against a fake backend
// ABOUTME: Covers tabs decoding, approval actions, booking acceptance, and timestamps

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/flightdeck/internal/credential"
)

func newFlightOps(t *testing.T, handler http.Handler) *FlightOps {
	t.Helper()

	store, err := credential.NewStore(filepath.Join(t.TempDir(), "token"), nil)
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewFlightOps(server.URL, &Policy{Credentials: store})
}

const tabsBody = `{
	"upcoming": [
		{
			"id": 1, "name": "BEG-NYC-001", "airline_id": 1,
			"distance_km": 7000, "duration_minutes": 540,
			"departure_time": "2026-09-15T10:00:00Z",
			"departure_airport": "BEG", "arrival_airport": "JFK",
			"ticket_price": 650.5, "status": "APPROVED",
			"is_upcoming": true, "is_ongoing": false, "is_completed": false,
			"remaining_time": null
		}
	],
	"ongoing": [
		{
			"id": 2, "name": "JFK-PAR-002", "airline_id": 2,
			"departure_time": "2026-08-31T08:00:00Z",
			"status": "ONGOING",
			"is_upcoming": false, "is_ongoing": true, "is_completed": false,
			"remaining_time": 125
		}
	],
	"completed_cancelled": []
}`

func TestFlightOps_FlightTabs(t *testing.T) {
	ops := newFlightOps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights/tabs", r.URL.Path)
		w.Write([]byte(tabsBody))
	}))

	tabs, err := ops.FlightTabs(context.Background())
	require.NoError(t, err)

	require.Len(t, tabs.Upcoming, 1)
	require.Len(t, tabs.Ongoing, 1)
	assert.Empty(t, tabs.CompletedCancelled)

	upcoming := tabs.Upcoming[0]
	assert.Equal(t, "BEG-NYC-001", upcoming.Name)
	assert.Equal(t, int64(1), upcoming.AirlineID)
	assert.True(t, upcoming.IsUpcoming)
	assert.Nil(t, upcoming.RemainingTime)
	assert.Equal(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), upcoming.DepartureTime.Time)

	ongoing := tabs.Ongoing[0]
	assert.True(t, ongoing.IsOngoing)
	require.NotNil(t, ongoing.RemainingTime)
	assert.Equal(t, 125, *ongoing.RemainingTime)
}

func TestFlightOps_ApproveAndReject(t *testing.T) {
	var gotBodies []map[string]string
	ops := newFlightOps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flights/9/approve", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotBodies = append(gotBodies, body)
		w.Write([]byte(`{"message": "ok"}`))
	}))

	require.NoError(t, ops.ApproveFlight(context.Background(), 9))
	require.NoError(t, ops.RejectFlight(context.Background(), 9, "routing conflict"))

	require.Len(t, gotBodies, 2)
	assert.Equal(t, map[string]string{"action": "approve"}, gotBodies[0])
	assert.Equal(t, map[string]string{
		"action":           "reject",
		"rejection_reason": "routing conflict",
	}, gotBodies[1])
}

func TestFlightOps_CreateBookingAccepted(t *testing.T) {
	ops := newFlightOps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(7), body["flight_id"])
		assert.Equal(t, int64(42), body["user_id"])

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{
			"message": "Booking is being processed asynchronously",
			"booking": {"id": 11, "flight_id": 7, "user_id": 42, "status": "PENDING"}
		}`))
	}))

	result, err := ops.CreateBooking(context.Background(), 7, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(11), result.Booking.ID)
	assert.Equal(t, BookingStatusPending, result.Booking.Status)
	assert.Contains(t, result.Message, "processed asynchronously")
}

func TestFlightOps_CreateBookingConflict(t *testing.T) {
	ops := newFlightOps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "You have already booked this flight"}`, http.StatusConflict)
	}))

	_, err := ops.CreateBooking(context.Background(), 7, 42)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "You have already booked this flight", apiErr.Message)
}

func TestFlightOps_ListFlightsFilters(t *testing.T) {
	ops := newFlightOps(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "APPROVED", query.Get("status"))
		assert.Equal(t, "2", query.Get("airline_id"))
		assert.Empty(t, query.Get("name"))
		w.Write([]byte(`{"flights": []}`))
	}))

	flights, err := ops.ListFlights(context.Background(), FlightFilters{
		AirlineID: 2,
		Status:    FlightStatusApproved,
	})
	require.NoError(t, err)
	assert.Empty(t, flights)
}

func TestTimestamp_Shapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 zulu", `"2026-08-31T12:30:00Z"`, time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)},
		{"naive iso", `"2026-08-31T12:30:00"`, time.Date(2026, 8, 31, 12, 30, 0, 0, time.UTC)},
		{"naive iso micros", `"2026-08-31T12:30:00.123456"`, time.Date(2026, 8, 31, 12, 30, 0, 123456000, time.UTC)},
		{"bare date", `"1990-04-01"`, time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, ts.Equal(tt.want), "got %v, want %v", ts.Time, tt.want)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"31/08/2026"`), &ts))
}
