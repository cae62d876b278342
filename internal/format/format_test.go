// ABOUTME: Tests for display formatting of dates, currency, and statuses

package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skylane/flightdeck/internal/api"
)

func ts(value time.Time) api.Timestamp {
	return api.Timestamp{Time: value}
}

func TestDateFormats(t *testing.T) {
	moment := ts(time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC))

	assert.Equal(t, "07.03.2026", Date(moment))
	assert.Equal(t, "07.03.2026 09:05", DateTime(moment))
	assert.Equal(t, "09:05", Time(moment))
}

func TestDateFormats_ZeroTimestamp(t *testing.T) {
	var zero api.Timestamp
	assert.Empty(t, Date(zero))
	assert.Empty(t, DateTime(zero))
	assert.Empty(t, Time(zero))
}

func TestCurrency(t *testing.T) {
	assert.Equal(t, "149.99", Currency(149.99))
	assert.Equal(t, "0.00", Currency(0))
	assert.Equal(t, "1000.50", Currency(1000.5))
	assert.Equal(t, "0.10", Currency(0.1))
}

func TestFlightStatus(t *testing.T) {
	assert.Equal(t, "Pending Approval", FlightStatus(api.FlightStatusPending))
	assert.Equal(t, "In Progress", FlightStatus(api.FlightStatusOngoing))
	assert.Equal(t, "Cancelled", FlightStatus(api.FlightStatusCancelled))
	assert.Equal(t, "SOMETHING_NEW", FlightStatus("SOMETHING_NEW"),
		"unknown statuses pass through")
}

func TestBookingStatus(t *testing.T) {
	assert.Equal(t, "Processing", BookingStatus(api.BookingStatusProcessing))
	assert.Equal(t, "Refunded", BookingStatus(api.BookingStatusRefunded))
	assert.Equal(t, "X", BookingStatus("X"))
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, BadgeSuccess, StatusBadge(api.FlightStatusApproved))
	assert.Equal(t, BadgeSuccess, StatusBadge(api.FlightStatusCompleted))
	assert.Equal(t, BadgeWarning, StatusBadge(api.FlightStatusPending))
	assert.Equal(t, BadgeWarning, StatusBadge(api.BookingStatusProcessing))
	assert.Equal(t, BadgeDanger, StatusBadge(api.FlightStatusRejected))
	assert.Equal(t, BadgeDanger, StatusBadge(api.FlightStatusCancelled))
	assert.Equal(t, BadgeDanger, StatusBadge(api.BookingStatusRefunded))
	assert.Equal(t, BadgeInfo, StatusBadge(api.FlightStatusOngoing))
	assert.Equal(t, BadgeInfo, StatusBadge("UNKNOWN"))
}
