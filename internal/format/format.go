// ABOUTME: Display formatting for dates, money, and status labels
// ABOUTME: Badge classification maps statuses onto the UI's severity levels

// Package format renders server values for display. Status labels and
// the date layouts match what users of the web client already know.
package format

import (
	"strconv"

	"github.com/skylane/flightdeck/internal/api"
)

// Display layouts.
const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
	timeLayout     = "15:04"
)

// Date renders dd.MM.yyyy, empty for a zero timestamp.
func Date(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// DateTime renders dd.MM.yyyy HH:mm, empty for a zero timestamp.
func DateTime(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTimeLayout)
}

// Time renders HH:mm, empty for a zero timestamp.
func Time(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

// Currency renders an amount with two decimal places and no symbol.
func Currency(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

var flightStatusLabels = map[string]string{
	api.FlightStatusPending:   "Pending Approval",
	api.FlightStatusApproved:  "Approved",
	api.FlightStatusRejected:  "Rejected",
	api.FlightStatusCancelled: "Cancelled",
	api.FlightStatusOngoing:   "In Progress",
	api.FlightStatusCompleted: "Completed",
}

var bookingStatusLabels = map[string]string{
	api.BookingStatusPending:    "Pending",
	api.BookingStatusProcessing: "Processing",
	api.BookingStatusCompleted:  "Completed",
	api.BookingStatusCancelled:  "Cancelled",
	api.BookingStatusRefunded:   "Refunded",
}

// FlightStatus returns the display label for a flight status. Unknown
// statuses pass through unchanged.
func FlightStatus(status string) string {
	if label, ok := flightStatusLabels[status]; ok {
		return label
	}
	return status
}

// BookingStatus returns the display label for a booking status.
// Unknown statuses pass through unchanged.
func BookingStatus(status string) string {
	if label, ok := bookingStatusLabels[status]; ok {
		return label
	}
	return status
}

// Badge is the severity class a status renders with.
type Badge int

const (
	BadgeInfo Badge = iota
	BadgeSuccess
	BadgeWarning
	BadgeDanger
)

// StatusBadge classifies flight and booking statuses onto severity
// levels. Unknown statuses render as informational.
func StatusBadge(status string) Badge {
	switch status {
	case api.FlightStatusApproved, api.FlightStatusCompleted:
		return BadgeSuccess
	case api.FlightStatusPending, api.BookingStatusProcessing:
		return BadgeWarning
	case api.FlightStatusRejected, api.FlightStatusCancelled, api.BookingStatusRefunded:
		return BadgeDanger
	default:
		return BadgeInfo
	}
}
