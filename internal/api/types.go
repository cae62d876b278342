// ABOUTME: Wire types for the identity and flight-operations services
// ABOUTME: Field names and shapes follow the backend JSON contracts exactly

package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Flight status values as the flight-operations service reports them.
const (
	FlightStatusPending   = "PENDING"
	FlightStatusApproved  = "APPROVED"
	FlightStatusRejected  = "REJECTED"
	FlightStatusCancelled = "CANCELLED"
	FlightStatusOngoing   = "ONGOING"
	FlightStatusCompleted = "COMPLETED"
)

// Booking status values.
const (
	BookingStatusPending    = "PENDING"
	BookingStatusProcessing = "PROCESSING"
	BookingStatusCompleted  = "COMPLETED"
	BookingStatusCancelled  = "CANCELLED"
	BookingStatusRefunded   = "REFUNDED"
)

// Role values used by the identity service.
const (
	RoleUser          = "USER"
	RoleManager       = "MANAGER"
	RoleAdministrator = "ADMINISTRATOR"
)

// Timestamp unmarshals the timestamp shapes the two backends emit: RFC 3339
// with Z suffix, naive ISO 8601 date-times, and bare dates. Zero when the
// field is null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unsupported timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// User is an identity-service account record.
type User struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	DateOfBirth    Timestamp `json:"date_of_birth"`
	Gender         string    `json:"gender"`
	Country        string    `json:"country"`
	Street         string    `json:"street"`
	StreetNumber   string    `json:"street_number"`
	AccountBalance float64   `json:"account_balance"`
	ProfilePicture *string   `json:"profile_picture"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      Timestamp `json:"created_at"`
	UpdatedAt      Timestamp `json:"updated_at"`
}

// FullName joins the user's first and last names for display.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Airline is an identity-service airline record.
type Airline struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Country     string    `json:"country"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	IsActive    bool      `json:"is_active"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Flight is a flight-operations record. Status, the ongoing/upcoming flags,
// and the remaining minutes are server-computed: the client never mutates
// them, it only requests transitions and re-fetches.
type Flight struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	AirlineID        int64     `json:"airline_id"`
	DistanceKM       float64   `json:"distance_km"`
	DurationMinutes  int       `json:"duration_minutes"`
	DepartureTime    Timestamp `json:"departure_time"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	TicketPrice      float64   `json:"ticket_price"`
	CreatedBy        int64     `json:"created_by"`
	Status           string    `json:"status"`
	RejectionReason  *string   `json:"rejection_reason"`
	IsUpcoming       bool      `json:"is_upcoming"`
	IsOngoing        bool      `json:"is_ongoing"`
	IsCompleted      bool      `json:"is_completed"`
	// RemainingTime is minutes until arrival, present only while ongoing.
	RemainingTime *int      `json:"remaining_time"`
	CreatedAt     Timestamp `json:"created_at"`
	UpdatedAt     Timestamp `json:"updated_at"`
}

// FlightTabs is the three-bucket grouping the flight-operations service
// computes for the tabbed listing. Buckets are disjoint and server-defined.
type FlightTabs struct {
	Upcoming           []Flight `json:"upcoming"`
	Ongoing            []Flight `json:"ongoing"`
	CompletedCancelled []Flight `json:"completed_cancelled"`
}

// Booking is a flight-operations booking record.
type Booking struct {
	ID          int64     `json:"id"`
	FlightID    int64     `json:"flight_id"`
	UserID      int64     `json:"user_id"`
	TicketPrice float64   `json:"ticket_price"`
	Status      string    `json:"status"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// Rating is a flight-operations rating record.
type Rating struct {
	ID        int64     `json:"id"`
	FlightID  int64     `json:"flight_id"`
	UserID    int64     `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt Timestamp `json:"created_at"`
}

// RegisterRequest is the profile submitted to the identity service.
type RegisterRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DateOfBirth  string `json:"date_of_birth"`
	Gender       string `json:"gender"`
	Country      string `json:"country"`
	Street       string `json:"street"`
	StreetNumber string `json:"street_number"`
}

// FlightCreateRequest is the manager-submitted flight proposal.
type FlightCreateRequest struct {
	Name             string  `json:"name"`
	AirlineID        int64   `json:"airline_id"`
	DistanceKM       float64 `json:"distance_km"`
	DurationMinutes  int     `json:"duration_minutes"`
	DepartureTime    string  `json:"departure_time"`
	DepartureAirport string  `json:"departure_airport"`
	ArrivalAirport   string  `json:"arrival_airport"`
	TicketPrice      float64 `json:"ticket_price"`
}

// FlightUpdateRequest carries the mutable flight fields; nil fields are
// omitted and left unchanged.
type FlightUpdateRequest struct {
	Name             *string  `json:"name,omitempty"`
	DistanceKM       *float64 `json:"distance_km,omitempty"`
	DurationMinutes  *int     `json:"duration_minutes,omitempty"`
	DepartureTime    *string  `json:"departure_time,omitempty"`
	DepartureAirport *string  `json:"departure_airport,omitempty"`
	ArrivalAirport   *string  `json:"arrival_airport,omitempty"`
	TicketPrice      *float64 `json:"ticket_price,omitempty"`
}

// UserUpdateRequest carries the mutable profile fields; nil fields are
// omitted and left unchanged.
type UserUpdateRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Gender       *string `json:"gender,omitempty"`
	Country      *string `json:"country,omitempty"`
	Street       *string `json:"street,omitempty"`
	StreetNumber *string `json:"street_number,omitempty"`
}

// AirlineRequest creates or updates an airline.
type AirlineRequest struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Country     string `json:"country"`
	Description string `json:"description,omitempty"`
	LogoURL     string `json:"logo_url,omitempty"`
}
