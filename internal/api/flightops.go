// ABOUTME: Flight-operations service operations: flights, approvals, bookings, ratings, reports
// ABOUTME: Thin typed wrappers over the shared gateway client

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// FlightOps is the gateway to the flight-operations service.
type FlightOps struct {
	c *Client
}

// NewFlightOps builds the flight-operations gateway from a base URL and
// the shared interception policy.
func NewFlightOps(baseURL string, policy *Policy) *FlightOps {
	return &FlightOps{c: NewClient(baseURL, policy)}
}

// EventsURL returns the SSE endpoint the notification channel connects to.
func (f *FlightOps) EventsURL() string {
	return f.c.BaseURL() + "/api/events"
}

// FlightFilters narrows the full flight listing. Zero values are omitted.
type FlightFilters struct {
	Name      string
	AirlineID int64
	Status    string
}

// CreateFlight submits a flight proposal; it enters the approval workflow
// as PENDING.
func (f *FlightOps) CreateFlight(ctx context.Context, req FlightCreateRequest) (*Flight, error) {
	var envelope struct {
		Flight Flight `json:"flight"`
	}
	if err := f.c.post(ctx, "/api/flights", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Flight, nil
}

// ListFlights fetches flights matching the filters.
func (f *FlightOps) ListFlights(ctx context.Context, filters FlightFilters) ([]Flight, error) {
	query := url.Values{}
	if filters.Name != "" {
		query.Set("name", filters.Name)
	}
	if filters.AirlineID != 0 {
		query.Set("airline_id", strconv.FormatInt(filters.AirlineID, 10))
	}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}

	var envelope struct {
		Flights []Flight `json:"flights"`
	}
	if err := f.c.get(ctx, "/api/flights", query, &envelope); err != nil {
		return nil, err
	}
	return envelope.Flights, nil
}

// FlightTabs fetches all three display buckets in one combined call. This
// is the refresh path: the caller replaces its snapshot wholesale.
func (f *FlightOps) FlightTabs(ctx context.Context) (*FlightTabs, error) {
	var tabs FlightTabs
	if err := f.c.get(ctx, "/api/flights/tabs", nil, &tabs); err != nil {
		return nil, err
	}
	return &tabs, nil
}

// PendingFlights fetches flights awaiting approval, newest first.
func (f *FlightOps) PendingFlights(ctx context.Context) ([]Flight, error) {
	var envelope struct {
		Flights []Flight `json:"flights"`
		Total   int      `json:"total"`
	}
	if err := f.c.get(ctx, "/api/flights/pending", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Flights, nil
}

// GetFlight fetches one flight by id.
func (f *FlightOps) GetFlight(ctx context.Context, flightID int64) (*Flight, error) {
	var envelope struct {
		Flight Flight `json:"flight"`
	}
	if err := f.c.get(ctx, fmt.Sprintf("/api/flights/%d", flightID), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Flight, nil
}

// ApproveFlight transitions a pending flight to APPROVED.
func (f *FlightOps) ApproveFlight(ctx context.Context, flightID int64) error {
	body := map[string]string{"action": "approve"}
	return f.c.post(ctx, fmt.Sprintf("/api/flights/%d/approve", flightID), body, nil)
}

// RejectFlight transitions a pending flight to REJECTED with a reason.
func (f *FlightOps) RejectFlight(ctx context.Context, flightID int64, reason string) error {
	body := map[string]string{
		"action":           "reject",
		"rejection_reason": reason,
	}
	return f.c.post(ctx, fmt.Sprintf("/api/flights/%d/approve", flightID), body, nil)
}

// UpdateFlight updates flight fields.
func (f *FlightOps) UpdateFlight(ctx context.Context, flightID int64, req FlightUpdateRequest) error {
	return f.c.put(ctx, fmt.Sprintf("/api/flights/%d", flightID), req, nil)
}

// CancelFlight transitions a flight to CANCELLED.
func (f *FlightOps) CancelFlight(ctx context.Context, flightID int64) error {
	return f.c.post(ctx, fmt.Sprintf("/api/flights/%d/cancel", flightID), nil, nil)
}

// DeleteFlight removes a flight record.
func (f *FlightOps) DeleteFlight(ctx context.Context, flightID int64) error {
	return f.c.delete(ctx, fmt.Sprintf("/api/flights/%d", flightID), nil)
}

// GenerateReport requests a server-built report. The payload shape varies
// by report type, so it is returned raw for the caller to render.
func (f *FlightOps) GenerateReport(ctx context.Context, reportType string, adminID int64) (json.RawMessage, error) {
	body := map[string]any{
		"report_type": reportType,
		"admin_id":    adminID,
	}
	var raw json.RawMessage
	if err := f.c.post(ctx, "/api/flights/report", body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// BookingResult is the accepted-booking payload. Acceptance is synchronous;
// processing completes asynchronously on the server with no push signal.
type BookingResult struct {
	Message string  `json:"message"`
	Booking Booking `json:"booking"`
}

// CreateBooking submits a booking. A 202 means accepted for asynchronous
// processing; the caller schedules a reconciliation refresh to observe the
// outcome.
func (f *FlightOps) CreateBooking(ctx context.Context, flightID, userID int64) (*BookingResult, error) {
	body := map[string]int64{
		"flight_id": flightID,
		"user_id":   userID,
	}
	var result BookingResult
	if err := f.c.post(ctx, "/api/bookings", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBooking fetches one booking by id.
func (f *FlightOps) GetBooking(ctx context.Context, bookingID int64) (*Booking, error) {
	var envelope struct {
		Booking Booking `json:"booking"`
	}
	if err := f.c.get(ctx, fmt.Sprintf("/api/bookings/%d", bookingID), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Booking, nil
}

// UserBookings fetches all bookings for a user.
func (f *FlightOps) UserBookings(ctx context.Context, userID int64) ([]Booking, error) {
	var envelope struct {
		Bookings []Booking `json:"bookings"`
	}
	if err := f.c.get(ctx, fmt.Sprintf("/api/bookings/user/%d", userID), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Bookings, nil
}

// FlightBookings fetches all bookings for a flight.
func (f *FlightOps) FlightBookings(ctx context.Context, flightID int64) ([]Booking, error) {
	var envelope struct {
		Bookings []Booking `json:"bookings"`
	}
	if err := f.c.get(ctx, fmt.Sprintf("/api/bookings/flight/%d", flightID), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Bookings, nil
}

// CreateRating rates a completed flight.
func (f *FlightOps) CreateRating(ctx context.Context, flightID, userID int64, stars int, comment string) (*Rating, error) {
	body := map[string]any{
		"flight_id": flightID,
		"user_id":   userID,
		"rating":    stars,
	}
	if comment != "" {
		body["comment"] = comment
	}

	var envelope struct {
		Rating Rating `json:"rating"`
	}
	if err := f.c.post(ctx, "/api/ratings", body, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Rating, nil
}

// FlightRatings fetches all ratings for a flight.
func (f *FlightOps) FlightRatings(ctx context.Context, flightID int64) ([]Rating, error) {
	var envelope struct {
		Ratings []Rating `json:"ratings"`
	}
	if err := f.c.get(ctx, fmt.Sprintf("/api/ratings/flight/%d", flightID), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Ratings, nil
}

// ListRatings fetches every rating.
func (f *FlightOps) ListRatings(ctx context.Context) ([]Rating, error) {
	var envelope struct {
		Ratings []Rating `json:"ratings"`
	}
	if err := f.c.get(ctx, "/api/ratings", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Ratings, nil
}
