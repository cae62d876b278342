// ABOUTME: Booking submission protocol with per-flight duplicate guarding
// ABOUTME: Accepted bookings schedule a delayed catalogue reconcile

// Package booking coordinates booking submission. The server accepts a
// booking and finishes processing it asynchronously without any push
// signal, so an accepted submission schedules a delayed catalogue
// refresh to observe the outcome. A flight can have at most one
// submission in flight at a time.
package booking

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/skylane/flightdeck/internal/api"
)

// ErrInProgress is returned when a submission for the same flight has
// not settled yet.
var ErrInProgress = errors.New("booking already in progress for this flight")

// Reconciler schedules the delayed refresh that follows an accepted
// booking. *flights.Refresher satisfies it.
type Reconciler interface {
	ScheduleReconcile()
}

// Submitter submits bookings through the flight-operations gateway.
type Submitter struct {
	flightOps  *api.FlightOps
	reconciler Reconciler
	logger     *slog.Logger

	mu       sync.Mutex
	inFlight map[int64]bool
}

// NewSubmitter creates a submitter. reconciler may be nil, in which
// case accepted bookings schedule no follow-up refresh.
func NewSubmitter(flightOps *api.FlightOps, reconciler Reconciler, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submitter{
		flightOps:  flightOps,
		reconciler: reconciler,
		logger:     logger.With("component", "booking"),
		inFlight:   make(map[int64]bool),
	}
}

// InFlight reports whether a submission for the flight has not settled.
// The UI disables the book action while this is true.
func (s *Submitter) InFlight(flightID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight[flightID]
}

// Submit books the flight for the user. The per-flight guard is set for
// the duration of the request and cleared unconditionally when it
// settles, success or failure. Only an accepted booking schedules the
// reconcile refresh.
func (s *Submitter) Submit(ctx context.Context, flightID, userID int64) (*api.BookingResult, error) {
	s.mu.Lock()
	if s.inFlight[flightID] {
		s.mu.Unlock()
		return nil, ErrInProgress
	}
	s.inFlight[flightID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, flightID)
		s.mu.Unlock()
	}()

	result, err := s.flightOps.CreateBooking(ctx, flightID, userID)
	if err != nil {
		s.logger.Warn("booking rejected", "flight_id", flightID, "error", err)
		return nil, err
	}

	s.logger.Info("booking accepted", "flight_id", flightID, "booking_id", result.Booking.ID)
	if s.reconciler != nil {
		s.reconciler.ScheduleReconcile()
	}
	return result, nil
}
