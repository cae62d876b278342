// ABOUTME: Background refresher driving the flight model from its triggers
// ABOUTME: Immediate fetch, periodic ticker, notification kicks, booking reconcile

package flights

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/skylane/flightdeck/internal/api"
)

// RefresherOptions configures a Refresher.
type RefresherOptions struct {
	FlightOps *api.FlightOps
	Identity  *api.Identity
	Model     *Model

	// Interval is the periodic refresh cadence.
	Interval time.Duration

	// ReconcileDelay is how long after a booking settles the catalogue
	// gets re-fetched, giving the server time to apply the booking.
	ReconcileDelay time.Duration

	Logger *slog.Logger
}

// Refresher keeps a Model up to date. Start it once; Close makes it
// drop any in-flight result and stop.
type Refresher struct {
	opts   RefresherOptions
	logger *slog.Logger

	// kick requests one refresh; multiple kicks coalesce.
	kick chan struct{}

	closeOnce sync.Once
	closed    chan struct{}
}

// NewRefresher creates a stopped refresher.
func NewRefresher(opts RefresherOptions) *Refresher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		opts:   opts,
		logger: logger.With("component", "flights"),
		kick:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

// Start runs the refresh loop until the context is cancelled or Close
// is called. notifications is the queue-length-change signal from the
// notification channel; nil disables that trigger.
func (r *Refresher) Start(ctx context.Context, notifications <-chan struct{}) {
	go r.loop(ctx, notifications)
}

// Kick requests a refresh. Kicks arriving while one is already pending
// fold into it.
func (r *Refresher) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// ScheduleReconcile kicks a refresh after the reconcile delay. Used
// after a booking is accepted so the re-fetched catalogue reflects it.
func (r *Refresher) ScheduleReconcile() {
	r.logger.Debug("reconcile scheduled", "delay", r.opts.ReconcileDelay)
	timer := time.AfterFunc(r.opts.ReconcileDelay, func() {
		select {
		case <-r.closed:
		default:
			r.Kick()
		}
	})
	// Stop the timer if the refresher closes first.
	go func() {
		<-r.closed
		timer.Stop()
	}()
}

// Close stops the refresher. Results of any fetch still in flight are
// discarded, never applied to the model.
func (r *Refresher) Close() {
	r.closeOnce.Do(func() { close(r.closed) })
}

func (r *Refresher) loop(ctx context.Context, notifications <-chan struct{}) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.closed:
			return
		case <-ticker.C:
			r.refresh(ctx)
		case <-notifications:
			r.logger.Debug("refreshing on notification")
			r.refresh(ctx)
		case <-r.kick:
			r.refresh(ctx)
		}
	}
}

// refresh fetches the catalogue and replaces the snapshot wholesale.
// A failed airline fetch keeps the previous airline list; a failed tab
// fetch keeps the whole previous snapshot and surfaces the error.
func (r *Refresher) refresh(ctx context.Context) {
	tabs, err := r.opts.FlightOps.FlightTabs(ctx)
	if err != nil {
		r.logger.Warn("fetching flights", "error", err)
		if !r.isClosed() {
			r.opts.Model.fail(err)
		}
		return
	}

	airlines, err := r.opts.Identity.ListAirlines(ctx, true)
	if err != nil {
		r.logger.Warn("fetching airlines, keeping previous list", "error", err)
		airlines = r.opts.Model.Snapshot().Airlines
	}

	if r.isClosed() {
		r.logger.Debug("refresher closed, discarding fetched snapshot")
		return
	}

	r.opts.Model.apply(Snapshot{
		Tabs:      *tabs,
		Airlines:  airlines,
		FetchedAt: time.Now(),
	})
}

func (r *Refresher) isClosed() bool {
	select {
	case <-r.closed:
		return true
	default:
		return false
	}
}
