// ABOUTME: Snapshot store for the flight catalogue and airline list
// ABOUTME: Wholesale replacement on every fetch, plus display-side filtering

package flights

import (
	"strings"
	"sync"
	"time"

	"github.com/skylane/flightdeck/internal/api"
)

// Snapshot is one consistent server view of the catalogue.
type Snapshot struct {
	Tabs      api.FlightTabs
	Airlines  []api.Airline
	FetchedAt time.Time
}

// Model holds the latest snapshot. It starts in loading state until the
// first fetch settles; after that a failed fetch keeps the stale
// snapshot and records the error.
type Model struct {
	mu       sync.Mutex
	loading  bool
	snapshot Snapshot
	err      error

	// changed carries a coalesced "snapshot replaced" signal.
	changed chan struct{}
}

// NewModel creates an empty model in loading state.
func NewModel() *Model {
	return &Model{
		loading: true,
		changed: make(chan struct{}, 1),
	}
}

// Snapshot returns the latest snapshot. Slices are shared with the
// model; treat them as read-only.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Loading reports whether the first fetch is still outstanding.
func (m *Model) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Err returns the error of the most recent fetch, nil after a success.
func (m *Model) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Changed returns the coalesced snapshot-change signal.
func (m *Model) Changed() <-chan struct{} {
	return m.changed
}

func (m *Model) apply(snapshot Snapshot) {
	m.mu.Lock()
	m.loading = false
	m.snapshot = snapshot
	m.err = nil
	m.mu.Unlock()

	m.signal()
}

func (m *Model) fail(err error) {
	m.mu.Lock()
	m.loading = false
	m.err = err
	m.mu.Unlock()

	m.signal()
}

func (m *Model) signal() {
	select {
	case m.changed <- struct{}{}:
	default:
	}
}

// Filter narrows one bucket for display. The name query matches as a
// case-insensitive substring; a non-zero airline ID must match exactly.
// Both conditions apply together.
func Filter(list []api.Flight, nameQuery string, airlineID int64) []api.Flight {
	query := strings.ToLower(strings.TrimSpace(nameQuery))

	var out []api.Flight
	for _, flight := range list {
		if query != "" && !strings.Contains(strings.ToLower(flight.Name), query) {
			continue
		}
		if airlineID != 0 && flight.AirlineID != airlineID {
			continue
		}
		out = append(out, flight)
	}
	return out
}
