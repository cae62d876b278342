// ABOUTME: Tests for the flight snapshot model, filter, and refresher triggers
// ABOUTME: Uses a fake two-backend server counting catalogue fetches

package flights

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/credential"
)

func testFlights() []api.Flight {
	return []api.Flight{
		{ID: 1, Name: "BEG-NYC-001", AirlineID: 1},
		{ID: 2, Name: "JFK-PAR-002", AirlineID: 2},
		{ID: 3, Name: "beg-vie-003", AirlineID: 1},
	}
}

func TestFilter_NameSubstringCaseInsensitive(t *testing.T) {
	out := Filter(testFlights(), "beg", 0)
	require.Len(t, out, 2)
	assert.Equal(t, "BEG-NYC-001", out[0].Name)
	assert.Equal(t, "beg-vie-003", out[1].Name)

	out = Filter(testFlights(), "NYC", 0)
	require.Len(t, out, 1)
	assert.Equal(t, "BEG-NYC-001", out[0].Name)
}

func TestFilter_AirlineExactMatch(t *testing.T) {
	out := Filter(testFlights(), "", 2)
	require.Len(t, out, 1)
	assert.Equal(t, "JFK-PAR-002", out[0].Name)
}

func TestFilter_BothConditionsApply(t *testing.T) {
	out := Filter(testFlights(), "beg", 1)
	require.Len(t, out, 2)

	out = Filter(testFlights(), "beg", 2)
	assert.Empty(t, out, "substring match on the wrong airline should be excluded")
}

func TestFilter_BlankQueryMatchesAll(t *testing.T) {
	assert.Len(t, Filter(testFlights(), "  ", 0), 3)
}

type fixture struct {
	tabFetches     atomic.Int64
	airlineFetches atomic.Int64
	tabStatus      atomic.Int64 // 0 means 200

	flightOps *api.FlightOps
	identity  *api.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/flights/tabs", func(w http.ResponseWriter, r *http.Request) {
		n := f.tabFetches.Add(1)
		if status := f.tabStatus.Load(); status != 0 {
			w.WriteHeader(int(status))
			fmt.Fprint(w, `{"error": "unavailable"}`)
			return
		}
		// Each fetch returns a distinct flight so tests can observe
		// wholesale replacement.
		fmt.Fprintf(w, `{"upcoming": [{"id": %d, "name": "fetch-%d", "airline_id": 1}], "ongoing": [], "completed_cancelled": []}`, n, n)
	})
	mux.HandleFunc("/api/airlines", func(w http.ResponseWriter, r *http.Request) {
		f.airlineFetches.Add(1)
		fmt.Fprint(w, `{"airlines": [{"id": 1, "name": "Air Serbia", "code": "JU", "is_active": true}]}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	t.Setenv("FLIGHTDECK_TOKEN", "")
	store, err := credential.NewStore(filepath.Join(t.TempDir(), "token"), slog.Default())
	require.NoError(t, err)
	policy := &api.Policy{Credentials: store}

	f.flightOps = api.NewFlightOps(server.URL, policy)
	f.identity = api.NewIdentity(server.URL, policy)
	return f
}

func newTestRefresher(t *testing.T, f *fixture, interval time.Duration) (*Refresher, *Model) {
	t.Helper()
	model := NewModel()
	refresher := NewRefresher(RefresherOptions{
		FlightOps:      f.flightOps,
		Identity:       f.identity,
		Model:          model,
		Interval:       interval,
		ReconcileDelay: 10 * time.Millisecond,
		Logger:         slog.Default(),
	})
	t.Cleanup(refresher.Close)
	return refresher, model
}

func TestRefresher_InitialFetchClearsLoading(t *testing.T) {
	f := newFixture(t)
	refresher, model := newTestRefresher(t, f, time.Hour)

	require.True(t, model.Loading())
	refresher.Start(context.Background(), nil)

	require.Eventually(t, func() bool { return !model.Loading() },
		time.Second, 5*time.Millisecond)

	snap := model.Snapshot()
	require.Len(t, snap.Tabs.Upcoming, 1)
	assert.Equal(t, "fetch-1", snap.Tabs.Upcoming[0].Name)
	require.Len(t, snap.Airlines, 1)
	assert.Equal(t, "Air Serbia", snap.Airlines[0].Name)
	assert.NoError(t, model.Err())
}

func TestRefresher_PeriodicTicker(t *testing.T) {
	f := newFixture(t)
	refresher, _ := newTestRefresher(t, f, 15*time.Millisecond)
	refresher.Start(context.Background(), nil)

	require.Eventually(t, func() bool { return f.tabFetches.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestRefresher_NotificationTrigger(t *testing.T) {
	f := newFixture(t)
	refresher, model := newTestRefresher(t, f, time.Hour)

	notifications := make(chan struct{}, 1)
	refresher.Start(context.Background(), notifications)
	require.Eventually(t, func() bool { return f.tabFetches.Load() == 1 },
		time.Second, 5*time.Millisecond)

	notifications <- struct{}{}
	require.Eventually(t, func() bool { return f.tabFetches.Load() == 2 },
		time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		snap := model.Snapshot()
		return len(snap.Tabs.Upcoming) == 1 && snap.Tabs.Upcoming[0].Name == "fetch-2"
	}, time.Second, 5*time.Millisecond)
}

func TestRefresher_ScheduleReconcile(t *testing.T) {
	f := newFixture(t)
	refresher, _ := newTestRefresher(t, f, time.Hour)
	refresher.Start(context.Background(), nil)
	require.Eventually(t, func() bool { return f.tabFetches.Load() == 1 },
		time.Second, 5*time.Millisecond)

	refresher.ScheduleReconcile()
	require.Eventually(t, func() bool { return f.tabFetches.Load() == 2 },
		time.Second, 5*time.Millisecond)
}

func TestRefresher_FailedFetchKeepsStaleSnapshot(t *testing.T) {
	f := newFixture(t)
	refresher, model := newTestRefresher(t, f, time.Hour)
	refresher.Start(context.Background(), nil)

	require.Eventually(t, func() bool { return !model.Loading() },
		time.Second, 5*time.Millisecond)
	require.Len(t, model.Snapshot().Tabs.Upcoming, 1)

	f.tabStatus.Store(http.StatusServiceUnavailable)
	refresher.Kick()

	require.Eventually(t, func() bool { return model.Err() != nil },
		time.Second, 5*time.Millisecond)
	assert.Len(t, model.Snapshot().Tabs.Upcoming, 1, "stale snapshot survives a failed fetch")
	assert.Equal(t, "fetch-1", model.Snapshot().Tabs.Upcoming[0].Name)
}

func TestRefresher_CloseDiscardsInFlightResult(t *testing.T) {
	f := newFixture(t)
	refresher, model := newTestRefresher(t, f, time.Hour)
	refresher.Close()

	// Run one refresh directly; the closed refresher must not apply it.
	refresher.refresh(context.Background())
	assert.Equal(t, int64(1), f.tabFetches.Load())
	assert.True(t, model.Loading(), "closed refresher must not touch the model")
}

func TestRefresher_KicksCoalesce(t *testing.T) {
	f := newFixture(t)
	refresher, _ := newTestRefresher(t, f, time.Hour)

	refresher.Kick()
	refresher.Kick()
	refresher.Kick()
	refresher.Start(context.Background(), nil)

	require.Eventually(t, func() bool { return f.tabFetches.Load() == 2 },
		time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(2), f.tabFetches.Load(),
		"start fetch plus one coalesced kick")
}
