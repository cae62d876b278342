// ABOUTME: Tests for the notification queue, dedupe cache, and SSE channel
// ABOUTME: Uses httptest SSE servers to exercise connect, dedupe, and retry

package notify

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

	"github.com/skylane/flightdeck/internal/credential"
)

func TestPrepend_NewestFirstWithEviction(t *testing.T) {
	var queue []Notification
	for i := 0; i < MaxNotifications+1; i++ {
		queue = prepend(queue, Notification{Message: fmt.Sprintf("flight %d", i)})
	}

	require.Len(t, queue, MaxNotifications)
	assert.Equal(t, "flight 50", queue[0].Message, "newest entry should be first")
	assert.Equal(t, "flight 1", queue[len(queue)-1].Message, "oldest surviving entry at the tail")
	for _, n := range queue {
		assert.NotEqual(t, "flight 0", n.Message, "first entry should have been evicted")
	}
}

func TestSeenCache_Replay(t *testing.T) {
	cache := newSeenCache(time.Minute, 10)

	assert.False(t, cache.checkAndMark("new_flight:a"))
	assert.True(t, cache.checkAndMark("new_flight:a"), "replayed key should be marked seen")
	assert.False(t, cache.checkAndMark("new_flight:b"))
}

func TestSeenCache_TTLExpiry(t *testing.T) {
	cache := newSeenCache(20*time.Millisecond, 10)

	assert.False(t, cache.checkAndMark("k"))
	time.Sleep(30 * time.Millisecond)
	assert.False(t, cache.checkAndMark("k"), "expired entries should not count as seen")
}

func TestSeenCache_CapacityEviction(t *testing.T) {
	cache := newSeenCache(time.Minute, 2)

	cache.checkAndMark("a")
	cache.checkAndMark("b")
	cache.checkAndMark("c") // evicts a

	assert.False(t, cache.checkAndMark("a"), "oldest key should have been evicted")
	assert.True(t, cache.checkAndMark("b"))
	assert.True(t, cache.checkAndMark("c"))
}

func testStore(t *testing.T, token string) *credential.Store {
	t.Helper()
	t.Setenv("FLIGHTDECK_TOKEN", "")
	store, err := credential.NewStore(filepath.Join(t.TempDir(), "token"), slog.Default())
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, store.Save(token))
	}
	return store
}

// sseServer streams the given raw SSE frames, then holds the connection
// open until the client goes away.
func sseServer(t *testing.T, requests *atomic.Int64, frames ...string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			requests.Add(1)
		}
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestChannel(t *testing.T, url string, maxAttempts int) *Channel {
	t.Helper()
	return New(Options{
		EventsURL:   url,
		Credentials: testStore(t, "tok"),
		MaxAttempts: maxAttempts,
		RetryDelay:  5 * time.Millisecond,
		Logger:      slog.Default(),
	})
}

func TestChannel_ReceivesNotifications(t *testing.T) {
	server := sseServer(t, nil,
		"event: new_flight\ndata: {\"id\": 1, \"name\": \"BEG-NYC-001\"}\n\n",
		"event: new_flight\ndata: {\"id\": 2, \"name\": \"JFK-PAR-002\"}\n\n",
	)

	channel := newTestChannel(t, server.URL, 1)
	channel.Connect(context.Background())
	defer channel.Disconnect()

	require.Eventually(t, func() bool { return channel.Len() == 2 },
		time.Second, 5*time.Millisecond)

	notifications := channel.Notifications()
	assert.Equal(t, "New flight created: JFK-PAR-002", notifications[0].Message,
		"newest notification first")
	assert.Equal(t, "New flight created: BEG-NYC-001", notifications[1].Message)
	assert.Equal(t, "new_flight", notifications[0].Kind)
	assert.Equal(t, StateConnected, channel.State())

	select {
	case <-channel.Changed():
	default:
		t.Fatal("expected a pending change signal")
	}
}

func TestChannel_SuppressesReplayedEvents(t *testing.T) {
	frame := "event: new_flight\ndata: {\"id\": 9, \"name\": \"LHR-FRA-009\"}\n\n"
	server := sseServer(t, nil, frame, frame)

	channel := newTestChannel(t, server.URL, 1)
	channel.Connect(context.Background())
	defer channel.Disconnect()

	require.Eventually(t, func() bool { return channel.Len() == 1 },
		time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, channel.Len(), "identical replayed event should not enqueue twice")
}

func TestChannel_IgnoresUnknownEventsAndComments(t *testing.T) {
	server := sseServer(t, nil,
		": heartbeat\n\n",
		"event: flight_deleted\ndata: {\"id\": 3}\n\n",
		"event: new_flight\ndata: {\"id\": 4, \"name\": \"CDG-AMS-004\"}\n\n",
	)

	channel := newTestChannel(t, server.URL, 1)
	channel.Connect(context.Background())
	defer channel.Disconnect()

	require.Eventually(t, func() bool { return channel.Len() == 1 },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, "New flight created: CDG-AMS-004", channel.Notifications()[0].Message)
}

func TestChannel_SendsBearerToken(t *testing.T) {
	var header atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	channel := newTestChannel(t, server.URL, 1)
	channel.Connect(context.Background())
	defer channel.Disconnect()

	require.Eventually(t, func() bool { return header.Load() != nil },
		time.Second, 5*time.Millisecond)
	assert.Equal(t, "Bearer tok", header.Load())
}

func TestChannel_ReconnectAttemptsBounded(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	channel := newTestChannel(t, server.URL, 3)
	channel.Connect(context.Background())

	require.Eventually(t, func() bool {
		return requests.Load() == 3 && channel.State() == StateDisconnected
	}, time.Second, 5*time.Millisecond)

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int64(3), requests.Load(), "no further attempts after exhaustion")
}

func TestChannel_DisconnectStopsRetrying(t *testing.T) {
	var requests atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	channel := New(Options{
		EventsURL:   server.URL,
		Credentials: testStore(t, "tok"),
		MaxAttempts: 1000,
		RetryDelay:  5 * time.Millisecond,
		Logger:      slog.Default(),
	})
	channel.Connect(context.Background())

	require.Eventually(t, func() bool { return requests.Load() >= 2 },
		time.Second, time.Millisecond)
	channel.Disconnect()
	assert.Equal(t, StateDisconnected, channel.State())

	settled := requests.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, requests.Load(), "no attempts after disconnect")
}

func TestChannel_RemoveAndClear(t *testing.T) {
	channel := New(Options{Credentials: testStore(t, "")})
	channel.handleEvent("new_flight", `{"id": 1, "name": "one"}`)
	channel.handleEvent("new_flight", `{"id": 2, "name": "two"}`)
	drainChanged(channel)

	channel.Remove(0)
	require.Equal(t, 1, channel.Len())
	assert.Equal(t, "New flight created: one", channel.Notifications()[0].Message)

	channel.Remove(5) // out of range, ignored
	assert.Equal(t, 1, channel.Len())

	drainChanged(channel)
	channel.Clear()
	assert.Equal(t, 0, channel.Len())
	select {
	case <-channel.Changed():
	default:
		t.Fatal("clear should signal a length change")
	}

	drainChanged(channel)
	channel.Clear()
	select {
	case <-channel.Changed():
		t.Fatal("clearing an empty queue should not signal")
	default:
	}
}

func drainChanged(c *Channel) {
	select {
	case <-c.Changed():
	default:
	}
}
