// ABOUTME: Auto-reconnecting SSE channel feeding the bounded notification queue
// ABOUTME: Connects only while authenticated; exhausted reconnects degrade silently

package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skylane/flightdeck/internal/credential"
)

// State is the connection state of the channel.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Defaults for the reconnection policy and replay suppression.
const (
	DefaultMaxAttempts = 5
	DefaultRetryDelay  = time.Second

	seenTTL     = 5 * time.Minute
	seenMaxSize = 256
)

// Options configures a Channel.
type Options struct {
	// EventsURL is the SSE endpoint on the flight-operations service.
	EventsURL string

	// Credentials supplies the bearer token at connect time.
	Credentials *credential.Store

	// HTTPClient overrides the transport. Defaults to http.DefaultClient.
	HTTPClient *http.Client

	// MaxAttempts bounds consecutive failed connection attempts.
	MaxAttempts int

	// RetryDelay is the fixed wait between attempts.
	RetryDelay time.Duration

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Channel is the push-notification channel. Construct with New, start
// with Connect when the session authenticates, stop with Disconnect on
// logout or teardown.
type Channel struct {
	opts   Options
	logger *slog.Logger
	seen   *seenCache

	mu      sync.Mutex
	state   State
	queue   []Notification
	running bool
	cancel  context.CancelFunc
	done    chan struct{}

	// changed is a coalesced signal: one pending tick means "the queue
	// length changed at least once since you last looked".
	changed chan struct{}
}

// New creates a disconnected channel.
func New(opts Options) *Channel {
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		opts:    opts,
		logger:  logger.With("component", "notify"),
		seen:    newSeenCache(seenTTL, seenMaxSize),
		changed: make(chan struct{}, 1),
	}
}

// Connect starts the connection loop. No-op while one is already
// running. The caller guarantees the session is authenticated; an
// unauthenticated connect just fails its attempts and goes quiet.
func (c *Channel) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	c.running = true
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	go func() {
		defer func() {
			c.mu.Lock()
			c.running = false
			c.cancel = nil
			c.mu.Unlock()
			close(done)
		}()
		c.loop(loopCtx)
	}()
}

// Disconnect tears the channel down and waits for the loop to stop.
// Safe to call in any state.
func (c *Channel) Disconnect() {
	c.mu.Lock()
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	c.setState(StateDisconnected)
}

// loop connects and reconnects until the context is cancelled or the
// attempt budget is spent. Exhaustion is silent: no error reaches the
// UI, the periodic poll elsewhere keeps the data flowing.
func (c *Channel) loop(ctx context.Context) {
	attempts := 0
	for {
		if attempts == 0 {
			c.setState(StateConnecting)
		} else {
			c.setState(StateReconnecting)
		}

		hadConnection, err := c.stream(ctx)
		if ctx.Err() != nil {
			c.setState(StateDisconnected)
			return
		}
		if hadConnection {
			// A live connection was lost; the outage gets a fresh
			// attempt budget.
			attempts = 0
		}

		attempts++
		if attempts > c.opts.MaxAttempts {
			c.logger.Warn("reconnect attempts exhausted, staying disconnected",
				"attempts", c.opts.MaxAttempts)
			c.setState(StateDisconnected)
			return
		}

		c.logger.Debug("connection lost, retrying",
			"attempt", attempts,
			"delay", c.opts.RetryDelay,
			"error", err)

		select {
		case <-ctx.Done():
			c.setState(StateDisconnected)
			return
		case <-time.After(c.opts.RetryDelay):
		}
	}
}

// stream holds one SSE connection open, dispatching events until the
// transport drops. Returns whether a connection was established.
func (c *Channel) stream(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.opts.EventsURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	if token, ok := c.opts.Credentials.Load(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpClient := c.opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("connecting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	c.setState(StateConnected)
	c.logger.Info("notification channel connected")

	scanner := bufio.NewScanner(resp.Body)

	var eventType string
	var data string
	for scanner.Scan() {
		line := scanner.Text()

		// Empty line terminates one event.
		if line == "" {
			if eventType != "" && data != "" {
				c.handleEvent(eventType, data)
			}
			eventType = ""
			data = ""
			continue
		}

		if after, ok := strings.CutPrefix(line, "event:"); ok {
			eventType = strings.TrimPrefix(after, " ")
		} else if after, ok := strings.CutPrefix(line, "data:"); ok {
			if data != "" {
				data += "\n"
			}
			data += strings.TrimPrefix(after, " ")
		}
		// Comment lines (":heartbeat") and unknown fields are ignored.
	}

	return true, scanner.Err()
}

// handleEvent turns one domain event into a queued notification.
func (c *Channel) handleEvent(kind, data string) {
	switch kind {
	case "new_flight":
	default:
		c.logger.Debug("ignoring event", "kind", kind)
		return
	}

	if c.seen.checkAndMark(kind + ":" + data) {
		c.logger.Debug("duplicate event suppressed", "kind", kind)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		c.logger.Warn("undecodable event payload", "kind", kind, "error", err)
		return
	}

	notification := Notification{
		ID:         uuid.New().String(),
		Kind:       kind,
		Message:    fmt.Sprintf("New flight created: %s", payload.Name),
		Payload:    json.RawMessage(data),
		ReceivedAt: time.Now(),
	}

	c.mu.Lock()
	c.queue = prepend(c.queue, notification)
	c.mu.Unlock()

	c.logger.Debug("notification queued", "kind", kind, "message", notification.Message)
	c.signalChanged()
}

// Notifications returns a copy of the queue, newest first.
func (c *Channel) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Notification, len(c.queue))
	copy(out, c.queue)
	return out
}

// Len returns the queue length.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Remove deletes the notification at the given position. Out-of-range
// positions are ignored.
func (c *Channel) Remove(index int) {
	c.mu.Lock()
	if index < 0 || index >= len(c.queue) {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue[:index], c.queue[index+1:]...)
	c.mu.Unlock()

	c.signalChanged()
}

// Clear empties the queue.
func (c *Channel) Clear() {
	c.mu.Lock()
	empty := len(c.queue) == 0
	c.queue = nil
	c.mu.Unlock()

	if !empty {
		c.signalChanged()
	}
}

// Changed returns the coalesced queue-length-change signal. The flight
// view model refreshes on every tick.
func (c *Channel) Changed() <-chan struct{} {
	return c.changed
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Channel) setState(state State) {
	c.mu.Lock()
	changed := c.state != state
	c.state = state
	c.mu.Unlock()

	if changed {
		c.logger.Debug("channel state", "state", state.String())
	}
}

func (c *Channel) signalChanged() {
	select {
	case c.changed <- struct{}{}:
	default:
	}
}
