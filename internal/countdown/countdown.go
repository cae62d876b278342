// ABOUTME: Client-side projection of a flight's server-reported remaining time
// ABOUTME: Ticks down between fetches; server observations always win

// Package countdown projects the remaining-minutes figure the
// flight-operations service reports for an ongoing flight. The server
// value is authoritative; the timer only fills the gaps between
// fetches so the display moves every minute.
package countdown

import "fmt"

// Timer tracks one flight's remaining minutes. The zero value is a
// timer for no flight; it formats as unknown.
type Timer struct {
	flightID int64
	known    bool
	minutes  int
	ongoing  bool
}

// Observe applies a fresh server view of the flight. When the flight
// identity changes, prior projection state is discarded first.
func (t *Timer) Observe(flightID int64, remaining *int, ongoing bool) {
	if flightID != t.flightID {
		*t = Timer{flightID: flightID}
	}
	t.ongoing = ongoing
	if remaining == nil {
		t.known = false
		t.minutes = 0
		return
	}
	t.known = true
	t.minutes = *remaining
	if t.minutes < 0 {
		t.minutes = 0
	}
}

// Tick advances the projection by one minute. Reaching zero marks the
// flight as no longer ongoing; the next fetch settles what actually
// happened.
func (t *Timer) Tick() {
	if !t.known || !t.ongoing {
		return
	}
	if t.minutes > 0 {
		t.minutes--
	}
	if t.minutes == 0 {
		t.ongoing = false
	}
}

// Ongoing reports whether the projected flight is still in the air.
func (t *Timer) Ongoing() bool {
	return t.ongoing
}

// Remaining returns the projected minutes and whether they are known.
func (t *Timer) Remaining() (int, bool) {
	return t.minutes, t.known
}

// Format renders the projection for display, "--" when the remaining
// time is unknown. A countdown that reached zero keeps showing
// "0h 0m" until a fetch replaces the projection.
func (t *Timer) Format() string {
	if !t.known {
		return "--"
	}
	return FormatMinutes(t.minutes)
}

// FormatMinutes renders a minute count as "{hours}h {minutes}m".
// Negative counts render as unknown.
func FormatMinutes(total int) string {
	if total < 0 {
		return "--"
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
