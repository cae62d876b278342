// ABOUTME: Bubbletea messages and the commands that deliver them
// ABOUTME: Listen commands bridge background signal channels into the loop

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/api"
)

// bootstrapDoneMsg is sent when the session restore attempt settles.
type bootstrapDoneMsg struct{}

// authChangedMsg is an authentication transition from the session
// manager's subscription channel.
type authChangedMsg struct {
	authenticated bool
}

// snapshotMsg means the flight model replaced its snapshot.
type snapshotMsg struct{}

// notifChangedMsg means the notification queue length changed.
type notifChangedMsg struct{}

// minuteTickMsg drives the countdown projection.
type minuteTickMsg struct{}

// loginResultMsg carries the outcome of an asynchronous login.
type loginResultMsg struct {
	user *api.User
	err  error
}

// registerResultMsg carries the outcome of an asynchronous registration.
type registerResultMsg struct {
	err error
}

// logoutDoneMsg is sent after the logout sequence completes.
type logoutDoneMsg struct{}

// bookingResultMsg carries the outcome of a booking submission.
type bookingResultMsg struct {
	flightID int64
	result   *api.BookingResult
	err      error
}

// actionResultMsg carries the outcome of a dashboard action
// (approve, reject, cancel, create, role change, balance top-up).
type actionResultMsg struct {
	notice string
	err    error
}

// usersLoadedMsg carries a fetched page of accounts for the admin
// dashboard.
type usersLoadedMsg struct {
	page *api.UserPage
	err  error
}

// pendingLoadedMsg carries the pending-approval flights for the admin
// dashboard.
type pendingLoadedMsg struct {
	flights []api.Flight
	err     error
}

// bannerFadeMsg clears the status banner after its display delay.
type bannerFadeMsg struct{}

// bannerFadeDelay is how long a status banner stays visible.
const bannerFadeDelay = 4 * time.Second

// listenAuth blocks until the session manager reports an auth
// transition. Re-armed after every delivery.
func listenAuth(changes <-chan bool) tea.Cmd {
	return func() tea.Msg {
		authenticated, ok := <-changes
		if !ok {
			return nil
		}
		return authChangedMsg{authenticated: authenticated}
	}
}

// listenSnapshot blocks until the flight model publishes a new snapshot.
func listenSnapshot(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return snapshotMsg{}
	}
}

// listenNotify blocks until the notification queue length changes.
func listenNotify(changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return notifChangedMsg{}
	}
}

// minuteTick schedules the next countdown tick.
func minuteTick() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg {
		return minuteTickMsg{}
	})
}

// fadeBanner schedules the banner clear.
func fadeBanner() tea.Cmd {
	return tea.Tick(bannerFadeDelay, func(time.Time) tea.Msg {
		return bannerFadeMsg{}
	})
}

// bootstrap runs the session restore attempt off the loop.
func bootstrap(ctx context.Context, run func(context.Context)) tea.Cmd {
	return func() tea.Msg {
		run(ctx)
		return bootstrapDoneMsg{}
	}
}
