// ABOUTME: Top-level bubbletea model wiring screens, gating, and background signals
// ABOUTME: Auth transitions drive the refresher and notification channel lifecycle

package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/booking"
	"github.com/skylane/flightdeck/internal/countdown"
	"github.com/skylane/flightdeck/internal/flights"
	"github.com/skylane/flightdeck/internal/gate"
	"github.com/skylane/flightdeck/internal/notify"
	"github.com/skylane/flightdeck/internal/session"
)

// Screen identifies which view is active.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenRegister
	ScreenFlights
	ScreenNotifications
	ScreenProfile
	ScreenManager
	ScreenAdmin
)

// requiredRole returns the role a screen demands, empty when any
// authenticated identity may enter.
func (s Screen) requiredRole() string {
	switch s {
	case ScreenManager:
		return api.RoleManager
	case ScreenAdmin:
		return api.RoleAdministrator
	default:
		return ""
	}
}

// App bundles the wired services the TUI drives. The refresher and
// booking submitter are created per authenticated session, so App
// carries their ingredients rather than instances.
type App struct {
	Ctx     context.Context
	Session *session.Manager
	Flights *flights.Model

	Notifications *notify.Channel
	Identity      *api.Identity
	FlightOps     *api.FlightOps

	RefreshInterval time.Duration
	ReconcileDelay  time.Duration

	Logger *slog.Logger
}

// banner is the transient status line at the bottom of every screen.
type banner struct {
	text  string
	isErr bool
}

// Model is the top-level bubbletea model.
type Model struct {
	app    App
	keys   KeyMap
	theme  Theme
	logger *slog.Logger

	width  int
	height int

	screen      Screen
	authChanges <-chan bool

	// Per-session machinery, nil while signed out.
	refresher *flights.Refresher
	submitter *booking.Submitter

	// timers projects remaining minutes for ongoing flights between
	// fetches, keyed by flight id.
	timers map[int64]*countdown.Timer

	login    loginForm
	register registerForm
	fview    flightsView
	nview    notificationsView
	profile  profileView
	manager  managerView
	admin    adminView

	banner banner
}

// NewModel wires the top-level model. Call before tea.NewProgram.
func NewModel(app App) Model {
	logger := app.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		app:         app,
		keys:        DefaultKeyMap,
		theme:       DefaultTheme,
		logger:      logger.With("component", "tui"),
		screen:      ScreenLogin,
		authChanges: app.Session.Subscribe(app.Ctx),
		timers:      make(map[int64]*countdown.Timer),
		login:       newLoginForm(),
		register:    newRegisterForm(),
		fview:       newFlightsView(),
		profile:     newProfileView(),
		manager:     newManagerView(),
		admin:       newAdminView(),
	}
}

// Init implements tea.Model: restore the session and arm the listeners.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		bootstrap(m.app.Ctx, m.app.Session.Bootstrap),
		listenAuth(m.authChanges),
		listenSnapshot(m.app.Flights.Changed()),
		listenNotify(m.app.Notifications.Changed()),
		minuteTick(),
	)
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		return m, nil

	case bootstrapDoneMsg:
		if m.app.Session.IsAuthenticated() {
			cmd := m.enterSession()
			m.screen = ScreenFlights
			return m, cmd
		}
		m.screen = ScreenLogin
		return m, nil

	case authChangedMsg:
		var cmd tea.Cmd
		if message.authenticated {
			cmd = m.enterSession()
		} else {
			m.leaveSession()
			m.screen = ScreenLogin
			m.login = newLoginForm()
		}
		return m, tea.Batch(cmd, listenAuth(m.authChanges))

	case snapshotMsg:
		m.observeSnapshot()
		return m, listenSnapshot(m.app.Flights.Changed())

	case notifChangedMsg:
		// The queue length is a refresh trigger for the catalogue.
		if m.refresher != nil {
			m.refresher.Kick()
		}
		return m, listenNotify(m.app.Notifications.Changed())

	case minuteTickMsg:
		for _, timer := range m.timers {
			timer.Tick()
		}
		return m, minuteTick()

	case bannerFadeMsg:
		m.banner = banner{}
		return m, nil

	case loginResultMsg:
		return m.handleLoginResult(message)

	case registerResultMsg:
		return m.handleRegisterResult(message)

	case logoutDoneMsg:
		return m, nil

	case bookingResultMsg:
		return m.handleBookingResult(message)

	case actionResultMsg:
		if message.err != nil {
			return m.showError(message.err.Error())
		}
		cmd := tea.Cmd(nil)
		if m.refresher != nil {
			m.refresher.Kick()
		}
		if m.screen == ScreenAdmin {
			cmd = m.admin.reload(m.app)
		}
		model, bannerCmd := m.showNotice(message.notice)
		return model, tea.Batch(bannerCmd, cmd)

	case usersLoadedMsg:
		m.admin.applyUsers(message)
		return m, nil

	case pendingLoadedMsg:
		m.admin.applyPending(message)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(message)
	}

	return m, nil
}

// handleKey routes keyboard input by screen. Text-entry screens see
// every key; list screens get the global bindings first.
func (m Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, even inside a form.
	if message.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		return m.updateLogin(message)
	case ScreenRegister:
		return m.updateRegister(message)
	}

	// A focused text input (filter, forms) swallows everything except
	// its own escape handling.
	if m.textEntryActive() {
		return m.updateScreen(message)
	}

	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(message, m.keys.Logout):
		return m.startLogout()
	case key.Matches(message, m.keys.GoFlights):
		m.screen = ScreenFlights
		return m, nil
	case key.Matches(message, m.keys.GoNotifications):
		m.screen = ScreenNotifications
		return m, nil
	case key.Matches(message, m.keys.GoProfile):
		m.screen = ScreenProfile
		return m, nil
	case key.Matches(message, m.keys.GoManager):
		m.screen = ScreenManager
		return m, nil
	case key.Matches(message, m.keys.GoAdmin):
		m.screen = ScreenAdmin
		return m, m.admin.reload(m.app)
	}

	return m.updateScreen(message)
}

func (m Model) textEntryActive() bool {
	switch m.screen {
	case ScreenFlights:
		return m.fview.filterActive || m.fview.ratingActive
	case ScreenProfile:
		return m.profile.entryActive()
	case ScreenManager:
		return m.manager.entryActive()
	case ScreenAdmin:
		return m.admin.entryActive()
	default:
		return false
	}
}

func (m Model) updateScreen(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case ScreenFlights:
		return m.updateFlights(message)
	case ScreenNotifications:
		return m.updateNotifications(message)
	case ScreenProfile:
		return m.updateProfile(message)
	case ScreenManager:
		return m.updateManager(message)
	case ScreenAdmin:
		return m.updateAdmin(message)
	}
	return m, nil
}

// enterSession spins up the per-session machinery after authentication.
// A silent restore delivers both the bootstrap result and the auth-change
// notification, so a second call must not stack a second refresher.
func (m *Model) enterSession() tea.Cmd {
	if m.refresher != nil {
		return nil
	}
	m.refresher = flights.NewRefresher(flights.RefresherOptions{
		FlightOps:      m.app.FlightOps,
		Identity:       m.app.Identity,
		Model:          m.app.Flights,
		Interval:       m.app.RefreshInterval,
		ReconcileDelay: m.app.ReconcileDelay,
		Logger:         m.logger,
	})
	m.refresher.Start(m.app.Ctx, nil)
	m.submitter = booking.NewSubmitter(m.app.FlightOps, m.refresher, m.logger)
	m.app.Notifications.Connect(m.app.Ctx)
	return nil
}

// leaveSession tears down the per-session machinery.
func (m *Model) leaveSession() {
	if m.refresher != nil {
		m.refresher.Close()
		m.refresher = nil
	}
	m.submitter = nil
	m.app.Notifications.Disconnect()
	m.app.Notifications.Clear()
	m.timers = make(map[int64]*countdown.Timer)
}

// observeSnapshot feeds fresh server truth into the countdown timers.
// Timers for flights that left the ongoing bucket are dropped.
func (m *Model) observeSnapshot() {
	snapshot := m.app.Flights.Snapshot()

	current := make(map[int64]bool, len(snapshot.Tabs.Ongoing))
	for _, flight := range snapshot.Tabs.Ongoing {
		current[flight.ID] = true
		timer, ok := m.timers[flight.ID]
		if !ok {
			timer = &countdown.Timer{}
			m.timers[flight.ID] = timer
		}
		timer.Observe(flight.ID, flight.RemainingTime, flight.IsOngoing)
	}
	for id := range m.timers {
		if !current[id] {
			delete(m.timers, id)
		}
	}
}

func (m Model) startLogout() (tea.Model, tea.Cmd) {
	manager := m.app.Session
	ctx := m.app.Ctx
	m.screen = ScreenLogin
	m.login = newLoginForm()
	return m, func() tea.Msg {
		manager.Logout(ctx)
		return logoutDoneMsg{}
	}
}

func (m Model) showNotice(text string) (Model, tea.Cmd) {
	m.banner = banner{text: text}
	return m, fadeBanner()
}

func (m Model) showError(text string) (Model, tea.Cmd) {
	m.banner = banner{text: text, isErr: true}
	return m, fadeBanner()
}

// gateState snapshots the session for the access gate.
func (m Model) gateState() gate.State {
	user := m.app.Session.Identity()
	state := gate.State{
		Loading:       m.app.Session.Loading(),
		Authenticated: m.app.Session.IsAuthenticated(),
	}
	if user != nil {
		state.Role = user.Role
	}
	return state
}

// View implements tea.Model. Protected screens render behind the gate
// verdict; a redirect verdict falls through to the login form.
func (m Model) View() string {
	var body string

	switch m.screen {
	case ScreenLogin:
		body = m.viewLogin()
	case ScreenRegister:
		body = m.viewRegister()
	default:
		decision := gate.Decide(m.gateState(), m.screen.requiredRole())
		switch decision.Verdict {
		case gate.VerdictLoading:
			body = m.theme.Muted.Render("Restoring session...")
		case gate.VerdictRedirectLogin:
			body = m.viewLogin()
		case gate.VerdictDenied:
			body = m.theme.Box.Render(
				m.theme.Danger.Render("Access denied") + "\n" +
					m.theme.Muted.Render("Requires role "+decision.RequiredRole))
		default:
			body = m.viewProtected()
		}
	}

	banner := m.viewBanner()
	if banner == "" {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, banner)
}

func (m Model) viewProtected() string {
	switch m.screen {
	case ScreenFlights:
		return m.viewFlights()
	case ScreenNotifications:
		return m.viewNotifications()
	case ScreenProfile:
		return m.viewProfile()
	case ScreenManager:
		return m.viewManager()
	case ScreenAdmin:
		return m.viewAdmin()
	}
	return ""
}

func (m Model) viewBanner() string {
	if m.banner.text == "" {
		return ""
	}
	if m.banner.isErr {
		return m.theme.BannerErr.Render(m.banner.text)
	}
	return m.theme.BannerOK.Render(m.banner.text)
}

// navBar renders the persistent screen switcher with the notification
// badge.
func (m Model) navBar() string {
	items := []string{
		m.navItem("f flights", ScreenFlights),
		m.navItem("n notifications", ScreenNotifications),
		m.navItem("p profile", ScreenProfile),
	}
	if m.app.Session.IsManager() {
		items = append(items, m.navItem("m manager", ScreenManager))
	}
	if m.app.Session.IsAdmin() {
		items = append(items, m.navItem("A admin", ScreenAdmin))
	}
	bar := strings.Join(items, "  ")

	if count := m.app.Notifications.Len(); count > 0 {
		bar += "  " + m.theme.Warning.Render(fmt.Sprintf("(%d unread)", count))
	}
	if user := m.app.Session.Identity(); user != nil {
		bar += "  " + m.theme.Muted.Render(user.FullName())
	}
	return bar
}

func (m Model) navItem(label string, screen Screen) string {
	if m.screen == screen {
		return m.theme.TabActive.Render(label)
	}
	return m.theme.TabInactive.Render(label)
}
