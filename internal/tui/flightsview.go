// ABOUTME: Tabbed flight listing with filter, countdown column, and booking
// ABOUTME: Buckets come straight from the snapshot; the filter narrows client-side

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/booking"
	"github.com/skylane/flightdeck/internal/flights"
	"github.com/skylane/flightdeck/internal/format"
	"github.com/skylane/flightdeck/internal/validate"
)

// FlightTab identifies which bucket is displayed.
type FlightTab int

const (
	TabUpcoming FlightTab = iota
	TabOngoing
	TabCompletedCancelled
)

func (t FlightTab) String() string {
	switch t {
	case TabUpcoming:
		return "Upcoming"
	case TabOngoing:
		return "Ongoing"
	default:
		return "Completed / Cancelled"
	}
}

// flightsView is the state of the tabbed listing.
type flightsView struct {
	tab    FlightTab
	cursor int

	filterActive bool
	filterInput  textinput.Model

	// airlineFilter is an exact airline id, 0 for all. Cycled with the
	// left/right keys over the airlines in the snapshot.
	airlineFilter int64

	// Rating entry, opened on a completed flight. Stars default to 5.
	ratingActive     bool
	ratingFlightID   int64
	ratingFlightName string
	ratingStars      int
	ratingComment    textinput.Model
}

func newFlightsView() flightsView {
	input := textinput.New()
	input.Placeholder = "filter by name"
	input.CharLimit = 60
	comment := textinput.New()
	comment.Placeholder = "comment (optional)"
	comment.CharLimit = 200
	return flightsView{filterInput: input, ratingComment: comment}
}

// bucket returns the active tab's flights after filtering.
func (m Model) bucket() []api.Flight {
	snapshot := m.app.Flights.Snapshot()
	var list []api.Flight
	switch m.fview.tab {
	case TabUpcoming:
		list = snapshot.Tabs.Upcoming
	case TabOngoing:
		list = snapshot.Tabs.Ongoing
	default:
		list = snapshot.Tabs.CompletedCancelled
	}
	return flights.Filter(list, m.fview.filterInput.Value(), m.fview.airlineFilter)
}

func (m Model) updateFlights(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.fview.ratingActive {
		return m.updateRating(message)
	}
	if m.fview.filterActive {
		switch message.String() {
		case "enter":
			m.fview.filterActive = false
			m.fview.filterInput.Blur()
			return m, nil
		case "esc":
			m.fview.filterActive = false
			m.fview.filterInput.Blur()
			m.fview.filterInput.SetValue("")
			m.fview.cursor = 0
			return m, nil
		}
		var cmd tea.Cmd
		m.fview.filterInput, cmd = m.fview.filterInput.Update(message)
		m.fview.cursor = 0
		return m, cmd
	}

	list := m.bucket()

	switch {
	case key.Matches(message, m.keys.TabUpcoming):
		m.fview.tab = TabUpcoming
		m.fview.cursor = 0
	case key.Matches(message, m.keys.TabOngoing):
		m.fview.tab = TabOngoing
		m.fview.cursor = 0
	case key.Matches(message, m.keys.TabCompleted):
		m.fview.tab = TabCompletedCancelled
		m.fview.cursor = 0
	case key.Matches(message, m.keys.Up):
		if m.fview.cursor > 0 {
			m.fview.cursor--
		}
	case key.Matches(message, m.keys.Down):
		if m.fview.cursor < len(list)-1 {
			m.fview.cursor++
		}
	case key.Matches(message, m.keys.FilterActivate):
		m.fview.filterActive = true
		m.fview.filterInput.Focus()
	case key.Matches(message, m.keys.FilterClear):
		m.fview.filterInput.SetValue("")
		m.fview.airlineFilter = 0
		m.fview.cursor = 0
	case message.String() == "left", message.String() == "right":
		m.cycleAirlineFilter(message.String() == "right")
		m.fview.cursor = 0
	case key.Matches(message, m.keys.Book):
		return m.startBooking(list)
	case key.Matches(message, m.keys.Rate):
		return m.startRating(list)
	}
	return m, nil
}

// cycleAirlineFilter steps the airline filter through "all" plus each
// airline in the snapshot.
func (m *Model) cycleAirlineFilter(forward bool) {
	airlines := m.app.Flights.Snapshot().Airlines
	ids := make([]int64, 0, len(airlines)+1)
	ids = append(ids, 0)
	for _, airline := range airlines {
		ids = append(ids, airline.ID)
	}

	current := 0
	for i, id := range ids {
		if id == m.fview.airlineFilter {
			current = i
			break
		}
	}
	if forward {
		current = (current + 1) % len(ids)
	} else {
		current = (current + len(ids) - 1) % len(ids)
	}
	m.fview.airlineFilter = ids[current]
}

func (m Model) startBooking(list []api.Flight) (tea.Model, tea.Cmd) {
	if m.fview.tab != TabUpcoming {
		return m.showError("Only upcoming flights can be booked")
	}
	if m.fview.cursor >= len(list) {
		return m, nil
	}
	flight := list[m.fview.cursor]

	user := m.app.Session.Identity()
	if user == nil || m.submitter == nil {
		return m, nil
	}
	if m.submitter.InFlight(flight.ID) {
		return m.showError("Booking already in progress for this flight")
	}

	submitter := m.submitter
	ctx := m.app.Ctx
	flightID, userID := flight.ID, user.ID
	return m, func() tea.Msg {
		result, err := submitter.Submit(ctx, flightID, userID)
		return bookingResultMsg{flightID: flightID, result: result, err: err}
	}
}

// startRating opens the rating entry for the selected completed flight.
func (m Model) startRating(list []api.Flight) (tea.Model, tea.Cmd) {
	if m.fview.tab != TabCompletedCancelled {
		return m.showError("Only completed flights can be rated")
	}
	if m.fview.cursor >= len(list) {
		return m, nil
	}
	flight := list[m.fview.cursor]
	if flight.Status != api.FlightStatusCompleted {
		return m.showError("Only completed flights can be rated")
	}
	if m.app.Session.Identity() == nil {
		return m, nil
	}

	m.fview.ratingActive = true
	m.fview.ratingFlightID = flight.ID
	m.fview.ratingFlightName = flight.Name
	m.fview.ratingStars = 5
	m.fview.ratingComment.SetValue("")
	m.fview.ratingComment.Focus()
	return m, nil
}

func (m Model) updateRating(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.String() {
	case "esc":
		m.fview.ratingActive = false
		m.fview.ratingComment.Blur()
		return m, nil
	case "up":
		if m.fview.ratingStars < 5 {
			m.fview.ratingStars++
		}
		return m, nil
	case "down":
		if m.fview.ratingStars > 1 {
			m.fview.ratingStars--
		}
		return m, nil
	case "enter":
		return m.submitRating()
	}
	var cmd tea.Cmd
	m.fview.ratingComment, cmd = m.fview.ratingComment.Update(message)
	return m, cmd
}

func (m Model) submitRating() (tea.Model, tea.Cmd) {
	if problem := validate.Rating("rating", m.fview.ratingStars); problem != nil {
		return m.showError(problem.Message)
	}
	user := m.app.Session.Identity()
	if user == nil {
		return m, nil
	}

	flightOps := m.app.FlightOps
	ctx := m.app.Ctx
	flightID, userID := m.fview.ratingFlightID, user.ID
	stars := m.fview.ratingStars
	comment := strings.TrimSpace(m.fview.ratingComment.Value())

	m.fview.ratingActive = false
	m.fview.ratingComment.Blur()
	return m, func() tea.Msg {
		if _, err := flightOps.CreateRating(ctx, flightID, userID, stars, comment); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{notice: "Rating submitted successfully!"}
	}
}

func (m Model) handleBookingResult(message bookingResultMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		if errors.Is(message.err, booking.ErrInProgress) {
			return m.showError("Booking already in progress for this flight")
		}
		return m.showError(message.err.Error())
	}
	notice := message.result.Message
	if notice == "" {
		notice = "Booking accepted"
	}
	return m.showNotice(notice)
}

func (m Model) viewFlights() string {
	var b strings.Builder
	b.WriteString(m.navBar() + "\n\n")

	for tab := TabUpcoming; tab <= TabCompletedCancelled; tab++ {
		label := tab.String()
		if tab == m.fview.tab {
			b.WriteString(m.theme.TabActive.Render(label))
		} else {
			b.WriteString(m.theme.TabInactive.Render(label))
		}
		b.WriteString("   ")
	}
	b.WriteString("\n")

	if m.fview.filterActive || m.fview.filterInput.Value() != "" {
		b.WriteString(m.theme.Label.Render("Filter: ") + m.fview.filterInput.View() + "\n")
	}
	if m.fview.airlineFilter != 0 {
		b.WriteString(m.theme.Label.Render("Airline: ") + m.airlineName(m.fview.airlineFilter) + "\n")
	}
	b.WriteString("\n")

	if m.app.Flights.Loading() {
		b.WriteString(m.theme.Muted.Render("Loading flights..."))
		return b.String()
	}
	if err := m.app.Flights.Err(); err != nil {
		b.WriteString(m.theme.Danger.Render("Refresh failed: "+err.Error()) + "\n\n")
	}

	list := m.bucket()
	if len(list) == 0 {
		b.WriteString(m.theme.Muted.Render("No flights in this tab"))
		return b.String()
	}

	header := fmt.Sprintf("%-18s %-14s %-18s %-10s %-18s %-10s",
		"FLIGHT", "AIRLINE", "DEPARTURE", "PRICE", "STATUS", "REMAINING")
	b.WriteString(m.theme.Header.Render(header) + "\n")

	for i, flight := range list {
		row := fmt.Sprintf("%-18s %-14s %-18s %-10s %-18s %-10s",
			truncate(flight.Name, 18),
			truncate(m.airlineName(flight.AirlineID), 14),
			format.DateTime(flight.DepartureTime),
			format.Currency(flight.TicketPrice),
			format.FlightStatus(flight.Status),
			m.remainingFor(flight))
		if i == m.fview.cursor {
			b.WriteString(m.theme.Selected.Render(row))
		} else {
			b.WriteString(m.badgeRow(flight.Status, row))
		}
		b.WriteString("\n")
	}

	if m.fview.ratingActive {
		b.WriteString("\n" + m.viewRatingEntry())
	}

	b.WriteString("\n" + m.theme.Muted.Render(
		"1/2/3 tabs · / filter · ←/→ airline · b book · r rate · L logout · q quit"))
	return b.String()
}

func (m Model) viewRatingEntry() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Rate Flight: "+m.fview.ratingFlightName) + "\n")
	stars := strings.Repeat("★", m.fview.ratingStars) + strings.Repeat("☆", 5-m.fview.ratingStars)
	b.WriteString(m.theme.Label.Render("Rating: ") + stars +
		fmt.Sprintf(" (%d/5)", m.fview.ratingStars) + "\n")
	b.WriteString(m.theme.Label.Render("Comment: ") + m.fview.ratingComment.View() + "\n")
	b.WriteString(m.theme.Muted.Render("↑/↓ stars · Enter submit · Esc cancel") + "\n")
	return m.theme.Box.Render(b.String())
}

// remainingFor renders the countdown column for one row.
func (m Model) remainingFor(flight api.Flight) string {
	if timer, ok := m.timers[flight.ID]; ok {
		return timer.Format()
	}
	return "--"
}

func (m Model) badgeRow(status, row string) string {
	return m.theme.badgeStyle(format.StatusBadge(status)).Render(row)
}

func (m Model) airlineName(id int64) string {
	for _, airline := range m.app.Flights.Snapshot().Airlines {
		if airline.ID == id {
			return airline.Name
		}
	}
	if id == 0 {
		return "all"
	}
	return fmt.Sprintf("#%d", id)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
