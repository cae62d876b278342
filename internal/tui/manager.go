// ABOUTME: Manager dashboard: propose flights and cancel own upcoming ones

package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/format"
	"github.com/skylane/flightdeck/internal/validate"
)

// managerView holds the flight-proposal form and the cancel cursor over
// the upcoming bucket.
type managerView struct {
	formActive bool
	inputs     []textinput.Model
	focus      int
	problems   []validate.Problem

	cursor int
}

const (
	mgrFieldName = iota
	mgrFieldAirlineID
	mgrFieldDistance
	mgrFieldDuration
	mgrFieldDeparture
	mgrFieldDepAirport
	mgrFieldArrAirport
	mgrFieldPrice
	mgrFieldCount
)

var mgrLabels = [mgrFieldCount]string{
	"Flight name", "Airline ID", "Distance (km)", "Duration (minutes)",
	"Departure (YYYY-MM-DDTHH:MM)", "Departure airport", "Arrival airport",
	"Ticket price",
}

var mgrFields = [mgrFieldCount]string{
	"name", "airline_id", "distance_km", "duration_minutes",
	"departure_time", "departure_airport", "arrival_airport", "ticket_price",
}

func newManagerView() managerView {
	inputs := make([]textinput.Model, mgrFieldCount)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 80
		inputs[i].Placeholder = strings.ToLower(mgrLabels[i])
	}
	return managerView{inputs: inputs}
}

func (v managerView) entryActive() bool { return v.formActive }

func (v *managerView) setFocus(index int) {
	v.focus = index
	for i := range v.inputs {
		if i == index {
			v.inputs[i].Focus()
		} else {
			v.inputs[i].Blur()
		}
	}
}

func (v *managerView) value(index int) string {
	return strings.TrimSpace(v.inputs[index].Value())
}

const departureLayout = "2006-01-02T15:04"

func (v *managerView) validate(now time.Time) bool {
	departure, depErr := time.Parse(departureLayout, v.value(mgrFieldDeparture))

	v.problems = validate.Collect(
		validate.Required("name", "Flight name", v.value(mgrFieldName)),
		validate.Required("airline_id", "Airline", v.value(mgrFieldAirlineID)),
		validate.PositiveNumber("distance_km", "Distance", v.value(mgrFieldDistance)),
		validate.PositiveNumber("duration_minutes", "Duration", v.value(mgrFieldDuration)),
		validate.Required("departure_airport", "Departure airport", v.value(mgrFieldDepAirport)),
		validate.Required("arrival_airport", "Arrival airport", v.value(mgrFieldArrAirport)),
		validate.PositiveNumber("ticket_price", "Ticket price", v.value(mgrFieldPrice)),
	)
	if depErr != nil {
		v.problems = append(v.problems, validate.Problem{
			Field: "departure_time", Message: "Departure time is required"})
	} else if p := validate.FutureDate("departure_time", "Departure time", departure, now); p != nil {
		v.problems = append(v.problems, *p)
	}
	return len(v.problems) == 0
}

func (v *managerView) request() api.FlightCreateRequest {
	airlineID, _ := strconv.ParseInt(v.value(mgrFieldAirlineID), 10, 64)
	distance, _ := strconv.ParseFloat(v.value(mgrFieldDistance), 64)
	duration, _ := strconv.Atoi(v.value(mgrFieldDuration))
	price, _ := strconv.ParseFloat(v.value(mgrFieldPrice), 64)

	return api.FlightCreateRequest{
		Name:             v.value(mgrFieldName),
		AirlineID:        airlineID,
		DistanceKM:       distance,
		DurationMinutes:  duration,
		DepartureTime:    v.value(mgrFieldDeparture),
		DepartureAirport: v.value(mgrFieldDepAirport),
		ArrivalAirport:   v.value(mgrFieldArrAirport),
		TicketPrice:      price,
	}
}

func (m Model) updateManager(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.manager.formActive {
		switch message.String() {
		case "esc":
			m.manager.formActive = false
			return m, nil
		case "tab", "down":
			m.manager.setFocus((m.manager.focus + 1) % mgrFieldCount)
			return m, nil
		case "shift+tab", "up":
			m.manager.setFocus((m.manager.focus + mgrFieldCount - 1) % mgrFieldCount)
			return m, nil
		case "enter":
			if m.manager.focus < mgrFieldCount-1 {
				m.manager.setFocus(m.manager.focus + 1)
				return m, nil
			}
			if !m.manager.validate(time.Now()) {
				return m, nil
			}
			req := m.manager.request()
			m.manager = newManagerView()
			ops := m.app.FlightOps
			ctx := m.app.Ctx
			return m, func() tea.Msg {
				if _, err := ops.CreateFlight(ctx, req); err != nil {
					return actionResultMsg{err: err}
				}
				return actionResultMsg{notice: "Flight submitted for approval"}
			}
		}
		var cmd tea.Cmd
		m.manager.inputs[m.manager.focus], cmd = m.manager.inputs[m.manager.focus].Update(message)
		return m, cmd
	}

	upcoming := m.app.Flights.Snapshot().Tabs.Upcoming

	switch {
	case message.String() == "c":
		m.manager.formActive = true
		m.manager.setFocus(0)
	case key.Matches(message, m.keys.Up):
		if m.manager.cursor > 0 {
			m.manager.cursor--
		}
	case key.Matches(message, m.keys.Down):
		if m.manager.cursor < len(upcoming)-1 {
			m.manager.cursor++
		}
	case message.String() == "X":
		if m.manager.cursor < len(upcoming) {
			flight := upcoming[m.manager.cursor]
			ops := m.app.FlightOps
			ctx := m.app.Ctx
			return m, func() tea.Msg {
				if err := ops.CancelFlight(ctx, flight.ID); err != nil {
					return actionResultMsg{err: err}
				}
				return actionResultMsg{notice: "Flight cancelled"}
			}
		}
	}
	return m, nil
}

func (m Model) viewManager() string {
	var b strings.Builder
	b.WriteString(m.navBar() + "\n\n")
	b.WriteString(m.theme.Header.Render("Manager dashboard") + "\n\n")

	if m.manager.formActive {
		b.WriteString(m.theme.Label.Render("New flight proposal") + "\n\n")
		for i, input := range m.manager.inputs {
			b.WriteString(m.theme.Label.Render(mgrLabels[i]) + "\n")
			b.WriteString(input.View() + "\n")
			if msg := validate.FirstMessage(m.manager.problems, mgrFields[i]); msg != "" {
				b.WriteString(m.theme.Danger.Render(msg) + "\n")
			}
		}
		b.WriteString("\n" + m.theme.Muted.Render("Enter next/submit · Esc cancel"))
		return b.String()
	}

	upcoming := m.app.Flights.Snapshot().Tabs.Upcoming
	if len(upcoming) == 0 {
		b.WriteString(m.theme.Muted.Render("No upcoming flights") + "\n")
	}
	for i, flight := range upcoming {
		line := truncate(flight.Name, 20) + "  " +
			format.DateTime(flight.DepartureTime) + "  " +
			format.FlightStatus(flight.Status)
		if i == m.manager.cursor {
			b.WriteString(m.theme.Selected.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.theme.Muted.Render("c create flight · X cancel flight · f back"))
	return b.String()
}
