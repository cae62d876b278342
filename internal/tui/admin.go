// ABOUTME: Admin dashboard: pending flight approvals and account management

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/api"
	"github.com/skylane/flightdeck/internal/format"
)

// adminPane identifies which admin list has focus.
type adminPane int

const (
	paneApprovals adminPane = iota
	paneUsers
)

// adminView holds the pending-approval list and the account page,
// fetched on entry and after every action.
type adminView struct {
	pane   adminPane
	cursor int

	pending    []api.Flight
	pendingErr error

	users    *api.UserPage
	usersErr error
	page     int

	rejectActive bool
	rejectInput  textinput.Model
	rejectID     int64
}

func newAdminView() adminView {
	input := textinput.New()
	input.Placeholder = "rejection reason"
	input.CharLimit = 200
	return adminView{page: 1, rejectInput: input}
}

func (v adminView) entryActive() bool { return v.rejectActive }

// reload fetches both admin lists.
func (v *adminView) reload(app App) tea.Cmd {
	ops := app.FlightOps
	identity := app.Identity
	ctx := app.Ctx
	page := v.page
	return tea.Batch(
		func() tea.Msg {
			flights, err := ops.PendingFlights(ctx)
			return pendingLoadedMsg{flights: flights, err: err}
		},
		func() tea.Msg {
			users, err := identity.ListUsers(ctx, page, 20)
			return usersLoadedMsg{page: users, err: err}
		},
	)
}

func (v *adminView) applyPending(message pendingLoadedMsg) {
	v.pending = message.flights
	v.pendingErr = message.err
	if v.pane == paneApprovals && v.cursor >= len(v.pending) {
		v.cursor = 0
	}
}

func (v *adminView) applyUsers(message usersLoadedMsg) {
	v.users = message.page
	v.usersErr = message.err
	if v.pane == paneUsers && v.users != nil && v.cursor >= len(v.users.Users) {
		v.cursor = 0
	}
}

func (m Model) updateAdmin(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.admin.rejectActive {
		switch message.String() {
		case "esc":
			m.admin.rejectActive = false
			m.admin.rejectInput.Blur()
			m.admin.rejectInput.SetValue("")
			return m, nil
		case "enter":
			reason := strings.TrimSpace(m.admin.rejectInput.Value())
			if reason == "" {
				return m, nil
			}
			flightID := m.admin.rejectID
			m.admin.rejectActive = false
			m.admin.rejectInput.Blur()
			m.admin.rejectInput.SetValue("")
			ops := m.app.FlightOps
			ctx := m.app.Ctx
			return m, func() tea.Msg {
				if err := ops.RejectFlight(ctx, flightID, reason); err != nil {
					return actionResultMsg{err: err}
				}
				return actionResultMsg{notice: "Flight rejected"}
			}
		}
		var cmd tea.Cmd
		m.admin.rejectInput, cmd = m.admin.rejectInput.Update(message)
		return m, cmd
	}

	switch {
	case message.String() == "tab":
		if m.admin.pane == paneApprovals {
			m.admin.pane = paneUsers
		} else {
			m.admin.pane = paneApprovals
		}
		m.admin.cursor = 0
	case key.Matches(message, m.keys.Up):
		if m.admin.cursor > 0 {
			m.admin.cursor--
		}
	case key.Matches(message, m.keys.Down):
		if m.admin.cursor < m.adminListLen()-1 {
			m.admin.cursor++
		}
	case key.Matches(message, m.keys.Approve):
		return m.approveSelected()
	case key.Matches(message, m.keys.Reject):
		if m.admin.pane == paneApprovals && m.admin.cursor < len(m.admin.pending) {
			m.admin.rejectID = m.admin.pending[m.admin.cursor].ID
			m.admin.rejectActive = true
			m.admin.rejectInput.Focus()
		}
	case message.String() == "]":
		if m.admin.pane == paneUsers && m.admin.users != nil && m.admin.page < m.admin.users.Pages {
			m.admin.page++
			return m, m.admin.reload(m.app)
		}
	case message.String() == "[":
		if m.admin.pane == paneUsers && m.admin.page > 1 {
			m.admin.page--
			return m, m.admin.reload(m.app)
		}
	case message.String() == "R":
		return m.cycleSelectedRole()
	}
	return m, nil
}

func (m Model) adminListLen() int {
	if m.admin.pane == paneApprovals {
		return len(m.admin.pending)
	}
	if m.admin.users == nil {
		return 0
	}
	return len(m.admin.users.Users)
}

func (m Model) approveSelected() (tea.Model, tea.Cmd) {
	if m.admin.pane != paneApprovals || m.admin.cursor >= len(m.admin.pending) {
		return m, nil
	}
	flightID := m.admin.pending[m.admin.cursor].ID
	ops := m.app.FlightOps
	ctx := m.app.Ctx
	return m, func() tea.Msg {
		if err := ops.ApproveFlight(ctx, flightID); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{notice: "Flight approved"}
	}
}

// cycleSelectedRole rotates the selected account through the three
// roles.
func (m Model) cycleSelectedRole() (tea.Model, tea.Cmd) {
	if m.admin.pane != paneUsers || m.admin.users == nil ||
		m.admin.cursor >= len(m.admin.users.Users) {
		return m, nil
	}
	user := m.admin.users.Users[m.admin.cursor]

	next := api.RoleUser
	switch user.Role {
	case api.RoleUser:
		next = api.RoleManager
	case api.RoleManager:
		next = api.RoleAdministrator
	}

	identity := m.app.Identity
	ctx := m.app.Ctx
	return m, func() tea.Msg {
		if err := identity.UpdateRole(ctx, user.ID, next); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{notice: fmt.Sprintf("%s is now %s", user.FullName(), next)}
	}
}

func (m Model) viewAdmin() string {
	var b strings.Builder
	b.WriteString(m.navBar() + "\n\n")
	b.WriteString(m.theme.Header.Render("Admin dashboard") + "\n\n")

	paneLabel := func(label string, pane adminPane) string {
		if m.admin.pane == pane {
			return m.theme.TabActive.Render(label)
		}
		return m.theme.TabInactive.Render(label)
	}
	b.WriteString(paneLabel("Pending approvals", paneApprovals) + "   " +
		paneLabel("Accounts", paneUsers) + "\n\n")

	if m.admin.pane == paneApprovals {
		m.renderPending(&b)
	} else {
		m.renderUsers(&b)
	}

	if m.admin.rejectActive {
		b.WriteString("\n" + m.theme.Label.Render("Rejection reason: ") +
			m.admin.rejectInput.View() + "\n")
		b.WriteString(m.theme.Muted.Render("Enter reject · Esc cancel"))
		return b.String()
	}

	b.WriteString("\n" + m.theme.Muted.Render(
		"Tab switch pane · a approve · r reject · R cycle role · [/] page · f back"))
	return b.String()
}

func (m Model) renderPending(b *strings.Builder) {
	if m.admin.pendingErr != nil {
		b.WriteString(m.theme.Danger.Render(m.admin.pendingErr.Error()) + "\n")
		return
	}
	if len(m.admin.pending) == 0 {
		b.WriteString(m.theme.Muted.Render("Nothing awaiting approval") + "\n")
		return
	}
	for i, flight := range m.admin.pending {
		line := fmt.Sprintf("%-20s %-18s %s",
			truncate(flight.Name, 20),
			format.DateTime(flight.DepartureTime),
			format.Currency(flight.TicketPrice))
		if m.admin.pane == paneApprovals && i == m.admin.cursor {
			b.WriteString(m.theme.Selected.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
}

func (m Model) renderUsers(b *strings.Builder) {
	if m.admin.usersErr != nil {
		b.WriteString(m.theme.Danger.Render(m.admin.usersErr.Error()) + "\n")
		return
	}
	if m.admin.users == nil {
		b.WriteString(m.theme.Muted.Render("Loading accounts...") + "\n")
		return
	}
	for i, user := range m.admin.users.Users {
		line := fmt.Sprintf("%-24s %-28s %-14s %s",
			truncate(user.FullName(), 24),
			truncate(user.Email, 28),
			user.Role,
			format.Currency(user.AccountBalance))
		if m.admin.pane == paneUsers && i == m.admin.cursor {
			b.WriteString(m.theme.Selected.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Muted.Render(fmt.Sprintf("page %d/%d · %d accounts",
		m.admin.users.CurrentPage, m.admin.users.Pages, m.admin.users.Total)) + "\n")
}
