// ABOUTME: Profile screen with account details and balance top-up

package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/format"
	"github.com/skylane/flightdeck/internal/validate"
)

// profileView shows the signed-in account and a balance top-up field.
type profileView struct {
	balanceActive bool
	balanceInput  textinput.Model
	problem       string
}

func newProfileView() profileView {
	input := textinput.New()
	input.Placeholder = "amount"
	input.CharLimit = 12
	return profileView{balanceInput: input}
}

func (v profileView) entryActive() bool { return v.balanceActive }

func (m Model) updateProfile(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.profile.balanceActive {
		switch message.String() {
		case "esc":
			m.profile.balanceActive = false
			m.profile.balanceInput.Blur()
			m.profile.balanceInput.SetValue("")
			m.profile.problem = ""
			return m, nil
		case "enter":
			return m.submitBalance()
		}
		var cmd tea.Cmd
		m.profile.balanceInput, cmd = m.profile.balanceInput.Update(message)
		return m, cmd
	}

	if message.String() == "+" {
		m.profile.balanceActive = true
		m.profile.balanceInput.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) submitBalance() (tea.Model, tea.Cmd) {
	raw := strings.TrimSpace(m.profile.balanceInput.Value())
	if p := validate.PositiveNumber("amount", "Amount", raw); p != nil {
		m.profile.problem = p.Message
		return m, nil
	}
	amount, _ := strconv.ParseFloat(raw, 64)

	user := m.app.Session.Identity()
	if user == nil {
		return m, nil
	}

	m.profile.balanceActive = false
	m.profile.balanceInput.Blur()
	m.profile.balanceInput.SetValue("")
	m.profile.problem = ""

	identity := m.app.Identity
	manager := m.app.Session
	ctx := m.app.Ctx
	userID := user.ID
	return m, func() tea.Msg {
		if err := identity.AddBalance(ctx, userID, amount); err != nil {
			return actionResultMsg{err: err}
		}
		// Pull the fresh balance into the session snapshot.
		if err := manager.RefreshIdentity(ctx); err != nil {
			return actionResultMsg{err: err}
		}
		return actionResultMsg{notice: "Balance updated"}
	}
}

func (m Model) viewProfile() string {
	var b strings.Builder
	b.WriteString(m.navBar() + "\n\n")
	b.WriteString(m.theme.Header.Render("Profile") + "\n\n")

	user := m.app.Session.Identity()
	if user == nil {
		b.WriteString(m.theme.Muted.Render("No identity"))
		return b.String()
	}

	row := func(label, value string) {
		b.WriteString(m.theme.Label.Render(label+": ") + value + "\n")
	}
	row("Name", user.FullName())
	row("Email", user.Email)
	row("Role", user.Role)
	row("Balance", format.Currency(user.AccountBalance))
	row("Country", user.Country)
	row("Member since", format.Date(user.CreatedAt))

	b.WriteString("\n")
	if m.profile.balanceActive {
		b.WriteString(m.theme.Label.Render("Add balance: ") + m.profile.balanceInput.View() + "\n")
		if m.profile.problem != "" {
			b.WriteString(m.theme.Danger.Render(m.profile.problem) + "\n")
		}
		b.WriteString(m.theme.Muted.Render("Enter submit · Esc cancel"))
	} else {
		b.WriteString(m.theme.Muted.Render("+ add balance · f back to flights"))
	}
	return b.String()
}
