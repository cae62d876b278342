// ABOUTME: Notification queue screen with dismiss and clear actions

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/skylane/flightdeck/internal/notify"
)

// notificationsView only tracks the cursor; the queue itself lives in
// the notification channel.
type notificationsView struct {
	cursor int
}

func (m Model) updateNotifications(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := m.app.Notifications.Len()

	switch {
	case key.Matches(message, m.keys.Up):
		if m.nview.cursor > 0 {
			m.nview.cursor--
		}
	case key.Matches(message, m.keys.Down):
		if m.nview.cursor < count-1 {
			m.nview.cursor++
		}
	case key.Matches(message, m.keys.Dismiss):
		m.app.Notifications.Remove(m.nview.cursor)
		if m.nview.cursor >= m.app.Notifications.Len() && m.nview.cursor > 0 {
			m.nview.cursor--
		}
	case message.String() == "C":
		m.app.Notifications.Clear()
		m.nview.cursor = 0
	}
	return m, nil
}

func (m Model) viewNotifications() string {
	var b strings.Builder
	b.WriteString(m.navBar() + "\n\n")
	b.WriteString(m.theme.Header.Render("Notifications") + "  " +
		m.connectionLabel() + "\n\n")

	notifications := m.app.Notifications.Notifications()
	if len(notifications) == 0 {
		b.WriteString(m.theme.Muted.Render("Nothing new"))
		return b.String()
	}

	for i, n := range notifications {
		line := fmt.Sprintf("%s  %s", n.ReceivedAt.Format("15:04:05"), n.Message)
		if i == m.nview.cursor {
			b.WriteString(m.theme.Selected.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + m.theme.Muted.Render("d dismiss · C clear all · f back to flights"))
	return b.String()
}

// connectionLabel renders the push-channel state. Disconnected is the
// quiet default; polling still keeps the catalogue fresh.
func (m Model) connectionLabel() string {
	switch m.app.Notifications.State() {
	case notify.StateConnected:
		return m.theme.Success.Render("live")
	case notify.StateConnecting, notify.StateReconnecting:
		return m.theme.Warning.Render("connecting")
	default:
		return m.theme.Muted.Render("offline")
	}
}
