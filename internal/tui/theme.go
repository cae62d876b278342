// ABOUTME: Lipgloss styles for the terminal client

package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/skylane/flightdeck/internal/format"
)

// Theme is the style set the views render with.
type Theme struct {
	Title       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	Header      lipgloss.Style
	Selected    lipgloss.Style
	Muted       lipgloss.Style
	Label       lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
	Info    lipgloss.Style

	BannerOK  lipgloss.Style
	BannerErr lipgloss.Style

	Box lipgloss.Style
}

// DefaultTheme is the built-in dark-terminal palette.
var DefaultTheme = Theme{
	Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
	TabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Underline(true),
	TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Header:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
	Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")),
	Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("6")),

	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),

	BannerOK:  lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 1),
	BannerErr: lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 1),

	Box: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
}

// badgeStyle maps a status severity onto its display style.
func (t Theme) badgeStyle(badge format.Badge) lipgloss.Style {
	switch badge {
	case format.BadgeSuccess:
		return t.Success
	case format.BadgeWarning:
		return t.Warning
	case format.BadgeDanger:
		return t.Danger
	default:
		return t.Info
	}
}
