package tui

import "github.com/charmbracelet/lipgloss"

// Colors shared with the tables of the command line output.
const (
	accent = lipgloss.Color("86")
	money  = lipgloss.Color("170")
	live   = lipgloss.Color("82")
	muted  = lipgloss.Color("241")
	alert  = lipgloss.Color("196")
)

var (
	headingStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			Align(lipgloss.Center)

	entryStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	subtotalStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true)

	totalStyle = lipgloss.NewStyle().
			Foreground(money).
			Bold(true).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(muted)

	clockStyle = lipgloss.NewStyle().
			Bold(true)

	ticketStyle = lipgloss.NewStyle().
			Foreground(money)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted)

	alertStyle = lipgloss.NewStyle().
			Foreground(alert).
			Bold(true)
)

// stopwatchStyle colors the stopwatch by whether it runs.
func stopwatchStyle(running bool) lipgloss.Style {
	if running {
		return clockStyle.Foreground(live)
	}
	return clockStyle.Foreground(accent)
}
