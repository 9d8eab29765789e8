package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookit/internal/format"
	"bookit/internal/ledger"
	"bookit/internal/timer"
)

type MsgTick struct{}

// BookFunc records a finished session. The track model calls it once the
// message prompt is confirmed.
type BookFunc func(minutes int64, message, ticket string) (*ledger.TimeEntry, error)

var errNothingToBook = errors.New("less than a minute tracked, nothing to book")

// Track times a work session for one alias and books it when stopped.
type Track struct {
	Alias  string
	Ticket string
	Timer  *timer.Timer

	// Message prompt state (shown after stopping with 'b')
	ShowMessageInput bool
	MessageInput     string
	PendingMinutes   int64

	Booked *ledger.TimeEntry
	Err    error

	book BookFunc
}

// NewTrack returns a running tracker for alias. The clock is passed to the
// timer; nil means time.Now.
func NewTrack(alias, ticket string, clock func() time.Time, book BookFunc) *Track {
	t := timer.New(clock)
	t.Start()
	return &Track{
		Alias:  alias,
		Ticket: ticket,
		Timer:  t,
		book:   book,
	}
}

func (m *Track) Init() tea.Cmd {
	return nil
}

func (m *Track) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		return m, nil
	case tea.KeyMsg:
		if m.ShowMessageInput {
			return m.handleMessageInput(msg)
		}
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

func (m *Track) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		m.Timer.Stop()
		return m, tea.Quit
	case "enter", " ":
		m.Timer.Toggle()
		m.Err = nil
	case "r":
		m.Timer.Reset()
		m.Err = nil
	case "b":
		m.Timer.Stop()
		minutes := m.Timer.Minutes()
		if minutes <= 0 {
			m.Err = errNothingToBook
			return m, nil
		}
		m.PendingMinutes = minutes
		m.ShowMessageInput = true
		m.Err = nil
	}
	return m, nil
}

func (m *Track) handleMessageInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.ShowMessageInput = false
		return m, tea.Quit
	case "esc":
		// back to the stopped timer, nothing booked
		m.ShowMessageInput = false
	case "enter":
		entry, err := m.book(m.PendingMinutes, m.MessageInput, m.Ticket)
		if err != nil {
			m.Err = err
			return m, nil
		}
		m.Booked = entry
		m.ShowMessageInput = false
		return m, tea.Quit
	case "backspace":
		if len(m.MessageInput) > 0 {
			runes := []rune(m.MessageInput)
			m.MessageInput = string(runes[:len(runes)-1])
		}
	default:
		if msg.Type == tea.KeySpace {
			m.MessageInput += " "
			break
		}
		runes := []rune(msg.String())
		if len(runes) == 1 {
			m.MessageInput += string(runes[0])
		}
	}
	return m, nil
}

func (m *Track) View() string {
	if m.ShowMessageInput {
		return m.messageInputView()
	}

	var sb strings.Builder
	sb.WriteString(headingStyle.Width(50).Render("Tracking " + m.Alias))
	sb.WriteString("\n\n")

	running := m.Timer.Running()
	status := "Stopped"
	if running {
		status = "Running"
	}
	body := fmt.Sprintf("%s  %s\n%s",
		stopwatchStyle(running).Render(format.Clock(m.Timer.Elapsed())),
		mutedStyle.Render(status),
		mutedStyle.Render(format.Minutes(m.Timer.Minutes())+" to book"))
	if started := m.Timer.StartedAt(); !started.IsZero() {
		body += "\n" + mutedStyle.Render("since "+started.Local().Format("15:04"))
	}
	if m.Ticket != "" {
		body += "\n" + ticketStyle.Render("["+m.Ticket+"]")
	}
	if m.Err != nil {
		body += "\n\n" + alertStyle.Render(m.Err.Error())
	}
	sb.WriteString(panelStyle.Width(50).Padding(1, 2).Render(body))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("Start/Stop: Enter | Book: b | Reset: r | Quit: q"))
	return sb.String()
}

func (m *Track) messageInputView() string {
	form := fmt.Sprintf("Book %s on %s\n\n%s %s",
		stopwatchStyle(false).Render(format.Minutes(m.PendingMinutes)), m.Alias,
		mutedStyle.Render("Message:"), ticketStyle.Render(m.MessageInput+"█"))
	if m.Ticket != "" {
		form += "\n" + mutedStyle.Render("Ticket: ") + ticketStyle.Render(m.Ticket)
	}
	if m.Err != nil {
		form += "\n\n" + alertStyle.Render(m.Err.Error())
	}
	form += "\n\n" + mutedStyle.Render("Enter: Book | Esc: Back")

	return lipgloss.Place(
		80, 24,
		lipgloss.Center, lipgloss.Center,
		panelStyle.Width(50).Padding(0, 1).Render(form),
	)
}
