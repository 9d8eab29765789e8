package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"bookit/internal/format"
	"bookit/internal/query"
)

// ReportFunc produces the report shown for a grouping.
type ReportFunc func(by query.GroupBy) (*query.Report, error)

// Groupings is the order tab cycles through.
var Groupings = []query.GroupBy{
	query.ByNone,
	query.ByAlias,
	query.ByContractor,
	query.ByDay,
	query.ByWeek,
	query.ByMonth,
}

type row struct {
	header bool
	text   string
}

// Browse is a scrollable, regroupable view over filtered booked time.
type Browse struct {
	Report   *query.Report
	GroupBy  query.GroupBy
	Scroll   int
	Height   int
	Currency string
	Err      error

	load ReportFunc
	rows []row
}

func NewBrowse(load ReportFunc, by query.GroupBy, currency string) (*Browse, error) {
	m := &Browse{
		GroupBy:  by,
		Height:   20,
		Currency: currency,
		load:     load,
	}
	if err := m.reload(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Browse) reload() error {
	report, err := m.load(m.GroupBy)
	if err != nil {
		return err
	}
	m.Report = report
	m.rows = m.buildRows()
	m.Scroll = 0
	return nil
}

func (m *Browse) buildRows() []row {
	var rows []row
	for _, g := range m.Report.Groups {
		if m.GroupBy != query.ByNone {
			rows = append(rows, row{
				header: true,
				text: fmt.Sprintf("%-12s %8s %14s", g.Key,
					format.Minutes(g.Minutes), format.Money(g.Amount, m.Currency)),
			})
		}
		for _, e := range g.Entries {
			text := fmt.Sprintf("%s  %-15s %6s  %s", e.Date.Format("2006-01-02"), e.Alias, format.Minutes(e.Minutes), e.Hash)
			if e.Ticket != "" {
				text += " " + ticketStyle.Render("["+e.Ticket+"]")
			}
			if e.Message != "" {
				text += " " + e.Message
			}
			rows = append(rows, row{text: text})
		}
	}
	return rows
}

func (m *Browse) Init() tea.Cmd {
	return nil
}

func (m *Browse) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		// title, totals and help take six lines
		m.Height = max(msg.Height-6, 1)
	}
	return m, nil
}

func (m *Browse) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Scroll > 0 {
			m.Scroll--
		}
	case "down", "j":
		maxScroll := max(len(m.rows)-m.Height, 0)
		if m.Scroll < maxScroll {
			m.Scroll++
		}
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(Groupings) - 1
		}
		prev := m.GroupBy
		m.GroupBy = Groupings[(groupingIndex(m.GroupBy)+step)%len(Groupings)]
		if err := m.reload(); err != nil {
			m.GroupBy = prev
			m.Err = err
		} else {
			m.Err = nil
		}
	}
	return m, nil
}

func groupingIndex(by query.GroupBy) int {
	for i, g := range Groupings {
		if g == by {
			return i
		}
	}
	return 0
}

func (m *Browse) View() string {
	var sb strings.Builder

	grouping := string(m.GroupBy)
	if grouping == "" {
		grouping = "none"
	}
	sb.WriteString(headingStyle.Width(80).Render("Booked time"))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("grouped by " + grouping))
	sb.WriteString("\n\n")

	if len(m.rows) == 0 {
		sb.WriteString(mutedStyle.Render("No time booked for this selection."))
	}
	end := min(m.Scroll+m.Height, len(m.rows))
	for _, r := range m.rows[m.Scroll:end] {
		if r.header {
			sb.WriteString(subtotalStyle.Render(r.text))
		} else {
			sb.WriteString(entryStyle.Render(r.text))
		}
		sb.WriteString("\n")
	}

	if m.Report != nil {
		sb.WriteString("\n")
		sb.WriteString(totalStyle.Render(fmt.Sprintf("Total %s  %s",
			format.Minutes(m.Report.Minutes), format.Money(m.Report.Amount, m.Currency))))
	}
	if m.Err != nil {
		sb.WriteString("\n")
		sb.WriteString(alertStyle.Render(m.Err.Error()))
	}
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render("Scroll: Up/Down | Group: Tab | Quit: q"))
	return sb.String()
}
