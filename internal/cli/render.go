package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"bookit/internal/format"
	"bookit/internal/ledger"
	"bookit/internal/query"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	totalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Bold(true).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// renderTable draws rows under headers. When lastIsTotal is set the final row
// is highlighted.
func renderTable(w io.Writer, headers []string, rows [][]string, lastIsTotal bool) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case lastIsTotal && row == len(rows):
				return totalStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func renderEmpty(w io.Writer, what string) {
	fmt.Fprintln(w, emptyStyle.Render("No "+what+" yet."))
}

func renderContractors(w io.Writer, contractors []ledger.Contractor) {
	if len(contractors) == 0 {
		renderEmpty(w, "contractors")
		return
	}
	rows := make([][]string, 0, len(contractors))
	for _, c := range contractors {
		rows = append(rows, []string{c.Slug, c.Name})
	}
	renderTable(w, []string{"Slug", "Name"}, rows, false)
}

func renderAliases(w io.Writer, aliases []ledger.Alias, currency string) {
	if len(aliases) == 0 {
		renderEmpty(w, "aliases")
		return
	}
	rows := make([][]string, 0, len(aliases))
	for _, a := range aliases {
		rows = append(rows, []string{a.Slug, a.Contractor, format.Rate(a.Rate, currency)})
	}
	renderTable(w, []string{"Alias", "Contractor", "Rate"}, rows, false)
}

// renderEntries lists every entry of the report, group by group, with its
// amount at the alias's rate, followed by the grand total.
func renderEntries(w io.Writer, report *query.Report, rates map[string]int64, currency string) error {
	if entryCount(report) == 0 {
		renderEmpty(w, "hours booked for this selection")
		return nil
	}
	headers := []string{"Hash", "Date", "Alias", "Time", "Amount", "Ticket", "Message"}
	grouped := report.GroupBy != query.ByNone
	if grouped {
		headers = append([]string{"Group"}, headers...)
	}

	var rows [][]string
	for _, g := range report.Groups {
		for _, e := range g.Entries {
			amount, err := query.Amount(e.Minutes, rates[e.Alias])
			if err != nil {
				return err
			}
			row := []string{e.Hash, e.Day(), e.Alias, format.Minutes(e.Minutes), format.Money(amount, currency), e.Ticket, e.Message}
			if grouped {
				row = append([]string{g.Key}, row...)
			}
			rows = append(rows, row)
		}
	}
	total := make([]string, len(headers))
	total[0] = "Total"
	total[len(headers)-4] = format.Minutes(report.Minutes)
	total[len(headers)-3] = format.Money(report.Amount, currency)
	rows = append(rows, total)
	renderTable(w, headers, rows, true)
	return nil
}

func renderReport(w io.Writer, report *query.Report, currency string) {
	if entryCount(report) == 0 {
		renderEmpty(w, "hours booked for this selection")
		return
	}
	rows := make([][]string, 0, len(report.Groups)+1)
	for _, g := range report.Groups {
		rows = append(rows, []string{
			g.Key,
			strconv.Itoa(len(g.Entries)),
			format.Minutes(g.Minutes),
			format.Money(g.Amount, currency),
		})
	}
	rows = append(rows, []string{"Total", "", format.Minutes(report.Minutes), format.Money(report.Amount, currency)})
	renderTable(w, []string{groupHeader(report.GroupBy), "Entries", "Time", "Amount"}, rows, true)
}

func entryCount(report *query.Report) int {
	n := 0
	for _, g := range report.Groups {
		n += len(g.Entries)
	}
	return n
}

func groupHeader(by query.GroupBy) string {
	switch by {
	case query.ByNone:
		return "Group"
	case query.ByAlias:
		return "Alias"
	case query.ByContractor:
		return "Contractor"
	case query.ByDay:
		return "Day"
	case query.ByWeek:
		return "Week"
	case query.ByMonth:
		return "Month"
	}
	return string(by)
}

func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label)), value)
}

// renderContractor shows a contractor's details, then its aliases with what
// each has booked.
func renderContractor(w io.Writer, c *ledger.Contractor, aliases []ledger.Alias, report *query.Report, currency string) {
	field(w, "Slug", c.Slug)
	field(w, "Name", c.Name)
	field(w, "Aliases", strconv.Itoa(len(aliases)))
	field(w, "Entries", strconv.Itoa(entryCount(report)))
	field(w, "Time", format.Minutes(report.Minutes))
	field(w, "Amount", format.Money(report.Amount, currency))
	if len(aliases) == 0 {
		return
	}

	booked := make(map[string]query.Summary, len(report.Groups))
	for _, g := range report.Groups {
		booked[g.Key] = g
	}
	rows := make([][]string, 0, len(aliases)+1)
	for _, a := range aliases {
		g := booked[a.Slug]
		rows = append(rows, []string{
			a.Slug,
			format.Rate(a.Rate, currency),
			strconv.Itoa(len(g.Entries)),
			format.Minutes(g.Minutes),
			format.Money(g.Amount, currency),
		})
	}
	rows = append(rows, []string{"Total", "", strconv.Itoa(entryCount(report)), format.Minutes(report.Minutes), format.Money(report.Amount, currency)})
	fmt.Fprintln(w)
	renderTable(w, []string{"Alias", "Rate", "Entries", "Time", "Amount"}, rows, true)
}

func renderAlias(w io.Writer, a *ledger.Alias, report *query.Report, currency string) {
	field(w, "Alias", a.Slug)
	field(w, "Contractor", a.Contractor)
	field(w, "Rate", format.Rate(a.Rate, currency))
	field(w, "Entries", strconv.Itoa(entryCount(report)))
	field(w, "Time", format.Minutes(report.Minutes))
	field(w, "Amount", format.Money(report.Amount, currency))
}

func renderEntry(w io.Writer, e *ledger.TimeEntry, a *ledger.Alias, amount int64, currency string) {
	field(w, "Hash", e.Hash)
	field(w, "Alias", e.Alias)
	if a != nil {
		field(w, "Contractor", a.Contractor)
		field(w, "Rate", format.Rate(a.Rate, currency))
	}
	field(w, "Date", e.Day())
	field(w, "Time", format.Minutes(e.Minutes))
	field(w, "Amount", format.Money(amount, currency))
	field(w, "Ticket", e.Ticket)
	field(w, "Message", e.Message)
	field(w, "Booked at", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
}
