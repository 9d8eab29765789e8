// Package export writes reports to xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"bookit/internal/format"
	"bookit/internal/query"
)

const (
	summarySheet = "Summary"
	entriesSheet = "Entries"
)

// Generator turns reports into xlsx workbooks. Amounts are labelled with
// Currency.
type Generator struct {
	Currency string
}

// NewGenerator returns a generator labelling amounts with currency.
func NewGenerator(currency string) *Generator {
	return &Generator{Currency: currency}
}

// Generate builds a workbook with a summary sheet of group totals and a
// sheet listing every entry of the report.
func (g *Generator) Generate(report *query.Report) (*excelize.File, error) {
	file := excelize.NewFile()
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, report); err != nil {
		file.Close()
		return nil, err
	}

	if _, err := file.NewSheet(entriesSheet); err != nil {
		file.Close()
		return nil, err
	}
	if err := g.writeEntries(file, report); err != nil {
		file.Close()
		return nil, err
	}

	file.SetActiveSheet(0)
	return file, nil
}

// Write generates the workbook and writes it to w.
func (g *Generator) Write(w io.Writer, report *query.Report) error {
	file, err := g.Generate(report)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// WriteFile generates the workbook and saves it at path.
func (g *Generator) WriteFile(path string, report *query.Report) error {
	file, err := g.Generate(report)
	if err != nil {
		return err
	}
	defer file.Close()
	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func (g *Generator) writeSummary(file *excelize.File, report *query.Report) error {
	var err error
	set := func(cell string, value any) {
		if err == nil {
			err = file.SetCellValue(summarySheet, cell, value)
		}
	}

	set("A1", "Filters")
	set("B1", describeCriteria(report.Criteria))
	set("A2", "Grouped by")
	set("B2", groupLabel(report.GroupBy))
	set("A3", "Currency")
	set("B3", g.Currency)

	tableRow := 5
	set(fmt.Sprintf("A%d", tableRow), "Group")
	set(fmt.Sprintf("B%d", tableRow), "Entries")
	set(fmt.Sprintf("C%d", tableRow), "Minutes")
	set(fmt.Sprintf("D%d", tableRow), "Hours")
	set(fmt.Sprintf("E%d", tableRow), "Amount")

	row := tableRow + 1
	for _, s := range report.Groups {
		set(fmt.Sprintf("A%d", row), s.Key)
		set(fmt.Sprintf("B%d", row), len(s.Entries))
		set(fmt.Sprintf("C%d", row), s.Minutes)
		set(fmt.Sprintf("D%d", row), format.Minutes(s.Minutes))
		set(fmt.Sprintf("E%d", row), majorUnits(s.Amount))
		row++
	}
	set(fmt.Sprintf("A%d", row), "Total")
	set(fmt.Sprintf("C%d", row), report.Minutes)
	set(fmt.Sprintf("D%d", row), format.Minutes(report.Minutes))
	set(fmt.Sprintf("E%d", row), majorUnits(report.Amount))
	if err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "D", 12)
	_ = file.SetColWidth(summarySheet, "E", "E", 14)
	return nil
}

func (g *Generator) writeEntries(file *excelize.File, report *query.Report) error {
	headers := []string{"Group", "Date", "Alias", "Minutes", "Hours", "Ticket", "Message", "Hash"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(entriesSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write entries: %w", err)
		}
	}

	row := 2
	for _, s := range report.Groups {
		for _, e := range s.Entries {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			values := []any{s.Key, e.Day(), e.Alias, e.Minutes, format.Minutes(e.Minutes), e.Ticket, e.Message, e.Hash}
			if err := file.SetSheetRow(entriesSheet, cell, &values); err != nil {
				return fmt.Errorf("failed to write entries: %w", err)
			}
			row++
		}
	}

	_ = file.SetColWidth(entriesSheet, "A", "C", 16)
	_ = file.SetColWidth(entriesSheet, "D", "F", 10)
	_ = file.SetColWidth(entriesSheet, "G", "G", 48)
	_ = file.SetColWidth(entriesSheet, "H", "H", 16)
	return nil
}

func majorUnits(amount int64) float64 {
	return float64(amount) / 100
}

func groupLabel(by query.GroupBy) string {
	if by == query.ByNone {
		return "none"
	}
	return string(by)
}

func describeCriteria(c query.Criteria) string {
	if c.IsZero() {
		return "none"
	}
	var parts []string
	if c.Contractor != "" {
		parts = append(parts, "contractor="+c.Contractor)
	}
	if c.Alias != "" {
		parts = append(parts, "alias="+c.Alias)
	}
	if !c.From.IsZero() {
		parts = append(parts, "from="+c.From.Format("2006-01-02"))
	}
	if !c.To.IsZero() {
		parts = append(parts, "to="+c.To.Format("2006-01-02"))
	}
	if c.Ticket != "" {
		parts = append(parts, "ticket="+c.Ticket)
	}
	return strings.Join(parts, ", ")
}
