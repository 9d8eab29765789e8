package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"bookit/internal/ledger"
	"bookit/internal/query"
)

func sampleReport() *query.Report {
	ts := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	return &query.Report{
		Criteria: query.Criteria{Contractor: "acme", From: ledger.Date(2024, 1, 1)},
		GroupBy:  query.ByAlias,
		Groups: []query.Summary{
			{
				Key: "acme-dev",
				Entries: []ledger.TimeEntry{
					{Hash: "e1", Alias: "acme-dev", Minutes: 120, Date: ledger.Date(2024, 1, 1), Message: "api", Ticket: "RAS-1", Timestamp: ts},
					{Hash: "e2", Alias: "acme-dev", Minutes: 60, Date: ledger.Date(2024, 1, 2), Timestamp: ts},
				},
				Minutes: 180,
				Amount:  27000,
			},
			{
				Key: "acme-ops",
				Entries: []ledger.TimeEntry{
					{Hash: "e3", Alias: "acme-ops", Minutes: 30, Date: ledger.Date(2024, 1, 2), Timestamp: ts},
				},
				Minutes: 30,
				Amount:  2550,
			},
		},
		Minutes: 210,
		Amount:  29550,
	}
}

func TestGenerate(t *testing.T) {
	file, err := NewGenerator("EUR").Generate(sampleReport())
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{summarySheet, entriesSheet}, file.GetSheetList())

	rows, err := file.GetRows(summarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Filters", "contractor=acme, from=2024-01-01"}, rows[0])
	assert.Equal(t, []string{"Grouped by", "alias"}, rows[1])
	assert.Equal(t, []string{"Currency", "EUR"}, rows[2])
	assert.Equal(t, []string{"Group", "Entries", "Minutes", "Hours", "Amount"}, rows[4])
	assert.Equal(t, []string{"acme-dev", "2", "180", "3:00", "270"}, rows[5])
	assert.Equal(t, []string{"acme-ops", "1", "30", "0:30", "25.5"}, rows[6])
	assert.Equal(t, []string{"Total", "", "210", "3:30", "295.5"}, rows[7])

	rows, err = file.GetRows(entriesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Group", "Date", "Alias", "Minutes", "Hours", "Ticket", "Message", "Hash"}, rows[0])
	assert.Equal(t, []string{"acme-dev", "2024-01-01", "acme-dev", "120", "2:00", "RAS-1", "api", "e1"}, rows[1])
	assert.Equal(t, "e3", rows[3][7])
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, NewGenerator("").WriteFile(path, sampleReport()))

	file, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer file.Close()

	total, err := file.GetCellValue(summarySheet, "C8")
	require.NoError(t, err)
	assert.Equal(t, "210", total)
}

func TestWriteEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGenerator("").Write(&buf, &query.Report{}))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	filters, err := file.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "none", filters)

	rows, err := file.GetRows(entriesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
