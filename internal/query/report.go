package query

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bookit/internal/ledger"
)

// GroupBy names a partitioning of entries for reports.
type GroupBy string

const (
	ByNone       GroupBy = ""
	ByAlias      GroupBy = "alias"
	ByContractor GroupBy = "contractor"
	ByDay        GroupBy = "day"
	ByWeek       GroupBy = "week"
	ByMonth      GroupBy = "month"
)

// TotalKey labels the single group produced by ByNone.
const TotalKey = "total"

// ParseGroupBy accepts the names above; "none" and "" both mean no grouping.
func ParseGroupBy(s string) (GroupBy, error) {
	switch g := GroupBy(s); g {
	case ByAlias, ByContractor, ByDay, ByWeek, ByMonth:
		return g, nil
	case ByNone, "none":
		return ByNone, nil
	default:
		return "", fmt.Errorf("unknown grouping %q (use alias, contractor, day, week or month)", s)
	}
}

// PeriodKey returns the sortable key of the day, ISO week or month containing t.
func PeriodKey(t time.Time, by GroupBy) string {
	switch by {
	case ByDay:
		return t.Format(ledger.DateLayout)
	case ByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case ByMonth:
		return t.Format("2006-01")
	}
	return ""
}

// GroupByPeriod partitions entries by the day, week or month of their date.
func GroupByPeriod(entries []ledger.TimeEntry, by GroupBy) map[string][]ledger.TimeEntry {
	groups := make(map[string][]ledger.TimeEntry)
	for _, entry := range entries {
		key := PeriodKey(entry.Date, by)
		groups[key] = append(groups[key], entry)
	}
	return groups
}

// Group partitions entries according to by.
func (e *Engine) Group(ctx context.Context, entries []ledger.TimeEntry, by GroupBy) (map[string][]ledger.TimeEntry, error) {
	switch by {
	case ByNone:
		return map[string][]ledger.TimeEntry{TotalKey: entries}, nil
	case ByAlias:
		return GroupByAlias(entries), nil
	case ByContractor:
		return e.GroupByContractor(ctx, entries)
	case ByDay, ByWeek, ByMonth:
		return GroupByPeriod(entries, by), nil
	}
	return nil, fmt.Errorf("unknown grouping %q", by)
}

// Summary aggregates one group.
type Summary struct {
	Key     string
	Entries []ledger.TimeEntry
	Minutes int64
	Amount  int64
}

// Report is a list of group summaries plus the grand total over all of them.
type Report struct {
	Criteria Criteria
	GroupBy  GroupBy
	Groups   []Summary
	Minutes  int64
	Amount   int64
}

// Summarize totals every group, ordered by key. Because amounts are
// truncated per entry, the group totals add up to the ungrouped total.
func (e *Engine) Summarize(ctx context.Context, groups map[string][]ledger.TimeEntry) (*Report, error) {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	r := e.rates()
	report := &Report{Groups: make([]Summary, 0, len(keys))}
	for _, k := range keys {
		entries := groups[k]
		amount, err := r.billable(ctx, entries)
		if err != nil {
			return nil, err
		}
		minutes, err := TotalMinutes(entries)
		if err != nil {
			return nil, err
		}
		s := Summary{Key: k, Entries: entries, Minutes: minutes, Amount: amount}
		report.Groups = append(report.Groups, s)
		if report.Minutes, err = add(report.Minutes, s.Minutes); err != nil {
			return nil, err
		}
		if report.Amount, err = add(report.Amount, s.Amount); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// Report filters, groups and summarizes in one call.
func (e *Engine) Report(ctx context.Context, c Criteria, by GroupBy) (*Report, error) {
	entries, err := e.FilterEntries(ctx, c)
	if err != nil {
		return nil, err
	}
	groups, err := e.Group(ctx, entries, by)
	if err != nil {
		return nil, err
	}
	report, err := e.Summarize(ctx, groups)
	if err != nil {
		return nil, err
	}
	report.Criteria = c
	report.GroupBy = by
	return report, nil
}

// Order names how entries are listed within a group.
type Order string

const (
	// OrderDate lists by booked day, oldest first.
	OrderDate Order = "date"
	// OrderBooked lists by booking timestamp, newest first.
	OrderBooked Order = "ts"
)

// ParseOrder accepts "date", "ts" or "" for the date order.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case OrderDate, OrderBooked:
		return o, nil
	case "":
		return OrderDate, nil
	default:
		return "", fmt.Errorf("unknown order %q (use date or ts)", s)
	}
}

// SortEntries orders entries in place.
func SortEntries(entries []ledger.TimeEntry, o Order) {
	if o != OrderBooked {
		ledger.SortEntries(entries)
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.Hash > b.Hash
	})
}

// Sort reorders the entries of every group. Totals are unaffected.
func (r *Report) Sort(o Order) {
	for i := range r.Groups {
		SortEntries(r.Groups[i].Entries, o)
	}
}
