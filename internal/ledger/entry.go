package ledger

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the on-disk and command-line format of entry dates.
const DateLayout = "2006-01-02"

// TimeEntry is one logged work session.
type TimeEntry struct {
	Hash      string `validate:"slug"`
	Alias     string `validate:"slug"`
	Minutes   int64  `validate:"gt=0,lte=525600"`
	Date      time.Time // calendar day, UTC midnight
	Message   string    // optional
	Ticket    string    // optional
	Timestamp time.Time // creation instant
}

// NewTimeEntry validates a session. Date is reduced to its calendar day and
// timestamp to UTC.
func NewTimeEntry(hash, alias string, minutes int64, date time.Time, message, ticket string, timestamp time.Time) (*TimeEntry, error) {
	e := &TimeEntry{
		Hash:      hash,
		Alias:     alias,
		Minutes:   minutes,
		Date:      DateOf(date),
		Message:   strings.TrimSpace(message),
		Ticket:    strings.TrimSpace(ticket),
		Timestamp: timestamp.UTC(),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Duration returns the session length.
func (e *TimeEntry) Duration() time.Duration {
	return time.Duration(e.Minutes) * time.Minute
}

// Day returns the entry date formatted with DateLayout.
func (e *TimeEntry) Day() string {
	return e.Date.Format(DateLayout)
}

// Date builds a calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf keeps the calendar day of t as seen in t's own location.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return Date(y, m, d)
}

// ParseDate parses a DateLayout string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// SortEntries orders entries by date, then timestamp, then hash.
func SortEntries(entries []TimeEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.Before(b.Timestamp)
		}
		return a.Hash < b.Hash
	})
}
