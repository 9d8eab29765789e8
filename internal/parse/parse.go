// Package parse turns command-line arguments into durations, dates and filters.
package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"bookit/internal/ledger"
	"bookit/internal/query"
)

var (
	ErrInvalidTime   = errors.New("invalid time")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidFilter = errors.New("invalid filter")
	ErrInvalidAmount = errors.New("invalid amount")
)

const directiveSep = "::"

// Minutes interprets a time argument relative to now:
//
//	90          ninety minutes
//	h::1.5      one and a half hours
//	s::08:00    since 08:00 today
//	t::17:30    until 17:30 today
//
// The result may be zero or negative for stretches that end before they
// start; booking rejects those. Anything beyond ledger.MaxMinutes either way
// is an error.
func Minutes(arg string, now time.Time) (int64, error) {
	directive, value, ok := strings.Cut(arg, directiveSep)
	if !ok {
		m, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: could not parse minutes %q (use an integer)", ErrInvalidTime, arg)
		}
		if m > ledger.MaxMinutes || m < -ledger.MaxMinutes {
			return 0, tooLong(arg)
		}
		return m, nil
	}
	if value == "" {
		return 0, fmt.Errorf("%w: nothing after %q", ErrInvalidTime, directive+directiveSep)
	}

	switch directive {
	case "h":
		h, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
			return 0, fmt.Errorf("%w: could not parse hours %q (use a float or integer)", ErrInvalidTime, value)
		}
		if math.Abs(60*h) > ledger.MaxMinutes {
			return 0, tooLong(arg)
		}
		return int64(60 * h), nil
	case "s", "t":
		at, err := clock(value, now)
		if err != nil {
			return 0, err
		}
		d := now.Sub(at)
		if directive == "t" {
			d = at.Sub(now)
		}
		return int64(d / time.Minute), nil
	case "":
		return 0, fmt.Errorf("%w: missing directive in %q", ErrInvalidTime, arg)
	default:
		return 0, fmt.Errorf("%w: unknown directive %q", ErrInvalidTime, directive)
	}
}

func tooLong(arg string) error {
	return fmt.Errorf("%w: %q is more than %d minutes", ErrInvalidTime, arg, ledger.MaxMinutes)
}

// clock reads HH:MM as a time on now's day.
func clock(value string, now time.Time) (time.Time, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not HH:MM", ErrInvalidTime, value)
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, now.Location()), nil
}

var weekdays = map[string]time.Weekday{}

func init() {
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		weekdays[name] = d
		weekdays[name[:3]] = d
	}
}

// Date interprets "today", "yesterday", a weekday name (the most recent such
// day, today included) or YYYY-MM-DD.
func Date(arg string, now time.Time) (time.Time, error) {
	input := strings.ToLower(strings.TrimSpace(arg))
	today := ledger.DateOf(now)

	switch input {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	if wd, ok := weekdays[input]; ok {
		back := (int(today.Weekday()) - int(wd) + 7) % 7
		return today.AddDate(0, 0, -back), nil
	}
	if strings.Contains(input, "-") {
		d, err := ledger.ParseDate(input)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, arg)
		}
		return d, nil
	}
	return time.Time{}, fmt.Errorf("%w: %q (use today, yesterday, a weekday or YYYY-MM-DD)", ErrInvalidDate, arg)
}

// Rate parses an hourly rate given in major currency units with at most two
// decimals ("90", "90.5", "90.50") into minor units. Rates beyond
// ledger.MaxRate either way are rejected.
func Rate(arg string) (int64, error) {
	whole, frac, hasFrac := strings.Cut(strings.TrimSpace(arg), ".")
	if whole == "" || (hasFrac && (frac == "" || len(frac) > 2)) {
		return 0, fmt.Errorf("%w: %q (use e.g. 90 or 90.50)", ErrInvalidAmount, arg)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use e.g. 90 or 90.50)", ErrInvalidAmount, arg)
	}
	var cents int64
	if hasFrac {
		if len(frac) == 1 {
			frac += "0"
		}
		if cents, err = strconv.ParseInt(frac, 10, 64); err != nil || cents < 0 {
			return 0, fmt.Errorf("%w: %q (use e.g. 90 or 90.50)", ErrInvalidAmount, arg)
		}
	}
	const maxUnits = ledger.MaxRate / 100
	if units > maxUnits || units < -maxUnits {
		return 0, rateTooHigh(arg)
	}
	rate := units*100 + cents
	if strings.HasPrefix(whole, "-") {
		rate = units*100 - cents
	}
	if rate > ledger.MaxRate || rate < -ledger.MaxRate {
		return 0, rateTooHigh(arg)
	}
	return rate, nil
}

func rateTooHigh(arg string) error {
	return fmt.Errorf("%w: %q exceeds %d.%02d", ErrInvalidAmount, arg, ledger.MaxRate/100, ledger.MaxRate%100)
}

// Filters folds "field::value" directives into criteria. Fields are alias,
// contractor (or contract), from, to and ticket.
func Filters(directives []string, now time.Time) (query.Criteria, error) {
	var c query.Criteria
	for _, d := range directives {
		field, value, ok := strings.Cut(d, directiveSep)
		if !ok || value == "" {
			return c, fmt.Errorf("%w: %q (use field::value)", ErrInvalidFilter, d)
		}
		switch field {
		case "alias":
			c.Alias = value
		case "contractor", "contract":
			c.Contractor = value
		case "ticket":
			c.Ticket = value
		case "from", "to":
			day, err := Date(value, now)
			if err != nil {
				return c, err
			}
			if field == "from" {
				c.From = day
			} else {
				c.To = day
			}
		default:
			return c, fmt.Errorf("%w: cannot filter on %q", ErrInvalidFilter, field)
		}
	}
	return c, nil
}
