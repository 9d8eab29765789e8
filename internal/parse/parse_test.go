package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookit/internal/ledger"
)

// Wednesday.
var now = time.Date(2024, 4, 17, 10, 30, 0, 0, time.UTC)

func TestMinutes(t *testing.T) {
	tests := []struct {
		arg  string
		want int64
	}{
		{"60", 60},
		{"0", 0},
		{"h::1.5", 90},
		{"h::2", 120},
		{"h::0.33", 19},
		{"s::08:00", 150},
		{"s::10:30", 0},
		{"t::12:00", 90},
		{"t::09:30", -60},
		{"525600", ledger.MaxMinutes},
		{"-525600", -ledger.MaxMinutes},
		{"h::8760", ledger.MaxMinutes},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := Minutes(tt.arg, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMinutesErrors(t *testing.T) {
	for _, arg := range []string{"", "abc", "1.5", "::08:00", "h::", "h::abc", "s::8", "s::08:00a", "x::10", "::lasts",
		"525601", "-525601", "2000000000000000", "h::8760.1", "h::1e300", "h::-1e300"} {
		t.Run(arg, func(t *testing.T) {
			_, err := Minutes(arg, now)
			assert.ErrorIs(t, err, ErrInvalidTime)
		})
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		arg  string
		want time.Time
	}{
		{"today", ledger.Date(2024, 4, 17)},
		{"Yesterday", ledger.Date(2024, 4, 16)},
		{"wed", ledger.Date(2024, 4, 17)},
		{"Monday", ledger.Date(2024, 4, 15)},
		{"mon", ledger.Date(2024, 4, 15)},
		{"thu", ledger.Date(2024, 4, 11)},
		{"sunday", ledger.Date(2024, 4, 14)},
		{"2020-04-20", ledger.Date(2020, 4, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := Date(tt.arg, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateErrors(t *testing.T) {
	for _, arg := range []string{"yesterdy", "2020-04-200", "man", "", "20200420"} {
		t.Run(arg, func(t *testing.T) {
			_, err := Date(arg, now)
			assert.ErrorIs(t, err, ErrInvalidDate)
		})
	}
}

func TestDateAcceptsEveryValidDay(t *testing.T) {
	for d := ledger.Date(1999, 12, 25); d.Before(ledger.Date(2001, 3, 5)); d = d.AddDate(0, 0, 1) {
		got, err := Date(d.Format(ledger.DateLayout), now)
		require.NoError(t, err, d)
		assert.Equal(t, d, got)
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		arg  string
		want int64
	}{
		{"90", 9000},
		{"90.5", 9050},
		{"90.05", 9005},
		{"0", 0},
		{"-1", -100},
		{"-1.5", -150},
		{"10000000", ledger.MaxRate},
		{"10000000.00", ledger.MaxRate},
	}
	for _, tt := range tests {
		got, err := Rate(tt.arg)
		require.NoError(t, err, tt.arg)
		assert.Equal(t, tt.want, got, tt.arg)
	}
	for _, arg := range []string{"", "abc", "90.", "90.123", ".5", "1.-5",
		"184467440737095517", "10000001", "10000000.01", "-10000001", "99999999999999999999"} {
		_, err := Rate(arg)
		assert.ErrorIs(t, err, ErrInvalidAmount, arg)
	}
}

func TestFilters(t *testing.T) {
	c, err := Filters([]string{"alias::acme-dev", "contract::acme", "from::2024-01-01", "to::yesterday", "ticket::RAS-2"}, now)
	require.NoError(t, err)
	assert.Equal(t, "acme-dev", c.Alias)
	assert.Equal(t, "acme", c.Contractor)
	assert.Equal(t, ledger.Date(2024, 1, 1), c.From)
	assert.Equal(t, ledger.Date(2024, 4, 16), c.To)
	assert.Equal(t, "RAS-2", c.Ticket)

	c, err = Filters(nil, now)
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	for _, d := range []string{"alias", "alias::", "branch::main"} {
		_, err := Filters([]string{d}, now)
		assert.ErrorIs(t, err, ErrInvalidFilter, d)
	}
	_, err = Filters([]string{"from::nope"}, now)
	assert.ErrorIs(t, err, ErrInvalidDate)
}
