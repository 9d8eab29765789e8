// Package query derives reporting and billing views from the ledger. It only
// reads from the store.
//
// Amounts are computed with each alias's current rate: the ledger keeps no
// rate history, so changing a rate reprices every past entry of that alias.
// Each entry is billed as minutes*rate/60, truncated toward zero, and the
// per-entry amounts are summed.
package query

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"time"

	"bookit/internal/ledger"
)

// ErrOverflow reports a total or amount that does not fit in int64.
var ErrOverflow = errors.New("query: amount out of range")

// Criteria narrows a set of entries. Zero-valued fields impose no constraint;
// From and To are inclusive calendar days.
type Criteria struct {
	Contractor string
	Alias      string
	From       time.Time
	To         time.Time
	Ticket     string
}

// IsZero reports whether c matches every entry.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Engine answers filter, grouping and billing questions over a ledger
// reader. It holds no state besides the reader and is safe to share.
type Engine struct {
	store ledger.Reader
}

// New returns an engine reading from store.
func New(store ledger.Reader) *Engine {
	return &Engine{store: store}
}

// FilterEntries returns the entries matching c ordered by date, timestamp and hash.
func (e *Engine) FilterEntries(ctx context.Context, c Criteria) ([]ledger.TimeEntry, error) {
	entries, err := e.store.ListTimeEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	var owners map[string]string
	if c.Contractor != "" {
		if owners, err = e.aliasOwners(ctx); err != nil {
			return nil, err
		}
	}
	from, to := ledger.DateOf(c.From), ledger.DateOf(c.To)

	result := make([]ledger.TimeEntry, 0, len(entries))
	for _, entry := range entries {
		if c.Alias != "" && entry.Alias != c.Alias {
			continue
		}
		if c.Contractor != "" && owners[entry.Alias] != c.Contractor {
			continue
		}
		if !from.IsZero() && entry.Date.Before(from) {
			continue
		}
		if !to.IsZero() && entry.Date.After(to) {
			continue
		}
		if c.Ticket != "" && entry.Ticket != c.Ticket {
			continue
		}
		result = append(result, entry)
	}
	ledger.SortEntries(result)
	return result, nil
}

func (e *Engine) aliasOwners(ctx context.Context) (map[string]string, error) {
	aliases, err := e.store.ListAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}
	owners := make(map[string]string, len(aliases))
	for _, a := range aliases {
		owners[a.Slug] = a.Contractor
	}
	return owners, nil
}

// TotalMinutes sums the duration of entries.
func TotalMinutes(entries []ledger.TimeEntry) (int64, error) {
	var total int64
	for _, e := range entries {
		var err error
		if total, err = add(total, e.Minutes); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// Amount bills minutes at an hourly rate, truncating toward zero. The
// product is taken in 128 bits so only a result outside int64 fails.
func Amount(minutes, rate int64) (int64, error) {
	hi, lo := bits.Mul64(magnitude(minutes), magnitude(rate))
	if hi >= 60 {
		return 0, fmt.Errorf("%w: %d minutes at %d", ErrOverflow, minutes, rate)
	}
	q, _ := bits.Div64(hi, lo, 60)
	if q > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d minutes at %d", ErrOverflow, minutes, rate)
	}
	if (minutes < 0) != (rate < 0) {
		return -int64(q), nil
	}
	return int64(q), nil
}

func magnitude(v int64) uint64 {
	u := uint64(v)
	if v < 0 {
		u = -u
	}
	return u
}

func add(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	}
	return sum, nil
}

// rates resolves aliases once per call.
type rates struct {
	store ledger.Reader
	seen  map[string]*ledger.Alias
}

func (r *rates) alias(ctx context.Context, slug string) (*ledger.Alias, error) {
	if a, ok := r.seen[slug]; ok {
		return a, nil
	}
	a, err := r.store.GetAlias(ctx, slug)
	if errors.Is(err, ledger.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ledger.ErrUnknownAlias, slug)
	}
	if err != nil {
		return nil, err
	}
	r.seen[slug] = a
	return a, nil
}

func (e *Engine) rates() *rates {
	return &rates{store: e.store, seen: make(map[string]*ledger.Alias)}
}

// BillableAmount sums the billed amount of entries in currency minor units.
func (e *Engine) BillableAmount(ctx context.Context, entries []ledger.TimeEntry) (int64, error) {
	return e.rates().billable(ctx, entries)
}

func (r *rates) billable(ctx context.Context, entries []ledger.TimeEntry) (int64, error) {
	var total int64
	for _, entry := range entries {
		a, err := r.alias(ctx, entry.Alias)
		if err != nil {
			return 0, err
		}
		amount, err := Amount(entry.Minutes, a.Rate)
		if err != nil {
			return 0, err
		}
		if total, err = add(total, amount); err != nil {
			return 0, err
		}
	}
	return total, nil
}

// GroupByAlias partitions entries by alias slug.
func GroupByAlias(entries []ledger.TimeEntry) map[string][]ledger.TimeEntry {
	groups := make(map[string][]ledger.TimeEntry)
	for _, entry := range entries {
		groups[entry.Alias] = append(groups[entry.Alias], entry)
	}
	return groups
}

// GroupByContractor partitions entries by the contractor owning their alias.
func (e *Engine) GroupByContractor(ctx context.Context, entries []ledger.TimeEntry) (map[string][]ledger.TimeEntry, error) {
	r := e.rates()
	groups := make(map[string][]ledger.TimeEntry)
	for _, entry := range entries {
		a, err := r.alias(ctx, entry.Alias)
		if err != nil {
			return nil, err
		}
		groups[a.Contractor] = append(groups[a.Contractor], entry)
	}
	return groups, nil
}
