package ledger

import (
	"context"
	"errors"
	"time"
)

// HashSource hands out entry hashes. *ident.Generator implements it.
type HashSource interface {
	NewEntryHash(exists func(hash string) (bool, error)) (string, error)
}

// Booking is a work session waiting to be recorded.
type Booking struct {
	Alias   string
	Minutes int64
	Date    time.Time
	Message string
	Ticket  string
}

// Book records b under a freshly generated hash. A hash collision, whether
// spotted before the insert or reported by it, is retried once with a new hash.
func Book(ctx context.Context, s Store, hashes HashSource, b Booking, now time.Time) (*TimeEntry, error) {
	e, err := book(ctx, s, hashes, b, now)
	if errors.Is(err, ErrHashCollision) {
		e, err = book(ctx, s, hashes, b, now)
	}
	return e, err
}

func book(ctx context.Context, s Store, hashes HashSource, b Booking, now time.Time) (*TimeEntry, error) {
	hash, err := hashes.NewEntryHash(func(h string) (bool, error) {
		_, err := s.GetTimeEntry(ctx, h)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	})
	if err != nil {
		return nil, err
	}

	e, err := NewTimeEntry(hash, b.Alias, b.Minutes, b.Date, b.Message, b.Ticket, now)
	if err != nil {
		return nil, err
	}
	if err := s.InsertTimeEntry(ctx, e); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, errors.Join(ErrHashCollision, err)
		}
		return nil, err
	}
	return e, nil
}
