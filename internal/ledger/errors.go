package ledger

import (
	"errors"

	"bookit/internal/ident"
)

// Validation errors.
var (
	ErrInvalidIdentifier   = ident.ErrInvalidIdentifier
	ErrEmptyName           = errors.New("ledger: name is empty")
	ErrNegativeRate        = errors.New("ledger: rate is negative")
	ErrNonPositiveDuration = errors.New("ledger: duration must be positive")
	ErrDurationTooLong     = errors.New("ledger: duration is too long")
	ErrRateTooHigh         = errors.New("ledger: rate is too high")
)

// Store errors.
var (
	ErrNotFound              = errors.New("ledger: not found")
	ErrDuplicateKey          = errors.New("ledger: duplicate key")
	ErrUnknownContractor     = errors.New("ledger: unknown contractor")
	ErrUnknownAlias          = errors.New("ledger: unknown alias")
	ErrReferencedByAlias     = errors.New("ledger: contractor is referenced by an alias")
	ErrReferencedByTimeEntry = errors.New("ledger: alias is referenced by a time entry")
	ErrHashCollision         = ident.ErrHashCollision
)

// IsValidation reports whether err was produced by an entity constructor.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier) ||
		errors.Is(err, ErrEmptyName) ||
		errors.Is(err, ErrNegativeRate) ||
		errors.Is(err, ErrNonPositiveDuration) ||
		errors.Is(err, ErrDurationTooLong) ||
		errors.Is(err, ErrRateTooHigh)
}

// IsIntegrity reports whether err is a referential-integrity rejection.
func IsIntegrity(err error) bool {
	return errors.Is(err, ErrUnknownContractor) ||
		errors.Is(err, ErrUnknownAlias) ||
		errors.Is(err, ErrReferencedByAlias) ||
		errors.Is(err, ErrReferencedByTimeEntry)
}
