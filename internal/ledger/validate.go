package ledger

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"bookit/internal/ident"
)

const (
	// MaxMinutes caps a single entry at one year of work.
	MaxMinutes = 525600
	// MaxRate caps hourly rates, in minor units. Together with MaxMinutes it
	// keeps every per-entry amount far inside int64.
	MaxRate = 1_000_000_000
)

var validate = ident.Validator()

// check validates v by its struct tags, or only the named fields when given,
// and reports the first failure as one of the ledger sentinels.
func check(kind string, v any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = validate.StructPartial(v, fields...)
	} else {
		err = validate.Struct(v)
	}
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	f := verrs[0]
	return fmt.Errorf("%w: %s %s=%v", sentinel(f), kind, f.Field(), f.Value())
}

func sentinel(f validator.FieldError) error {
	switch f.Tag() {
	case "slug":
		return ErrInvalidIdentifier
	case "notblank", "required":
		return ErrEmptyName
	}
	switch f.Field() {
	case "Rate":
		if f.Tag() == "gte" {
			return ErrNegativeRate
		}
		return ErrRateTooHigh
	case "Minutes":
		if f.Tag() == "gt" {
			return ErrNonPositiveDuration
		}
		return ErrDurationTooLong
	}
	return fmt.Errorf("ledger: %s fails %q", f.Field(), f.Tag())
}

// Validate checks the contractor's field rules.
func (c *Contractor) Validate() error {
	return check("contractor", c)
}

// Validate checks the alias's field rules. Whether its contractor exists is
// up to the store.
func (a *Alias) Validate() error {
	return check("alias "+a.Slug, a)
}

// ValidateRate checks rate as a new rate for the alias slug.
func ValidateRate(slug string, rate int64) error {
	return check("alias "+slug, &Alias{Slug: slug, Rate: rate}, "Rate")
}

// Validate checks the entry's field rules.
func (e *TimeEntry) Validate() error {
	return check("entry "+e.Hash, e)
}
