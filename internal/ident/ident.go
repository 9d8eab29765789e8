// Package ident validates user-chosen slugs and generates short entry hashes.
//
// Slugs and hashes share one shape: 1 to MaxLen characters from [a-z0-9_-],
// starting with a letter or digit. They are typed by hand on the command line,
// so they stay short and lowercase.
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/speps/go-hashids/v2"
)

// MaxLen is the longest slug or hash accepted as a primary key.
const MaxLen = 15

const hashAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	ErrInvalidIdentifier = errors.New("ledger: invalid identifier")
	ErrHashCollision     = errors.New("ledger: hash collision")
)

var identPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("slug", isSlug); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Validator returns the shared validator with the "slug" and "notblank" tags
// registered.
func Validator() *validator.Validate {
	return validate
}

func isSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) <= MaxLen && identPattern.MatchString(s)
}

func check(kind, input string) (string, error) {
	if err := validate.Var(input, "slug"); err == nil {
		return input, nil
	}
	switch {
	case input == "":
		return "", fmt.Errorf("%w: %s is empty", ErrInvalidIdentifier, kind)
	case len(input) > MaxLen:
		return "", fmt.Errorf("%w: %s %q is longer than %d characters", ErrInvalidIdentifier, kind, input, MaxLen)
	default:
		return "", fmt.Errorf("%w: %s %q may only contain a-z, 0-9, '-' and '_'", ErrInvalidIdentifier, kind, input)
	}
}

// NewContractorSlug validates a user-supplied contractor slug.
func NewContractorSlug(input string) (string, error) {
	return check("contractor slug", input)
}

// NewAliasSlug validates a user-supplied alias slug.
func NewAliasSlug(input string) (string, error) {
	return check("alias slug", input)
}

// ValidateHash checks a time entry hash, usually one typed back by the user.
func ValidateHash(input string) (string, error) {
	return check("hash", input)
}

// Slugify derives a slug candidate from a display name: lowercased, with
// whitespace and other disallowed characters removed, cut to MaxLen.
func Slugify(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsSpace(r):
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			sb.WriteRune(r)
		}
	}
	s := strings.TrimLeft(sb.String(), "-_")
	if len(s) > MaxLen {
		s = s[:MaxLen]
	}
	return s
}

// Generator produces entry hashes by encoding the creation second and a
// per-process sequence number with hashids.
type Generator struct {
	mu  sync.Mutex
	hd  *hashids.HashID
	now func() time.Time
	seq int64
}

// NewGenerator builds a Generator salted with salt. A nil clock means time.Now.
func NewGenerator(salt string, clock func() time.Time) (*Generator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.Alphabet = hashAlphabet
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize hash function: %w", err)
	}
	if clock == nil {
		clock = time.Now
	}
	return &Generator{hd: h, now: clock}, nil
}

// Next returns the next hash without checking it against existing entries.
func (g *Generator) Next() (string, error) {
	g.mu.Lock()
	seq := g.seq
	g.seq++
	g.mu.Unlock()

	h, err := g.hd.EncodeInt64([]int64{g.now().Unix(), seq})
	if err != nil {
		return "", fmt.Errorf("failed to encode hash: %w", err)
	}
	return check("hash", h)
}

// NewEntryHash returns a fresh hash, or ErrHashCollision when exists reports
// the value as already taken. Callers regenerate on collision.
func (g *Generator) NewEntryHash(exists func(hash string) (bool, error)) (string, error) {
	h, err := g.Next()
	if err != nil {
		return "", err
	}
	taken, err := exists(h)
	if err != nil {
		return "", err
	}
	if taken {
		return "", fmt.Errorf("%w: %s", ErrHashCollision, h)
	}
	return h, nil
}
