package ledger

import "strings"

// Contractor is a client being billed.
type Contractor struct {
	Slug string `validate:"slug"`
	Name string `validate:"notblank"`
}

// NewContractor validates a contractor. The name is trimmed.
func NewContractor(slug, name string) (*Contractor, error) {
	c := &Contractor{Slug: slug, Name: strings.TrimSpace(name)}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
