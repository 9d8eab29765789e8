package ledger

// Alias is a rate-bearing engagement under a contractor. Rate is in currency
// minor units per hour.
type Alias struct {
	Slug       string `validate:"slug"`
	Contractor string `validate:"slug"`
	Rate       int64  `validate:"gte=0,lte=1000000000"`
}

// NewAlias validates the alias locally. Whether the contractor exists is
// checked by the store on insert.
func NewAlias(slug, contractor string, rate int64) (*Alias, error) {
	a := &Alias{Slug: slug, Contractor: contractor, Rate: rate}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
