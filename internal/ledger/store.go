package ledger

import "context"

// Reader is the read side of the ledger. The query engine only needs this.
type Reader interface {
	GetContractor(ctx context.Context, slug string) (*Contractor, error)
	GetAlias(ctx context.Context, slug string) (*Alias, error)
	GetTimeEntry(ctx context.Context, hash string) (*TimeEntry, error)

	// Lists are ordered by slug; entries by date, timestamp, hash.
	ListContractors(ctx context.Context) ([]Contractor, error)
	ListAliases(ctx context.Context) ([]Alias, error)
	ListTimeEntries(ctx context.Context) ([]TimeEntry, error)
}

// Store is the single source of truth for contractors, aliases and time
// entries. Every mutating method is atomic: on error nothing has changed.
type Store interface {
	Reader

	InsertContractor(ctx context.Context, c *Contractor) error
	InsertAlias(ctx context.Context, a *Alias) error
	InsertTimeEntry(ctx context.Context, e *TimeEntry) error

	DeleteContractor(ctx context.Context, slug string) error
	DeleteAlias(ctx context.Context, slug string) error
	DeleteTimeEntry(ctx context.Context, hash string) error

	RenameContractor(ctx context.Context, slug, name string) error
	SetAliasRate(ctx context.Context, slug string, rate int64) error
	AmendTimeEntry(ctx context.Context, hash, message, ticket string) error

	Close() error
}
