// Package memory is a map-backed ledger store. It keeps nothing on disk and is
// used for tests and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bookit/internal/ledger"
)

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

// Store keeps the ledger in maps behind one RWMutex. Every method validates
// and checks references under the lock, so mutations are atomic.
type Store struct {
	mu sync.RWMutex

	contractors map[string]ledger.Contractor
	aliases     map[string]ledger.Alias
	entries     map[string]ledger.TimeEntry
}

// New returns an empty store.
func New() *Store {
	return &Store{
		contractors: make(map[string]ledger.Contractor),
		aliases:     make(map[string]ledger.Alias),
		entries:     make(map[string]ledger.TimeEntry),
	}
}

// Contractor methods

func (s *Store) InsertContractor(_ context.Context, c *ledger.Contractor) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contractors[c.Slug]; exists {
		return fmt.Errorf("%w: contractor %s", ledger.ErrDuplicateKey, c.Slug)
	}
	s.contractors[c.Slug] = *c
	return nil
}

func (s *Store) GetContractor(_ context.Context, slug string) (*ledger.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.contractors[slug]; ok {
		return &c, nil
	}
	return nil, fmt.Errorf("%w: contractor %s", ledger.ErrNotFound, slug)
}

func (s *Store) ListContractors(_ context.Context) ([]ledger.Contractor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ledger.Contractor, 0, len(s.contractors))
	for _, c := range s.contractors {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result, nil
}

func (s *Store) RenameContractor(_ context.Context, slug, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.contractors[slug]
	if !ok {
		return fmt.Errorf("%w: contractor %s", ledger.ErrNotFound, slug)
	}
	renamed, err := ledger.NewContractor(slug, name)
	if err != nil {
		return err
	}
	c.Name = renamed.Name
	s.contractors[slug] = c
	return nil
}

func (s *Store) DeleteContractor(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contractors[slug]; !ok {
		return fmt.Errorf("%w: contractor %s", ledger.ErrNotFound, slug)
	}
	for _, a := range s.aliases {
		if a.Contractor == slug {
			return fmt.Errorf("%w: %s is used by alias %s", ledger.ErrReferencedByAlias, slug, a.Slug)
		}
	}
	delete(s.contractors, slug)
	return nil
}

// Alias methods

func (s *Store) InsertAlias(_ context.Context, a *ledger.Alias) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.aliases[a.Slug]; exists {
		return fmt.Errorf("%w: alias %s", ledger.ErrDuplicateKey, a.Slug)
	}
	if _, ok := s.contractors[a.Contractor]; !ok {
		return fmt.Errorf("%w: %s", ledger.ErrUnknownContractor, a.Contractor)
	}
	s.aliases[a.Slug] = *a
	return nil
}

func (s *Store) GetAlias(_ context.Context, slug string) (*ledger.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.aliases[slug]; ok {
		return &a, nil
	}
	return nil, fmt.Errorf("%w: alias %s", ledger.ErrNotFound, slug)
}

func (s *Store) ListAliases(_ context.Context) ([]ledger.Alias, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ledger.Alias, 0, len(s.aliases))
	for _, a := range s.aliases {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Slug < result[j].Slug })
	return result, nil
}

func (s *Store) SetAliasRate(_ context.Context, slug string, rate int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.aliases[slug]
	if !ok {
		return fmt.Errorf("%w: alias %s", ledger.ErrNotFound, slug)
	}
	if err := ledger.ValidateRate(slug, rate); err != nil {
		return err
	}
	a.Rate = rate
	s.aliases[slug] = a
	return nil
}

func (s *Store) DeleteAlias(_ context.Context, slug string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.aliases[slug]; !ok {
		return fmt.Errorf("%w: alias %s", ledger.ErrNotFound, slug)
	}
	for _, e := range s.entries {
		if e.Alias == slug {
			return fmt.Errorf("%w: %s is used by entry %s", ledger.ErrReferencedByTimeEntry, slug, e.Hash)
		}
	}
	delete(s.aliases, slug)
	return nil
}

// Time entry methods

func (s *Store) InsertTimeEntry(_ context.Context, e *ledger.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[e.Hash]; exists {
		return fmt.Errorf("%w: entry %s", ledger.ErrDuplicateKey, e.Hash)
	}
	if _, ok := s.aliases[e.Alias]; !ok {
		return fmt.Errorf("%w: %s", ledger.ErrUnknownAlias, e.Alias)
	}
	s.entries[e.Hash] = *e
	return nil
}

func (s *Store) GetTimeEntry(_ context.Context, hash string) (*ledger.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.entries[hash]; ok {
		return &e, nil
	}
	return nil, fmt.Errorf("%w: entry %s", ledger.ErrNotFound, hash)
}

func (s *Store) ListTimeEntries(_ context.Context) ([]ledger.TimeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ledger.TimeEntry, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, e)
	}
	ledger.SortEntries(result)
	return result, nil
}

func (s *Store) AmendTimeEntry(_ context.Context, hash, message, ticket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[hash]
	if !ok {
		return fmt.Errorf("%w: entry %s", ledger.ErrNotFound, hash)
	}
	e.Message = message
	e.Ticket = ticket
	s.entries[hash] = e
	return nil
}

func (s *Store) DeleteTimeEntry(_ context.Context, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[hash]; !ok {
		return fmt.Errorf("%w: entry %s", ledger.ErrNotFound, hash)
	}
	delete(s.entries, hash)
	return nil
}

func (s *Store) Close() error {
	return nil
}
