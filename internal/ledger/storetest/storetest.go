// Package storetest holds the behaviour every ledger.Store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookit/internal/ledger"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) ledger.Store

// Run executes the conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s ledger.Store)
	}{
		{"InsertInDependencyOrder", testInsertInDependencyOrder},
		{"AliasBeforeContractor", testAliasBeforeContractor},
		{"EntryWithUnknownAlias", testEntryWithUnknownAlias},
		{"DuplicateKeys", testDuplicateKeys},
		{"DeleteContractorReferenced", testDeleteContractorReferenced},
		{"DeleteAliasReferenced", testDeleteAliasReferenced},
		{"DeleteMissing", testDeleteMissing},
		{"GetMissing", testGetMissing},
		{"Mutations", testMutations},
		{"EntryRoundTrip", testEntryRoundTrip},
		{"EntryOrder", testEntryOrder},
		{"EmptyLists", testEmptyLists},
		{"RejectsInvalidEntities", testRejectsInvalidEntities},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { s.Close() })
			tt.fn(t, s)
		})
	}
}

func contractor(t *testing.T, slug string) *ledger.Contractor {
	t.Helper()
	c, err := ledger.NewContractor(slug, "Contractor "+slug)
	require.NoError(t, err)
	return c
}

func alias(t *testing.T, slug, contractor string, rate int64) *ledger.Alias {
	t.Helper()
	a, err := ledger.NewAlias(slug, contractor, rate)
	require.NoError(t, err)
	return a
}

func entry(t *testing.T, hash, alias string, minutes int64, date, ts time.Time) *ledger.TimeEntry {
	t.Helper()
	e, err := ledger.NewTimeEntry(hash, alias, minutes, date, "", "", ts)
	require.NoError(t, err)
	return e
}

var (
	day1 = ledger.Date(2024, 1, 1)
	ts1  = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
)

func seed(t *testing.T, s ledger.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.InsertContractor(ctx, contractor(t, "acme")))
	require.NoError(t, s.InsertAlias(ctx, alias(t, "acme-dev", "acme", 9000)))
	require.NoError(t, s.InsertTimeEntry(ctx, entry(t, "e1", "acme-dev", 120, day1, ts1)))
}

func testInsertInDependencyOrder(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	seed(t, s)

	c, err := s.GetContractor(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Contractor acme", c.Name)

	a, err := s.GetAlias(ctx, "acme-dev")
	require.NoError(t, err)
	assert.Equal(t, "acme", a.Contractor)
	assert.Equal(t, int64(9000), a.Rate)

	e, err := s.GetTimeEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), e.Minutes)
	assert.Equal(t, "acme-dev", e.Alias)
}

func testAliasBeforeContractor(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	err := s.InsertAlias(ctx, alias(t, "acme-dev", "acme", 9000))
	assert.ErrorIs(t, err, ledger.ErrUnknownContractor)

	aliases, err := s.ListAliases(ctx)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func testEntryWithUnknownAlias(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertContractor(ctx, contractor(t, "acme")))

	err := s.InsertTimeEntry(ctx, entry(t, "e1", "acme-dev", 30, day1, ts1))
	assert.ErrorIs(t, err, ledger.ErrUnknownAlias)

	entries, err := s.ListTimeEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testDuplicateKeys(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	seed(t, s)

	assert.ErrorIs(t, s.InsertContractor(ctx, contractor(t, "acme")), ledger.ErrDuplicateKey)
	assert.ErrorIs(t, s.InsertAlias(ctx, alias(t, "acme-dev", "acme", 1)), ledger.ErrDuplicateKey)
	assert.ErrorIs(t, s.InsertTimeEntry(ctx, entry(t, "e1", "acme-dev", 5, day1, ts1)), ledger.ErrDuplicateKey)

	a, err := s.GetAlias(ctx, "acme-dev")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), a.Rate, "rejected insert must not overwrite")
}

func testDeleteContractorReferenced(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertContractor(ctx, contractor(t, "acme")))
	require.NoError(t, s.InsertAlias(ctx, alias(t, "acme-dev", "acme", 9000)))
	require.NoError(t, s.InsertAlias(ctx, alias(t, "acme-ops", "acme", 7000)))

	assert.ErrorIs(t, s.DeleteContractor(ctx, "acme"), ledger.ErrReferencedByAlias)
	require.NoError(t, s.DeleteAlias(ctx, "acme-dev"))
	assert.ErrorIs(t, s.DeleteContractor(ctx, "acme"), ledger.ErrReferencedByAlias)
	require.NoError(t, s.DeleteAlias(ctx, "acme-ops"))

	require.NoError(t, s.DeleteContractor(ctx, "acme"))
	_, err := s.GetContractor(ctx, "acme")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func testDeleteAliasReferenced(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	seed(t, s)

	assert.ErrorIs(t, s.DeleteAlias(ctx, "acme-dev"), ledger.ErrReferencedByTimeEntry)
	_, err := s.GetAlias(ctx, "acme-dev")
	require.NoError(t, err)

	require.NoError(t, s.DeleteTimeEntry(ctx, "e1"))
	require.NoError(t, s.DeleteAlias(ctx, "acme-dev"))
}

func testDeleteMissing(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	assert.ErrorIs(t, s.DeleteContractor(ctx, "nope"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteAlias(ctx, "nope"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteTimeEntry(ctx, "nope"), ledger.ErrNotFound)
}

func testGetMissing(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	_, err := s.GetContractor(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	_, err = s.GetAlias(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	_, err = s.GetTimeEntry(ctx, "nope")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func testMutations(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	seed(t, s)

	require.NoError(t, s.RenameContractor(ctx, "acme", "Acme Corp"))
	c, err := s.GetContractor(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", c.Name)
	assert.ErrorIs(t, s.RenameContractor(ctx, "acme", " "), ledger.ErrEmptyName)
	assert.ErrorIs(t, s.RenameContractor(ctx, "nope", "Nope"), ledger.ErrNotFound)

	require.NoError(t, s.SetAliasRate(ctx, "acme-dev", 12000))
	a, err := s.GetAlias(ctx, "acme-dev")
	require.NoError(t, err)
	assert.Equal(t, int64(12000), a.Rate)
	assert.ErrorIs(t, s.SetAliasRate(ctx, "acme-dev", -1), ledger.ErrNegativeRate)
	assert.ErrorIs(t, s.SetAliasRate(ctx, "nope", 1), ledger.ErrNotFound)

	require.NoError(t, s.AmendTimeEntry(ctx, "e1", "reviewed PR", "RAS-002"))
	e, err := s.GetTimeEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "reviewed PR", e.Message)
	assert.Equal(t, "RAS-002", e.Ticket)
	assert.Equal(t, int64(120), e.Minutes)
	assert.ErrorIs(t, s.AmendTimeEntry(ctx, "nope", "", ""), ledger.ErrNotFound)
}

func testEntryRoundTrip(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertContractor(ctx, contractor(t, "acme")))
	require.NoError(t, s.InsertAlias(ctx, alias(t, "acme-dev", "acme", 9000)))

	ts := time.Date(2024, 3, 5, 8, 15, 30, 123456789, time.UTC)
	e, err := ledger.NewTimeEntry("rt1", "acme-dev", 45, ledger.Date(2024, 3, 4), "fixed build", "OPS-7", ts)
	require.NoError(t, err)
	require.NoError(t, s.InsertTimeEntry(ctx, e))

	got, err := s.GetTimeEntry(ctx, "rt1")
	require.NoError(t, err)
	assert.Equal(t, e.Hash, got.Hash)
	assert.True(t, e.Date.Equal(got.Date))
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, "fixed build", got.Message)
	assert.Equal(t, "OPS-7", got.Ticket)

	bare, err := ledger.NewTimeEntry("rt2", "acme-dev", 5, ledger.Date(2024, 3, 4), "", "", ts)
	require.NoError(t, err)
	require.NoError(t, s.InsertTimeEntry(ctx, bare))
	got, err = s.GetTimeEntry(ctx, "rt2")
	require.NoError(t, err)
	assert.Empty(t, got.Message)
	assert.Empty(t, got.Ticket)
}

func testEntryOrder(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	require.NoError(t, s.InsertContractor(ctx, contractor(t, "acme")))
	require.NoError(t, s.InsertAlias(ctx, alias(t, "acme-dev", "acme", 9000)))

	later := ts1.Add(time.Hour)
	for _, e := range []*ledger.TimeEntry{
		entry(t, "c", "acme-dev", 10, ledger.Date(2024, 1, 2), ts1),
		entry(t, "b", "acme-dev", 10, day1, later),
		entry(t, "a", "acme-dev", 10, day1, ts1.Add(500*time.Millisecond)),
		entry(t, "d", "acme-dev", 10, day1, ts1),
	} {
		require.NoError(t, s.InsertTimeEntry(ctx, e))
	}

	entries, err := s.ListTimeEntries(ctx)
	require.NoError(t, err)
	var hashes []string
	for _, e := range entries {
		hashes = append(hashes, e.Hash)
	}
	assert.Equal(t, []string{"d", "a", "b", "c"}, hashes)
}

func testEmptyLists(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	contractors, err := s.ListContractors(ctx)
	require.NoError(t, err)
	assert.Empty(t, contractors)
	aliases, err := s.ListAliases(ctx)
	require.NoError(t, err)
	assert.Empty(t, aliases)
	entries, err := s.ListTimeEntries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testRejectsInvalidEntities(t *testing.T, s ledger.Store) {
	ctx := context.Background()
	seed(t, s)

	assert.ErrorIs(t, s.InsertContractor(ctx, &ledger.Contractor{Slug: "globex", Name: "  "}), ledger.ErrEmptyName)
	assert.ErrorIs(t, s.InsertContractor(ctx, &ledger.Contractor{Slug: "Globex", Name: "Globex"}), ledger.ErrInvalidIdentifier)

	assert.ErrorIs(t, s.InsertAlias(ctx, &ledger.Alias{Slug: "acme-ops", Contractor: "acme", Rate: -5}), ledger.ErrNegativeRate)
	assert.ErrorIs(t, s.InsertAlias(ctx, &ledger.Alias{Slug: "acme-ops", Contractor: "acme", Rate: ledger.MaxRate + 1}), ledger.ErrRateTooHigh)
	assert.ErrorIs(t, s.SetAliasRate(ctx, "acme-dev", ledger.MaxRate+1), ledger.ErrRateTooHigh)

	assert.ErrorIs(t, s.InsertTimeEntry(ctx, &ledger.TimeEntry{Hash: "e2", Alias: "acme-dev", Minutes: 0, Date: day1, Timestamp: ts1}), ledger.ErrNonPositiveDuration)
	assert.ErrorIs(t, s.InsertTimeEntry(ctx, &ledger.TimeEntry{Hash: "e2", Alias: "acme-dev", Minutes: ledger.MaxMinutes + 1, Date: day1, Timestamp: ts1}), ledger.ErrDurationTooLong)
	assert.ErrorIs(t, s.InsertTimeEntry(ctx, &ledger.TimeEntry{Hash: "E 2", Alias: "acme-dev", Minutes: 30, Date: day1, Timestamp: ts1}), ledger.ErrInvalidIdentifier)

	contractors, err := s.ListContractors(ctx)
	require.NoError(t, err)
	assert.Len(t, contractors, 1)
	aliases, err := s.ListAliases(ctx)
	require.NoError(t, err)
	require.Len(t, aliases, 1)
	assert.Equal(t, int64(9000), aliases[0].Rate)
	entries, err := s.ListTimeEntries(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
