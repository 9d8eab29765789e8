package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookit/internal/ledger"
	"bookit/internal/ledger/storetest"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ledger.Store {
		s, err := Open(context.Background(), MemoryPath)
		require.NoError(t, err)
		return s
	})
}

func TestReopenKeepsLedger(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bookit.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	c, err := ledger.NewContractor("acme", "Acme Inc")
	require.NoError(t, err)
	require.NoError(t, s.InsertContractor(ctx, c))
	a, err := ledger.NewAlias("acme-dev", "acme", 9000)
	require.NoError(t, err)
	require.NoError(t, s.InsertAlias(ctx, a))
	e, err := ledger.NewTimeEntry("e1", "acme-dev", 120, ledger.Date(2024, 1, 1), "", "", time.Now())
	require.NoError(t, err)
	require.NoError(t, s.InsertTimeEntry(ctx, e))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.ListTimeEntries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].Hash)

	assert.ErrorIs(t, s.DeleteContractor(ctx, "acme"), ledger.ErrReferencedByAlias)
}

func TestForeignKeysEnforcedBelowStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.ExecContext(ctx, "INSERT INTO alias (slug, contractor, rate) VALUES ('x', 'ghost', 1)")
	assert.Error(t, err)

	_, err = s.db.ExecContext(ctx, "INSERT INTO contractor (slug, name) VALUES ('acme', 'Acme')")
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx, "INSERT INTO alias (slug, contractor, rate) VALUES ('x', 'acme', -1)")
	assert.Error(t, err)
}
