package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookit/internal/config"
	"bookit/internal/ident"
	"bookit/internal/ledger"
	"bookit/internal/ledger/memory"
	"bookit/internal/parse"
	"bookit/internal/query"
	"bookit/internal/tui"
)

type testEnv struct {
	t     *testing.T
	app   *App
	store *memory.Store
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	env := &testEnv{
		t:     t,
		store: memory.New(),
		// Wednesday
		now: time.Date(2024, 4, 17, 10, 30, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }
	hashes, err := ident.NewGenerator("bookit", clock)
	require.NoError(t, err)
	env.app = &App{
		Config: &config.Config{Backend: config.BackendMemory, Currency: "EUR"},
		Store:  env.store,
		Hashes: hashes,
		Log:    zerolog.Nop(),
		Now:    clock,
		RunTUI: func(m tea.Model) (tea.Model, error) {
			t.Fatalf("unexpected interactive session for %T", m)
			return m, nil
		},
	}
	return env
}

func (e *testEnv) run(args ...string) (string, error) {
	cmd := NewRootCommand(e.app)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	out, err := e.run(args...)
	require.NoError(e.t, err, "bookit %v", args)
	return out
}

func (e *testEnv) entries() []ledger.TimeEntry {
	entries, err := e.store.ListTimeEntries(context.Background())
	require.NoError(e.t, err)
	return entries
}

func (e *testEnv) seed() {
	e.mustRun("contractor", "add", "acme", "Acme", "Inc")
	e.mustRun("alias", "add", "acme-dev", "acme", "90")
	e.mustRun("alias", "add", "acme-ops", "acme", "60.50")
}

func TestContractorLifecycle(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("contractor", "add", "acme", "Acme", "Inc")
	assert.Contains(t, out, "Added contractor acme (Acme Inc)")

	out = env.mustRun("contractor", "add", "Globex Corp")
	assert.Contains(t, out, "Added contractor globexcorp (Globex Corp)")

	out = env.mustRun("contractor", "list")
	assert.Contains(t, out, "Acme Inc")
	assert.Contains(t, out, "globexcorp")

	env.mustRun("contractor", "rename", "acme", "ACME", "Corporation")
	c, err := env.store.GetContractor(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "ACME Corporation", c.Name)

	_, err = env.run("contractor", "rename", "acme", "  ")
	assert.ErrorIs(t, err, ledger.ErrEmptyName)
	_, err = env.run("contractor", "rename", "nobody", "Name")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	env.mustRun("alias", "add", "acme-dev", "acme", "90")
	_, err = env.run("contractor", "delete", "acme")
	assert.ErrorIs(t, err, ledger.ErrReferencedByAlias)

	env.mustRun("alias", "delete", "acme-dev")
	env.mustRun("contractor", "delete", "acme")
	_, err = env.store.GetContractor(context.Background(), "acme")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	_, err = env.run("contractor", "add", "Bad Slug", "x")
	assert.ErrorIs(t, err, ledger.ErrInvalidIdentifier)
}

func TestAliasCommands(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("contractor", "add", "globex", "Globex")
	env.mustRun("alias", "add", "globex-qa", "globex", "45")

	a, err := env.store.GetAlias(context.Background(), "acme-ops")
	require.NoError(t, err)
	assert.Equal(t, int64(6050), a.Rate)

	out := env.mustRun("alias", "list", "--contractor", "acme")
	assert.Contains(t, out, "acme-dev")
	assert.Contains(t, out, "60.50 EUR/h")
	assert.NotContains(t, out, "globex-qa")

	_, err = env.run("alias", "list", "--contractor", "nobody")
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	out = env.mustRun("alias", "rate", "acme-dev", "100")
	assert.Contains(t, out, "100.00 EUR/h")

	_, err = env.run("alias", "rate", "acme-dev", "--", "-5")
	assert.ErrorIs(t, err, ledger.ErrNegativeRate)
	_, err = env.run("alias", "rate", "acme-dev", "184467440737095517")
	assert.ErrorIs(t, err, parse.ErrInvalidAmount)
	a, err = env.store.GetAlias(context.Background(), "acme-dev")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), a.Rate)

	_, err = env.run("alias", "add", "x", "nobody", "10")
	assert.ErrorIs(t, err, ledger.ErrUnknownContractor)
	_, err = env.run("alias", "add", "acme-dev", "acme", "10")
	assert.ErrorIs(t, err, ledger.ErrDuplicateKey)
}

func TestContractorDetail(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("contractor", "add", "globex", "Globex")
	env.mustRun("alias", "add", "globex-qa", "globex", "45")
	env.mustRun("book", "acme-dev", "120")
	env.mustRun("book", "acme-dev", "30")
	env.mustRun("book", "globex-qa", "60")

	out := env.mustRun("contractor", "detail", "acme")
	assert.Contains(t, out, "Acme Inc")
	assert.Contains(t, out, "acme-dev")
	// booked nothing yet, still listed
	assert.Contains(t, out, "acme-ops")
	assert.Contains(t, out, "60.50 EUR/h")
	assert.Contains(t, out, "2:30")
	assert.Contains(t, out, "225.00 EUR")
	assert.NotContains(t, out, "globex-qa")

	out = env.mustRun("contractor", "detail", "globex")
	assert.Contains(t, out, "1:00")
	assert.Contains(t, out, "45.00 EUR")

	_, err := env.run("contractor", "detail", "nobody")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestAliasDetail(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("book", "acme-ops", "h::2")
	env.mustRun("book", "acme-ops", "30", "-d", "yesterday")
	env.mustRun("book", "acme-dev", "60")

	out := env.mustRun("alias", "detail", "acme-ops")
	assert.Contains(t, out, "acme")
	assert.Contains(t, out, "60.50 EUR/h")
	assert.Contains(t, out, "2:30")
	// 120*6050/60 + 30*6050/60
	assert.Contains(t, out, "151.25 EUR")
	assert.NotContains(t, out, "90.00")

	_, err := env.run("alias", "detail", "nobody")
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestBookAndReport(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	out := env.mustRun("book", "acme-dev", "120", "-d", "2024-04-15", "-m", "api work", "-t", "RAS-1")
	assert.Contains(t, out, "Booked 2:00 on acme-dev for 2024-04-15")
	env.mustRun("book", "acme-dev", "h::1")
	env.mustRun("book", "acme-ops", "s::09:30", "-d", "yesterday")

	entries := env.entries()
	require.Len(t, entries, 3)
	assert.Equal(t, ledger.Date(2024, 4, 15), entries[0].Date)
	assert.Equal(t, "RAS-1", entries[0].Ticket)
	assert.Equal(t, ledger.Date(2024, 4, 16), entries[1].Date)
	assert.Equal(t, int64(60), entries[1].Minutes)
	assert.Equal(t, ledger.Date(2024, 4, 17), entries[2].Date)

	engine := query.New(env.store)
	report, err := engine.Report(context.Background(), query.Criteria{}, query.ByAlias)
	require.NoError(t, err)
	// 180 min at 90.00 plus 60 min at 60.50
	assert.Equal(t, int64(27000+6050), report.Amount)

	out = env.mustRun("report", "--group", "alias")
	assert.Contains(t, out, "acme-dev")
	assert.Contains(t, out, "270.00 EUR")
	assert.Contains(t, out, "330.50 EUR")

	out = env.mustRun("report", "alias::acme-ops")
	assert.Contains(t, out, "60.50 EUR")
	assert.NotContains(t, out, "270.00")

	_, err = env.run("report", "--group", "year")
	assert.Error(t, err)
	_, err = env.run("report", "branch::main")
	assert.Error(t, err)
}

func TestBookRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	_, err := env.run("book", "acme-dev", "0")
	assert.ErrorIs(t, err, ledger.ErrNonPositiveDuration)
	_, err = env.run("book", "acme-dev", "t::09:00")
	assert.ErrorIs(t, err, ledger.ErrNonPositiveDuration)
	_, err = env.run("book", "nobody", "30")
	assert.ErrorIs(t, err, ledger.ErrUnknownAlias)
	_, err = env.run("book", "acme-dev", "lots")
	assert.Error(t, err)
	_, err = env.run("book", "acme-dev", "30", "-d", "someday")
	assert.Error(t, err)

	assert.Empty(t, env.entries())
}

func TestHoursCommands(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("book", "acme-dev", "90", "-d", "monday", "-m", "first")
	env.now = env.now.Add(time.Second)
	env.mustRun("book", "acme-ops", "30", "-t", "OPS-7")

	entries := env.entries()
	require.Len(t, entries, 2)
	first, second := entries[0].Hash, entries[1].Hash

	out := env.mustRun("hours", "show")
	assert.Contains(t, out, first)
	assert.Contains(t, out, second)
	assert.Contains(t, out, "2:00")

	assert.Contains(t, out, "Amount")
	assert.Contains(t, out, "135.00 EUR")
	assert.Contains(t, out, "30.25 EUR")
	assert.Contains(t, out, "165.25 EUR")
	// date order lists monday's entry first
	assert.Less(t, strings.Index(out, first), strings.Index(out, second))

	out = env.mustRun("hours", "show", "--sort", "ts")
	assert.Less(t, strings.Index(out, second), strings.Index(out, first))

	_, err := env.run("hours", "show", "--sort", "newest")
	assert.Error(t, err)

	out = env.mustRun("hours", "show", "--ticket", "OPS-7", "--group", "day")
	assert.NotContains(t, out, first)
	assert.Contains(t, out, "2024-04-17")

	out = env.mustRun("hours", "show", "--from", "today", "--alias", "acme-dev")
	assert.Contains(t, out, "No hours booked")

	out = env.mustRun("hours", "detail", first)
	assert.Contains(t, out, "acme-dev")
	assert.Contains(t, out, "1:30")
	assert.Contains(t, out, "135.00 EUR")
	assert.Contains(t, out, "first")

	env.mustRun("hours", "amend", first, "-t", "RAS-9")
	e, err := env.store.GetTimeEntry(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, "first", e.Message)
	assert.Equal(t, "RAS-9", e.Ticket)

	env.mustRun("hours", "amend", first, "-m", "")
	e, err = env.store.GetTimeEntry(context.Background(), first)
	require.NoError(t, err)
	assert.Empty(t, e.Message)
	assert.Equal(t, "RAS-9", e.Ticket)

	_, err = env.run("hours", "amend", first)
	assert.Error(t, err)

	_, err = env.run("alias", "delete", "acme-ops")
	assert.ErrorIs(t, err, ledger.ErrReferencedByTimeEntry)

	env.mustRun("hours", "delete", second)
	_, err = env.run("hours", "delete", second)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	env.mustRun("alias", "delete", "acme-ops")

	_, err = env.run("hours", "detail", "NOT A HASH")
	assert.ErrorIs(t, err, ledger.ErrInvalidIdentifier)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("book", "acme-dev", "60")

	path := filepath.Join(t.TempDir(), "hours.xlsx")
	out := env.mustRun("export", path, "--group", "contractor")
	assert.Contains(t, out, "Wrote 1 entries")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = env.run("export", filepath.Join(t.TempDir(), "hours.csv"))
	assert.Error(t, err)
}

func TestTrackBooksElapsedTime(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.app.RunTUI = func(m tea.Model) (tea.Model, error) {
		tr, ok := m.(*tui.Track)
		require.True(t, ok)
		assert.Equal(t, "prefilled", tr.MessageInput)
		env.now = env.now.Add(25 * time.Minute)
		tr.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
		tr.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return tr, nil
	}

	out := env.mustRun("track", "acme-dev", "-m", "prefilled", "-t", "RAS-3")
	assert.Contains(t, out, "Booked 0:25 on acme-dev")

	entries := env.entries()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(25), entries[0].Minutes)
	assert.Equal(t, "prefilled", entries[0].Message)
	assert.Equal(t, "RAS-3", entries[0].Ticket)
	assert.Equal(t, ledger.Date(2024, 4, 17), entries[0].Date)
}

func TestTrackWithoutBooking(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.app.RunTUI = func(m tea.Model) (tea.Model, error) {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		return m, nil
	}
	out := env.mustRun("track", "acme-dev")
	assert.Contains(t, out, "Nothing booked.")
	assert.Empty(t, env.entries())

	_, err := env.run("track", "nobody")
	assert.ErrorIs(t, err, ledger.ErrUnknownAlias)
}

func TestBrowse(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("book", "acme-dev", "60")
	env.mustRun("book", "acme-ops", "60")

	var seen *tui.Browse
	env.app.RunTUI = func(m tea.Model) (tea.Model, error) {
		seen = m.(*tui.Browse)
		return m, nil
	}
	env.mustRun("browse", "--contractor", "acme", "--group", "alias")
	require.NotNil(t, seen)
	assert.Equal(t, query.ByAlias, seen.GroupBy)
	assert.Len(t, seen.Report.Groups, 2)
	assert.Equal(t, int64(9000+6050), seen.Report.Amount)
}
