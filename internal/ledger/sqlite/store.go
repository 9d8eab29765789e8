// Package sqlite stores the ledger in a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookit/internal/ledger"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// compile-time interface check
var _ ledger.Store = (*Store)(nil)

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: pragmas are per connection and ":memory:" databases
	// are per connection too.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return err
	}
	for i, stmt := range migrationStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// inTx runs fn in a transaction, committing only if fn returns nil.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func exists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func affected(res sql.Result, err error, notFound error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// ==================== Contractors ====================

func (s *Store) InsertContractor(ctx context.Context, c *ledger.Contractor) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx, "SELECT 1 FROM contractor WHERE slug = ?", c.Slug)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: contractor %s", ledger.ErrDuplicateKey, c.Slug)
		}
		_, err = tx.ExecContext(ctx, "INSERT INTO contractor (slug, name) VALUES (?, ?)", c.Slug, c.Name)
		return err
	})
}

func (s *Store) GetContractor(ctx context.Context, slug string) (*ledger.Contractor, error) {
	var c ledger.Contractor
	err := s.db.QueryRowContext(ctx, "SELECT slug, name FROM contractor WHERE slug = ?", slug).
		Scan(&c.Slug, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: contractor %s", ledger.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListContractors(ctx context.Context) ([]ledger.Contractor, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slug, name FROM contractor ORDER BY slug")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contractors := []ledger.Contractor{}
	for rows.Next() {
		var c ledger.Contractor
		if err := rows.Scan(&c.Slug, &c.Name); err != nil {
			return nil, err
		}
		contractors = append(contractors, c)
	}
	return contractors, rows.Err()
}

func (s *Store) RenameContractor(ctx context.Context, slug, name string) error {
	c, err := ledger.NewContractor(slug, name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE contractor SET name = ? WHERE slug = ?", c.Name, slug)
	return affected(res, err, fmt.Errorf("%w: contractor %s", ledger.ErrNotFound, slug))
}

func (s *Store) DeleteContractor(ctx context.Context, slug string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var alias string
		err := tx.QueryRowContext(ctx, "SELECT slug FROM alias WHERE contractor = ? ORDER BY slug LIMIT 1", slug).Scan(&alias)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s is used by alias %s", ledger.ErrReferencedByAlias, slug, alias)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM contractor WHERE slug = ?", slug)
		return affected(res, err, fmt.Errorf("%w: contractor %s", ledger.ErrNotFound, slug))
	})
}

// ==================== Aliases ====================

func (s *Store) InsertAlias(ctx context.Context, a *ledger.Alias) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx, "SELECT 1 FROM alias WHERE slug = ?", a.Slug)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: alias %s", ledger.ErrDuplicateKey, a.Slug)
		}
		known, err := exists(ctx, tx, "SELECT 1 FROM contractor WHERE slug = ?", a.Contractor)
		if err != nil {
			return err
		}
		if !known {
			return fmt.Errorf("%w: %s", ledger.ErrUnknownContractor, a.Contractor)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO alias (slug, contractor, rate) VALUES (?, ?, ?)",
			a.Slug, a.Contractor, a.Rate,
		)
		return err
	})
}

func (s *Store) GetAlias(ctx context.Context, slug string) (*ledger.Alias, error) {
	var a ledger.Alias
	err := s.db.QueryRowContext(ctx, "SELECT slug, contractor, rate FROM alias WHERE slug = ?", slug).
		Scan(&a.Slug, &a.Contractor, &a.Rate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: alias %s", ledger.ErrNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAliases(ctx context.Context) ([]ledger.Alias, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT slug, contractor, rate FROM alias ORDER BY slug")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	aliases := []ledger.Alias{}
	for rows.Next() {
		var a ledger.Alias
		if err := rows.Scan(&a.Slug, &a.Contractor, &a.Rate); err != nil {
			return nil, err
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

func (s *Store) SetAliasRate(ctx context.Context, slug string, rate int64) error {
	if err := ledger.ValidateRate(slug, rate); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, "UPDATE alias SET rate = ? WHERE slug = ?", rate, slug)
	return affected(res, err, fmt.Errorf("%w: alias %s", ledger.ErrNotFound, slug))
}

func (s *Store) DeleteAlias(ctx context.Context, slug string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var hash string
		err := tx.QueryRowContext(ctx, "SELECT hash FROM timelog WHERE alias = ? ORDER BY hash LIMIT 1", slug).Scan(&hash)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s is used by entry %s", ledger.ErrReferencedByTimeEntry, slug, hash)
		case !errors.Is(err, sql.ErrNoRows):
			return err
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM alias WHERE slug = ?", slug)
		return affected(res, err, fmt.Errorf("%w: alias %s", ledger.ErrNotFound, slug))
	})
}

// ==================== Time entries ====================

const entryColumns = "hash, alias, minutes, date, message, ticket, timestamp"

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*ledger.TimeEntry, error) {
	var e ledger.TimeEntry
	var date, timestamp string
	var message, ticket sql.NullString
	if err := row.Scan(&e.Hash, &e.Alias, &e.Minutes, &date, &message, &ticket, &timestamp); err != nil {
		return nil, err
	}
	var err error
	if e.Date, err = ledger.ParseDate(date); err != nil {
		return nil, fmt.Errorf("entry %s: bad date %q: %w", e.Hash, date, err)
	}
	if e.Timestamp, err = time.Parse(time.RFC3339Nano, timestamp); err != nil {
		return nil, fmt.Errorf("entry %s: bad timestamp %q: %w", e.Hash, timestamp, err)
	}
	e.Message = message.String
	e.Ticket = ticket.String
	return &e, nil
}

func (s *Store) InsertTimeEntry(ctx context.Context, e *ledger.TimeEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		dup, err := exists(ctx, tx, "SELECT 1 FROM timelog WHERE hash = ?", e.Hash)
		if err != nil {
			return err
		}
		if dup {
			return fmt.Errorf("%w: entry %s", ledger.ErrDuplicateKey, e.Hash)
		}
		known, err := exists(ctx, tx, "SELECT 1 FROM alias WHERE slug = ?", e.Alias)
		if err != nil {
			return err
		}
		if !known {
			return fmt.Errorf("%w: %s", ledger.ErrUnknownAlias, e.Alias)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO timelog ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			e.Hash,
			e.Alias,
			e.Minutes,
			e.Date.Format(ledger.DateLayout),
			nullable(e.Message),
			nullable(e.Ticket),
			e.Timestamp.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
}

func (s *Store) GetTimeEntry(ctx context.Context, hash string) (*ledger.TimeEntry, error) {
	e, err := scanEntry(s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM timelog WHERE hash = ?", hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: entry %s", ledger.ErrNotFound, hash)
	}
	return e, err
}

func (s *Store) ListTimeEntries(ctx context.Context) ([]ledger.TimeEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+entryColumns+" FROM timelog ORDER BY date, timestamp, hash")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []ledger.TimeEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// RFC 3339 text with trimmed fractional seconds does not always sort
	// lexically, so settle the order on parsed values.
	ledger.SortEntries(entries)
	return entries, nil
}

func (s *Store) AmendTimeEntry(ctx context.Context, hash, message, ticket string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE timelog SET message = ?, ticket = ? WHERE hash = ?",
		nullable(message), nullable(ticket), hash,
	)
	return affected(res, err, fmt.Errorf("%w: entry %s", ledger.ErrNotFound, hash))
}

func (s *Store) DeleteTimeEntry(ctx context.Context, hash string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM timelog WHERE hash = ?", hash)
	return affected(res, err, fmt.Errorf("%w: entry %s", ledger.ErrNotFound, hash))
}
