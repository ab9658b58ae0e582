// Package storage keeps the board in a single SQLite database.
//
// Questions, answers and users are rows addressed by id. A question's answer
// list is derived with a query on answers.question_id, and endorsements are
// rows of the question_voters / answer_voters join tables whose primary key
// makes each (target, user) pair unique.
//
// Every exported operation runs in one transaction. Write transactions start
// with BEGIN IMMEDIATE so concurrent writers queue on the database lock
// (bounded by busy_timeout) instead of failing on a lock upgrade.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ncruces/go-sqlite3"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/rubiojr/qboard/pkg/core"
	"github.com/rubiojr/qboard/pkg/db"
	"github.com/rubiojr/qboard/pkg/log"
)

var logger = log.ForService("storage")

// Options tune a Store.
type Options struct {
	// EscapeWildcards makes '%' and '_' in search keywords match literally.
	EscapeWildcards bool

	// Now stamps creation and modification dates. Defaults to time.Now.
	Now func() time.Time

	// SkipMigrations opens the database without touching the schema.
	SkipMigrations bool
}

// Store is the board's entity store.
type Store struct {
	db     *sql.DB
	path   string
	escape bool
	now    func() time.Time
}

var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(30000)",
	"journal_mode(wal)",
	"synchronous(normal)",
	"temp_store(memory)",
}

func dsn(dbPath string) string {
	v := url.Values{}
	v.Set("_txlock", "immediate")
	for _, p := range pragmas {
		v.Add("_pragma", p)
	}
	return "file:" + dbPath + "?" + v.Encode()
}

// Open opens (creating if needed) the database at dbPath and applies pending
// migrations.
func Open(ctx context.Context, dbPath string, opts Options) (*Store, error) {
	sqlDB, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: opening %s: %w", core.ErrStoreUnavailable, dbPath, err)
	}

	if !opts.SkipMigrations {
		if _, err := db.NewMigrationManager(sqlDB).ApplyPendingMigrations(ctx); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("migrating %s: %w", dbPath, err)
		}
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	logger.Debugf("opened %s", dbPath)
	return &Store{
		db:     sqlDB,
		path:   dbPath,
		escape: opts.EscapeWildcards,
		now:    now,
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle, used by migration tooling.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// SetEscapeWildcards switches literal keyword matching on or off.
func (s *Store) SetEscapeWildcards(enabled bool) {
	s.escape = enabled
}

func (s *Store) stamp() int64 {
	return s.now().UTC().UnixNano()
}

// withTx runs fn inside a transaction and commits when fn succeeds.
func (s *Store) withTx(ctx context.Context, readOnly bool, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", core.ErrStoreUnavailable, err)
	}

	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
				logger.Warnf("failed to rollback transaction: %v", err)
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", core.ErrStoreUnavailable, err)
	}
	committed = true
	return nil
}

// classify maps driver errors onto the board error taxonomy.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, core.ErrNotFound),
		errors.Is(err, core.ErrInvalidArgument),
		errors.Is(err, core.ErrStoreUnavailable):
		return err
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	case errors.Is(err, sqlite3.CONSTRAINT_UNIQUE):
		return fmt.Errorf("%s: %w: already exists", op, core.ErrInvalidArgument)
	default:
		return fmt.Errorf("%s: %w: %w", op, core.ErrStoreUnavailable, err)
	}
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func fromNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

type scanner interface {
	Scan(dest ...any) error
}

func exists(ctx context.Context, tx *sql.Tx, table string, id int64) error {
	var one int
	err := tx.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", table, id, core.ErrNotFound)
	}
	return err
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		logger.Warnf("failed to close rows: %v", err)
	}
}
