package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"bookkeeping/internal/core"

	_ "modernc.org/sqlite"
)

// Options tunes repository behavior that is a policy choice rather than
// part of the schema.
type Options struct {
	// EnforceCategoryKind rejects records whose kind differs from the kind
	// of their category.
	EnforceCategoryKind bool
}

// DefaultOptions enables every consistency check.
func DefaultOptions() Options {
	return Options{EnforceCategoryKind: true}
}

// SQLiteRepository is the only read and mutation surface over accounts,
// categories, records and items.
//
// It is built for a single caller at a time: the pool holds one connection,
// and there is no locking beyond what SQLite does on that connection.
type SQLiteRepository struct {
	db   *sql.DB
	opts Options
}

// querier is satisfied by both *sql.DB and *sql.Tx, so each operation can
// run standalone or as one step of a larger transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLiteRepository opens (creating if needed) the ledger database at
// dbPath, migrates it, and seeds default accounts and categories when the
// tables were just created.
func NewSQLiteRepository(dbPath string, opts Options) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, unavailable("create db directory", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, unavailable("open sqlite database", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable("ping database", err)
	}

	created, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, unavailable("run migrations", err)
	}

	repo := &SQLiteRepository{
		db:   db,
		opts: opts,
	}

	if created {
		if err := repo.SeedDefaults(context.Background()); err != nil {
			db.Close()
			return nil, fmt.Errorf("seed defaults: %w", err)
		}
	}

	slog.Info("Ledger database ready",
		"path", dbPath,
		"schema_version", SchemaVersion,
		"created", created)

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// inTx runs fn inside one SQL transaction, committing only if fn succeeds.
func (r *SQLiteRepository) inTx(ctx context.Context, fn func(q querier) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Failed to roll back transaction", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit transaction", err)
	}
	return nil
}

// unavailable marks a driver-level failure with core.ErrStorageUnavailable
// while keeping the cause inspectable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, core.ErrStorageUnavailable, err)
}

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, core.ErrNotFound)
}

func exists(ctx context.Context, q querier, table string, id int64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE _id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("check "+table+" reference", err)
	}
	return true, nil
}

func checkAffected(res sql.Result, op, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return unavailable(op, err)
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
