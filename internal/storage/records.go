package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bookkeeping/internal/core"
	"bookkeeping/internal/log"
)

const recordColumns = `_id, amount, type, category_id, account_id, date, note`

// AddRecord inserts a record and returns its id. It does not touch the
// account balance: use CommitRecord for that, or ApplyRecordToBalance.
func (r *SQLiteRepository) AddRecord(ctx context.Context, rec core.Record) (int64, error) {
	return r.addRecord(ctx, r.db, rec)
}

func (r *SQLiteRepository) addRecord(ctx context.Context, q querier, rec core.Record) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, err
	}
	rec.Amount = core.RoundAmount(rec.Amount)

	ok, err := exists(ctx, q, "accounts", rec.AccountID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: account %d does not exist", core.ErrInvalidReference, rec.AccountID)
	}

	cat, err := getCategory(ctx, q, rec.CategoryID)
	if errors.Is(err, core.ErrNotFound) {
		return 0, fmt.Errorf("%w: category %d does not exist", core.ErrInvalidReference, rec.CategoryID)
	}
	if err != nil {
		return 0, err
	}
	if r.opts.EnforceCategoryKind && cat.Kind != rec.Kind {
		return 0, fmt.Errorf("%w: %s record in %s category %q", core.ErrKindMismatch, rec.Kind, cat.Kind, cat.Name)
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO records (amount, type, category_id, account_id, date, note) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Amount.InexactFloat64(),
		int(rec.Kind),
		rec.CategoryID,
		rec.AccountID,
		rec.Timestamp.UnixMilli(),
		rec.Note)
	if err != nil {
		return 0, unavailable("insert record", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("read record id", err)
	}

	rec.ID = id
	slog.InfoContext(ctx, "Record saved to SQLite",
		log.NewFields().WithComponent(log.ComponentStorage).WithOperation(log.OpCreate).WithRecord(rec).ToSlice()...)
	return id, nil
}

// ApplyRecordToBalance adds the record's amount to its account balance for
// income, subtracts it for expense, and persists the account.
func (r *SQLiteRepository) ApplyRecordToBalance(ctx context.Context, rec core.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return r.inTx(ctx, func(q querier) error {
		_, err := applyRecord(ctx, q, rec)
		return err
	})
}

func applyRecord(ctx context.Context, q querier, rec core.Record) (core.Account, error) {
	a, err := adjustBalance(ctx, q, rec.AccountID, rec.Kind.Signed(core.RoundAmount(rec.Amount)))
	if errors.Is(err, core.ErrNotFound) {
		return core.Account{}, fmt.Errorf("%w: account %d does not exist", core.ErrInvalidReference, rec.AccountID)
	}
	if err != nil {
		return core.Account{}, err
	}
	slog.InfoContext(ctx, "Account balance updated",
		log.NewFields().
			WithComponent(log.ComponentStorage).
			WithOperation(log.OpUpdate).
			WithRecord(rec).
			WithBalance(a.ID, a.Balance).
			ToSlice()...)
	return a, nil
}

// CommitRecord inserts the record and applies it to the account balance in
// a single transaction: either both happen or neither does.
func (r *SQLiteRepository) CommitRecord(ctx context.Context, rec core.Record) (int64, error) {
	var id int64
	err := r.inTx(ctx, func(q querier) error {
		var err error
		if id, err = r.addRecord(ctx, q, rec); err != nil {
			return err
		}
		rec.ID = id
		_, err = applyRecord(ctx, q, rec)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *SQLiteRepository) GetRecord(ctx context.Context, id int64) (core.Record, error) {
	return getRecord(ctx, r.db, id)
}

func getRecord(ctx context.Context, q querier, id int64) (core.Record, error) {
	row := q.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE _id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, notFound("record", id)
	}
	if err != nil {
		return core.Record{}, unavailable("get record", err)
	}
	return rec, nil
}

// ListRecords returns every record, newest first.
func (r *SQLiteRepository) ListRecords(ctx context.Context) ([]core.Record, error) {
	return r.listRecords(ctx, `SELECT `+recordColumns+` FROM records ORDER BY date DESC, _id DESC`)
}

// ListRecordsInRange returns the records with start <= timestamp <= end,
// newest first. Both bounds are inclusive at millisecond precision.
func (r *SQLiteRepository) ListRecordsInRange(ctx context.Context, start, end time.Time) ([]core.Record, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end %s before start %s", core.ErrInvalidArgument, end, start)
	}
	return r.listRecords(ctx,
		`SELECT `+recordColumns+` FROM records WHERE date >= ? AND date <= ? ORDER BY date DESC, _id DESC`,
		start.UnixMilli(), end.UnixMilli())
}

func (r *SQLiteRepository) listRecords(ctx context.Context, query string, args ...any) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list records", err)
	}
	defer rows.Close()

	var records []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, unavailable("scan record", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list records", err)
	}
	return records, nil
}

// DeleteRecord removes the record row only. The account balance keeps the
// record's effect; RevertRecord is the variant that undoes it.
func (r *SQLiteRepository) DeleteRecord(ctx context.Context, rec core.Record) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE _id = ?`, rec.ID)
	if err != nil {
		return unavailable("delete record", err)
	}
	if err := checkAffected(res, "delete record", "record", rec.ID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Record deleted", "id", rec.ID, "balance_reversed", false)
	return nil
}

// RevertRecord removes the record and takes its effect back out of the
// account balance, in one transaction. The stored row is authoritative, so a
// stale copy passed by the caller cannot skew the balance.
func (r *SQLiteRepository) RevertRecord(ctx context.Context, rec core.Record) error {
	return r.inTx(ctx, func(q querier) error {
		stored, err := getRecord(ctx, q, rec.ID)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM records WHERE _id = ?`, stored.ID); err != nil {
			return unavailable("delete record", err)
		}
		a, err := adjustBalance(ctx, q, stored.AccountID, stored.Kind.Signed(stored.Amount).Neg())
		if err != nil {
			return err
		}

		slog.InfoContext(ctx, "Record deleted",
			"id", stored.ID,
			"balance_reversed", true,
			"account_id", a.ID,
			"balance", a.Balance.String())
		return nil
	})
}

func scanRecord(s rowScanner) (core.Record, error) {
	var (
		rec      core.Record
		amount   sql.NullFloat64
		kind     sql.NullInt64
		category sql.NullInt64
		account  sql.NullInt64
		date     sql.NullInt64
		note     sql.NullString
	)
	if err := s.Scan(&rec.ID, &amount, &kind, &category, &account, &date, &note); err != nil {
		return core.Record{}, err
	}
	rec.Amount = core.AmountFromFloat(amount.Float64)
	rec.Kind = core.Kind(kind.Int64)
	rec.CategoryID = category.Int64
	rec.AccountID = account.Int64
	rec.Timestamp = core.FromMillis(date.Int64)
	rec.Note = note.String
	return rec, nil
}
