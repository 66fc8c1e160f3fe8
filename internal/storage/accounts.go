package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"bookkeeping/internal/core"
)

const accountColumns = `_id, name, type, balance`

// AddAccount creates an account with an opening balance and returns its id.
func (r *SQLiteRepository) AddAccount(ctx context.Context, name, accountType string, balance decimal.Decimal) (int64, error) {
	a := core.Account{Name: strings.TrimSpace(name), Type: accountType, Balance: core.RoundAmount(balance)}
	if err := a.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (name, type, balance) VALUES (?, ?, ?)`,
		a.Name, a.Type, a.Balance.InexactFloat64())
	if err != nil {
		return 0, unavailable("insert account", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("read account id", err)
	}

	slog.InfoContext(ctx, "Account created",
		"id", id,
		"name", a.Name,
		"balance", a.Balance.String())
	return id, nil
}

// GetAccount returns core.ErrNotFound when no account has the id.
func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.Account, error) {
	return getAccount(ctx, r.db, id)
}

func getAccount(ctx context.Context, q querier, id int64) (core.Account, error) {
	row := q.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE _id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, notFound("account", id)
	}
	if err != nil {
		return core.Account{}, unavailable("get account", err)
	}
	return a, nil
}

// ListAccounts returns every account in insertion order.
func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY _id ASC`)
	if err != nil {
		return nil, unavailable("list accounts", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, unavailable("scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list accounts", err)
	}
	return accounts, nil
}

// UpdateAccount overwrites name, type and balance.
func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) error {
	a.Name = strings.TrimSpace(a.Name)
	if err := a.Validate(); err != nil {
		return err
	}
	return updateAccount(ctx, r.db, a)
}

func updateAccount(ctx context.Context, q querier, a core.Account) error {
	res, err := q.ExecContext(ctx,
		`UPDATE accounts SET name = ?, type = ?, balance = ? WHERE _id = ?`,
		a.Name, a.Type, core.RoundAmount(a.Balance).InexactFloat64(), a.ID)
	if err != nil {
		return unavailable("update account", err)
	}
	return checkAffected(res, "update account", "account", a.ID)
}

// DeleteAccount removes an account. An account that records still point to
// is kept and core.ErrInvalidReference is returned.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	return r.inTx(ctx, func(q querier) error {
		var refs int
		if err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM records WHERE account_id = ?`, id).Scan(&refs); err != nil {
			return unavailable("count account records", err)
		}
		if refs > 0 {
			return fmt.Errorf("%w: account %d is used by %d records", core.ErrInvalidReference, id, refs)
		}

		res, err := q.ExecContext(ctx, `DELETE FROM accounts WHERE _id = ?`, id)
		if err != nil {
			return unavailable("delete account", err)
		}
		if err := checkAffected(res, "delete account", "account", id); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Account deleted", "id", id)
		return nil
	})
}

// adjustBalance adds delta to the stored balance of an account.
func adjustBalance(ctx context.Context, q querier, accountID int64, delta decimal.Decimal) (core.Account, error) {
	a, err := getAccount(ctx, q, accountID)
	if err != nil {
		return core.Account{}, err
	}
	a.Balance = core.RoundAmount(a.Balance.Add(delta))
	if err := updateAccount(ctx, q, a); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func scanAccount(s rowScanner) (core.Account, error) {
	var (
		a       core.Account
		name    sql.NullString
		kind    sql.NullString
		balance sql.NullFloat64
	)
	if err := s.Scan(&a.ID, &name, &kind, &balance); err != nil {
		return core.Account{}, err
	}
	a.Name = name.String
	a.Type = kind.String
	a.Balance = core.AmountFromFloat(balance.Float64)
	return a, nil
}
