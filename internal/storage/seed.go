package storage

import (
	"context"
	"log/slog"

	"bookkeeping/internal/core"
)

type seedAccount struct {
	name, kind string
}

type seedCategory struct {
	name string
	kind core.Kind
	icon string
}

var defaultAccounts = []seedAccount{
	{"Cash", "cash"},
	{"Card", "card"},
	{"WeChat", "wallet"},
	{"Alipay", "wallet"},
}

var defaultCategories = []seedCategory{
	{"food", core.Expense, "ic_food"},
	{"transport", core.Expense, "ic_transport"},
	{"shopping", core.Expense, "ic_shopping"},
	{"entertainment", core.Expense, "ic_entertainment"},
	{"housing", core.Expense, "ic_housing"},
	{"medical", core.Expense, "ic_medical"},
	{"digital", core.Expense, "ic_digital"},

	{"salary", core.Income, "ic_salary"},
	{"part-time", core.Income, "ic_part_time"},
	{"investment", core.Income, "ic_investment"},
	{"other", core.Income, "ic_other"},
}

// SeedDefaults inserts the default accounts and categories in one
// transaction. It does nothing once any account or category exists, so the
// defaults land exactly once per freshly created database.
func (r *SQLiteRepository) SeedDefaults(ctx context.Context) error {
	return r.inTx(ctx, func(q querier) error {
		var count int
		err := q.QueryRowContext(ctx,
			`SELECT (SELECT COUNT(*) FROM accounts) + (SELECT COUNT(*) FROM categories)`).Scan(&count)
		if err != nil {
			return unavailable("count existing rows", err)
		}
		if count > 0 {
			slog.DebugContext(ctx, "Skipping default seed, ledger already has data", "rows", count)
			return nil
		}

		for _, a := range defaultAccounts {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO accounts (name, type, balance) VALUES (?, ?, 0)`,
				a.name, a.kind); err != nil {
				return unavailable("seed account", err)
			}
		}
		for _, c := range defaultCategories {
			if _, err := q.ExecContext(ctx,
				`INSERT INTO categories (name, type, icon_res) VALUES (?, ?, ?)`,
				c.name, int(c.kind), c.icon); err != nil {
				return unavailable("seed category", err)
			}
		}

		slog.InfoContext(ctx, "Seeded default ledger data",
			"accounts", len(defaultAccounts),
			"categories", len(defaultCategories))
		return nil
	})
}
