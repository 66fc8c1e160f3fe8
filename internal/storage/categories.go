package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bookkeeping/internal/core"
)

const categoryColumns = `_id, name, type, icon_res`

// AddCategory creates a category and returns its id.
func (r *SQLiteRepository) AddCategory(ctx context.Context, name string, kind core.Kind, iconRef string) (int64, error) {
	c := core.Category{Name: strings.TrimSpace(name), Kind: kind, IconRef: iconRef}
	if err := c.Validate(); err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, type, icon_res) VALUES (?, ?, ?)`,
		c.Name, int(c.Kind), c.IconRef)
	if err != nil {
		return 0, unavailable("insert category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("read category id", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", c.Name, "kind", c.Kind.String())
	return id, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return getCategory(ctx, r.db, id)
}

func getCategory(ctx context.Context, q querier, id int64) (core.Category, error) {
	row := q.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE _id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, notFound("category", id)
	}
	if err != nil {
		return core.Category{}, unavailable("get category", err)
	}
	return c, nil
}

// ListCategories returns every category in insertion order.
func (r *SQLiteRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	return r.listCategories(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY _id ASC`)
}

// ListCategoriesByKind returns the categories of one kind in insertion order.
func (r *SQLiteRepository) ListCategoriesByKind(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	if !kind.Valid() {
		return nil, core.ErrUnknownKind
	}
	return r.listCategories(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE type = ? ORDER BY _id ASC`, int(kind))
}

func (r *SQLiteRepository) listCategories(ctx context.Context, query string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, unavailable("scan category", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list categories", err)
	}
	return categories, nil
}

// DeleteCategory removes a category that no record uses.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) error {
	return r.inTx(ctx, func(q querier) error {
		var refs int
		if err := q.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM records WHERE category_id = ?`, id).Scan(&refs); err != nil {
			return unavailable("count category records", err)
		}
		if refs > 0 {
			return fmt.Errorf("%w: category %d is used by %d records", core.ErrInvalidReference, id, refs)
		}

		res, err := q.ExecContext(ctx, `DELETE FROM categories WHERE _id = ?`, id)
		if err != nil {
			return unavailable("delete category", err)
		}
		if err := checkAffected(res, "delete category", "category", id); err != nil {
			return err
		}

		slog.InfoContext(ctx, "Category deleted", "id", id)
		return nil
	})
}

func scanCategory(s rowScanner) (core.Category, error) {
	var (
		c    core.Category
		name sql.NullString
		kind sql.NullInt64
		icon sql.NullString
	)
	if err := s.Scan(&c.ID, &name, &kind, &icon); err != nil {
		return core.Category{}, err
	}
	c.Name = name.String
	c.Kind = core.Kind(kind.Int64)
	c.IconRef = icon.String
	return c, nil
}
