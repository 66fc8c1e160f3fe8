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

const itemColumns = `_id, name, status, record_id, purchase_date, price, photo_path`

// AddItem stores an item. A non-nil RecordID must name an existing record.
func (r *SQLiteRepository) AddItem(ctx context.Context, item core.Item) (int64, error) {
	return addItem(ctx, r.db, item)
}

func addItem(ctx context.Context, q querier, item core.Item) (int64, error) {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return 0, err
	}
	item.Price = core.RoundAmount(item.Price)

	var recordID sql.NullInt64
	if item.RecordID != nil {
		ok, err := exists(ctx, q, "records", *item.RecordID)
		if err != nil {
			return 0, err
		}
		if !ok {
			return 0, fmt.Errorf("%w: record %d does not exist", core.ErrInvalidReference, *item.RecordID)
		}
		recordID = sql.NullInt64{Int64: *item.RecordID, Valid: true}
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO items (name, status, record_id, purchase_date, price, photo_path) VALUES (?, ?, ?, ?, ?, ?)`,
		item.Name,
		int(item.Status),
		recordID,
		item.PurchaseDate.UnixMilli(),
		item.Price.InexactFloat64(),
		item.PhotoRef)
	if err != nil {
		return 0, unavailable("insert item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, unavailable("read item id", err)
	}

	slog.InfoContext(ctx, "Item saved to SQLite",
		"id", id,
		"name", item.Name,
		"price", item.Price.String(),
		"record_id", recordID.Int64)
	return id, nil
}

// PurchaseItem records the purchase as an expense of the item's price,
// applies it to the account, and stores the item linked to that record. All
// three writes share one transaction.
func (r *SQLiteRepository) PurchaseItem(ctx context.Context, item core.Item, accountID, categoryID int64) (itemID, recordID int64, err error) {
	if err := item.Validate(); err != nil {
		return 0, 0, err
	}
	item.Price = core.RoundAmount(item.Price)
	rec := core.Record{
		Amount:     item.Price,
		Kind:       core.Expense,
		CategoryID: categoryID,
		AccountID:  accountID,
		Timestamp:  item.PurchaseDate,
		Note:       item.Name,
	}

	err = r.inTx(ctx, func(q querier) error {
		var err error
		if recordID, err = r.addRecord(ctx, q, rec); err != nil {
			return err
		}
		rec.ID = recordID
		if _, err = applyRecord(ctx, q, rec); err != nil {
			return err
		}
		item.RecordID = &recordID
		itemID, err = addItem(ctx, q, item)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return itemID, recordID, nil
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id int64) (core.Item, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE _id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Item{}, notFound("item", id)
	}
	if err != nil {
		return core.Item{}, unavailable("get item", err)
	}
	return item, nil
}

// ListItems returns every item, most recently added first.
func (r *SQLiteRepository) ListItems(ctx context.Context) ([]core.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY _id DESC`)
	if err != nil {
		return nil, unavailable("list items", err)
	}
	defer rows.Close()

	var items []core.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, unavailable("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("list items", err)
	}
	return items, nil
}

// UpdateItem replaces name, status, purchase date, price and photo. The
// record link is set once at creation and never changed here.
func (r *SQLiteRepository) UpdateItem(ctx context.Context, item core.Item) error {
	item.Name = strings.TrimSpace(item.Name)
	if err := item.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE items SET name = ?, status = ?, purchase_date = ?, price = ?, photo_path = ? WHERE _id = ?`,
		item.Name,
		int(item.Status),
		item.PurchaseDate.UnixMilli(),
		core.RoundAmount(item.Price).InexactFloat64(),
		item.PhotoRef,
		item.ID)
	if err != nil {
		return unavailable("update item", err)
	}
	if err := checkAffected(res, "update item", "item", item.ID); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Item updated", "id", item.ID, "status", item.Status.String())
	return nil
}

// UpdateItemStatus changes the status column only.
func (r *SQLiteRepository) UpdateItemStatus(ctx context.Context, id int64, status core.ItemStatus) error {
	if !status.Valid() {
		return core.ErrUnknownStatus
	}

	res, err := r.db.ExecContext(ctx, `UPDATE items SET status = ? WHERE _id = ?`, int(status), id)
	if err != nil {
		return unavailable("update item status", err)
	}
	if err := checkAffected(res, "update item status", "item", id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Item status changed", "id", id, "status", status.String())
	return nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE _id = ?`, id)
	if err != nil {
		return unavailable("delete item", err)
	}
	if err := checkAffected(res, "delete item", "item", id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Item deleted", "id", id)
	return nil
}

func scanItem(s rowScanner) (core.Item, error) {
	var (
		item     core.Item
		name     sql.NullString
		status   sql.NullInt64
		recordID sql.NullInt64
		date     sql.NullInt64
		price    sql.NullFloat64
		photo    sql.NullString
	)
	if err := s.Scan(&item.ID, &name, &status, &recordID, &date, &price, &photo); err != nil {
		return core.Item{}, err
	}
	item.Name = name.String
	item.Status = core.ItemStatus(status.Int64)
	if recordID.Valid {
		id := recordID.Int64
		item.RecordID = &id
	}
	item.PurchaseDate = core.FromMillis(date.Int64)
	item.Price = core.AmountFromFloat(price.Float64)
	item.PhotoRef = photo.String
	return item, nil
}
