package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ortobank/ortobank/internal/model"
)

// CreateItem registers a new serialized unit under a stock. The item starts
// AVAILABLE and the stock's available counter is incremented in the same
// transaction.
func CreateItem(ctx context.Context, db *sql.DB, serialCode int, stockID string) (*model.Item, error) {
	if serialCode <= 0 {
		return nil, fmt.Errorf("%w: serial code must be greater than zero", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stock, err := getStockTx(ctx, tx, stockID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: stock %s", ErrNotFound, stockID)
	}

	var count int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE serial_code = ?`, serialCode,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking serial code: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: item with serial code %d already exists", ErrConflict, serialCode)
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, serial_code, stock_id, status) VALUES (?, ?, ?, ?)`,
		id, serialCode, stockID, model.StatusAvailable,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	if err := applyStatusDelta(stock, model.StatusAvailable, +1); err != nil {
		return nil, err
	}
	if err := saveStockCountersTx(ctx, tx, stock); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item creation: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or ErrNotFound.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item := &model.Item{}
	var imageMime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, serial_code, stock_id, status, image_mime, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.SerialCode, &item.StockID, &item.Status, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.ImageMime = imageMime.String
	return item, nil
}

// ListItems returns all items, optionally filtered by stock or status.
func ListItems(ctx context.Context, db *sql.DB, stockID string, status model.ItemStatus) ([]model.Item, error) {
	query := `SELECT id, serial_code, stock_id, status, image_mime, created_at, updated_at
	          FROM items WHERE 1=1`
	var args []any

	if stockID != "" {
		query += ` AND stock_id = ?`
		args = append(args, stockID)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY serial_code`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem patches an item's serial code and/or status. A status change
// moves the item between stock counters; both rows commit together.
func UpdateItem(ctx context.Context, db *sql.DB, id string, serialCode *int, status *model.ItemStatus) (*model.Item, error) {
	if serialCode != nil && *serialCode <= 0 {
		return nil, fmt.Errorf("%w: serial code must be greater than zero", ErrInvalidArgument)
	}
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: invalid item status %q", ErrInvalidArgument, *status)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := getItemTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, id)
	}

	if serialCode != nil && *serialCode != item.SerialCode {
		var count int
		err = tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM items WHERE serial_code = ? AND id != ?`, *serialCode, id,
		).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("checking serial code: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: item with serial code %d already exists", ErrConflict, *serialCode)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE items SET serial_code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			*serialCode, id,
		)
		if err != nil {
			return nil, fmt.Errorf("updating serial code: %w", err)
		}
	}

	if status != nil {
		if err := setItemStatusTx(ctx, tx, item, *status); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item update: %w", err)
	}

	return GetItem(ctx, db, id)
}

// DeleteItem hard-deletes an item, first reversing its contribution to the
// owning stock's counters. Returns the owning stock id.
func DeleteItem(ctx context.Context, db *sql.DB, id string) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := getItemTx(ctx, tx, id)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", fmt.Errorf("%w: item %s", ErrNotFound, id)
	}

	var loanCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans WHERE item_id = ?`, id,
	).Scan(&loanCount)
	if err != nil {
		return "", fmt.Errorf("checking item loans: %w", err)
	}
	if loanCount > 0 {
		return "", fmt.Errorf("%w: item still referenced by %d loans", ErrConflict, loanCount)
	}

	// Items in absorbing states were already removed from the counters.
	if item.Status.Live() {
		stock, err := getStockTx(ctx, tx, item.StockID)
		if err != nil {
			return "", err
		}
		if stock == nil {
			return "", fmt.Errorf("%w: stock %s for item %s", ErrNotFound, item.StockID, id)
		}
		if err := applyStatusDelta(stock, item.Status, -1); err != nil {
			return "", err
		}
		if err := saveStockCountersTx(ctx, tx, stock); err != nil {
			return "", err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return "", fmt.Errorf("deleting item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing item deletion: %w", err)
	}
	return item.StockID, nil
}

// SetItemImage stores an item's processed image.
func SetItemImage(ctx context.Context, db *sql.DB, id string, image []byte, mime string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type. The data is nil
// when no image has been uploaded.
func GetItemImage(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", fmt.Errorf("%w: item %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

// getItemTx loads an item row inside the transaction.
func getItemTx(ctx context.Context, tx *sql.Tx, id string) (*model.Item, error) {
	item := &model.Item{}
	var imageMime sql.NullString
	err := tx.QueryRowContext(ctx,
		`SELECT id, serial_code, stock_id, status, image_mime, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.SerialCode, &item.StockID, &item.Status, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	item.ImageMime = imageMime.String
	return item, nil
}

func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.SerialCode, &item.StockID, &item.Status, &imageMime, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}
