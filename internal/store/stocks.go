package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ortobank/ortobank/internal/model"
)

// CreateStock creates an empty stock (all counters zero) under a hub.
func CreateStock(ctx context.Context, db *sql.DB, hubID, title string) (*model.Stock, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var hubCount int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hubs WHERE id = ?`, hubID).Scan(&hubCount)
	if err != nil {
		return nil, fmt.Errorf("checking hub: %w", err)
	}
	if hubCount == 0 {
		return nil, fmt.Errorf("%w: hub %s", ErrNotFound, hubID)
	}

	var titleCount int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM stocks WHERE title = ?`, title).Scan(&titleCount)
	if err != nil {
		return nil, fmt.Errorf("checking stock title: %w", err)
	}
	if titleCount > 0 {
		return nil, fmt.Errorf("%w: stock with title %q already exists", ErrConflict, title)
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO stocks (id, hub_id, title) VALUES (?, ?, ?)`,
		id, hubID, title,
	)
	if err != nil {
		return nil, fmt.Errorf("creating stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing stock creation: %w", err)
	}

	return GetStock(ctx, db, id)
}

// GetStock returns a stock by ID with its items populated.
func GetStock(ctx context.Context, db *sql.DB, id string) (*model.Stock, error) {
	s := &model.Stock{}
	err := db.QueryRowContext(ctx,
		`SELECT id, hub_id, title, maintenance, available, borrowed, total, created_at, updated_at
		 FROM stocks WHERE id = ?`, id,
	).Scan(&s.ID, &s.HubID, &s.Title, &s.Maintenance, &s.Available, &s.Borrowed, &s.Total, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: stock %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting stock: %w", err)
	}

	items, err := ListItems(ctx, db, id, "")
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// ListStocks returns all stocks, optionally filtered by hub. Items are not
// populated in list views.
func ListStocks(ctx context.Context, db *sql.DB, hubID string) ([]model.Stock, error) {
	query := `SELECT id, hub_id, title, maintenance, available, borrowed, total, created_at, updated_at
	          FROM stocks`
	var args []any
	if hubID != "" {
		query += ` WHERE hub_id = ?`
		args = append(args, hubID)
	}
	query += ` ORDER BY title`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing stocks: %w", err)
	}
	defer rows.Close()

	var stocks []model.Stock
	for rows.Next() {
		var s model.Stock
		if err := rows.Scan(&s.ID, &s.HubID, &s.Title, &s.Maintenance, &s.Available, &s.Borrowed, &s.Total, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning stock: %w", err)
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// UpdateStock retitles a stock. Counters are never writable here; they are
// maintained exclusively by item status transitions.
func UpdateStock(ctx context.Context, db *sql.DB, id, title string) (*model.Stock, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}

	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stocks WHERE title = ? AND id != ?`, title, id,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("checking stock title: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: stock with title %q already exists", ErrConflict, title)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE stocks SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating stock: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: stock %s", ErrNotFound, id)
	}

	return GetStock(ctx, db, id)
}

// DeleteStock removes a stock. Fails while the stock still owns items.
func DeleteStock(ctx context.Context, db *sql.DB, id string) error {
	var itemCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE stock_id = ?`, id,
	).Scan(&itemCount)
	if err != nil {
		return fmt.Errorf("checking stock items: %w", err)
	}
	if itemCount > 0 {
		return fmt.Errorf("%w: stock still owns %d items", ErrConflict, itemCount)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM stocks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting stock: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting stock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: stock %s", ErrNotFound, id)
	}
	return nil
}
