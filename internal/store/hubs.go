package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ortobank/ortobank/internal/model"
)

// CreateHub creates a new distribution hub.
func CreateHub(ctx context.Context, db *sql.DB, name, city string) (*model.Hub, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("%w: name and city are required", ErrInvalidArgument)
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO hubs (id, name, city) VALUES (?, ?, ?)`,
		id, name, city,
	)
	if err != nil {
		return nil, fmt.Errorf("creating hub: %w", err)
	}

	return GetHub(ctx, db, id)
}

// GetHub returns a hub by ID.
func GetHub(ctx context.Context, db *sql.DB, id string) (*model.Hub, error) {
	h := &model.Hub{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, city, created_at, updated_at FROM hubs WHERE id = ?`, id,
	).Scan(&h.ID, &h.Name, &h.City, &h.CreatedAt, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: hub %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting hub: %w", err)
	}
	return h, nil
}

// ListHubs returns all hubs, ordered by name.
func ListHubs(ctx context.Context, db *sql.DB) ([]model.Hub, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, city, created_at, updated_at FROM hubs ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing hubs: %w", err)
	}
	defer rows.Close()

	var hubs []model.Hub
	for rows.Next() {
		var h model.Hub
		if err := rows.Scan(&h.ID, &h.Name, &h.City, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning hub: %w", err)
		}
		hubs = append(hubs, h)
	}
	return hubs, rows.Err()
}

// UpdateHub updates a hub's name and city.
func UpdateHub(ctx context.Context, db *sql.DB, id, name, city string) (*model.Hub, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(city) == "" {
		return nil, fmt.Errorf("%w: name and city are required", ErrInvalidArgument)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE hubs SET name = ?, city = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, city, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating hub: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating hub: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: hub %s", ErrNotFound, id)
	}

	return GetHub(ctx, db, id)
}

// DeleteHub removes a hub. Fails while the hub still owns stocks.
func DeleteHub(ctx context.Context, db *sql.DB, id string) error {
	var stockCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM stocks WHERE hub_id = ?`, id,
	).Scan(&stockCount)
	if err != nil {
		return fmt.Errorf("checking hub stocks: %w", err)
	}
	if stockCount > 0 {
		return fmt.Errorf("%w: hub still owns %d stocks", ErrConflict, stockCount)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM hubs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting hub: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting hub: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: hub %s", ErrNotFound, id)
	}
	return nil
}
