package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ortobank/ortobank/internal/model"
)

// applyStatusDelta adjusts the stock counter tracking status by delta and
// recomputes the derived total. Absorbing statuses (LOST, DONATED) touch no
// counter. Delta is +1 when an item enters the status, -1 when it leaves.
func applyStatusDelta(s *model.Stock, status model.ItemStatus, delta int) error {
	switch status {
	case model.StatusMaintenance:
		s.Maintenance += delta
	case model.StatusAvailable:
		s.Available += delta
	case model.StatusUnavailable:
		s.Borrowed += delta
	case model.StatusLost, model.StatusDonated:
		// Not counted.
	default:
		return fmt.Errorf("%w: unknown item status %q", ErrInvalidState, status)
	}

	if s.Maintenance < 0 || s.Available < 0 || s.Borrowed < 0 {
		return fmt.Errorf("%w: stock %s counters would go negative (maintenance=%d available=%d borrowed=%d)",
			ErrInvalidState, s.ID, s.Maintenance, s.Available, s.Borrowed)
	}

	s.Total = s.Maintenance + s.Available + s.Borrowed
	return nil
}

// getStockTx loads a stock row inside the transaction so its counters are
// read and written under the same lock.
func getStockTx(ctx context.Context, tx *sql.Tx, id string) (*model.Stock, error) {
	s := &model.Stock{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, hub_id, title, maintenance, available, borrowed, total, created_at, updated_at
		 FROM stocks WHERE id = ?`, id,
	).Scan(&s.ID, &s.HubID, &s.Title, &s.Maintenance, &s.Available, &s.Borrowed, &s.Total, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting stock: %w", err)
	}
	return s, nil
}

// saveStockCountersTx writes the stock's counters back within the transaction.
func saveStockCountersTx(ctx context.Context, tx *sql.Tx, s *model.Stock) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE stocks SET maintenance = ?, available = ?, borrowed = ?, total = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		s.Maintenance, s.Available, s.Borrowed, s.Total, s.ID,
	)
	if err != nil {
		return fmt.Errorf("saving stock counters: %w", err)
	}
	return nil
}

// setItemStatusTx moves item to newStatus inside tx, keeping the owning
// stock's counters in sync. A same-status call is a no-op. The item struct
// is updated in place on success.
func setItemStatusTx(ctx context.Context, tx *sql.Tx, item *model.Item, newStatus model.ItemStatus) error {
	if item.Status == newStatus {
		return nil
	}
	if !newStatus.Valid() {
		return fmt.Errorf("%w: invalid item status %q", ErrInvalidArgument, newStatus)
	}

	stock, err := getStockTx(ctx, tx, item.StockID)
	if err != nil {
		return err
	}
	if stock == nil {
		return fmt.Errorf("%w: stock %s for item %s", ErrNotFound, item.StockID, item.ID)
	}

	if err := applyStatusDelta(stock, item.Status, -1); err != nil {
		return err
	}
	if err := applyStatusDelta(stock, newStatus, +1); err != nil {
		return err
	}
	if err := saveStockCountersTx(ctx, tx, stock); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		newStatus, item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}

	item.Status = newStatus
	return nil
}
