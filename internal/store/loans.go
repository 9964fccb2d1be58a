package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ortobank/ortobank/internal/model"
)

// CreateLoan lends an AVAILABLE item to an applicant. The loan insert and
// the item's transition to UNAVAILABLE (with the stock counter sync) share
// one transaction, so a loan can never exist for an item that was not
// atomically marked as borrowed.
func CreateLoan(ctx context.Context, db *sql.DB, applicantID string, responsibleID int64, itemID, reason string) (*model.Loan, error) {
	if applicantID == "" || itemID == "" || responsibleID <= 0 {
		return nil, fmt.Errorf("%w: applicant, responsible and item are required", ErrInvalidArgument)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := getItemTx(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}
	if item.Status != model.StatusAvailable {
		return nil, fmt.Errorf("%w: item %d is not available for loan (status %s)",
			ErrConflict, item.SerialCode, item.Status)
	}

	var applicantCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applicants WHERE id = ?`, applicantID,
	).Scan(&applicantCount)
	if err != nil {
		return nil, fmt.Errorf("checking applicant: %w", err)
	}
	if applicantCount == 0 {
		return nil, fmt.Errorf("%w: applicant %s", ErrNotFound, applicantID)
	}

	id := uuid.NewString()
	returnDate := time.Now().UTC().AddDate(0, model.DefaultLoanTermMonths, 0)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO loans (id, applicant_id, responsible_id, item_id, reason, return_date, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, 1)`,
		id, applicantID, responsibleID, itemID, reason, returnDate,
	)
	if err != nil {
		return nil, fmt.Errorf("creating loan: %w", err)
	}

	if err := setItemStatusTx(ctx, tx, item, model.StatusUnavailable); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing loan creation: %w", err)
	}

	return GetLoan(ctx, db, id)
}

// GetLoan returns a loan by ID with item, applicant and responsible names
// joined in.
func GetLoan(ctx context.Context, db *sql.DB, id string) (*model.Loan, error) {
	l := &model.Loan{}
	var responsibleName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT l.id, l.applicant_id, l.responsible_id, l.item_id, l.reason, l.return_date,
		        l.is_active, l.created_at, l.updated_at,
		        i.serial_code, a.name, u.name
		 FROM loans l
		 JOIN items i ON i.id = l.item_id
		 JOIN applicants a ON a.id = l.applicant_id
		 LEFT JOIN users u ON u.id = l.responsible_id
		 WHERE l.id = ?`, id,
	).Scan(&l.ID, &l.ApplicantID, &l.ResponsibleID, &l.ItemID, &l.Reason, &l.ReturnDate,
		&l.IsActive, &l.CreatedAt, &l.UpdatedAt,
		&l.ItemSerialCode, &l.ApplicantName, &responsibleName)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: loan %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	l.ResponsibleName = responsibleName.String
	return l, nil
}

// ListLoans returns active loans, newest first.
func ListLoans(ctx context.Context, db *sql.DB) ([]model.Loan, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT l.id, l.applicant_id, l.responsible_id, l.item_id, l.reason, l.return_date,
		        l.is_active, l.created_at, l.updated_at,
		        i.serial_code, a.name, u.name
		 FROM loans l
		 JOIN items i ON i.id = l.item_id
		 JOIN applicants a ON a.id = l.applicant_id
		 LEFT JOIN users u ON u.id = l.responsible_id
		 WHERE l.is_active = 1
		 ORDER BY l.created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// ListExpiringLoans returns active loans whose return date falls within the
// given window from now. Used by the reminder job.
func ListExpiringLoans(ctx context.Context, db *sql.DB, within time.Duration) ([]model.Loan, error) {
	now := time.Now().UTC()
	rows, err := db.QueryContext(ctx,
		`SELECT l.id, l.applicant_id, l.responsible_id, l.item_id, l.reason, l.return_date,
		        l.is_active, l.created_at, l.updated_at,
		        i.serial_code, a.name, u.name
		 FROM loans l
		 JOIN items i ON i.id = l.item_id
		 JOIN applicants a ON a.id = l.applicant_id
		 LEFT JOIN users u ON u.id = l.responsible_id
		 WHERE l.is_active = 1 AND l.return_date >= ? AND l.return_date <= ?
		 ORDER BY l.return_date`,
		now, now.Add(within),
	)
	if err != nil {
		return nil, fmt.Errorf("listing expiring loans: %w", err)
	}
	defer rows.Close()

	return scanLoans(rows)
}

// UpdateLoan patches a loan's reason, return date and/or active flag. An
// active-flag flip drives the borrowed item back to AVAILABLE (return) or to
// UNAVAILABLE (re-activation), with stock counters synced in the same
// transaction.
func UpdateLoan(ctx context.Context, db *sql.DB, id string, reason *string, returnDate *time.Time, isActive *bool) (*model.Loan, error) {
	if reason != nil && strings.TrimSpace(*reason) == "" {
		return nil, fmt.Errorf("%w: reason cannot be blank", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	loan, err := getLoanTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if loan == nil {
		return nil, fmt.Errorf("%w: loan %s", ErrNotFound, id)
	}

	if reason != nil {
		loan.Reason = *reason
	}
	if returnDate != nil {
		loan.ReturnDate = *returnDate
	}

	if isActive != nil && *isActive != loan.IsActive {
		item, err := getItemTx(ctx, tx, loan.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: item %s for loan %s", ErrNotFound, loan.ItemID, id)
		}

		target := model.StatusAvailable
		if *isActive {
			target = model.StatusUnavailable
		}
		if err := setItemStatusTx(ctx, tx, item, target); err != nil {
			return nil, err
		}
		loan.IsActive = *isActive
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE loans SET reason = ?, return_date = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		loan.Reason, loan.ReturnDate, loan.IsActive, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing loan update: %w", err)
	}

	return GetLoan(ctx, db, id)
}

// DeleteLoan hard-deletes a loan. An active loan's item is reverted to
// AVAILABLE in the same transaction so the unit does not stay borrowed
// forever.
func DeleteLoan(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	loan, err := getLoanTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if loan == nil {
		return fmt.Errorf("%w: loan %s", ErrNotFound, id)
	}

	if loan.IsActive {
		item, err := getItemTx(ctx, tx, loan.ItemID)
		if err != nil {
			return err
		}
		// Only revert an item that is actually sitting in the borrowed
		// state; one reported LOST mid-loan stays LOST.
		if item != nil && item.Status == model.StatusUnavailable {
			if err := setItemStatusTx(ctx, tx, item, model.StatusAvailable); err != nil {
				return err
			}
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting loan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing loan deletion: %w", err)
	}
	return nil
}

// getLoanTx loads a loan row inside the transaction, without joined names.
func getLoanTx(ctx context.Context, tx *sql.Tx, id string) (*model.Loan, error) {
	l := &model.Loan{}
	err := tx.QueryRowContext(ctx,
		`SELECT id, applicant_id, responsible_id, item_id, reason, return_date, is_active, created_at, updated_at
		 FROM loans WHERE id = ?`, id,
	).Scan(&l.ID, &l.ApplicantID, &l.ResponsibleID, &l.ItemID, &l.Reason, &l.ReturnDate, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan: %w", err)
	}
	return l, nil
}

func scanLoans(rows *sql.Rows) ([]model.Loan, error) {
	var loans []model.Loan
	for rows.Next() {
		var l model.Loan
		var responsibleName sql.NullString
		if err := rows.Scan(&l.ID, &l.ApplicantID, &l.ResponsibleID, &l.ItemID, &l.Reason, &l.ReturnDate,
			&l.IsActive, &l.CreatedAt, &l.UpdatedAt,
			&l.ItemSerialCode, &l.ApplicantName, &responsibleName); err != nil {
			return nil, fmt.Errorf("scanning loan: %w", err)
		}
		l.ResponsibleName = responsibleName.String
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
