package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ortobank/ortobank/internal/model"
)

// CreateDependent registers a dependent under an applicant and bumps the
// applicant's beneficiary count in the same transaction.
func CreateDependent(ctx context.Context, db *sql.DB, d model.Dependent) (*model.Dependent, error) {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.NationalID) == "" {
		return nil, fmt.Errorf("%w: name and national id are required", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applicants WHERE id = ?`, d.ApplicantID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking applicant: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: applicant %s", ErrNotFound, d.ApplicantID)
	}

	if err := checkDependentIdentityTx(ctx, tx, d.NationalID, d.Email, ""); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO dependents (id, applicant_id, name, national_id, email, phone, address)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, d.ApplicantID, d.Name, d.NationalID, d.Email, d.Phone, d.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("creating dependent: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE applicants SET beneficiary_count = beneficiary_count + 1,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, d.ApplicantID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating beneficiary count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return GetDependent(ctx, db, id)
}

// checkDependentIdentityTx fails with ErrConflict when another dependent
// already carries the given national ID or (non-empty) email. excludeID
// skips the dependent being updated.
func checkDependentIdentityTx(ctx context.Context, tx *sql.Tx, nationalID, email, excludeID string) error {
	var count int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dependents
		 WHERE (national_id = ? OR (email != '' AND email = ?)) AND id != ?`,
		nationalID, email, excludeID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking dependent identity: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: a dependent with this national id or email already exists", ErrConflict)
	}
	return nil
}

// GetDependent returns a dependent by ID.
func GetDependent(ctx context.Context, db *sql.DB, id string) (*model.Dependent, error) {
	d := &model.Dependent{}
	var email, phone, address sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, applicant_id, name, national_id, email, phone, address, created_at, updated_at
		 FROM dependents WHERE id = ?`, id,
	).Scan(&d.ID, &d.ApplicantID, &d.Name, &d.NationalID, &email, &phone, &address, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: dependent %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting dependent: %w", err)
	}
	d.Email = email.String
	d.Phone = phone.String
	d.Address = address.String
	return d, nil
}

// ListDependents returns an applicant's dependents, ordered by name.
// An empty applicantID lists every dependent.
func ListDependents(ctx context.Context, db *sql.DB, applicantID string) ([]model.Dependent, error) {
	query := `SELECT id, applicant_id, name, national_id, email, phone, address, created_at, updated_at
	          FROM dependents`
	var args []any
	if applicantID != "" {
		query += ` WHERE applicant_id = ?`
		args = append(args, applicantID)
	}
	query += ` ORDER BY name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing dependents: %w", err)
	}
	defer rows.Close()

	var dependents []model.Dependent
	for rows.Next() {
		var d model.Dependent
		var email, phone, address sql.NullString
		if err := rows.Scan(&d.ID, &d.ApplicantID, &d.Name, &d.NationalID, &email, &phone, &address, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning dependent: %w", err)
		}
		d.Email = email.String
		d.Phone = phone.String
		d.Address = address.String
		dependents = append(dependents, d)
	}
	return dependents, rows.Err()
}

// UpdateDependent patches a dependent's details. The owning applicant
// cannot be changed.
func UpdateDependent(ctx context.Context, db *sql.DB, id string, d model.Dependent) (*model.Dependent, error) {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.NationalID) == "" {
		return nil, fmt.Errorf("%w: name and national id are required", ErrInvalidArgument)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkDependentIdentityTx(ctx, tx, d.NationalID, d.Email, id); err != nil {
		return nil, err
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE dependents SET name = ?, national_id = ?, email = ?, phone = ?, address = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		d.Name, d.NationalID, d.Email, d.Phone, d.Address, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating dependent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating dependent: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: dependent %s", ErrNotFound, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return GetDependent(ctx, db, id)
}

// DeleteDependent removes a dependent and drops the applicant's beneficiary
// count in the same transaction.
func DeleteDependent(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var applicantID string
	err = tx.QueryRowContext(ctx,
		`SELECT applicant_id FROM dependents WHERE id = ?`, id,
	).Scan(&applicantID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: dependent %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("getting dependent: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM dependents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting dependent: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE applicants SET beneficiary_count = beneficiary_count - 1,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`, applicantID,
	)
	if err != nil {
		return fmt.Errorf("updating beneficiary count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
