package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ortobank/ortobank/internal/model"
)

// CreateApplicant registers a new applicant.
func CreateApplicant(ctx context.Context, db *sql.DB, a model.Applicant) (*model.Applicant, error) {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.NationalID) == "" {
		return nil, fmt.Errorf("%w: name and national id are required", ErrInvalidArgument)
	}

	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO applicants (id, name, national_id, email, phone, address)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, a.Name, a.NationalID, a.Email, a.Phone, a.Address,
	)
	if err != nil {
		return nil, fmt.Errorf("creating applicant: %w", err)
	}

	return GetApplicant(ctx, db, id)
}

// GetApplicant returns an applicant by ID, with their dependents populated.
func GetApplicant(ctx context.Context, db *sql.DB, id string) (*model.Applicant, error) {
	a := &model.Applicant{}
	var email, phone, address sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, name, national_id, email, phone, address, beneficiary_count, created_at, updated_at
		 FROM applicants WHERE id = ?`, id,
	).Scan(&a.ID, &a.Name, &a.NationalID, &email, &phone, &address, &a.BeneficiaryCount, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: applicant %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting applicant: %w", err)
	}
	a.Email = email.String
	a.Phone = phone.String
	a.Address = address.String

	a.Dependents, err = ListDependents(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListApplicants returns all applicants, ordered by name.
func ListApplicants(ctx context.Context, db *sql.DB) ([]model.Applicant, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, national_id, email, phone, address, beneficiary_count, created_at, updated_at
		 FROM applicants ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing applicants: %w", err)
	}
	defer rows.Close()

	var applicants []model.Applicant
	for rows.Next() {
		var a model.Applicant
		var email, phone, address sql.NullString
		if err := rows.Scan(&a.ID, &a.Name, &a.NationalID, &email, &phone, &address, &a.BeneficiaryCount, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning applicant: %w", err)
		}
		a.Email = email.String
		a.Phone = phone.String
		a.Address = address.String
		applicants = append(applicants, a)
	}
	return applicants, rows.Err()
}

// UpdateApplicant patches an applicant's contact details. The beneficiary
// count is not writable here; it only moves with dependents.
func UpdateApplicant(ctx context.Context, db *sql.DB, id string, a model.Applicant) (*model.Applicant, error) {
	if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.NationalID) == "" {
		return nil, fmt.Errorf("%w: name and national id are required", ErrInvalidArgument)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE applicants SET name = ?, national_id = ?, email = ?, phone = ?, address = ?,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		a.Name, a.NationalID, a.Email, a.Phone, a.Address, id,
	)
	if err != nil {
		return nil, fmt.Errorf("updating applicant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating applicant: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: applicant %s", ErrNotFound, id)
	}

	return GetApplicant(ctx, db, id)
}

// DeleteApplicant removes an applicant. Fails while loans or dependents
// still reference them.
func DeleteApplicant(ctx context.Context, db *sql.DB, id string) error {
	var loanCount int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM loans WHERE applicant_id = ?`, id,
	).Scan(&loanCount)
	if err != nil {
		return fmt.Errorf("checking applicant loans: %w", err)
	}
	if loanCount > 0 {
		return fmt.Errorf("%w: applicant still has %d loans", ErrConflict, loanCount)
	}

	var depCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dependents WHERE applicant_id = ?`, id,
	).Scan(&depCount)
	if err != nil {
		return fmt.Errorf("checking applicant dependents: %w", err)
	}
	if depCount > 0 {
		return fmt.Errorf("%w: applicant still has %d dependents", ErrConflict, depCount)
	}

	result, err := db.ExecContext(ctx, `DELETE FROM applicants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting applicant: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting applicant: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: applicant %s", ErrNotFound, id)
	}
	return nil
}
