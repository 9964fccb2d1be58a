package model

import "time"

// Applicant is a person who can borrow equipment. BeneficiaryCount is the
// number of dependents registered under the applicant and is kept in step
// with the dependents table by the store.
type Applicant struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	NationalID       string    `json:"national_id"`
	Email            string    `json:"email,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	BeneficiaryCount int       `json:"beneficiary_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Dependents is only populated when fetching a single applicant.
	Dependents []Dependent `json:"dependents,omitempty"`
}
