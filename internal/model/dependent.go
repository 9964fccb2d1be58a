package model

import "time"

// Dependent is a person who benefits from equipment borrowed on an
// applicant's behalf. The owning applicant's beneficiary count tracks how
// many dependents they have; it is maintained by the store, never set
// directly.
type Dependent struct {
	ID          string    `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	Name        string    `json:"name"`
	NationalID  string    `json:"national_id"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
