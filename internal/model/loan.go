package model

import "time"

// DefaultLoanTermMonths is how long a borrowed item may be kept by default.
// ReturnDate is set to creation time plus this term.
const DefaultLoanTermMonths = 3

// Loan records an item lent to an applicant for a bounded period.
type Loan struct {
	ID            string    `json:"id"`
	ApplicantID   string    `json:"applicant_id"`
	ResponsibleID int64     `json:"responsible_id"`
	ItemID        string    `json:"item_id"`
	Reason        string    `json:"reason"`
	ReturnDate    time.Time `json:"return_date"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ItemSerialCode  int    `json:"item_serial_code,omitempty"`
	ApplicantName   string `json:"applicant_name,omitempty"`
	ResponsibleName string `json:"responsible_name,omitempty"`
}
