package model

import "time"

// ItemStatus is the lifecycle status of a single physical unit.
type ItemStatus string

// Item statuses. MAINTENANCE, AVAILABLE and UNAVAILABLE are live states
// counted in the owning stock's aggregates; LOST and DONATED are absorbing
// states excluded from all counters.
const (
	StatusMaintenance ItemStatus = "MAINTENANCE"
	StatusAvailable   ItemStatus = "AVAILABLE"
	StatusUnavailable ItemStatus = "UNAVAILABLE"
	StatusLost        ItemStatus = "LOST"
	StatusDonated     ItemStatus = "DONATED"
)

// Valid reports whether s is one of the defined item statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusMaintenance, StatusAvailable, StatusUnavailable, StatusLost, StatusDonated:
		return true
	}
	return false
}

// Live reports whether s contributes to stock counters.
func (s ItemStatus) Live() bool {
	switch s {
	case StatusMaintenance, StatusAvailable, StatusUnavailable:
		return true
	}
	return false
}

// Item represents one serialized physical unit of equipment.
type Item struct {
	ID         string     `json:"id"`
	SerialCode int        `json:"serial_code"`
	Status     ItemStatus `json:"status"`
	StockID    string     `json:"stock_id"`
	ImageMime  string     `json:"image_mime,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
