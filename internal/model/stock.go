package model

import "time"

// Stock is an inventory bucket of items at a hub, with live counters per
// item status and a derived total. Counters are only ever mutated by the
// store's status synchronizer, never set directly by callers.
type Stock struct {
	ID          string    `json:"id"`
	HubID       string    `json:"hub_id"`
	Title       string    `json:"title"`
	Maintenance int       `json:"maintenance"`
	Available   int       `json:"available"`
	Borrowed    int       `json:"borrowed"`
	Total       int       `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Populated on single-stock reads only.
	Items []Item `json:"items,omitempty"`
}
