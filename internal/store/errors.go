package store

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrNotFound means a referenced hub, stock, item, applicant or loan
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument means the input was malformed before any write
	// happened (blank required field, non-positive serial code, empty id).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict means the operation collides with existing state
	// (duplicate serial code or title, item not available for loan,
	// entity still referenced by children).
	ErrConflict = errors.New("conflict")

	// ErrInvalidState means stored counters and items disagree. It always
	// aborts the surrounding transaction so the inconsistency is never
	// made worse.
	ErrInvalidState = errors.New("invalid state")
)
