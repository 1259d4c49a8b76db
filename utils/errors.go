package utils

import "errors"

// Error kinds shared by models and handlers. Handlers map these onto HTTP
// status codes; nothing below the handler layer knows about HTTP.
var (
	// ErrValidation is returned when input fails a business rule, e.g. a
	// line item referencing a customer or catalog entry that does not exist.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned on duplicate unique keys and on operations
	// that clash with existing state, e.g. deleting a quotation that an
	// invoice references.
	ErrConflict = errors.New("conflict")

	// ErrInvalidTransition is returned when a status change is not in the
	// document's allowed-transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
)
