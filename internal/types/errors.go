package types

import "errors"

// Failure classes the core returns and the HTTP layer maps to status
// codes. Wrap with fmt.Errorf("...: %w", ...) and match with errors.Is.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	ErrInvalid   = errors.New("invalid request")
)
