package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain errors:
//   - ErrNotFound: row does not exist
//   - ErrConflict: a conditional update lost (slot already held, candidate
//     place reference changed underneath)
//   - ErrAlreadyUsed: a unique key (NEPH, email, slot triple) is taken
//   - ErrInvalidState: entity in wrong state for the requested operation
//   - ErrUnavailable: backend temporarily unavailable
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrAlreadyUsed  = errors.New("already used")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
