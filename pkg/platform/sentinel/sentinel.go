package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: no row for the requested id
//   - ErrAlreadyUsed: a unique constraint rejected the write
//   - ErrConflict: the row changed or is locked by another writer
//   - ErrReferenced: the row still has dependents (foreign key restrict)
//   - ErrUnavailable: backing service temporarily unavailable
//   - ErrInvalidValue: the store rejected a value (check or range violation)
var (
	ErrNotFound     = errors.New("not found")
	ErrAlreadyUsed  = errors.New("already used")
	ErrConflict     = errors.New("conflict")
	ErrReferenced   = errors.New("still referenced")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidValue = errors.New("invalid value")
)

// UniqueViolation is returned by stores when the database rejected a write
// through a named unique constraint. Services map the constraint back to the
// fields it covers.
type UniqueViolation struct {
	Constraint string
}

func (e *UniqueViolation) Error() string {
	return "unique constraint " + e.Constraint + " violated"
}

// Is lets errors.Is(err, ErrAlreadyUsed) match constraint violations.
func (e *UniqueViolation) Is(target error) bool {
	return target == ErrAlreadyUsed
}
