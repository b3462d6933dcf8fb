package validation

import (
	"fmt"
	"strings"

	dErrors "backoffice/pkg/domain-errors"
)

// NotFoundError reports that no record of Entity has the given id.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) ErrorCode() dErrors.Code { return dErrors.CodeNotFound }

func (e *NotFoundError) ErrorDetails() dErrors.Details {
	return dErrors.Details{Entity: e.Entity, Field: "id", Value: e.ID}
}

// MissingFieldError reports a required field that is absent or blank.
type MissingFieldError struct {
	Entity string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s is required", e.Entity, e.Field)
}

func (e *MissingFieldError) ErrorCode() dErrors.Code { return dErrors.CodeValidation }

func (e *MissingFieldError) ErrorDetails() dErrors.Details {
	return dErrors.Details{Entity: e.Entity, Field: e.Field}
}

// FieldTooLongError reports a value over its length limit, counted in runes.
type FieldTooLongError struct {
	Entity string
	Field  string
	Max    int
	Length int
}

func (e *FieldTooLongError) Error() string {
	return fmt.Sprintf("%s: %s must be at most %d characters (got %d)", e.Entity, e.Field, e.Max, e.Length)
}

func (e *FieldTooLongError) ErrorCode() dErrors.Code { return dErrors.CodeValidation }

func (e *FieldTooLongError) ErrorDetails() dErrors.Details {
	return dErrors.Details{Entity: e.Entity, Field: e.Field}
}

// InvalidFormatError reports a value that fails a syntax or range rule.
type InvalidFormatError struct {
	Entity string
	Field  string
	Value  any
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("%s: %s %v is invalid: %s", e.Entity, e.Field, e.Value, e.Reason)
}

func (e *InvalidFormatError) ErrorCode() dErrors.Code { return dErrors.CodeValidation }

func (e *InvalidFormatError) ErrorDetails() dErrors.Details {
	return dErrors.Details{Entity: e.Entity, Field: e.Field, Value: e.Value}
}

// DuplicateValueError reports a uniqueness violation. Composite keys list
// every field of the combination.
type DuplicateValueError struct {
	Entity string
	Fields []string
	Values []any
}

func (e *DuplicateValueError) Error() string {
	if len(e.Fields) == 1 && len(e.Values) == 1 {
		return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Fields[0], fmt.Sprint(e.Values[0]))
	}
	pairs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		if i < len(e.Values) {
			pairs[i] = fmt.Sprintf("%s %q", f, fmt.Sprint(e.Values[i]))
		} else {
			pairs[i] = f
		}
	}
	return fmt.Sprintf("%s with %s already exists", e.Entity, strings.Join(pairs, " and "))
}

func (e *DuplicateValueError) ErrorCode() dErrors.Code { return dErrors.CodeConflict }

func (e *DuplicateValueError) ErrorDetails() dErrors.Details {
	d := dErrors.Details{Entity: e.Entity, Field: strings.Join(e.Fields, ",")}
	switch len(e.Values) {
	case 0:
	case 1:
		d.Value = e.Values[0]
	default:
		d.Value = e.Values
	}
	return d
}

// ReferenceNotFoundError reports a foreign key whose target does not exist.
type ReferenceNotFoundError struct {
	Entity string
	Field  string
	Target string
	ID     int64
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s references %s with id %d which does not exist", e.Entity, e.Field, e.Target, e.ID)
}

func (e *ReferenceNotFoundError) ErrorCode() dErrors.Code { return dErrors.CodeReferenceNotFound }

func (e *ReferenceNotFoundError) ErrorDetails() dErrors.Details {
	return dErrors.Details{Entity: e.Entity, Field: e.Field, Value: e.ID}
}

// InvariantViolationError reports a write that would break a domain rule
// spanning more than one record.
type InvariantViolationError struct {
	Entity string
	Field  string
	Value  any
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: %s %v rejected: %s", e.Entity, e.Field, e.Value, e.Reason)
}

func (e *InvariantViolationError) ErrorCode() dErrors.Code { return dErrors.CodeInvariantViolation }

func (e *InvariantViolationError) ErrorDetails() dErrors.Details {
	return dErrors.Details{Entity: e.Entity, Field: e.Field, Value: e.Value}
}
