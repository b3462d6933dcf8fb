package validation

import (
	"errors"

	"backoffice/pkg/platform/sentinel"
)

// Constraint names a database unique constraint and the fields it covers.
type Constraint struct {
	Name   string
	Fields []string
}

// FromStoreError turns a unique constraint rejection into DuplicateValueError.
// value resolves a field name to the value that was being written. Errors that
// are not constraint violations come back unchanged.
func FromStoreError(entity string, err error, constraints []Constraint, value func(field string) any) error {
	var uv *sentinel.UniqueViolation
	if !errors.As(err, &uv) {
		return err
	}
	for _, c := range constraints {
		if c.Name != uv.Constraint {
			continue
		}
		values := make([]any, len(c.Fields))
		for i, f := range c.Fields {
			values[i] = value(f)
		}
		return &DuplicateValueError{Entity: entity, Fields: c.Fields, Values: values}
	}
	return &DuplicateValueError{Entity: entity, Fields: []string{uv.Constraint}}
}
