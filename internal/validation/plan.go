// Package validation guards every write path. A Plan collects the checks for
// one write and runs them in a fixed order: required fields, business rules,
// uniqueness, then referential integrity. The first failure aborts the run so
// that no store query is issued for input that is already known to be invalid.
package validation

import (
	"context"
	"strings"
	"unicode/utf8"
)

// ExistsFunc asks the store whether another record matches. excludeID is the
// id of the record being updated, or zero on create.
type ExistsFunc func(ctx context.Context, excludeID int64) (bool, error)

// ResolveFunc reports whether the record with id exists.
type ResolveFunc func(ctx context.Context, id int64) (bool, error)

type check func(ctx context.Context) error

// Plan is the ordered set of checks guarding one write.
type Plan struct {
	entity    string
	excludeID int64
	required  []check
	rules     []check
	unique    []check
	refs      []check
}

// For starts a plan for a create of entity.
func For(entity string) *Plan {
	return &Plan{entity: entity}
}

// Excluding turns the plan into an update of the record with id: uniqueness
// checks ignore that record.
func (p *Plan) Excluding(id int64) *Plan {
	p.excludeID = id
	return p
}

// Entity returns the kind this plan guards.
func (p *Plan) Entity() string {
	return p.entity
}

// Require fails with MissingFieldError when value is blank after trimming.
func (p *Plan) Require(field, value string) *Plan {
	p.required = append(p.required, func(context.Context) error {
		if strings.TrimSpace(value) == "" {
			return &MissingFieldError{Entity: p.entity, Field: field}
		}
		return nil
	})
	return p
}

// RequireRef fails with MissingFieldError when a foreign key is not set.
func (p *Plan) RequireRef(field string, id int64) *Plan {
	return p.RequirePresent(field, id > 0)
}

// RequirePresent fails with MissingFieldError when present is false. Used for
// non-string values such as dates and quantities.
func (p *Plan) RequirePresent(field string, present bool) *Plan {
	p.required = append(p.required, func(context.Context) error {
		if !present {
			return &MissingFieldError{Entity: p.entity, Field: field}
		}
		return nil
	})
	return p
}

// MaxLen fails with FieldTooLongError when value has more than max runes.
func (p *Plan) MaxLen(field, value string, max int) *Plan {
	p.rules = append(p.rules, func(context.Context) error {
		if n := utf8.RuneCountInString(value); n > max {
			return &FieldTooLongError{Entity: p.entity, Field: field, Max: max, Length: n}
		}
		return nil
	})
	return p
}

// Rule adds a business rule. fn returns nil when the input is acceptable.
func (p *Plan) Rule(fn func() error) *Plan {
	p.rules = append(p.rules, func(context.Context) error { return fn() })
	return p
}

// RuleContext adds a business rule that needs to read persisted state.
func (p *Plan) RuleContext(fn func(ctx context.Context) error) *Plan {
	p.rules = append(p.rules, fn)
	return p
}

// Unique fails with DuplicateValueError when exists finds another record
// holding value. Blank values are skipped; required checks cover them.
func (p *Plan) Unique(field string, value any, exists ExistsFunc) *Plan {
	return p.UniqueTogether([]string{field}, []any{value}, exists)
}

// UniqueTogether checks a composite key. The combination conflicts, not each
// field on its own.
func (p *Plan) UniqueTogether(fields []string, values []any, exists ExistsFunc) *Plan {
	p.unique = append(p.unique, func(ctx context.Context) error {
		for _, v := range values {
			if isBlank(v) {
				return nil
			}
		}
		found, err := exists(ctx, p.excludeID)
		if err != nil {
			return err
		}
		if found {
			return &DuplicateValueError{Entity: p.entity, Fields: fields, Values: values}
		}
		return nil
	})
	return p
}

// Reference fails with ReferenceNotFoundError when the target record of a
// set foreign key is missing. Unset keys are skipped.
func (p *Plan) Reference(field, target string, id int64, resolve ResolveFunc) *Plan {
	p.refs = append(p.refs, func(ctx context.Context) error {
		if id <= 0 {
			return nil
		}
		ok, err := resolve(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &ReferenceNotFoundError{Entity: p.entity, Field: field, Target: target, ID: id}
		}
		return nil
	})
	return p
}

// References checks every id of a to-many association.
func (p *Plan) References(field, target string, ids []int64, resolve ResolveFunc) *Plan {
	for _, id := range ids {
		p.Reference(field, target, id, resolve)
	}
	return p
}

// Run executes the checks layer by layer and returns the first failure.
func (p *Plan) Run(ctx context.Context) error {
	for _, layer := range [][]check{p.required, p.rules, p.unique, p.refs} {
		for _, c := range layer {
			if err := c(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case int64:
		return t == 0
	case int:
		return t == 0
	}
	if z, ok := v.(interface{ IsZero() bool }); ok {
		return z.IsZero()
	}
	return false
}
