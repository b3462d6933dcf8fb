package query

// Op is a comparison understood by every repository backend.
type Op int

const (
	OpEq Op = iota
	OpGte
	OpLte
	OpIn
	OpPrefix
	OpContainsAny
	OpSearch
)

// Criterion is one predicate of a filter. Criteria passed together are ANDed.
type Criterion struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Criterion {
	return Criterion{Field: field, Op: OpEq, Value: value}
}

func Gte(field string, value any) Criterion {
	return Criterion{Field: field, Op: OpGte, Value: value}
}

func Lte(field string, value any) Criterion {
	return Criterion{Field: field, Op: OpLte, Value: value}
}

// In matches rows whose field is one of ids.
func In(field string, ids []int64) Criterion {
	return Criterion{Field: field, Op: OpIn, Value: ids}
}

// Prefix is a case-insensitive prefix match.
func Prefix(field, prefix string) Criterion {
	return Criterion{Field: field, Op: OpPrefix, Value: prefix}
}

// ContainsAny is a case-insensitive substring match of any term against field.
func ContainsAny(field string, terms []string) Criterion {
	return Criterion{Field: field, Op: OpContainsAny, Value: terms}
}

// Search matches term against every searchable field of the kind.
func Search(term string) Criterion {
	return Criterion{Op: OpSearch, Value: term}
}

// ByID matches the surrogate key.
func ByID(id int64) Criterion {
	return Eq("id", id)
}
