package query

import (
	"strings"

	stringutil "backoffice/pkg/platform/strings"
)

// Category is a keyword bucket a record can be classified into.
type Category string

// Entry binds a category to the keywords that select it.
type Entry struct {
	Category Category
	Keywords []string
}

// Catalog is an ordered set of keyword categories for one kind. Order
// matters: Classify returns the first matching entry.
type Catalog struct {
	entries []Entry
}

// NewCatalog builds a catalog. Keywords are stored trimmed and lower cased.
func NewCatalog(entries ...Entry) Catalog {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Entry{Category: e.Category, Keywords: stringutil.DedupeAndTrimLower(e.Keywords)}
	}
	return Catalog{entries: out}
}

// Categories lists the category names in catalog order.
func (c Catalog) Categories() []Category {
	out := make([]Category, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Category
	}
	return out
}

// Keywords returns the keywords for category.
func (c Catalog) Keywords(category Category) ([]string, bool) {
	for _, e := range c.entries {
		if e.Category == category {
			return e.Keywords, true
		}
	}
	return nil, false
}

// Classify returns the first category whose keywords appear in any of texts.
func (c Catalog) Classify(texts ...string) (Category, bool) {
	for _, e := range c.entries {
		for _, text := range texts {
			if MatchesAny(text, e.Keywords) {
				return e.Category, true
			}
		}
	}
	return "", false
}

// MatchesAny reports whether text contains any of terms, ignoring case.
func MatchesAny(text string, terms []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching term anywhere.
func ContainsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// PrefixPattern builds an ILIKE pattern matching values starting with term.
func PrefixPattern(term string) string {
	return likeEscaper.Replace(term) + "%"
}
