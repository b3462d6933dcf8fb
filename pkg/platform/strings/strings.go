// Package strings normalizes free text before it is validated or stored.
package strings

import (
	"slices"
	"strings"
)

// TrimAll trims surrounding whitespace from every field in place.
func TrimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// DedupeAndTrim trims every value and drops blanks and repeats, keeping the
// first occurrence order. It returns nil when nothing is left.
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is DedupeAndTrim with values folded to lower case.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(v string) string {
		return strings.ToLower(strings.TrimSpace(v))
	})
}

func dedupe(values []string, norm func(string) string) []string {
	var out []string
	for _, v := range values {
		v = norm(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DedupeIDs drops non-positive and repeated ids, keeping first occurrence
// order.
func DedupeIDs(ids []int64) []int64 {
	var out []int64
	for _, id := range ids {
		if id <= 0 || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}
