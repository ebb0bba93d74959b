// Package fieldpath implements dot-separated field path containment.
//
// A path addresses a scalar or subtree inside a nested record, e.g.
// "medical_history.allergies". Policy rules and the redactor share the
// same coverage test, so it lives here rather than in either package.
package fieldpath

import "strings"

// Join appends a key to a parent path. An empty parent yields the key
// itself, so top-level fields have single-segment paths.
func Join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// Descendant reports whether path is a strict dot-descendant of ancestor:
// "insurance.policy_number" is a descendant of "insurance", but
// "insurance_ref" is not (segment boundaries matter).
func Descendant(path, ancestor string) bool {
	return strings.HasPrefix(path, ancestor+".")
}

// Covers reports whether a and b address overlapping subtrees: they are
// equal, or either one is a dot-descendant of the other. The symmetric
// check is deliberate — blocking an ancestor blocks every descendant, and
// blocking a descendant conservatively blocks a request for the ancestor
// object that would contain it.
func Covers(a, b string) bool {
	if a == b {
		return true
	}
	return Descendant(a, b) || Descendant(b, a)
}

// CoveredByAny reports whether path overlaps any entry in set, returning
// the first covering entry.
func CoveredByAny(path string, set []string) (string, bool) {
	for _, p := range set {
		if Covers(path, p) {
			return p, true
		}
	}
	return "", false
}
