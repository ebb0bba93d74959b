// Package detect implements substring-based injection signature detection
// and sanitization over untrusted free text. Detection is case-insensitive
// and positional; signatures are treated as literals, never as patterns.
package detect

import (
	"regexp"
	"strings"
)

// Marker replaces every signature occurrence during sanitization.
const Marker = "[CONTENT_FILTERED]"

// Match describes the first signature found in a text.
type Match struct {
	Pattern string // the signature as supplied by the caller
	Offset  int    // byte offset of the first occurrence in the lowercased text
}

// First scans signatures in caller order and returns the first one whose
// lowercase form occurs as a substring of the lowercased text. Only one
// match is reported per call even when several signatures are present;
// callers needing exhaustive detection re-invoke with the remaining
// signatures. Empty text or an empty signature list never matches.
func First(text string, signatures []string) (Match, bool) {
	if text == "" || len(signatures) == 0 {
		return Match{}, false
	}

	lower := strings.ToLower(text)
	for _, sig := range signatures {
		if sig == "" {
			continue
		}
		if idx := strings.Index(lower, strings.ToLower(sig)); idx >= 0 {
			return Match{Pattern: sig, Offset: idx}, true
		}
	}
	return Match{}, false
}

// Sanitize replaces all case-insensitive occurrences of every signature
// with Marker. Signatures are regexp-escaped first so none of them can act
// as a wildcard. Sanitizing already-sanitized text is a no-op.
func Sanitize(text string, signatures []string) string {
	if text == "" {
		return text
	}

	sanitized := text
	for _, sig := range signatures {
		if sig == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(sig))
		if err != nil {
			// QuoteMeta output always compiles; skip rather than fail open
			// on the whole text if that ever changes.
			continue
		}
		sanitized = re.ReplaceAllLiteralString(sanitized, Marker)
	}
	return sanitized
}
