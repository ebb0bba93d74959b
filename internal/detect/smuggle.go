package detect

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Invisible records one hidden or direction-altering character found in
// free text. Attackers use these to split an injection phrase so plain
// substring matching no longer sees it.
type Invisible struct {
	Class     string // "zero-width", "bidi-control", "tag-char", "control-char"
	Codepoint string // e.g. "U+200B"
	Offset    int    // byte offset in the input
}

// StripInvisible removes zero-width, bidirectional-control, tag, and
// unsafe control characters from text and reports what it removed.
// Signature matching runs on the stripped text, so a phrase broken up by
// invisible characters still matches. Tab, newline, and carriage return
// stay. Invalid UTF-8 bytes are dropped and reported as control-char.
func StripInvisible(text string) (string, []Invisible) {
	var found []Invisible
	var out strings.Builder

	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])

		if r == utf8.RuneError && size == 1 {
			found = append(found, Invisible{
				Class:     "control-char",
				Codepoint: fmt.Sprintf("0x%02X", text[i]),
				Offset:    i,
			})
			i++
			continue
		}

		if class := invisibleClass(r); class != "" {
			found = append(found, Invisible{
				Class:     class,
				Codepoint: fmt.Sprintf("U+%04X", r),
				Offset:    i,
			})
			i += size
			continue
		}

		out.WriteRune(r)
		i += size
	}

	return out.String(), found
}

func invisibleClass(r rune) string {
	switch r {
	case '\u200B', '\u200C', '\u200D', // zero width space, non-joiner, joiner
		'\uFEFF',           // BOM / zero width no-break space
		'\u2060',           // word joiner
		'\u180E',           // Mongolian vowel separator
		'\u200E', '\u200F': // LTR / RTL marks
		return "zero-width"
	case '\u202A', '\u202B', '\u202C', '\u202D', '\u202E', // embeddings and overrides
		'\u2066', '\u2067', '\u2068', '\u2069': // isolates
		return "bidi-control"
	}
	if r >= 0xE0001 && r <= 0xE007F {
		return "tag-char"
	}
	if r == '\t' || r == '\n' || r == '\r' {
		return ""
	}
	if (r >= 0x00 && r <= 0x1F) || r == 0x7F || (r >= 0x80 && r <= 0x9F) {
		return "control-char"
	}
	return ""
}
