// Package redact implements field-level redaction over nested records.
// Given a record and a set of blocked field paths it produces a
// structurally-identical copy with every covered value replaced by the
// redaction marker. The walk is total: malformed or unexpected value types
// are copied untouched rather than failing, since an error here would mean
// unredacted data reaching a caller.
package redact

import "github.com/pebblohq/pebblomcp/internal/fieldpath"

// Marker is the literal written over every blocked field.
const Marker = "[REDACTED]"

// Apply returns a deep copy of record where every scalar or subtree whose
// dotted path is covered by any entry of blockedPaths is replaced by
// Marker. The source record is never mutated. Fields absent from the
// source are simply absent from the output — no placeholders are
// synthesized. An empty block set yields an equal copy.
func Apply(record map[string]any, blockedPaths []string) map[string]any {
	if record == nil {
		return nil
	}
	return redactMap(record, "", blockedPaths)
}

func redactMap(m map[string]any, parent string, blocked []string) map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		path := fieldpath.Join(parent, key)
		if _, covered := fieldpath.CoveredByAny(path, blocked); covered {
			out[key] = Marker
			continue
		}

		switch v := value.(type) {
		case map[string]any:
			out[key] = redactMap(v, path, blocked)
		case []any:
			out[key] = redactList(v, path, blocked)
		default:
			out[key] = value
		}
	}
	return out
}

// redactList recurses into list elements that are mappings. The list index
// is not part of the field path: a blocked path applies uniformly to every
// element of the list.
func redactList(list []any, path string, blocked []string) []any {
	out := make([]any, len(list))
	for i, item := range list {
		switch v := item.(type) {
		case map[string]any:
			out[i] = redactMap(v, path, blocked)
		case []any:
			out[i] = redactList(v, path, blocked)
		default:
			out[i] = item
		}
	}
	return out
}
