package policy

import (
	"sort"

	"github.com/pebblohq/pebblomcp/internal/fieldpath"
)

// Store resolves roles to their policies. It is read-only after
// construction and safe to share across concurrent requests.
type Store struct {
	set *Set
}

// NewStore wraps an already-loaded policy set.
func NewStore(set *Set) *Store {
	return &Store{set: set}
}

// LoadStore loads the policy file at path (falling back to defaults on any
// failure) and wraps it in a Store.
func LoadStore(path string) *Store {
	return NewStore(Load(path))
}

// PolicyFor returns the policy for a role, or false for an unknown role.
// Unknown roles fail closed: callers see no allowed fields, no data
// sources, and a quota of one.
func (s *Store) PolicyFor(role string) (RolePolicy, bool) {
	p, ok := s.set.RolePolicies[role]
	return p, ok
}

// AllowedFields returns the role's allowed field paths, empty for an
// unknown role.
func (s *Store) AllowedFields(role string) []string {
	p, ok := s.PolicyFor(role)
	if !ok {
		return nil
	}
	return p.AllowedFields
}

// BlockedFields returns the role's blocked field paths, empty for an
// unknown role.
func (s *Store) BlockedFields(role string) []string {
	p, ok := s.PolicyFor(role)
	if !ok {
		return nil
	}
	return p.BlockedFields
}

// DataSources returns the data sources the role may query, empty for an
// unknown role.
func (s *Store) DataSources(role string) []string {
	p, ok := s.PolicyFor(role)
	if !ok {
		return nil
	}
	return p.DataSources
}

// CanAccessSource reports whether the role may query the named data source.
func (s *Store) CanAccessSource(role, source string) bool {
	for _, src := range s.DataSources(role) {
		if src == source {
			return true
		}
	}
	return false
}

// MaxRecords returns the role's per-query record quota. Unknown roles get
// a quota of one.
func (s *Store) MaxRecords(role string) int {
	p, ok := s.PolicyFor(role)
	if !ok {
		return 1
	}
	return p.MaxRecordsPerQuery
}

// InjectionSignatures returns the global signature list in declared order.
func (s *Store) InjectionSignatures() []string {
	return s.set.InjectionSignatures
}

// IsFieldAllowed reports whether the role may request the given field path.
//
// A path is allowed when it equals an allowed path, is a descendant of one,
// or is an ancestor of one. Ancestor membership is deliberately permissive:
// a role allowed "medical_history.allergies" may request "medical_history"
// so that summaries can fetch whole sub-objects. Blocked paths take
// precedence over allowed ones — a path covered by any blocked entry is
// denied regardless of the allow list.
func (s *Store) IsFieldAllowed(role, path string) bool {
	p, ok := s.PolicyFor(role)
	if !ok {
		return false
	}
	if _, blocked := fieldpath.CoveredByAny(path, p.BlockedFields); blocked {
		return false
	}
	_, allowed := fieldpath.CoveredByAny(path, p.AllowedFields)
	return allowed
}

// Roles returns the known role identifiers, sorted.
func (s *Store) Roles() []string {
	roles := make([]string, 0, len(s.set.RolePolicies))
	for role := range s.set.RolePolicies {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}
