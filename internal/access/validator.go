// Package access decides whether a role's data request is admissible
// against the policy store. Validation is a pure decision — it has no side
// effects and leaves logging and auditing to the caller.
package access

import (
	"fmt"

	"github.com/pebblohq/pebblomcp/internal/policy"
)

// Verdict is the structured outcome of one access check. Requested fields
// are partitioned into allowed and blocked regardless of the overall
// Allowed outcome, so callers get field-level reporting even on a denial.
type Verdict struct {
	Allowed       bool     `json:"allowed"`
	AllowedFields []string `json:"allowed_fields"`
	BlockedFields []string `json:"blocked_fields"`
	Violations    []string `json:"violations"`
	PolicyApplied string   `json:"policy_applied"`
}

// Validator checks requests against role policies.
type Validator struct {
	policies *policy.Store
}

// NewValidator builds a validator over the given policy store.
func NewValidator(policies *policy.Store) *Validator {
	return &Validator{policies: policies}
}

// Validate checks a role's request for recordCount records from dataSource
// with the given fields. The request is denied when the source is not
// permitted for the role or the record count exceeds the role's quota.
// Unknown roles fail closed: no sources are permitted and the quota is one.
func (v *Validator) Validate(role string, requestedFields []string, dataSource string, recordCount int) Verdict {
	verdict := Verdict{
		Allowed:       true,
		AllowedFields: []string{},
		BlockedFields: []string{},
		Violations:    []string{},
		PolicyApplied: role,
	}

	if !v.policies.CanAccessSource(role, dataSource) {
		verdict.Allowed = false
		verdict.Violations = append(verdict.Violations,
			fmt.Sprintf("access denied to data source: %s", dataSource))
	}

	if max := v.policies.MaxRecords(role); recordCount > max {
		verdict.Allowed = false
		verdict.Violations = append(verdict.Violations,
			fmt.Sprintf("record count %d exceeds limit %d", recordCount, max))
	}

	for _, field := range requestedFields {
		if v.policies.IsFieldAllowed(role, field) {
			verdict.AllowedFields = append(verdict.AllowedFields, field)
		} else {
			verdict.BlockedFields = append(verdict.BlockedFields, field)
		}
	}

	return verdict
}
