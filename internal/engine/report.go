package engine

import "github.com/pebblohq/pebblomcp/internal/audit"

// Access-level labels reported after each operation.
const (
	AccessFull           = "full"
	AccessFiltered       = "filtered"
	AccessSanitized      = "sanitized"
	AccessClean          = "clean"
	AccessQueryValidated = "query_validated"
)

// Report accumulates what protection was applied during one operation.
// Reports from sub-operations are merged into one: redacted-field and
// event lists concatenate (duplicates are kept — callers dedupe if they
// need to), the injection flag ORs, and the policy and access-level fields
// take the last-assigned value. The last-write rule is a known
// simplification, not a precedence guarantee.
type Report struct {
	FieldsRedacted    []string              `json:"fields_redacted"`
	InjectionDetected bool                  `json:"injection_detected"`
	SecurityEvents    []audit.SecurityEvent `json:"security_events"`
	PolicyApplied     string                `json:"policy_applied"`
	AccessLevel       string                `json:"access_level"`
}

// NewReport starts an empty report for a role and access level.
func NewReport(role, accessLevel string) *Report {
	return &Report{
		FieldsRedacted: []string{},
		SecurityEvents: []audit.SecurityEvent{},
		PolicyApplied:  role,
		AccessLevel:    accessLevel,
	}
}

// Merge folds another report into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.FieldsRedacted = append(r.FieldsRedacted, other.FieldsRedacted...)
	r.SecurityEvents = append(r.SecurityEvents, other.SecurityEvents...)
	r.InjectionDetected = r.InjectionDetected || other.InjectionDetected
	if other.PolicyApplied != "" {
		r.PolicyApplied = other.PolicyApplied
	}
	if other.AccessLevel != "" {
		r.AccessLevel = other.AccessLevel
	}
}
