// Package engine orchestrates policy resolution, detection, redaction, and
// auditing behind four non-throwing operations. Every internal fault
// degrades toward redaction or denial — never toward unprotected data
// reaching a caller.
package engine

import (
	"log/slog"
	"time"

	"github.com/pebblohq/pebblomcp/internal/access"
	"github.com/pebblohq/pebblomcp/internal/audit"
	"github.com/pebblohq/pebblomcp/internal/detect"
	"github.com/pebblohq/pebblomcp/internal/policy"
	"github.com/pebblohq/pebblomcp/internal/records"
	"github.com/pebblohq/pebblomcp/internal/redact"
)

// Engine is the Pebblo MCP protection service. One instance owns the audit
// trail and is shared by all callers; the policy store is read-only after
// construction, so the engine is safe for concurrent use.
type Engine struct {
	policies  *policy.Store
	validator *access.Validator
	trail     *audit.Trail
}

// New builds an engine over a policy store and an audit trail.
func New(policies *policy.Store, trail *audit.Trail) *Engine {
	return &Engine{
		policies:  policies,
		validator: access.NewValidator(policies),
		trail:     trail,
	}
}

// Policies exposes the engine's policy store.
func (e *Engine) Policies() *policy.Store { return e.policies }

// Trail exposes the engine's audit trail.
func (e *Engine) Trail() *audit.Trail { return e.trail }

// ValidateQuery scans a free-text query for injection signatures. On a
// match the query is sanitized and the report carries one security event;
// otherwise the original text is returned unchanged. Invisible Unicode
// characters are stripped first so a signature split by zero-width or
// bidi characters still matches. Processing time is logged for
// diagnostics only.
func (e *Engine) ValidateQuery(query, role string) (string, *Report) {
	start := time.Now()

	report := NewReport(role, AccessQueryValidated)
	sanitized, hidden := detect.StripInvisible(query)
	if len(hidden) > 0 {
		report.SecurityEvents = append(report.SecurityEvents,
			audit.NewEvent("unicode_smuggling_detected", hidden[0].Codepoint, "invisible_characters_stripped"))
		slog.Warn("invisible characters stripped from query",
			"role", role, "count", len(hidden), "first_class", hidden[0].Class)
	}

	signatures := e.policies.InjectionSignatures()
	if match, ok := detect.First(sanitized, signatures); ok {
		sanitized = detect.Sanitize(sanitized, signatures)
		report.InjectionDetected = true
		report.SecurityEvents = append(report.SecurityEvents,
			audit.NewEvent("query_injection_detected", match.Pattern, "query_sanitized"))
		slog.Warn("query injection detected",
			"role", role, "pattern", match.Pattern, "offset", match.Offset)
	}

	slog.Debug("query validated",
		"role", role, "injection_detected", report.InjectionDetected,
		"duration", time.Since(start))
	return sanitized, report
}

// FilterRecord redacts the role's blocked fields from a generic nested
// record. The reported redacted fields are the policy-declared block list,
// not the subset actually present in the record. Structured records are
// not scanned for injection content.
func (e *Engine) FilterRecord(record map[string]any, role string) (map[string]any, *Report) {
	start := time.Now()

	blocked := e.policies.BlockedFields(role)
	filtered := redact.Apply(record, blocked)

	accessLevel := AccessFull
	if len(blocked) > 0 {
		accessLevel = AccessFiltered
	}
	report := NewReport(role, accessLevel)
	report.FieldsRedacted = append(report.FieldsRedacted, blocked...)

	slog.Debug("record filtered",
		"role", role, "fields_redacted", len(blocked), "duration", time.Since(start))
	return filtered, report
}

// FilterPatient converts a patient to its nested form and filters it for
// the role.
func (e *Engine) FilterPatient(p records.Patient, role string) (map[string]any, *Report) {
	return e.FilterRecord(p.AsMap(), role)
}

// FilterTicket sanitizes a ticket's description, the one ticket field that
// carries externally-supplied free text. Tickets have no role-based field
// policy — all other fields pass through unredacted.
func (e *Engine) FilterTicket(t records.Ticket, role string) (records.FilteredTicket, *Report) {
	start := time.Now()

	filtered := records.FilteredTicket{Ticket: t, SecurityEvents: []string{}}
	report := NewReport(role, AccessClean)

	description, hidden := detect.StripInvisible(t.Description)
	if len(hidden) > 0 {
		filtered.Description = description
		filtered.PebbloSanitized = true
		report.SecurityEvents = append(report.SecurityEvents,
			audit.NewEvent("unicode_smuggling_detected", hidden[0].Codepoint, "invisible_characters_stripped"))
		slog.Warn("invisible characters stripped from ticket",
			"ticket", t.TicketID, "count", len(hidden))
	}

	signatures := e.policies.InjectionSignatures()
	if match, ok := detect.First(description, signatures); ok {
		filtered.Description = detect.Sanitize(description, signatures)
		filtered.PebbloSanitized = true
		filtered.SecurityEvents = append(filtered.SecurityEvents, match.Pattern)

		report.InjectionDetected = true
		report.AccessLevel = AccessSanitized
		report.SecurityEvents = append(report.SecurityEvents,
			audit.NewEvent("prompt_injection_detected", match.Pattern, "content_sanitized"))
		slog.Warn("prompt injection detected in ticket",
			"ticket", t.TicketID, "pattern", match.Pattern)
	}

	slog.Debug("ticket processed",
		"ticket", t.TicketID, "injection_detected", report.InjectionDetected,
		"duration", time.Since(start))
	return filtered, report
}

// Authorize checks whether a role may pull recordCount records from a data
// source. Pure decision; the caller audits denials as it sees fit.
func (e *Engine) Authorize(role, dataSource string, recordCount int) access.Verdict {
	verdict := e.validator.Validate(role, nil, dataSource, recordCount)
	if !verdict.Allowed {
		slog.Warn("access denied",
			"role", role, "source", dataSource, "violations", verdict.Violations)
	}
	return verdict
}

// RecordAudit appends one entry to the audit trail. It is total — entry
// construction never fails.
func (e *Engine) RecordAudit(action, role string, dataAccessed []string, events []audit.SecurityEvent) audit.Entry {
	entry := e.trail.Append(action, role, dataAccessed, events)
	slog.Info("audit entry recorded",
		"action", action, "role", role, "resources", len(dataAccessed),
		"session", entry.SessionID)
	return entry
}

// Metrics summarizes the audit trail for dashboards. A read racing an
// in-flight append may undercount by the in-flight entries, which is
// acceptable.
type Metrics struct {
	TotalQueriesProcessed  int        `json:"total_queries_processed"`
	SecurityEventsDetected int        `json:"security_events_detected"`
	PoliciesEnforced       int        `json:"policies_enforced"`
	LastActivity           *time.Time `json:"last_activity,omitempty"`
	ActivePolicies         []string   `json:"active_policies"`
}

// Metrics returns the trail-derived counters. Every audited action implies
// a policy lookup, so policies-enforced equals the trail length.
func (e *Engine) Metrics() Metrics {
	m := Metrics{
		TotalQueriesProcessed:  e.trail.Len(),
		SecurityEventsDetected: e.trail.EventCount(),
		ActivePolicies:         e.policies.Roles(),
	}
	m.PoliciesEnforced = m.TotalQueriesProcessed
	if ts, ok := e.trail.LastActivity(); ok {
		m.LastActivity = &ts
	}
	return m
}
