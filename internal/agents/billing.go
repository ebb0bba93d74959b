package agents

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pebblohq/pebblomcp/internal/engine"
	"github.com/pebblohq/pebblomcp/internal/policy"
	"github.com/pebblohq/pebblomcp/internal/records"
)

// BillingResponse is the billing agent's answer to one query.
type BillingResponse struct {
	Success        bool                    `json:"success"`
	BillingData    map[string]any          `json:"billing_data"`
	BillingSummary string                  `json:"billing_summary"`
	TicketInfo     *records.FilteredTicket `json:"jira_ticket_info,omitempty"`
	Protection     *engine.Report          `json:"pebblo_protection"`
	ProcessingTime float64                 `json:"processing_time"`
	Timestamp      time.Time               `json:"timestamp"`
}

// BillingAgent answers insurance and billing queries under the billing
// role policy. It may also pull the patient's support tickets, which pass
// through content sanitization.
type BillingAgent struct {
	repo   *records.Repository
	engine *engine.Engine
}

// NewBillingAgent wires a billing agent to the repository and engine.
func NewBillingAgent(repo *records.Repository, eng *engine.Engine) *BillingAgent {
	return &BillingAgent{repo: repo, engine: eng}
}

// ProcessQuery validates the query, filters the patient record for the
// billing role, and optionally resolves and sanitizes a ticket. Every call
// is audited.
func (a *BillingAgent) ProcessQuery(query, patientIdentifier, ticketID string) BillingResponse {
	start := time.Now()
	role := policy.RoleBilling

	_, protection := a.engine.ValidateQuery(query, role)

	billingData := map[string]any{}
	summary := "Please specify a patient name or ID to retrieve billing information."
	var ticketInfo *records.FilteredTicket
	var accessed []string

	if patientIdentifier != "" {
		if verdict := a.engine.Authorize(role, policy.SourceHospitalRecords, 1); !verdict.Allowed {
			summary = fmt.Sprintf("Access denied: %s", strings.Join(verdict.Violations, "; "))
		} else if patient, ok := a.repo.PatientByIdentifier(patientIdentifier); ok {
			filtered, dataProtection := a.engine.FilterPatient(patient, role)
			billingData = filtered
			protection.Merge(dataProtection)
			accessed = append(accessed, "patient:"+patient.PatientID)

			if ticketID == "" {
				if tickets := a.repo.TicketsByPatient(patient.PatientID); len(tickets) > 0 {
					ticketID = tickets[0].TicketID
				}
			}
			summary = billingSummary(filtered)
		} else {
			summary = fmt.Sprintf("Patient %q not found in system.", patientIdentifier)
		}
	}

	if ticketID != "" {
		if verdict := a.engine.Authorize(role, policy.SourceTickets, 1); verdict.Allowed {
			if ticket, ok := a.repo.TicketByID(ticketID); ok {
				filtered, ticketProtection := a.engine.FilterTicket(ticket, role)
				ticketInfo = &filtered
				protection.Merge(ticketProtection)
				accessed = append(accessed, "ticket:"+ticket.TicketID)
			}
		}
	}

	a.engine.RecordAudit("billing_query_processed", role, accessed, protection.SecurityEvents)

	elapsed := time.Since(start)
	slog.Info("billing query processed",
		"patient", patientIdentifier, "ticket", ticketID, "duration", elapsed)

	return BillingResponse{
		Success:        true,
		BillingData:    billingData,
		BillingSummary: summary,
		TicketInfo:     ticketInfo,
		Protection:     protection,
		ProcessingTime: elapsed.Seconds(),
		Timestamp:      time.Now().UTC(),
	}
}

// billingSummary renders the filtered record for billing staff.
func billingSummary(data map[string]any) string {
	var sb strings.Builder
	sb.WriteString("Billing Summary for Insurance Processing:\n\n")

	fmt.Fprintf(&sb, "Patient: %v (ID: %v)\n", field(data, "name"), field(data, "patient_id"))
	fmt.Fprintf(&sb, "DOB: %v\n", field(data, "dob"))
	fmt.Fprintf(&sb, "SSN: %v\n", field(data, "ssn"))
	fmt.Fprintf(&sb, "MRN: %v\n\n", field(data, "mrn"))

	if ins, ok := data["insurance"].(map[string]any); ok {
		sb.WriteString("Insurance:\n")
		fmt.Fprintf(&sb, "- Provider: %v\n", field(ins, "provider"))
		fmt.Fprintf(&sb, "- Policy Number: %v\n", field(ins, "policy_number"))
		fmt.Fprintf(&sb, "- Group Number: %v\n", field(ins, "group_number"))
	}

	return sb.String()
}
