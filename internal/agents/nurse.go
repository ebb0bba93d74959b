// Package agents contains the role-bound domain agents: thin formatting
// layers that fetch records through the repository, pass everything through
// the protection engine, and render human-readable summaries of the
// already-filtered data. Agents never see unfiltered records.
package agents

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pebblohq/pebblomcp/internal/engine"
	"github.com/pebblohq/pebblomcp/internal/policy"
	"github.com/pebblohq/pebblomcp/internal/records"
	"github.com/pebblohq/pebblomcp/internal/redact"
)

// NurseResponse is the nurse agent's answer to one query.
type NurseResponse struct {
	Success         bool           `json:"success"`
	PatientData     map[string]any `json:"patient_data"`
	ClinicalSummary string         `json:"clinical_summary"`
	Protection      *engine.Report `json:"pebblo_protection"`
	ProcessingTime  float64        `json:"processing_time"`
	Timestamp       time.Time      `json:"timestamp"`
}

// NurseAgent answers clinical-care queries under the nursing role policy.
type NurseAgent struct {
	repo   *records.Repository
	engine *engine.Engine
}

// NewNurseAgent wires a nurse agent to the repository and engine.
func NewNurseAgent(repo *records.Repository, eng *engine.Engine) *NurseAgent {
	return &NurseAgent{repo: repo, engine: eng}
}

// ProcessQuery validates the query, resolves the patient, filters the
// record for the nursing role, and renders a clinical summary. Every call
// is audited.
func (a *NurseAgent) ProcessQuery(query, patientIdentifier string) NurseResponse {
	start := time.Now()
	role := policy.RoleNursing

	_, protection := a.engine.ValidateQuery(query, role)

	patientData := map[string]any{}
	summary := "Please specify a patient name, ID, or room number to retrieve clinical information."
	var accessed []string

	if patientIdentifier != "" {
		if verdict := a.engine.Authorize(role, policy.SourceHospitalRecords, 1); !verdict.Allowed {
			summary = fmt.Sprintf("Access denied: %s", strings.Join(verdict.Violations, "; "))
		} else if patient, ok := a.repo.PatientByIdentifier(patientIdentifier); ok {
			filtered, dataProtection := a.engine.FilterPatient(patient, role)
			patientData = filtered
			summary = nursingSummary(filtered)
			protection.Merge(dataProtection)
			accessed = append(accessed, "patient:"+patient.PatientID)
		} else {
			summary = fmt.Sprintf("Patient %q not found in system.", patientIdentifier)
		}
	}

	a.engine.RecordAudit("nurse_query_processed", role, accessed, protection.SecurityEvents)

	elapsed := time.Since(start)
	slog.Info("nurse query processed",
		"patient", patientIdentifier, "duration", elapsed)

	return NurseResponse{
		Success:         true,
		PatientData:     patientData,
		ClinicalSummary: summary,
		Protection:      protection,
		ProcessingTime:  elapsed.Seconds(),
		Timestamp:       time.Now().UTC(),
	}
}

// nursingSummary renders the filtered record for nursing staff. Redacted
// subtrees are skipped, not surfaced.
func nursingSummary(data map[string]any) string {
	var sb strings.Builder
	sb.WriteString("Clinical Summary for Nursing Care:\n\n")

	fmt.Fprintf(&sb, "Patient: %v (ID: %v)\n", field(data, "name"), field(data, "patient_id"))
	fmt.Fprintf(&sb, "Room: %v\n", field(data, "room"))
	fmt.Fprintf(&sb, "Attending Physician: %v\n\n", field(data, "attending_physician"))

	if vitals, ok := data["vitals"].(map[string]any); ok {
		sb.WriteString("Current Vital Signs:\n")
		fmt.Fprintf(&sb, "- Blood Pressure: %v\n", field(vitals, "blood_pressure"))
		fmt.Fprintf(&sb, "- Heart Rate: %v\n", field(vitals, "heart_rate"))
		fmt.Fprintf(&sb, "- Temperature: %v\n", field(vitals, "temperature"))
		fmt.Fprintf(&sb, "- Oxygen Saturation: %v\n\n", field(vitals, "oxygen_saturation"))
	}

	if history, ok := data["medical_history"].(map[string]any); ok {
		if allergies := stringList(history["allergies"]); len(allergies) > 0 {
			fmt.Fprintf(&sb, "ALLERGIES: %s\n\n", strings.Join(allergies, ", "))
		}
		if meds := stringList(history["medications"]); len(meds) > 0 {
			sb.WriteString("Current Medications:\n")
			for _, med := range meds {
				fmt.Fprintf(&sb, "- %s\n", med)
			}
		}
	}

	return sb.String()
}

func field(m map[string]any, key string) any {
	if v, ok := m[key]; ok && v != nil && v != redact.Marker {
		return v
	}
	return "N/A"
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
