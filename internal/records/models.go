// Package records supplies the immutable Patient and Ticket value objects
// and the repository that resolves them by identifier. Records are
// caller-owned, read-only inputs to the protection engine; filtering always
// produces copies.
package records

import "encoding/json"

// Insurance is a patient's coverage block.
type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policy_number"`
	GroupNumber  string `json:"group_number"`
}

// Vitals is the latest set of recorded vital signs.
type Vitals struct {
	BloodPressure    string `json:"blood_pressure"`
	HeartRate        string `json:"heart_rate"`
	Temperature      string `json:"temperature"`
	OxygenSaturation string `json:"oxygen_saturation"`
	LastUpdated      string `json:"last_updated"`
}

// MedicalHistory holds the clinical history lists.
type MedicalHistory struct {
	Allergies   []string `json:"allergies"`
	Conditions  []string `json:"conditions"`
	Medications []string `json:"medications"`
}

// Patient is the full, unfiltered patient record.
type Patient struct {
	PatientID          string         `json:"patient_id"`
	Name               string         `json:"name"`
	Room               string         `json:"room"`
	SSN                string         `json:"ssn"`
	MRN                string         `json:"mrn"`
	DOB                string         `json:"dob"`
	Phone              string         `json:"phone"`
	Address            string         `json:"address"`
	Insurance          Insurance      `json:"insurance"`
	Vitals             Vitals         `json:"vitals"`
	MedicalHistory     MedicalHistory `json:"medical_history"`
	AdmissionDate      string         `json:"admission_date"`
	AttendingPhysician string         `json:"attending_physician"`
}

// AsMap converts the patient to the generic nested form the redactor walks.
// Field paths in policies address the JSON names used here.
func (p Patient) AsMap() map[string]any {
	data, err := json.Marshal(p)
	if err != nil {
		return map[string]any{"patient_id": p.PatientID}
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return map[string]any{"patient_id": p.PatientID}
	}
	return m
}

// Ticket is a billing support ticket. The description carries
// externally-supplied free text and is the one ticket field treated as
// potentially adversarial.
type Ticket struct {
	TicketID          string `json:"ticket_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Status            string `json:"status"`
	Priority          string `json:"priority"`
	AssignedTo        string `json:"assigned_to"`
	CreatedDate       string `json:"created_date"`
	PatientRef        string `json:"patient_ref"`
	Amount            string `json:"amount"`
	InsuranceProvider string `json:"insurance_provider"`
}

// FilteredTicket is a ticket after content sanitization, annotated with
// what was done to it.
type FilteredTicket struct {
	Ticket
	PebbloSanitized bool     `json:"pebblo_sanitized"`
	SecurityEvents  []string `json:"security_events"`
}
