package records

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Repository resolves patients and tickets by identifier. Contents are
// immutable after construction and safe for concurrent reads.
type Repository struct {
	patients []Patient
	tickets  []Ticket
}

// NewRepository builds a repository over fixed record sets.
func NewRepository(patients []Patient, tickets []Ticket) *Repository {
	return &Repository{patients: patients, tickets: tickets}
}

// LoadRepository reads patients.json and tickets.json from dataDir. Either
// file missing or malformed falls back to the built-in seed records for
// that set — the demo data keeps the service usable without any data dir.
func LoadRepository(dataDir string) *Repository {
	patients := loadJSON(filepath.Join(dataDir, "patients.json"), seedPatients)
	tickets := loadJSON(filepath.Join(dataDir, "tickets.json"), seedTickets)
	slog.Info("record repository loaded", "patients", len(patients), "tickets", len(tickets))
	return NewRepository(patients, tickets)
}

func loadJSON[T any](path string, fallback func() []T) []T {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read records file, using seed data", "path", path, "error", err)
		}
		return fallback()
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		slog.Warn("failed to parse records file, using seed data", "path", path, "error", err)
		return fallback()
	}
	return out
}

// PatientByID returns the patient with the exact ID.
func (r *Repository) PatientByID(id string) (Patient, bool) {
	for _, p := range r.patients {
		if p.PatientID == id {
			return p, true
		}
	}
	return Patient{}, false
}

// PatientByIdentifier resolves a patient by name (case-insensitive), ID,
// or room number, in that order.
func (r *Repository) PatientByIdentifier(identifier string) (Patient, bool) {
	lower := strings.ToLower(identifier)
	for _, p := range r.patients {
		if strings.ToLower(p.Name) == lower {
			return p, true
		}
	}
	if p, ok := r.PatientByID(identifier); ok {
		return p, true
	}
	for _, p := range r.patients {
		if p.Room == identifier {
			return p, true
		}
	}
	return Patient{}, false
}

// Patients returns up to limit patients; a non-positive limit returns all.
func (r *Repository) Patients(limit int) []Patient {
	if limit <= 0 || limit > len(r.patients) {
		limit = len(r.patients)
	}
	return append([]Patient(nil), r.patients[:limit]...)
}

// TicketByID returns the ticket with the exact ID.
func (r *Repository) TicketByID(id string) (Ticket, bool) {
	for _, t := range r.tickets {
		if t.TicketID == id {
			return t, true
		}
	}
	return Ticket{}, false
}

// TicketsByPatient returns all tickets referencing the patient ID.
func (r *Repository) TicketsByPatient(patientID string) []Ticket {
	var out []Ticket
	for _, t := range r.tickets {
		if t.PatientRef == patientID {
			out = append(out, t)
		}
	}
	return out
}

// Tickets returns up to limit tickets; a non-positive limit returns all.
func (r *Repository) Tickets(limit int) []Ticket {
	if limit <= 0 || limit > len(r.tickets) {
		limit = len(r.tickets)
	}
	return append([]Ticket(nil), r.tickets[:limit]...)
}
