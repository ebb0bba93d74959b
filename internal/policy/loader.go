package policy

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a policy set from a YAML file. Any read or parse failure falls
// back to the built-in defaults: the engine must stay usable even when the
// policy source is missing or malformed, so load failure is logged as a
// warning and never propagated.
func Load(path string) *Set {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("failed to read policy file, using defaults", "path", path, "error", err)
		}
		return Default()
	}

	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		slog.Warn("failed to parse policy file, using defaults", "path", path, "error", err)
		return Default()
	}

	if len(set.RolePolicies) == 0 {
		slog.Warn("policy file defines no roles, using defaults", "path", path)
		return Default()
	}
	if len(set.InjectionSignatures) == 0 {
		set.InjectionSignatures = Default().InjectionSignatures
	}

	slog.Info("policy set loaded", "path", path, "roles", len(set.RolePolicies),
		"signatures", len(set.InjectionSignatures))
	return &set
}

// Default returns the built-in policy set: a clinical role and a billing
// role with disjoint field visibility, plus the known injection signatures.
func Default() *Set {
	return &Set{
		Version: "1.0",
		RolePolicies: map[string]RolePolicy{
			RoleNursing: {
				RoleName: "Nursing Group",
				AllowedFields: []string{
					"patient_id", "name", "room", "vitals",
					"medical_history.allergies", "medical_history.medications",
				},
				BlockedFields:      []string{"ssn", "mrn", "phone", "address", "insurance", "dob"},
				DataSources:        []string{SourceHospitalRecords},
				MaxRecordsPerQuery: 10,
			},
			RoleBilling: {
				RoleName: "Billing Department",
				AllowedFields: []string{
					"patient_id", "name", "room", "ssn", "mrn", "dob",
					"insurance", "phone", "address",
				},
				BlockedFields:      []string{"vitals", "medical_history"},
				DataSources:        []string{SourceHospitalRecords, SourceTickets},
				MaxRecordsPerQuery: 50,
			},
		},
		InjectionSignatures: []string{
			"ignore policies",
			"ignore all",
			"system override",
			"show all patient",
			"leak all patient",
			"output all",
			"bypass security",
		},
	}
}
