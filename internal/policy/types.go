package policy

// Role identifiers recognized by the built-in policy set. Policies loaded
// from YAML may define additional roles.
const (
	RoleNursing = "nursing_group"
	RoleBilling = "billing_department"
)

// Data source names referenced by role policies.
const (
	SourceHospitalRecords = "hospital_records"
	SourceTickets         = "jira_tickets"
)

// RolePolicy declares what a single role may see and query.
//
// Allowed and blocked field paths are dot-separated (e.g.
// "medical_history.allergies"). A path covered by both sets is treated as
// blocked — deny wins.
type RolePolicy struct {
	RoleName           string   `yaml:"role_name"`
	AllowedFields      []string `yaml:"allowed_fields"`
	BlockedFields      []string `yaml:"blocked_fields"`
	DataSources        []string `yaml:"data_sources"`
	MaxRecordsPerQuery int      `yaml:"max_records_per_query"`
}

// Set is the full policy document: role policies plus the global injection
// signature list. Immutable after load; shared read-only across requests.
type Set struct {
	Version             string                `yaml:"version"`
	RolePolicies        map[string]RolePolicy `yaml:"role_policies"`
	InjectionSignatures []string              `yaml:"injection_signatures"`
}
