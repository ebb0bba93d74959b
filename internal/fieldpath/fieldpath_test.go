package fieldpath

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct {
		parent, key, want string
	}{
		{"", "ssn", "ssn"},
		{"insurance", "provider", "insurance.provider"},
		{"medical_history.allergies", "0", "medical_history.allergies.0"},
	}

	for _, tt := range tests {
		if got := Join(tt.parent, tt.key); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.parent, tt.key, got, tt.want)
		}
	}
}

func TestCovers(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"ssn", "ssn", true},
		{"insurance.policy_number", "insurance", true},  // ancestor block covers descendant
		{"insurance", "insurance.policy_number", true},  // descendant block covers ancestor request
		{"insurance_ref", "insurance", false},           // not a segment boundary
		{"insurance", "insurance_ref", false},
		{"vitals", "medical_history", false},
		{"medical_history.allergies", "medical_history.medications", false},
		{"a.b.c", "a", true},
		{"", "ssn", false},
	}

	for _, tt := range tests {
		if got := Covers(tt.a, tt.b); got != tt.want {
			t.Errorf("Covers(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		// Covers is symmetric.
		if got := Covers(tt.b, tt.a); got != tt.want {
			t.Errorf("Covers(%q, %q) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestCoveredByAny(t *testing.T) {
	blocked := []string{"ssn", "mrn", "insurance"}

	if p, ok := CoveredByAny("insurance.provider", blocked); !ok || p != "insurance" {
		t.Errorf("expected insurance to cover insurance.provider, got %q, %v", p, ok)
	}
	if _, ok := CoveredByAny("vitals.heart_rate", blocked); ok {
		t.Errorf("vitals.heart_rate should not be covered")
	}
	if _, ok := CoveredByAny("ssn", nil); ok {
		t.Errorf("empty set should cover nothing")
	}
}
