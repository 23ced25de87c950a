package roster

import (
	"testing"
)

func TestRostersAreImmutableCopies(t *testing.T) {
	roles := Roles()
	roles[0].Name = "mutated"
	if Roles()[0].Name == "mutated" {
		t.Error("Roles() exposed the underlying roster")
	}

	backends := Backends()
	backends[0].ID = "mutated"
	if Backends()[0].ID == "mutated" {
		t.Error("Backends() exposed the underlying roster")
	}
}

func TestRosterShape(t *testing.T) {
	roles := Roles()
	if len(roles) != 16 {
		t.Fatalf("roles = %d, want 16", len(roles))
	}
	if roles[0].Name != "researcher" {
		t.Errorf("first role = %q, want researcher", roles[0].Name)
	}
	seen := map[string]bool{}
	for _, r := range roles {
		if r.Directive == "" {
			t.Errorf("role %q has no directive", r.Name)
		}
		if seen[r.Name] {
			t.Errorf("duplicate role %q", r.Name)
		}
		seen[r.Name] = true
	}

	backends := Backends()
	if len(backends) != 16 {
		t.Fatalf("backends = %d, want 16", len(backends))
	}
	if backends[0].Type != TypeSearch {
		t.Errorf("first backend type = %q, want search", backends[0].Type)
	}
	for _, b := range backends[1:] {
		if b.Type != TypeGeneric {
			t.Errorf("backend %q type = %q, want generic", b.ID, b.Type)
		}
	}

	if _, ok := FindBackend(ConclusionBackendID); !ok {
		t.Errorf("conclusion backend %q missing from roster", ConclusionBackendID)
	}
}

func TestBackendLabel(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"perplexity", "Perplexity"},
		{"openai/gpt-oss-120b:free", "GPT-OSS"},
		{"some/retired-model", "retired-model"},
		{"bare-id", "bare-id"},
	}
	for _, tt := range tests {
		if got := BackendLabel(tt.id); got != tt.want {
			t.Errorf("BackendLabel(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestFilterBackends(t *testing.T) {
	full, err := FilterBackends(nil)
	if err != nil {
		t.Fatalf("FilterBackends(nil): %v", err)
	}
	if len(full) != 16 {
		t.Errorf("unfiltered = %d, want 16", len(full))
	}

	filtered, err := FilterBackends([]string{"nvidia/*"})
	if err != nil {
		t.Fatalf("FilterBackends: %v", err)
	}
	if len(filtered) != 13 {
		t.Errorf("filtered = %d, want 13", len(filtered))
	}
	for _, b := range filtered {
		if b.Provider == "NVIDIA" {
			t.Errorf("backend %q should be disabled", b.ID)
		}
	}
}

func TestFilterBackendsInvalidPattern(t *testing.T) {
	if _, err := FilterBackends([]string{"[unclosed"}); err == nil {
		t.Error("expected error for invalid glob")
	}
}

func TestFilterBackendsCannotDisableAll(t *testing.T) {
	if _, err := FilterBackends([]string{"**"}); err == nil {
		t.Error("expected error when every backend is disabled")
	}
}
