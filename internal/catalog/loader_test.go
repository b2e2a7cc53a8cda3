package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	entries := c.Entries()
	if len(entries) != 6 {
		t.Fatalf("expected 6 promotions, got %d", len(entries))
	}
	if entries[0].Promotion != "Préparatoire" {
		t.Errorf("expected first promotion 'Préparatoire', got '%s'", entries[0].Promotion)
	}

	promo, ok := c.PromotionOf("S5")
	if !ok || promo != "Licence 3" {
		t.Errorf("expected S5 in 'Licence 3', got '%s' (%v)", promo, ok)
	}

	if c.Contains("S11") {
		t.Error("S11 should not be in the default catalog")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	content := `
promotions:
  - name: Bachelor 1
    semesters: [B1, B2]
  - name: Bachelor 2
    semesters: [B3]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	skeleton := c.Skeleton()
	if len(skeleton) != 2 {
		t.Fatalf("expected 2 promotions, got %d", len(skeleton))
	}
	if len(skeleton[0].Semesters) != 2 || skeleton[0].Semesters[1].Code != "B2" {
		t.Errorf("unexpected semesters for first promotion: %+v", skeleton[0].Semesters)
	}
	if skeleton[1].Semesters[0].Units == nil {
		t.Error("skeleton semesters should carry empty unit slices")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", "promotions: []"},
		{"missing name", "promotions:\n  - semesters: [S1]"},
		{"no semesters", "promotions:\n  - name: L1\n    semesters: []"},
		{"duplicate code", "promotions:\n  - name: L1\n    semesters: [S1]\n  - name: L2\n    semesters: [S1]"},
		{"bad yaml", "promotions: [::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Errorf("expected error for %s", tt.name)
			}
		})
	}
}

func TestSkeletonIsFresh(t *testing.T) {
	c := Default()
	a := c.Skeleton()
	a[0].Semesters[0].Code = "changed"

	b := c.Skeleton()
	if b[0].Semesters[0].Code != "S01" {
		t.Errorf("skeleton should not share state, got '%s'", b[0].Semesters[0].Code)
	}
}
