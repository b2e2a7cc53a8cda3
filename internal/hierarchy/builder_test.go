package hierarchy

import (
	"testing"

	"github.com/terra-clan/jury-engine/internal/catalog"
	"github.com/terra-clan/jury-engine/internal/models"
)

func TestBuildPlacesUnitsInOrder(t *testing.T) {
	rows := []models.UnitRow{
		{ID: 3, Code: "UE3", SemesterCode: "S5"},
		{ID: 1, Code: "UE1", SemesterCode: "S6"},
		{ID: 2, Code: "UE2", SemesterCode: "S5"},
	}

	h := NewBuilder(catalog.Default()).Build(7, rows)

	if h.IsEmpty() {
		t.Fatal("hierarchy should not be empty")
	}

	s5 := h.SemesterUnits("S5")
	if len(s5) != 2 {
		t.Fatalf("expected 2 units in S5, got %d", len(s5))
	}
	if s5[0].ID != 3 || s5[1].ID != 2 {
		t.Errorf("expected input order [3 2], got [%d %d]", s5[0].ID, s5[1].ID)
	}

	promos := h.WithUnits()
	if len(promos) != 1 || promos[0].Name != "Licence 3" {
		t.Fatalf("expected only 'Licence 3' with units, got %d promotions", len(promos))
	}

	all := h.Units()
	if len(all) != 3 || all[2].ID != 1 {
		t.Errorf("expected S6 unit last in tree order, got %+v", all)
	}
}

func TestBuildKeepsDuplicates(t *testing.T) {
	rows := []models.UnitRow{
		{ID: 1, Code: "UE1", SemesterCode: "S1"},
		{ID: 1, Code: "UE1", SemesterCode: "S1"},
	}

	h := NewBuilder(nil).Build(1, rows)

	if got := len(h.SemesterUnits("S1")); got != 2 {
		t.Errorf("expected duplicate unit to propagate, got %d units", got)
	}
}

func TestBuildEmpty(t *testing.T) {
	h := NewBuilder(catalog.Default()).Build(1, nil)

	if !h.IsEmpty() {
		t.Error("expected empty hierarchy")
	}
	if h.WithUnits() != nil {
		t.Error("expected no promotions with units")
	}
	if len(h.Promotions) != 6 {
		t.Errorf("expected catalog skeleton of 6 promotions, got %d", len(h.Promotions))
	}
}

func TestBuildUnknownSemester(t *testing.T) {
	rows := []models.UnitRow{{ID: 9, Code: "UEX", SemesterCode: "S99"}}

	h := NewBuilder(catalog.Default()).Build(1, rows)

	if !h.IsEmpty() {
		t.Error("unit with unknown semester should not be placed")
	}
	if len(h.Unplaced()) != 1 {
		t.Errorf("expected 1 unplaced unit, got %d", len(h.Unplaced()))
	}
	if h.SemesterUnits("S99") != nil {
		t.Error("expected nil units for unknown semester")
	}
}
