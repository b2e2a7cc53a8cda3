package grid

import (
	"testing"

	"github.com/terra-clan/jury-engine/internal/models"
	"github.com/terra-clan/jury-engine/internal/record"
)

func testLayout() *record.Layout {
	u1 := models.NewUnit(models.UnitRow{ID: 1, Code: "UE1", Designation: "Math"})
	u1.SetElements([]*models.Element{
		{ID: 11, Designation: "Algèbre", Credit: 3},
		{ID: 12, Designation: "Analyse", Credit: 2},
	})
	u2 := models.NewUnit(models.UnitRow{ID: 2, Code: "UE2", Designation: "Vide"})
	return record.NewLayout([]*models.Unit{u1, u2})
}

func testRows(t *testing.T, l *record.Layout) []record.Row {
	t.Helper()

	results := []*models.StudentResult{
		{
			Student: &models.Student{ID: 1, Matricule: "M001", LastName: "Kabila", FirstName: "Jean"},
			Units: []models.UnitResult{
				{
					UnitID: 1,
					Elements: []models.ElementResult{
						{ElementID: 11, Value: 17, HasData: true},
						{ElementID: 12},
					},
					Average:  10.2,
					Decision: models.DecisionValidated,
				},
				{UnitID: 2, Decision: models.DecisionNotValidated},
			},
			TotalObtained:       51,
			Percentage:          51.0,
			Mention:             "E",
			ValidatedCredits:    5,
			NotValidatedCredits: 0,
			Decision:            models.FinalRepeat,
		},
		{
			Student: &models.Student{ID: 2, Matricule: "M002", LastName: "Ilunga", FirstName: "Marie"},
			Units: []models.UnitResult{
				{
					UnitID: 1,
					Elements: []models.ElementResult{
						{ElementID: 11, Value: 9, HasData: true},
						{ElementID: 12, Value: 12.5, HasData: true},
					},
					Average:  10.4,
					Decision: models.DecisionValidated,
				},
				{UnitID: 2, Decision: models.DecisionNotValidated},
			},
			TotalObtained:    52,
			Percentage:       52.0,
			Mention:          "E",
			ValidatedCredits: 5,
			Decision:         models.FinalRepeat,
		},
	}

	rows, err := l.Rows(results)
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}
	return rows
}

func TestRenderHeader(t *testing.T) {
	l := testLayout()
	doc, err := NewRenderer(Options{}).Render(l, testRows(t, l))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	fixed := []string{"N°", "MATRICULE", "NOM ET PRÉNOM"}
	for i, label := range fixed {
		if got := doc.Value(headerRow, i+1); got != label {
			t.Errorf("column %d: expected %q, got %v", i+1, label, got)
		}
		m, ok := doc.MergeAt(headerRow, i+1)
		if !ok || m.ToRow != headerRow+2 || m.ToCol != i+1 {
			t.Errorf("fixed column %d should span the three header rows, got %+v", i+1, m)
		}
	}

	// UE1 spans 2 elements + average + decision
	if got := doc.Value(headerRow, 4); got != "UE1 - Math" {
		t.Errorf("unexpected unit header: %v", got)
	}
	m, ok := doc.MergeAt(headerRow, 4)
	if !ok || m.ToCol != 7 || m.ToRow != headerRow {
		t.Errorf("unit group should span columns 4-7, got %+v", m)
	}
	if doc.Value(headerRow+1, 4) != "Algèbre" || doc.Value(headerRow+2, 4) != "(3)" {
		t.Errorf("unexpected element header: %v %v", doc.Value(headerRow+1, 4), doc.Value(headerRow+2, 4))
	}
	if doc.Value(headerRow+1, 6) != "Moyenne" || doc.Value(headerRow+2, 6) != "(5)" {
		t.Errorf("unexpected average header: %v %v", doc.Value(headerRow+1, 6), doc.Value(headerRow+2, 6))
	}
	if doc.Value(headerRow+1, 7) != "Décision" || doc.Value(headerRow+2, 7) != "V/NV" {
		t.Errorf("unexpected decision header: %v %v", doc.Value(headerRow+1, 7), doc.Value(headerRow+2, 7))
	}

	// zero-element unit still gets its average and decision columns
	if doc.Value(headerRow, 8) != "UE2 - Vide" {
		t.Errorf("expected empty unit at column 8, got %v", doc.Value(headerRow, 8))
	}
	if doc.Value(headerRow+1, 8) != "Moyenne" || doc.Value(headerRow+1, 9) != "Décision" {
		t.Error("empty unit should hold average and decision columns")
	}

	for i, label := range SummaryHeaders {
		col := 10 + i
		if got := doc.Value(headerRow, col); got != label {
			t.Errorf("summary column %d: expected %q, got %v", col, label, got)
		}
		if m, ok := doc.MergeAt(headerRow, col); !ok || m.ToRow != headerRow+2 {
			t.Errorf("summary column %d should span the header rows", col)
		}
	}

	_, cols := doc.Dimensions()
	if cols != 15 {
		t.Errorf("expected 15 columns, got %d", cols)
	}
	if m, ok := doc.MergeAt(titleRow, 1); !ok || m.ToCol != 15 {
		t.Errorf("title should span the table width, got %+v", m)
	}
}

func TestRenderRows(t *testing.T) {
	l := testLayout()
	doc, err := NewRenderer(Options{AcademicYear: "2023-2024"}).Render(l, testRows(t, l))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	r1, r2 := firstDataRow, firstDataRow+1

	if doc.Value(r1, 1) != 1 || doc.Value(r2, 1) != 2 {
		t.Errorf("expected 1-based numbering, got %v %v", doc.Value(r1, 1), doc.Value(r2, 1))
	}
	if doc.Value(r1, 2) != "M001" || doc.Value(r1, 3) != "Kabila Jean" {
		t.Errorf("unexpected identity cells: %v %v", doc.Value(r1, 2), doc.Value(r1, 3))
	}

	tests := []struct {
		name  string
		row   int
		col   int
		value any
		band  Band
	}{
		{"high note", r1, 4, 17.0, BandHigh},
		{"missing note", r1, 5, "X", BandNone},
		{"passing average", r1, 6, 10.2, BandHigh},
		{"validated unit", r1, 7, "V", BandHigh},
		{"empty unit decision", r1, 9, "NV", BandFail},
		{"failing note", r2, 4, 9.0, BandFail},
		{"pass-good note", r2, 5, 12.5, BandPassGood},
		{"percentage", r1, 11, "51.00%", BandNone},
		{"mention", r1, 12, "E", BandNone},
		{"final decision", r1, 15, "Double", BandFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := doc.Cell(tt.row, tt.col)
			if c == nil {
				t.Fatalf("no cell at %d,%d", tt.row, tt.col)
			}
			if c.Value != tt.value {
				t.Errorf("expected %v (%T), got %v (%T)", tt.value, tt.value, c.Value, c.Value)
			}
			if c.Band != tt.band {
				t.Errorf("expected band %d, got %d", tt.band, c.Band)
			}
		})
	}

	if got := doc.Value(subtitleRow, 1); got != "GRILLE DES NOTES - SESSION PRINCIPALE - 2023-2024" {
		t.Errorf("unexpected subtitle: %v", got)
	}

	legend := r2 + 1 + legendSpacing
	if doc.Value(legend, 1) != "LÉGENDE" {
		t.Errorf("expected legend at row %d, got %v", legend, doc.Value(legend, 1))
	}
	if doc.Value(legend+3, 1) != "• X: Note non disponible" {
		t.Errorf("unexpected legend item: %v", doc.Value(legend+3, 1))
	}
}

func TestRenderRejectsForeignRow(t *testing.T) {
	l := testLayout()
	rows := []record.Row{{
		Student: &models.Student{Matricule: "M009"},
		Data:    make(record.Sequence, 3),
	}}

	if _, err := NewRenderer(Options{}).Render(l, rows); err == nil {
		t.Error("expected error for a sequence that does not match the layout")
	}
}

func TestRenderNoStudents(t *testing.T) {
	doc, err := NewRenderer(Options{}).Render(testLayout(), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if doc.Cell(firstDataRow, 1) != nil {
		t.Error("expected no student rows")
	}
	if doc.Value(firstDataRow+legendSpacing, 1) != "LÉGENDE" {
		t.Error("legend should follow the header directly")
	}
}

func TestBands(t *testing.T) {
	tests := []struct {
		note float64
		want Band
	}{
		{20, BandHigh},
		{16, BandHigh},
		{15.99, BandPassGood},
		{12, BandPassGood},
		{11.99, BandPassMinimum},
		{10, BandPassMinimum},
		{9.99, BandFail},
		{0, BandFail},
	}
	for _, tt := range tests {
		if got := NoteBand(tt.note); got != tt.want {
			t.Errorf("NoteBand(%v) = %d, want %d", tt.note, got, tt.want)
		}
	}

	if AverageBand(10, 10) != BandHigh || AverageBand(9.99, 10) != BandFail {
		t.Error("average band should split at the threshold")
	}
	if FinalDecisionBand("ADMIS") != BandHigh || FinalDecisionBand("Passe") != BandHigh || FinalDecisionBand("Double") != BandFail {
		t.Error("unexpected final decision bands")
	}
}
