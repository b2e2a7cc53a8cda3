package record

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/terra-clan/jury-engine/internal/models"
)

func testUnits() []*models.Unit {
	u1 := models.NewUnit(models.UnitRow{ID: 1, Code: "UE1", Designation: "Algèbre"})
	u1.SetElements([]*models.Element{
		{ID: 11, Designation: "Algèbre linéaire", Credit: 3},
		{ID: 12, Designation: "Analyse", Credit: 2},
	})
	u2 := models.NewUnit(models.UnitRow{ID: 2, Code: "UE2", Designation: "Info"})
	u2.SetElements([]*models.Element{
		{ID: 21, Designation: "Go", Credit: 4},
	})
	return []*models.Unit{u1, u2}
}

func testResult() *models.StudentResult {
	return &models.StudentResult{
		Student: &models.Student{ID: 1, Matricule: "M001", LastName: "Kabila", MiddleName: "Mwamba", FirstName: "Jean", Email: "j@x.cd"},
		Units: []models.UnitResult{
			{
				UnitID: 1,
				Elements: []models.ElementResult{
					{ElementID: 11, Value: 15, HasData: true},
					{ElementID: 12, HasData: false},
				},
				Average:  9,
				Decision: models.DecisionNotValidated,
			},
			{
				UnitID:   2,
				Elements: []models.ElementResult{{ElementID: 21, Value: 12, HasData: true}},
				Average:  12,
				Decision: models.DecisionValidated,
			},
		},
		TotalObtained:       21,
		Percentage:          11.6666,
		Mention:             "F",
		ValidatedCredits:    4,
		NotValidatedCredits: 5,
		Decision:            models.FinalRepeat,
	}
}

func TestLayoutLength(t *testing.T) {
	l := NewLayout(testUnits())

	// 3 elements + 2*2 units + 6
	if l.Len() != 13 {
		t.Fatalf("expected length 13, got %d", l.Len())
	}
	if l.ElementIndex(1, 0) != 4 || l.AverageIndex(1) != 5 || l.DecisionIndex(1) != 6 {
		t.Errorf("unexpected positions for second unit: %d %d %d",
			l.ElementIndex(1, 0), l.AverageIndex(1), l.DecisionIndex(1))
	}

	empty := NewLayout(nil)
	if empty.Len() != TrailerLen {
		t.Errorf("empty layout should hold only the summary, got %d", empty.Len())
	}
}

func TestEncodeOrder(t *testing.T) {
	l := NewLayout(testUnits())

	seq, err := l.Encode(testResult())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	want := []string{"15", "X", "9", "NV", "12", "12", "V", "21", "11.67", "F", "4", "5", "Double"}
	if len(seq) != len(want) {
		t.Fatalf("expected %d values, got %d", len(want), len(seq))
	}
	for i, w := range want {
		if got := seq[i].String(); got != w {
			t.Errorf("position %d: expected %s, got %s", i, w, got)
		}
	}
	if seq[1].Kind != KindMissing {
		t.Error("missing element should encode as the missing sentinel")
	}
}

func TestDecodeMirrorsEncode(t *testing.T) {
	l := NewLayout(testUnits())
	seq, err := l.Encode(testResult())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	d, err := l.Decode(seq)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if len(d.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(d.Units))
	}
	if d.Units[0].Elements[0].Number != 15 || d.Units[0].Elements[1].Kind != KindMissing {
		t.Errorf("unexpected first unit elements: %+v", d.Units[0].Elements)
	}
	if d.Units[1].Average.Number != 12 || d.Units[1].Decision.Text != "V" {
		t.Errorf("unexpected second unit: %+v", d.Units[1])
	}
	if d.Summary.Decision.Text != "Double" || d.Summary.NCNV.Number != 5 {
		t.Errorf("unexpected summary: %+v", d.Summary)
	}
}

func TestEncodeRejectsMismatch(t *testing.T) {
	l := NewLayout(testUnits())
	r := testResult()
	r.Units = r.Units[:1]

	if _, err := l.Encode(r); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := l.Decode(make(Sequence, 3)); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch on short sequence, got %v", err)
	}
}

func TestTrailerCountsFromEnd(t *testing.T) {
	seq := Sequence{Number(1), Number(2), Number(30), Number(60), Text("D"), Number(30), Number(0), Text("Passe")}

	s, err := Trailer(seq)
	if err != nil {
		t.Fatalf("Trailer failed: %v", err)
	}
	if s.Total.Number != 30 || s.Mention.Text != "D" || s.Decision.Text != "Passe" {
		t.Errorf("unexpected trailer: %+v", s)
	}
	if _, err := Trailer(seq[:5]); err == nil {
		t.Error("expected error on short sequence")
	}
}

func TestFlatten(t *testing.T) {
	l := NewLayout(testUnits())
	rows, err := l.Rows([]*models.StudentResult{testResult()})
	if err != nil {
		t.Fatalf("Rows failed: %v", err)
	}

	flat, err := l.Flatten(rows[0])
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	if flat["nom"] != "Kabila Mwamba Jean" {
		t.Errorf("unexpected name: %v", flat["nom"])
	}
	if v, ok := flat["UE1_Algèbre_linéaire"].(Value); !ok || v.Number != 15 {
		t.Errorf("unexpected element value: %v", flat["UE1_Algèbre_linéaire"])
	}
	if v := flat["UE1_Analyse"].(Value); v.String() != "X" {
		t.Errorf("expected X for missing element, got %v", v)
	}
	if v := flat["decision_finale"].(Value); v.Text != "Double" {
		t.Errorf("unexpected final decision: %v", v)
	}

	data, err := json.Marshal(flat)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]any
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["UE2_moyenne"] != float64(12) || back["UE1_Analyse"] != "X" {
		t.Errorf("unexpected JSON rendering: %s", data)
	}
}
