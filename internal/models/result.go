package models

// Decision is the outcome of a teaching unit
type Decision string

const (
	DecisionValidated    Decision = "V"
	DecisionNotValidated Decision = "NV"
)

// FinalDecision is the outcome of a semester
type FinalDecision string

const (
	FinalPass   FinalDecision = "Passe"
	FinalRepeat FinalDecision = "Double"
)

// ElementResult is the session value of one element for one student
type ElementResult struct {
	ElementID int64   `json:"element_id"`
	Value     float64 `json:"value"`
	HasData   bool    `json:"has_data"`
}

// UnitResult is the aggregated outcome of one unit for one student
type UnitResult struct {
	UnitID   int64           `json:"unit_id"`
	Elements []ElementResult `json:"elements"`
	Average  float64         `json:"average"`
	Decision Decision        `json:"decision"`
}

// StudentResult is the semester rollup for one student.
// Units follows hierarchy order.
type StudentResult struct {
	Student             *Student      `json:"student"`
	Units               []UnitResult  `json:"units"`
	TotalObtained       float64       `json:"total"`
	Percentage          float64       `json:"pourcentage"`
	Mention             string        `json:"mention"`
	ValidatedCredits    float64       `json:"ncv"`
	NotValidatedCredits float64       `json:"ncnv"`
	Decision            FinalDecision `json:"decision"`
}

// Unit returns the first result for the given unit id
func (r *StudentResult) Unit(unitID int64) *UnitResult {
	for i := range r.Units {
		if r.Units[i].UnitID == unitID {
			return &r.Units[i]
		}
	}
	return nil
}
