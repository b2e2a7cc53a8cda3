// Package record defines the flat positional sequence handed from the
// aggregator to the grid renderer.
//
// For every unit in hierarchy order the sequence holds one value per
// element, then the unit average, then the unit decision. It ends with six
// summary values: total, percentage, mention, ncv, ncnv and final decision.
// Both Encode and Decode take their positions from the same Layout, so the
// two directions cannot drift apart.
package record

import (
	"errors"
	"fmt"

	"github.com/terra-clan/jury-engine/internal/grading"
	"github.com/terra-clan/jury-engine/internal/models"
)

// TrailerLen is the number of summary values closing every sequence
const TrailerLen = 6

// ErrLengthMismatch is returned when a sequence or result does not fit the layout
var ErrLengthMismatch = errors.New("record does not match layout")

type unitSlot struct {
	first    int
	average  int
	decision int
}

// Layout maps units and their elements to sequence positions
type Layout struct {
	units  []*models.Unit
	slots  []unitSlot
	length int
}

// NewLayout computes positions for the units in the given order
func NewLayout(units []*models.Unit) *Layout {
	l := &Layout{
		units: units,
		slots: make([]unitSlot, len(units)),
	}

	pos := 0
	for i, u := range units {
		l.slots[i].first = pos
		pos += len(u.Elements)
		l.slots[i].average = pos
		l.slots[i].decision = pos + 1
		pos += 2
	}
	l.length = pos + TrailerLen

	return l
}

// Units returns the units the layout was built from
func (l *Layout) Units() []*models.Unit {
	return l.units
}

// Len returns the sequence length: elements + 2×units + 6
func (l *Layout) Len() int {
	return l.length
}

// ElementIndex returns the position of element e of unit u
func (l *Layout) ElementIndex(u, e int) int {
	return l.slots[u].first + e
}

// AverageIndex returns the position of the average of unit u
func (l *Layout) AverageIndex(u int) int {
	return l.slots[u].average
}

// DecisionIndex returns the position of the decision of unit u
func (l *Layout) DecisionIndex(u int) int {
	return l.slots[u].decision
}

// Encode serializes a student result into its sequence
func (l *Layout) Encode(r *models.StudentResult) (Sequence, error) {
	if len(r.Units) != len(l.units) {
		return nil, fmt.Errorf("%w: %d unit results for %d units", ErrLengthMismatch, len(r.Units), len(l.units))
	}

	seq := make(Sequence, l.length)
	for i, ur := range r.Units {
		if len(ur.Elements) != len(l.units[i].Elements) {
			return nil, fmt.Errorf("%w: unit %d has %d element results for %d elements",
				ErrLengthMismatch, l.units[i].ID, len(ur.Elements), len(l.units[i].Elements))
		}
		for j, er := range ur.Elements {
			if er.HasData {
				seq[l.ElementIndex(i, j)] = Number(er.Value)
			} else {
				seq[l.ElementIndex(i, j)] = Missing()
			}
		}
		seq[l.AverageIndex(i)] = Number(ur.Average)
		seq[l.DecisionIndex(i)] = Text(string(ur.Decision))
	}

	n := l.length
	seq[n-6] = Number(r.TotalObtained)
	seq[n-5] = Number(grading.Round2(r.Percentage))
	seq[n-4] = Text(r.Mention)
	seq[n-3] = Number(r.ValidatedCredits)
	seq[n-2] = Number(r.NotValidatedCredits)
	seq[n-1] = Text(string(r.Decision))

	return seq, nil
}

// UnitValues holds the decoded values of one unit
type UnitValues struct {
	Unit     *models.Unit
	Elements []Value
	Average  Value
	Decision Value
}

// Summary holds the six trailing values of a sequence
type Summary struct {
	Total      Value
	Percentage Value
	Mention    Value
	NCV        Value
	NCNV       Value
	Decision   Value
}

// Values returns the summary in sequence order
func (s Summary) Values() []Value {
	return []Value{s.Total, s.Percentage, s.Mention, s.NCV, s.NCNV, s.Decision}
}

// Decoded is a sequence split back along the layout
type Decoded struct {
	Units   []UnitValues
	Summary Summary
}

// Decode splits a sequence along the layout
func (l *Layout) Decode(seq Sequence) (*Decoded, error) {
	if len(seq) != l.length {
		return nil, fmt.Errorf("%w: sequence has %d values, layout expects %d", ErrLengthMismatch, len(seq), l.length)
	}

	d := &Decoded{Units: make([]UnitValues, len(l.units))}
	for i, u := range l.units {
		uv := UnitValues{
			Unit:     u,
			Elements: make([]Value, len(u.Elements)),
			Average:  seq[l.AverageIndex(i)],
			Decision: seq[l.DecisionIndex(i)],
		}
		for j := range u.Elements {
			uv.Elements[j] = seq[l.ElementIndex(i, j)]
		}
		d.Units[i] = uv
	}

	summary, err := Trailer(seq)
	if err != nil {
		return nil, err
	}
	d.Summary = summary

	return d, nil
}

// Trailer reads the six summary values counting from the end of the sequence
func Trailer(seq Sequence) (Summary, error) {
	n := len(seq)
	if n < TrailerLen {
		return Summary{}, fmt.Errorf("%w: sequence shorter than summary", ErrLengthMismatch)
	}
	return Summary{
		Total:      seq[n-6],
		Percentage: seq[n-5],
		Mention:    seq[n-4],
		NCV:        seq[n-3],
		NCNV:       seq[n-2],
		Decision:   seq[n-1],
	}, nil
}
