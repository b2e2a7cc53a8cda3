package record

import (
	"strings"

	"github.com/terra-clan/jury-engine/internal/models"
)

// Row pairs a student with the sequence computed for it
type Row struct {
	Student *models.Student `json:"student"`
	Data    Sequence        `json:"data"`
}

// Rows encodes every student result along the layout
func (l *Layout) Rows(results []*models.StudentResult) ([]Row, error) {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		seq, err := l.Encode(r)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Student: r.Student, Data: seq})
	}
	return rows, nil
}

// Flatten exports a row as a keyed record: identity fields, one key per
// element, average and decision per unit, then the summary keys
func (l *Layout) Flatten(row Row) (map[string]any, error) {
	d, err := l.Decode(row.Data)
	if err != nil {
		return nil, err
	}

	out := map[string]any{
		"matricule": row.Student.Matricule,
		"nom":       row.Student.FullName(),
		"email":     row.Student.Email,
	}

	for _, uv := range d.Units {
		for j, e := range uv.Unit.Elements {
			out[uv.Unit.Code+"_"+underscore(e.Designation)] = uv.Elements[j]
		}
		out[uv.Unit.Code+"_moyenne"] = uv.Average
		out[uv.Unit.Code+"_decision"] = uv.Decision
	}

	out["total"] = d.Summary.Total
	out["pourcentage"] = d.Summary.Percentage
	out["mention"] = d.Summary.Mention
	out["ncv"] = d.Summary.NCV
	out["ncnv"] = d.Summary.NCNV
	out["decision_finale"] = d.Summary.Decision

	return out, nil
}

func underscore(s string) string {
	return strings.Join(strings.Fields(s), "_")
}
