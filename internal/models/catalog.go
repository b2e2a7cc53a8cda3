package models

// CatalogEntry is one promotion of the configured catalog with its
// ordered semester codes
type CatalogEntry struct {
	Promotion string   `yaml:"name" json:"name" validate:"required"`
	Semesters []string `yaml:"semesters" json:"semesters" validate:"required,min=1,dive,required"`
}

// Promotion groups the semesters of one study year
type Promotion struct {
	Name      string      `json:"promotion"`
	Semesters []*Semester `json:"semestres"`
}

// HasUnits reports whether any semester of the promotion holds a unit
func (p *Promotion) HasUnits() bool {
	for _, s := range p.Semesters {
		if len(s.Units) > 0 {
			return true
		}
	}
	return false
}

// Semester holds the units a jury evaluates for one semester code and the
// students enrolled in it
type Semester struct {
	Code     string     `json:"semestre"`
	Units    []*Unit    `json:"unites"`
	Students []*Student `json:"etudiants"`
}
