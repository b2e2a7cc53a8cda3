// Package hierarchy assembles the promotion → semester → unit tree of a jury
// from the flat unit rows delivered by the record store.
package hierarchy

import (
	"log/slog"

	"github.com/terra-clan/jury-engine/internal/catalog"
	"github.com/terra-clan/jury-engine/internal/models"
)

// Builder places unit rows into the configured promotion catalog
type Builder struct {
	catalog *catalog.Catalog
}

// NewBuilder creates a builder over the given catalog
func NewBuilder(cat *catalog.Catalog) *Builder {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Builder{catalog: cat}
}

// Hierarchy is the unit tree of one jury. Promotions follow catalog order;
// units within a semester follow input row order.
type Hierarchy struct {
	JuryID     int64
	Promotions []*models.Promotion
	unplaced   []*models.Unit
}

// Build places every row under its semester. Duplicate unit ids are kept as
// delivered. An empty row set yields an empty hierarchy, not an error.
func (b *Builder) Build(juryID int64, rows []models.UnitRow) *Hierarchy {
	h := &Hierarchy{
		JuryID:     juryID,
		Promotions: b.catalog.Skeleton(),
	}

	index := make(map[string]*models.Semester)
	for _, p := range h.Promotions {
		for _, s := range p.Semesters {
			index[s.Code] = s
		}
	}

	for _, row := range rows {
		unit := models.NewUnit(row)
		sem, ok := index[row.SemesterCode]
		if !ok {
			slog.Warn("unit semester not in catalog",
				"jury_id", juryID,
				"unit_id", row.ID,
				"semester", row.SemesterCode,
			)
			h.unplaced = append(h.unplaced, unit)
			continue
		}
		sem.Units = append(sem.Units, unit)
	}

	return h
}

// IsEmpty reports whether no unit was placed in the tree
func (h *Hierarchy) IsEmpty() bool {
	for _, p := range h.Promotions {
		if p.HasUnits() {
			return false
		}
	}
	return true
}

// WithUnits returns the promotions that hold at least one unit
func (h *Hierarchy) WithUnits() []*models.Promotion {
	var result []*models.Promotion
	for _, p := range h.Promotions {
		if p.HasUnits() {
			result = append(result, p)
		}
	}
	return result
}

// Semester returns the semester node for a code, nil if not in the catalog
func (h *Hierarchy) Semester(code string) *models.Semester {
	for _, p := range h.Promotions {
		for _, s := range p.Semesters {
			if s.Code == code {
				return s
			}
		}
	}
	return nil
}

// SemesterUnits returns the units of a semester whose own semester field
// matches the code
func (h *Hierarchy) SemesterUnits(code string) []*models.Unit {
	sem := h.Semester(code)
	if sem == nil {
		return nil
	}

	units := make([]*models.Unit, 0, len(sem.Units))
	for _, u := range sem.Units {
		if u.SemesterCode == code {
			units = append(units, u)
		}
	}
	return units
}

// Units returns every placed unit in tree order
func (h *Hierarchy) Units() []*models.Unit {
	var units []*models.Unit
	for _, p := range h.Promotions {
		for _, s := range p.Semesters {
			units = append(units, s.Units...)
		}
	}
	return units
}

// Unplaced returns the units whose semester code is absent from the catalog
func (h *Hierarchy) Unplaced() []*models.Unit {
	return h.unplaced
}
