package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/terra-clan/jury-engine/internal/models"
)

// Catalog is the ordered table of promotions and their semester codes.
// It is read-only once loaded.
type Catalog struct {
	entries  []models.CatalogEntry
	semester map[string]int // semester code -> entry index
}

// catalogFile represents the YAML structure of a catalog file
type catalogFile struct {
	Promotions []models.CatalogEntry `yaml:"promotions" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Default returns the catalog used when no file is configured
func Default() *Catalog {
	c, err := New([]models.CatalogEntry{
		{Promotion: "Préparatoire", Semesters: []string{"S01", "S02"}},
		{Promotion: "Licence 1", Semesters: []string{"S1", "S2"}},
		{Promotion: "Licence 2", Semesters: []string{"S3", "S4"}},
		{Promotion: "Licence 3", Semesters: []string{"S5", "S6"}},
		{Promotion: "Master 1", Semesters: []string{"S7", "S8"}},
		{Promotion: "Master 2", Semesters: []string{"S9", "S10"}},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from entries, rejecting semester codes listed twice
func New(entries []models.CatalogEntry) (*Catalog, error) {
	c := &Catalog{
		entries:  make([]models.CatalogEntry, 0, len(entries)),
		semester: make(map[string]int),
	}

	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, fmt.Errorf("invalid promotion at index %d: %w", i, err)
		}
		for _, code := range e.Semesters {
			if prev, ok := c.semester[code]; ok {
				return nil, fmt.Errorf("semester %s listed in %q and %q", code, entries[prev].Promotion, e.Promotion)
			}
			c.semester[code] = i
		}
		c.entries = append(c.entries, models.CatalogEntry{
			Promotion: e.Promotion,
			Semesters: append([]string(nil), e.Semesters...),
		})
	}

	return c, nil
}

// LoadFromFile loads a catalog from a YAML file
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, err
	}

	slog.Info("catalog loaded", "file", path, "promotions", len(c.entries), "semesters", len(c.semester))
	return c, nil
}

// Parse decodes a YAML catalog document
func Parse(data []byte) (*Catalog, error) {
	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate.Struct(cf); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return New(cf.Promotions)
}

// Entries returns a copy of the catalog table
func (c *Catalog) Entries() []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(c.entries))
	for i, e := range c.entries {
		out[i] = models.CatalogEntry{
			Promotion: e.Promotion,
			Semesters: append([]string(nil), e.Semesters...),
		}
	}
	return out
}

// Contains reports whether a semester code is part of the catalog
func (c *Catalog) Contains(code string) bool {
	_, ok := c.semester[code]
	return ok
}

// PromotionOf returns the promotion name owning a semester code
func (c *Catalog) PromotionOf(code string) (string, bool) {
	i, ok := c.semester[code]
	if !ok {
		return "", false
	}
	return c.entries[i].Promotion, true
}

// Skeleton returns a fresh, empty promotion tree following catalog order
func (c *Catalog) Skeleton() []*models.Promotion {
	promotions := make([]*models.Promotion, 0, len(c.entries))
	for _, e := range c.entries {
		p := &models.Promotion{
			Name:      e.Promotion,
			Semesters: make([]*models.Semester, 0, len(e.Semesters)),
		}
		for _, code := range e.Semesters {
			p.Semesters = append(p.Semesters, &models.Semester{
				Code:     code,
				Units:    []*models.Unit{},
				Students: []*models.Student{},
			})
		}
		promotions = append(promotions, p)
	}
	return promotions
}
