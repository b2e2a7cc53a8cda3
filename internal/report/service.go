// Package report composes record access, the hierarchy builder, the grade
// aggregator and the grid renderer into the artifacts served per jury.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/jury-engine/internal/grading"
	"github.com/terra-clan/jury-engine/internal/grid"
	"github.com/terra-clan/jury-engine/internal/hierarchy"
	"github.com/terra-clan/jury-engine/internal/models"
	"github.com/terra-clan/jury-engine/internal/record"
)

var (
	// ErrJuryNotFound is returned when a jury has no unit rows at all
	ErrJuryNotFound = errors.New("jury not found")
	// ErrNoStudents is returned when nobody is enrolled in the requested semester
	ErrNoStudents = errors.New("no students enrolled")
)

// Records is the read access the service needs
type Records interface {
	FetchUnitsForJury(ctx context.Context, juryID int64) ([]models.UnitRow, error)
	FetchElementsForUnit(ctx context.Context, unitID int64) ([]*models.Element, error)
	FetchEnrolledStudents(ctx context.Context, juryID int64, semesterCode string) ([]*models.Student, error)
	FetchScore(ctx context.Context, studentID, elementID, academicYearID int64) (*models.RawScore, error)
}

// Options configure a Service
type Options struct {
	Institution  string
	AcademicYear string
	Workers      int
}

// Service builds jury hierarchies and grade grids
type Service struct {
	records    Records
	builder    *hierarchy.Builder
	aggregator *grading.Aggregator
	opts       Options
}

// NewService creates a report service
func NewService(records Records, builder *hierarchy.Builder, aggregator *grading.Aggregator, opts Options) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	return &Service{
		records:    records,
		builder:    builder,
		aggregator: aggregator,
		opts:       opts,
	}
}

// Grid is one built grade grid with everything derived along the way
type Grid struct {
	BuildID  string
	JuryID   int64
	Semester string
	Session  models.SessionType
	Layout   *record.Layout
	Rows     []record.Row
	Result   *grading.Result
	Document *grid.Document
}

// Records returns the keyed export of every row
func (g *Grid) Records() ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(g.Rows))
	for _, row := range g.Rows {
		flat, err := g.Layout.Flatten(row)
		if err != nil {
			return nil, err
		}
		out = append(out, flat)
	}
	return out, nil
}

// JuryHierarchy returns the jury's unit tree with elements attached to
// every unit and enrolled students attached to every semester that has units
func (s *Service) JuryHierarchy(ctx context.Context, juryID int64) (*hierarchy.Hierarchy, error) {
	h, err := s.hierarchy(ctx, juryID)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for _, u := range h.Units() {
		g.Go(func() error {
			return s.attachElements(gctx, u)
		})
	}
	for _, p := range h.WithUnits() {
		for _, sem := range p.Semesters {
			if len(sem.Units) == 0 {
				continue
			}
			g.Go(func() error {
				students, err := s.records.FetchEnrolledStudents(gctx, juryID, sem.Code)
				if err != nil {
					return err
				}
				sem.Students = students
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return h, nil
}

// BuildGrid computes the grade grid of one semester of a jury for a session
func (s *Service) BuildGrid(ctx context.Context, juryID int64, session models.SessionType, semester string) (*Grid, error) {
	start := time.Now()
	buildID := uuid.New().String()
	logger := slog.With(
		"build_id", buildID,
		"jury_id", juryID,
		"semester", semester,
		"session", string(session),
	)

	h, err := s.hierarchy(ctx, juryID)
	if err != nil {
		return nil, err
	}

	units := h.SemesterUnits(semester)
	if len(units) == 0 {
		return nil, fmt.Errorf("%w: semester %s of jury %d", grading.ErrNoUnits, semester, juryID)
	}

	var students []*models.Student
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for _, u := range units {
		g.Go(func() error {
			return s.attachElements(gctx, u)
		})
	}
	g.Go(func() error {
		var err error
		students, err = s.records.FetchEnrolledStudents(gctx, juryID, semester)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(students) == 0 {
		return nil, fmt.Errorf("%w: semester %s of jury %d", ErrNoStudents, semester, juryID)
	}

	logger.Info("building grid", "units", len(units), "students", len(students))

	result, err := s.aggregator.Aggregate(ctx, units, students, session)
	if err != nil {
		logger.Error("grid build failed", "error", err)
		return nil, err
	}

	layout := record.NewLayout(result.Units)
	rows, err := layout.Rows(result.Students)
	if err != nil {
		return nil, err
	}

	renderer := grid.NewRenderer(grid.Options{
		Institution:         s.opts.Institution,
		Title:               "GRILLE DES NOTES - " + session.Title(),
		AcademicYear:        s.opts.AcademicYear,
		ValidationThreshold: s.aggregator.Policy().ValidationThreshold,
	})
	doc, err := renderer.Render(layout, rows)
	if err != nil {
		return nil, err
	}

	logger.Info("grid built",
		"positions", layout.Len(),
		"duration", time.Since(start),
	)

	return &Grid{
		BuildID:  buildID,
		JuryID:   juryID,
		Semester: semester,
		Session:  session,
		Layout:   layout,
		Rows:     rows,
		Result:   result,
		Document: doc,
	}, nil
}

func (s *Service) hierarchy(ctx context.Context, juryID int64) (*hierarchy.Hierarchy, error) {
	rows, err := s.records.FetchUnitsForJury(ctx, juryID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrJuryNotFound, juryID)
	}
	return s.builder.Build(juryID, rows), nil
}

func (s *Service) attachElements(ctx context.Context, u *models.Unit) error {
	elements, err := s.records.FetchElementsForUnit(ctx, u.ID)
	if err != nil {
		return err
	}
	u.SetElements(elements)
	return nil
}
