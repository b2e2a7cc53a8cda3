// Package grading turns raw element scores into unit averages, unit
// decisions and the semester rollup of each student.
package grading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/terra-clan/jury-engine/internal/models"
)

// ErrNoUnits is returned when there is nothing to aggregate
var ErrNoUnits = errors.New("no units to aggregate")

// ScoreSource fetches the raw score of a student on an element.
// A nil score with a nil error means nothing was recorded.
type ScoreSource interface {
	FetchScore(ctx context.Context, studentID, elementID, academicYearID int64) (*models.RawScore, error)
}

// Result is the output of one aggregation
type Result struct {
	// Units are copies of the input units with Average set to the cohort mean
	Units           []*models.Unit
	Students        []*models.StudentResult
	SemesterCredits float64
	SemesterTotal   float64
}

// Aggregator computes student results for a set of units
type Aggregator struct {
	source  ScoreSource
	policy  Policy
	workers int
}

// NewAggregator creates an aggregator. workers bounds the number of
// concurrent students and concurrent lookups per student.
func NewAggregator(source ScoreSource, policy Policy, workers int) *Aggregator {
	if workers <= 0 {
		workers = 8
	}
	return &Aggregator{
		source:  source,
		policy:  policy,
		workers: workers,
	}
}

// Policy returns the grading policy in use
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// Aggregate evaluates every student on every unit for the given session.
// Units and their elements are only read. All score lookups of a student
// complete before any of that student's arithmetic runs.
func (a *Aggregator) Aggregate(ctx context.Context, units []*models.Unit, students []*models.Student, session models.SessionType) (*Result, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}
	session, err := models.ParseSessionType(string(session))
	if err != nil {
		return nil, err
	}

	var semesterCredits float64
	for _, u := range units {
		semesterCredits += u.Credits
	}

	results := make([]*models.StudentResult, len(students))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, st := range students {
		g.Go(func() error {
			scores, err := a.gather(gctx, units, st)
			if err != nil {
				return err
			}
			results[i] = a.evaluate(units, st, scores, session, semesterCredits)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregation aborted: %w", err)
	}

	return &Result{
		Units:           cohortUnits(units, results),
		Students:        results,
		SemesterCredits: semesterCredits,
		SemesterTotal:   a.policy.MaxMark * semesterCredits,
	}, nil
}

// gather fetches every (student, element) score of the student into a slice
// indexed by the element's position in unit traversal order. Failed lookups
// are recorded as missing; only cancellation aborts.
func (a *Aggregator) gather(ctx context.Context, units []*models.Unit, st *models.Student) ([]*models.RawScore, error) {
	total := 0
	for _, u := range units {
		total += len(u.Elements)
	}
	scores := make([]*models.RawScore, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	pos := 0
	for _, u := range units {
		for _, e := range u.Elements {
			idx := pos
			yearID := u.AcademicYearID
			g.Go(func() error {
				score, err := a.source.FetchScore(gctx, st.ID, e.ID, yearID)
				if err != nil {
					if ctxErr := gctx.Err(); ctxErr != nil {
						return ctxErr
					}
					slog.Warn("score lookup failed, recorded as missing",
						"student_id", st.ID,
						"element_id", e.ID,
						"error", err,
					)
					return nil
				}
				scores[idx] = score
				return nil
			})
			pos++
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// evaluate runs the unit and semester arithmetic for one student
func (a *Aggregator) evaluate(units []*models.Unit, st *models.Student, scores []*models.RawScore, session models.SessionType, semesterCredits float64) *models.StudentResult {
	res := &models.StudentResult{
		Student: st,
		Units:   make([]models.UnitResult, 0, len(units)),
	}

	pos := 0
	for _, u := range units {
		ur := models.UnitResult{
			UnitID:   u.ID,
			Elements: make([]models.ElementResult, 0, len(u.Elements)),
		}

		var numerator float64
		for _, e := range u.Elements {
			value, weighted, ok := SessionValue(scores[pos], e.Credit, session)
			if !ok {
				slog.Debug("no score recorded", "student_id", st.ID, "element_id", e.ID)
			}
			numerator += weighted
			ur.Elements = append(ur.Elements, models.ElementResult{
				ElementID: e.ID,
				Value:     value,
				HasData:   ok,
			})
			pos++
		}

		// missing elements keep their credit in the denominator
		if u.Credits > 0 {
			ur.Average = numerator / u.Credits
		}
		ur.Decision = a.policy.UnitDecision(ur.Average)

		res.TotalObtained += ur.Average
		if ur.Decision == models.DecisionValidated {
			res.ValidatedCredits += u.Credits
		} else {
			res.NotValidatedCredits += u.Credits
		}

		res.Units = append(res.Units, ur)
	}

	res.Percentage = a.policy.Percentage(res.TotalObtained, semesterCredits)
	res.Mention = Mention(res.Percentage)
	res.Decision = a.policy.FinalDecision(res.ValidatedCredits)

	return res
}

// SessionValue selects the session value of an element. It returns the
// unweighted value reported for the element, its credit-weighted
// contribution to the unit numerator, and false when there is no data.
//
// For the combined session the contribution is the larger of the two
// weighted totals and the reported value the larger of the two unweighted
// totals; both comparisons are made independently.
func SessionValue(score *models.RawScore, credit float64, session models.SessionType) (float64, float64, bool) {
	principal, hasPrincipal := score.Principal()
	retake, hasRetake := score.Retake()

	switch session {
	case models.SessionPrincipal:
		if !hasPrincipal {
			return 0, 0, false
		}
		return principal, principal * credit, true

	case models.SessionRattrapage:
		if !hasRetake {
			return 0, 0, false
		}
		return retake, retake * credit, true

	case models.SessionCombined:
		switch {
		case hasPrincipal && hasRetake:
			return max(principal, retake), max(principal*credit, retake*credit), true
		case hasPrincipal:
			return principal, principal * credit, true
		case hasRetake:
			return retake, retake * credit, true
		}
	}

	return 0, 0, false
}

// cohortUnits copies the units with Average set to the mean unit average
// across students
func cohortUnits(units []*models.Unit, results []*models.StudentResult) []*models.Unit {
	out := make([]*models.Unit, len(units))
	for i, u := range units {
		cp := *u
		cp.Average = 0
		if len(results) > 0 {
			var sum float64
			for _, r := range results {
				sum += r.Units[i].Average
			}
			cp.Average = Round2(sum / float64(len(results)))
		}
		out[i] = &cp
	}
	return out
}
