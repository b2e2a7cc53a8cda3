package storage

import (
	"context"

	"github.com/terra-clan/jury-engine/internal/models"
)

// Repository defines read access to the academic records behind a jury
type Repository interface {
	// Reference data
	FetchUnitsForJury(ctx context.Context, juryID int64) ([]models.UnitRow, error)
	FetchElementsForUnit(ctx context.Context, unitID int64) ([]*models.Element, error)

	// Enrollment
	FetchEnrolledStudents(ctx context.Context, juryID int64, semesterCode string) ([]*models.Student, error)

	// Scores. A nil score with a nil error means nothing was recorded.
	FetchScore(ctx context.Context, studentID, elementID, academicYearID int64) (*models.RawScore, error)

	// Health
	Ping(ctx context.Context) error
	Close() error
}
