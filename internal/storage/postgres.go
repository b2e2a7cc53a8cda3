package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/terra-clan/jury-engine/internal/models"
)

// PostgresRepository implements Repository using PostgreSQL
type PostgresRepository struct {
	pool  *pgxpool.Pool
	retry RetryPolicy
}

// PostgresConfig holds PostgreSQL connection configuration
type PostgresConfig struct {
	DSN         string
	MaxConns    int32
	MinConns    int32
	MaxLifetime time.Duration
	Retry       RetryPolicy
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(ctx context.Context, cfg PostgresConfig) (*PostgresRepository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	} else {
		poolConfig.MaxConns = 25
	}

	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	} else {
		poolConfig.MinConns = 5
	}

	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.MaxLifetime
	} else {
		poolConfig.MaxConnLifetime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	retry := cfg.Retry
	if retry.Attempts == 0 {
		retry = DefaultRetryPolicy()
	}

	return &PostgresRepository{pool: pool, retry: retry}, nil
}

// Ping checks database connectivity
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// FetchUnitsForJury returns the units of every semester the jury covers,
// tagged with the semester code and academic year
func (r *PostgresRepository) FetchUnitsForJury(ctx context.Context, juryID int64) ([]models.UnitRow, error) {
	query := `
		SELECT u.id, u.code, u.designation, s.code, js.academic_year_id
		FROM jury_semesters js
		INNER JOIN units u ON u.semester_id = js.semester_id
		INNER JOIN semesters s ON s.id = js.semester_id
		WHERE js.jury_id = $1
		ORDER BY js.id, u.id
	`

	var units []models.UnitRow
	err := r.retry.do(ctx, "fetch_units", func(ctx context.Context) error {
		rows, err := r.pool.Query(ctx, query, juryID)
		if err != nil {
			return err
		}
		defer rows.Close()

		units = units[:0]
		for rows.Next() {
			var u models.UnitRow
			if err := rows.Scan(&u.ID, &u.Code, &u.Designation, &u.SemesterCode, &u.AcademicYearID); err != nil {
				return fmt.Errorf("failed to scan unit: %w", err)
			}
			units = append(units, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch units for jury %d: %w", juryID, err)
	}

	return units, nil
}

// FetchElementsForUnit returns the elements of a unit
func (r *PostgresRepository) FetchElementsForUnit(ctx context.Context, unitID int64) ([]*models.Element, error) {
	query := `
		SELECT id, unit_id, designation, credit
		FROM elements
		WHERE unit_id = $1
		ORDER BY id
	`

	var elements []*models.Element
	err := r.retry.do(ctx, "fetch_elements", func(ctx context.Context) error {
		rows, err := r.pool.Query(ctx, query, unitID)
		if err != nil {
			return err
		}
		defer rows.Close()

		elements = elements[:0]
		for rows.Next() {
			var e models.Element
			if err := rows.Scan(&e.ID, &e.UnitID, &e.Designation, &e.Credit); err != nil {
				return fmt.Errorf("failed to scan element: %w", err)
			}
			elements = append(elements, &e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch elements for unit %d: %w", unitID, err)
	}

	return elements, nil
}

// FetchEnrolledStudents returns the students enrolled in the jury's
// semester identified by its code, for the jury's academic year
func (r *PostgresRepository) FetchEnrolledStudents(ctx context.Context, juryID int64, semesterCode string) ([]*models.Student, error) {
	query := `
		SELECT st.id, st.matricule, st.last_name, st.middle_name, st.first_name,
		       st.sex, st.grade, st.nationality, st.birth_date, st.phone, st.email, st.address, st.photo
		FROM enrollments e
		INNER JOIN students st ON st.id = e.student_id
		INNER JOIN jury_semesters js ON js.semester_id = e.semester_id AND js.academic_year_id = e.academic_year_id
		INNER JOIN semesters s ON s.id = js.semester_id
		WHERE js.jury_id = $1 AND s.code = $2
		ORDER BY st.last_name, st.middle_name, st.first_name
	`

	var students []*models.Student
	err := r.retry.do(ctx, "fetch_students", func(ctx context.Context) error {
		rows, err := r.pool.Query(ctx, query, juryID, semesterCode)
		if err != nil {
			return err
		}
		defer rows.Close()

		students = students[:0]
		for rows.Next() {
			var st models.Student
			var middle, sex, grade, nationality, phone, email, address, photo sql.NullString
			var birth sql.NullTime

			err := rows.Scan(
				&st.ID,
				&st.Matricule,
				&st.LastName,
				&middle,
				&st.FirstName,
				&sex,
				&grade,
				&nationality,
				&birth,
				&phone,
				&email,
				&address,
				&photo,
			)
			if err != nil {
				return fmt.Errorf("failed to scan student: %w", err)
			}

			st.MiddleName = middle.String
			st.Sex = sex.String
			st.Grade = grade.String
			st.Nationality = nationality.String
			st.Phone = phone.String
			st.Email = email.String
			st.Address = address.String
			st.Photo = photo.String
			if birth.Valid {
				st.BirthDate = &birth.Time
			}

			students = append(students, &st)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch students for jury %d semester %s: %w", juryID, semesterCode, err)
	}

	return students, nil
}

// FetchScore returns the marks of a student on an element for an academic
// year, or nil when nothing was recorded
func (r *PostgresRepository) FetchScore(ctx context.Context, studentID, elementID, academicYearID int64) (*models.RawScore, error) {
	query := `
		SELECT sc.continuous, sc.exam, sc.makeup
		FROM scores sc
		INNER JOIN teaching_loads tl ON tl.id = sc.teaching_load_id
		WHERE sc.student_id = $1 AND tl.academic_year_id = $2 AND tl.element_id = $3
		LIMIT 1
	`

	var score *models.RawScore
	err := r.retry.do(ctx, "fetch_score", func(ctx context.Context) error {
		var s models.RawScore
		err := r.pool.QueryRow(ctx, query, studentID, academicYearID, elementID).Scan(
			&s.Continuous,
			&s.Exam,
			&s.Makeup,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				score = nil
				return nil
			}
			return err
		}
		score = &s
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch score (student %d, element %d): %w", studentID, elementID, err)
	}

	return score, nil
}
