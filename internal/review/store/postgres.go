package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"profreview/internal/review/models"
	"profreview/pkg/platform/sentinel"
)

// Schema is applied by EnsureSchema. Kept inline: a single table does not
// warrant a migration tool.
const Schema = `
CREATE TABLE IF NOT EXISTS reviews (
    id               UUID PRIMARY KEY,
    professor_name   TEXT NOT NULL,
    school_name      TEXT NOT NULL,
    department_name  TEXT NOT NULL,
    course           TEXT NOT NULL,
    star_rating      DOUBLE PRECISION NOT NULL,
    difficulty       INTEGER NOT NULL,
    help_useful      INTEGER NOT NULL,
    would_take_again BOOLEAN NOT NULL,
    comments         TEXT NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS reviews_professor_idx ON reviews (professor_name);
CREATE INDEX IF NOT EXISTS reviews_school_idx ON reviews (school_name);
`

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

const reviewColumns = `id, professor_name, school_name, department_name, course,
	star_rating, difficulty, help_useful, would_take_again, comments, created_at`

func (s *Postgres) Create(ctx context.Context, r *models.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		r.ID, r.ProfessorName, r.SchoolName, r.DepartmentName, r.Course,
		r.StarRating, r.Difficulty, r.HelpUseful, r.WouldTakeAgain, r.Comments, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id)
	return scanReview(row)
}

func (s *Postgres) Filter(ctx context.Context, f Filter) ([]*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE LOWER(professor_name) = LOWER($1)`
	args := []any{f.ProfessorName}
	if f.SchoolName != "" {
		query += ` AND LOWER(school_name) = LOWER($2)`
		args = append(args, f.SchoolName)
	}
	query += ` ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter reviews: %w", err)
	}
	defer rows.Close()

	var out []*models.Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) DistinctProfessors(ctx context.Context, school string) ([]string, error) {
	if school != "" {
		return s.stringColumn(ctx, `
			SELECT DISTINCT professor_name FROM reviews
			WHERE LOWER(school_name) = LOWER($1) ORDER BY professor_name`, school)
	}
	return s.stringColumn(ctx, `
		SELECT DISTINCT professor_name FROM reviews ORDER BY professor_name`)
}

func (s *Postgres) DistinctSchools(ctx context.Context) ([]string, error) {
	return s.stringColumn(ctx, `
		SELECT DISTINCT school_name FROM reviews ORDER BY school_name`)
}

func (s *Postgres) DistinctCourses(ctx context.Context, professor string) ([]string, error) {
	return s.stringColumn(ctx, `
		SELECT DISTINCT course FROM reviews
		WHERE LOWER(professor_name) = LOWER($1) ORDER BY course`, professor)
}

func (s *Postgres) SearchProfessors(ctx context.Context, query string) ([]string, error) {
	return s.stringColumn(ctx, `
		SELECT DISTINCT professor_name FROM reviews
		WHERE professor_name ILIKE '%' || $1 || '%' ORDER BY professor_name`, query)
}

func (s *Postgres) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT professor_name), COUNT(DISTINCT school_name), COUNT(*)
		FROM reviews`).Scan(&t.Professors, &t.Schools, &t.Reviews)
	if err != nil {
		return Totals{}, fmt.Errorf("count totals: %w", err)
	}
	return t, nil
}

func (s *Postgres) stringColumn(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*models.Review, error) {
	var r models.Review
	err := row.Scan(&r.ID, &r.ProfessorName, &r.SchoolName, &r.DepartmentName, &r.Course,
		&r.StarRating, &r.Difficulty, &r.HelpUseful, &r.WouldTakeAgain, &r.Comments, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &r, nil
}
