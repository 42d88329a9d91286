// Package store persists reviews. Two implementations: an in-memory map for
// tests and demo mode, and Postgres for real deployments. Both return
// sentinel errors; services translate them into domain errors.
package store

import (
	"context"

	"github.com/google/uuid"

	"profreview/internal/review/models"
)

// Filter selects reviews for one professor, optionally narrowed to a school.
type Filter struct {
	ProfessorName string
	SchoolName    string
}

// Totals are the exact corpus counts shown on the summary page. These are the
// only exact aggregates the service exposes; per-professor statistics go
// through the noise mechanism instead.
type Totals struct {
	Professors int `json:"total_professors"`
	Schools    int `json:"total_schools"`
	Reviews    int `json:"total_reviews"`
}

// Store is the review persistence contract. Creates and deletes are atomic
// per record; no multi-record transaction is required anywhere.
type Store interface {
	Create(ctx context.Context, r *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	Filter(ctx context.Context, f Filter) ([]*models.Review, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// DistinctProfessors lists professor names alphabetically, optionally
	// restricted to one school.
	DistinctProfessors(ctx context.Context, school string) ([]string, error)
	DistinctSchools(ctx context.Context) ([]string, error)
	DistinctCourses(ctx context.Context, professor string) ([]string, error)

	// SearchProfessors matches professor names case-insensitively on a
	// substring, alphabetically ordered.
	SearchProfessors(ctx context.Context, query string) ([]string, error)

	Totals(ctx context.Context) (Totals, error)
}
