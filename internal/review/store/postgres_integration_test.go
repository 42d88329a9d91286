//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"profreview/internal/review/models"
	"profreview/internal/review/store"
	"profreview/pkg/platform/sentinel"
	"profreview/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "reviews"))
}

func newReview(professor, school, course string) *models.Review {
	return &models.Review{
		ID:             uuid.New(),
		ProfessorName:  professor,
		SchoolName:     school,
		DepartmentName: "Mathematics",
		Course:         course,
		StarRating:     4.5,
		Difficulty:     2,
		HelpUseful:     8,
		WouldTakeAgain: true,
		Comments:       "Lectures are well paced.",
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	review := newReview("Ada Lovelace", "Analytical University", "MATH101")
	s.Require().NoError(s.store.Create(ctx, review))

	found, err := s.store.FindByID(ctx, review.ID)
	s.Require().NoError(err)
	s.Equal(review.ProfessorName, found.ProfessorName)
	s.Equal(review.Comments, found.Comments)
	s.Equal(review.HelpUseful, found.HelpUseful)
	s.WithinDuration(review.CreatedAt, found.CreatedAt, time.Millisecond)
}

func (s *PostgresStoreSuite) TestFindMissing() {
	_, err := s.store.FindByID(context.Background(), uuid.New())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestFilterCaseInsensitive() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH101")))
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH205")))
	s.Require().NoError(s.store.Create(ctx, newReview("Grace Hopper", "Navy College", "CS350")))

	reviews, err := s.store.Filter(ctx, store.Filter{ProfessorName: "ada lovelace"})
	s.Require().NoError(err)
	s.Len(reviews, 2)

	reviews, err = s.store.Filter(ctx, store.Filter{ProfessorName: "Ada Lovelace", SchoolName: "NAVY COLLEGE"})
	s.Require().NoError(err)
	s.Empty(reviews)
}

func (s *PostgresStoreSuite) TestDelete() {
	ctx := context.Background()
	review := newReview("Ada Lovelace", "Analytical University", "MATH101")
	s.Require().NoError(s.store.Create(ctx, review))

	s.Require().NoError(s.store.Delete(ctx, review.ID))
	_, err := s.store.FindByID(ctx, review.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Delete(ctx, review.ID), sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDistinctListings() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newReview("Grace Hopper", "Navy College", "CS350")))
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH101")))
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH205")))

	professors, err := s.store.DistinctProfessors(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"Ada Lovelace", "Grace Hopper"}, professors)

	professors, err = s.store.DistinctProfessors(ctx, "navy college")
	s.Require().NoError(err)
	s.Equal([]string{"Grace Hopper"}, professors)

	schools, err := s.store.DistinctSchools(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Analytical University", "Navy College"}, schools)

	courses, err := s.store.DistinctCourses(ctx, "Ada Lovelace")
	s.Require().NoError(err)
	s.Equal([]string{"MATH101", "MATH205"}, courses)
}

func (s *PostgresStoreSuite) TestSearchProfessors() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH101")))
	s.Require().NoError(s.store.Create(ctx, newReview("Grace Hopper", "Navy College", "CS350")))

	names, err := s.store.SearchProfessors(ctx, "LOVE")
	s.Require().NoError(err)
	s.Equal([]string{"Ada Lovelace"}, names)

	names, err = s.store.SearchProfessors(ctx, "zzz")
	s.Require().NoError(err)
	s.Empty(names)
}

func (s *PostgresStoreSuite) TestTotals() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH101")))
	s.Require().NoError(s.store.Create(ctx, newReview("Ada Lovelace", "Analytical University", "MATH205")))
	s.Require().NoError(s.store.Create(ctx, newReview("Grace Hopper", "Navy College", "CS350")))

	totals, err := s.store.Totals(ctx)
	s.Require().NoError(err)
	s.Equal(2, totals.Professors)
	s.Equal(2, totals.Schools)
	s.Equal(3, totals.Reviews)
}
