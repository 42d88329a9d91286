// Package service orchestrates the review lifecycle. The write path gates
// every comment through the risk classifier before it reaches the store; the
// read path releases noisy statistics, recomputed on every request.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"profreview/internal/audit"
	"profreview/internal/platform/metrics"
	"profreview/internal/privacy/risk"
	"profreview/internal/review/models"
	"profreview/internal/review/store"
	"profreview/internal/stats"
	dErrors "profreview/pkg/domain-errors"
	"profreview/pkg/platform/sentinel"
)

type Service struct {
	store      store.Store
	classifier *risk.Classifier
	releaser   *stats.Releaser
	logger     *slog.Logger
	metrics    *metrics.Metrics
	audit      audit.Publisher
	now        func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

// WithClock overrides the timestamp source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(st store.Store, classifier *risk.Classifier, releaser *stats.Releaser, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      st,
		classifier: classifier,
		releaser:   releaser,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitRequest carries one review submission. Pointer fields distinguish
// "absent" from zero values so validation can name every missing field.
type SubmitRequest struct {
	Course           string   `json:"course"`
	Rating           *float64 `json:"rating"`
	Difficulty       *int     `json:"difficulty"`
	HelpUseful       *int     `json:"help_useful"`
	WouldTakeAgain   *bool    `json:"would_take_again"`
	Comments         string   `json:"comments"`
	AlreadyRephrased bool     `json:"already_rephrased"`
}

func (r *SubmitRequest) validate() error {
	var missing []string
	if r.Course == "" {
		missing = append(missing, "course")
	}
	if r.Rating == nil {
		missing = append(missing, "rating")
	}
	if r.Difficulty == nil {
		missing = append(missing, "difficulty")
	}
	if r.HelpUseful == nil {
		missing = append(missing, "help_useful")
	}
	if r.WouldTakeAgain == nil {
		missing = append(missing, "would_take_again")
	}
	if r.Comments == "" {
		missing = append(missing, "comments")
	}
	if len(missing) > 0 {
		return dErrors.NewValidation(missing)
	}
	return nil
}

// SubmitReview validates, classifies, and persists a review for an existing
// professor. When AlreadyRephrased is set the client has shown the user a
// classifier preview and the user accepted it, so the (already classified)
// text is persisted as given rather than classified twice.
func (s *Service) SubmitReview(ctx context.Context, professorName string, req SubmitRequest) (*models.Review, error) {
	if err := req.validate(); err != nil {
		if s.metrics != nil {
			s.metrics.SubmissionsRejected.Inc()
		}
		return nil, err
	}

	existing, err := s.store.Filter(ctx, store.Filter{ProfessorName: professorName})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up professor")
	}
	if len(existing) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "professor not found")
	}

	comments := req.Comments
	var riskLevel risk.Level
	var detectorHit bool
	if req.AlreadyRephrased {
		riskLevel = risk.LevelLow
	} else {
		assessment := s.classifier.Assess(ctx, req.Comments)
		comments = assessment.RephrasedText
		riskLevel = assessment.Level
		detectorHit = len(assessment.DetectorHits) > 0
		s.recordAssessment(assessment)
	}

	review := &models.Review{
		ID:             uuid.New(),
		ProfessorName:  existing[0].ProfessorName,
		SchoolName:     existing[0].SchoolName,
		DepartmentName: existing[0].DepartmentName,
		Course:         req.Course,
		StarRating:     *req.Rating,
		Difficulty:     *req.Difficulty,
		HelpUseful:     models.ClampHelpUseful(*req.HelpUseful),
		WouldTakeAgain: *req.WouldTakeAgain,
		Comments:       comments,
		CreatedAt:      s.now(),
	}

	if err := s.store.Create(ctx, review); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist review")
	}

	if s.metrics != nil {
		s.metrics.ReviewsCreated.Inc()
	}
	s.emit(ctx, audit.Event{
		Timestamp:     s.now(),
		Action:        audit.ActionReviewCreated,
		ReviewID:      review.ID.String(),
		ProfessorName: review.ProfessorName,
		RiskLevel:     string(riskLevel),
		DetectorHit:   detectorHit,
	})

	return review, nil
}

// CheckPrivacyRisk runs the classifier without persisting anything, for the
// client-side preview. Collaborator trouble shows up as an advisory note on
// the assessment, never as an error.
func (s *Service) CheckPrivacyRisk(ctx context.Context, text string) risk.Assessment {
	assessment := s.classifier.Assess(ctx, text)
	s.recordAssessment(assessment)
	return assessment
}

func (s *Service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	review, err := s.store.FindByID(ctx, id)
	if err != nil {
		return translateStoreErr(err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translateStoreErr(err)
	}

	if s.metrics != nil {
		s.metrics.ReviewsDeleted.Inc()
	}
	s.emit(ctx, audit.Event{
		Timestamp:     s.now(),
		Action:        audit.ActionReviewDeleted,
		ReviewID:      id.String(),
		ProfessorName: review.ProfessorName,
	})
	return nil
}

// Profile is the professor page payload: identity, courses, released
// statistics, and the sanitized reviews.
type Profile struct {
	ProfessorName  string                    `json:"professor_name"`
	SchoolName     string                    `json:"school_name"`
	DepartmentName string                    `json:"department_name"`
	Courses        []string                  `json:"courses"`
	Statistics     stats.ProfessorStatistics `json:"statistics"`
	Reviews        []*models.Review          `json:"reviews"`
}

// ProfessorProfile renders a professor's page. Statistics are drawn fresh on
// every call; no unperturbed aggregate leaves the service.
func (s *Service) ProfessorProfile(ctx context.Context, professorName, school string) (*Profile, error) {
	reviews, err := s.store.Filter(ctx, store.Filter{ProfessorName: professorName, SchoolName: school})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reviews")
	}
	if len(reviews) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "professor not found")
	}

	statistics, err := s.release(reviews)
	if err != nil {
		return nil, err
	}

	courses, err := s.store.DistinctCourses(ctx, professorName)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load courses")
	}

	return &Profile{
		ProfessorName:  reviews[0].ProfessorName,
		SchoolName:     reviews[0].SchoolName,
		DepartmentName: reviews[0].DepartmentName,
		Courses:        courses,
		Statistics:     statistics,
		Reviews:        reviews,
	}, nil
}

// SearchResult is one search hit with its own fresh statistic release.
type SearchResult struct {
	ProfessorName string                    `json:"professor_name"`
	SchoolName    string                    `json:"school_name"`
	Statistics    stats.ProfessorStatistics `json:"statistics"`
}

func (s *Service) SearchProfessors(ctx context.Context, query string) ([]SearchResult, error) {
	if query == "" {
		return []SearchResult{}, nil
	}

	names, err := s.store.SearchProfessors(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "search failed")
	}

	results := make([]SearchResult, 0, len(names))
	for _, name := range names {
		reviews, err := s.store.Filter(ctx, store.Filter{ProfessorName: name})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reviews")
		}
		if len(reviews) == 0 {
			continue
		}
		statistics, err := s.release(reviews)
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{
			ProfessorName: reviews[0].ProfessorName,
			SchoolName:    reviews[0].SchoolName,
			Statistics:    statistics,
		})
	}
	return results, nil
}

func (s *Service) ListProfessors(ctx context.Context, school string) ([]string, error) {
	names, err := s.store.DistinctProfessors(ctx, school)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list professors")
	}
	return names, nil
}

func (s *Service) ListSchools(ctx context.Context) ([]string, error) {
	schools, err := s.store.DistinctSchools(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list schools")
	}
	return schools, nil
}

func (s *Service) Summary(ctx context.Context) (store.Totals, error) {
	totals, err := s.store.Totals(ctx)
	if err != nil {
		return store.Totals{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count totals")
	}
	return totals, nil
}

func (s *Service) release(reviews []*models.Review) (stats.ProfessorStatistics, error) {
	statistics, err := s.releaser.Release(reviews)
	if err != nil {
		return stats.ProfessorStatistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "statistic release failed")
	}
	if s.metrics != nil {
		for _, name := range []string{"rating", "difficulty", "helpfulness", "would_take_again"} {
			s.metrics.StatisticsReleased.WithLabelValues(name).Inc()
		}
	}
	return statistics, nil
}

func (s *Service) recordAssessment(a risk.Assessment) {
	if s.metrics == nil {
		return
	}
	s.metrics.Classifications.WithLabelValues(string(a.Level)).Inc()
	for _, cat := range a.DetectorHits {
		s.metrics.DetectorHits.WithLabelValues(string(cat)).Inc()
	}
	if a.Note == risk.NoteCollaboratorUnavailable {
		s.metrics.CollaboratorFailures.Inc()
	}
}

func (s *Service) emit(ctx context.Context, e audit.Event) {
	if s.audit != nil {
		s.audit.Publish(ctx, e)
	}
}

func translateStoreErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "review not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "store failure")
}
