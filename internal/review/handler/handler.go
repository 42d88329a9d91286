// Package handler exposes the review pipeline over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"profreview/internal/platform/middleware"
	"profreview/internal/privacy/risk"
	"profreview/internal/review/models"
	"profreview/internal/review/service"
	"profreview/internal/review/store"
	dErrors "profreview/pkg/domain-errors"
	"profreview/pkg/platform/httputil"
)

// Service is what the HTTP layer needs from the review service.
type Service interface {
	SubmitReview(ctx context.Context, professorName string, req service.SubmitRequest) (*models.Review, error)
	CheckPrivacyRisk(ctx context.Context, text string) risk.Assessment
	DeleteReview(ctx context.Context, id uuid.UUID) error
	ProfessorProfile(ctx context.Context, professorName, school string) (*service.Profile, error)
	SearchProfessors(ctx context.Context, query string) ([]service.SearchResult, error)
	ListProfessors(ctx context.Context, school string) ([]string, error)
	ListSchools(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (store.Totals, error)
}

type HealthCheck func(ctx context.Context) error

type Handler struct {
	logger  *slog.Logger
	svc     Service
	limiter middleware.Limiter
	checks  map[string]HealthCheck
}

type Option func(*Handler)

// WithLimiter enables rate limiting on the write endpoints.
func WithLimiter(l middleware.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithHealthCheck registers a named dependency probe for /healthz.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(h *Handler) { h.checks[name] = check }
}

func New(svc Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		logger: logger,
		svc:    svc,
		checks: make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Router builds the full route tree.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/summary", h.handleSummary)
		api.Get("/schools", h.handleListSchools)
		api.Get("/professors", h.handleListProfessors)
		api.Get("/professors/{name}", h.handleProfile)
		api.Get("/search", h.handleSearch)
		api.Delete("/reviews/{id}", h.handleDeleteReview)

		api.Group(func(write chi.Router) {
			write.Use(middleware.RateLimit(h.limiter, h.logger))
			write.Post("/professors/{name}/reviews", h.handleSubmitReview)
			write.Post("/check-privacy-risk", h.handleCheckRisk)
		})
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check failed", "component", name, "error", err)
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"failed": name,
			})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	totals, err := h.svc.Summary(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{
		"professors": totals.Professors,
		"schools":    totals.Schools,
		"reviews":    totals.Reviews,
	})
}

func (h *Handler) handleListProfessors(w http.ResponseWriter, r *http.Request) {
	names, err := h.svc.ListProfessors(r.Context(), r.URL.Query().Get("school"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"professors": names})
}

func (h *Handler) handleListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := h.svc.ListSchools(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string][]string{"schools": schools})
}

func (h *Handler) handleProfile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	profile, err := h.svc.ProfessorProfile(r.Context(), name, r.URL.Query().Get("school"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.SearchProfessors(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	review, err := h.svc.SubmitReview(r.Context(), chi.URLParam(r, "name"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, review)
}

type checkRiskRequest struct {
	ReviewText string `json:"review_text"`
}

type checkRiskResponse struct {
	OriginalText       string   `json:"original_text"`
	RephrasedText      string   `json:"rephrased_text"`
	RiskLevel          string   `json:"risk_level"`
	DetectedCategories []string `json:"detected_categories"`
	Note               string   `json:"note,omitempty"`
}

func (h *Handler) handleCheckRisk(w http.ResponseWriter, r *http.Request) {
	var req checkRiskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	assessment := h.svc.CheckPrivacyRisk(r.Context(), req.ReviewText)

	categories := make([]string, 0, len(assessment.DetectorHits))
	for _, cat := range assessment.DetectorHits {
		categories = append(categories, string(cat))
	}
	httputil.WriteJSON(w, http.StatusOK, checkRiskResponse{
		OriginalText:       assessment.OriginalText,
		RephrasedText:      assessment.RephrasedText,
		RiskLevel:          string(assessment.Level),
		DetectedCategories: categories,
		Note:               assessment.Note,
	})
}

func (h *Handler) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid review id"))
		return
	}

	if err := h.svc.DeleteReview(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if dErrors.GetCode(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}
