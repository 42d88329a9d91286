package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"profreview/internal/review/models"
	"profreview/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for tests and demo mode.
type InMemory struct {
	mu      sync.RWMutex
	reviews map[uuid.UUID]models.Review
}

func NewInMemory() *InMemory {
	return &InMemory{reviews: make(map[uuid.UUID]models.Review)}
}

func (s *InMemory) Create(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reviews[r.ID]; exists {
		return sentinel.ErrConflict
	}
	s.reviews[r.ID] = *r
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemory) Filter(_ context.Context, f Filter) ([]*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Review
	for _, r := range s.reviews {
		if !strings.EqualFold(r.ProfessorName, f.ProfessorName) {
			continue
		}
		if f.SchoolName != "" && !strings.EqualFold(r.SchoolName, f.SchoolName) {
			continue
		}
		cp := r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *InMemory) DistinctProfessors(_ context.Context, school string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, r := range s.reviews {
		if school != "" && !strings.EqualFold(r.SchoolName, school) {
			continue
		}
		set[r.ProfessorName] = struct{}{}
	}
	return sortedKeys(set), nil
}

func (s *InMemory) DistinctSchools(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, r := range s.reviews {
		set[r.SchoolName] = struct{}{}
	}
	return sortedKeys(set), nil
}

func (s *InMemory) DistinctCourses(_ context.Context, professor string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]struct{})
	for _, r := range s.reviews {
		if strings.EqualFold(r.ProfessorName, professor) {
			set[r.Course] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (s *InMemory) SearchProfessors(_ context.Context, query string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	set := make(map[string]struct{})
	for _, r := range s.reviews {
		if strings.Contains(strings.ToLower(r.ProfessorName), q) {
			set[r.ProfessorName] = struct{}{}
		}
	}
	return sortedKeys(set), nil
}

func (s *InMemory) Totals(_ context.Context) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	profs := make(map[string]struct{})
	schools := make(map[string]struct{})
	for _, r := range s.reviews {
		profs[r.ProfessorName] = struct{}{}
		schools[r.SchoolName] = struct{}{}
	}
	return Totals{
		Professors: len(profs),
		Schools:    len(schools),
		Reviews:    len(s.reviews),
	}, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
