// Package models holds the review record and its value constraints.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Bounds for the numeric review fields. The statistics releaser uses the same
// bounds as query sensitivity inputs, so they live here rather than in config.
const (
	RatingMin     = 0.0
	RatingMax     = 5.0
	DifficultyMin = 1
	DifficultyMax = 5
	HelpUsefulMin = 1
	HelpUsefulMax = 10
)

// Review is immutable once created except for full deletion. Comments holds
// the sanitized text only; raw submissions never reach a store.
type Review struct {
	ID             uuid.UUID `json:"id"`
	ProfessorName  string    `json:"professor_name"`
	SchoolName     string    `json:"school_name"`
	DepartmentName string    `json:"department_name"`
	Course         string    `json:"course"`
	StarRating     float64   `json:"star_rating"`
	Difficulty     int       `json:"difficulty"`
	HelpUseful     int       `json:"help_useful"`
	WouldTakeAgain bool      `json:"would_take_again"`
	Comments       string    `json:"comments"`
	CreatedAt      time.Time `json:"created_at"`
}

// ClampHelpUseful pulls an out-of-range helpfulness score back into bounds.
// Parsed-but-out-of-range values are clamped rather than rejected.
func ClampHelpUseful(v int) int {
	if v < HelpUsefulMin {
		return HelpUsefulMin
	}
	if v > HelpUsefulMax {
		return HelpUsefulMax
	}
	return v
}
