// Package stats turns a professor's review set into released statistics.
// Every read recomputes from the store and draws fresh noise; nothing is
// cached, so two views of the same data may legitimately differ.
package stats

import (
	"math"

	"profreview/internal/privacy/noise"
	"profreview/internal/review/models"
)

// ReleaseBudget holds the per-statistic epsilons. Each release spends its
// epsilon independently with no accounting of cumulative loss across the four
// statistics or across requests. A budget accountant would replace this
// struct; the mechanism itself would not change.
type ReleaseBudget struct {
	Rating         float64
	Difficulty     float64
	Helpfulness    float64
	WouldTakeAgain float64
}

func DefaultBudget() ReleaseBudget {
	return ReleaseBudget{Rating: 1.0, Difficulty: 1.0, Helpfulness: 1.0, WouldTakeAgain: 1.0}
}

// ProfessorStatistics is what profile and search pages render. The review
// count is exact; the four statistics are noisy and the unperturbed values
// never leave this package.
type ProfessorStatistics struct {
	ReviewCount           int     `json:"review_count"`
	AverageRating         float64 `json:"average_rating"`
	AverageDifficulty     float64 `json:"average_difficulty"`
	AverageHelpfulness    float64 `json:"average_helpfulness"`
	WouldTakeAgainPercent float64 `json:"would_take_again_percent"`
}

type Releaser struct {
	mech   *noise.Mechanism
	budget ReleaseBudget
}

func NewReleaser(mech *noise.Mechanism, budget ReleaseBudget) *Releaser {
	return &Releaser{mech: mech, budget: budget}
}

// Release computes the four noisy statistics for one professor's reviews.
// An empty set short-circuits to zero statistics without touching the
// mechanism.
//
// Rating and difficulty releases are unclamped while helpfulness is clamped;
// the asymmetry is deliberate and mirrors the distinct call sites' ranges.
func (rel *Releaser) Release(reviews []*models.Review) (ProfessorStatistics, error) {
	out := ProfessorStatistics{ReviewCount: len(reviews)}
	if len(reviews) == 0 {
		return out, nil
	}

	ratings := make([]float64, len(reviews))
	difficulties := make([]float64, len(reviews))
	helpfulness := make([]float64, len(reviews))
	wouldTakeAgain := 0
	for i, r := range reviews {
		ratings[i] = r.StarRating
		difficulties[i] = float64(r.Difficulty)
		helpfulness[i] = float64(r.HelpUseful)
		if r.WouldTakeAgain {
			wouldTakeAgain++
		}
	}

	var err error
	out.AverageRating, _, err = rel.mech.NoisyBoundedAverage(
		ratings, models.RatingMin, models.RatingMax, rel.budget.Rating)
	if err != nil {
		return ProfessorStatistics{}, err
	}

	out.AverageDifficulty, _, err = rel.mech.NoisyBoundedAverage(
		difficulties, models.DifficultyMin, models.DifficultyMax, rel.budget.Difficulty)
	if err != nil {
		return ProfessorStatistics{}, err
	}

	out.AverageHelpfulness, _, err = rel.mech.NoisyBoundedAverageClamped(
		helpfulness, models.HelpUsefulMin, models.HelpUsefulMax, rel.budget.Helpfulness)
	if err != nil {
		return ProfessorStatistics{}, err
	}

	noisyYes, err := rel.mech.NoisyCount(wouldTakeAgain, rel.budget.WouldTakeAgain)
	if err != nil {
		return ProfessorStatistics{}, err
	}
	percent := math.Max(0, noisyYes) / float64(len(reviews)) * 100
	out.WouldTakeAgainPercent = math.Min(100, math.Max(0, percent))

	return out, nil
}
