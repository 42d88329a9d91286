// Package noise implements the Laplace mechanism for releasing statistics
// over a professor's review set without exposing exact aggregates.
//
// Every call spends its own epsilon independently; there is no cross-call
// budget ledger. See internal/stats.ReleaseBudget for where the per-statistic
// epsilons live.
package noise

import (
	"errors"
	"math"
	"math/rand/v2"
)

var (
	ErrNonPositiveEpsilon = errors.New("noise: epsilon must be positive")
	ErrInvalidBounds      = errors.New("noise: upper bound must exceed lower bound")
)

// Mechanism draws Laplace noise from a uniform source. The zero value is not
// usable; construct with New or NewSeeded.
type Mechanism struct {
	uniform func() float64 // uniform in [0, 1)
}

// New returns a Mechanism backed by the process-wide random source.
func New() *Mechanism {
	return &Mechanism{uniform: rand.Float64}
}

// NewSeeded returns a deterministic Mechanism for tests. Not safe for
// concurrent use.
func NewSeeded(seed uint64) *Mechanism {
	rng := rand.New(rand.NewPCG(seed, seed))
	return &Mechanism{uniform: rng.Float64}
}

// NoisyBoundedAverage releases the average of values known to lie in
// [lower, upper]. Sensitivity is (upper-lower)/n: replacing one record moves
// the mean by at most that much. The released value is NOT clamped back into
// [lower, upper]; with small n or small epsilon it can land outside the range.
// Callers that need a bounded release use NoisyBoundedAverageClamped.
//
// An empty slice returns (0, 0, nil): the sensitivity would divide by zero
// and there is nothing to protect.
func (m *Mechanism) NoisyBoundedAverage(values []float64, lower, upper, epsilon float64) (noisy, exact float64, err error) {
	if len(values) == 0 {
		return 0, 0, nil
	}
	if epsilon <= 0 {
		return 0, 0, ErrNonPositiveEpsilon
	}
	if upper <= lower {
		return 0, 0, ErrInvalidBounds
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	exact = sum / float64(len(values))

	sensitivity := (upper - lower) / float64(len(values))
	noisy = exact + m.laplace(sensitivity/epsilon)
	return noisy, exact, nil
}

// NoisyBoundedAverageClamped is NoisyBoundedAverage with the released value
// clamped into [lower, upper]. Kept as a separate operation rather than a
// flag: the two variants match distinct call sites with distinct ranges, and
// unifying them would change released statistics.
func (m *Mechanism) NoisyBoundedAverageClamped(values []float64, lower, upper, epsilon float64) (noisy, exact float64, err error) {
	noisy, exact, err = m.NoisyBoundedAverage(values, lower, upper, epsilon)
	if err != nil || len(values) == 0 {
		return noisy, exact, err
	}
	return clamp(noisy, lower, upper), exact, nil
}

// NoisyCount releases a count with sensitivity fixed at 1.0 regardless of the
// population size: one record's presence changes a count by at most one. The
// result is a real number; rounding and clamping to non-negative are caller
// responsibilities.
func (m *Mechanism) NoisyCount(trueCount int, epsilon float64) (float64, error) {
	if epsilon <= 0 {
		return 0, ErrNonPositiveEpsilon
	}
	return float64(trueCount) + m.laplace(1.0/epsilon), nil
}

// laplace draws one sample from a zero-mean Laplace distribution with the
// given scale, via inverse CDF: u uniform in (-0.5, 0.5], then
// -scale * sign(u) * ln(1 - 2|u|).
func (m *Mechanism) laplace(scale float64) float64 {
	u := 0.5 - m.uniform() // (-0.5, 0.5]
	sign := 1.0
	if u < 0 {
		sign = -1.0
	}
	return -scale * sign * math.Log(1-2*math.Abs(u))
}

func clamp(v, lower, upper float64) float64 {
	return math.Max(lower, math.Min(upper, v))
}
