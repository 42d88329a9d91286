package noise

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type LaplaceSuite struct {
	suite.Suite
}

func TestLaplaceSuite(t *testing.T) {
	suite.Run(t, new(LaplaceSuite))
}

func (s *LaplaceSuite) TestEmptyInputShortCircuits() {
	m := NewSeeded(1)
	noisy, exact, err := m.NoisyBoundedAverage(nil, 0, 5, 1.0)
	s.Require().NoError(err)
	s.Zero(noisy)
	s.Zero(exact)

	noisy, exact, err = m.NoisyBoundedAverageClamped([]float64{}, 1, 10, 1.0)
	s.Require().NoError(err)
	s.Zero(noisy)
	s.Zero(exact)
}

func (s *LaplaceSuite) TestArgumentValidation() {
	m := NewSeeded(1)

	_, _, err := m.NoisyBoundedAverage([]float64{1}, 0, 5, 0)
	s.ErrorIs(err, ErrNonPositiveEpsilon)

	_, _, err = m.NoisyBoundedAverage([]float64{1}, 5, 5, 1.0)
	s.ErrorIs(err, ErrInvalidBounds)

	_, err = m.NoisyCount(3, -1)
	s.ErrorIs(err, ErrNonPositiveEpsilon)
}

// TestNoiseCenteredAtTrueAverage draws many releases and checks the noise is
// zero-mean with mean absolute deviation equal to the Laplace scale
// (b-a)/(n*epsilon). Statistical bounds, not single-sample equality.
func (s *LaplaceSuite) TestNoiseCenteredAtTrueAverage() {
	const (
		trials  = 20000
		epsilon = 1.0
	)
	values := []float64{2, 3, 4, 5} // n=4 over [0,5]
	wantScale := (5.0 - 0.0) / (4.0 * epsilon)

	m := NewSeeded(42)
	var sumDev, sumAbsDev float64
	for range trials {
		noisy, exact, err := m.NoisyBoundedAverage(values, 0, 5, epsilon)
		s.Require().NoError(err)
		s.InDelta(3.5, exact, 1e-12)
		dev := noisy - exact
		sumDev += dev
		sumAbsDev += math.Abs(dev)
	}

	meanDev := sumDev / trials
	meanAbsDev := sumAbsDev / trials

	// Laplace(b): E[X]=0, E|X|=b, sd=b*sqrt(2). Allow ~5 standard errors.
	s.InDelta(0, meanDev, 5*wantScale*math.Sqrt2/math.Sqrt(trials))
	s.InDelta(wantScale, meanAbsDev, 0.05*wantScale)
}

// TestCountSensitivityIndependentOfPopulation checks the count release uses
// scale 1/epsilon no matter how large the true count is.
func (s *LaplaceSuite) TestCountSensitivityIndependentOfPopulation() {
	const (
		trials  = 20000
		epsilon = 0.5
	)
	wantScale := 1.0 / epsilon

	for _, trueCount := range []int{1, 100, 1_000_000} {
		m := NewSeeded(7)
		var sumAbsDev float64
		for range trials {
			noisy, err := m.NoisyCount(trueCount, epsilon)
			s.Require().NoError(err)
			sumAbsDev += math.Abs(noisy - float64(trueCount))
		}
		s.InDelta(wantScale, sumAbsDev/trials, 0.05*wantScale,
			"scale should not depend on count %d", trueCount)
	}
}

func (s *LaplaceSuite) TestClampedStaysInRange() {
	m := NewSeeded(3)
	values := []float64{1, 1} // small n, large noise over [1,10]
	for range 5000 {
		noisy, _, err := m.NoisyBoundedAverageClamped(values, 1, 10, 0.1)
		s.Require().NoError(err)
		s.GreaterOrEqual(noisy, 1.0)
		s.LessOrEqual(noisy, 10.0)
	}
}

// TestUnclampedMayExceedRange pins the documented asymmetry: the plain average
// variant can legitimately release values outside [lower, upper].
func (s *LaplaceSuite) TestUnclampedMayExceedRange() {
	m := NewSeeded(3)
	values := []float64{5, 5, 5, 5}
	escaped := false
	for range 5000 {
		noisy, _, err := m.NoisyBoundedAverage(values, 0, 5, 0.1)
		s.Require().NoError(err)
		if noisy > 5 || noisy < 0 {
			escaped = true
			break
		}
	}
	s.True(escaped, "expected at least one release outside [0,5] at low epsilon")
}

// TestPerfectRatingsStayStatisticallyClose is the {5,5,5,5} scenario: each
// release differs from 5.0, distinct seeds give distinct releases, yet the
// aggregate over many trials stays near 5.0.
func (s *LaplaceSuite) TestPerfectRatingsStayStatisticallyClose() {
	values := []float64{5, 5, 5, 5}

	a, _, err := NewSeeded(1).NoisyBoundedAverage(values, 0, 5, 1.0)
	s.Require().NoError(err)
	b, _, err := NewSeeded(2).NoisyBoundedAverage(values, 0, 5, 1.0)
	s.Require().NoError(err)
	s.NotEqual(a, b, "distinct seeds should give distinct releases")
	s.NotEqual(5.0, a)

	const trials = 20000
	m := NewSeeded(99)
	var sum float64
	for range trials {
		noisy, _, err := m.NoisyBoundedAverage(values, 0, 5, 1.0)
		s.Require().NoError(err)
		sum += noisy
	}
	s.InDelta(5.0, sum/trials, 0.1)
}

func (s *LaplaceSuite) TestSeededMechanismIsReproducible() {
	values := []float64{1, 2, 3}
	a, _, err := NewSeeded(11).NoisyBoundedAverage(values, 0, 5, 1.0)
	s.Require().NoError(err)
	b, _, err := NewSeeded(11).NoisyBoundedAverage(values, 0, 5, 1.0)
	s.Require().NoError(err)
	s.Equal(a, b)
}
