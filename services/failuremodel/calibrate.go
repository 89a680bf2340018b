package failuremodel

import (
	"fmt"
	"math"

	"github.com/upb/psp-router/models"
)

// Calibration compares the model probability with the empirical failure rate
// of repeated draws at fixed features
type Calibration struct {
	Probability float64
	Draws       int
	Failures    int
	Rate        float64
	StdErr      float64
}

// Calibrate draws n outcomes at the given features
func (m *Model) Calibrate(amount, latencyMs float64, n int) (Calibration, error) {
	if n <= 0 {
		return Calibration{}, fmt.Errorf("draws must be positive, got %d", n)
	}

	p := m.Probability(amount, latencyMs)
	failures := 0
	for i := 0; i < n; i++ {
		if m.SampleOutcome(p) == models.PaymentStatusFailure {
			failures++
		}
	}

	rate := float64(failures) / float64(n)
	return Calibration{
		Probability: p,
		Draws:       n,
		Failures:    failures,
		Rate:        rate,
		StdErr:      math.Sqrt(rate * (1 - rate) / float64(n)),
	}, nil
}

// WithinSigma reports whether the empirical rate lies within k binomial
// standard deviations of the model probability
func (c Calibration) WithinSigma(k float64) bool {
	p := math.Min(1, math.Max(0, c.Probability))
	sigma := math.Sqrt(p * (1 - p) / float64(c.Draws))
	return math.Abs(c.Rate-p) <= k*sigma
}
