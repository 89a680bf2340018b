// Package failuremodel simulates how a PSP fails.
//
// The probability that a PSP declines a transaction grows linearly with the
// amount and the network latency on top of a per-PSP baseline:
//
//	p = baseline + kAmount*amount + kLatency*(latencyMs/100)
//
// The result is not clamped. Realistic inputs keep it inside [0,1]; extreme
// inputs can leave that range and are reported as computed. Sampling is
// well-defined for any real p: p >= 1 always fails and p < 0 never does.
package failuremodel

import (
	"fmt"
	"math"

	"github.com/upb/psp-router/models"
)

const (
	// DefaultBaseline is the failure rate with no feature contribution
	DefaultBaseline = 0.03

	// DefaultAmountSensitivity is the probability added per unit of amount
	DefaultAmountSensitivity = 0.0001

	// DefaultLatencySensitivity is the probability added per 100ms of latency
	DefaultLatencySensitivity = 0.001

	latencyUnitMs = 100.0
)

// Parameters calibrate a Model. They are fixed for the lifetime of the model.
type Parameters struct {
	Baseline           float64
	AmountSensitivity  float64
	LatencySensitivity float64
}

// DefaultParameters returns the reference calibration
func DefaultParameters() Parameters {
	return Parameters{
		Baseline:           DefaultBaseline,
		AmountSensitivity:  DefaultAmountSensitivity,
		LatencySensitivity: DefaultLatencySensitivity,
	}
}

// Validate rejects calibrations that would make the probability decrease with
// amount or latency, or start below zero.
func (p Parameters) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"baseline", p.Baseline},
		{"amount sensitivity", p.AmountSensitivity},
		{"latency sensitivity", p.LatencySensitivity},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be a finite number", f.name)
		}
		if f.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %v", f.name, f.value)
		}
	}
	return nil
}

// Model computes failure probabilities and draws outcomes from them.
// It is safe for concurrent use when its RandomSource is.
type Model struct {
	params Parameters
	source RandomSource
}

// New creates a model. A nil source uses NewRandomSource(0).
func New(params Parameters, source RandomSource) *Model {
	if source == nil {
		source = NewRandomSource(0)
	}
	return &Model{
		params: params,
		source: source,
	}
}

// Parameters returns the model calibration
func (m *Model) Parameters() Parameters {
	return m.params
}

// Probability returns the failure probability for the given features
func (m *Model) Probability(amount, latencyMs float64) float64 {
	return m.params.Baseline +
		m.params.AmountSensitivity*amount +
		m.params.LatencySensitivity*(latencyMs/latencyUnitMs)
}

// SampleOutcome draws one outcome: failure when U <= p for U uniform in [0,1)
func (m *Model) SampleOutcome(p float64) models.PaymentStatus {
	if m.source.Float64() <= p {
		return models.PaymentStatusFailure
	}
	return models.PaymentStatusSuccess
}

// Simulate processes a transaction the way a PSP would, returning the drawn
// outcome and the probability it was drawn from.
func (m *Model) Simulate(txn models.Transaction) models.ProviderResponse {
	p := m.Probability(txn.Amount, txn.NetworkLatencyMs)
	reported := Round4(p)

	return models.ProviderResponse{
		TxnID:              txn.ID,
		Status:             m.SampleOutcome(p),
		FailureProbability: &reported,
	}
}

// Round4 rounds a probability to 4 decimal digits for reporting
func Round4(p float64) float64 {
	return math.Round(p*1e4) / 1e4
}
