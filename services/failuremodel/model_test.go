package failuremodel

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/psp-router/models"
)

// fixedSource replays a fixed sequence of draws
type fixedSource struct {
	values []float64
	next   int
}

func (s *fixedSource) Float64() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestModel_Probability(t *testing.T) {
	model := New(DefaultParameters(), nil)

	tests := []struct {
		name      string
		amount    float64
		latencyMs float64
		want      float64
	}{
		{"reference example", 100, 50, 0.0405},
		{"baseline only", 0, 0, 0.03},
		{"default latency", 0, 100, 0.031},
		{"large amount", 5000, 100, 0.531},
		{"extreme amount exceeds one", 20000, 100, 2.031},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, model.Probability(tt.amount, tt.latencyMs), 1e-12)
		})
	}
}

func TestModel_ProbabilityIsMonotonic(t *testing.T) {
	model := New(Parameters{Baseline: 0.045, AmountSensitivity: 0.0001, LatencySensitivity: 0.001}, nil)

	prev := model.Probability(0, 150)
	for amount := 10.0; amount <= 10000; amount += 37 {
		p := model.Probability(amount, 150)
		assert.GreaterOrEqual(t, p, prev, "amount %v", amount)
		prev = p
	}

	prev = model.Probability(1200, 0)
	for latency := 5.0; latency <= 2000; latency += 13 {
		p := model.Probability(1200, latency)
		assert.GreaterOrEqual(t, p, prev, "latency %v", latency)
		prev = p
	}
}

func TestModel_SampleOutcome(t *testing.T) {
	t.Run("draw equal to probability fails", func(t *testing.T) {
		model := New(DefaultParameters(), &fixedSource{values: []float64{0.25}})
		assert.Equal(t, models.PaymentStatusFailure, model.SampleOutcome(0.25))
	})

	t.Run("draw above probability succeeds", func(t *testing.T) {
		model := New(DefaultParameters(), &fixedSource{values: []float64{0.2501}})
		assert.Equal(t, models.PaymentStatusSuccess, model.SampleOutcome(0.25))
	})

	t.Run("out of range probabilities", func(t *testing.T) {
		model := New(DefaultParameters(), &fixedSource{values: []float64{0, 0.5, 0.999999}})
		for i := 0; i < 3; i++ {
			assert.Equal(t, models.PaymentStatusFailure, model.SampleOutcome(1.7))
		}
		for i := 0; i < 3; i++ {
			assert.Equal(t, models.PaymentStatusSuccess, model.SampleOutcome(-0.2))
		}
	})
}

func TestModel_SampleOutcomeConverges(t *testing.T) {
	const draws = 200000

	for _, p := range []float64{0.0405, 0.3, 0.75} {
		model := New(DefaultParameters(), NewRandomSource(42))

		failures := 0
		for i := 0; i < draws; i++ {
			if model.SampleOutcome(p) == models.PaymentStatusFailure {
				failures++
			}
		}

		rate := float64(failures) / draws
		stdErr := math.Sqrt(p * (1 - p) / draws)
		assert.InDelta(t, p, rate, 4*stdErr, "p=%v", p)
	}
}

func TestModel_Simulate(t *testing.T) {
	model := New(Parameters{Baseline: 0.03, AmountSensitivity: 0.0001, LatencySensitivity: 0.001}, &fixedSource{values: []float64{0.99}})

	resp := model.Simulate(models.Transaction{ID: "txn-1", Amount: 123.45, NetworkLatencyMs: 77})

	assert.Equal(t, "txn-1", resp.TxnID)
	assert.Equal(t, models.PaymentStatusSuccess, resp.Status)
	require.NotNil(t, resp.FailureProbability)
	assert.Equal(t, 0.0431, *resp.FailureProbability)
	assert.False(t, resp.Failed())
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 0.0405, Round4(0.0405))
	assert.Equal(t, 0.1235, Round4(0.123456))
	assert.Equal(t, 2.031, Round4(2.031))
	assert.Equal(t, 0.0, Round4(0.00004))
}

func TestParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Parameters
		wantErr string
	}{
		{"defaults", DefaultParameters(), ""},
		{"zero baseline", Parameters{}, ""},
		{"negative baseline", Parameters{Baseline: -0.01}, "baseline must be non-negative"},
		{"negative amount sensitivity", Parameters{Baseline: 0.03, AmountSensitivity: -1}, "amount sensitivity"},
		{"nan latency sensitivity", Parameters{LatencySensitivity: math.NaN()}, "latency sensitivity must be a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewRandomSource(t *testing.T) {
	t.Run("seeded sources are reproducible", func(t *testing.T) {
		a := NewRandomSource(7)
		b := NewRandomSource(7)
		for i := 0; i < 10; i++ {
			assert.Equal(t, a.Float64(), b.Float64())
		}
	})

	t.Run("draws stay in the unit interval under concurrency", func(t *testing.T) {
		src := NewRandomSource(99)
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 1000; i++ {
					v := src.Float64()
					assert.True(t, v >= 0 && v < 1)
				}
			}()
		}
		wg.Wait()
	})
}

func TestDeriveSeed(t *testing.T) {
	assert.Zero(t, DeriveSeed(0, "Axis_PSP"))
	assert.Equal(t, DeriveSeed(42, "Axis_PSP"), DeriveSeed(42, "Axis_PSP"))
	assert.NotEqual(t, DeriveSeed(42, "Axis_PSP"), DeriveSeed(42, "HDFC_PSP"))
	assert.NotEqual(t, DeriveSeed(42, "Axis_PSP"), DeriveSeed(43, "Axis_PSP"))

	a := NewRandomSource(DeriveSeed(42, "Axis_PSP"))
	b := NewRandomSource(DeriveSeed(42, "HDFC_PSP"))
	same := 0
	for i := 0; i < 100; i++ {
		if a.Float64() == b.Float64() {
			same++
		}
	}
	assert.Less(t, same, 100)
}
