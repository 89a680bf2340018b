package providers

import (
	"context"

	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/services/failuremodel"
)

// SimulatedProvider settles transactions in-process with a failure model.
// It lets the router run without any PSP deployed.
type SimulatedProvider struct {
	name  string
	model *failuremodel.Model
}

// NewSimulatedProvider creates an in-process PSP
func NewSimulatedProvider(name string, model *failuremodel.Model) *SimulatedProvider {
	return &SimulatedProvider{
		name:  name,
		model: model,
	}
}

// Name returns the PSP name
func (p *SimulatedProvider) Name() string {
	return p.name
}

// Process draws an outcome for txn
func (p *SimulatedProvider) Process(ctx context.Context, txn models.Transaction) (models.ProviderResponse, error) {
	if err := ctx.Err(); err != nil {
		return models.ProviderResponse{}, NewProviderError(p.name, CodeRequestError, "dispatch cancelled", 0, err)
	}
	return p.model.Simulate(txn), nil
}
