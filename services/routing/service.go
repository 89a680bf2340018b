// Package routing decides which PSP settles a transaction and dispatches it.
//
// A RoutingService runs one transaction through the pipeline:
//
//	assign id -> score risk -> apply policy -> dispatch to PSP -> result
//
// Scoring and dispatch failures never fail the request. A failed scorer call
// yields the default score; a failed dispatch is recorded in the result's
// provider response.
package routing

import (
	"context"
	"errors"

	"github.com/upb/psp-router/models"
	"github.com/upb/psp-router/services"
	"github.com/upb/psp-router/services/providers"
	"github.com/upb/psp-router/services/scorer"
	"go.uber.org/zap"
)

// Scorer predicts the failure risk of a transaction
type Scorer interface {
	Score(ctx context.Context, txn models.Transaction) scorer.Result
}

// ProviderLookup resolves a PSP name to a provider
type ProviderLookup interface {
	Get(name string) (providers.Provider, error)
}

// ServiceConfig holds configuration for the routing service
type ServiceConfig struct {
	// DefaultProvider is used when a transaction names no PSP
	DefaultProvider string

	// NewID generates transaction identifiers; defaults to models.NewTransactionID
	NewID func() string
}

// RoutingService routes transactions. It holds no per-transaction state and
// is safe for concurrent use.
type RoutingService struct {
	config    ServiceConfig
	scorer    Scorer
	policy    *Policy
	providers ProviderLookup
	logger    *zap.Logger
}

// NewRoutingService creates a new routing service
func NewRoutingService(cfg ServiceConfig, scorer Scorer, policy *Policy, lookup ProviderLookup, logger *zap.Logger) *RoutingService {
	if cfg.NewID == nil {
		cfg.NewID = models.NewTransactionID
	}
	return &RoutingService{
		config:    cfg,
		scorer:    scorer,
		policy:    policy,
		providers: lookup,
		logger:    logger,
	}
}

// Route scores, routes and dispatches one transaction. It always returns a
// complete result.
func (s *RoutingService) Route(ctx context.Context, txn models.Transaction) models.RoutingResult {
	txn = txn.WithID(s.config.NewID).WithDefaultProvider(s.config.DefaultProvider)

	score := s.scorer.Score(ctx, txn)
	decision := s.policy.Decide(score.Probability, txn.PSPCandidate)

	if decision.HighRisk {
		s.logger.Info("high risk transaction, routing to backup",
			zap.String("txn_id", txn.ID),
			zap.Float64("score", score.Probability),
			zap.Float64("threshold", s.policy.Threshold()),
			zap.String("initial_psp", decision.InitialProvider),
			zap.String("routed_to", decision.ChosenProvider))
	}

	response := s.dispatch(ctx, decision.ChosenProvider, txn)

	s.logger.Info("transaction routed",
		zap.String("txn_id", txn.ID),
		zap.Float64("predicted_fail_prob", score.Probability),
		zap.Bool("score_fallback", score.Fallback),
		zap.String("initial_psp", decision.InitialProvider),
		zap.String("routed_to", decision.ChosenProvider),
		zap.String("psp_status", string(response.Status)),
		zap.Bool("dispatch_failed", response.Failed()))

	return models.RoutingResult{
		TxnID:                       txn.ID,
		PredictedFailureProbability: score.Probability,
		ScoreFallback:               score.Fallback,
		InitialProvider:             decision.InitialProvider,
		ChosenProvider:              decision.ChosenProvider,
		ProviderResponse:            response,
	}
}

// Policy returns the routing policy in use
func (s *RoutingService) Policy() *Policy {
	return s.policy
}

// dispatch sends txn to the named PSP, folding any failure into the response
func (s *RoutingService) dispatch(ctx context.Context, name string, txn models.Transaction) models.ProviderResponse {
	provider, err := s.providers.Get(name)
	if err == nil {
		var resp models.ProviderResponse
		resp, err = provider.Process(ctx, txn)
		if err == nil {
			return resp
		}
	}

	if !errors.Is(err, services.ErrProviderUnavailable) {
		err = services.Wrap(services.ErrProviderUnavailable, err)
	}
	s.logger.Error("psp dispatch failed",
		zap.String("txn_id", txn.ID),
		zap.String("psp", name),
		zap.Error(err))
	return models.NewProviderErrorResponse(err)
}
