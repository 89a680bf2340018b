package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/upb/psp-router/config"
	"github.com/upb/psp-router/services/failuremodel"
	"github.com/upb/psp-router/services/providers"
	"github.com/upb/psp-router/services/routing"
	"github.com/upb/psp-router/services/scorer"
	"go.uber.org/zap"
)

// Dependencies holds the router's wired components.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config    *config.Config
	Logger    *zap.Logger
	transport *http.Transport

	// Services
	Scorer    *scorer.Client
	Providers *providers.Registry
	Policy    *routing.Policy
	Routing   *routing.RoutingService
}

// NewDependencies creates and wires up all router dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:    cfg,
		Logger:    logger,
		transport: newTransport(),
	}

	deps.initScorer(cfg)

	if err := deps.initProviders(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize providers: %w", err)
	}

	deps.initRouting(cfg)

	logger.Info("all dependencies initialized successfully",
		zap.String("model_url", cfg.Scorer.URL),
		zap.Float64("risk_threshold", cfg.Routing.RiskThreshold),
		zap.Strings("providers", deps.Providers.List()))
	return deps, nil
}

// newTransport returns the connection pool shared by the scorer and PSP clients
func newTransport() *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

func (d *Dependencies) initScorer(cfg *config.Config) {
	httpClient := &http.Client{Transport: d.transport, Timeout: cfg.Scorer.Timeout}
	d.Scorer = scorer.NewClient(scorer.Config{
		URL:          cfg.Scorer.URL,
		Timeout:      cfg.Scorer.Timeout,
		DefaultScore: cfg.Scorer.DefaultScore,
	}, httpClient, d.Logger)
}

// initProviders registers every configured PSP
func (d *Dependencies) initProviders(cfg *config.Config) error {
	registry := providers.NewRegistry()

	for _, p := range cfg.Providers.List {
		provider, err := d.newProvider(cfg, p)
		if err != nil {
			return err
		}
		if err := registry.Register(provider); err != nil {
			return err
		}
		d.Logger.Info("provider registered",
			zap.String("provider", p.Name),
			zap.Bool("simulated", p.Simulated != nil),
			zap.String("endpoint", p.Endpoint))
	}

	if registry.Count() == 0 {
		d.Logger.Warn("no PSPs configured")
	}
	for _, name := range cfg.Routing.PreferenceOrder {
		if _, err := registry.Get(name); err != nil {
			d.Logger.Warn("preferred PSP is not configured", zap.String("provider", name))
		}
	}

	d.Providers = registry
	return nil
}

func (d *Dependencies) newProvider(cfg *config.Config, p config.ProviderConfig) (providers.Provider, error) {
	if p.Simulated != nil {
		seed := failuremodel.DeriveSeed(cfg.Simulator.Seed, p.Name)
		model, err := newModel(cfg.Simulator, p.Simulated.BaseFail, seed)
		if err != nil {
			return nil, fmt.Errorf("simulated PSP %q: %w", p.Name, err)
		}
		return providers.NewSimulatedProvider(p.Name, model), nil
	}

	timeout := cfg.Providers.TimeoutFor(p)
	return providers.NewHTTPProvider(providers.HTTPConfig{
		Name:     p.Name,
		Endpoint: p.Endpoint,
		Timeout:  timeout,
	}, &http.Client{Transport: d.transport, Timeout: timeout}), nil
}

func (d *Dependencies) initRouting(cfg *config.Config) {
	d.Policy = routing.NewPolicy(routing.PolicyConfig{
		RiskThreshold:   cfg.Routing.RiskThreshold,
		PreferenceOrder: cfg.Routing.PreferenceOrder,
	})
	d.Routing = routing.NewRoutingService(
		routing.ServiceConfig{DefaultProvider: cfg.Routing.DefaultProvider},
		d.Scorer,
		d.Policy,
		d.Providers,
		d.Logger,
	)
}

// Close releases pooled connections and flushes the logger
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	if d.transport != nil {
		d.transport.CloseIdleConnections()
	}

	// Sync logger
	_ = d.Logger.Sync()
	return nil
}

// SimulatorDependencies holds the PSP simulator's wired components
type SimulatorDependencies struct {
	Config *config.Config
	Logger *zap.Logger
	Model  *failuremodel.Model
}

// NewSimulatorDependencies wires the PSP simulator
func NewSimulatorDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*SimulatorDependencies, error) {
	model, err := newModel(cfg.Simulator, cfg.Simulator.BaseFail, cfg.Simulator.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize failure model: %w", err)
	}

	params := model.Parameters()
	logger.Info("failure model initialized",
		zap.Float64("base_fail", params.Baseline),
		zap.Float64("amount_sensitivity", params.AmountSensitivity),
		zap.Float64("latency_sensitivity", params.LatencySensitivity),
		zap.Bool("seeded", cfg.Simulator.Seed != 0))

	return &SimulatorDependencies{
		Config: cfg,
		Logger: logger,
		Model:  model,
	}, nil
}

// Close flushes the logger
func (d *SimulatorDependencies) Close(ctx context.Context) error {
	_ = d.Logger.Sync()
	return nil
}

func newModel(cfg config.SimulatorConfig, baseline float64, seed uint64) (*failuremodel.Model, error) {
	params := failuremodel.Parameters{
		Baseline:           baseline,
		AmountSensitivity:  cfg.AmountSensitivity,
		LatencySensitivity: cfg.LatencySensitivity,
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return failuremodel.New(params, failuremodel.NewRandomSource(seed)), nil
}
