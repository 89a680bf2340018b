package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/upb/psp-router/app"
	"github.com/upb/psp-router/config"
	"github.com/upb/psp-router/internal/observability"
	"github.com/upb/psp-router/internal/server"
	"github.com/upb/psp-router/routes"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "psp-sim: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewSimulator(ctx)
	if err != nil {
		return err
	}

	logger, err := observability.NewLogger(cfg.Observability, "psp-sim")
	if err != nil {
		return err
	}

	deps, err := app.NewSimulatorDependencies(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize dependencies", zap.Error(err))
		return err
	}
	defer func() { _ = deps.Close(context.Background()) }()

	return server.New(cfg.Server, routes.SetupSimulatorRoutes(deps), logger).Run(ctx)
}
