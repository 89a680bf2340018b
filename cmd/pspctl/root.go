package main

import (
	"github.com/spf13/cobra"
	"github.com/upb/psp-router/config"
	"github.com/upb/psp-router/internal/observability"
	"go.uber.org/zap"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "pspctl",
		Short:        "Synthetic data and calibration tools for PSP routing",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newCalibrateCmd(opts))
	return cmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	return observability.NewLogger(config.ObservabilityConfig{LogLevel: o.logLevel, LogFormat: "console"}, "pspctl")
}
