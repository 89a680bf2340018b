package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/upb/psp-router/services/failuremodel"
	"go.uber.org/zap"
)

type calibrateOptions struct {
	amount   float64
	latency  float64
	baseFail float64
	draws    int
	seed     uint64
}

func newCalibrateCmd(root *rootOptions) *cobra.Command {
	opts := &calibrateOptions{}

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Compare the failure model with the empirical failure rate of its draws",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runCalibrate(cmd.OutOrStdout(), opts, logger)
		},
	}

	cmd.Flags().Float64Var(&opts.amount, "amount", 100, "Transaction amount")
	cmd.Flags().Float64Var(&opts.latency, "latency", 50, "Network latency in milliseconds")
	cmd.Flags().Float64Var(&opts.baseFail, "base-fail", failuremodel.DefaultBaseline, "Baseline failure rate")
	cmd.Flags().IntVar(&opts.draws, "draws", 100000, "Number of outcomes to draw")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (0 for a random seed)")
	return cmd
}

func runCalibrate(out io.Writer, opts *calibrateOptions, logger *zap.Logger) error {
	params := failuremodel.DefaultParameters()
	params.Baseline = opts.baseFail
	if err := params.Validate(); err != nil {
		return err
	}

	model := failuremodel.New(params, failuremodel.NewRandomSource(opts.seed))
	cal, err := model.Calibrate(opts.amount, opts.latency, opts.draws)
	if err != nil {
		return err
	}

	logger.Debug("calibration finished",
		zap.Int("draws", cal.Draws),
		zap.Int("failures", cal.Failures))

	fmt.Fprintf(out, "model probability: %.4f\n", cal.Probability)
	fmt.Fprintf(out, "empirical rate:    %.4f (%d/%d)\n", cal.Rate, cal.Failures, cal.Draws)
	fmt.Fprintf(out, "standard error:    %.4f\n", cal.StdErr)
	if !cal.WithinSigma(4) {
		fmt.Fprintln(out, "warning: empirical rate is more than 4 standard deviations from the model")
	}
	return nil
}
