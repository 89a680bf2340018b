package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/upb/psp-router/services/datagen"
	"go.uber.org/zap"
)

type generateOptions struct {
	rows int
	out  string
	seed uint64
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a labelled synthetic transaction dataset as CSV",
		Long: `Generate draws synthetic UPI transactions spread across Axis_PSP, HDFC_PSP
and SBI_PSP, labels each with an outcome drawn from its failure probability,
and writes them as CSV. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return runGenerate(cmd.OutOrStdout(), opts, logger)
		},
	}

	cmd.Flags().IntVarP(&opts.rows, "rows", "n", 20000, "Number of transactions to generate")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "transactions.csv", "Output file, or - for stdout")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Random seed (0 for a random seed)")
	return cmd
}

func runGenerate(stdout io.Writer, opts *generateOptions, logger *zap.Logger) error {
	if opts.rows <= 0 {
		return fmt.Errorf("--rows must be positive, got %d", opts.rows)
	}

	gen, err := datagen.NewGenerator(datagen.DefaultPSPs, opts.seed)
	if err != nil {
		return err
	}

	w := stdout
	if opts.out != "-" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}

	buf := bufio.NewWriter(w)
	if err := datagen.WriteCSV(buf, gen, opts.rows); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	logger.Info("dataset written",
		zap.String("out", opts.out),
		zap.Int("rows", opts.rows),
		zap.Uint64("seed", opts.seed))
	return nil
}
