package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sydneyshavalier/grad-md-codes/pkg/cfg"
)

var (
	logger  *zap.Logger
	verbose bool
	step    int
)

var rootCmd = &cobra.Command{
	Use:   "hbondr <config>",
	Short: "Average number of hydrogen bonds per molecule as a function of r",
	Long: `hbondr reads the configuration file given in argument, scans the
trajectory it names and writes <trajectory>.hbondr after every frame. The
file holds the average number of hydrogen bonds of the molecules of the
first selection, binned by the distance of their center of mass to the
origin.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every frame")
	rootCmd.Flags().IntVar(&step, "step", 0, "stride between two frames (overrides the configuration)")
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Info("Reading configuration file", zap.String("path", args[0]))
	c, err := cfg.New(args[0])
	if err != nil {
		return fmt.Errorf("newInput: %w", err)
	}
	if step > 0 {
		c.Step = step
	}

	logger.Info("Calculating the number of hydrogen bonds per molecule", zap.String("traj", c.Traj))
	a, err := c.HBondR(ctx, logger)
	if err != nil {
		return err
	}

	logger.Info("Done", zap.String("out", a.Out), zap.Int("frames", a.Processed))
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
