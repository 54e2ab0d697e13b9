package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind/internal/config"
	"github.com/zephyrtronium/rootfind/internal/logging"
)

var rootFlags struct {
	format   string
	logLevel string
	logDev   bool
}

var (
	// cfg and logger are set before any subcommand runs.
	cfg    = config.Default()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "rootfind",
	Short: "Find roots of real functions",
	Long: `Rootfind finds roots of real functions of one variable by bisection, false
position, fixed point iteration, Newton's method, and Newton's method for
multiple roots. It prints the trace of every iteration along with the root.

Functions are written as ordinary expressions: x^2 - 3, 2x sin(x), exp(-x) - x.
Derivatives for Newton's methods are computed symbolically.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.format, "format", "text", "output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.logDev, "log-dev", false, "human-readable logs")
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	if rootFlags.format != formatText && rootFlags.format != formatJSON {
		return fmt.Errorf("unknown format %q", rootFlags.format)
	}
	c, err := config.Load()
	if err != nil {
		return err
	}
	if rootFlags.logLevel != "" {
		c.Level = rootFlags.logLevel
	}
	if rootFlags.logDev {
		c.Development = true
	}
	l, err := logging.New(c.Logging())
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	cfg, logger = c, l
	return nil
}
