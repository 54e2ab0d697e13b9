package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind/internal/batch"
	"github.com/zephyrtronium/rootfind/internal/config"
	"github.com/zephyrtronium/rootfind/methods"
)

var batchFlags struct {
	workers int
	watch   bool
}

var batchCmd = &cobra.Command{
	Use:   "batch job.yaml",
	Short: "Run every request in a job file",
	Long: `Run the requests in a YAML job file concurrently and print a summary, or
every report with --format json. With --watch, run the job again each time
the file changes until interrupted.

Job files look like:

  defaults:
    tolerance: 1e-6
  runs:
    - method: newton
      f: x^2 - 3
      x0: 1
    - method: bisection
      f: x^2 - 3
      a: 1
      b: 2`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&batchFlags.workers, "workers", 0, "runs at once (default from ROOTFIND_WORKERS)")
	batchCmd.Flags().BoolVar(&batchFlags.watch, "watch", false, "run again when the file changes")
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := &batch.Runner{
		Workers: cfg.Workers,
		Config:  cfg.Methods(),
		Logger:  logger,
	}
	if batchFlags.workers > 0 {
		r.Workers = batchFlags.workers
	}
	path := args[0]
	var mu sync.Mutex
	run := func() ([]*methods.Report, error) {
		mu.Lock()
		defer mu.Unlock()
		job, err := config.LoadJob(path)
		if err != nil {
			return nil, err
		}
		reps, err := r.Run(ctx, job)
		if err != nil {
			return nil, err
		}
		return reps, writeSummary(cmd.OutOrStdout(), reps)
	}

	if !batchFlags.watch {
		reps, err := run()
		if err != nil {
			return err
		}
		if n := failures(reps); n > 0 {
			return fmt.Errorf("%d of %d runs failed", n, len(reps))
		}
		return nil
	}
	if _, err := run(); err != nil {
		logger.Error("job failed", zap.String("path", path), zap.Error(err))
	}
	w, err := batch.NewWatcher(path, batch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	return w.Watch(ctx, func() error {
		fmt.Fprintln(cmd.ErrOrStderr(), "rerunning", path)
		_, err := run()
		return err
	})
}

// cmdContext returns the command's context, which is nil unless the command
// was executed with one.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// failures counts the reports without an estimate.
func failures(reps []*methods.Report) int {
	n := 0
	for _, rep := range reps {
		if !rep.Status.OK() {
			n++
		}
	}
	return n
}
