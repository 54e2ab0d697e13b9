// Package batch runs the requests of a job concurrently and reruns jobs when
// their files change.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/rootfind/internal/config"
	"github.com/zephyrtronium/rootfind/internal/metrics"
	"github.com/zephyrtronium/rootfind/methods"
)

// Runner executes jobs.
type Runner struct {
	// Workers is the number of runs executing at once. Values below 1 mean 1.
	Workers int
	// Config holds the defaults for every run.
	Config methods.Config
	// Metrics records each run if it is not nil.
	Metrics *metrics.Metrics
	// Logger receives a summary per job. Each run logs through a child
	// carrying its ID.
	Logger *zap.Logger
}

// Run executes every request in the job and returns their reports in the
// job's order. Each report has a new ID. Failed runs are reported, not
// returned as errors; the error is non-nil only if ctx ends first.
func (r *Runner) Run(ctx context.Context, job *config.Job) ([]*methods.Report, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	reps := make([]*methods.Report, len(job.Runs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for i, req := range job.Runs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			id := uuid.NewString()
			cfg := r.Config
			cfg.Logger = log.With(zap.String("run_id", id), zap.Int("run", i+1))
			t := time.Now()
			rep, _ := req.Run(cfg)
			if r.Metrics != nil {
				r.Metrics.ObserveRun(rep, time.Since(t))
			}
			rep.ID = id
			reps[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Info("job finished",
		zap.Int("runs", len(reps)),
		zap.Int("converged", count(reps, methods.Converged)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return reps, nil
}

func count(reps []*methods.Report, s methods.Status) int {
	n := 0
	for _, rep := range reps {
		if rep.Status == s {
			n++
		}
	}
	return n
}
