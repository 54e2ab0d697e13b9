package methods

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind"
)

// FixedPoint finds a root of f by iterating x = g(x) from x0, where g is
// chosen so that its fixed points are roots of f. The error of each step is
// the distance between successive iterates. The run diverges if g or f has no
// value at an iterate; g must be defined at x0.
func FixedPoint(f, g *rootfind.Expr, x0 float64, cfg Config) (Result[FixedPointStep], error) {
	const m = MethodFixedPoint
	start := time.Now()
	res := Result[FixedPointStep]{Value: math.NaN(), Status: InvalidInput}
	if err := cfg.Validate(); err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Err: err}
	}
	if !finite(x0) {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "initial value must be finite"}
	}
	if _, err := cfg.at(g, x0); err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "g is undefined at the initial value", Err: err}
	}
	log := cfg.logger().With(zap.Stringer("method", m))
	x := x0
	res.Root = x0
	for {
		it := res.Iterations + 1
		x1, err := cfg.at(g, x)
		if err != nil {
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "g is undefined", Err: err}
		}
		e := math.Abs(x1 - x)
		if !finite(e) {
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "iterates overflowed"}
		}
		fx, err := cfg.at(f, x1)
		if err != nil {
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "f is undefined", Err: err}
		}
		res.Iterations = it
		res.Steps = append(res.Steps, FixedPointStep{Iteration: it, X: x, GX: x1, FX: fx, Error: e})
		log.Debug("step",
			zap.Int("iteration", it),
			zap.Float64("x", x),
			zap.Float64("gx", x1),
			zap.Float64("fx", fx),
			zap.Float64("error", e),
		)
		x = x1
		res.Root, res.Value, res.Error = x1, fx, e
		if e <= cfg.Tolerance || it >= cfg.MaxIter {
			break
		}
	}
	res.Status = IterationCapReached
	if res.Error <= cfg.Tolerance {
		res.Status = Converged
	}
	summarize(log, res.Status, res.Root, res.Iterations, res.Error, start)
	return res, nil
}
