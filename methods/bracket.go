package methods

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind"
)

// Bisect finds a root of f in [a, b] by halving the bracket until its width
// is at most the tolerance. f(a) and f(b) must have opposite signs. Each step
// halves the error exactly.
func Bisect(f *rootfind.Expr, a, b float64, cfg Config) (Result[BracketStep], error) {
	return bracket(MethodBisection, f, a, b, cfg, midpoint)
}

// FalsePosition finds a root of f in [a, b] by replacing a bracket endpoint
// with the intersection of the secant through both endpoints. f(a) and f(b)
// must have opposite signs. The error is the bracket width, which may stay
// large when one endpoint never moves.
func FalsePosition(f *rootfind.Expr, a, b float64, cfg Config) (Result[BracketStep], error) {
	return bracket(MethodFalsePosition, f, a, b, cfg, secant)
}

func midpoint(a, b, fa, fb float64) float64 {
	return (a + b) / 2
}

func secant(a, b, fa, fb float64) float64 {
	return (a*fb - b*fa) / (fb - fa)
}

// closer returns the bracket endpoint at which f is nearer zero, with its
// value. It is the estimate reported when a run stops early.
func closer(a, b, fa, fb float64) (float64, float64) {
	if math.Abs(fb) < math.Abs(fa) {
		return b, fb
	}
	return a, fa
}

// opposite reports whether x and y are nonzero with opposite signs. It avoids
// the product, which can underflow to zero.
func opposite(x, y float64) bool {
	return x != 0 && y != 0 && (x < 0) != (y < 0)
}

// bracket runs a bracketing method that picks each interior point with next.
func bracket(m Method, f *rootfind.Expr, a, b float64, cfg Config, next func(a, b, fa, fb float64) float64) (Result[BracketStep], error) {
	start := time.Now()
	res := Result[BracketStep]{Value: math.NaN(), Status: InvalidInput}
	if err := cfg.Validate(); err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Err: err}
	}
	if !finite(a) || !finite(b) {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "bracket endpoints must be finite"}
	}
	if a > b {
		a, b = b, a
	}
	fa, err := cfg.at(f, a)
	if err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "f(a) is undefined", Err: err}
	}
	fb, err := cfg.at(f, b)
	if err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "f(b) is undefined", Err: err}
	}
	if !opposite(fa, fb) {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "f(a) and f(b) must have opposite signs"}
	}
	log := cfg.logger().With(zap.Stringer("method", m))
	width := b - a
	c, fc := a, fa
	for width > cfg.Tolerance && res.Iterations < cfg.MaxIter {
		c = next(a, b, fa, fb)
		if !finite(c) {
			res.Root, res.Value = closer(a, b, fa, fb)
			res.Error = width
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: res.Iterations + 1, Reason: "interior point overflowed"}
		}
		fc, err = cfg.at(f, c)
		if err != nil {
			res.Root, res.Value = closer(a, b, fa, fb)
			res.Error = width
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: res.Iterations + 1, Reason: "f(c) is undefined", Err: err}
		}
		res.Iterations++
		s := BracketStep{Iteration: res.Iterations, A: a, B: b, C: c, FA: fa, FB: fb, FC: fc, Error: width}
		res.Steps = append(res.Steps, s)
		log.Debug("step",
			zap.Int("iteration", s.Iteration),
			zap.Float64("a", a),
			zap.Float64("b", b),
			zap.Float64("c", c),
			zap.Float64("fc", fc),
			zap.Float64("error", width),
		)
		if fc == 0 {
			// Exact root.
			width = 0
			break
		}
		if opposite(fa, fc) {
			b, fb = c, fc
		} else {
			a, fa = c, fc
		}
		width = b - a
	}
	if res.Iterations == 0 {
		// The bracket was already within tolerance.
		c = next(a, b, fa, fb)
		if fc, err = cfg.at(f, c); err != nil {
			res.Root, res.Value = closer(a, b, fa, fb)
			res.Error = width
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Reason: "f(c) is undefined", Err: err}
		}
	}
	res.Root, res.Value, res.Error = c, fc, width
	res.Status = IterationCapReached
	if width <= cfg.Tolerance {
		res.Status = Converged
	}
	summarize(log, res.Status, res.Root, res.Iterations, res.Error, start)
	return res, nil
}

// summarize logs the outcome of a run.
func summarize(log *zap.Logger, s Status, root float64, iters int, e float64, start time.Time) {
	log.Info("run finished",
		zap.Stringer("status", s),
		zap.Float64("root", root),
		zap.Int("iterations", iters),
		zap.Float64("error", e),
		zap.Duration("elapsed", time.Since(start)),
	)
}
