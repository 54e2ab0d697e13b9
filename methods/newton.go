package methods

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind"
)

// Newton finds a root of f from x0 by the Newton-Raphson iteration
// x1 = x0 - f(x0)/f'(x0), with f' computed symbolically. The error of each
// step is |x1 - x0|. A zero derivative stops the run as Diverged unless f is
// also zero there.
func Newton(f *rootfind.Expr, x0 float64, cfg Config) (Result[NewtonStep], error) {
	const m = MethodNewton
	start := time.Now()
	res := Result[NewtonStep]{Value: math.NaN(), Status: InvalidInput}
	df, err := rootfind.Derivative(f, "")
	if err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "cannot differentiate f", Err: err}
	}
	if err := check(m, cfg, x0); err != nil {
		return res, err
	}
	log := cfg.logger().With(zap.Stringer("method", m))
	x := x0
	for res.Iterations == 0 || (res.Error > cfg.Tolerance && res.Iterations < cfg.MaxIter) {
		it := res.Iterations + 1
		fx, dfx, err := values(cfg, x, f, df)
		if err != nil {
			return stopped(res, m, it, "f or f' is undefined", err)
		}
		res.Root, res.Value = x, fx
		var x1 float64
		switch {
		case dfx != 0:
			x1 = x - fx/dfx
		case fx == 0:
			// x is a root at which the step is zero.
			x1 = x
		default:
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "derivative is zero"}
		}
		if !finite(x1) {
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "iterate overflowed"}
		}
		e := math.Abs(x1 - x)
		res.Iterations = it
		res.Error = e
		res.Steps = append(res.Steps, NewtonStep{Iteration: it, X: x, FX: fx, DFX: dfx, Next: x1, Error: e})
		log.Debug("step",
			zap.Int("iteration", it),
			zap.Float64("x", x),
			zap.Float64("fx", fx),
			zap.Float64("dfx", dfx),
			zap.Float64("next", x1),
			zap.Float64("error", e),
		)
		x = x1
	}
	return finish(res, m, cfg, f, x, log, start)
}

// ModifiedNewton finds a root of f from x0 by Newton's method applied to
// f/f', which has only simple roots:
//
//	x1 = x0 - f(x0) f'(x0) / (f'(x0)^2 - f(x0) f''(x0))
//
// Unlike Newton, it converges quickly to roots of any multiplicity. When the
// denominator is smaller than DenominatorGuard in magnitude, the run stops as
// Diverged unless the numerator is also below the guard and f is within the
// tolerance of zero, in which case x0 is taken as the root.
func ModifiedNewton(f *rootfind.Expr, x0 float64, cfg Config) (Result[ModifiedNewtonStep], error) {
	const m = MethodModifiedNewton
	start := time.Now()
	res := Result[ModifiedNewtonStep]{Value: math.NaN(), Status: InvalidInput}
	df, d2f, err := rootfind.Derivative2(f, "")
	if err != nil {
		return res, &RunError{Method: m, Status: InvalidInput, Reason: "cannot differentiate f", Err: err}
	}
	if err := check(m, cfg, x0); err != nil {
		return res, err
	}
	log := cfg.logger().With(zap.Stringer("method", m))
	x := x0
	for res.Iterations == 0 || (res.Error > cfg.Tolerance && res.Iterations < cfg.MaxIter) {
		it := res.Iterations + 1
		fx, dfx, err := values(cfg, x, f, df)
		if err != nil {
			return stopped(res, m, it, "f or f' is undefined", err)
		}
		res.Root, res.Value = x, fx
		d2fx, err := cfg.at(d2f, x)
		if err != nil {
			return stopped(res, m, it, "f'' is undefined", err)
		}
		num := fx * dfx
		den := dfx*dfx - fx*d2fx
		var x1 float64
		switch {
		case math.Abs(den) >= DenominatorGuard:
			x1 = x - num/den
		case math.Abs(num) < DenominatorGuard && math.Abs(fx) <= cfg.Tolerance:
			// f and f' both vanish at working precision.
			x1 = x
		default:
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "denominator below guard"}
		}
		if !finite(x1) {
			res.Status = Diverged
			return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: "iterate overflowed"}
		}
		e := math.Abs(x1 - x)
		res.Iterations = it
		res.Error = e
		res.Steps = append(res.Steps, ModifiedNewtonStep{Iteration: it, X: x, FX: fx, DFX: dfx, D2FX: d2fx, Next: x1, Error: e})
		log.Debug("step",
			zap.Int("iteration", it),
			zap.Float64("x", x),
			zap.Float64("fx", fx),
			zap.Float64("dfx", dfx),
			zap.Float64("d2fx", d2fx),
			zap.Float64("next", x1),
			zap.Float64("error", e),
		)
		x = x1
	}
	return finish(res, m, cfg, f, x, log, start)
}

// check validates the inputs shared by the Newton methods.
func check(m Method, cfg Config, x0 float64) error {
	if err := cfg.Validate(); err != nil {
		return &RunError{Method: m, Status: InvalidInput, Err: err}
	}
	if !finite(x0) {
		return &RunError{Method: m, Status: InvalidInput, Reason: "initial value must be finite"}
	}
	return nil
}

// values evaluates f and its derivative at x.
func values(cfg Config, x float64, f, df *rootfind.Expr) (fx, dfx float64, err error) {
	if fx, err = cfg.at(f, x); err != nil {
		return 0, 0, err
	}
	if dfx, err = cfg.at(df, x); err != nil {
		return 0, 0, err
	}
	return fx, dfx, nil
}

// stopped ends a run whose functions could not be evaluated at iteration it.
// At the first iteration this is a problem with the initial value. Otherwise
// res.Root is left at the last iterate at which f was evaluated.
func stopped[S Step](res Result[S], m Method, it int, reason string, err error) (Result[S], error) {
	if it == 1 {
		res.Status = InvalidInput
		return res, &RunError{Method: m, Status: InvalidInput, Reason: reason + " at the initial value", Err: err}
	}
	res.Status = Diverged
	return res, &RunError{Method: m, Status: Diverged, Iteration: it, Reason: reason, Err: err}
}

// finish evaluates f at the final iterate and classifies the run.
func finish[S Step](res Result[S], m Method, cfg Config, f *rootfind.Expr, x float64, log *zap.Logger, start time.Time) (Result[S], error) {
	fx, err := cfg.at(f, x)
	if err != nil {
		res.Status = Diverged
		return res, &RunError{Method: m, Status: Diverged, Iteration: res.Iterations, Reason: "f is undefined at the final iterate", Err: err}
	}
	res.Root, res.Value = x, fx
	res.Status = IterationCapReached
	if res.Error <= cfg.Tolerance {
		res.Status = Converged
	}
	summarize(log, res.Status, res.Root, res.Iterations, res.Error, start)
	return res, nil
}
