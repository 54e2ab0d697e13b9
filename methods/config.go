package methods

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/zephyrtronium/rootfind"
)

const (
	// DefaultTolerance is the tolerance used when a Config has none.
	DefaultTolerance = 1e-4
	// DefaultMaxIter is the iteration cap used when a Config has none.
	DefaultMaxIter = 100
	// DenominatorGuard is the smallest denominator magnitude ModifiedNewton
	// divides by.
	DenominatorGuard = 1e-10
)

// Config holds the settings shared by every method.
type Config struct {
	// Tolerance is the error at or below which a run has converged.
	Tolerance float64
	// MaxIter is the maximum number of iterations in a run.
	MaxIter int
	// Vars holds values for variables other than the independent variable.
	// It may be nil.
	Vars *rootfind.Context
	// Logger receives a debug entry per iteration and a summary per run. If
	// it is nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultConfig returns a config with the default tolerance and iteration cap.
func DefaultConfig() Config {
	return Config{Tolerance: DefaultTolerance, MaxIter: DefaultMaxIter}
}

// Validate checks that the tolerance is positive and finite and that the
// iteration cap is positive.
func (c Config) Validate() error {
	if !(c.Tolerance > 0) || math.IsInf(c.Tolerance, 1) {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("iteration cap must be positive, got %d", c.MaxIter)
	}
	return nil
}

func (c Config) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// at evaluates e at x with the config's variables.
func (c Config) at(e *rootfind.Expr, x float64) (float64, error) {
	return e.AtContext(c.Vars, x)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
