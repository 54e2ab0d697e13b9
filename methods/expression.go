package methods

import (
	"fmt"

	"github.com/zephyrtronium/rootfind"
)

// MaxDerivativeOrder is the highest derivative order Expression.Derivatives
// computes.
const MaxDerivativeOrder = 4

// Expression is a function described by text, with values for its other
// variables. It is the input to evaluating, differentiating, or sampling a
// function outside of a run.
type Expression struct {
	F    string            `json:"f" yaml:"f"`
	Var  string            `json:"var,omitempty" yaml:"var,omitempty"`
	Vars map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Parse parses the function and the values of its other variables. The error
// is a *RunError with status InvalidInput.
func (x Expression) Parse() (*rootfind.Expr, *rootfind.Context, error) {
	var in inputs
	f := in.expr("f", x.F, parseOptions(x.Var, x.Vars))
	ctx := in.context(nil, x.Vars)
	if in.err != nil {
		return nil, nil, in.err
	}
	return f, ctx, nil
}

// At evaluates the function with its independent variable set to v.
func (x Expression) At(v float64) (float64, error) {
	f, ctx, err := x.Parse()
	if err != nil {
		return 0, err
	}
	return f.AtContext(ctx, v)
}

// Derivatives returns the text of the function's derivatives with respect to
// its independent variable, from the first through the given order.
func (x Expression) Derivatives(order int) ([]string, error) {
	if order < 1 || order > MaxDerivativeOrder {
		return nil, &RunError{Status: InvalidInput, Reason: fmt.Sprintf("order must be between 1 and %d, got %d", MaxDerivativeOrder, order)}
	}
	f, _, err := x.Parse()
	if err != nil {
		return nil, err
	}
	r := make([]string, 0, order)
	for range order {
		f, err = rootfind.Derivative(f, "")
		if err != nil {
			return nil, &RunError{Status: InvalidInput, Reason: "cannot differentiate f", Err: err}
		}
		r = append(r, f.Text())
	}
	return r, nil
}

// SamplePoint is a sample of a function. Y is nil where the function has no
// value.
type SamplePoint struct {
	X float64  `json:"x"`
	Y *float64 `json:"y"`
}

// Sample evaluates the function at count evenly spaced points from xMin to
// xMax inclusive.
func (x Expression) Sample(xMin, xMax float64, count int) ([]SamplePoint, error) {
	f, ctx, err := x.Parse()
	if err != nil {
		return nil, err
	}
	pts, err := rootfind.SampleContext(f, ctx, xMin, xMax, count)
	if err != nil {
		return nil, err
	}
	r := make([]SamplePoint, len(pts))
	for i, p := range pts {
		r[i].X = p.X
		if p.OK {
			y := p.Y
			r[i].Y = &y
		}
	}
	return r, nil
}
