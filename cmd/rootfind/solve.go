package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/methods"
)

type solveOptions struct {
	f, g      string
	a, b      string
	x0        string
	tolerance string
	maxIter   string
	variable  string
	given     []string
}

var solveFlags solveOptions

// solveCommand creates the command for one method. need lists the flags the
// method reads besides f and the shared ones.
func solveCommand(m methods.Method, aliases []string, short, long string, need ...string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     string(m),
		Aliases: aliases,
		Short:   short,
		Long:    long,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(cmd, m)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&solveFlags.f, "f", "", "function whose root to find")
	for _, name := range need {
		switch name {
		case "g":
			fl.StringVar(&solveFlags.g, "g", "", "iteration function")
		case "a":
			fl.StringVar(&solveFlags.a, "a", "", "left end of the bracket")
		case "b":
			fl.StringVar(&solveFlags.b, "b", "", "right end of the bracket")
		case "x0":
			fl.StringVar(&solveFlags.x0, "x0", "", "initial value")
		}
	}
	fl.StringVar(&solveFlags.tolerance, "tol", "", "tolerance (default from ROOTFIND_TOLERANCE)")
	fl.StringVar(&solveFlags.maxIter, "max-iter", "", "iteration cap (default from ROOTFIND_MAX_ITER)")
	fl.StringVar(&solveFlags.variable, "var", "", "independent variable (default x)")
	fl.StringArrayVar(&solveFlags.given, "given", nil, "name=value definition of another variable (any number of times)")
	cmd.MarkFlagRequired("f")
	for _, name := range need {
		cmd.MarkFlagRequired(name)
	}
	return cmd
}

func init() {
	rootCmd.AddCommand(
		solveCommand(methods.MethodBisection, []string{"bisect"},
			"Find a root by bisection",
			`Halve a bracket [a, b] on which f changes sign until it is no wider than
the tolerance. The root is the midpoint of the final bracket.`,
			"a", "b"),
		solveCommand(methods.MethodFalsePosition, []string{"regula-falsi", "false-position"},
			"Find a root by false position",
			`Shrink a bracket [a, b] on which f changes sign using the root of the secant
through the endpoints until the bracket is no wider than the tolerance.`,
			"a", "b"),
		solveCommand(methods.MethodFixedPoint, []string{"fixed-point"},
			"Find a root by fixed point iteration",
			`Iterate x = g(x) from x0 until successive values differ by no more than the
tolerance. The fixed points of g should be the roots of f.`,
			"g", "x0"),
		solveCommand(methods.MethodNewton, []string{"newton-raphson"},
			"Find a root by Newton's method",
			`Iterate x - f(x)/f'(x) from x0 with f' computed symbolically.`,
			"x0"),
		solveCommand(methods.MethodModifiedNewton, []string{"modified-newton"},
			"Find a multiple root by modified Newton's method",
			`Iterate x - f(x) f'(x) / (f'(x)^2 - f(x) f''(x)) from x0, which converges
quickly to roots of any multiplicity.`,
			"x0"),
	)
}

// solve runs a method with the solve flags and writes its report. Runs that
// did not produce an estimate are errors after the report is written.
func solve(cmd *cobra.Command, m methods.Method) error {
	vars, err := parseGiven(solveFlags.given)
	if err != nil {
		return err
	}
	req := methods.Request{
		Method:    string(m),
		F:         solveFlags.f,
		G:         solveFlags.g,
		A:         solveFlags.a,
		B:         solveFlags.b,
		X0:        solveFlags.x0,
		Tolerance: solveFlags.tolerance,
		MaxIter:   solveFlags.maxIter,
		Var:       solveFlags.variable,
		Vars:      vars,
	}
	c := cfg.Methods()
	c.Logger = logger
	rep, runErr := req.Run(c)
	if err := writeReport(cmd.OutOrStdout(), rep); err != nil {
		return err
	}
	return runErr
}

// parseGiven parses name=value definitions for a request.
func parseGiven(defs []string) (map[string]string, error) {
	vals, err := givenValues(defs)
	if err != nil || vals == nil {
		return nil, err
	}
	r := make(map[string]string, len(vals))
	for name, v := range vals {
		r[name] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return r, nil
}

// givenValues parses name=value definitions. Each value is a constant
// expression, so pi/2 is a value.
func givenValues(defs []string) (map[string]float64, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	r := make(map[string]float64, len(defs))
	for _, d := range defs {
		name, text, ok := strings.Cut(d, "=")
		if !ok {
			return nil, fmt.Errorf(`variable definitions must be "name=value", not %q`, d)
		}
		name = strings.TrimSpace(name)
		v, err := rootfind.EvalString(text)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", name, err)
		}
		r[name] = v
	}
	return r, nil
}
