package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/methods"
)

var evalFlags struct {
	in    string
	verb  string
	given []string
	echo  bool
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression...]",
	Short: "Evaluate expressions",
	Long: `Evaluate expressions given as arguments, or one per line from a file or
standard input. Any identifier which is not a function is a variable, and
every variable needs a value from --given.

Examples:
  rootfind eval '2^10' 'sqrt 2'
  rootfind eval --given a=3 --given b=pi/2 'a sin(b)'
  echo 'exp(1)' | rootfind eval --fmt '%.3f'`,
	RunE: runEval,
}

var derivFlags struct {
	order    int
	variable string
	given    []string
}

var derivCmd = &cobra.Command{
	Use:   "deriv expression",
	Short: "Differentiate an expression",
	Long: `Print the derivatives of an expression with respect to its independent
variable up to the given order. Other variables must be named with --given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeriv,
}

var sampleFlags struct {
	min, max float64
	count    int
	variable string
	given    []string
}

var sampleCmd = &cobra.Command{
	Use:   "sample expression",
	Short: "Tabulate an expression over an interval",
	Long: `Evaluate an expression at evenly spaced points of its independent variable
from --min to --max inclusive. Points where it has no real value are marked
undefined.`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(evalCmd, derivCmd, sampleCmd)

	evalCmd.Flags().StringVar(&evalFlags.in, "in", "", "input file, - for stdin (default stdin if no args given)")
	evalCmd.Flags().StringVar(&evalFlags.verb, "fmt", "%g", "result formatting verb")
	evalCmd.Flags().StringArrayVar(&evalFlags.given, "given", nil, "name=value variable definition (any number of times)")
	evalCmd.Flags().BoolVar(&evalFlags.echo, "echo", false, "print parse trees")

	derivCmd.Flags().IntVar(&derivFlags.order, "order", 1, fmt.Sprintf("highest derivative order, at most %d", methods.MaxDerivativeOrder))
	derivCmd.Flags().StringVar(&derivFlags.variable, "var", "", "independent variable (default x)")
	derivCmd.Flags().StringArrayVar(&derivFlags.given, "given", nil, "name=value definition of another variable")

	sampleCmd.Flags().Float64Var(&sampleFlags.min, "min", -1, "start of the interval")
	sampleCmd.Flags().Float64Var(&sampleFlags.max, "max", 1, "end of the interval")
	sampleCmd.Flags().IntVar(&sampleFlags.count, "count", 21, "number of points")
	sampleCmd.Flags().StringVar(&sampleFlags.variable, "var", "", "independent variable (default x)")
	sampleCmd.Flags().StringArrayVar(&sampleFlags.given, "given", nil, "name=value definition of another variable")
}

type evalResult struct {
	Expr  string   `json:"expr"`
	Value *float64 `json:"value,omitempty"`
	Error string   `json:"error,omitempty"`
}

func runEval(cmd *cobra.Command, args []string) error {
	vals, err := givenValues(evalFlags.given)
	if err != nil {
		return err
	}
	ctx := rootfind.NewContext(rootfind.SetVars(vals))

	var srcs []string
	lines, err := evalInput(cmd, evalFlags.in, len(args) == 0)
	if err != nil {
		return err
	}
	srcs = append(srcs, lines...)
	srcs = append(srcs, args...)

	var exprs []*rootfind.Expr
	for _, src := range srcs {
		e, err := rootfind.ParseString(src, rootfind.AnyVars())
		if err != nil {
			return fmt.Errorf("%q: %w", src, err)
		}
		exprs = append(exprs, e)
	}

	w := cmd.OutOrStdout()
	results := make([]evalResult, len(exprs))
	verb := evalFlags.verb + "\n"
	for i, e := range exprs {
		results[i].Expr = e.Text()
		v, err := e.Eval(ctx)
		if err != nil {
			results[i].Error = err.Error()
		} else {
			results[i].Value = &v
		}
		if rootFlags.format == formatJSON {
			continue
		}
		if evalFlags.echo {
			fmt.Fprintf(w, "%v : ", e)
		}
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}
		fmt.Fprintf(w, verb, v)
	}
	if rootFlags.format == formatJSON {
		return writeJSON(w, results)
	}
	return nil
}

// evalInput reads nonblank lines from the named file, or from the command's
// input if the name is - or is empty and std is set.
func evalInput(cmd *cobra.Command, name string, std bool) ([]string, error) {
	var r io.Reader
	switch {
	case name != "" && name != "-":
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	case name == "-", std:
		r = cmd.InOrStdin()
	default:
		return nil, nil
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func runDeriv(cmd *cobra.Command, args []string) error {
	vars, err := parseGiven(derivFlags.given)
	if err != nil {
		return err
	}
	x := methods.Expression{F: args[0], Var: derivFlags.variable, Vars: vars}
	d, err := x.Derivatives(derivFlags.order)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if rootFlags.format == formatJSON {
		return writeJSON(w, map[string]any{"f": args[0], "derivatives": d})
	}
	for i, text := range d {
		fmt.Fprintf(w, "f%s = %s\n", strings.Repeat("'", i+1), text)
	}
	return nil
}

func runSample(cmd *cobra.Command, args []string) error {
	vars, err := parseGiven(sampleFlags.given)
	if err != nil {
		return err
	}
	x := methods.Expression{F: args[0], Var: sampleFlags.variable, Vars: vars}
	pts, err := x.Sample(sampleFlags.min, sampleFlags.max, sampleFlags.count)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if rootFlags.format == formatJSON {
		return writeJSON(w, pts)
	}
	v := sampleFlags.variable
	if v == "" {
		v = rootfind.DefaultVar
	}
	tw := table(w)
	fmt.Fprintf(tw, "%s\tf(%s)\n", v, v)
	for _, p := range pts {
		y := "undefined"
		if p.Y != nil {
			y = num(*p.Y)
		}
		fmt.Fprintf(tw, "%s\t%s\n", num(p.X), y)
	}
	return tw.Flush()
}
