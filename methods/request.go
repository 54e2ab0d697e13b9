package methods

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/zephyrtronium/rootfind"
)

// Method names a root-finding method.
type Method string

const (
	MethodBisection      Method = "bisection"
	MethodFalsePosition  Method = "falseposition"
	MethodFixedPoint     Method = "fixedpoint"
	MethodNewton         Method = "newton"
	MethodModifiedNewton Method = "multiple"
)

// Methods lists every method.
var Methods = []Method{MethodBisection, MethodFalsePosition, MethodFixedPoint, MethodNewton, MethodModifiedNewton}

func (m Method) String() string {
	return string(m)
}

var methodAliases = map[string]Method{
	"bisect":          MethodBisection,
	"regulafalsi":     MethodFalsePosition,
	"regula-falsi":    MethodFalsePosition,
	"false-position":  MethodFalsePosition,
	"fixed-point":     MethodFixedPoint,
	"newton-raphson":  MethodNewton,
	"modifiednewton":  MethodModifiedNewton,
	"modified-newton": MethodModifiedNewton,
}

// ParseMethod finds a method by name, ignoring case.
func ParseMethod(name string) (Method, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if m := Method(name); slices.Contains(Methods, m) {
		return m, nil
	}
	if m, ok := methodAliases[name]; ok {
		return m, nil
	}
	return "", &RunError{Status: InvalidInput, Reason: "unknown method " + strconv.Quote(name)}
}

// Columns returns the names of the values in the method's trace rows.
func (m Method) Columns() []string {
	switch m {
	case MethodBisection, MethodFalsePosition:
		return []string{"iteration", "a", "b", "c", "f(a)", "f(b)", "f(c)", "error"}
	case MethodFixedPoint:
		return []string{"iteration", "x", "g(x)", "f(g(x))", "error"}
	case MethodNewton:
		return []string{"iteration", "x", "f(x)", "f'(x)", "next", "error"}
	case MethodModifiedNewton:
		return []string{"iteration", "x", "f(x)", "f'(x)", "f''(x)", "next", "error"}
	}
	return nil
}

// Request is a run described entirely by text, as entered in a form or on a
// command line. Fields a method does not use are ignored.
type Request struct {
	Method string `json:"method" yaml:"method"`
	// F is the function whose root is sought.
	F string `json:"f" yaml:"f"`
	// G is the iteration function for MethodFixedPoint.
	G string `json:"g,omitempty" yaml:"g,omitempty"`
	// A and B are the bracket for MethodBisection and MethodFalsePosition.
	A string `json:"a,omitempty" yaml:"a,omitempty"`
	B string `json:"b,omitempty" yaml:"b,omitempty"`
	// X0 is the initial value for the other methods.
	X0 string `json:"x0,omitempty" yaml:"x0,omitempty"`
	// Tolerance and MaxIter override the config when they are not blank.
	Tolerance string `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`
	MaxIter   string `json:"maxIter,omitempty" yaml:"maxIter,omitempty"`
	// Var is the independent variable, x if blank.
	Var string `json:"var,omitempty" yaml:"var,omitempty"`
	// Vars holds values for other variables appearing in F and G.
	Vars map[string]string `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Report is the outcome of a Request in a form independent of the method.
type Report struct {
	// ID identifies the run for callers which track many. Run leaves it
	// blank.
	ID     string `json:"id,omitempty"`
	Method Method `json:"method"`
	Status Status `json:"status"`
	// F and G are the parsed functions, and Derivative and Second are the
	// derivatives of F the method used.
	F          string  `json:"f,omitempty"`
	G          string  `json:"g,omitempty"`
	Derivative string  `json:"derivative,omitempty"`
	Second     string  `json:"second,omitempty"`
	Root       float64 `json:"root"`
	// Value is f(Root), or nil if f has no value there.
	Value      *float64 `json:"value,omitempty"`
	Iterations int      `json:"iterations"`
	Error      float64  `json:"error"`
	// Message describes why a run stopped early.
	Message string      `json:"message,omitempty"`
	Columns []string    `json:"columns,omitempty"`
	Rows    [][]float64 `json:"rows,omitempty"`
}

// Run validates the request and runs the method it names. Blank tolerance and
// iteration cap fields take their values from cfg. Run always returns a
// report; if the method did not produce an estimate, the error is a *RunError
// and the report's status says why.
func (r Request) Run(cfg Config) (*Report, error) {
	m, err := ParseMethod(r.Method)
	if err != nil {
		return failed(Method(r.Method), err), err
	}
	rep, err := r.run(m, cfg)
	if err != nil && rep == nil {
		return failed(m, err), err
	}
	return rep, err
}

func (r Request) run(m Method, cfg Config) (*Report, error) {
	in := inputs{m: m}
	opts := parseOptions(r.Var, r.Vars)
	f := in.expr("f", r.F, opts)
	if r.Tolerance != "" {
		cfg.Tolerance = in.number("tolerance", r.Tolerance)
	}
	if r.MaxIter != "" {
		cfg.MaxIter = in.integer("maxIter", r.MaxIter)
	}
	cfg.Vars = in.context(cfg.Vars, r.Vars)
	switch m {
	case MethodBisection, MethodFalsePosition:
		a, b := in.number("a", r.A), in.number("b", r.B)
		if in.err != nil {
			return nil, in.err
		}
		run := Bisect
		if m == MethodFalsePosition {
			run = FalsePosition
		}
		res, err := run(f, a, b, cfg)
		return newReport(m, res, err, f.Text()), err
	case MethodFixedPoint:
		g := in.expr("g", r.G, opts)
		x0 := in.number("x0", r.X0)
		if in.err != nil {
			return nil, in.err
		}
		res, err := FixedPoint(f, g, x0, cfg)
		rep := newReport(m, res, err, f.Text())
		rep.G = g.Text()
		return rep, err
	case MethodNewton:
		x0 := in.number("x0", r.X0)
		if in.err != nil {
			return nil, in.err
		}
		res, err := Newton(f, x0, cfg)
		rep := newReport(m, res, err, f.Text())
		if d, derr := rootfind.Derivative(f, ""); derr == nil {
			rep.Derivative = d.Text()
		}
		return rep, err
	case MethodModifiedNewton:
		x0 := in.number("x0", r.X0)
		if in.err != nil {
			return nil, in.err
		}
		res, err := ModifiedNewton(f, x0, cfg)
		rep := newReport(m, res, err, f.Text())
		if d1, d2, derr := rootfind.Derivative2(f, ""); derr == nil {
			rep.Derivative, rep.Second = d1.Text(), d2.Text()
		}
		return rep, err
	}
	panic("methods: unhandled method " + string(m))
}

// parseOptions returns the options for parsing functions of the variable v
// which also use the named variables.
func parseOptions(v string, vars map[string]string) []rootfind.ParseOption {
	if v == "" && len(vars) == 0 {
		return nil
	}
	v = strings.TrimSpace(v)
	if v == "" {
		v = rootfind.DefaultVar
	}
	names := []string{v}
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		if k != v && k != "" {
			names = append(names, k)
		}
	}
	return []rootfind.ParseOption{rootfind.Vars(names...)}
}

// inputs converts text fields, keeping the first failure.
type inputs struct {
	m   Method
	err error
}

func (in *inputs) fail(reason string, err error) {
	if in.err == nil {
		in.err = &RunError{Method: in.m, Status: InvalidInput, Reason: reason, Err: err}
	}
}

func (in *inputs) expr(field, text string, opts []rootfind.ParseOption) *rootfind.Expr {
	if strings.TrimSpace(text) == "" {
		in.fail(field+" is required", nil)
		return nil
	}
	e, err := rootfind.ParseString(text, opts...)
	if err != nil {
		in.fail("cannot parse "+field, err)
		return nil
	}
	return e
}

func (in *inputs) number(field, text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		in.fail(field+" is required", nil)
		return 0
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		in.fail(fmt.Sprintf("%s: %q is not a number", field, text), nil)
		return 0
	}
	return v
}

// context adds variable values to base. It returns base itself if there are
// none.
func (in *inputs) context(base *rootfind.Context, vars map[string]string) *rootfind.Context {
	if len(vars) == 0 {
		return base
	}
	vals := make(map[string]float64, len(vars))
	for _, k := range slices.Sorted(maps.Keys(vars)) {
		vals[k] = in.number(k, vars[k])
	}
	return base.Clone(rootfind.SetVars(vals))
}

func (in *inputs) integer(field, text string) int {
	text = strings.TrimSpace(text)
	v, err := strconv.Atoi(text)
	if err != nil {
		in.fail(fmt.Sprintf("%s: %q is not an integer", field, text), nil)
		return 0
	}
	return v
}

// newReport builds a report from a result.
func newReport[S Step](m Method, res Result[S], err error, f string) *Report {
	rep := Report{
		Method:     m,
		Status:     res.Status,
		F:          f,
		Root:       res.Root,
		Iterations: res.Iterations,
		Error:      res.Error,
		Columns:    m.Columns(),
		Rows:       make([][]float64, len(res.Steps)),
	}
	if finite(res.Value) {
		v := res.Value
		rep.Value = &v
	}
	if err != nil {
		rep.Message = err.Error()
	}
	for i, s := range res.Steps {
		rep.Rows[i] = s.Row()
	}
	return &rep
}

// failed builds a report for a request which could not start.
func failed(m Method, err error) *Report {
	return &Report{Method: m, Status: InvalidInput, Message: err.Error()}
}
