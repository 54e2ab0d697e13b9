package rootfind

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// Context holds variable values for evaluating expressions. A Context may be
// used by any number of concurrent evaluations as long as no goroutine calls
// Set at the same time.
type Context struct {
	names map[string]float64
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	setvaropt struct {
		name string
		val  float64
	}
	setvarsopt map[string]float64
)

func (setvaropt) ctxOption()  {}
func (setvarsopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val float64) ContextOption {
	return setvaropt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]float64) ContextOption {
	return setvarsopt(vars)
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	var ctx *Context
	return ctx.Clone(opts...)
}

// Set sets the value of a variable. Returns ctx for chaining.
func (ctx *Context) Set(name string, value float64) *Context {
	if ctx.names == nil {
		ctx.names = make(map[string]float64)
	}
	ctx.names[name] = value
	return ctx
}

// Lookup returns the value of a variable and whether it is set.
func (ctx *Context) Lookup(name string) (float64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.names[name]
	return v, ok
}

// Clone creates a copy of a context and applies options to it. Cloning a nil
// context creates a new one.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	var names map[string]float64
	if ctx != nil {
		names = ctx.names
	}
	n := Context{names: make(map[string]float64, len(names))}
	for name, val := range names {
		n.names[name] = val
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
			continue
		case setvaropt:
			n.names[opt.name] = opt.val
		case setvarsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		default:
			panic("rootfind: unknown option type")
		}
	}
	return &n
}

// scope resolves variables during one evaluation. If bound, the variable
// name takes the value x ahead of ctx.
type scope struct {
	ctx   *Context
	name  string
	x     float64
	bound bool
}

func (s *scope) lookup(name string) (float64, bool) {
	if s.bound && name == s.name {
		return s.x, true
	}
	return s.ctx.Lookup(name)
}

// Eval evaluates the expression with variables from ctx, which may be nil.
// If a variable is missing, the result is a *NameError. If the expression
// has no real value, e.g. because an argument to a function is outside the
// function's domain, then the error unwraps to ErrUndefined.
func (e *Expr) Eval(ctx *Context) (float64, error) {
	s := scope{ctx: ctx}
	return e.n.eval(&s)
}

// At evaluates the expression with its independent variable set to x.
func (e *Expr) At(x float64) (float64, error) {
	s := scope{name: e.v, x: x, bound: true}
	return e.n.eval(&s)
}

// AtContext evaluates the expression with its independent variable set to x
// and other variables taken from ctx.
func (e *Expr) AtContext(ctx *Context, x float64) (float64, error) {
	s := scope{ctx: ctx, name: e.v, x: x, bound: true}
	return e.n.eval(&s)
}

// eval computes the node's value. Every value eval returns without error is
// finite.
func (n *node) eval(s *scope) (float64, error) {
	switch n.kind {
	case nodeNum:
		return n.num, nil
	case nodeName:
		v, ok := s.lookup(n.name)
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, &DomainError{X: v, Func: n.name}
		}
		return v, nil
	case nodeCall:
		args := make([]float64, len(n.args))
		for i, a := range n.args {
			v, err := a.eval(s)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		r, err := n.fn.Call(args)
		if err != nil {
			var de *DomainError
			if errors.As(err, &de) && de.Func == "" {
				de.Func = n.name
			}
			return 0, err
		}
		return checked(r, n.name)
	case nodeNeg:
		v, err := n.left.eval(s)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		l, err := n.left.eval(s)
		if err != nil {
			return 0, err
		}
		r, err := n.right.eval(s)
		if err != nil {
			return 0, err
		}
		return binary(n.kind, l, r)
	default:
		panic("rootfind: invalid AST node " + n.kind.String())
	}
}

// binary applies a binary operator to finite operands.
func binary(op nodeKind, l, r float64) (float64, error) {
	var v float64
	switch op {
	case nodeAdd:
		v = l + r
	case nodeSub:
		v = l - r
	case nodeMul:
		v = l * r
	case nodeDiv:
		if r == 0 {
			return 0, &DomainError{X: r, Arg: 2, Func: "/"}
		}
		v = l / r
	case nodePow:
		// Negative bases need integer exponents to stay real.
		if l < 0 && r != math.Trunc(r) {
			return 0, &DomainError{X: l, Arg: 1, Func: "^"}
		}
		if l == 0 && r < 0 {
			return 0, &DomainError{X: r, Arg: 2, Func: "^"}
		}
		v = math.Pow(l, r)
	default:
		panic("rootfind: invalid binary operator " + op.String())
	}
	return checked(v, op.symbol())
}

// checked converts a non-finite result into an error.
func checked(v float64, op string) (float64, error) {
	switch {
	case math.IsNaN(v):
		return 0, &DomainError{X: v, Func: op}
	case math.IsInf(v, 0):
		return 0, &OverflowError{Func: op}
	}
	return v, nil
}

// Eval is a shortcut to parse an expression and return its result using the
// default functions. Any identifier which is not a function is a variable.
func Eval(src io.RuneScanner, opts ...ContextOption) (float64, error) {
	a, err := Parse(src, AnyVars())
	if err != nil {
		return 0, err
	}
	return a.Eval(NewContext(opts...))
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context. NameError unwraps to ErrUndefined.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Unwrap() error {
	return ErrUndefined
}
