package rootfind

import (
	"errors"
	"math"
	"strconv"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call may modify the elements of args. An argument
	// outside the function's domain should produce a *DomainError.
	Call(args []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If a bracketed list of n > 0 expressions follows a function, the
	//		parser treats it as an argument list if CanCall(n). (If n is 1 and
	//		!CanCall(1) and CanCall(0), then the list is a multiplication;
	//		otherwise, it is rejected.)
	//
	// 	2.	If a bare term follows a function and CanCall(1), then the parser
	//		treats the term as an argument to the function. E.g., "exp x" is
	//		parsed as "exp(x)". (If !CanCall(1), then it is a multiplication.)
	CanCall(n int) bool
}

var globalfuncs map[string]Func

func init() {
	// Derivative rules refer back to globalfuncs, so it is built at init.
	globalfuncs = map[string]Func{
		"sqrt": monadic{f: math.Sqrt, domain: nonneg, d: func(u *node) *node {
			return div(num(1), mul(num(2), call("sqrt", u)))
		}},
		"cbrt": monadic{f: math.Cbrt, d: func(u *node) *node {
			return div(num(1), mul(num(3), pow(call("cbrt", u), num(2))))
		}},
		"exp": monadic{f: math.Exp, d: func(u *node) *node {
			return call("exp", u)
		}},
		"ln": monadic{f: math.Log, domain: positive, d: func(u *node) *node {
			return div(num(1), u)
		}},
		"log10": monadic{f: math.Log10, domain: positive, d: func(u *node) *node {
			return div(num(1), mul(u, call("ln", num(10))))
		}},

		"log": logarithm{},

		"sin": monadic{f: math.Sin, d: func(u *node) *node {
			return call("cos", u)
		}},
		"cos": monadic{f: math.Cos, d: func(u *node) *node {
			return neg(call("sin", u))
		}},
		"tan": monadic{f: math.Tan, d: func(u *node) *node {
			return div(num(1), pow(call("cos", u), num(2)))
		}},
		"asin": monadic{f: math.Asin, domain: unit, d: func(u *node) *node {
			return div(num(1), call("sqrt", sub(num(1), pow(u, num(2)))))
		}},
		"acos": monadic{f: math.Acos, domain: unit, d: func(u *node) *node {
			return neg(div(num(1), call("sqrt", sub(num(1), pow(u, num(2))))))
		}},
		"atan": monadic{f: math.Atan, d: func(u *node) *node {
			return div(num(1), add(num(1), pow(u, num(2))))
		}},
		"sinh": monadic{f: math.Sinh, d: func(u *node) *node {
			return call("cosh", u)
		}},
		"cosh": monadic{f: math.Cosh, d: func(u *node) *node {
			return call("sinh", u)
		}},
		"tanh": monadic{f: math.Tanh, d: func(u *node) *node {
			return div(num(1), pow(call("cosh", u), num(2)))
		}},

		"abs": monadic{f: math.Abs, d: func(u *node) *node {
			return call("sign", u)
		}},
		"sign": monadic{f: sign, d: func(u *node) *node {
			return num(0)
		}},

		// constants
		"pi": Niladic(math.Pi),
		"e":  Niladic(math.E),
	}
}

func nonneg(x float64) bool   { return x >= 0 }
func positive(x float64) bool { return x > 0 }
func unit(x float64) bool     { return -1 <= x && x <= 1 }

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

type monadic struct {
	f func(float64) float64
	// domain reports whether an argument is valid. If nil, every real is.
	domain func(float64) bool
	// d builds the derivative of f evaluated at u, not including the
	// derivative of u itself. If nil, f has no symbolic derivative.
	d func(u *node) *node
}

func (m monadic) Call(args []float64) (float64, error) {
	x := args[0]
	if m.domain != nil && !m.domain(x) {
		return 0, &DomainError{X: x, Arg: 1}
	}
	return m.f(x), nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. If f returns NaN,
// evaluation reports a *DomainError. Expressions using the function cannot
// be differentiated.
func Monadic(f func(float64) float64) Func {
	return monadic{f: f}
}

type niladic float64

func (n niladic) Call(args []float64) (float64, error) {
	return float64(n), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic creates a Func of zero variables which produces v.
func Niladic(v float64) Func {
	return niladic(v)
}

// logarithm is log(x), the natural logarithm, or log(x, b), the logarithm of
// x in base b.
type logarithm struct{}

func (logarithm) Call(args []float64) (float64, error) {
	x := args[0]
	if x <= 0 {
		return 0, &DomainError{X: x, Arg: 1}
	}
	if len(args) == 1 {
		return math.Log(x), nil
	}
	b := args[1]
	if b <= 0 || b == 1 {
		return 0, &DomainError{X: b, Arg: 2}
	}
	return math.Log(x) / math.Log(b), nil
}

func (logarithm) CanCall(n int) bool {
	return n == 1 || n == 2
}

// ErrUndefined is the error which evaluation errors unwrap to when an
// expression has no real value at a point.
var ErrUndefined = errors.New("undefined")

// DomainError is an error returned when a function is called on arguments
// outside its domain. DomainError unwraps to ErrUndefined.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return ErrUndefined
}

// OverflowError is an error returned when an operation produces a result
// too large to represent. OverflowError unwraps to ErrUndefined.
type OverflowError struct {
	// Func is the function or operator that overflowed.
	Func string
}

func (err *OverflowError) Error() string {
	return "overflow in " + err.Func
}

func (err *OverflowError) Unwrap() error {
	return ErrUndefined
}
