package rootfind

import (
	"math"
	"strconv"
)

// Derivative differentiates an expression with respect to the variable v.
// If v is empty, it is the expression's independent variable. The result has
// the same independent variable as e.
//
// Every default function has a derivative rule. Functions supplied with
// ParseFunc have none, and differentiating an expression which applies one to
// a term depending on v returns a *DerivError.
func Derivative(e *Expr, v string) (*Expr, error) {
	if v == "" {
		v = e.v
	}
	d, err := e.n.deriv(v)
	if err != nil {
		return nil, err
	}
	return newExpr(d, e.v), nil
}

// Derivative2 returns the second derivative of an expression with respect to
// v, along with the first.
func Derivative2(e *Expr, v string) (d1, d2 *Expr, err error) {
	d1, err = Derivative(e, v)
	if err != nil {
		return nil, nil, err
	}
	d2, err = Derivative(d1, v)
	if err != nil {
		return nil, nil, err
	}
	return d1, d2, nil
}

// DerivError is an error indicating a function with no derivative rule.
type DerivError struct {
	// Func is the function name.
	Func string
}

func (err *DerivError) Error() string {
	return "no derivative rule for " + strconv.Quote(err.Func)
}

// deriv builds the derivative of the node with respect to v. The result
// shares subtrees with n.
func (n *node) deriv(v string) (*node, error) {
	if !n.dependsOn(v) {
		return num(0), nil
	}
	switch n.kind {
	case nodeName:
		// dependsOn means this is v.
		return num(1), nil
	case nodeNeg:
		d, err := n.left.deriv(v)
		if err != nil {
			return nil, err
		}
		return neg(d), nil
	case nodeCall:
		return n.derivCall(v)
	}
	dl, err := n.left.deriv(v)
	if err != nil {
		return nil, err
	}
	dr, err := n.right.deriv(v)
	if err != nil {
		return nil, err
	}
	l, r := n.left, n.right
	switch n.kind {
	case nodeAdd:
		return add(dl, dr), nil
	case nodeSub:
		return sub(dl, dr), nil
	case nodeMul:
		return add(mul(dl, r), mul(l, dr)), nil
	case nodeDiv:
		if !r.dependsOn(v) {
			return div(dl, r), nil
		}
		return div(sub(mul(dl, r), mul(l, dr)), pow(r, num(2))), nil
	case nodePow:
		switch {
		case !r.dependsOn(v):
			// (f^n)' = n f^(n-1) f'
			return mul(mul(r, pow(l, sub(r, num(1)))), dl), nil
		case !l.dependsOn(v):
			// (a^g)' = a^g ln(a) g'
			return mul(mul(n, call("ln", l)), dr), nil
		default:
			// (f^g)' = f^g (g' ln(f) + g f'/f)
			return mul(n, add(mul(dr, call("ln", l)), div(mul(r, dl), l))), nil
		}
	default:
		panic("rootfind: invalid AST node " + n.kind.String())
	}
}

func (n *node) derivCall(v string) (*node, error) {
	switch fn := n.fn.(type) {
	case monadic:
		if fn.d == nil {
			break
		}
		u := n.args[0]
		du, err := u.deriv(v)
		if err != nil {
			return nil, err
		}
		return mul(fn.d(u), du), nil
	case logarithm:
		// log(u) = ln(u); log(u, b) = ln(u) / ln(b)
		r := call("ln", n.args[0])
		if len(n.args) == 2 {
			r = &node{kind: nodeDiv, left: r, right: call("ln", n.args[1])}
		}
		return r.deriv(v)
	}
	return nil, &DerivError{Func: n.name}
}

// The constructors below build nodes for derivatives. They fold numeric
// constants and drop identities so that derivative trees stay small. They do
// not preserve the domain of eliminated terms, so 0*ln(x) becomes 0.

func num(v float64) *node {
	return &node{kind: nodeNum, num: v}
}

func call(name string, args ...*node) *node {
	return &node{kind: nodeCall, name: name, fn: globalfuncs[name], args: args}
}

// isnum reports whether n is the number v.
func isnum(n *node, v float64) bool {
	return n.kind == nodeNum && n.num == v
}

// fold computes a constant binary operation. Quotients and powers are only
// folded when the result is an integer, so that the derivative text stays
// exact.
func fold(op nodeKind, l, r *node) (*node, bool) {
	if l.kind != nodeNum || r.kind != nodeNum {
		return nil, false
	}
	v, err := binary(op, l.num, r.num)
	if err != nil {
		return nil, false
	}
	if (op == nodeDiv || op == nodePow) && v != math.Trunc(v) {
		return nil, false
	}
	return num(v), true
}

func neg(a *node) *node {
	switch a.kind {
	case nodeNum:
		return num(-a.num)
	case nodeNeg:
		return a.left
	}
	return &node{kind: nodeNeg, left: a}
}

func add(a, b *node) *node {
	switch {
	case isnum(a, 0):
		return b
	case isnum(b, 0):
		return a
	case b.kind == nodeNeg:
		return sub(a, b.left)
	}
	if r, ok := fold(nodeAdd, a, b); ok {
		return r
	}
	return &node{kind: nodeAdd, left: a, right: b}
}

func sub(a, b *node) *node {
	switch {
	case isnum(b, 0):
		return a
	case isnum(a, 0):
		return neg(b)
	}
	if r, ok := fold(nodeSub, a, b); ok {
		return r
	}
	return &node{kind: nodeSub, left: a, right: b}
}

func mul(a, b *node) *node {
	switch {
	case isnum(a, 0), isnum(b, 0):
		return num(0)
	case isnum(a, 1):
		return b
	case isnum(b, 1):
		return a
	case isnum(a, -1):
		return neg(b)
	case isnum(b, -1):
		return neg(a)
	}
	if r, ok := fold(nodeMul, a, b); ok {
		return r
	}
	if b.kind == nodeNum && a.kind != nodeNum {
		// Numeric factors go first.
		a, b = b, a
	}
	if a.kind == nodeNum && b.kind == nodeMul {
		// n * (m * x) = (n*m) * x
		if r, ok := fold(nodeMul, a, b.left); ok {
			return mul(r, b.right)
		}
	}
	return &node{kind: nodeMul, left: a, right: b}
}

func div(a, b *node) *node {
	switch {
	case isnum(a, 0):
		return num(0)
	case isnum(b, 1):
		return a
	}
	if r, ok := fold(nodeDiv, a, b); ok {
		return r
	}
	return &node{kind: nodeDiv, left: a, right: b}
}

func pow(a, b *node) *node {
	switch {
	case isnum(b, 0):
		return num(1)
	case isnum(b, 1):
		return a
	}
	if r, ok := fold(nodePow, a, b); ok {
		return r
	}
	return &node{kind: nodePow, left: a, right: b}
}
