// Package methods implements iterative root finding over rootfind expressions.
//
// Five methods are provided. Bisect and FalsePosition shrink a bracket whose
// endpoints have function values of opposite signs. FixedPoint iterates a
// caller-supplied g with a fixed point at the root of f. Newton and
// ModifiedNewton follow the symbolic derivatives of f; ModifiedNewton keeps
// its fast convergence at roots of multiplicity greater than one.
//
// Every method returns a Result holding the estimate and a trace with one step
// per iteration, in order. A run that stops early still returns its partial
// result along with a *RunError describing why.
//
// Request and Run accept every numeric input as text, for callers which take
// input from forms or command lines.
package methods
