// Package rootfind implements a real-valued expression engine for root
// finding: a parser for formulas in one variable, a float64 evaluator that
// reports domain errors instead of producing NaN or infinities, a symbolic
// differentiator, and a sampler for plotting.
//
// The syntax of expressions is intended to be similar to math you'd write in
// your notes. "2 x y" is a multiplication of three terms, and so are "2x y"
// and "{2}[x](y)". "-2^2^n" is the same as "-(2^(2^n))", where "a^b" is
// exponentiation. Functions may be called with or without brackets, so
// "sin x" and "sin(x)" are the same, and "cos^2 x" is "(cos x)^2".
// An e after a number is an exponent only when digits follow it, so "2e-3" is
// 0.002 while "2e" and "2exp(x)" are products.
//
// Expressions are immutable once parsed. A parsed expression may be evaluated
// and differentiated concurrently by any number of goroutines.
//
// The root-finding algorithms which consume expressions live in package
// methods.
package rootfind
