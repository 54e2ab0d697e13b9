// Rootfind finds roots of real functions of one variable with the bisection,
// false position, fixed point, Newton, and modified Newton methods, and
// evaluates, differentiates, and samples expressions.
//
// Usage:
//
//	# Bisection on [1, 2]
//	rootfind bisection --f 'x^2 - 3' --a 1 --b 2
//
//	# Newton's method from 1 with a tighter tolerance, as JSON
//	rootfind newton --f 'x^2 - 3' --x0 1 --tol 1e-10 --format json
//
//	# Symbolic derivatives
//	rootfind deriv --order 2 'x^3 - 2x^2 + 4x/3 - 8/27'
//
//	# Run every request in a YAML job, again whenever the file changes
//	rootfind batch --watch job.yaml
//
//	# Serve the HTTP API
//	rootfind serve --addr :8080
//
// Defaults come from ROOTFIND_* environment variables; see rootfind env.
package main

func main() {
	Execute()
}
