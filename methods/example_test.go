package methods_test

import (
	"fmt"

	"github.com/zephyrtronium/rootfind"
	"github.com/zephyrtronium/rootfind/methods"
)

func ExampleNewton() {
	f, err := rootfind.ParseString("x^2 - 3")
	if err != nil {
		panic(err)
	}
	res, err := methods.Newton(f, 1, methods.Config{Tolerance: 1e-6, MaxIter: 100})
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.6f after %d iterations: %v\n", res.Root, res.Iterations, res.Status)
	// Output: 1.732051 after 5 iterations: converged
}

func ExampleBisect() {
	f, err := rootfind.ParseString("x^2 - 3")
	if err != nil {
		panic(err)
	}
	res, err := methods.Bisect(f, 1, 2, methods.Config{Tolerance: 1e-3, MaxIter: 100})
	if err != nil {
		panic(err)
	}
	for _, s := range res.Steps[:3] {
		fmt.Printf("%d [%g, %g] c=%g f(c)=%g\n", s.Iteration, s.A, s.B, s.C, s.FC)
	}
	fmt.Printf("%.2f %d %v\n", res.Root, res.Iterations, res.Status)
	// Output:
	// 1 [1, 2] c=1.5 f(c)=-0.75
	// 2 [1.5, 2] c=1.75 f(c)=0.0625
	// 3 [1.5, 1.75] c=1.625 f(c)=-0.359375
	// 1.73 10 converged
}

func ExampleRequest_Run() {
	req := methods.Request{
		Method: "multiple",
		F:      "x^3 - 2*x^2 + 4/3*x - 8/27",
		X0:     "0.5",
	}
	rep, err := req.Run(methods.DefaultConfig())
	if err != nil {
		panic(err)
	}
	fmt.Println(rep.Derivative)
	fmt.Println(rep.Second)
	fmt.Printf("%.4f %v\n", rep.Root, rep.Status)
	// Output:
	// 3 * x^2 - 4 * x + 4 / 3
	// 6 * x - 4
	// 0.6667 converged
}
