package rootfind_test

import (
	"errors"
	"math"
	"testing"

	"github.com/zephyrtronium/rootfind"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("sqrt(x - 3)")
	f.Fuzz(func(t *testing.T, s string) {
		r, err := rootfind.EvalString(s, rootfind.SetVar("x", 0))
		if err != nil {
			return
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("%q evaluated to %g without error", s, r)
		}
	})
}

func FuzzDerivative(f *testing.F) {
	f.Add("x^2 - 3")
	f.Add("sin(x)^x")
	f.Add("log(x, 2)")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := rootfind.ParseString(s)
		if err != nil {
			return
		}
		d, err := rootfind.Derivative(e, "")
		if err != nil {
			t.Fatalf("%q did not differentiate: %v", s, err)
		}
		if _, err := d.At(1); err != nil && !errors.Is(err, rootfind.ErrUndefined) {
			t.Errorf("derivative %q of %q gave unexpected error %v", d.Text(), s, err)
		}
	})
}
