package rootfind_test

import (
	"testing"

	"github.com/zephyrtronium/rootfind"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1×2")
	f.Add("x^3 - 2x^2 + 4/3 x - 8/27")
	f.Add("cos^2 x")
	f.Add("2exp(x) + 3e^x - 2e-3")
	f.Fuzz(func(t *testing.T, s string) {
		e, err := rootfind.ParseString(s, rootfind.AnyVars())
		if err != nil {
			if _, ok := err.(rootfind.ParseError); !ok {
				t.Errorf("%q gave non-ParseError %#v", s, err)
			}
			return
		}
		// Formatted text must always parse again.
		if _, err := rootfind.ParseString(e.Text(), rootfind.AnyVars()); err != nil {
			t.Errorf("%q formatted as %q which does not parse: %v", s, e.Text(), err)
		}
	})
}
