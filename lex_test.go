package rootfind

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func tokNum(text string, v float64, pos int) lexToken {
	return lexToken{text: text, kind: tokenNum, pos: pos, num: v}
}

func tokIdent(text string, pos int) lexToken {
	return lexToken{text: text, kind: tokenIdent, pos: pos}
}

func tokOp(text string, pos int) lexToken {
	return lexToken{text: text, kind: tokenOp, pos: pos}
}

func tokOpen(text string, pos int) lexToken {
	return lexToken{text: text, kind: tokenOpen, pos: pos}
}

func tokClose(text string, pos int) lexToken {
	return lexToken{text: text, kind: tokenClose, pos: pos}
}

func tokEOF(pos int) lexToken {
	return lexToken{kind: tokenEOF, pos: pos}
}

// tokBad is the token returned alongside a lexing error.
func tokBad(pos int) lexToken {
	return lexToken{pos: pos}
}

func TestLex(t *testing.T) {
	cases := []struct {
		src    string
		tokens []lexToken
		errs   int
	}{
		// whitespace
		{"", []lexToken{tokEOF(1)}, 0},
		{" \t \r\n ", []lexToken{tokEOF(7)}, 0},

		// numbers
		{"0", []lexToken{tokNum("0", 0, 1), tokEOF(2)}, 0},
		{"9876543210", []lexToken{tokNum("9876543210", 9876543210, 1), tokEOF(11)}, 0},
		{"1 0", []lexToken{tokNum("1", 1, 1), tokNum("0", 0, 3), tokEOF(4)}, 0},
		{"1.0", []lexToken{tokNum("1.0", 1, 1), tokEOF(4)}, 0},
		{"1.", []lexToken{tokNum("1.", 1, 1), tokEOF(3)}, 0},
		{".1", []lexToken{tokNum(".1", 0.1, 1), tokEOF(3)}, 0},
		{"-1", []lexToken{tokOp("-", 1), tokNum("1", 1, 2), tokEOF(3)}, 0},
		{"1e1", []lexToken{tokNum("1e1", 10, 1), tokEOF(4)}, 0},
		{"1E1", []lexToken{tokNum("1E1", 10, 1), tokEOF(4)}, 0},
		{"1e+1", []lexToken{tokNum("1e+1", 10, 1), tokEOF(5)}, 0},
		{"1e-1", []lexToken{tokNum("1e-1", 0.1, 1), tokEOF(5)}, 0},
		{"2e-3", []lexToken{tokNum("2e-3", 2e-3, 1), tokEOF(5)}, 0},
		{"1.0e1", []lexToken{tokNum("1.0e1", 10, 1), tokEOF(6)}, 0},
		{"1.e2", []lexToken{tokNum("1.e2", 100, 1), tokEOF(5)}, 0},
		{".1e1", []lexToken{tokNum(".1e1", 1, 1), tokEOF(5)}, 0},
		{"1+0", []lexToken{tokNum("1", 1, 1), tokOp("+", 2), tokNum("0", 0, 3), tokEOF(4)}, 0},
		{"1×0", []lexToken{tokNum("1", 1, 1), tokOp("×", 2), tokNum("0", 0, 3), tokEOF(4)}, 0},
		{"(1)", []lexToken{tokOpen("(", 1), tokNum("1", 1, 2), tokClose(")", 3), tokEOF(4)}, 0},

		// a marker with no exponent digits is the identifier e
		{"2e", []lexToken{tokNum("2", 2, 1), tokIdent("e", 2), tokEOF(3)}, 0},
		{"1e+", []lexToken{tokNum("1", 1, 1), tokIdent("e", 2), tokOp("+", 3), tokEOF(4)}, 0},
		{"2e-x", []lexToken{tokNum("2", 2, 1), tokIdent("e", 2), tokOp("-", 3), tokIdent("x", 4), tokEOF(5)}, 0},
		{"2E+y", []lexToken{tokNum("2", 2, 1), tokIdent("E", 2), tokOp("+", 3), tokIdent("y", 4), tokEOF(5)}, 0},
		{"2e--3", []lexToken{tokNum("2", 2, 1), tokIdent("e", 2), tokOp("-", 3), tokOp("-", 4), tokNum("3", 3, 5), tokEOF(6)}, 0},
		{"3e^x", []lexToken{tokNum("3", 3, 1), tokIdent("e", 2), tokOp("^", 3), tokIdent("x", 4), tokEOF(5)}, 0},
		{"2ex", []lexToken{tokNum("2", 2, 1), tokIdent("ex", 2), tokEOF(4)}, 0},
		{"2exp(x)", []lexToken{tokNum("2", 2, 1), tokIdent("exp", 2), tokOpen("(", 5), tokIdent("x", 6), tokClose(")", 7), tokEOF(8)}, 0},
		{"2e 3", []lexToken{tokNum("2", 2, 1), tokIdent("e", 2), tokNum("3", 3, 4), tokEOF(5)}, 0},

		// juxtaposition
		{"2x", []lexToken{tokNum("2", 2, 1), tokIdent("x", 2), tokEOF(3)}, 0},
		{"2e3x", []lexToken{tokNum("2e3", 2000, 1), tokIdent("x", 4), tokEOF(5)}, 0},
		{"2_a", []lexToken{tokNum("2", 2, 1), tokIdent("_a", 2), tokEOF(4)}, 0},

		// malformed numbers
		{".", []lexToken{tokBad(1), tokEOF(2)}, 1},
		{"1.1.1", []lexToken{tokBad(1), tokNum("1", 1, 5), tokEOF(6)}, 1},
		{"1e999", []lexToken{tokBad(1), tokEOF(6)}, 1},

		// identifiers
		{"e", []lexToken{tokIdent("e", 1), tokEOF(2)}, 0},
		{"e1", []lexToken{tokIdent("e1", 1), tokEOF(3)}, 0},
		{"x2e3", []lexToken{tokIdent("x2e3", 1), tokEOF(5)}, 0},
		{"π", []lexToken{tokIdent("π", 1), tokEOF(2)}, 0},
		{"eπ", []lexToken{tokIdent("eπ", 1), tokEOF(3)}, 0},
		{"_1234_", []lexToken{tokIdent("_1234_", 1), tokEOF(7)}, 0},
		{"e(", []lexToken{tokIdent("e", 1), tokOpen("(", 2), tokEOF(3)}, 0},

		// operators
		{"+", []lexToken{tokOp("+", 1), tokEOF(2)}, 0},
		{"++", []lexToken{tokOp("+", 1), tokOp("+", 2), tokEOF(3)}, 0},
		{"a--b", []lexToken{tokIdent("a", 1), tokOp("-", 2), tokOp("-", 3), tokIdent("b", 4), tokEOF(5)}, 0},

		// brackets and separators
		{"()", []lexToken{tokOpen("(", 1), tokClose(")", 2), tokEOF(3)}, 0},
		{"[]", []lexToken{tokOpen("[", 1), tokClose("]", 2), tokEOF(3)}, 0},
		{"{}", []lexToken{tokOpen("{", 1), tokClose("}", 2), tokEOF(3)}, 0},
		{"a,b", []lexToken{tokIdent("a", 1), {text: ",", kind: tokenSep, pos: 2}, tokIdent("b", 3), tokEOF(4)}, 0},

		// stray symbols
		{"$", []lexToken{tokBad(1), tokEOF(2)}, 1},
		{";", []lexToken{tokBad(1), tokEOF(2)}, 1},
		{"a$", []lexToken{tokIdent("a", 1), tokBad(2), tokEOF(3)}, 1},
		{"$a", []lexToken{tokBad(1), tokIdent("a", 2), tokEOF(3)}, 1},
		{"0$", []lexToken{tokBad(1), tokEOF(3)}, 1},
		{"$0", []lexToken{tokBad(1), tokNum("0", 0, 2), tokEOF(3)}, 1},
		{"$$", []lexToken{tokBad(1), tokBad(2), tokEOF(3)}, 2},
	}

	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		errs := 0
		for i, want := range c.tokens {
			got, err := scan.next()
			if err == io.EOF {
				t.Errorf("%q: token %d: got EOF, want %v", c.src, i, want)
				continue
			}
			if err != nil {
				errs++
			}
			if got != want {
				t.Errorf("%q: token %d: got %v (num %g), want %v (num %g)", c.src, i, got, got.num, want, want.num)
			}
		}
		if got, err := scan.next(); err != io.EOF {
			t.Errorf("%q: extra token %v with error %v", c.src, got, err)
		}
		if errs != c.errs {
			t.Errorf("%q: got %d errors, want %d", c.src, errs, c.errs)
		}
	}
}

func TestLexErrorPos(t *testing.T) {
	cases := []struct {
		src  string
		kind string
		col  int
		text string
	}{
		{"1.1.1", "number", 4, "1.1."},
		{".", "number", 1, "."},
		{"1e5$", "number", 4, "1e5$"},
		{"1e999", "number", 5, "1e999"},
		{"x + $", "", 5, "$"},
		{"0$", "number", 2, "0$"},
	}
	for _, c := range cases {
		scan := lex(strings.NewReader(c.src))
		var err error
		for err == nil {
			var tok lexToken
			tok, err = scan.next()
			if tok.kind == tokenEOF {
				break
			}
		}
		var le *LexError
		if !errors.As(err, &le) {
			t.Errorf("%q: want *LexError, got %v", c.src, err)
			continue
		}
		if le.Kind != c.kind {
			t.Errorf("%q: want kind %q, got %q", c.src, c.kind, le.Kind)
		}
		if le.Pos() != c.col {
			t.Errorf("%q: want column %d, got %d", c.src, c.col, le.Pos())
		}
		if le.Text != c.text {
			t.Errorf("%q: want text %q, got %q", c.src, c.text, le.Text)
		}
	}
}
