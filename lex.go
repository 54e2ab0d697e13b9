package rootfind

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	// num is the value of a number token.
	num float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a real number literal.
	tokenNum
	// tokenIdent is a variable or function name.
	tokenIdent
	// tokenOp is an operator.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is the function arguments separator.
	tokenSep
)

//go:generate stringer -type=tokenKind -trimprefix=token

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in ClosedBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	operstrs      = byteidcs(Operators)
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

// puncts lists the single-rune tokens by kind.
var puncts = []struct {
	runes string
	texts []string
	kind  tokenKind
}{
	{Operators, operstrs, tokenOp},
	{OpenBrackets, openbrackets, tokenOpen},
	{CloseBrackets, closebrackets, tokenClose},
	{",", byteidcs(","), tokenSep},
}

// punct returns the kind and text of the single-rune token r, or tokenNone if
// r is not one.
func punct(r rune) (tokenKind, string) {
	for _, p := range puncts {
		if k := strings.IndexRune(p.runes, r); k >= 0 {
			return p.kind, p.texts[k]
		}
	}
	return tokenNone, ""
}

type lexer struct {
	src io.RuneReader
	// ahead holds runes that were read and put back, most recent last.
	ahead []rune
	buf   strings.Builder
	rune  int
	p     lexToken
	eof   bool
}

func lex(src io.RuneReader) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("rootfind: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("rootfind: no pushed token")
	}
	l.p = lexToken{}
	return tok
}

// readRune reads a rune, preferring runes that were put back, and advances the
// column.
func (l *lexer) readRune() (rune, error) {
	if n := len(l.ahead); n > 0 {
		r := l.ahead[n-1]
		l.ahead = l.ahead[:n-1]
		l.rune++
		return r, nil
	}
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune puts r back so that it is the next rune read. Any number of runes
// may be put back; they are read again in reverse order.
func (l *lexer) unreadRune(r rune) {
	l.ahead = append(l.ahead, r)
	l.rune--
}

// next scans the next token from the input. The first time EOF is encountered,
// the result is an EOF token with a nil error. Subsequent times, if the EOF
// token is not pushed, the result is an empty token with io.EOF.
func (l *lexer) next() (lexToken, error) {
	if tok := l.p; tok.kind != tokenNone {
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	r, err := l.skipSpace()
	if err != nil {
		if errors.Is(err, io.EOF) {
			l.eof = true
			return lexToken{kind: tokenEOF, pos: l.rune}, nil
		}
		return lexToken{pos: l.rune}, err
	}
	tok := lexToken{pos: l.rune - 1}
	switch {
	case isDigit(r), r == '.':
		l.unreadRune(r)
		tok.kind = tokenNum
		tok.num, err = l.scanNum()
	case r == '_', unicode.IsLetter(r):
		l.unreadRune(r)
		tok.kind = tokenIdent
		err = l.scanIdent()
	default:
		tok.kind, tok.text = punct(r)
		if tok.kind == tokenNone {
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return lexToken{pos: tok.pos}, l.error("")
		}
		return tok, nil
	}
	if err != nil {
		return lexToken{pos: tok.pos}, err
	}
	tok.text = l.buf.String()
	return tok, nil
}

// skipSpace reads runes until one is not white space.
func (l *lexer) skipSpace() (rune, error) {
	for {
		r, err := l.readRune()
		if err != nil || !unicode.IsSpace(r) {
			return r, err
		}
	}
}

// scanNum scans a decimal real number of the form digits[.digits][exponent]
// and returns its value. A number ends at anything that can start another
// token, so 2x is the number 2 followed by the identifier x.
func (l *lexer) scanNum() (float64, error) {
	n, err := l.digits()
	if err != nil {
		return 0, err
	}
	r, err := l.readRune()
	switch {
	case err == nil && r == '.':
		l.buf.WriteRune(r)
		m, err := l.digits()
		if err != nil {
			return 0, err
		}
		n += m
	case err == nil:
		l.unreadRune(r)
	case !errors.Is(err, io.EOF):
		return 0, err
	}
	if n == 0 {
		return 0, l.error("number")
	}
	if err := l.scanExp(); err != nil {
		return 0, err
	}
	r, err = l.readRune()
	switch {
	case err == nil && endsNum(r):
		l.unreadRune(r)
	case err == nil:
		l.buf.WriteRune(r)
		return 0, l.error("number")
	case !errors.Is(err, io.EOF):
		return 0, err
	}
	v, err := strconv.ParseFloat(l.buf.String(), 64)
	if err != nil {
		// The text is well-formed, so this is a range error.
		return 0, l.error("number")
	}
	return v, nil
}

// scanExp scans an exponent if one follows the mantissa. An e or E is an
// exponent marker only when a digit follows it, possibly after a sign.
// Otherwise the marker and sign are put back, so that 2e is 2 times e and
// 2e-x is 2 times e minus x.
func (l *lexer) scanExp() error {
	mark, err := l.readRune()
	if err != nil {
		return eofOK(err)
	}
	if mark != 'e' && mark != 'E' {
		l.unreadRune(mark)
		return nil
	}
	var sign rune
	r, err := l.readRune()
	if err == nil && (r == '+' || r == '-') {
		sign = r
		r, err = l.readRune()
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if err != nil || !isDigit(r) {
		if err == nil {
			l.unreadRune(r)
		}
		if sign != 0 {
			l.unreadRune(sign)
		}
		l.unreadRune(mark)
		return nil
	}
	l.buf.WriteRune(mark)
	if sign != 0 {
		l.buf.WriteRune(sign)
	}
	l.buf.WriteRune(r)
	_, err = l.digits()
	return err
}

// digits scans a run of decimal digits and returns how many there were.
func (l *lexer) digits() (int, error) {
	for n := 0; ; n++ {
		r, err := l.readRune()
		if err != nil {
			return n, eofOK(err)
		}
		if !isDigit(r) {
			l.unreadRune(r)
			return n, nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			// next puts back the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune.
			return eofOK(err)
		}
		switch {
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune(r)
			return nil
		}
	}
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// endsNum reports whether r may directly follow a number.
func endsNum(r rune) bool {
	if r == '_' || unicode.IsLetter(r) || unicode.IsSpace(r) {
		return true
	}
	k, _ := punct(r)
	return k != tokenNone
}

func eofOK(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune - 1,
	}
}

// LexError indicates an invalid token. It implements ParseError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "identifier", or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the column of the last rune scanned before the error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
