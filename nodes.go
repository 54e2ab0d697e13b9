package rootfind

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified once they are part of a parsed or derived expression;
// transformations build new nodes and share unchanged subtrees.
type node struct {
	kind nodeKind

	num  float64 // nodeNum
	name string  // nodeName, nodeCall
	fn   Func    // nodeCall

	left  *node
	right *node
	args  []*node // nodeCall
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // literal num
	nodeName // lookup(name)
	nodeCall // fn(args...)

	nodeNeg // -left
	nodeAdd // left + right
	nodeSub // left - right
	nodeMul // left * right
	nodeDiv // left / right
	nodePow // left ^ right
)

//go:generate stringer -type=nodeKind -trimprefix=node

// symbol returns the operator text for a binary node kind.
func (k nodeKind) symbol() string {
	switch k {
	case nodeNeg, nodeSub:
		return "-"
	case nodeAdd:
		return "+"
	case nodeMul:
		return "*"
	case nodeDiv:
		return "/"
	case nodePow:
		return "^"
	default:
		return k.String()
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false, false)
	return b.String()
}

// fmt writes the node fully bracketed, alternating round and square brackets
// at each level.
func (n *node) fmt(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, square, alt)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, square, alt)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(fmtnum(n.num))
	case nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		n.fmtargs(b, !square, alt)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, !square, alt)
	case nodeAdd, nodeSub, nodePow:
		n.left.fmt(b, !square, alt)
		b.WriteString(" " + n.kind.symbol() + " ")
		n.right.fmt(b, !square, alt)
	case nodeMul:
		n.left.fmt(b, !square, alt)
		if !alt {
			b.WriteString(" * ")
		} else {
			b.WriteString(" × ")
		}
		n.right.fmt(b, !square, alt)
	case nodeDiv:
		n.left.fmt(b, !square, alt)
		if !alt {
			b.WriteString(" / ")
		} else {
			b.WriteString(" ÷ ")
		}
		n.right.fmt(b, !square, alt)
	default:
		panic("rootfind: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, !square, alt)
	}
}

// Binding strengths used when writing infix text. They mirror the parser's
// operator precedences.
const (
	bindAdd  = 1
	bindMul  = 5
	bindNeg  = 10
	bindPow  = 15
	bindAtom = 20
)

// binding returns how tightly the node's top-level operation binds.
func (n *node) binding() int {
	switch n.kind {
	case nodeAdd, nodeSub:
		return bindAdd
	case nodeMul, nodeDiv:
		return bindMul
	case nodeNeg:
		return bindNeg
	case nodePow:
		return bindPow
	case nodeNum:
		if n.num < 0 {
			return bindNeg
		}
	}
	return bindAtom
}

// infix writes the node using the fewest brackets needed for the parser to
// recover the same tree.
func (n *node) infix(b *strings.Builder) {
	switch n.kind {
	case nodeNum:
		b.WriteString(fmtnum(n.num))
	case nodeName:
		b.WriteString(n.name)
	case nodeCall:
		b.WriteString(n.name)
		if len(n.args) == 0 {
			return
		}
		b.WriteByte('(')
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.infix(b)
		}
		b.WriteByte(')')
	case nodeNeg:
		b.WriteByte('-')
		n.left.group(b, n.left.binding() < bindNeg)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		p := n.binding()
		right := n.kind == nodePow
		lb, rb := n.left.binding(), n.right.binding()
		n.left.group(b, lb < p || (right && lb == p))
		if n.kind == nodePow {
			b.WriteByte('^')
		} else {
			b.WriteString(" " + n.kind.symbol() + " ")
		}
		n.right.group(b, rb < p || (!right && rb == p))
	default:
		panic("rootfind: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) group(b *strings.Builder, paren bool) {
	if !paren {
		n.infix(b)
		return
	}
	b.WriteByte('(')
	n.infix(b)
	b.WriteByte(')')
}

func fmtnum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// dependsOn reports whether the tree refers to the named variable.
func (n *node) dependsOn(name string) bool {
	switch n.kind {
	case nodeName:
		return n.name == name
	case nodeCall:
		for _, a := range n.args {
			if a.dependsOn(name) {
				return true
			}
		}
		return false
	case nodeNeg:
		return n.left.dependsOn(name)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		return n.left.dependsOn(name) || n.right.dependsOn(name)
	}
	return false
}

// vars adds the variable names used in the tree to m.
func (n *node) vars(m map[string]bool) {
	switch n.kind {
	case nodeName:
		m[n.name] = true
	case nodeCall:
		for _, a := range n.args {
			a.vars(m)
		}
	case nodeNeg:
		n.left.vars(m)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodePow:
		n.left.vars(m)
		n.right.vars(m)
	}
}

// size is the number of nodes in the tree.
func (n *node) size() int {
	k := 1
	if n.left != nil {
		k += n.left.size()
	}
	if n.right != nil {
		k += n.right.size()
	}
	for _, a := range n.args {
		k += a.size()
	}
	return k
}
