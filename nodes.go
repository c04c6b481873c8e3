package bigexpr

import (
	"sort"
	"strings"
	"sync"
)

// node is a node in the typed tree of an expression. Nodes are immutable
// once built.
type node struct {
	kind nodeKind
	typ  Type

	// val is the borrowed value of a nodeNum.
	val Value
	// name is the variable name of a nodeName.
	name string

	// op and res are the operation of a nodeOp and how the registry resolved
	// it for the operand types.
	op  Op
	res Resolution

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // borrowed value
	nodeName // value of a variable in the context
	nodeOp   // op applied to left and right, either of which may be nil
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=nodeKind -trimprefix=node

// args returns the node's operands in order.
func (n *node) args() []*node {
	switch {
	case n.left == nil:
		return nil
	case n.right == nil:
		return []*node{n.left}
	default:
		return []*node{n.left, n.right}
	}
}

func (n *node) isLeaf() bool {
	return n.kind == nodeNum || n.kind == nodeName
}

// Expr is a typed expression tree resolved against a registry. Its value is
// computed by a Context according to a plan derived from its shape.
//
// Like bufio.Scanner, an Expr records the first error that occurred while
// building it. Combining an erroneous Expr yields another with the same
// error, and Eval refuses to evaluate it.
type Expr struct {
	n   *node
	reg *Registry
	// gen is the generation of reg's rules that resolved n.
	gen uint64
	err error

	once   sync.Once
	shape  string
	leaves []*node
	vars   []string
}

func errExpr(err error) *Expr {
	return &Expr{err: err}
}

// Err returns the error that occurred while building the expression, if any.
func (e *Expr) Err() error {
	return e.err
}

// Type returns the type of the expression's value, or TypeInvalid if the
// expression has an error.
func (e *Expr) Type() Type {
	if e.err != nil {
		return TypeInvalid
	}
	return e.n.typ
}

// IsLeaf reports whether the expression is a single value or variable.
func (e *Expr) IsLeaf() bool {
	return e.err == nil && e.n.isLeaf()
}

// Registry returns the registry against which the expression was resolved.
func (e *Expr) Registry() *Registry {
	if e.reg == nil {
		return Default
	}
	return e.reg
}

// Vars returns the sorted names of the variables the expression uses.
func (e *Expr) Vars() []string {
	e.walk()
	return append([]string(nil), e.vars...)
}

// walk computes the shape key and the leaf list once.
func (e *Expr) walk() {
	e.once.Do(func() {
		if e.err != nil {
			return
		}
		var b strings.Builder
		seen := make(map[string]bool)
		var rec func(n *node)
		rec = func(n *node) {
			switch n.kind {
			case nodeNum, nodeName:
				b.WriteByte(typeSigil[n.typ])
				e.leaves = append(e.leaves, n)
				if n.kind == nodeName && !seen[n.name] {
					seen[n.name] = true
					e.vars = append(e.vars, n.name)
				}
			case nodeOp:
				b.WriteString(n.op.Symbol())
				b.WriteByte('(')
				for i, a := range n.args() {
					if i > 0 {
						b.WriteByte(',')
					}
					rec(a)
				}
				b.WriteByte(')')
			default:
				panic("bigexpr: invalid node kind " + n.kind.String())
			}
		}
		rec(e.n)
		e.shape = b.String()
		sort.Strings(e.vars)
	})
}

// typeSigil abbreviates types in shape keys.
var typeSigil = [numTypes]byte{'?', 'I', 'Q', 'F', 'P', 'M'}

func (e *Expr) String() string {
	if e.err != nil {
		return "$" + e.err.Error() + "$"
	}
	var b strings.Builder
	e.n.fmt(&b, false)
	return b.String()
}

// fmt writes n in brackets, alternating round and square with depth.
func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNum:
		b.WriteString(Format(n.val))
	case nodeName:
		b.WriteString(n.name)
	case nodeOp:
		switch {
		case n.op.infix():
			n.left.fmt(b, !square)
			b.WriteString(" " + n.op.Symbol() + " ")
			n.right.fmt(b, !square)
		case n.op == OpNeg:
			b.WriteByte('-')
			n.left.fmt(b, !square)
		default:
			b.WriteString(n.op.Symbol())
			if square {
				b.WriteByte('(')
			} else {
				b.WriteByte('[')
			}
			for i, a := range n.args() {
				if i > 0 {
					b.WriteString(", ")
				}
				a.fmt(b, square)
			}
			if square {
				b.WriteByte(')')
			} else {
				b.WriteByte(']')
			}
		}
	default:
		panic("bigexpr: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
