package bigexpr

import "math/big"

// Func is a function the parser recognizes by name. Functions build
// expressions from their arguments rather than computing values, so calls
// are planned and evaluated like any other operation.
type Func interface {
	// Build creates the expression for a call with the given arguments,
	// resolved against reg. len(args) is a number for which CanCall returned
	// true. reg may be nil, meaning the arguments' registry or Default.
	Build(reg *Registry, args []*Expr) *Expr

	// CanCall returns whether the function can be called with n arguments.
	// This controls how the expression parser handles instances of this
	// function:
	//
	// 	1.	If a bracketed list of n > 0 expressions follows a function, the
	//		parser treats it as an argument list if CanCall(n). (If n is 1 and
	//		!CanCall(1) and CanCall(0), then the list is a multiplication;
	//		otherwise, it is rejected.)
	//
	// 	2.	If a bare term follows a function and CanCall(1), then the parser
	//		treats the term as an argument to the function. E.g., "exp x" is
	//		parsed as "exp(x)". (If !CanCall(1), then it is a multiplication.)
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"exp":  Monadic(OpExp),
	"ln":   Monadic(OpLog),
	"log":  logFunc{},
	"sqrt": Monadic(OpSqrt),
	"pi":   Niladic(OpPi),
	"e":    Niladic(OpE),
}

type monadic Op

func (m monadic) Build(reg *Registry, args []*Expr) *Expr {
	return reg.Apply(Op(m), args[0])
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic creates a Func that applies an operation of one operand.
func Monadic(op Op) Func {
	if op.Arity() != 1 {
		panic("bigexpr: Monadic with " + op.String())
	}
	return monadic(op)
}

type niladic Op

func (n niladic) Build(reg *Registry, args []*Expr) *Expr {
	return reg.Apply(Op(n))
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic creates a Func for an operation of no operands, generally a
// constant.
func Niladic(op Op) Func {
	if op.Arity() != 0 {
		panic("bigexpr: Niladic with " + op.String())
	}
	return niladic(op)
}

// logFunc is the logarithm in base 10, or in the base given as the second of
// two arguments.
type logFunc struct{}

func (logFunc) Build(reg *Registry, args []*Expr) *Expr {
	x, base := args[0], Int(big.NewInt(10))
	if len(args) == 2 {
		base = args[1]
	}
	return reg.Div(reg.Log(x), reg.Log(base))
}

func (logFunc) CanCall(n int) bool {
	return n == 1 || n == 2
}
