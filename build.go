package bigexpr

import (
	"math/big"
)

// Leaves borrow their values: the expression reads the value each time it is
// evaluated, so changes to the value between evaluations are visible.

// Int creates an expression for an integer value.
func Int(x *big.Int) *Expr { return Of(x) }

// Rat creates an expression for a rational value.
func Rat(x *big.Rat) *Expr { return Of(x) }

// Float creates an expression for a floating-point value.
func Float(x *big.Float) *Expr { return Of(x) }

// PolyOf creates an expression for a polynomial value.
func PolyOf(p *Poly) *Expr { return Of(p) }

// MatOf creates an expression for a matrix value.
func MatOf(m *Mat) *Expr { return Of(m) }

// Of creates an expression for a value of any kernel type. It panics if v is
// not one.
func Of(v Value) *Expr {
	t := TypeOf(v)
	if t == TypeInvalid {
		panic("bigexpr: Of with invalid value")
	}
	return &Expr{n: &node{kind: nodeNum, typ: t, val: v}}
}

// Var creates an expression for a variable of type t, resolved from the
// context each time the expression is evaluated.
func Var(name string, t Type) *Expr {
	if t == TypeInvalid || t >= numTypes {
		panic("bigexpr: invalid type for variable " + name)
	}
	return &Expr{n: &node{kind: nodeName, typ: t, name: name}}
}

// Neg creates an expression for -x.
func Neg(x *Expr) *Expr { return build(nil, OpNeg, x) }

// Add creates an expression for x + y.
func Add(x, y *Expr) *Expr { return build(nil, OpAdd, x, y) }

// Sub creates an expression for x - y.
func Sub(x, y *Expr) *Expr { return build(nil, OpSub, x, y) }

// Mul creates an expression for x * y.
func Mul(x, y *Expr) *Expr { return build(nil, OpMul, x, y) }

// Div creates an expression for x / y.
func Div(x, y *Expr) *Expr { return build(nil, OpDiv, x, y) }

// Pow creates an expression for x ^ y.
func Pow(x, y *Expr) *Expr { return build(nil, OpPow, x, y) }

// Exp creates an expression for exp(x).
func Exp(x *Expr) *Expr { return build(nil, OpExp, x) }

// Log creates an expression for the natural logarithm of x.
func Log(x *Expr) *Expr { return build(nil, OpLog, x) }

// Sqrt creates an expression for the square root of x.
func Sqrt(x *Expr) *Expr { return build(nil, OpSqrt, x) }

// Pi creates an expression for π.
func Pi() *Expr { return build(nil, OpPi) }

// E creates an expression for e.
func E() *Expr { return build(nil, OpE) }

// Neg creates an expression for -x resolved against r.
func (r *Registry) Neg(x *Expr) *Expr { return build(r, OpNeg, x) }

// Add creates an expression for x + y resolved against r.
func (r *Registry) Add(x, y *Expr) *Expr { return build(r, OpAdd, x, y) }

// Sub creates an expression for x - y resolved against r.
func (r *Registry) Sub(x, y *Expr) *Expr { return build(r, OpSub, x, y) }

// Mul creates an expression for x * y resolved against r.
func (r *Registry) Mul(x, y *Expr) *Expr { return build(r, OpMul, x, y) }

// Div creates an expression for x / y resolved against r.
func (r *Registry) Div(x, y *Expr) *Expr { return build(r, OpDiv, x, y) }

// Pow creates an expression for x ^ y resolved against r.
func (r *Registry) Pow(x, y *Expr) *Expr { return build(r, OpPow, x, y) }

// Exp creates an expression for exp(x) resolved against r.
func (r *Registry) Exp(x *Expr) *Expr { return build(r, OpExp, x) }

// Log creates an expression for ln(x) resolved against r.
func (r *Registry) Log(x *Expr) *Expr { return build(r, OpLog, x) }

// Sqrt creates an expression for the square root of x resolved against r.
func (r *Registry) Sqrt(x *Expr) *Expr { return build(r, OpSqrt, x) }

// Pi creates an expression for π resolved against r.
func (r *Registry) Pi() *Expr { return build(r, OpPi) }

// E creates an expression for e resolved against r.
func (r *Registry) E() *Expr { return build(r, OpE) }

// Apply creates an expression for any operation with a direct or resolvable
// rule in r. It is the general form of the other builders.
func (r *Registry) Apply(op Op, args ...*Expr) *Expr {
	if len(args) > 2 {
		return errExpr(&TypeError{Op: op, Reason: "too many operands"})
	}
	return build(r, op, args...)
}

// build resolves op over the operands' types. reg is the registry requested
// by the caller, or nil to use the operands' registry or Default.
func build(reg *Registry, op Op, args ...*Expr) *Expr {
	types := make([]Type, len(args))
	for i, a := range args {
		if a.err != nil {
			return a
		}
		switch {
		case a.reg == nil: // leaves fit anywhere
		case reg == nil:
			reg = a.reg
		case reg != a.reg:
			return errExpr(&TypeError{Op: op, Args: argTypes(args), Reason: "operands from different registries"})
		}
		types[i] = a.n.typ
	}
	if reg == nil {
		reg = Default
	}
	for _, a := range args {
		if err := reg.stale(op, a); err != nil {
			return errExpr(err)
		}
	}
	res, err := reg.Resolve(op, types...)
	if err != nil {
		return errExpr(err)
	}
	n := &node{kind: nodeOp, typ: res.Result(), op: op, res: res}
	if len(args) > 0 {
		n.left = args[0].n
	}
	if len(args) > 1 {
		n.right = args[1].n
	}
	return &Expr{n: n, reg: reg, gen: reg.gen}
}

func argTypes(args []*Expr) []Type {
	t := make([]Type, len(args))
	for i, a := range args {
		t[i] = a.Type()
	}
	return t
}
