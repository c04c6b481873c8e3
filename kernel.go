package bigexpr

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// workspace is scalar storage that primitives may use freely. It belongs to a
// Context so that it is allocated once, not once per operation.
type workspace struct {
	i big.Int
	r big.Rat
	f big.Float
}

// Default is the registry holding every primitive of the built-in kernel.
var Default = defaultRegistry()

func defaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(intRules()...)
	r.MustRegister(ratRules()...)
	r.MustRegister(floatRules()...)
	r.MustRegister(polyRules()...)
	r.MustRegister(matRules()...)
	r.MustRegister(convRules()...)
	return r
}

func unary(op Op, t Type, f Primitive) Rule {
	return Rule{Op: op, Args: []Type{t}, Result: t, Call: f}
}

func binary(op Op, a, b, res Type, f Primitive) Rule {
	return Rule{Op: op, Args: []Type{a, b}, Result: res, Call: f}
}

func ternary(op Op, t Type, scratch int, f Primitive) Rule {
	return Rule{Op: op, Args: []Type{t, t, t}, Result: t, Scratch: scratch, Call: f}
}

// smallExp converts an exponent for the kernels that multiply repeatedly.
func smallExp(y *big.Int) (uint, bool) {
	if y.Sign() < 0 || !y.IsUint64() || y.Uint64() > math.MaxUint32 {
		return 0, false
	}
	return uint(y.Uint64()), true
}

func intRules() []Rule {
	op1 := func(f func(z, x *big.Int) *big.Int) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*big.Int), args[0].(*big.Int))
			return nil
		}
	}
	op2 := func(f func(z, x, y *big.Int) *big.Int) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*big.Int), args[0].(*big.Int), args[1].(*big.Int))
			return nil
		}
	}
	addmul := func(sub bool) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			z, acc := dst.(*big.Int), args[0].(*big.Int)
			t := ctx.ws.i.Mul(args[1].(*big.Int), args[2].(*big.Int))
			if sub {
				z.Sub(acc, t)
			} else {
				z.Add(acc, t)
			}
			return nil
		}
	}
	return []Rule{
		unary(OpSet, TypeInt, op1((*big.Int).Set)),
		unary(OpNeg, TypeInt, op1((*big.Int).Neg)),
		binary(OpAdd, TypeInt, TypeInt, TypeInt, op2((*big.Int).Add)),
		binary(OpSub, TypeInt, TypeInt, TypeInt, op2((*big.Int).Sub)),
		binary(OpMul, TypeInt, TypeInt, TypeInt, op2((*big.Int).Mul)),
		binary(OpDiv, TypeInt, TypeInt, TypeRat, func(ctx *Context, dst Value, args, scratch []Value) error {
			x, y := args[0].(*big.Int), args[1].(*big.Int)
			if y.Sign() == 0 {
				return &DomainError{X: y, Arg: 2, Func: "/"}
			}
			dst.(*big.Rat).SetFrac(x, y)
			return nil
		}),
		binary(OpPow, TypeInt, TypeInt, TypeInt, func(ctx *Context, dst Value, args, scratch []Value) error {
			x, y := args[0].(*big.Int), args[1].(*big.Int)
			if _, ok := smallExp(y); !ok {
				return &DomainError{X: y, Arg: 2, Func: "^"}
			}
			dst.(*big.Int).Exp(x, y, nil)
			return nil
		}),
		ternary(OpAddMul, TypeInt, 0, addmul(false)),
		ternary(OpSubMul, TypeInt, 0, addmul(true)),
	}
}

func ratRules() []Rule {
	op1 := func(f func(z, x *big.Rat) *big.Rat) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*big.Rat), args[0].(*big.Rat))
			return nil
		}
	}
	op2 := func(f func(z, x, y *big.Rat) *big.Rat) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*big.Rat), args[0].(*big.Rat), args[1].(*big.Rat))
			return nil
		}
	}
	// withInt applies a rational operation with an integer right operand.
	withInt := func(f func(z, x, y *big.Rat) *big.Rat) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			y := ctx.ws.r.SetInt(args[1].(*big.Int))
			f(dst.(*big.Rat), args[0].(*big.Rat), y)
			return nil
		}
	}
	return []Rule{
		unary(OpSet, TypeRat, op1((*big.Rat).Set)),
		unary(OpNeg, TypeRat, op1((*big.Rat).Neg)),
		binary(OpAdd, TypeRat, TypeRat, TypeRat, op2((*big.Rat).Add)),
		binary(OpSub, TypeRat, TypeRat, TypeRat, op2((*big.Rat).Sub)),
		binary(OpMul, TypeRat, TypeRat, TypeRat, op2((*big.Rat).Mul)),
		binary(OpDiv, TypeRat, TypeRat, TypeRat, func(ctx *Context, dst Value, args, scratch []Value) error {
			x, y := args[0].(*big.Rat), args[1].(*big.Rat)
			if y.Sign() == 0 {
				return &DomainError{X: y, Arg: 2, Func: "/"}
			}
			dst.(*big.Rat).Quo(x, y)
			return nil
		}),
		binary(OpAdd, TypeRat, TypeInt, TypeRat, withInt((*big.Rat).Add)),
		binary(OpSub, TypeRat, TypeInt, TypeRat, withInt((*big.Rat).Sub)),
		binary(OpMul, TypeRat, TypeInt, TypeRat, withInt((*big.Rat).Mul)),
		binary(OpDiv, TypeRat, TypeInt, TypeRat, func(ctx *Context, dst Value, args, scratch []Value) error {
			if args[1].(*big.Int).Sign() == 0 {
				return &DomainError{X: args[1], Arg: 2, Func: "/"}
			}
			y := ctx.ws.r.SetInt(args[1].(*big.Int))
			dst.(*big.Rat).Quo(args[0].(*big.Rat), y)
			return nil
		}),
		binary(OpPow, TypeRat, TypeInt, TypeRat, func(ctx *Context, dst Value, args, scratch []Value) error {
			x, y := args[0].(*big.Rat), args[1].(*big.Int)
			if y.Sign() < 0 && x.Sign() == 0 {
				return &DomainError{X: x, Arg: 1, Func: "^"}
			}
			e := ctx.ws.i.Abs(y)
			if _, ok := smallExp(e); !ok {
				return &DomainError{X: y, Arg: 2, Func: "^"}
			}
			var n, d big.Int
			n.Exp(x.Num(), e, nil)
			d.Exp(x.Denom(), e, nil)
			if y.Sign() < 0 {
				dst.(*big.Rat).SetFrac(&d, &n)
			} else {
				dst.(*big.Rat).SetFrac(&n, &d)
			}
			return nil
		}),
	}
}

// recoverNaN converts a big.ErrNaN panic from a float operation into a
// DomainError.
func recoverNaN(err *error, name string, x Value) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(big.ErrNaN); ok {
		*err = &DomainError{X: x, Func: name}
		return
	}
	panic(r)
}

// floatPrec gives z the context precision if it has none.
func floatPrec(ctx *Context, z *big.Float) *big.Float {
	if z.Prec() == 0 {
		z.SetPrec(ctx.prec)
	}
	return z
}

func floatRules() []Rule {
	op1 := func(name string, f func(z, x *big.Float) *big.Float) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) (err error) {
			defer recoverNaN(&err, name, args[0])
			f(floatPrec(ctx, dst.(*big.Float)), args[0].(*big.Float))
			return nil
		}
	}
	op2 := func(name string, f func(z, x, y *big.Float) *big.Float) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) (err error) {
			defer recoverNaN(&err, name, args[1])
			f(floatPrec(ctx, dst.(*big.Float)), args[0].(*big.Float), args[1].(*big.Float))
			return nil
		}
	}
	const0 := func(f func(z *big.Float) *big.Float) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(floatPrec(ctx, dst.(*big.Float)))
			return nil
		}
	}
	return []Rule{
		unary(OpSet, TypeFloat, op1("=", (*big.Float).Set)),
		unary(OpNeg, TypeFloat, op1("-", (*big.Float).Neg)),
		binary(OpAdd, TypeFloat, TypeFloat, TypeFloat, op2("+", (*big.Float).Add)),
		binary(OpSub, TypeFloat, TypeFloat, TypeFloat, op2("-", (*big.Float).Sub)),
		binary(OpMul, TypeFloat, TypeFloat, TypeFloat, op2("*", (*big.Float).Mul)),
		binary(OpDiv, TypeFloat, TypeFloat, TypeFloat, op2("/", (*big.Float).Quo)),
		binary(OpPow, TypeFloat, TypeFloat, TypeFloat, func(ctx *Context, dst Value, args, scratch []Value) (err error) {
			x, y := args[0].(*big.Float), args[1].(*big.Float)
			// TODO: allow a negative base with an integer exponent
			if x.Signbit() {
				return &DomainError{X: x, Arg: 1, Func: "^"}
			}
			defer recoverNaN(&err, "^", y)
			bigfloat.Pow(floatPrec(ctx, dst.(*big.Float)), x, y)
			return nil
		}),
		unary(OpExp, TypeFloat, op1("exp", bigfloat.Exp)),
		unary(OpLog, TypeFloat, func(ctx *Context, dst Value, args, scratch []Value) (err error) {
			x := args[0].(*big.Float)
			if x.Sign() <= 0 {
				return &DomainError{X: x, Arg: 1, Func: "ln"}
			}
			defer recoverNaN(&err, "ln", x)
			bigfloat.Log(floatPrec(ctx, dst.(*big.Float)), x)
			return nil
		}),
		unary(OpSqrt, TypeFloat, func(ctx *Context, dst Value, args, scratch []Value) (err error) {
			x := args[0].(*big.Float)
			if x.Sign() < 0 {
				return &DomainError{X: x, Arg: 1, Func: "sqrt"}
			}
			defer recoverNaN(&err, "sqrt", x)
			floatPrec(ctx, dst.(*big.Float)).Sqrt(x)
			return nil
		}),
		{Op: OpPi, Result: TypeFloat, Call: const0(bigfloat.Pi)},
		{Op: OpE, Result: TypeFloat, Call: func(ctx *Context, dst Value, args, scratch []Value) error {
			bigfloat.Exp(floatPrec(ctx, dst.(*big.Float)), ctx.ws.f.SetInt64(1))
			return nil
		}},
	}
}

func polyRules() []Rule {
	op1 := func(f func(z, x *Poly) *Poly) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*Poly), args[0].(*Poly))
			return nil
		}
	}
	op2 := func(f func(z, x, y *Poly) *Poly) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*Poly), args[0].(*Poly), args[1].(*Poly))
			return nil
		}
	}
	withInt := func(f func(z, x *Poly, k *big.Int) *Poly) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			f(dst.(*Poly), args[0].(*Poly), args[1].(*big.Int))
			return nil
		}
	}
	addmul := func(sub bool) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			z, acc, x, y := dst.(*Poly), args[0].(*Poly), args[1].(*Poly), args[2].(*Poly)
			if z == x || z == y {
				s := scratch[0].(*Poly).Set(acc)
				s.accumulate(x, y, sub, &ctx.ws.i)
				z.c, s.c = s.c, z.c
				return nil
			}
			z.Set(acc).accumulate(x, y, sub, &ctx.ws.i)
			return nil
		}
	}
	return []Rule{
		unary(OpSet, TypePoly, op1((*Poly).Set)),
		unary(OpNeg, TypePoly, op1((*Poly).Neg)),
		binary(OpAdd, TypePoly, TypePoly, TypePoly, op2((*Poly).Add)),
		binary(OpSub, TypePoly, TypePoly, TypePoly, op2((*Poly).Sub)),
		{Op: OpMul, Args: []Type{TypePoly, TypePoly}, Result: TypePoly, Scratch: 1,
			Call: func(ctx *Context, dst Value, args, scratch []Value) error {
				z, s := dst.(*Poly), scratch[0].(*Poly)
				s.mul(args[0].(*Poly), args[1].(*Poly))
				z.c, s.c = s.c, z.c
				return nil
			}},
		binary(OpAdd, TypePoly, TypeInt, TypePoly, withInt((*Poly).AddConst)),
		binary(OpSub, TypePoly, TypeInt, TypePoly, withInt((*Poly).SubConst)),
		binary(OpMul, TypeInt, TypePoly, TypePoly, func(ctx *Context, dst Value, args, scratch []Value) error {
			dst.(*Poly).Scale(args[0].(*big.Int), args[1].(*Poly))
			return nil
		}),
		{Op: OpPow, Args: []Type{TypePoly, TypeInt}, Result: TypePoly, Scratch: 2,
			Call: func(ctx *Context, dst Value, args, scratch []Value) error {
				k, ok := smallExp(args[1].(*big.Int))
				if !ok {
					return &DomainError{X: args[1], Arg: 2, Func: "^"}
				}
				dst.(*Poly).pow(args[0].(*Poly), k, scratch[0].(*Poly), scratch[1].(*Poly))
				return nil
			}},
		ternary(OpAddMul, TypePoly, 1, addmul(false)),
		ternary(OpSubMul, TypePoly, 1, addmul(true)),
	}
}

func matRules() []Rule {
	op2 := func(op Op, f func(z, x, y *Mat) *Mat) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			x, y := args[0].(*Mat), args[1].(*Mat)
			if err := sameShape(op, x, y); err != nil {
				return err
			}
			f(dst.(*Mat), x, y)
			return nil
		}
	}
	addmul := func(sub bool) Primitive {
		return func(ctx *Context, dst Value, args, scratch []Value) error {
			z, acc, x, y := dst.(*Mat), args[0].(*Mat), args[1].(*Mat), args[2].(*Mat)
			if err := mulShape(x, y); err != nil {
				return err
			}
			if acc.rows != x.rows || acc.cols != y.cols {
				op := OpAdd
				if sub {
					op = OpSub
				}
				return &DimensionError{Op: op, Rows: [2]int{acc.rows, x.rows}, Cols: [2]int{acc.cols, y.cols}}
			}
			if z == x || z == y {
				s := scratch[0].(*Mat).Set(acc)
				s.accumulate(x, y, sub, &ctx.ws.r)
				*z, *s = *s, *z
				return nil
			}
			z.Set(acc).accumulate(x, y, sub, &ctx.ws.r)
			return nil
		}
	}
	return []Rule{
		unary(OpSet, TypeMat, func(ctx *Context, dst Value, args, scratch []Value) error {
			dst.(*Mat).Set(args[0].(*Mat))
			return nil
		}),
		unary(OpNeg, TypeMat, func(ctx *Context, dst Value, args, scratch []Value) error {
			dst.(*Mat).Neg(args[0].(*Mat))
			return nil
		}),
		binary(OpAdd, TypeMat, TypeMat, TypeMat, op2(OpAdd, (*Mat).Add)),
		binary(OpSub, TypeMat, TypeMat, TypeMat, op2(OpSub, (*Mat).Sub)),
		{Op: OpMul, Args: []Type{TypeMat, TypeMat}, Result: TypeMat, Scratch: 1,
			Call: func(ctx *Context, dst Value, args, scratch []Value) error {
				x, y := args[0].(*Mat), args[1].(*Mat)
				if err := mulShape(x, y); err != nil {
					return err
				}
				z, s := dst.(*Mat), scratch[0].(*Mat)
				s.mul(x, y)
				*z, *s = *s, *z
				return nil
			}},
		binary(OpMul, TypeRat, TypeMat, TypeMat, func(ctx *Context, dst Value, args, scratch []Value) error {
			dst.(*Mat).Scale(args[0].(*big.Rat), args[1].(*Mat))
			return nil
		}),
		binary(OpMul, TypeInt, TypeMat, TypeMat, func(ctx *Context, dst Value, args, scratch []Value) error {
			k := ctx.ws.r.SetInt(args[0].(*big.Int))
			dst.(*Mat).Scale(k, args[1].(*Mat))
			return nil
		}),
		binary(OpDiv, TypeMat, TypeRat, TypeMat, func(ctx *Context, dst Value, args, scratch []Value) error {
			k := args[1].(*big.Rat)
			if k.Sign() == 0 {
				return &DomainError{X: k, Arg: 2, Func: "/"}
			}
			dst.(*Mat).Scale(ctx.ws.r.Inv(k), args[0].(*Mat))
			return nil
		}),
		binary(OpDiv, TypeMat, TypeInt, TypeMat, func(ctx *Context, dst Value, args, scratch []Value) error {
			k := args[1].(*big.Int)
			if k.Sign() == 0 {
				return &DomainError{X: k, Arg: 2, Func: "/"}
			}
			dst.(*Mat).Scale(ctx.ws.r.SetFrac(big.NewInt(1), k), args[0].(*Mat))
			return nil
		}),
		{Op: OpPow, Args: []Type{TypeMat, TypeInt}, Result: TypeMat, Scratch: 2,
			Call: func(ctx *Context, dst Value, args, scratch []Value) error {
				x, y := args[0].(*Mat), args[1].(*big.Int)
				if x.rows != x.cols {
					return &DimensionError{Op: OpPow, Rows: [2]int{x.rows, x.rows}, Cols: [2]int{x.cols, x.cols}}
				}
				k, ok := smallExp(ctx.ws.i.Abs(y))
				if !ok {
					return &DomainError{X: y, Arg: 2, Func: "^"}
				}
				base, t := scratch[0].(*Mat), scratch[1].(*Mat)
				if y.Sign() < 0 {
					if _, ok := base.Inverse(x); !ok {
						return &DomainError{X: x, Arg: 1, Func: "^"}
					}
					x = base
				}
				dst.(*Mat).pow(x, k, base, t)
				return nil
			}},
		ternary(OpAddMul, TypeMat, 1, addmul(false)),
		ternary(OpSubMul, TypeMat, 1, addmul(true)),
	}
}

func convRules() []Rule {
	conv := func(from, to Type, f Primitive) Rule {
		return Rule{Op: OpConv, Args: []Type{from}, Result: to, Call: f}
	}
	return []Rule{
		conv(TypeInt, TypeRat, func(ctx *Context, dst Value, args, scratch []Value) error {
			dst.(*big.Rat).SetInt(args[0].(*big.Int))
			return nil
		}),
		conv(TypeInt, TypeFloat, func(ctx *Context, dst Value, args, scratch []Value) error {
			floatPrec(ctx, dst.(*big.Float)).SetInt(args[0].(*big.Int))
			return nil
		}),
		conv(TypeRat, TypeFloat, func(ctx *Context, dst Value, args, scratch []Value) error {
			floatPrec(ctx, dst.(*big.Float)).SetRat(args[0].(*big.Rat))
			return nil
		}),
		conv(TypeInt, TypePoly, func(ctx *Context, dst Value, args, scratch []Value) error {
			dst.(*Poly).SetInt(args[0].(*big.Int))
			return nil
		}),
	}
}
