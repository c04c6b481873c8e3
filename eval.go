package bigexpr

import (
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Context is a context for evaluating expressions. It holds variable values,
// the precision for floating-point results, and workspace that primitives
// share. It is not safe to use a Context concurrently.
type Context struct {
	vars map[string]Value
	prec uint
	log  *zap.Logger

	ws workspace
	// last is the plan most recently evaluated, and spare holds its slots.
	last  *Plan
	spare []Value
	// args and scratch are buffers for primitive arguments.
	args, scratch []Value
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  Value
	}
	varsopt map[string]Value
	precopt uint
	logopt  struct{ l *zap.Logger }
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (precopt) ctxOption() {}
func (logopt) ctxOption()  {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val Value) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]Value) ContextOption {
	return varsopt(vars)
}

// Prec sets the precision of floating-point results.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// Logger sets the logger to which the context reports planning decisions at
// debug level. The default discards everything.
func Logger(l *zap.Logger) ContextOption {
	return logopt{l}
}

// NewContext creates a new evaluation context. If no precision is given, the
// default is 64.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: 64, log: zap.NewNop()}
	return ctx.Clone(opts...)
}

// Eval evaluates an expression and returns the result in a new value. If an
// error occurs, e.g. a missing variable or an operand outside an operation's
// domain, the result is nil.
func (ctx *Context) Eval(e *Expr) (Value, error) {
	return ctx.evaluate(e, nil)
}

// EvalInto evaluates an expression and stores the result in dst, which must
// have the expression's type. When dst is also an operand of the expression,
// the result is still as if every operand were read before dst is written,
// and the evaluation runs in place whenever the plan allows it.
//
// If an error occurs, dst may hold a partial result.
func (ctx *Context) EvalInto(dst Value, e *Expr) error {
	if e.err != nil {
		return e.err
	}
	if t := TypeOf(dst); t != e.Type() {
		return &TypeError{Op: OpSet, Args: []Type{t, e.Type()}, Reason: "destination has the wrong type"}
	}
	_, err := ctx.evaluate(e, dst)
	return err
}

// Set sets the value of a variable to a copy of value. Returns ctx for
// chaining. Set panics if value is not a kernel value.
func (ctx *Context) Set(name string, value Value) *Context {
	if TypeOf(value) == TypeInvalid {
		panic("bigexpr: Set " + name + " to invalid value")
	}
	ctx.vars[name] = copyValue(value, ctx.prec)
	return ctx
}

// Bind sets a variable to value itself, so that the context observes later
// changes to value and EvalInto may use value as both operand and
// destination.
func (ctx *Context) Bind(name string, value Value) *Context {
	if TypeOf(value) == TypeInvalid {
		panic("bigexpr: Bind " + name + " to invalid value")
	}
	ctx.vars[name] = value
	return ctx
}

// Lookup returns a copy of the value of a variable. If there is no such
// variable in the context, then the result is nil.
func (ctx *Context) Lookup(name string) Value {
	v, ok := ctx.vars[name]
	if !ok {
		return nil
	}
	return copyValue(v, ctx.prec)
}

// Vars returns the types of the context's variables.
func (ctx *Context) Vars() map[string]Type {
	m := make(map[string]Type, len(ctx.vars))
	for k, v := range ctx.vars {
		m[k] = TypeOf(v)
	}
	return m
}

// Names returns the sorted names of the context's variables.
func (ctx *Context) Names() []string {
	r := make([]string, 0, len(ctx.vars))
	for k := range ctx.vars {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Prec returns the precision to which floating-point values are computed in
// the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Clone creates a copy of a context and applies options to it. Variables
// bound with Bind remain bound in the copy if the precision is unchanged.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		vars: make(map[string]Value, len(ctx.vars)),
		prec: ctx.prec,
		log:  ctx.log,
	}
	// Apply the last precision first so that copies use it.
	for i := len(opts) - 1; i >= 0; i-- {
		if p, ok := opts[i].(precopt); ok {
			n.prec = uint(p)
			break
		}
	}
	for name, val := range ctx.vars {
		if n.prec == ctx.prec || TypeOf(val) != TypeFloat {
			n.vars[name] = val
			continue
		}
		n.vars[name] = copyValue(val, n.prec)
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.Set(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.Set(k, v)
			}
		case precopt:
			// Already done. Do nothing.
		case logopt:
			if opt.l != nil {
				n.log = opt.l
			}
		default:
			panic("bigexpr: unknown option type")
		}
	}
	return &n
}

// Eval is a shortcut to parse an expression and return its result. Every
// variable set by the options is declared to the parser with the type of its
// value.
func Eval(src io.RuneScanner, opts ...ContextOption) (Value, error) {
	ctx := NewContext(opts...)
	e, err := Parse(src, DeclareVars(ctx.Vars()))
	if err != nil {
		return nil, err
	}
	return ctx.Eval(e)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (Value, error) {
	return Eval(strings.NewReader(src), opts...)
}
