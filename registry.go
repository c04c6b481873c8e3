package bigexpr

import (
	"strconv"
	"strings"

	"github.com/google/btree"
	"github.com/launix-de/NonLockingReadMap"
	"github.com/pkg/errors"
)

// Primitive is a kernel routine for one combination of operand types. It
// reads args, may use exactly the scratch values its rule declares (each of
// the rule's result type) and the context's scalar workspace, and sets dst
// to its result.
//
// Primitives must be alias-safe: dst may be identical to any argument. The
// scratch values are distinct from dst and from every argument.
type Primitive func(ctx *Context, dst Value, args, scratch []Value) error

// Rule is a fact that an operation over particular operand types has a
// direct primitive with a given result type and number of scratch values.
type Rule struct {
	// Op is the operation.
	Op Op
	// Args is the list of operand types. Its length is Op.Arity().
	Args []Type
	// Result is the type of the value the primitive produces.
	Result Type
	// Scratch is the number of scratch values of type Result that the
	// primitive needs.
	Scratch int
	// Call is the primitive.
	Call Primitive
}

func (r *Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Op.String())
	b.WriteByte('(')
	for i, t := range r.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteString(") -> ")
	b.WriteString(r.Result.String())
	if r.Scratch > 0 {
		b.WriteString(" [scratch " + strconv.Itoa(r.Scratch) + "]")
	}
	return b.String()
}

// ruleKey identifies a rule in a registry. Conversions are distinguished by
// their result types; every other rule by its operation and operand types.
type ruleKey struct {
	op   Op
	args [3]Type
	res  Type
}

func (r *Rule) key() ruleKey {
	k := ruleKey{op: r.Op}
	copy(k.args[:], r.Args)
	if r.Op == OpConv {
		k.res = r.Result
	}
	return k
}

func (k ruleKey) less(l ruleKey) bool {
	if k.op != l.op {
		return k.op < l.op
	}
	for i := range k.args {
		if k.args[i] != l.args[i] {
			return k.args[i] < l.args[i]
		}
	}
	return k.res < l.res
}

// Priority is the level at which Resolve found a rule. Lower levels win.
type Priority uint8

const (
	PriorityNone Priority = iota
	// PriorityExact is a rule for exactly the operand types.
	PriorityExact
	// PriorityCommuted is a rule for the operand types of a commutative
	// binary operation in reverse order.
	PriorityCommuted
	// PriorityComposite is a rule over one common type, with each operand
	// reduced separately and converted to that type first.
	PriorityComposite
)

// Resolution describes how an operation over particular operand types is
// carried out.
type Resolution struct {
	// Rule is the rule whose primitive computes the result.
	Rule *Rule
	// Priority is the level at which the rule was found.
	Priority Priority
	// Swap is whether the two operands are passed to the primitive in
	// reverse order.
	Swap bool
	// Conv holds the conversion applied to each operand, in the order of the
	// operands as written, or nil for operands used as they are.
	Conv []*Rule
}

// Result returns the type the resolved operation produces.
func (r Resolution) Result() Type {
	if r.Rule == nil {
		return TypeInvalid
	}
	return r.Rule.Result
}

// Registry is a table of primitive rules together with a cache of the plans
// built from them. Lookups and planning are safe for concurrent use, but
// Register and Remove must not run concurrently with anything else.
type Registry struct {
	rules *btree.BTreeG[*Rule]
	plans NonLockingReadMap.NonLockingReadMap[Plan, string]
	// gen counts changes to rules. Expressions resolved under an earlier
	// generation may hold resolutions the registry no longer gives.
	gen uint64
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules: btree.NewG[*Rule](8, func(a, b *Rule) bool { return a.key().less(b.key()) }),
		plans: NonLockingReadMap.New[Plan, string](),
	}
}

// Clone creates a registry with the same rules as r and an empty plan cache.
func (r *Registry) Clone() *Registry {
	return &Registry{
		rules: r.rules.Clone(),
		plans: NonLockingReadMap.New[Plan, string](),
	}
}

// Register adds a rule. It is an error to register a malformed rule or a
// rule with the same key as an existing one. Registering a rule discards
// cached plans.
func (r *Registry) Register(rule Rule) error {
	if rule.Op == OpNone || rule.Op >= numOps {
		return errors.Errorf("bigexpr: cannot register rule for %v", rule.Op)
	}
	if len(rule.Args) != rule.Op.Arity() {
		return errors.Errorf("bigexpr: %v takes %d operands, not %d", rule.Op, rule.Op.Arity(), len(rule.Args))
	}
	for _, t := range append([]Type{rule.Result}, rule.Args...) {
		if t == TypeInvalid || t >= numTypes {
			return errors.Errorf("bigexpr: invalid type %v in rule for %v", t, rule.Op)
		}
	}
	if rule.Call == nil {
		return errors.Errorf("bigexpr: rule for %v has no primitive", rule.Op)
	}
	if rule.Scratch < 0 {
		return errors.Errorf("bigexpr: rule for %v has negative scratch", rule.Op)
	}
	switch rule.Op {
	case OpConv:
		if rule.Args[0] == rule.Result {
			return errors.Errorf("bigexpr: conversion from %v to itself", rule.Result)
		}
	case OpSet, OpAddMul, OpSubMul:
		for _, t := range rule.Args {
			if t != rule.Result {
				return errors.Errorf("bigexpr: %v operands must all be %v", rule.Op, rule.Result)
			}
		}
	}
	rule.Args = append([]Type(nil), rule.Args...)
	p := &rule
	if r.rules.Has(p) {
		return errors.Errorf("bigexpr: duplicate rule %v", p)
	}
	r.rules.ReplaceOrInsert(p)
	r.changed()
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(rules ...Rule) *Registry {
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			panic(err)
		}
	}
	return r
}

// Remove deletes the rule for an operation over the given operand types and
// returns it, or nil if there was none. Conversions cannot be removed this
// way. Removing a rule discards cached plans.
func (r *Registry) Remove(op Op, args ...Type) *Rule {
	if op == OpConv || len(args) > 3 {
		return nil
	}
	old, ok := r.rules.Delete(searchKey(op, TypeInvalid, args))
	if !ok {
		return nil
	}
	r.changed()
	return old
}

// changed starts a new generation of rules and discards cached plans.
func (r *Registry) changed() {
	r.gen++
	r.plans = NonLockingReadMap.New[Plan, string]()
}

// stale returns an error if e was resolved against r before its rules last
// changed.
func (r *Registry) stale(op Op, e *Expr) error {
	if e.reg == nil || e.gen == r.gen {
		return nil
	}
	return &TypeError{Op: op, Args: []Type{e.n.typ}, Reason: "operand resolved before the registry changed"}
}

// searchKey is a rule that sorts with the rule for op over args.
func searchKey(op Op, res Type, args []Type) *Rule {
	return &Rule{Op: op, Args: args, Result: res}
}

// Lookup returns the rule for exactly an operation over the given operand
// types, or nil if there is none. Use Conversion to find OpConv rules.
func (r *Registry) Lookup(op Op, args ...Type) *Rule {
	if op == OpConv || len(args) > 3 {
		return nil
	}
	rule, _ := r.rules.Get(searchKey(op, TypeInvalid, args))
	return rule
}

// Conversion returns the rule converting values of one type to another, or
// nil if there is none.
func (r *Registry) Conversion(from, to Type) *Rule {
	rule, _ := r.rules.Get(searchKey(OpConv, to, []Type{from}))
	return rule
}

// Rules returns every rule in the registry in key order.
func (r *Registry) Rules() []*Rule {
	v := make([]*Rule, 0, r.rules.Len())
	r.rules.Ascend(func(rule *Rule) bool {
		v = append(v, rule)
		return true
	})
	return v
}

// Resolve finds how to compute an operation over operands of the given
// types. The candidates are tried in a fixed order: an exact rule, then the
// commuted rule for commutative binary operations, then a rule over a common
// type to which every operand converts, with common types tried in Type
// order. If none applies, the error is a *TypeError.
func (r *Registry) Resolve(op Op, args ...Type) (Resolution, error) {
	if len(args) != op.Arity() || op == OpConv || op == OpNone {
		return Resolution{}, &TypeError{Op: op, Args: append([]Type(nil), args...), Reason: "wrong number of operands"}
	}
	for _, t := range args {
		if t == TypeInvalid || t >= numTypes {
			return Resolution{}, &TypeError{Op: op, Args: append([]Type(nil), args...), Reason: "invalid operand"}
		}
	}
	if rule := r.Lookup(op, args...); rule != nil {
		return Resolution{Rule: rule, Priority: PriorityExact}, nil
	}
	if op.Commutative() && len(args) == 2 {
		if rule := r.Lookup(op, args[1], args[0]); rule != nil {
			return Resolution{Rule: rule, Priority: PriorityCommuted, Swap: true}, nil
		}
	}
	if len(args) > 0 {
		common := make([]Type, len(args))
	candidates:
		for c := TypeInt; c < numTypes; c++ {
			for i := range common {
				common[i] = c
			}
			rule := r.Lookup(op, common...)
			if rule == nil {
				continue
			}
			conv := make([]*Rule, len(args))
			for i, t := range args {
				if t == c {
					continue
				}
				conv[i] = r.Conversion(t, c)
				if conv[i] == nil {
					continue candidates
				}
			}
			return Resolution{Rule: rule, Priority: PriorityComposite, Conv: conv}, nil
		}
	}
	return Resolution{}, &TypeError{Op: op, Args: append([]Type(nil), args...)}
}
