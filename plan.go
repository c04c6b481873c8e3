package bigexpr

import (
	"strconv"
	"strings"
)

// Plan is a straight-line program of primitive calls that evaluates every
// expression of one shape, together with the typed slots the program uses.
// Slot 0 holds the result. Plans are immutable and safe for concurrent use.
type Plan struct {
	shape  string
	slots  []Type
	prog   []instr
	leaves int
	// need is the slot count the order selector predicted.
	need int
}

// instr is one primitive call in a plan.
type instr struct {
	rule    *Rule
	dst     int
	args    []operand
	scratch []int
}

// operand is a primitive argument: either a slot or, if leaf is set, one of
// the expression's leaves by index in tree order.
type operand struct {
	leaf bool
	i    int
}

func (o operand) String() string {
	if o.leaf {
		return "$" + strconv.Itoa(o.i)
	}
	return "s" + strconv.Itoa(o.i)
}

// GetKey returns the shape the plan evaluates.
func (p Plan) GetKey() string {
	return p.shape
}

// ComputeSize estimates the memory the plan holds, in bytes.
func (p Plan) ComputeSize() uint {
	sz := uint(len(p.shape)) + uint(len(p.slots)) + 64
	for _, in := range p.prog {
		sz += 48 + 16*uint(len(in.args)) + 8*uint(len(in.scratch))
	}
	return sz
}

// Len returns the number of slots the plan uses, including the result.
func (p *Plan) Len() int {
	return len(p.slots)
}

// Slots returns the type of each slot.
func (p *Plan) Slots() []Type {
	return append([]Type(nil), p.slots...)
}

// Temp is a run of slots of one type.
type Temp struct {
	Type Type
	N    int
}

// Temps returns the slot types grouped into runs of consecutive slots of the
// same type.
func (p *Plan) Temps() []Temp {
	var r []Temp
	for _, t := range p.slots {
		if len(r) > 0 && r[len(r)-1].Type == t {
			r[len(r)-1].N++
			continue
		}
		r = append(r, Temp{Type: t, N: 1})
	}
	return r
}

// Calls returns the number of primitive calls in the plan.
func (p *Plan) Calls() int {
	return len(p.prog)
}

// Fused returns the number of accumulate-multiply calls in the plan.
func (p *Plan) Fused() int {
	n := 0
	for _, in := range p.prog {
		if in.rule.Op == OpAddMul || in.rule.Op == OpSubMul {
			n++
		}
	}
	return n
}

// String formats the plan as one line of slot types followed by one line per
// call, e.g. "s0 = AddMul(Int, Int, Int) -> Int (s0, $1, $2)".
func (p *Plan) String() string {
	var b strings.Builder
	b.WriteString("slots:")
	for i, t := range p.slots {
		b.WriteString(" s" + strconv.Itoa(i) + ":" + t.String())
	}
	for _, in := range p.prog {
		b.WriteString("\ns" + strconv.Itoa(in.dst) + " = " + in.rule.String() + " (")
		for i, a := range in.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte(')')
		if len(in.scratch) > 0 {
			b.WriteString(" scratch")
			for _, s := range in.scratch {
				b.WriteString(" s" + strconv.Itoa(s))
			}
		}
	}
	return b.String()
}

// Plan returns the plan that evaluates e, creating it if no expression of the
// same shape has been planned with e's registry.
func (e *Expr) Plan() (*Plan, error) {
	p, _, err := e.plan()
	return p, err
}

// plan returns the cached plan for e's shape and whether it was just built.
func (e *Expr) plan() (*Plan, bool, error) {
	if e.err != nil {
		return nil, false, e.err
	}
	e.walk()
	reg := e.Registry()
	if err := reg.stale(e.n.op, e); err != nil {
		return nil, false, err
	}
	if p := reg.plans.Get(e.shape); p != nil {
		return p, false, nil
	}
	p, err := newPlan(reg, e)
	if err != nil {
		return nil, false, err
	}
	if old := reg.plans.Set(p); old != nil {
		// Another goroutine planned the same shape concurrently. Plans are a
		// function of shape, so either is fine.
		return p, false, nil
	}
	return p, true, nil
}

func newPlan(reg *Registry, e *Expr) (*Plan, error) {
	var leaves int
	root := lower(reg, e.n, &leaves)
	cost(root)
	em := emitter{reg: reg, slots: []Type{root.typ}}
	em.into(root, 0)
	if em.err != nil {
		return nil, em.err
	}
	return &Plan{
		shape:  e.shape,
		slots:  em.slots,
		prog:   em.prog,
		leaves: leaves,
		need:   1 + root.d,
	}, nil
}

// pnode is a step in the plan tree, which is the expression tree with fusions
// and conversions made explicit.
type pnode struct {
	kind pkind
	typ  Type

	// leaf is the leaf index of a pLeaf.
	leaf int

	// rule is the primitive of a pCall or pFused. swap is whether a pCall's
	// two operands are passed in reverse order. neg is the negation a pFused
	// applies to its accumulator first, if any.
	rule *Rule
	swap bool
	neg  *Rule

	// kids are the operands in the order they appear in the expression. acc
	// is the index of a pFused's accumulator among them.
	kids []*pnode
	acc  int

	// t is the number of slots needed to produce the value in a slot of its
	// own, counting that slot. d is the number needed to produce it in a
	// destination slot, not counting the destination. own and into are the
	// orders in which to evaluate kids for each.
	t, d      int
	own, into []int
}

type pkind int8

const (
	pLeaf pkind = iota
	pCall
	pFused
)

// lower builds the plan tree for n, numbering leaves in tree order.
func lower(reg *Registry, n *node, leaves *int) *pnode {
	switch n.kind {
	case nodeNum, nodeName:
		p := &pnode{kind: pLeaf, typ: n.typ, leaf: *leaves}
		*leaves++
		return p
	case nodeOp:
		if f, ok := fuse(reg, n); ok {
			p := &pnode{kind: pFused, typ: n.typ, rule: f.call, neg: f.neg}
			if f.product == 0 {
				p.kids = []*pnode{lower(reg, f.x, leaves), lower(reg, f.y, leaves), lower(reg, f.acc, leaves)}
				p.acc = 2
			} else {
				p.kids = []*pnode{lower(reg, f.acc, leaves), lower(reg, f.x, leaves), lower(reg, f.y, leaves)}
				p.acc = 0
			}
			return p
		}
		p := &pnode{kind: pCall, typ: n.typ, rule: n.res.Rule, swap: n.res.Swap}
		for i, a := range n.args() {
			k := lower(reg, a, leaves)
			if n.res.Conv != nil && n.res.Conv[i] != nil {
				k = &pnode{kind: pCall, typ: n.res.Conv[i].Result, rule: n.res.Conv[i], kids: []*pnode{k}}
			}
			p.kids = append(p.kids, k)
		}
		return p
	default:
		panic("bigexpr: invalid node kind " + n.kind.String())
	}
}

// cost computes slot needs and evaluation orders for p and its subtree.
func cost(p *pnode) {
	for _, k := range p.kids {
		cost(k)
	}
	switch p.kind {
	case pLeaf:
		p.t, p.d = 0, 0
	case pCall:
		kids := make([]demand, len(p.kids))
		reuse := false
		for i, k := range p.kids {
			kids[i] = demand{need: k.t, holds: k.t > 0}
			if k.kind != pLeaf && k.typ == p.typ {
				reuse = true
			}
		}
		order, most, held := bestOrder(kids)
		call := held + p.rule.Scratch
		p.d = imax(most, call)
		if !reuse {
			call++
		}
		p.t = imax(most, call)
		p.own, p.into = order, order
	case pFused:
		extra := p.rule.Scratch
		if p.neg != nil {
			extra = imax(extra, p.neg.Scratch)
		}
		// Produced in its own slot, the result goes where the accumulator
		// was evaluated, so the accumulator always holds a slot.
		kids := make([]demand, 3)
		for i, k := range p.kids {
			kids[i] = demand{need: k.t, holds: k.t > 0}
		}
		kids[p.acc] = demand{need: imax(p.kids[p.acc].t, 1), holds: true}
		if kids[0].holds && kids[1].holds && kids[2].holds {
			p.own = order3(kids[0].need, kids[1].need, kids[2].need)
			p.t = imax(minTemps3(kids[0].need, kids[1].need, kids[2].need), 3+extra)
		} else {
			order, most, held := bestOrder(kids)
			p.own = order
			p.t = imax(most, held+extra)
		}
		// Produced in the destination, the accumulator is evaluated there.
		kids[p.acc] = demand{need: p.kids[p.acc].d}
		order, most, held := bestOrder(kids)
		p.into = order
		p.d = imax(most, held+extra)
	default:
		panic("bigexpr: invalid plan node")
	}
}

// emitter lays out a plan tree as a program, assigning slots with one LIFO
// free list per type.
type emitter struct {
	reg   *Registry
	slots []Type
	free  [numTypes][]int
	prog  []instr
	err   error
}

func (em *emitter) alloc(t Type) int {
	if f := em.free[t]; len(f) > 0 {
		s := f[len(f)-1]
		em.free[t] = f[:len(f)-1]
		return s
	}
	em.slots = append(em.slots, t)
	return len(em.slots) - 1
}

func (em *emitter) release(s int) {
	t := em.slots[s]
	em.free[t] = append(em.free[t], s)
}

// scratch allocates n slots of type t.
func (em *emitter) scratch(t Type, n int) []int {
	if n == 0 {
		return nil
	}
	s := make([]int, n)
	for i := range s {
		s[i] = em.alloc(t)
	}
	return s
}

func (em *emitter) releaseAll(s []int) {
	for i := len(s) - 1; i >= 0; i-- {
		em.release(s[i])
	}
}

func (em *emitter) emit(rule *Rule, dst int, args []operand, scratch []int) {
	em.prog = append(em.prog, instr{rule: rule, dst: dst, args: args, scratch: scratch})
}

// copyLeaf emits a copy of leaf into slot dst.
func (em *emitter) copyLeaf(p *pnode, dst int) {
	rule := em.reg.Lookup(OpSet, p.typ)
	if rule == nil {
		if em.err == nil {
			em.err = &TypeError{Op: OpSet, Args: []Type{p.typ}, Reason: "needed to copy a value"}
		}
		return
	}
	em.emit(rule, dst, []operand{{leaf: true, i: p.leaf}}, nil)
}

// value evaluates p so that it can be read: leaves are read where they are,
// and anything else gets a slot of its own which the caller must release.
func (em *emitter) value(p *pnode) operand {
	if p.kind == pLeaf {
		return operand{leaf: true, i: p.leaf}
	}
	return operand{i: em.owned(p)}
}

// owned evaluates p into a new slot and returns the slot.
func (em *emitter) owned(p *pnode) int {
	switch p.kind {
	case pLeaf:
		s := em.alloc(p.typ)
		em.copyLeaf(p, s)
		return s
	case pCall:
		args := em.operands(p, p.own)
		dst := -1
		for i, a := range args {
			if !a.leaf && p.kids[i].typ == p.typ {
				dst = a.i
				break
			}
		}
		if dst < 0 {
			dst = em.alloc(p.typ)
		}
		em.call(p, dst, args)
		for _, a := range args {
			if !a.leaf && a.i != dst {
				em.release(a.i)
			}
		}
		return dst
	case pFused:
		args := make([]operand, 3)
		for _, i := range p.own {
			if i == p.acc {
				args[i] = operand{i: em.owned(p.kids[i])}
			} else {
				args[i] = em.value(p.kids[i])
			}
		}
		dst := args[p.acc].i
		em.fusedCall(p, dst, args)
		return dst
	default:
		panic("bigexpr: invalid plan node")
	}
}

// into evaluates p into slot dst.
func (em *emitter) into(p *pnode, dst int) {
	switch p.kind {
	case pLeaf:
		em.copyLeaf(p, dst)
	case pCall:
		args := em.operands(p, p.into)
		em.call(p, dst, args)
		for _, a := range args {
			if !a.leaf {
				em.release(a.i)
			}
		}
	case pFused:
		args := make([]operand, 3)
		for _, i := range p.into {
			if i == p.acc {
				em.into(p.kids[i], dst)
				args[i] = operand{i: dst}
			} else {
				args[i] = em.value(p.kids[i])
			}
		}
		em.fusedCall(p, dst, args)
	default:
		panic("bigexpr: invalid plan node")
	}
}

// operands evaluates the operands of a pCall in the given order and returns
// them in expression order.
func (em *emitter) operands(p *pnode, order []int) []operand {
	args := make([]operand, len(p.kids))
	for _, i := range order {
		args[i] = em.value(p.kids[i])
	}
	return args
}

// call emits the primitive of a pCall whose operands are ready.
func (em *emitter) call(p *pnode, dst int, args []operand) {
	s := em.scratch(p.typ, p.rule.Scratch)
	in := args
	if p.swap {
		in = []operand{args[1], args[0]}
	}
	em.emit(p.rule, dst, in, s)
	em.releaseAll(s)
}

// fusedCall emits the primitives of a pFused whose accumulator is in dst and
// whose factors are ready, then releases the factors.
func (em *emitter) fusedCall(p *pnode, dst int, args []operand) {
	acc := operand{i: dst}
	if p.neg != nil {
		s := em.scratch(p.typ, p.neg.Scratch)
		em.emit(p.neg, dst, []operand{acc}, s)
		em.releaseAll(s)
	}
	var factors []operand
	for i, a := range args {
		if i != p.acc {
			factors = append(factors, a)
		}
	}
	s := em.scratch(p.typ, p.rule.Scratch)
	em.emit(p.rule, dst, []operand{acc, factors[0], factors[1]}, s)
	em.releaseAll(s)
	for _, a := range factors {
		if !a.leaf {
			em.release(a.i)
		}
	}
}
