package bigexpr

import "go.uber.org/zap"

// resolveLeaves finds the value of each leaf of e in tree order.
func (ctx *Context) resolveLeaves(e *Expr) ([]Value, error) {
	vals := make([]Value, len(e.leaves))
	for i, n := range e.leaves {
		switch n.kind {
		case nodeNum:
			vals[i] = n.val
		case nodeName:
			v, ok := ctx.vars[n.name]
			if !ok {
				return nil, &NameError{Name: n.name}
			}
			if t := TypeOf(v); t != n.typ {
				return nil, &VarTypeError{Name: n.name, Want: n.typ, Got: t}
			}
			vals[i] = v
		default:
			panic("bigexpr: invalid leaf kind " + n.kind.String())
		}
	}
	return vals, nil
}

// bindable reports whether the plan can write its result directly into dst
// given the leaf values. That is the case unless some call overwrites slot 0
// before the last call that reads a leaf identical to dst. A copy of that
// same leaf into slot 0 does not count, since it leaves dst unchanged.
func bindable(p *Plan, leaves []Value, dst Value) bool {
	last := -1
	for i, in := range p.prog {
		for _, a := range in.args {
			if a.leaf && sameValue(leaves[a.i], dst) {
				last = i
			}
		}
	}
	for i := 0; i < last; i++ {
		in := &p.prog[i]
		if in.dst != 0 {
			continue
		}
		if in.rule.Op == OpSet && in.args[0].leaf && sameValue(leaves[in.args[0].i], dst) {
			continue
		}
		return false
	}
	return true
}

// back constructs the slot values for a plan. Slot 0 is dst if it is non-nil.
// Other slots reuse the values from the context's previous evaluation of the
// same plan.
func (ctx *Context) back(p *Plan, dst Value) []Value {
	if ctx.last != p {
		ctx.last = p
		ctx.spare = make([]Value, len(p.slots))
		for i := 1; i < len(p.slots); i++ {
			ctx.spare[i] = newValue(p.slots[i], ctx.prec)
		}
	}
	if dst == nil {
		dst = newValue(p.slots[0], ctx.prec)
	}
	ctx.spare[0] = dst
	return ctx.spare
}

// run executes a plan with the given slot and leaf values.
func (ctx *Context) run(p *Plan, slots, leaves []Value) error {
	for i := range p.prog {
		in := &p.prog[i]
		args := ctx.args[:0]
		for _, a := range in.args {
			if a.leaf {
				args = append(args, leaves[a.i])
			} else {
				args = append(args, slots[a.i])
			}
		}
		scratch := ctx.scratch[:0]
		for _, s := range in.scratch {
			scratch = append(scratch, slots[s])
		}
		ctx.args, ctx.scratch = args, scratch
		if err := in.rule.Call(ctx, slots[in.dst], args, scratch); err != nil {
			return err
		}
	}
	return nil
}

// evaluate computes e, writing the result into dst if it is non-nil, and
// returns the result.
func (ctx *Context) evaluate(e *Expr, dst Value) (Value, error) {
	p, fresh, err := e.plan()
	if err != nil {
		return nil, err
	}
	if fresh {
		ctx.log.Debug("planned expression",
			zap.String("shape", p.shape),
			zap.Int("slots", p.Len()),
			zap.Int("calls", p.Calls()),
			zap.Int("fused", p.Fused()),
		)
	}
	leaves, err := ctx.resolveLeaves(e)
	if err != nil {
		return nil, err
	}
	if dst != nil && !bindable(p, leaves, dst) {
		ctx.log.Debug("destination is an operand; evaluating out of place", zap.String("shape", p.shape))
		slots := ctx.back(p, nil)
		if err := ctx.run(p, slots, leaves); err != nil {
			return nil, err
		}
		setValue(dst, slots[0])
		return dst, nil
	}
	slots := ctx.back(p, dst)
	if err := ctx.run(p, slots, leaves); err != nil {
		return nil, err
	}
	return slots[0], nil
}
