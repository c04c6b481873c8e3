package bigexpr

// fusion is a rewrite of an addition or subtraction with a product operand
// into one accumulate-multiply primitive.
type fusion struct {
	// outer is the operation being rewritten.
	outer Op
	// product is the index of the product among the outer operands.
	product int
	// rule is the fused operation that replaces the outer and the product.
	rule Op
	// negate is whether the accumulator is negated before the fused call.
	negate bool
	// exclude names an accumulator operation for which the rewrite does not
	// apply, so that at most one rewrite matches any tree.
	exclude Op
}

var fusions = [...]fusion{
	{outer: OpAdd, product: 1, rule: OpAddMul},                               // a + b*c
	{outer: OpSub, product: 1, rule: OpSubMul},                               // a - b*c
	{outer: OpAdd, product: 0, rule: OpAddMul, exclude: OpMul},               // b*c + a
	{outer: OpSub, product: 0, rule: OpAddMul, negate: true, exclude: OpMul}, // b*c - a
}

// fused is a fusion that applies to a particular node.
type fused struct {
	*fusion
	// acc and x, y are the accumulator and the factors.
	acc, x, y *node
	// call is the fused rule, and neg is the negation rule if needed.
	call, neg *Rule
}

// fuse finds the fusion that applies to n, if any. It panics if more than one
// applies.
func fuse(reg *Registry, n *node) (fused, bool) {
	var r fused
	found := false
	for i := range fusions {
		f, ok := fuseWith(reg, n, &fusions[i])
		if !ok {
			continue
		}
		if found {
			panic("bigexpr: ambiguous fusion for " + n.op.String() + " node")
		}
		r, found = f, true
	}
	return r, found
}

func fuseWith(reg *Registry, n *node, f *fusion) (fused, bool) {
	if n.kind != nodeOp || n.op != f.outer || !homogeneous(n) {
		return fused{}, false
	}
	t := n.typ
	prod, acc := n.left, n.right
	if f.product == 1 {
		prod, acc = acc, prod
	}
	if prod.kind != nodeOp || prod.op != OpMul || prod.typ != t || !homogeneous(prod) {
		return fused{}, false
	}
	if acc.kind == nodeOp && acc.op == f.exclude {
		return fused{}, false
	}
	if !uniform(acc, t) || !uniform(prod.left, t) || !uniform(prod.right, t) {
		return fused{}, false
	}
	r := fused{fusion: f, acc: acc, x: prod.left, y: prod.right}
	if r.call = reg.Lookup(f.rule, t, t, t); r.call == nil {
		return fused{}, false
	}
	if f.negate {
		if r.neg = reg.Lookup(OpNeg, t); r.neg == nil {
			return fused{}, false
		}
	}
	return r, true
}

// homogeneous reports whether n was resolved exactly to a rule taking and
// producing only its own type.
func homogeneous(n *node) bool {
	if n.res.Priority != PriorityExact || n.res.Rule.Result != n.typ {
		return false
	}
	for _, a := range n.res.Rule.Args {
		if a != n.typ {
			return false
		}
	}
	return true
}

// uniform reports whether every node in the tree rooted at n has type t and
// uses no conversions.
func uniform(n *node, t Type) bool {
	if n.typ != t {
		return false
	}
	for _, c := range n.res.Conv {
		if c != nil {
			return false
		}
	}
	for _, a := range n.args() {
		if !uniform(a, t) {
			return false
		}
	}
	return true
}
