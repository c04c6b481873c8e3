package bigexpr

// Op is an operation tag. Expression nodes and registry rules are keyed by
// Op and operand types.
type Op uint8

const (
	OpNone Op = iota

	OpSet  // dst = a
	OpNeg  // dst = -a
	OpAdd  // dst = a + b
	OpSub  // dst = a - b
	OpMul  // dst = a * b
	OpDiv  // dst = a / b
	OpPow  // dst = a ^ b
	OpExp  // dst = exp(a)
	OpLog  // dst = ln(a)
	OpSqrt // dst = sqrt(a)
	OpPi   // dst = π
	OpE    // dst = e

	// OpAddMul and OpSubMul are the fused accumulate-multiply primitives,
	// dst = a ± b*c, where dst usually is a.
	OpAddMul
	OpSubMul

	// OpConv converts its argument to the rule's result type.
	OpConv

	numOps
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Op -trimprefix=Op

var opinfo = [numOps]struct {
	arity int
	sym   string
	comm  bool
}{
	OpNone:   {0, "?", false},
	OpSet:    {1, "=", false},
	OpNeg:    {1, "-", false},
	OpAdd:    {2, "+", true},
	OpSub:    {2, "-", false},
	OpMul:    {2, "*", true},
	OpDiv:    {2, "/", false},
	OpPow:    {2, "^", false},
	OpExp:    {1, "exp", false},
	OpLog:    {1, "ln", false},
	OpSqrt:   {1, "sqrt", false},
	OpPi:     {0, "pi", false},
	OpE:      {0, "e", false},
	OpAddMul: {3, "+=*", false},
	OpSubMul: {3, "-=*", false},
	OpConv:   {1, "conv", false},
}

// Arity returns the number of operands the operation takes.
func (op Op) Arity() int {
	if op >= numOps {
		return 0
	}
	return opinfo[op].arity
}

// Commutative reports whether the operation's two operands may be swapped.
func (op Op) Commutative() bool {
	return op < numOps && opinfo[op].comm
}

// Symbol returns the operator or function name used to print the operation.
func (op Op) Symbol() string {
	if op >= numOps {
		return "?"
	}
	return opinfo[op].sym
}

// infix reports whether the operation prints between its operands.
func (op Op) infix() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow:
		return true
	}
	return false
}
