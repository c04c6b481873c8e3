package bigexpr

import (
	"strconv"
	"strings"
)

// TypeError is an error indicating that no rule combines operands of the
// given types. Expressions record TypeErrors when they are built, so that
// no evaluation is ever attempted for them.
type TypeError struct {
	// Op is the operation that could not be resolved.
	Op Op
	// Args is the list of operand types.
	Args []Type
	// Reason optionally describes the problem further.
	Reason string
}

func (err *TypeError) Error() string {
	var b strings.Builder
	b.WriteString("no rule for ")
	b.WriteString(err.Op.String())
	b.WriteByte('(')
	for i, t := range err.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	if err.Reason != "" {
		b.WriteString(": ")
		b.WriteString(err.Reason)
	}
	return b.String()
}

// NameError is an error from a lookup for a variable that is missing from the
// evaluation context, or from an undeclared name while parsing.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

// VarTypeError is an error indicating that a variable's value in the
// evaluation context does not have the type the expression declared for it.
type VarTypeError struct {
	// Name is the variable name.
	Name string
	// Want is the declared type.
	Want Type
	// Got is the type of the value in the context.
	Got Type
}

func (err *VarTypeError) Error() string {
	return "variable " + strconv.Quote(err.Name) + " is " + err.Got.String() + ", not " + err.Want.String()
}

// DomainError is an error returned when an operation is applied to operands
// outside its domain, e.g. division by zero or the inverse of a singular
// matrix.
type DomainError struct {
	// X is the out-of-domain argument.
	X Value
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the operation.
	Func string
}

func (err *DomainError) Error() string {
	r := Format(err.X) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// DimensionError is an error indicating matrix operands whose shapes do not
// fit an operation.
type DimensionError struct {
	// Op is the operation.
	Op Op
	// Rows and Cols are the shapes of the two operands.
	Rows, Cols [2]int
}

func (err *DimensionError) Error() string {
	return "mismatched dimensions for " + err.Op.String() + ": " +
		strconv.Itoa(err.Rows[0]) + "×" + strconv.Itoa(err.Cols[0]) + " and " +
		strconv.Itoa(err.Rows[1]) + "×" + strconv.Itoa(err.Cols[1])
}
