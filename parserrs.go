package bigexpr

import "strconv"

// InputError is an error caused by malformed input text. Every error the
// parser reports for invalid syntax implements it.
type InputError interface {
	error
	// Pos returns the 1-based rune column of the token at fault.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)

// at prefixes msg with a column.
func at(col int, msg string) string {
	return "col " + strconv.Itoa(col) + ": " + msg
}

// OperatorError reports an operator where none of that arity is defined,
// e.g. the second * in "x * * y".
type OperatorError struct {
	Col      int
	Operator string
	// Unary is true when the operator appeared where an operand was expected.
	Unary bool
}

func (err *OperatorError) Error() string {
	arity := "binary"
	if err.Unary {
		arity = "prefix"
	}
	return at(err.Col, strconv.Quote(err.Operator)+" is not a "+arity+" operator")
}

func (err *OperatorError) Pos() int { return err.Col }

// BracketError reports an unbalanced or mismatched bracket. Left is empty for
// a close bracket with no opener, and Right is empty when the input ended
// inside a group.
type BracketError struct {
	Col         int
	Left, Right string
}

func (err *BracketError) Error() string {
	switch {
	case err.Left == "":
		return at(err.Col, "unopened "+err.Right)
	case err.Right == "":
		return at(err.Col, "unclosed "+err.Left)
	default:
		return at(err.Col, err.Right+" closes "+err.Left)
	}
}

func (err *BracketError) Pos() int { return err.Col }

// SeparatorError reports a comma or semicolon outside an argument list.
type SeparatorError struct {
	Col int
	Sep string
}

func (err *SeparatorError) Error() string {
	return at(err.Col, "unexpected "+strconv.Quote(err.Sep)+" outside an argument list")
}

func (err *SeparatorError) Pos() int { return err.Col }

// CallError reports a function applied to a number of arguments it does not
// accept. Col is the position of the token following the function name.
type CallError struct {
	Col  int
	Func string
	Len  int
}

func (err *CallError) Error() string {
	n := "no arguments"
	switch err.Len {
	case 0:
	case 1:
		n = "1 argument"
	default:
		n = strconv.Itoa(err.Len) + " arguments"
	}
	return at(err.Col, err.Func+" does not take "+n)
}

func (err *CallError) Pos() int { return err.Col }

// EmptyExpressionError reports a missing operand. End is the token where an
// operand was expected, or empty at the end of input.
type EmptyExpressionError struct {
	Col int
	End string
}

func (err *EmptyExpressionError) Error() string {
	switch {
	case err.End != "":
		return at(err.Col, "missing operand before "+strconv.Quote(err.End))
	case err.Col <= 1:
		return at(err.Col, "empty expression")
	default:
		return at(err.Col, "missing operand at end of input")
	}
}

func (err *EmptyExpressionError) Pos() int { return err.Col }
