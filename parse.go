package bigexpr

import (
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Expr = num | name | Call | Neg | Plus | Add | Sub | Mul | Div | Pow | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = funcname | funcname Expr | funcname ArgList | funcname '^' Expr Call
// ArgList = '(' Expr { (',' | ';') Expr } ')' | '[' Expr { (',' | ';') Expr } ']' | '{' Expr { (',' | ';') Expr } '}'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr | Expr Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Pow = Expr '^' Expr

// parser is the state of one call to Parse.
type parser struct {
	scan *lexer
	parsectx
}

// Parse parses an expression and resolves its operations, so that it can be
// evaluated with a context. The given options are applied in order.
//
// Integer literals are Int values, decimal literals are exact Rat values, and
// inf or ∞ is an infinite Float. Identifiers must name a function or a
// declared variable. If the operand types of some operation have no rule,
// the error is a *TypeError.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	p := parser{scan: lex(src)}
	for _, opt := range opts {
		opt.apply(&p.parsectx)
	}
	p.fillDefaults()
	e, err := p.term(exprprec)
	if err != nil {
		return nil, err
	}
	switch tok := p.scan.must(); tok.kind {
	case tokenEOF:
	case tokenSep:
		switch {
		case p.ceof && tok.text == ",":
		case p.seof && tok.text == ";":
		default:
			return nil, unexpectedEnd(tok, -1)
		}
		if e == nil {
			return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
		}
	default:
		return nil, unexpectedEnd(tok, -1)
	}
	if err := e.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

// ParseString is a shortcut to parse a string expression.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// term parses operands joined by operators binding more tightly than until.
// If there is no error, then term pushes the last token it scans, including
// EOF. An empty subexpression gives a nil result with no error; callers
// decide whether that is legal.
func (p *parser) term(until operator) (*Expr, error) {
	e, err := p.lhs(until)
	if err != nil || e == nil {
		return nil, err
	}
	for {
		tok, err := p.scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenNum, tokenIdent, tokenOpen:
			// Juxtaposition is multiplication:
			// (parsed) x -> (parsed) * (x)
			// (parsed) x^(expr) -> (parsed) * (x^(expr))
			// a^(parsed) x -> (a^(parsed)) * (x)
			// 2 (expr) -> (2) * (expr)
			p.scan.push(tok)
			if !termprec.moreBinding(until) {
				return e, nil
			}
			rhs, err := p.term(termprec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, unexpectedEnd(p.scan.must(), -1)
			}
			e = p.reg.Mul(e, rhs)
		case tokenOp:
			op := binop(tok.text)
			if op.op == OpNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !op.moreBinding(until) {
				p.scan.push(tok)
				return e, nil
			}
			rhs, err := p.term(op)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := p.scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			e = p.reg.Apply(op.op, e, rhs)
		case tokenClose, tokenSep, tokenEOF:
			p.scan.push(tok)
			return e, nil
		default:
			panic("bigexpr: unknown token: " + tok.String())
		}
	}
}

// lhs parses the first operand of a term. Operators here are unary, and
// whitespace that would end the expression elsewhere is skipped.
func (p *parser) lhs(until operator) (*Expr, error) {
	tok, err := p.scan.next("")
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		return literal(tok)
	case tokenIdent:
		if fn := p.funcs[tok.text]; fn != nil {
			return p.call(until, fn, tok.text)
		}
		t, ok := p.vars[tok.text]
		if !ok {
			return nil, &NameError{Name: tok.text}
		}
		return Var(tok.text, t), nil
	case tokenOp:
		op := unop(tok.text)
		if op.op == OpNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !op.moreBinding(until) {
			// x^-y -> x^(-y)
			op.prec, op.right = until.prec, until.right
		}
		x, err := p.term(op)
		if err != nil {
			return nil, err
		}
		if x == nil {
			end := p.scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		if op.op == OpNeg {
			return p.reg.Neg(x), nil
		}
		return x, nil
	case tokenOpen:
		return p.group(tok)
	case tokenClose:
		// This might end an empty argument list, so let the caller decide.
		p.scan.push(tok)
		return nil, nil
	case tokenSep:
		if (tok.text == "," && p.ceof) || (tok.text == ";" && p.seof) {
			p.scan.push(tok)
			return nil, nil
		}
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	default:
		panic("bigexpr: unknown token: " + tok.String())
	}
}

// group parses a bracketed subexpression after its open bracket.
func (p *parser) group(open lexToken) (*Expr, error) {
	match := rightbracket(open.text)
	e, err := p.term(exprprec)
	if err != nil {
		return nil, err
	}
	end := p.scan.must()
	if end.kind != tokenClose || end.text != closebrackets[match] {
		return nil, unexpectedEnd(end, match)
	}
	if e == nil {
		return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
	}
	return e, nil
}

// call parses the arguments to a call of fn and builds the call.
func (p *parser) call(until operator, fn Func, name string) (*Expr, error) {
	// Respect stop whitespace so that pi\nx doesn't string together
	// expressions.
	tok, err := p.scan.next(p.wseof)
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenOp:
		// func^x y is (func y)^x. The exponent binds more tightly than
		// anything else, so func^x^y z is (func z)^(x^y).
		if tok.text == "^" {
			up, err := p.term(powprec)
			if err != nil {
				return nil, err
			}
			if up == nil {
				end := p.scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			c, err := p.call(until, fn, name)
			if err != nil {
				return nil, err
			}
			return p.reg.Pow(c, up), nil
		}
		// Any other operator starts an argument or a binary operation.
		fallthrough
	case tokenNum, tokenIdent:
		p.scan.push(tok)
		switch {
		case fn.CanCall(1):
			// exp x -> exp(x)
			if termprec.moreBinding(until) {
				until = termprec
			}
			x, err := p.term(until)
			if err != nil {
				return nil, err
			}
			if x == nil {
				return nil, &CallError{Col: tok.pos, Func: name}
			}
			return fn.Build(p.reg, []*Expr{x}), nil
		case fn.CanCall(0):
			// pi x -> (pi) * (x)
			return fn.Build(p.reg, nil), nil
		default:
			return nil, &CallError{Col: tok.pos, Func: name, Len: 1}
		}
	case tokenOpen:
		args, err := p.arglist(tok)
		if err != nil {
			return nil, err
		}
		switch {
		case fn.CanCall(len(args)):
			return fn.Build(p.reg, args), nil
		case len(args) == 1 && fn.CanCall(0):
			// pi(x) -> (pi) * (x)
			return p.reg.Mul(fn.Build(p.reg, nil), args[0]), nil
		default:
			return nil, &CallError{Col: tok.pos, Func: name, Len: len(args)}
		}
	case tokenClose, tokenSep, tokenEOF:
		if !fn.CanCall(0) {
			return nil, &CallError{Col: tok.pos, Func: name}
		}
		p.scan.push(tok)
		return fn.Build(p.reg, nil), nil
	default:
		panic("bigexpr: unknown token: " + tok.String())
	}
}

// arglist parses a bracketed list of zero or more arguments after its open
// bracket, through the matching close bracket.
func (p *parser) arglist(open lexToken) ([]*Expr, error) {
	match := rightbracket(open.text)
	var args []*Expr
	for {
		x, err := p.term(exprprec)
		if err != nil {
			// Reporting mismatched brackets is more helpful than an empty
			// expression here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil {
				err = &BracketError{Col: ee.Col, Left: open.text}
			}
			return nil, err
		}
		end := p.scan.must()
		switch end.kind {
		case tokenClose:
			if end.text != closebrackets[match] {
				return nil, &BracketError{Col: end.pos, Left: open.text, Right: end.text}
			}
			if x == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return nil, nil
			}
			return append(args, x), nil
		case tokenSep:
			if x == nil {
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			args = append(args, x)
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: open.text, Right: ""}
		default:
			panic("bigexpr: argument ended on non-end token " + end.String())
		}
	}
}

// literal creates the expression for a number token.
func literal(tok lexToken) (*Expr, error) {
	switch tok.text {
	case "inf", "Inf", "∞":
		return Float(new(big.Float).SetInf(false)), nil
	}
	if strings.IndexFunc(tok.text, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		x, ok := new(big.Int).SetString(tok.text, 10)
		if ok {
			return Int(x), nil
		}
	}
	x, ok := new(big.Rat).SetString(tok.text)
	if !ok {
		return nil, &LexError{Text: tok.text, Kind: "number", Col: tok.pos}
	}
	return Rat(x), nil
}

// closebrackets holds each close bracket as a string.
var closebrackets = []string{")", "]", "}"}

// rightbracket gets the closing bracket index for an opening bracket.
func rightbracket(left string) int {
	k := strings.Index(OpenBrackets, left)
	if k < 0 || len(left) != 1 {
		panic("bigexpr: invalid bracket " + strconv.Quote(left))
	}
	return k
}

// leftbracket gets the opening bracket with index k, or the empty string if
// k is -1.
func leftbracket(k int) string {
	if k < 0 {
		return ""
	}
	return OpenBrackets[k : k+1]
}

// unexpectedEnd returns an error appropriate for an unexpected token at the
// end of a subexpression. match is the bracket index that the expression
// should have matched, or -1 if none.
func unexpectedEnd(tok lexToken, match int) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: leftbracket(match), Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("bigexpr: unexpected end of subexpression: " + tok.String())
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operation this operator applies, or OpSet for unary plus.
	op Op
}

func (o operator) moreBinding(than operator) bool {
	if o.prec != than.prec {
		return o.prec > than.prec
	}
	return o.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of OpNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, OpAdd}
	case "-":
		return operator{1, false, OpSub}
	case "*", "×":
		return operator{5, false, OpMul}
	case "/", "÷":
		return operator{5, false, OpDiv}
	case "^":
		return operator{15, true, OpPow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of OpNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, OpSet}
	case "-":
		return operator{10, true, OpNeg}
	default:
		return operator{}
	}
}

var (
	// termprec is the precedence of juxtaposition, which matches that of
	// multiplication.
	termprec = operator{5, true, OpMul}
	// powprec is the precedence of exponentiation.
	powprec = binop("^")
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, OpNone}
)
