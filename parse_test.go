package bigexpr

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

// sexpr renders the tree of an expression in prefix form.
func sexpr(n *node) string {
	switch n.kind {
	case nodeNum:
		return Format(n.val)
	case nodeName:
		return n.name
	}
	s := "(" + n.op.Symbol()
	for _, a := range n.args() {
		s += " " + sexpr(a)
	}
	return s + ")"
}

// arityFunc is a function callable with exactly its own number of arguments.
// It adds its arguments to that number.
type arityFunc int

func (f arityFunc) Build(reg *Registry, args []*Expr) *Expr {
	e := Int(big.NewInt(int64(f)))
	for _, a := range args {
		e = reg.Add(e, a)
	}
	return e
}

func (f arityFunc) CanCall(n int) bool {
	return n == int(f)
}

var testfuncs = ParseFuncs(map[string]Func{
	"zero": arityFunc(0),
	"one":  arityFunc(1),
	"five": arityFunc(5),
})

var testvars = DeclareVars(map[string]Type{
	"w": TypeInt,
	"x": TypeInt,
	"y": TypeInt,
	"z": TypeInt,
	"f": TypeFloat,
	"p": TypePoly,
})

func TestParse(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"var", "x", "x"},
		{"int", "2", "2"},
		{"decimal", "1.5", "3/2"},
		{"inf", "inf", "+Inf"},
		{"precedence", "w + x*y^z", "(+ w (* x (^ y z)))"},
		{"left-assoc", "x - y - z", "(- (- x y) z)"},
		{"right-assoc", "x^y^z", "(^ x (^ y z))"},
		{"neg-pow", "-x^2", "(- (^ x 2))"},
		{"pow-neg", "x^-y", "(^ x (- y))"},
		{"plus", "+x", "x"},
		{"juxtapose", "2 x y", "(* 2 (* x y))"},
		{"juxtapose-add", "x y + z", "(+ (* x y) z)"},
		{"juxtapose-div", "x / y z", "(/ x (* y z))"},
		{"unicode-ops", "2 × x ÷ y", "(/ (* 2 x) y)"},
		{"group", "(x + y) z", "(* (+ x y) z)"},
		{"square", "[x + y]", "(+ x y)"},
		{"nested-groups", "{x - [y - (z)]}", "(- x (- y z))"},
		{"exp", "exp x", "(exp x)"},
		{"exp-term", "exp x y", "(exp (* x y))"},
		{"exp-add", "exp x + y", "(+ (exp x) y)"},
		{"exp-pow", "exp^2 x", "(^ (exp x) 2)"},
		{"sqrt", "sqrt{x}", "(sqrt x)"},
		{"ln", "ln(x)", "(ln x)"},
		{"log", "log x", "(/ (ln x) (ln 10))"},
		{"log-base", "log(x, y)", "(/ (ln x) (ln y))"},
		{"log-semicolon", "log[x; y]", "(/ (ln x) (ln y))"},
		{"pi", "pi", "(pi)"},
		{"pi-term", "pi x", "(* (pi) x)"},
		{"pi-call", "pi(x)", "(* (pi) x)"},
		{"pi-empty", "pi()", "(pi)"},
		{"e", "2 e", "(* 2 (e))"},
		{"zero", "zero", "0"},
		{"zero-term", "zero x", "(* 0 x)"},
		{"one", "one x", "(+ 1 x)"},
		{"five", "five(x, x, x, x, x)", "(+ (+ (+ (+ (+ 5 x) x) x) x) x)"},
		{"float", "f + x", "(+ f x)"},
		{"poly", "p^2 + x", "(+ (^ p 2) x)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := ParseString(c.src, testvars, testfuncs)
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.src, err)
			}
			if got := sexpr(e.n); got != c.want {
				t.Errorf("%q: want %s, got %s", c.src, c.want, got)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		// check reports whether err has the expected type and contents.
		check func(err error) bool
	}{
		{"empty", "", func(err error) bool {
			var e *EmptyExpressionError
			return errors.As(err, &e) && e.Pos() == 1
		}},
		{"trailing-op", "x +", func(err error) bool {
			var e *EmptyExpressionError
			return errors.As(err, &e) && e.Pos() == 4
		}},
		{"unclosed", "(x", func(err error) bool {
			var e *BracketError
			return errors.As(err, &e) && e.Left == "(" && e.Right == ""
		}},
		{"unopened", "x)", func(err error) bool {
			var e *BracketError
			return errors.As(err, &e) && e.Left == "" && e.Right == ")" && e.Pos() == 2
		}},
		{"mismatched", "(x]", func(err error) bool {
			var e *BracketError
			return errors.As(err, &e) && e.Left == "(" && e.Right == "]"
		}},
		{"empty-group", "()", func(err error) bool {
			var e *EmptyExpressionError
			return errors.As(err, &e) && e.End == ")"
		}},
		{"separator", "x, y", func(err error) bool {
			var e *SeparatorError
			return errors.As(err, &e) && e.Sep == "," && e.Pos() == 2
		}},
		{"unary-op", "x * * y", func(err error) bool {
			var e *OperatorError
			return errors.As(err, &e) && e.Unary && e.Operator == "*"
		}},
		{"undeclared", "q", func(err error) bool {
			var e *NameError
			return errors.As(err, &e) && e.Name == "q"
		}},
		{"lex", "1e + x", func(err error) bool {
			var e *LexError
			return errors.As(err, &e) && e.Kind == "number"
		}},
		{"too-many-args", "zero(x, y)", func(err error) bool {
			var e *CallError
			return errors.As(err, &e) && e.Func == "zero" && e.Len == 2
		}},
		{"too-few-args", "five(x)", func(err error) bool {
			var e *CallError
			return errors.As(err, &e) && e.Func == "five" && e.Len == 1
		}},
		{"no-args", "one()", func(err error) bool {
			var e *CallError
			return errors.As(err, &e) && e.Func == "one" && e.Len == 0
		}},
		{"bare-call", "one", func(err error) bool {
			var e *CallError
			return errors.As(err, &e) && e.Func == "one"
		}},
		{"empty-arg", "log(x, )", func(err error) bool {
			var e *EmptyExpressionError
			return errors.As(err, &e) && e.End == ")"
		}},
		{"unclosed-args", "log(x, y", func(err error) bool {
			var e *BracketError
			return errors.As(err, &e) && e.Left == "("
		}},
		{"type", "f + p", func(err error) bool {
			var e *TypeError
			return errors.As(err, &e) && e.Op == OpAdd
		}},
		{"exp-poly", "exp p", func(err error) bool {
			var e *TypeError
			return errors.As(err, &e) && e.Op == OpExp
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := ParseString(c.src, testvars, testfuncs)
			if err == nil {
				t.Fatalf("%q parsed as %v", c.src, e)
			}
			if e != nil {
				t.Errorf("non-nil expression %v with error", e)
			}
			if !c.check(err) {
				t.Errorf("%q gave wrong error %#v", c.src, err)
			}
		})
	}
}

func TestDisableDefaultFuncs(t *testing.T) {
	for name := range globalfuncs {
		t.Run(name, func(t *testing.T) {
			e, err := ParseString(name, DisableDefaultFuncs(), Declare(name, TypeRat))
			if err != nil {
				t.Fatalf("couldn't parse %s as a variable: %v", name, err)
			}
			if e.n.kind != nodeName || e.Type() != TypeRat {
				t.Errorf("%s parsed as %s", name, sexpr(e.n))
			}
		})
	}
	// Disabling one function leaves the rest.
	e, err := ParseString("ln exp", ParseFunc("exp", nil), Declare("exp", TypeFloat))
	if err != nil {
		t.Fatal(err)
	}
	if got := sexpr(e.n); got != "(ln exp)" {
		t.Errorf("wrong parse with exp disabled: %s", got)
	}
}

func TestParseStopOn(t *testing.T) {
	cases := []struct {
		name string
		src  string
		stop []rune
		want string
		rest string
	}{
		{"newline", "x y\nz", []rune{'\n'}, "(* x y)", "z"},
		{"leading-newline", "\nx\ny", []rune{'\n'}, "x", "y"},
		{"after-op", "x +\ny", []rune{'\n'}, "(+ x y)", ""},
		{"comma", "x, y", []rune{','}, "x", " y"},
		{"semicolon", "x; y", []rune{';'}, "x", " y"},
		{"args", "log(x, y), z", []rune{','}, "(/ (ln x) (ln y))", " z"},
		{"default", "x y", nil, "(* x y)", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := strings.NewReader(c.src)
			e, err := Parse(src, testvars, StopOn(c.stop...))
			if err != nil {
				t.Fatalf("couldn't parse %q: %v", c.src, err)
			}
			if got := sexpr(e.n); got != c.want {
				t.Errorf("want %s, got %s", c.want, got)
			}
			var rest strings.Builder
			if _, err := src.WriteTo(&rest); err != nil {
				t.Fatal(err)
			}
			if rest.String() != c.rest {
				t.Errorf("wrong remaining input: want %q, got %q", c.rest, rest.String())
			}
		})
	}
	defer func() {
		if recover() == nil {
			t.Errorf("StopOn with a letter didn't panic")
		}
	}()
	StopOn('a')
}

func TestWithRegistry(t *testing.T) {
	reg := Default.Clone()
	e, err := ParseString("x + x y", testvars, WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	if e.Registry() != reg {
		t.Errorf("expression resolved against the wrong registry")
	}
	reg.Remove(OpPi)
	if _, err := ParseString("pi", WithRegistry(reg)); err == nil {
		t.Errorf("parsed a call with no rule")
	}
	if _, err := ParseString("pi"); err != nil {
		t.Errorf("removing a rule from a clone affected the default: %v", err)
	}
}

func TestParsingPreset(t *testing.T) {
	preset := ParsingPreset(testvars, testfuncs)
	e, err := ParseString("one x", preset)
	if err != nil {
		t.Fatal(err)
	}
	if got := sexpr(e.n); got != "(+ 1 x)" {
		t.Errorf("wrong parse with preset: %s", got)
	}
	// Options after a preset apply normally.
	e, err = ParseString("x; y", preset, StopOn(';'))
	if err != nil {
		t.Fatal(err)
	}
	if got := sexpr(e.n); got != "x" {
		t.Errorf("wrong parse with preset and StopOn: %s", got)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("preset after options didn't panic")
		}
	}()
	ParseString("x", Declare("x", TypeInt), preset)
}

func BenchmarkParse(b *testing.B) {
	srcs := []struct {
		name string
		src  string
	}{
		{"addmul", "x + y z"},
		{"calls", "exp(x) + log(y, 2) - sqrt z"},
		{"deep", "((((w + x) * y) ^ 2) - z) / (w x y z)"},
	}
	for _, c := range srcs {
		b.Run(c.name, func(b *testing.B) {
			preset := ParsingPreset(testvars)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := ParseString(c.src, preset); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
