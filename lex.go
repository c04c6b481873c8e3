package bigexpr

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone  tokenKind = iota
	tokenEOF             // end of input, or a stop rune
	tokenNum             // integer, decimal, or infinity
	tokenIdent           // function or variable name
	tokenOp              // one rune of Operators
	tokenOpen            // one rune of OpenBrackets
	tokenClose           // one rune of CloseBrackets
	tokenSep             // one rune of Separators
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=tokenKind -trimprefix=token

// Rune classes recognized by the lexer. A group opened by the k'th rune of
// OpenBrackets must be closed by the k'th rune of CloseBrackets.
const (
	Operators     = "+-*/^×÷"
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
	Separators    = ",;"
)

// single maps runes that are tokens by themselves to their kinds.
var single = func() map[rune]tokenKind {
	m := make(map[rune]tokenKind)
	for _, set := range []struct {
		runes string
		kind  tokenKind
	}{
		{Operators, tokenOp},
		{OpenBrackets, tokenOpen},
		{CloseBrackets, tokenClose},
		{Separators, tokenSep},
		{"∞", tokenNum},
	} {
		for _, r := range set.runes {
			m[r] = set.kind
		}
	}
	return m
}()

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the number of runes read so far.
	col int
	// back is a token returned to the lexer by push.
	back lexToken
	eof  bool
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// push makes tok the next token that next returns. Only one token may be
// pending at a time.
func (l *lexer) push(tok lexToken) {
	if l.back.kind != tokenNone {
		panic("bigexpr: double push")
	}
	l.back = tok
}

// must takes back the pending token, which must exist.
func (l *lexer) must() lexToken {
	tok := l.back
	if tok.kind == tokenNone {
		panic("bigexpr: no pushed token")
	}
	l.back = lexToken{}
	return tok
}

func (l *lexer) read() (rune, error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unread returns the last rune to the source. Panics if the source refuses.
func (l *lexer) unread() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans the next token from the input. Whitespace runes in stop end the
// input as if they were EOF. The first EOF is an EOF token with a nil error;
// once that has been returned, unless it is pushed back, next returns an empty
// token with io.EOF.
func (l *lexer) next(stop string) (lexToken, error) {
	if l.back.kind != tokenNone {
		return l.must(), nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	for {
		r, err := l.read()
		tok := lexToken{pos: l.col}
		if err != nil {
			if errors.Is(err, io.EOF) {
				l.eof = true
				tok.kind, tok.pos = tokenEOF, l.col+1
				return tok, nil
			}
			return tok, err
		}
		if unicode.IsSpace(r) {
			if strings.ContainsRune(stop, r) {
				l.eof = true
				tok.kind = tokenEOF
				return tok, nil
			}
			continue
		}
		if k, ok := single[r]; ok {
			tok.text, tok.kind = string(r), k
			return tok, nil
		}
		switch {
		case '0' <= r && r <= '9', r == '.':
			l.unread()
			err = l.number()
			tok.kind = tokenNum
		case r == '_', unicode.IsLetter(r):
			l.unread()
			err = l.ident()
			tok.kind = tokenIdent
		default:
			// The rune is the whole of the bad token.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
		if err != nil {
			return tok, err
		}
		tok.text = l.buf.String()
		if tok.kind == tokenIdent && (tok.text == "inf" || tok.text == "Inf") {
			// inf looks like an identifier but is a number.
			tok.kind = tokenNum
		}
		return tok, nil
	}
}

// numState is a position in the number grammar
// digits [. digits] [(e|E) [+|-] digits].
type numState int

const (
	numMant numState = iota // mantissa before the point
	numFrac                 // mantissa after the point
	numSign                 // just after the exponent marker
	numExp                  // exponent digits
)

func (l *lexer) number() error {
	st := numMant
	mant, exp := false, false
	for {
		r, err := l.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) || strings.ContainsRune(OpenBrackets+CloseBrackets+Separators, r) {
			l.unread()
			break
		}
		if strings.ContainsRune(Operators, r) && !(st == numSign && (r == '+' || r == '-')) {
			// An operator ends the number unless it is the exponent's sign.
			l.unread()
			break
		}
		l.buf.WriteRune(r)
		switch {
		case '0' <= r && r <= '9':
			if st == numSign || st == numExp {
				st, exp = numExp, true
			} else {
				mant = true
			}
		case r == '.' && st == numMant:
			st = numFrac
		case (r == 'e' || r == 'E') && mant && (st == numMant || st == numFrac):
			st = numSign
		case (r == '+' || r == '-') && st == numSign:
			st = numExp
		default:
			return l.error("number")
		}
	}
	if !mant || (st >= numSign && !exp) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) ident() error {
	for {
		r, err := l.read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// The first rune was valid, so the identifier is nonempty.
				return nil
			}
			return err
		}
		if r != '_' && r != '.' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			l.unread()
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.col,
	}
}

// LexError reports text that is not a token. Text holds what was scanned of
// the token through the offending rune, Kind is "number" for a malformed
// number and empty for a rune that starts no token, and Col is the column of
// the offending rune.
type LexError struct {
	Text string
	Kind string
	Col  int
}

func (err *LexError) Error() string {
	what := "bad token"
	if err.Kind != "" {
		what = "malformed " + err.Kind
	}
	return at(err.Col, what+" "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int { return err.Col }
