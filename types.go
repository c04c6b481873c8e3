package bigexpr

import (
	"math/big"
	"strconv"
	"strings"
)

// Type identifies the kind of value an expression produces.
type Type uint8

const (
	TypeInvalid Type = iota

	TypeInt   // *big.Int
	TypeRat   // *big.Rat
	TypeFloat // *big.Float
	TypePoly  // *Poly
	TypeMat   // *Mat

	numTypes
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Type -trimprefix=Type

// Value is a value of one of the types the kernel understands: *big.Int,
// *big.Rat, *big.Float, *Poly, or *Mat.
type Value = any

// TypeOf returns the type of a value, or TypeInvalid if the value is not one
// the kernel understands. Nil pointers are invalid.
func TypeOf(v Value) Type {
	switch v := v.(type) {
	case *big.Int:
		if v != nil {
			return TypeInt
		}
	case *big.Rat:
		if v != nil {
			return TypeRat
		}
	case *big.Float:
		if v != nil {
			return TypeFloat
		}
	case *Poly:
		if v != nil {
			return TypePoly
		}
	case *Mat:
		if v != nil {
			return TypeMat
		}
	}
	return TypeInvalid
}

// newValue constructs a zero value of a type. Floats take the given
// precision.
func newValue(t Type, prec uint) Value {
	switch t {
	case TypeInt:
		return new(big.Int)
	case TypeRat:
		return new(big.Rat)
	case TypeFloat:
		return new(big.Float).SetPrec(prec)
	case TypePoly:
		return new(Poly)
	case TypeMat:
		return new(Mat)
	default:
		panic("bigexpr: no values of type " + t.String())
	}
}

// copyValue returns a fresh copy of v.
func copyValue(v Value, prec uint) Value {
	r := newValue(TypeOf(v), prec)
	setValue(r, v)
	return r
}

// setValue sets dst to src. Both must have the same type.
func setValue(dst, src Value) {
	switch dst := dst.(type) {
	case *big.Int:
		dst.Set(src.(*big.Int))
	case *big.Rat:
		dst.Set(src.(*big.Rat))
	case *big.Float:
		dst.Set(src.(*big.Float))
	case *Poly:
		dst.Set(src.(*Poly))
	case *Mat:
		dst.Set(src.(*Mat))
	default:
		panic("bigexpr: cannot set value of type " + TypeOf(dst).String())
	}
}

// sameValue reports whether two values are the same object.
func sameValue(a, b Value) bool {
	switch a := a.(type) {
	case *big.Int:
		b, ok := b.(*big.Int)
		return ok && a == b
	case *big.Rat:
		b, ok := b.(*big.Rat)
		return ok && a == b
	case *big.Float:
		b, ok := b.(*big.Float)
		return ok && a == b
	case *Poly:
		b, ok := b.(*Poly)
		return ok && a == b
	case *Mat:
		b, ok := b.(*Mat)
		return ok && a == b
	}
	return false
}

// Format formats a value for display. Floats use the %g verb.
func Format(v Value) string {
	switch v := v.(type) {
	case *big.Int:
		return v.String()
	case *big.Rat:
		return v.RatString()
	case *big.Float:
		return v.Text('g', -1)
	case *Poly:
		return v.String()
	case *Mat:
		return v.String()
	default:
		return "<invalid>"
	}
}

// ParseValue parses a literal value. The accepted forms are:
//
//	123, -4          integer (*big.Int)
//	3/4, 1.25, 1e-3  rational (*big.Rat)
//	inf, -inf, ∞     infinite float (*big.Float)
//	f:1.5            float (*big.Float) at the given precision
//	poly:1,0,-2      integer polynomial with coefficients from degree 0 (*Poly)
//	mat:2x2:1,2,3,4  rational matrix in row-major order (*Mat)
func ParseValue(s string, prec uint) (Value, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, &ValueError{Text: s, Kind: "value"}
	case strings.HasPrefix(s, "poly:"):
		fields := strings.Split(s[len("poly:"):], ",")
		c := make([]*big.Int, len(fields))
		for i, f := range fields {
			x, ok := new(big.Int).SetString(strings.TrimSpace(f), 10)
			if !ok {
				return nil, &ValueError{Text: s, Kind: "polynomial"}
			}
			c[i] = x
		}
		return new(Poly).SetCoeffs(c), nil
	case strings.HasPrefix(s, "mat:"):
		return parseMat(s)
	case strings.HasPrefix(s, "f:"):
		x, _, err := new(big.Float).SetPrec(prec).Parse(s[2:], 0)
		if err != nil {
			return nil, &ValueError{Text: s, Kind: "float"}
		}
		return x, nil
	}
	switch s {
	case "inf", "Inf", "+inf", "+Inf", "∞":
		return new(big.Float).SetPrec(prec).SetInf(false), nil
	case "-inf", "-Inf", "-∞":
		return new(big.Float).SetPrec(prec).SetInf(true), nil
	}
	if x, ok := new(big.Int).SetString(s, 10); ok {
		return x, nil
	}
	if x, ok := new(big.Rat).SetString(s); ok {
		return x, nil
	}
	return nil, &ValueError{Text: s, Kind: "value"}
}

func parseMat(s string) (Value, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 {
		return nil, &ValueError{Text: s, Kind: "matrix"}
	}
	dims := strings.SplitN(parts[1], "x", 2)
	if len(dims) != 2 {
		return nil, &ValueError{Text: s, Kind: "matrix"}
	}
	rows, err := strconv.Atoi(dims[0])
	if err != nil || rows <= 0 {
		return nil, &ValueError{Text: s, Kind: "matrix"}
	}
	cols, err := strconv.Atoi(dims[1])
	if err != nil || cols <= 0 {
		return nil, &ValueError{Text: s, Kind: "matrix"}
	}
	fields := strings.Split(parts[2], ",")
	if cols > len(fields)/rows || len(fields) != rows*cols {
		return nil, &ValueError{Text: s, Kind: "matrix"}
	}
	m := NewMat(rows, cols)
	for i, f := range fields {
		if _, ok := m.a[i].SetString(strings.TrimSpace(f)); !ok {
			return nil, &ValueError{Text: s, Kind: "matrix"}
		}
	}
	return m, nil
}

// ValueError is an error parsing a literal value.
type ValueError struct {
	// Text is the literal that failed to parse.
	Text string
	// Kind is the kind of value the literal was expected to be.
	Kind string
}

func (err *ValueError) Error() string {
	return "invalid " + err.Kind + " literal " + strconv.Quote(err.Text)
}
