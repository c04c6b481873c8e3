package bigexpr

import (
	"math/big"
	"testing"
)

func TestPolyString(t *testing.T) {
	cases := []struct {
		p    *Poly
		want string
	}{
		{NewPoly(), "0"},
		{NewPoly(0, 0), "0"},
		{NewPoly(-1), "-1"},
		{NewPoly(0, 1), "x"},
		{NewPoly(0, -1), "-x"},
		{NewPoly(1, 2, 1), "x^2 + 2*x + 1"},
		{NewPoly(3, -1, 2), "2*x^2 - x + 3"},
		{NewPoly(0, 0, 0, 5), "5*x^3"},
		{NewPoly(-7, 0, -1), "-x^2 - 7"},
	}
	for _, c := range cases {
		if got := c.p.String(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}

func TestPolyArith(t *testing.T) {
	x1 := func() *Poly { return NewPoly(1, 1) }
	cases := []struct {
		name string
		f    func() *Poly
		want string
	}{
		{"add", func() *Poly { return new(Poly).Add(x1(), NewPoly(0, 0, 3)) }, "3*x^2 + x + 1"},
		{"add-alias", func() *Poly { p := x1(); return p.Add(p, p) }, "2*x + 2"},
		{"sub-cancel", func() *Poly { return new(Poly).Sub(x1(), NewPoly(0, 1)) }, "1"},
		{"sub-self", func() *Poly { p := x1(); return p.Sub(p, p) }, "0"},
		{"sub-longer", func() *Poly { return new(Poly).Sub(NewPoly(1), NewPoly(0, 0, 1)) }, "-x^2 + 1"},
		{"neg", func() *Poly { p := x1(); return p.Neg(p) }, "-x - 1"},
		{"mul", func() *Poly { return new(Poly).Mul(x1(), NewPoly(-1, 1)) }, "x^2 - 1"},
		{"mul-alias", func() *Poly { p := x1(); return p.Mul(p, p) }, "x^2 + 2*x + 1"},
		{"mul-zero", func() *Poly { return x1().Mul(x1(), new(Poly)) }, "0"},
		{"pow", func() *Poly { return new(Poly).Pow(x1(), 3) }, "x^3 + 3*x^2 + 3*x + 1"},
		{"pow-zero", func() *Poly { return new(Poly).Pow(x1(), 0) }, "1"},
		{"pow-alias", func() *Poly { p := NewPoly(0, 2); return p.Pow(p, 4) }, "16*x^4"},
		{"scale", func() *Poly { return new(Poly).Scale(big.NewInt(-2), x1()) }, "-2*x - 2"},
		{"scale-zero", func() *Poly { p := x1(); return p.Scale(new(big.Int), p) }, "0"},
		{"add-const", func() *Poly { return new(Poly).AddConst(new(Poly), big.NewInt(5)) }, "5"},
		{"sub-const", func() *Poly { p := NewPoly(5); return p.SubConst(p, big.NewInt(5)) }, "0"},
		{"set-int", func() *Poly { return x1().SetInt(big.NewInt(9)) }, "9"},
		{"set-coeffs", func() *Poly { return new(Poly).SetCoeffs([]*big.Int{nil, big.NewInt(4), nil}) }, "4*x"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f().String(); got != c.want {
				t.Errorf("want %q, got %q", c.want, got)
			}
		})
	}
}

func TestPolyAccumulate(t *testing.T) {
	var tmp big.Int
	p := NewPoly(1)
	p.accumulate(NewPoly(0, 1), NewPoly(0, 1), false, &tmp)
	if got := p.String(); got != "x^2 + 1" {
		t.Errorf("wrong AddMul: %q", got)
	}
	p.accumulate(NewPoly(0, 1), NewPoly(0, 1), true, &tmp)
	if got := p.String(); got != "1" || p.Degree() != 0 {
		t.Errorf("wrong SubMul: %q degree %d", got, p.Degree())
	}
}

func TestPolyAccessors(t *testing.T) {
	p := NewPoly(1, 2, 0)
	if p.Degree() != 1 {
		t.Errorf("wrong degree %d", p.Degree())
	}
	if NewPoly().Degree() != -1 {
		t.Errorf("zero polynomial has degree %d", NewPoly().Degree())
	}
	c := p.Coeff(0)
	c.SetInt64(100)
	if p.Coeff(0).Int64() != 1 {
		t.Errorf("Coeff returned a shared value")
	}
	if p.Coeff(7).Sign() != 0 || p.Coeff(-1).Sign() != 0 {
		t.Errorf("coefficients outside the degree are nonzero")
	}
	sq := NewPoly(1, 2, 1)
	if v := sq.Eval(big.NewInt(3)); v.Int64() != 16 {
		t.Errorf("wrong value at 3: %v", v)
	}
	if !sq.Equal(new(Poly).Mul(NewPoly(1, 1), NewPoly(1, 1))) {
		t.Errorf("equal polynomials compare unequal")
	}
	if sq.Equal(p) {
		t.Errorf("unequal polynomials compare equal")
	}
}
