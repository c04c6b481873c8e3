package bigexpr

import (
	"math/big"
	"strconv"
	"strings"
)

// Poly is a univariate polynomial with arbitrary-precision integer
// coefficients. The zero value is the zero polynomial.
//
// Methods follow the conventions of package math/big: the receiver is set to
// the result and returned, and operands may alias the receiver.
type Poly struct {
	// c holds coefficients from degree 0 up. The last element, if any, is
	// nonzero.
	c []big.Int
}

// NewPoly creates a polynomial from coefficients given from degree 0 up.
func NewPoly(coeffs ...int64) *Poly {
	p := new(Poly)
	p.resize(len(coeffs))
	for i, c := range coeffs {
		p.c[i].SetInt64(c)
	}
	return p.norm()
}

// SetCoeffs sets p to the polynomial with the given coefficients, from
// degree 0 up. Nil coefficients are zero.
func (p *Poly) SetCoeffs(coeffs []*big.Int) *Poly {
	p.resize(len(coeffs))
	for i, c := range coeffs {
		if c == nil {
			p.c[i].SetInt64(0)
			continue
		}
		p.c[i].Set(c)
	}
	return p.norm()
}

// resize sets the number of coefficients in p, zeroing new ones. The result
// may not be normalized.
func (p *Poly) resize(n int) {
	if cap(p.c) < n {
		c := make([]big.Int, n)
		copy(c, p.c)
		p.c = c
		return
	}
	old := len(p.c)
	p.c = p.c[:n]
	for i := old; i < n; i++ {
		p.c[i].SetInt64(0)
	}
}

// norm drops zero leading coefficients.
func (p *Poly) norm() *Poly {
	n := len(p.c)
	for n > 0 && p.c[n-1].Sign() == 0 {
		n--
	}
	p.c = p.c[:n]
	return p
}

// Degree returns the degree of p. The zero polynomial has degree -1.
func (p *Poly) Degree() int {
	return len(p.c) - 1
}

// Coeff returns a copy of the coefficient of x^i.
func (p *Poly) Coeff(i int) *big.Int {
	if i < 0 || i >= len(p.c) {
		return new(big.Int)
	}
	return new(big.Int).Set(&p.c[i])
}

// Set sets p to q.
func (p *Poly) Set(q *Poly) *Poly {
	if p == q {
		return p
	}
	p.resize(len(q.c))
	for i := range q.c {
		p.c[i].Set(&q.c[i])
	}
	return p
}

// SetInt sets p to the constant polynomial k.
func (p *Poly) SetInt(k *big.Int) *Poly {
	p.resize(1)
	p.c[0].Set(k)
	return p.norm()
}

// Neg sets p to -q.
func (p *Poly) Neg(q *Poly) *Poly {
	p.resize(len(q.c))
	for i := range q.c {
		p.c[i].Neg(&q.c[i])
	}
	return p
}

// Add sets p to a + b.
func (p *Poly) Add(a, b *Poly) *Poly {
	return p.combine(a, b, false)
}

// Sub sets p to a - b.
func (p *Poly) Sub(a, b *Poly) *Poly {
	return p.combine(a, b, true)
}

func (p *Poly) combine(a, b *Poly, sub bool) *Poly {
	la, lb := len(a.c), len(b.c)
	n := la
	if lb > n {
		n = lb
	}
	p.resize(n)
	for i := 0; i < n; i++ {
		switch {
		case i < la && i < lb:
			if sub {
				p.c[i].Sub(&a.c[i], &b.c[i])
			} else {
				p.c[i].Add(&a.c[i], &b.c[i])
			}
		case i < la:
			p.c[i].Set(&a.c[i])
		case sub:
			p.c[i].Neg(&b.c[i])
		default:
			p.c[i].Set(&b.c[i])
		}
	}
	return p.norm()
}

// AddConst sets p to a + k.
func (p *Poly) AddConst(a *Poly, k *big.Int) *Poly {
	p.Set(a)
	if len(p.c) == 0 {
		p.resize(1)
	}
	p.c[0].Add(&p.c[0], k)
	return p.norm()
}

// SubConst sets p to a - k.
func (p *Poly) SubConst(a *Poly, k *big.Int) *Poly {
	p.Set(a)
	if len(p.c) == 0 {
		p.resize(1)
	}
	p.c[0].Sub(&p.c[0], k)
	return p.norm()
}

// Scale sets p to k*a.
func (p *Poly) Scale(k *big.Int, a *Poly) *Poly {
	if k.Sign() == 0 {
		p.c = p.c[:0]
		return p
	}
	p.resize(len(a.c))
	for i := range a.c {
		p.c[i].Mul(&a.c[i], k)
	}
	return p
}

// Mul sets p to a*b.
func (p *Poly) Mul(a, b *Poly) *Poly {
	if p == a || p == b {
		var t Poly
		t.mul(a, b)
		p.c = t.c
		return p
	}
	return p.mul(a, b)
}

// mul sets p to a*b. p must not alias a or b.
func (p *Poly) mul(a, b *Poly) *Poly {
	if len(a.c) == 0 || len(b.c) == 0 {
		p.c = p.c[:0]
		return p
	}
	p.c = p.c[:0]
	p.resize(len(a.c) + len(b.c) - 1)
	var t big.Int
	return p.accumulate(a, b, false, &t)
}

// accumulate sets p to p ± a*b using t as a temporary. p must not alias a or
// b, but it may hold more coefficients than the product.
func (p *Poly) accumulate(a, b *Poly, sub bool, t *big.Int) *Poly {
	if len(a.c) == 0 || len(b.c) == 0 {
		return p
	}
	if n := len(a.c) + len(b.c) - 1; len(p.c) < n {
		p.resize(n)
	}
	for i := range a.c {
		for j := range b.c {
			t.Mul(&a.c[i], &b.c[j])
			if sub {
				p.c[i+j].Sub(&p.c[i+j], t)
			} else {
				p.c[i+j].Add(&p.c[i+j], t)
			}
		}
	}
	return p.norm()
}

// Pow sets p to a^k.
func (p *Poly) Pow(a *Poly, k uint) *Poly {
	var base, t Poly
	return p.pow(a, k, &base, &t)
}

// pow sets p to a^k using base and t as workspace. p must not alias base or
// t. a may alias p.
func (p *Poly) pow(a *Poly, k uint, base, t *Poly) *Poly {
	base.Set(a)
	p.c = p.c[:0]
	p.resize(1)
	p.c[0].SetInt64(1)
	for k > 0 {
		if k&1 != 0 {
			t.mul(p, base)
			p.c, t.c = t.c, p.c
		}
		k >>= 1
		if k > 0 {
			t.mul(base, base)
			base.c, t.c = t.c, base.c
		}
	}
	return p.norm()
}

// Eval returns the value of p at x.
func (p *Poly) Eval(x *big.Int) *big.Int {
	r := new(big.Int)
	for i := len(p.c) - 1; i >= 0; i-- {
		r.Mul(r, x)
		r.Add(r, &p.c[i])
	}
	return r
}

// Equal reports whether p and q are the same polynomial.
func (p *Poly) Equal(q *Poly) bool {
	if len(p.c) != len(q.c) {
		return false
	}
	for i := range p.c {
		if p.c[i].Cmp(&q.c[i]) != 0 {
			return false
		}
	}
	return true
}

// String formats p in descending powers of x, e.g. "2*x^2 - x + 3".
func (p *Poly) String() string {
	if len(p.c) == 0 {
		return "0"
	}
	var b strings.Builder
	var abs big.Int
	for i := len(p.c) - 1; i >= 0; i-- {
		c := &p.c[i]
		if c.Sign() == 0 {
			continue
		}
		switch {
		case b.Len() == 0 && c.Sign() < 0:
			b.WriteByte('-')
		case b.Len() == 0: // do nothing
		case c.Sign() < 0:
			b.WriteString(" - ")
		default:
			b.WriteString(" + ")
		}
		abs.Abs(c)
		one := abs.IsInt64() && abs.Int64() == 1
		if i == 0 || !one {
			b.WriteString(abs.String())
			if i > 0 {
				b.WriteByte('*')
			}
		}
		switch {
		case i == 1:
			b.WriteByte('x')
		case i > 1:
			b.WriteString("x^" + strconv.Itoa(i))
		}
	}
	return b.String()
}
