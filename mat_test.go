package bigexpr

import (
	"errors"
	"math/big"
	"testing"
)

func TestMatArith(t *testing.T) {
	m22 := func() *Mat { return MatFromInt64(2, 2, 1, 2, 3, 4) }
	cases := []struct {
		name string
		f    func() *Mat
		want string
	}{
		{"string", m22, "[[1 2] [3 4]]"},
		{"empty", func() *Mat { return new(Mat) }, "[]"},
		{"identity", func() *Mat { return Identity(3) }, "[[1 0 0] [0 1 0] [0 0 1]]"},
		{"add-alias", func() *Mat { m := m22(); return m.Add(m, m) }, "[[2 4] [6 8]]"},
		{"sub", func() *Mat { return new(Mat).Sub(m22(), Identity(2)) }, "[[0 2] [3 3]]"},
		{"neg-alias", func() *Mat { m := m22(); return m.Neg(m) }, "[[-1 -2] [-3 -4]]"},
		{"mul", func() *Mat { return new(Mat).Mul(m22(), MatFromInt64(2, 1, 1, 1)) }, "[[3] [7]]"},
		{"mul-alias", func() *Mat { m := m22(); return m.Mul(m, m) }, "[[7 10] [15 22]]"},
		{"mul-shape", func() *Mat { return new(Mat).Mul(MatFromInt64(1, 3, 1, 2, 3), MatFromInt64(3, 1, 4, 5, 6)) }, "[[32]]"},
		{"scale", func() *Mat { m := m22(); return m.Scale(big.NewRat(1, 2), m) }, "[[1/2 1] [3/2 2]]"},
		{"set-at", func() *Mat { return m22().SetAt(1, 0, big.NewRat(-1, 3)) }, "[[1 2] [-1/3 4]]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.f().String(); got != c.want {
				t.Errorf("want %s, got %s", c.want, got)
			}
		})
	}
}

func TestMatShapes(t *testing.T) {
	cases := []struct {
		name string
		f    func()
		op   Op
	}{
		{"add", func() { new(Mat).Add(NewMat(2, 2), NewMat(2, 3)) }, OpAdd},
		{"sub", func() { new(Mat).Sub(NewMat(1, 2), NewMat(2, 1)) }, OpSub},
		{"mul", func() { new(Mat).Mul(NewMat(2, 3), NewMat(2, 3)) }, OpMul},
		{"inverse", func() { new(Mat).Inverse(NewMat(2, 3)) }, OpPow},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			defer func() {
				err, _ := recover().(error)
				var de *DimensionError
				if !errors.As(err, &de) {
					t.Fatalf("wrong panic: want *DimensionError, got %#v", err)
				}
				if de.Op != c.op {
					t.Errorf("wrong op: want %v, got %v", c.op, de.Op)
				}
			}()
			c.f()
		})
	}
}

func TestMatInverse(t *testing.T) {
	cases := []struct {
		name string
		m    *Mat
		want string
		ok   bool
	}{
		{"two", MatFromInt64(2, 2, 1, 2, 3, 4), "[[-2 1] [3/2 -1/2]]", true},
		{"pivot", MatFromInt64(2, 2, 0, 1, 1, 0), "[[0 1] [1 0]]", true},
		{"fib", MatFromInt64(2, 2, 1, 1, 1, 0), "[[0 1] [1 -1]]", true},
		{"three", MatFromInt64(3, 3, 2, 0, 0, 0, 4, 0, 0, 0, 8), "[[1/2 0 0] [0 1/4 0] [0 0 1/8]]", true},
		{"singular", MatFromInt64(2, 2, 1, 2, 2, 4), "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			orig := new(Mat).Set(c.m)
			dst := MatFromInt64(1, 1, 99)
			inv, ok := dst.Inverse(c.m)
			if ok != c.ok {
				t.Fatalf("wrong invertibility: want %t, got %t", c.ok, ok)
			}
			if !c.m.Equal(orig) {
				t.Errorf("operand changed to %v", c.m)
			}
			if !ok {
				if inv.String() != "[[99]]" {
					t.Errorf("destination changed on failure: %v", inv)
				}
				return
			}
			if got := inv.String(); got != c.want {
				t.Errorf("want %s, got %s", c.want, got)
			}
			r, _ := c.m.Dims()
			if !new(Mat).Mul(c.m, inv).Equal(Identity(r)) {
				t.Errorf("product with inverse isn't identity")
			}
			// In place.
			if _, ok := c.m.Inverse(c.m); !ok || !c.m.Equal(inv) {
				t.Errorf("in place inverse gave %v", c.m)
			}
		})
	}
}

func TestMatPow(t *testing.T) {
	fib := MatFromInt64(2, 2, 1, 1, 1, 0)
	var base, tmp Mat
	for k := uint(0); k <= 10; k++ {
		want := Identity(2)
		for i := uint(0); i < k; i++ {
			want.Mul(want, fib)
		}
		got := new(Mat).pow(fib, k, &base, &tmp)
		if !got.Equal(want) {
			t.Errorf("fib^%d: want %v, got %v", k, want, got)
		}
	}
	// Aliased operand.
	m := MatFromInt64(2, 2, 1, 1, 1, 0)
	m.pow(m, 10, &base, &tmp)
	if got := m.String(); got != "[[89 55] [55 34]]" {
		t.Errorf("aliased fib^10: %s", got)
	}
}

func TestMatAccessors(t *testing.T) {
	m := MatFromInt64(2, 3, 1, 2, 3, 4, 5, 6)
	if r, c := m.Dims(); r != 2 || c != 3 {
		t.Errorf("wrong dims %d×%d", r, c)
	}
	x := m.At(1, 2)
	x.SetInt64(100)
	if m.At(1, 2).Cmp(big.NewRat(6, 1)) != 0 {
		t.Errorf("At returned a shared value")
	}
	if m.Equal(MatFromInt64(3, 2, 1, 2, 3, 4, 5, 6)) {
		t.Errorf("matrices of different shapes compare equal")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("out of range index didn't panic")
		}
	}()
	m.At(2, 0)
}
