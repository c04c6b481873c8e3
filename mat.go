package bigexpr

import (
	"math/big"
	"strings"
)

// Mat is a dense matrix of arbitrary-precision rationals. The zero value is a
// 0×0 matrix.
//
// Methods set the receiver to the result and return it, and operands may
// alias the receiver. Methods panic with a *DimensionError when the operand
// shapes do not fit the operation.
type Mat struct {
	rows, cols int
	// a holds entries in row-major order.
	a []big.Rat
}

// NewMat creates a rows×cols zero matrix.
func NewMat(rows, cols int) *Mat {
	m := new(Mat)
	m.reshape(rows, cols)
	return m
}

// MatFromInt64 creates a rows×cols matrix from entries in row-major order.
func MatFromInt64(rows, cols int, entries ...int64) *Mat {
	if len(entries) != rows*cols {
		panic("bigexpr: wrong number of matrix entries")
	}
	m := NewMat(rows, cols)
	for i, e := range entries {
		m.a[i].SetInt64(e)
	}
	return m
}

// Identity creates an n×n identity matrix.
func Identity(n int) *Mat {
	return NewMat(n, n).setIdentity(n)
}

func (m *Mat) setIdentity(n int) *Mat {
	m.reshape(n, n)
	for i := 0; i < n; i++ {
		m.a[i*n+i].SetInt64(1)
	}
	return m
}

// reshape sets the shape of m and zeroes every entry.
func (m *Mat) reshape(rows, cols int) {
	n := rows * cols
	if cap(m.a) < n {
		m.a = make([]big.Rat, n)
	} else {
		m.a = m.a[:n]
		for i := range m.a {
			m.a[i].SetInt64(0)
		}
	}
	m.rows, m.cols = rows, cols
}

// Dims returns the number of rows and columns in m.
func (m *Mat) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// At returns a copy of the entry at row i, column j.
func (m *Mat) At(i, j int) *big.Rat {
	return new(big.Rat).Set(m.at(i, j))
}

func (m *Mat) at(i, j int) *big.Rat {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic("bigexpr: matrix index out of range")
	}
	return &m.a[i*m.cols+j]
}

// SetAt sets the entry at row i, column j to x.
func (m *Mat) SetAt(i, j int, x *big.Rat) *Mat {
	m.at(i, j).Set(x)
	return m
}

// Set sets m to x.
func (m *Mat) Set(x *Mat) *Mat {
	if m == x {
		return m
	}
	m.reshape(x.rows, x.cols)
	for i := range x.a {
		m.a[i].Set(&x.a[i])
	}
	return m
}

// Neg sets m to -x.
func (m *Mat) Neg(x *Mat) *Mat {
	if m != x {
		m.reshape(x.rows, x.cols)
	}
	for i := range x.a {
		m.a[i].Neg(&x.a[i])
	}
	return m
}

// Add sets m to x + y.
func (m *Mat) Add(x, y *Mat) *Mat {
	m.shapeFor(OpAdd, x, y)
	for i := range m.a {
		m.a[i].Add(&x.a[i], &y.a[i])
	}
	return m
}

// Sub sets m to x - y.
func (m *Mat) Sub(x, y *Mat) *Mat {
	m.shapeFor(OpSub, x, y)
	for i := range m.a {
		m.a[i].Sub(&x.a[i], &y.a[i])
	}
	return m
}

// shapeFor checks that x and y have the same shape and gives m that shape
// without disturbing entries m shares with x or y.
func (m *Mat) shapeFor(op Op, x, y *Mat) {
	if err := sameShape(op, x, y); err != nil {
		panic(err)
	}
	if m != x && m != y {
		m.reshape(x.rows, x.cols)
	}
}

func sameShape(op Op, x, y *Mat) error {
	if x.rows != y.rows || x.cols != y.cols {
		return &DimensionError{Op: op, Rows: [2]int{x.rows, y.rows}, Cols: [2]int{x.cols, y.cols}}
	}
	return nil
}

func mulShape(x, y *Mat) error {
	if x.cols != y.rows {
		return &DimensionError{Op: OpMul, Rows: [2]int{x.rows, y.rows}, Cols: [2]int{x.cols, y.cols}}
	}
	return nil
}

// Scale sets m to k*x.
func (m *Mat) Scale(k *big.Rat, x *Mat) *Mat {
	if m != x {
		m.reshape(x.rows, x.cols)
	}
	for i := range x.a {
		m.a[i].Mul(&x.a[i], k)
	}
	return m
}

// Mul sets m to the matrix product x*y.
func (m *Mat) Mul(x, y *Mat) *Mat {
	if err := mulShape(x, y); err != nil {
		panic(err)
	}
	if m == x || m == y {
		var t Mat
		t.mul(x, y)
		*m = t
		return m
	}
	return m.mul(x, y)
}

// mul sets m to x*y. m must not alias x or y, and the shapes must agree.
func (m *Mat) mul(x, y *Mat) *Mat {
	m.reshape(x.rows, y.cols)
	var t big.Rat
	return m.accumulate(x, y, false, &t)
}

// accumulate sets m to m ± x*y using t as a temporary. m must not alias x or
// y and must already have the product's shape.
func (m *Mat) accumulate(x, y *Mat, sub bool, t *big.Rat) *Mat {
	n := x.cols
	for i := 0; i < x.rows; i++ {
		for j := 0; j < y.cols; j++ {
			e := &m.a[i*m.cols+j]
			for k := 0; k < n; k++ {
				t.Mul(&x.a[i*n+k], &y.a[k*y.cols+j])
				if sub {
					e.Sub(e, t)
				} else {
					e.Add(e, t)
				}
			}
		}
	}
	return m
}

// Inverse sets m to the inverse of x. The result is false, and m is
// unchanged, if x is singular. Inverse panics if x is not square.
func (m *Mat) Inverse(x *Mat) (*Mat, bool) {
	if x.rows != x.cols {
		panic(&DimensionError{Op: OpPow, Rows: [2]int{x.rows, x.rows}, Cols: [2]int{x.cols, x.cols}})
	}
	n := x.rows
	w := new(Mat).Set(x)
	inv := Identity(n)
	var f, t big.Rat
	for col := 0; col < n; col++ {
		piv := -1
		for r := col; r < n; r++ {
			if w.a[r*n+col].Sign() != 0 {
				piv = r
				break
			}
		}
		if piv < 0 {
			return m, false
		}
		if piv != col {
			w.swapRows(piv, col)
			inv.swapRows(piv, col)
		}
		f.Inv(&w.a[col*n+col])
		w.scaleRow(col, &f)
		inv.scaleRow(col, &f)
		for r := 0; r < n; r++ {
			if r == col || w.a[r*n+col].Sign() == 0 {
				continue
			}
			f.Set(&w.a[r*n+col])
			w.subRow(r, col, &f, &t)
			inv.subRow(r, col, &f, &t)
		}
	}
	m.Set(inv)
	return m, true
}

func (m *Mat) swapRows(i, j int) {
	for k := 0; k < m.cols; k++ {
		a, b := &m.a[i*m.cols+k], &m.a[j*m.cols+k]
		*a, *b = *b, *a
	}
}

func (m *Mat) scaleRow(i int, f *big.Rat) {
	for k := 0; k < m.cols; k++ {
		e := &m.a[i*m.cols+k]
		e.Mul(e, f)
	}
}

// subRow subtracts f times row j from row i.
func (m *Mat) subRow(i, j int, f, t *big.Rat) {
	for k := 0; k < m.cols; k++ {
		t.Mul(f, &m.a[j*m.cols+k])
		e := &m.a[i*m.cols+k]
		e.Sub(e, t)
	}
}

// pow sets m to x^k using base and t as workspace. m must not alias base or
// t. x may alias m. x must be square.
func (m *Mat) pow(x *Mat, k uint, base, t *Mat) *Mat {
	base.Set(x)
	m.setIdentity(x.rows)
	for k > 0 {
		if k&1 != 0 {
			t.mul(m, base)
			*m, *t = *t, *m
		}
		k >>= 1
		if k > 0 {
			t.mul(base, base)
			*base, *t = *t, *base
		}
	}
	return m
}

// Equal reports whether m and x have the same shape and entries.
func (m *Mat) Equal(x *Mat) bool {
	if m.rows != x.rows || m.cols != x.cols {
		return false
	}
	for i := range m.a {
		if m.a[i].Cmp(&x.a[i]) != 0 {
			return false
		}
	}
	return true
}

// String formats m as rows of entries, e.g. "[[1 2] [3 4]]".
func (m *Mat) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i := 0; i < m.rows; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('[')
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(m.a[i*m.cols+j].RatString())
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}
