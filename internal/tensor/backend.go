package tensor

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Backend is the numeric capability set the engine runs on.
// Every method returns a new matrix and leaves its arguments untouched.
// Shape agreement is the caller's responsibility; implementations panic
// on mismatched operands the way gonum does.
type Backend interface {
	// MatMul returns a·b.
	MatMul(a, b *mat.Dense) *mat.Dense

	// AddRowVector adds v to every row of m (len(v) == cols).
	AddRowVector(m *mat.Dense, v []float64) *mat.Dense

	// AddColVector adds c[i] to every element of row i (len(c) == rows).
	AddColVector(m *mat.Dense, c []float64) *mat.Dense

	// MulColVector multiplies every element of row i by c[i].
	MulColVector(m *mat.Dense, c []float64) *mat.Dense

	// Apply maps fn over every element.
	Apply(m *mat.Dense, fn func(float64) float64) *mat.Dense

	// RowMax returns the maximum of each row.
	RowMax(m *mat.Dense) []float64

	// RowSum returns the sum of each row.
	RowSum(m *mat.Dense) []float64
}

// Gonum is a single-threaded Backend built on gonum/mat and gonum/floats.
type Gonum struct{}

// NewGonum returns the default backend.
func NewGonum() Gonum { return Gonum{} }

// MatMul returns a·b.
func (Gonum) MatMul(a, b *mat.Dense) *mat.Dense {
	var out mat.Dense
	out.Mul(a, b)
	return &out
}

// AddRowVector broadcasts v over the rows of m.
func (Gonum) AddRowVector(m *mat.Dense, v []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	addRowVector(out, v, 0, rows(out))
	return out
}

// AddColVector adds c[i] to row i.
func (Gonum) AddColVector(m *mat.Dense, c []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	addColVector(out, c, 0, rows(out))
	return out
}

// MulColVector scales row i by c[i].
func (Gonum) MulColVector(m *mat.Dense, c []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	mulColVector(out, c, 0, rows(out))
	return out
}

// Apply maps fn over m.
func (Gonum) Apply(m *mat.Dense, fn func(float64) float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	apply(out, fn, 0, rows(out))
	return out
}

// RowMax returns the per-row maximum.
func (Gonum) RowMax(m *mat.Dense) []float64 {
	out := make([]float64, rows(m))
	rowMax(m, out, 0, len(out))
	return out
}

// RowSum returns the per-row sum.
func (Gonum) RowSum(m *mat.Dense) []float64 {
	out := make([]float64, rows(m))
	rowSum(m, out, 0, len(out))
	return out
}

// The kernels below work on the row range [lo, hi) in place so that the
// parallel backend can share them with the serial one.

func rows(m *mat.Dense) int {
	r, _ := m.Dims()
	return r
}

func addRowVector(m *mat.Dense, v []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		floats.Add(m.RawRowView(i), v)
	}
}

func addColVector(m *mat.Dense, c []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		floats.AddConst(c[i], m.RawRowView(i))
	}
}

func mulColVector(m *mat.Dense, c []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		floats.Scale(c[i], m.RawRowView(i))
	}
}

func apply(m *mat.Dense, fn func(float64) float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		row := m.RawRowView(i)
		for j, v := range row {
			row[j] = fn(v)
		}
	}
}

func rowMax(m *mat.Dense, dst []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		dst[i] = floats.Max(m.RawRowView(i))
	}
}

func rowSum(m *mat.Dense, dst []float64, lo, hi int) {
	for i := lo; i < hi; i++ {
		dst[i] = floats.Sum(m.RawRowView(i))
	}
}
