// Package tensor provides the 2D matrix helpers used by the engine and the
// numeric backends that operate on them.
//
// A Tensor is a *mat.Dense with rows as batch samples and columns as
// features.
package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ShapeError reports an input that is not a well-formed 2D tensor.
type ShapeError struct {
	Op     string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: malformed tensor: %s", e.Op, e.Reason)
}

// Check returns a ShapeError if m is nil or has no elements.
func Check(op string, m *mat.Dense) error {
	if m == nil {
		return &ShapeError{Op: op, Reason: "nil matrix"}
	}
	if m.IsEmpty() {
		return &ShapeError{Op: op, Reason: "empty matrix"}
	}
	return nil
}

// FromRows builds a tensor from a slice of equally sized rows.
// The data is copied.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, &ShapeError{Op: "tensor.FromRows", Reason: "no rows"}
	}
	cols := len(rows[0])
	if cols == 0 {
		return nil, &ShapeError{Op: "tensor.FromRows", Reason: "row 0 has no columns"}
	}

	data := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, &ShapeError{
				Op:     "tensor.FromRows",
				Reason: fmt.Sprintf("row %d has %d columns, row 0 has %d", i, len(r), cols),
			}
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

// ToRows copies m into a slice of rows.
func ToRows(m *mat.Dense) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		out[i] = make([]float64, c)
		copy(out[i], m.RawRowView(i))
	}
	return out
}

// Row returns a 1×len(vals) tensor.
func Row(vals ...float64) *mat.Dense {
	data := make([]float64, len(vals))
	copy(data, vals)
	return mat.NewDense(1, len(vals), data)
}
