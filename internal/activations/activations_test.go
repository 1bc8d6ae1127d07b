// Package activations provides unit tests for activation functions.
package activations

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/gautamsharma3107/dev-sub002/internal/tensor"
)

// recorder collects warnings for assertions.
type recorder struct {
	mu       sync.Mutex
	warnings []NumericInstabilityWarning
}

func (r *recorder) Warn(w NumericInstabilityWarning) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, w)
}

func mustApply(t *testing.T, a Activation, z *mat.Dense, w Warner) *mat.Dense {
	t.Helper()
	out, err := a.Apply(tensor.NewGonum(), z, w)
	require.NoError(t, err)
	return out
}

// TestReLU tests ReLU activation.
func TestReLU(t *testing.T) {
	relu := Must(New(ReLU))

	tests := []struct {
		input    float64
		expected float64
	}{
		{-1.0, 0.0},  // Negative -> 0
		{0.0, 0.0},   // Zero -> 0
		{1.0, 1.0},   // Positive -> identity
		{2.5, 2.5},   // Larger positive -> identity
		{-0.1, 0.0},  // Small negative -> 0
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, relu.Activate(tt.input), "ReLU(%v)", tt.input)
	}
}

// TestReLUMatrixNonNegative checks ReLU(z) >= 0 and ReLU(z) == z for z > 0.
func TestReLUMatrixNonNegative(t *testing.T) {
	z := mat.NewDense(3, 4, []float64{
		-5, -0.001, 0, 0.001,
		1e9, -1e9, 3, -3,
		math.SmallestNonzeroFloat64, -math.SmallestNonzeroFloat64, 7, 0,
	})
	out := mustApply(t, Must(New(ReLU)), z, nil)

	r, c := z.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v, got := z.At(i, j), out.At(i, j)
			assert.GreaterOrEqual(t, got, 0.0)
			if v > 0 {
				assert.Equal(t, v, got)
			} else {
				assert.Equal(t, 0.0, got)
			}
		}
	}
}

// TestLeakyReLU tests LeakyReLU with alpha = 0.1.
func TestLeakyReLU(t *testing.T) {
	leaky, err := NewLeakyReLU(0.1)
	require.NoError(t, err)

	assert.InDelta(t, -0.3, leaky.Activate(-3), 1e-12)
	assert.Equal(t, 3.0, leaky.Activate(3))
	assert.Equal(t, 0.0, leaky.Activate(0))
	assert.Equal(t, 0.1, leaky.Alpha())

	out := mustApply(t, leaky, tensor.Row(-3, 3), nil)
	assert.InDelta(t, -0.3, out.At(0, 0), 1e-12)
	assert.Equal(t, 3.0, out.At(0, 1))
}

func TestLeakyReLUDefaultAlpha(t *testing.T) {
	leaky := Must(New(LeakyReLU))
	assert.Equal(t, DefaultLeakyAlpha, leaky.Alpha())
	assert.Equal(t, "LeakyReLU(0.01)", leaky.String())
}

// TestLeakyReLUInvalidAlpha checks alpha validation happens at construction.
func TestLeakyReLUInvalidAlpha(t *testing.T) {
	for _, alpha := range []float64{-0.1, -1, math.NaN(), math.Inf(1)} {
		_, err := NewLeakyReLU(alpha)
		var paramErr *ParameterError
		require.True(t, errors.As(err, &paramErr), "alpha %v: got %v", alpha, err)
		assert.Equal(t, "alpha", paramErr.Param)
	}

	zero, err := NewLeakyReLU(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero.Activate(-5))
}

// TestSigmoid tests Sigmoid activation.
func TestSigmoid(t *testing.T) {
	sigmoid := Must(New(Sigmoid))

	tests := []struct {
		input    float64
		expected float64
	}{
		{-2.0, 1 / (1 + math.Exp(2))},
		{-1.0, 1 / (1 + math.Exp(1))},
		{0.0, 0.5}, // Zero -> 0.5
		{1.0, 1 / (1 + math.Exp(-1))},
		{2.0, 1 / (1 + math.Exp(-2))},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.expected, sigmoid.Activate(tt.input), 1e-12, "Sigmoid(%v)", tt.input)
	}
	assert.Equal(t, 0.5, sigmoid.Activate(0))
}

// TestSigmoidRange checks Sigmoid(z) stays in (0, 1) for finite inputs,
// including the clamped extremes.
func TestSigmoidRange(t *testing.T) {
	sigmoid := Must(New(Sigmoid))
	for _, x := range []float64{-1e308, -1000, -500, -30, -1, 0, 1, 30, 500, 1000, 1e308} {
		got := sigmoid.Activate(x)
		assert.Greater(t, got, 0.0, "Sigmoid(%v)", x)
		assert.LessOrEqual(t, got, 1.0, "Sigmoid(%v)", x)
		assert.False(t, math.IsNaN(got))
	}
	// far below the clamp the result is strictly inside the interval
	assert.Less(t, sigmoid.Activate(30), 1.0)
}

// TestSigmoidClampWarning checks clamping is reported once per call.
func TestSigmoidClampWarning(t *testing.T) {
	rec := &recorder{}
	z := mat.NewDense(2, 2, []float64{-1000, 0, 10, 501})
	out := mustApply(t, Must(New(Sigmoid)), z, rec)

	require.Len(t, rec.warnings, 1)
	w := rec.warnings[0]
	assert.Equal(t, Sigmoid, w.Activation)
	assert.Equal(t, 2, w.Count)
	assert.Equal(t, -1, w.Row)
	assert.Contains(t, w.String(), "Sigmoid")

	assert.Equal(t, 0.5, out.At(0, 1))
	assert.Greater(t, out.At(0, 0), 0.0)

	rec2 := &recorder{}
	mustApply(t, Must(New(Sigmoid)), tensor.Row(-1, 1, 499), rec2)
	assert.Empty(t, rec2.warnings)
}

// TestTanh tests Tanh activation.
func TestTanh(t *testing.T) {
	tanh := Must(New(Tanh))

	tests := []float64{-2, -1, 0, 1, 2}
	for _, x := range tests {
		assert.Equal(t, math.Tanh(x), tanh.Activate(x))
	}

	out := mustApply(t, tanh, tensor.Row(tests...), nil)
	for j, x := range tests {
		assert.Equal(t, math.Tanh(x), out.At(0, j))
	}
}

// TestLinear checks identity and that the output does not alias the input.
func TestLinear(t *testing.T) {
	z := tensor.Row(-2, 0, 3.5)
	out := mustApply(t, Must(New(Linear)), z, nil)
	assert.True(t, mat.Equal(z, out))

	out.Set(0, 0, 42)
	assert.Equal(t, -2.0, z.At(0, 0))
}

// TestSoftmax tests the reference row [2.0, 1.0, 0.1].
func TestSoftmax(t *testing.T) {
	out := mustApply(t, Must(New(Softmax)), tensor.Row(2.0, 1.0, 0.1), nil)

	row := out.RawRowView(0)
	assert.InDelta(t, 0.659, row[0], 1e-3)
	assert.InDelta(t, 0.242, row[1], 1e-3)
	assert.InDelta(t, 0.099, row[2], 1e-3)
	assert.InDelta(t, 1.0, floats.Sum(row), 1e-6)
}

// TestSoftmaxRowsSumToOne checks the per-row normalization across a batch.
func TestSoftmaxRowsSumToOne(t *testing.T) {
	z := mat.NewDense(4, 3, []float64{
		1, 2, 3,
		-1000, 0, 1000,
		0, 0, 0,
		1e-9, -1e-9, 5,
	})
	out := mustApply(t, Must(New(Softmax)), z, nil)

	for i := 0; i < 4; i++ {
		assert.InDelta(t, 1.0, floats.Sum(out.RawRowView(i)), 1e-6, "row %d", i)
	}
	assert.InDelta(t, 1.0/3, out.At(2, 0), 1e-12)
}

// TestSoftmaxShiftInvariance checks Softmax(r) == Softmax(r + c).
func TestSoftmaxShiftInvariance(t *testing.T) {
	softmax := Must(New(Softmax))
	base := []float64{0.5, -1.25, 3, 2}

	want := mustApply(t, softmax, tensor.Row(base...), nil)
	for _, c := range []float64{-100, -1, 0.3, 42, 700} {
		shifted := make([]float64, len(base))
		floats.AddConst(c, floats.AddTo(shifted, shifted, base))
		got := mustApply(t, softmax, tensor.Row(shifted...), nil)
		assert.True(t, mat.EqualApprox(want, got, 1e-9), "shift %v", c)
	}
}

// TestSoftmaxLargeValuesStable checks the max-subtraction keeps results finite.
func TestSoftmaxLargeValuesStable(t *testing.T) {
	rec := &recorder{}
	out := mustApply(t, Must(New(Softmax)), tensor.Row(1000, 1000), rec)
	assert.InDelta(t, 0.5, out.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, out.At(0, 1), 1e-12)
	assert.Empty(t, rec.warnings)
}

// TestSoftmaxDegenerateRowWarns checks a NaN row is stabilized and reported.
func TestSoftmaxDegenerateRowWarns(t *testing.T) {
	rec := &recorder{}
	z := mat.NewDense(2, 2, []float64{1, 2, math.NaN(), 0})
	out := mustApply(t, Must(New(Softmax)), z, rec)

	require.Len(t, rec.warnings, 1)
	assert.Equal(t, 1, rec.warnings[0].Row)
	assert.Equal(t, Softmax, rec.warnings[0].Activation)
	assert.InDelta(t, 1.0, floats.Sum(out.RawRowView(0)), 1e-6)
}

// TestApplyShapeError checks nil and empty inputs fail for every kind.
func TestApplyShapeError(t *testing.T) {
	kinds := []Kind{Linear, ReLU, LeakyReLU, Sigmoid, Tanh, Softmax}
	for _, k := range kinds {
		a := Must(New(k))
		for _, z := range []*mat.Dense{nil, {}} {
			_, err := a.Apply(tensor.NewGonum(), z, nil)
			var shapeErr *tensor.ShapeError
			assert.True(t, errors.As(err, &shapeErr), "%v: got %v", k, err)
		}
	}
}

// TestApplyDoesNotMutateInput checks activation application is pure.
func TestApplyDoesNotMutateInput(t *testing.T) {
	kinds := []Kind{Linear, ReLU, LeakyReLU, Sigmoid, Tanh, Softmax}
	for _, k := range kinds {
		z := mat.NewDense(2, 3, []float64{-1, 0, 1, 2, -3, 4})
		orig := mat.DenseCopyOf(z)
		a := Must(New(k))

		first := mustApply(t, a, z, nil)
		second := mustApply(t, a, z, nil)
		assert.True(t, mat.Equal(orig, z), "%v mutated input", k)
		assert.True(t, mat.Equal(first, second), "%v not deterministic", k)
	}
}

// TestInvalidKind checks the zero Activation is rejected.
func TestInvalidKind(t *testing.T) {
	_, err := New(Kind(99))
	var paramErr *ParameterError
	require.True(t, errors.As(err, &paramErr))

	_, err = Activation{}.Apply(tensor.NewGonum(), tensor.Row(1), nil)
	assert.True(t, errors.As(err, &paramErr))
	assert.Panics(t, func() { Activation{}.Activate(1) })
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		name string
		want Kind
	}{
		{"relu", ReLU},
		{"ReLU", ReLU},
		{"leaky_relu", LeakyReLU},
		{"LeakyReLU", LeakyReLU},
		{"sigmoid", Sigmoid},
		{"tanh", Tanh},
		{"softmax", Softmax},
		{"linear", Linear},
		{"identity", Linear},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	_, err := ParseKind("gelu")
	var paramErr *ParameterError
	assert.True(t, errors.As(err, &paramErr))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "Softmax", Softmax.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
}

func TestSoftmaxScalar(t *testing.T) {
	assert.Equal(t, 1.0, Must(New(Softmax)).Activate(-17))
}
