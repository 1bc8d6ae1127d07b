// Package activations provides the closed set of activation functions
// applied by dense layers.
package activations

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gautamsharma3107/dev-sub002/internal/tensor"
)

// Kind identifies one of the supported activation functions.
// The zero value is invalid.
type Kind int

const (
	Linear Kind = iota + 1
	ReLU
	LeakyReLU
	Sigmoid
	Tanh
	Softmax
)

// DefaultLeakyAlpha is the LeakyReLU slope used by New(LeakyReLU).
const DefaultLeakyAlpha = 0.01

// SigmoidClamp bounds the pre-activation fed to exp in Sigmoid.
const SigmoidClamp = 500.0

// minSoftmaxDenominator is the smallest row sum Softmax divides by.
const minSoftmaxDenominator = 1e-300

func (k Kind) String() string {
	switch k {
	case Linear:
		return "Linear"
	case ReLU:
		return "ReLU"
	case LeakyReLU:
		return "LeakyReLU"
	case Sigmoid:
		return "Sigmoid"
	case Tanh:
		return "Tanh"
	case Softmax:
		return "Softmax"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps an activation name to its Kind. Matching ignores case,
// underscores and dashes, so "leaky_relu" and "LeakyReLU" are equal.
func ParseKind(name string) (Kind, error) {
	norm := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(name))
	switch norm {
	case "linear", "identity", "none":
		return Linear, nil
	case "relu":
		return ReLU, nil
	case "leakyrelu":
		return LeakyReLU, nil
	case "sigmoid", "logistic":
		return Sigmoid, nil
	case "tanh":
		return Tanh, nil
	case "softmax":
		return Softmax, nil
	}
	return 0, &ParameterError{Param: "name", Value: name, Reason: "unknown activation"}
}

// Activation is a validated activation function. Only LeakyReLU carries a
// parameter. Values are immutable and safe to share between goroutines.
type Activation struct {
	kind  Kind
	alpha float64
}

// New returns the activation for kind. LeakyReLU gets DefaultLeakyAlpha.
func New(kind Kind) (Activation, error) {
	switch kind {
	case Linear, ReLU, Sigmoid, Tanh, Softmax:
		return Activation{kind: kind}, nil
	case LeakyReLU:
		return NewLeakyReLU(DefaultLeakyAlpha)
	}
	return Activation{}, &ParameterError{Param: "kind", Value: int(kind), Reason: "unknown activation"}
}

// NewLeakyReLU creates a LeakyReLU with the given negative slope.
// alpha must be finite and non-negative.
func NewLeakyReLU(alpha float64) (Activation, error) {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || alpha < 0 {
		return Activation{}, &ParameterError{Param: "alpha", Value: alpha, Reason: "must be finite and >= 0"}
	}
	return Activation{kind: LeakyReLU, alpha: alpha}, nil
}

// Must panics if err is non-nil. It is meant for package-level values
// built from constants.
func Must(a Activation, err error) Activation {
	if err != nil {
		panic(err)
	}
	return a
}

// Kind returns the activation kind.
func (a Activation) Kind() Kind { return a.kind }

// Alpha returns the LeakyReLU slope, or 0 for other kinds.
func (a Activation) Alpha() float64 { return a.alpha }

func (a Activation) String() string {
	if a.kind == LeakyReLU {
		return fmt.Sprintf("LeakyReLU(%g)", a.alpha)
	}
	return a.kind.String()
}

// Activate computes f(x) for a single value. Softmax treats x as a
// one-element row, which always normalizes to 1.
func (a Activation) Activate(x float64) float64 {
	switch a.kind {
	case Linear:
		return x
	case ReLU:
		return relu(x)
	case LeakyReLU:
		return leakyReLU(x, a.alpha)
	case Sigmoid:
		return sigmoid(x)
	case Tanh:
		return math.Tanh(x)
	case Softmax:
		if math.IsNaN(x) {
			return x
		}
		return 1
	}
	panic(fmt.Sprintf("activations: Activate on invalid %v", a.kind))
}

// Apply maps the pre-activation z to a new post-activation matrix.
// z is not modified. Non-fatal instabilities are reported to w, which
// may be nil.
func (a Activation) Apply(b tensor.Backend, z *mat.Dense, w Warner) (*mat.Dense, error) {
	if err := tensor.Check("activations."+a.kind.String(), z); err != nil {
		return nil, err
	}

	switch a.kind {
	case Linear:
		return mat.DenseCopyOf(z), nil
	case ReLU:
		return b.Apply(z, relu), nil
	case LeakyReLU:
		alpha := a.alpha
		return b.Apply(z, func(x float64) float64 { return leakyReLU(x, alpha) }), nil
	case Sigmoid:
		return applySigmoid(b, z, w), nil
	case Tanh:
		return b.Apply(z, math.Tanh), nil
	case Softmax:
		return applySoftmax(b, z, w), nil
	}
	return nil, &ParameterError{Param: "kind", Value: int(a.kind), Reason: "unknown activation"}
}

func relu(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func leakyReLU(x, alpha float64) float64 {
	if x > 0 {
		return x
	}
	return alpha * x
}

// sigmoid computes 1/(1+e^-x) with x clamped to [-SigmoidClamp, SigmoidClamp].
func sigmoid(x float64) float64 {
	if x > SigmoidClamp {
		x = SigmoidClamp
	} else if x < -SigmoidClamp {
		x = -SigmoidClamp
	}
	return 1 / (1 + math.Exp(-x))
}

func applySigmoid(b tensor.Backend, z *mat.Dense, w Warner) *mat.Dense {
	if w != nil {
		r, _ := z.Dims()
		clamped := 0
		for i := 0; i < r; i++ {
			for _, v := range z.RawRowView(i) {
				if v > SigmoidClamp || v < -SigmoidClamp {
					clamped++
				}
			}
		}
		if clamped > 0 {
			w.Warn(NumericInstabilityWarning{
				Activation: Sigmoid,
				Row:        -1,
				Count:      clamped,
				Detail:     fmt.Sprintf("input clamped to [%g, %g]", -SigmoidClamp, SigmoidClamp),
			})
		}
	}
	return b.Apply(z, sigmoid)
}

// applySoftmax normalizes each row: exp(z - max(z)) / sum(exp(z - max(z))).
func applySoftmax(b tensor.Backend, z *mat.Dense, w Warner) *mat.Dense {
	maxes := b.RowMax(z)
	for i := range maxes {
		maxes[i] = -maxes[i]
	}
	exps := b.Apply(b.AddColVector(z, maxes), math.Exp)

	sums := b.RowSum(exps)
	for i, s := range sums {
		// !(s >= min) also catches NaN rows
		if !(s >= minSoftmaxDenominator) {
			if w != nil {
				w.Warn(NumericInstabilityWarning{
					Activation: Softmax,
					Row:        i,
					Count:      1,
					Detail:     fmt.Sprintf("row denominator %g stabilized to %g", s, minSoftmaxDenominator),
				})
			}
			s = minSoftmaxDenominator
		}
		sums[i] = 1 / s
	}
	return b.MulColVector(exps, sums)
}
