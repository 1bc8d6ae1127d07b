// Package layer provides neural network layer implementations.
package layer

import (
	"fmt"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/gautamsharma3107/dev-sub002/internal/activations"
	"github.com/gautamsharma3107/dev-sub002/internal/initializer"
	"github.com/gautamsharma3107/dev-sub002/internal/tensor"
)

// Exec carries the collaborators a forward pass runs with.
// A nil Warner discards warnings.
type Exec struct {
	Backend tensor.Backend
	Warner  activations.Warner
}

// Layer is one stage of a feed-forward network.
type Layer interface {
	InSize() int
	OutSize() int
	NumParams() int

	// ForwardExec returns the pre-activation and post-activation outputs
	// for a batch of shape [batch, InSize()].
	ForwardExec(e Exec, x *mat.Dense) (pre, post *mat.Dense, err error)
}

// DimensionMismatchError reports an input whose column count differs from
// the layer's input size.
type DimensionMismatchError struct {
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("layer: input has %d columns, expected %d", e.Actual, e.Expected)
}

// Option configures a Dense layer at construction.
type Option func(*options)

type options struct {
	init    initializer.Initializer
	backend tensor.Backend
	warner  activations.Warner
}

// WithInitializer sets the weight initializer used by NewDense.
func WithInitializer(init initializer.Initializer) Option {
	return func(o *options) { o.init = init }
}

// WithBackend sets the backend used by Forward.
func WithBackend(b tensor.Backend) Option {
	return func(o *options) { o.backend = b }
}

// WithWarner sets where Forward reports numeric instability.
func WithWarner(w activations.Warner) Option {
	return func(o *options) { o.warner = w }
}

// WithLogger logs numeric instability warnings from Forward to l.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.warner = activations.NewLogWarner(l) }
}

// Dense is a fully connected layer: a = act(x·W + b).
// Weights have shape [in, out] and bias has length out.
// A Dense is read-only after construction and safe for concurrent use.
type Dense struct {
	weights *mat.Dense
	bias    []float64
	act     activations.Activation
	inSize  int
	outSize int

	// used by Forward; Network passes its own Exec instead
	exec Exec
}

// NewDense creates a dense layer with weights drawn by the configured
// initializer (activation-aware He/Xavier by default) and a zero bias.
func NewDense(in, out int, act activations.Activation, opts ...Option) (*Dense, error) {
	if in < 1 || out < 1 {
		return nil, &tensor.ShapeError{
			Op:     "layer.NewDense",
			Reason: fmt.Sprintf("dimensions %d→%d must be positive", in, out),
		}
	}
	if err := validActivation(act); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	if o.init == nil {
		o.init = initializer.NewDefault()
	}

	weights := mat.NewDense(in, out, nil)
	o.init.Init(weights, act)

	return &Dense{
		weights: weights,
		bias:    make([]float64, out),
		act:     act,
		inSize:  in,
		outSize: out,
		exec:    Exec{Backend: o.backend, Warner: o.warner},
	}, nil
}

// NewDenseWithParams creates a dense layer from explicit parameters.
// weights must be [in, out] and len(bias) must equal out. Both are copied.
func NewDenseWithParams(weights *mat.Dense, bias []float64, act activations.Activation, opts ...Option) (*Dense, error) {
	if err := tensor.Check("layer.NewDenseWithParams", weights); err != nil {
		return nil, err
	}
	in, out := weights.Dims()
	if len(bias) != out {
		return nil, &tensor.ShapeError{
			Op:     "layer.NewDenseWithParams",
			Reason: fmt.Sprintf("bias has %d entries, weights have %d columns", len(bias), out),
		}
	}
	if err := validActivation(act); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	b := make([]float64, out)
	copy(b, bias)

	return &Dense{
		weights: mat.DenseCopyOf(weights),
		bias:    b,
		act:     act,
		inSize:  in,
		outSize: out,
		exec:    Exec{Backend: o.backend, Warner: o.warner},
	}, nil
}

func buildOptions(opts []Option) options {
	o := options{backend: tensor.NewGonum()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.backend == nil {
		o.backend = tensor.NewGonum()
	}
	if o.warner == nil {
		o.warner = activations.NewLogWarner(log.New(os.Stderr, "densenet: ", log.LstdFlags))
	}
	return o
}

// validActivation rejects the zero Activation, which has no kind.
func validActivation(act activations.Activation) error {
	if _, err := activations.New(act.Kind()); err != nil {
		return fmt.Errorf("layer: %w", err)
	}
	return nil
}

// Forward performs a forward pass with the layer's own backend and warner.
func (d *Dense) Forward(x *mat.Dense) (*mat.Dense, error) {
	_, post, err := d.ForwardExec(d.exec, x)
	return post, err
}

// ForwardCached performs a forward pass and also returns the
// pre-activation z = x·W + b.
func (d *Dense) ForwardCached(x *mat.Dense) (pre, post *mat.Dense, err error) {
	return d.ForwardExec(d.exec, x)
}

// ForwardExec computes z = x·W + b, with b broadcast over every row, and
// a = act(z). Inputs with the wrong column count are rejected, never
// truncated or padded.
func (d *Dense) ForwardExec(e Exec, x *mat.Dense) (pre, post *mat.Dense, err error) {
	if err := tensor.Check("layer.Dense", x); err != nil {
		return nil, nil, err
	}
	if _, cols := x.Dims(); cols != d.inSize {
		return nil, nil, &DimensionMismatchError{Expected: d.inSize, Actual: cols}
	}

	b := e.Backend
	if b == nil {
		b = tensor.NewGonum()
	}

	z := b.AddRowVector(b.MatMul(x, d.weights), d.bias)
	a, err := d.act.Apply(b, z, e.Warner)
	if err != nil {
		return nil, nil, fmt.Errorf("layer: %w", err)
	}
	return z, a, nil
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int { return d.inSize }

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int { return d.outSize }

// NumParams returns the number of weights plus biases.
func (d *Dense) NumParams() int { return d.inSize*d.outSize + d.outSize }

// Activation returns the activation function used by this layer.
func (d *Dense) Activation() activations.Activation { return d.act }

// Weights returns a copy of the [in, out] weight matrix.
func (d *Dense) Weights() *mat.Dense { return mat.DenseCopyOf(d.weights) }

// Bias returns a copy of the bias vector.
func (d *Dense) Bias() []float64 {
	b := make([]float64, len(d.bias))
	copy(b, d.bias)
	return b
}

// Params returns all dense layer parameters flattened: weights row-major
// followed by biases.
func (d *Dense) Params() []float64 {
	params := make([]float64, 0, d.NumParams())
	for i := 0; i < d.inSize; i++ {
		params = append(params, d.weights.RawRowView(i)...)
	}
	return append(params, d.bias...)
}

func (d *Dense) String() string {
	return fmt.Sprintf("Dense(%d→%d, %v)", d.inSize, d.outSize, d.act)
}
