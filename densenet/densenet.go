// Package densenet is the public surface of the feed-forward inference
// engine: dense layers, activations and the network that chains them.
package densenet

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gautamsharma3107/dev-sub002/internal/activations"
	"github.com/gautamsharma3107/dev-sub002/internal/initializer"
	"github.com/gautamsharma3107/dev-sub002/internal/layer"
	"github.com/gautamsharma3107/dev-sub002/internal/net"
	"github.com/gautamsharma3107/dev-sub002/internal/tensor"
)

// Re-export common types for easier access
type (
	Network        = net.Network
	NetworkOption  = net.Option
	Cache          = net.Cache
	LayerCache     = net.LayerCache
	Layer          = layer.Layer
	Dense          = layer.Dense
	LayerOption    = layer.Option
	Activation     = activations.Activation
	Backend        = tensor.Backend
	Initializer    = initializer.Initializer
	Warner         = activations.Warner

	NumericInstabilityWarning = activations.NumericInstabilityWarning
)

// Errors
type (
	ShapeError              = tensor.ShapeError
	DimensionMismatchError  = layer.DimensionMismatchError
	LayerChainMismatchError = net.LayerChainMismatchError
	ParameterError          = activations.ParameterError
)

var ErrEmptyNetwork = net.ErrEmptyNetwork

// ActivationKind is a fully specified activation: the kind tag plus
// LeakyReLU's alpha. Kind is the bare tag.
type (
	ActivationKind = activations.Activation
	Kind           = activations.Kind
)

// Activation kinds
const (
	KindLinear    = activations.Linear
	KindReLU      = activations.ReLU
	KindLeakyReLU = activations.LeakyReLU
	KindSigmoid   = activations.Sigmoid
	KindTanh      = activations.Tanh
	KindSoftmax   = activations.Softmax
)

// Activations
var (
	Linear  = activations.Must(activations.New(activations.Linear))
	ReLU    = activations.Must(activations.New(activations.ReLU))
	Sigmoid = activations.Must(activations.New(activations.Sigmoid))
	Tanh    = activations.Must(activations.New(activations.Tanh))
	Softmax = activations.Must(activations.New(activations.Softmax))
)

// LeakyReLU returns a LeakyReLU with slope alpha for negative inputs.
// A negative alpha is a ParameterError.
func LeakyReLU(alpha float64) (ActivationKind, error) {
	return activations.NewLeakyReLU(alpha)
}

// ActivationByName parses names such as "relu" or "leaky_relu".
func ActivationByName(name string) (ActivationKind, error) {
	kind, err := activations.ParseKind(name)
	if err != nil {
		return ActivationKind{}, err
	}
	return activations.New(kind)
}

// Layers

// MakeLayer creates an in→out dense layer with activation-aware weight
// initialization and a zero bias.
func MakeLayer(in, out int, act ActivationKind, opts ...LayerOption) (*Dense, error) {
	return layer.NewDense(in, out, act, opts...)
}

// LayerFromParams creates a dense layer from explicit [in, out] weights
// and a bias of length out.
func LayerFromParams(weights *mat.Dense, bias []float64, act ActivationKind, opts ...LayerOption) (*Dense, error) {
	return layer.NewDenseWithParams(weights, bias, act, opts...)
}

// Seeded returns a layer option that draws weights from a seeded
// activation-aware initializer.
func Seeded(seed uint64) LayerOption {
	return layer.WithInitializer(initializer.New(initializer.ActivationAware, seed))
}

// HeCompat returns a layer option that scales every layer with
// sqrt(2/in), regardless of activation, as older models did.
func HeCompat(seed uint64) LayerOption {
	return layer.WithInitializer(initializer.New(initializer.HeCompat, seed))
}

// Model creation

// NewNetwork creates an empty network.
func NewNetwork(opts ...NetworkOption) *Network {
	return net.New(opts...)
}

// NewSequential creates a network from layers in order.
func NewSequential(layers []Layer, opts ...NetworkOption) (*Network, error) {
	return net.NewSequential(layers, opts...)
}

var (
	WithInputDim = net.WithInputDim
	WithBackend  = net.WithBackend
	WithLogger   = net.WithLogger
	WithWarner   = net.WithWarner
)

// Backends

// DefaultBackend returns the single-threaded gonum backend.
func DefaultBackend() Backend {
	return tensor.NewGonum()
}

// ParallelBackend returns a backend that splits batch rows across up to
// workers goroutines (0 means one per CPU).
func ParallelBackend(workers int) Backend {
	return tensor.NewParallel(workers, 0)
}

// Tensors

// FromRows builds a batch tensor from equally sized rows.
func FromRows(rows [][]float64) (*mat.Dense, error) {
	return tensor.FromRows(rows)
}

// ToRows copies a tensor into a slice of rows.
func ToRows(m *mat.Dense) [][]float64 {
	return tensor.ToRows(m)
}
