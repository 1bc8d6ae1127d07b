// Package net provides the feed-forward network that chains layers.
package net

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"

	"gonum.org/v1/gonum/mat"

	"github.com/gautamsharma3107/dev-sub002/internal/activations"
	"github.com/gautamsharma3107/dev-sub002/internal/layer"
	"github.com/gautamsharma3107/dev-sub002/internal/tensor"
)

// ErrEmptyNetwork is returned by Forward on a network without layers.
var ErrEmptyNetwork = errors.New("net: network has no layers")

// LayerChainMismatchError reports a layer whose input size does not match
// the output size of the network built so far.
type LayerChainMismatchError struct {
	// Index is the position the layer would have taken.
	Index    int
	Expected int
	Actual   int
}

func (e *LayerChainMismatchError) Error() string {
	return fmt.Sprintf("net: layer %d expects %d inputs, previous output has %d", e.Index, e.Actual, e.Expected)
}

// Option configures a Network.
type Option func(*Network)

// WithInputDim declares the network input width. The first layer added
// must match it. A negative width makes every AddLayer fail.
func WithInputDim(n int) Option {
	return func(nw *Network) { nw.inputDim = n }
}

// WithBackend sets the numeric backend used for every layer.
func WithBackend(b tensor.Backend) Option {
	return func(nw *Network) { nw.exec.Backend = b }
}

// WithLogger logs numeric instability warnings to l.
func WithLogger(l *log.Logger) Option {
	return func(nw *Network) { nw.exec.Warner = activations.NewLogWarner(l) }
}

// WithWarner sends numeric instability warnings to w.
func WithWarner(w activations.Warner) Option {
	return func(nw *Network) { nw.exec.Warner = w }
}

// Network is an ordered sequence of layers where every layer's output
// size equals the next layer's input size. Layers can only be appended;
// once built, a Network is safe for concurrent Forward calls.
type Network struct {
	layers   []layer.Layer
	inputDim int
	exec     layer.Exec
}

// New creates an empty network. Warnings go to stderr unless a logger or
// warner option overrides it.
func New(opts ...Option) *Network {
	nw := &Network{
		exec: layer.Exec{
			Backend: tensor.NewGonum(),
			Warner:  activations.NewLogWarner(log.New(os.Stderr, "densenet: ", log.LstdFlags)),
		},
	}
	for _, opt := range opts {
		opt(nw)
	}
	if nw.exec.Backend == nil {
		nw.exec.Backend = tensor.NewGonum()
	}
	return nw
}

// AddLayer appends l after checking that it chains onto the network.
// A mismatch is reported immediately and leaves the network unchanged.
func (n *Network) AddLayer(l layer.Layer) error {
	if isNil(l) {
		return fmt.Errorf("net: add layer %d: nil layer", len(n.layers))
	}
	if n.inputDim < 0 {
		return &tensor.ShapeError{
			Op:     "net.AddLayer",
			Reason: fmt.Sprintf("declared input dimension %d must be positive", n.inputDim),
		}
	}

	if expected := n.OutputDim(); expected > 0 && l.InSize() != expected {
		return &LayerChainMismatchError{
			Index:    len(n.layers),
			Expected: expected,
			Actual:   l.InSize(),
		}
	}

	if len(n.layers) == 0 && n.inputDim == 0 {
		n.inputDim = l.InSize()
	}
	n.layers = append(n.layers, l)
	return nil
}

// isNil reports whether l is nil or wraps a nil pointer.
func isNil(l layer.Layer) bool {
	if l == nil {
		return true
	}
	v := reflect.ValueOf(l)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// Forward performs a forward pass through all layers. batch must have
// shape [m, InputDim()] for any m >= 1.
func (n *Network) Forward(batch *mat.Dense) (*mat.Dense, error) {
	if len(n.layers) == 0 {
		return nil, ErrEmptyNetwork
	}

	curr := batch
	for i, l := range n.layers {
		_, post, err := l.ForwardExec(n.exec, curr)
		if err != nil {
			return nil, fmt.Errorf("net: layer %d: %w", i, err)
		}
		curr = post
	}
	return curr, nil
}

// LayerCache holds one layer's intermediate results.
type LayerCache struct {
	PreActivation  *mat.Dense
	PostActivation *mat.Dense
}

// Cache maps layer index to that layer's intermediate results.
type Cache map[int]LayerCache

// ForwardWithCache performs the same computation as Forward and also
// returns every layer's pre- and post-activation. The returned output is
// the last layer's PostActivation.
func (n *Network) ForwardWithCache(batch *mat.Dense) (*mat.Dense, Cache, error) {
	if len(n.layers) == 0 {
		return nil, nil, ErrEmptyNetwork
	}

	cache := make(Cache, len(n.layers))
	curr := batch
	for i, l := range n.layers {
		pre, post, err := l.ForwardExec(n.exec, curr)
		if err != nil {
			return nil, nil, fmt.Errorf("net: layer %d: %w", i, err)
		}
		cache[i] = LayerCache{PreActivation: pre, PostActivation: post}
		curr = post
	}
	return curr, cache, nil
}

// ForwardRows runs Forward on a slice of samples and returns one output
// row per sample.
func (n *Network) ForwardRows(rows [][]float64) ([][]float64, error) {
	batch, err := tensor.FromRows(rows)
	if err != nil {
		return nil, err
	}
	out, err := n.Forward(batch)
	if err != nil {
		return nil, err
	}
	return tensor.ToRows(out), nil
}

// Layers returns the network's layers in order.
func (n *Network) Layers() []layer.Layer {
	out := make([]layer.Layer, len(n.layers))
	copy(out, n.layers)
	return out
}

// Len returns the number of layers.
func (n *Network) Len() int { return len(n.layers) }

// InputDim returns the declared or inferred input width, or 0 if neither
// is known yet.
func (n *Network) InputDim() int { return n.inputDim }

// OutputDim returns the output width of the last layer, or InputDim for an
// empty network.
func (n *Network) OutputDim() int {
	if len(n.layers) == 0 {
		return n.inputDim
	}
	return n.layers[len(n.layers)-1].OutSize()
}

// NumParams returns the total parameter count.
func (n *Network) NumParams() int {
	total := 0
	for _, l := range n.layers {
		total += l.NumParams()
	}
	return total
}
