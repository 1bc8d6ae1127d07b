// Package initializer draws initial dense-layer weights.
package initializer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/gautamsharma3107/dev-sub002/internal/activations"
)

// Initializer fills a weight matrix of shape in×out.
type Initializer interface {
	Init(weights *mat.Dense, act activations.Activation)
}

// Policy chooses the weight scale for a layer.
type Policy int

const (
	// ActivationAware uses He scaling for the ReLU family and Xavier
	// scaling for everything else.
	ActivationAware Policy = iota
	// HeCompat uses He scaling for every activation. It reproduces the
	// single-scale weights of older models.
	HeCompat
)

func (p Policy) String() string {
	switch p {
	case ActivationAware:
		return "activation-aware"
	case HeCompat:
		return "he-compat"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// HeScale returns sqrt(2/fanIn).
func HeScale(fanIn int) float64 { return math.Sqrt(2 / float64(fanIn)) }

// XavierScale returns sqrt(1/fanIn).
func XavierScale(fanIn int) float64 { return math.Sqrt(1 / float64(fanIn)) }

// Scale returns the standard deviation used for a layer with the given
// fan-in and activation kind.
func Scale(p Policy, fanIn int, kind activations.Kind) float64 {
	if p == HeCompat {
		return HeScale(fanIn)
	}
	switch kind {
	case activations.ReLU, activations.LeakyReLU:
		return HeScale(fanIn)
	default:
		// Sigmoid, Tanh, Linear and Softmax
		return XavierScale(fanIn)
	}
}

// Normal draws weights from N(0, Scale(policy, fanIn, kind)^2).
// The source is guarded by a mutex so one Normal can seed many layers
// from different goroutines.
type Normal struct {
	policy Policy

	mu  sync.Mutex
	src rand.Source
}

// New returns a seeded Normal initializer. Equal seeds give equal weights
// for equal construction order.
func New(policy Policy, seed uint64) *Normal {
	return &Normal{policy: policy, src: rand.NewSource(seed)}
}

// NewDefault returns an activation-aware initializer seeded from the clock.
func NewDefault() *Normal {
	return New(ActivationAware, uint64(time.Now().UnixNano()))
}

// Policy returns the scaling policy.
func (n *Normal) Policy() Policy { return n.policy }

// Init fills weights in place.
func (n *Normal) Init(weights *mat.Dense, act activations.Activation) {
	fanIn, out := weights.Dims()

	n.mu.Lock()
	defer n.mu.Unlock()

	dist := distuv.Normal{Mu: 0, Sigma: Scale(n.policy, fanIn, act.Kind()), Src: n.src}
	for i := 0; i < fanIn; i++ {
		row := weights.RawRowView(i)
		for j := 0; j < out; j++ {
			row[j] = dist.Rand()
		}
	}
}
