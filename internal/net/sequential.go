package net

import (
	"fmt"
	"io"
	"strings"

	"github.com/gautamsharma3107/dev-sub002/internal/layer"
)

// NewSequential builds a network from layers in order, as if each had been
// passed to AddLayer. The first chaining error is returned.
func NewSequential(layers []layer.Layer, opts ...Option) (*Network, error) {
	nw := New(opts...)
	for _, l := range layers {
		if err := nw.AddLayer(l); err != nil {
			return nil, err
		}
	}
	return nw, nil
}

// Summary writes a table of the network architecture to w.
func (n *Network) Summary(w io.Writer) error {
	rule := strings.Repeat("_", 65)
	thick := strings.Repeat("=", 65)

	var b strings.Builder
	fmt.Fprintln(&b, "Model: Sequential")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "%-25s %-20s %-10s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(&b, thick)

	for i, l := range n.layers {
		lType := fmt.Sprintf("%T", l)
		// Extract simple type name
		if j := strings.LastIndexByte(lType, '.'); j >= 0 {
			lType = lType[j+1:]
		}
		desc := fmt.Sprintf("%s_%d", lType, i)
		if d, ok := l.(*layer.Dense); ok {
			desc = fmt.Sprintf("%s (%v)", desc, d.Activation())
		}

		outShape := fmt.Sprintf("(None, %d)", l.OutSize())
		fmt.Fprintf(&b, "%-25s %-20s %-10d\n", desc, outShape, l.NumParams())
	}

	fmt.Fprintln(&b, thick)
	fmt.Fprintf(&b, "Total params: %d\n", n.NumParams())
	fmt.Fprintln(&b, rule)

	_, err := io.WriteString(w, b.String())
	return err
}
