// Package vec holds the helpers reference layers use to exchange
// activations as gonum vectors.
package vec

import (
	"fmt"

	"github.com/vk/netgraph/internal/layer"
	"gonum.org/v1/gonum/mat"
)

// Producer is a layer whose activations other reference layers can read.
type Producer interface {
	layer.Node
	// Width is the size of the activation vector. It is known after Setup.
	Width() int
	// Output returns the activations from the last Forward, or nil.
	Output() *mat.VecDense
}

// Of returns n as a Producer.
func Of(n layer.Node) (Producer, error) {
	if n == nil {
		return nil, fmt.Errorf("layer has no input")
	}
	p, ok := n.(Producer)
	if !ok {
		return nil, fmt.Errorf("input layer '%s' does not produce activations", n.Type())
	}
	return p, nil
}

// Width returns the activation width of n.
func Width(n layer.Node) (int, error) {
	p, err := Of(n)
	if err != nil {
		return 0, err
	}
	if p.Width() <= 0 {
		return 0, fmt.Errorf("input layer '%s' has no width; was it set up?", n.Type())
	}
	return p.Width(), nil
}

// From returns the current activations of n.
func From(n layer.Node) (*mat.VecDense, error) {
	p, err := Of(n)
	if err != nil {
		return nil, err
	}
	out := p.Output()
	if out == nil {
		return nil, fmt.Errorf("input layer '%s' has not run forward", n.Type())
	}
	return out, nil
}

// Raw copies v into a plain slice.
func Raw(v *mat.VecDense) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
