// Package add provides a merge layer that sums two inputs elementwise.
package add

import (
	"fmt"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/modules/vec"
	"gonum.org/v1/gonum/mat"
)

// Type is the layer's type tag.
const Type = "add"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Layer sums two equally wide inputs.
type Layer struct {
	layer.Base
	width int
	out   *mat.VecDense
}

// New builds an add layer fed by a and b.
func New(a, b layer.Node) *Layer {
	return &Layer{Base: layer.NewBase(Type, nil, a, b)}
}

// Construct is the registry constructor.
func Construct(_ layer.Settings, inputs ...layer.Node) (layer.Node, error) {
	if err := layer.ValidateInputs(Type, inputs, 2, 2); err != nil {
		return nil, err
	}
	return New(inputs[0], inputs[1]), nil
}

func (l *Layer) Width() int             { return l.width }
func (l *Layer) Output() *mat.VecDense { return l.out }

// Setup checks that both inputs have the same width.
func (l *Layer) Setup() error {
	a, err := vec.Width(l.Input())
	if err != nil {
		return err
	}
	b, err := vec.Width(l.Input2())
	if err != nil {
		return err
	}
	if a != b {
		return fmt.Errorf("input widths differ: %d and %d", a, b)
	}
	l.width = a
	return nil
}

func (l *Layer) Forward() error {
	a, err := vec.From(l.Input())
	if err != nil {
		return err
	}
	b, err := vec.From(l.Input2())
	if err != nil {
		return err
	}
	out := mat.NewVecDense(l.width, nil)
	out.AddVec(a, b)
	l.out = out
	return nil
}

// Register registers the layer type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Type, Construct)
}
