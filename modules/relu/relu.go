// Package relu provides the rectified linear activation layer.
package relu

import (
	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/modules/vec"
	"gonum.org/v1/gonum/mat"
)

// Type is the layer's type tag.
const Type = "relu"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Layer applies max(0, x) elementwise.
type Layer struct {
	layer.Base
	width int
	out   *mat.VecDense
}

// New builds a relu layer fed by input.
func New(input layer.Node) *Layer {
	return &Layer{Base: layer.NewBase(Type, nil, input)}
}

// Construct is the registry constructor.
func Construct(_ layer.Settings, inputs ...layer.Node) (layer.Node, error) {
	if err := layer.ValidateInputs(Type, inputs, 1, 1); err != nil {
		return nil, err
	}
	return New(inputs[0]), nil
}

func (l *Layer) Width() int             { return l.width }
func (l *Layer) Output() *mat.VecDense { return l.out }

// Setup takes its width from the input.
func (l *Layer) Setup() error {
	w, err := vec.Width(l.Input())
	if err != nil {
		return err
	}
	l.width = w
	return nil
}

func (l *Layer) Forward() error {
	x, err := vec.From(l.Input())
	if err != nil {
		return err
	}
	out := mat.NewVecDense(x.Len(), nil)
	for i := 0; i < x.Len(); i++ {
		if v := x.AtVec(i); v > 0 {
			out.SetVec(i, v)
		}
	}
	l.out = out
	return nil
}

// Register registers the layer type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Type, Construct)
}
