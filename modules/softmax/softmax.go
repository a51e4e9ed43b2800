// Package softmax provides a numerically stable softmax layer.
package softmax

import (
	"math"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/modules/vec"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Type is the layer's type tag.
const Type = "softmax"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Layer normalizes its input into a probability distribution.
type Layer struct {
	layer.Base
	width int
	out   *mat.VecDense
}

// New builds a softmax layer fed by input.
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

func (l *Layer) Setup() error {
	w, err := vec.Width(l.Input())
	if err != nil {
		return err
	}
	l.width = w
	return nil
}

// Forward computes exp(x - max(x)) / sum.
func (l *Layer) Forward() error {
	x, err := vec.From(l.Input())
	if err != nil {
		return err
	}
	data := vec.Raw(x)
	peak := floats.Max(data)
	for i, v := range data {
		data[i] = math.Exp(v - peak)
	}
	floats.Scale(1/floats.Sum(data), data)
	l.out = mat.NewVecDense(len(data), data)
	return nil
}

// Register registers the layer type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Type, Construct)
}
