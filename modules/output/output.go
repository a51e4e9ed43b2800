// Package output provides the network's final layer. It passes its input
// through and, given a target, records the error signal against it.
package output

import (
	"fmt"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/modules/vec"
	"gonum.org/v1/gonum/mat"
)

// Type is the layer's type tag.
const Type = "output"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Layer exposes the network's prediction.
type Layer struct {
	layer.Base
	width  int
	out    *mat.VecDense
	target []float64
	delta  *mat.VecDense
	loss   float64
}

// New builds an output layer fed by input.
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

// Prediction returns a copy of the last forward result.
func (l *Layer) Prediction() []float64 { return vec.Raw(l.out) }

// Delta returns prediction minus target from the last Compare.
func (l *Layer) Delta() []float64 { return vec.Raw(l.delta) }

// Loss returns the mean squared error from the last Compare.
func (l *Layer) Loss() float64 { return l.loss }

// SetTarget stores the expected values for the next Compare.
func (l *Layer) SetTarget(target []float64) {
	l.target = append(l.target[:0], target...)
}

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
	l.out = mat.VecDenseCopyOf(x)
	return nil
}

// Compare records delta = prediction - target and its mean squared error.
func (l *Layer) Compare() error {
	if l.out == nil {
		return fmt.Errorf("no prediction to compare; run forward first")
	}
	if l.target == nil {
		return fmt.Errorf("no target set")
	}
	if len(l.target) != l.out.Len() {
		return fmt.Errorf("got %d target values, want %d", len(l.target), l.out.Len())
	}
	delta := mat.NewVecDense(l.out.Len(), nil)
	delta.SubVec(l.out, mat.NewVecDense(len(l.target), append([]float64(nil), l.target...)))
	l.delta = delta
	l.loss = mat.Dot(delta, delta) / float64(delta.Len())
	return nil
}

// Register registers the layer type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Type, Construct)
}
