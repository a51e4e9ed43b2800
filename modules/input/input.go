// Package input provides the designated input layer. It has no input
// reference; callers feed it with SetValues before running forward.
package input

import (
	"fmt"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"gonum.org/v1/gonum/mat"
)

// Type is the layer's type tag.
const Type = "input"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings configures an input layer.
type Settings struct {
	Width int `json:"width"`
}

// Layer holds the values presented to the network.
type Layer struct {
	layer.Base
	cfg    Settings
	values []float64
	out    *mat.VecDense
}

// New builds an input layer of the given width.
func New(width int) *Layer {
	return &Layer{
		Base: layer.NewBase(Type, layer.Settings{"width": width}),
		cfg:  Settings{Width: width},
	}
}

// Construct is the registry constructor.
func Construct(settings layer.Settings, inputs ...layer.Node) (layer.Node, error) {
	if err := layer.ValidateInputs(Type, inputs, 0, 0); err != nil {
		return nil, err
	}
	var cfg Settings
	if err := settings.Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Width <= 0 {
		return nil, fmt.Errorf("layer '%s': width must be positive, got %d", Type, cfg.Width)
	}
	return New(cfg.Width), nil
}

// Width returns the configured width.
func (l *Layer) Width() int { return l.cfg.Width }

// Output returns the values from the last forward pass.
func (l *Layer) Output() *mat.VecDense { return l.out }

// SetValues stores the values the next Forward publishes.
func (l *Layer) SetValues(values []float64) error {
	if len(values) != l.cfg.Width {
		return fmt.Errorf("layer '%s': got %d values, want %d", Type, len(values), l.cfg.Width)
	}
	l.values = append(l.values[:0], values...)
	return nil
}

// Setup validates the width.
func (l *Layer) Setup() error {
	if l.cfg.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", l.cfg.Width)
	}
	return nil
}

// Forward publishes the stored values, or zeros when none were set.
func (l *Layer) Forward() error {
	data := make([]float64, l.cfg.Width)
	copy(data, l.values)
	l.out = mat.NewVecDense(l.cfg.Width, data)
	return nil
}

// Register registers the layer type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Type, Construct)
}
