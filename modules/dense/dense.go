// Package dense provides a fully connected layer computing W·x + b.
package dense

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/modules/vec"
	"gonum.org/v1/gonum/mat"
)

// Type is the layer's type tag.
const Type = "dense"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Settings configures a dense layer. Weights are row-major, one row per
// output unit. When Weights is empty, Setup draws them from a uniform
// Glorot range seeded with Seed and stores them so they are persisted.
type Settings struct {
	Width   int       `json:"width"`
	Weights []float64 `json:"weights,omitempty"`
	Biases  []float64 `json:"biases,omitempty"`
	Seed    int64     `json:"seed,omitempty"`
}

// Layer is a fully connected layer.
type Layer struct {
	layer.Base
	cfg Settings

	weights *mat.Dense
	biases  *mat.VecDense
	out     *mat.VecDense
}

// New builds a dense layer fed by input.
func New(input layer.Node, cfg Settings) (*Layer, error) {
	if cfg.Width <= 0 {
		return nil, fmt.Errorf("layer '%s': width must be positive, got %d", Type, cfg.Width)
	}
	settings, err := layer.Encode(cfg)
	if err != nil {
		return nil, err
	}
	return &Layer{Base: layer.NewBase(Type, settings, input), cfg: cfg}, nil
}

// Construct is the registry constructor.
func Construct(settings layer.Settings, inputs ...layer.Node) (layer.Node, error) {
	if err := layer.ValidateInputs(Type, inputs, 1, 1); err != nil {
		return nil, err
	}
	var cfg Settings
	if err := settings.Decode(&cfg); err != nil {
		return nil, err
	}
	return New(inputs[0], cfg)
}

// Width returns the number of output units.
func (l *Layer) Width() int { return l.cfg.Width }

// Output returns the activations from the last forward pass.
func (l *Layer) Output() *mat.VecDense { return l.out }

// Weights returns the weight matrix, or nil before Setup.
func (l *Layer) Weights() *mat.Dense { return l.weights }

// Setup sizes the weights from the input width.
func (l *Layer) Setup() error {
	inWidth, err := vec.Width(l.Input())
	if err != nil {
		return err
	}

	want := l.cfg.Width * inWidth
	weights := l.cfg.Weights
	switch len(weights) {
	case 0:
		rng := rand.New(rand.NewSource(l.cfg.Seed))
		limit := math.Sqrt(6 / float64(inWidth+l.cfg.Width))
		weights = make([]float64, want)
		for i := range weights {
			weights[i] = (rng.Float64()*2 - 1) * limit
		}
	case want:
	default:
		return fmt.Errorf("got %d weights, want %d (%dx%d)", len(weights), want, l.cfg.Width, inWidth)
	}

	biases := l.cfg.Biases
	switch len(biases) {
	case 0:
		biases = make([]float64, l.cfg.Width)
	case l.cfg.Width:
	default:
		return fmt.Errorf("got %d biases, want %d", len(biases), l.cfg.Width)
	}

	// Only a successful setup fixes generated values.
	l.cfg.Weights, l.cfg.Biases = weights, biases
	l.weights = mat.NewDense(l.cfg.Width, inWidth, append([]float64(nil), weights...))
	l.biases = mat.NewVecDense(l.cfg.Width, append([]float64(nil), biases...))

	s := l.Settings()
	s["weights"] = append([]float64(nil), l.cfg.Weights...)
	s["biases"] = append([]float64(nil), l.cfg.Biases...)
	return nil
}

// Forward computes W·x + b.
func (l *Layer) Forward() error {
	if l.weights == nil {
		return fmt.Errorf("weights are not initialized")
	}
	x, err := vec.From(l.Input())
	if err != nil {
		return err
	}
	out := mat.NewVecDense(l.cfg.Width, nil)
	out.MulVec(l.weights, x)
	out.AddVec(out, l.biases)
	l.out = out
	return nil
}

// Register registers the layer type with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.Register(Type, Construct)
}
