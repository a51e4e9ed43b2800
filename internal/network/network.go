package network

import (
	"context"
	"fmt"

	"github.com/vk/netgraph/internal/builder"
	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/dag"
	"github.com/vk/netgraph/internal/executor"
	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/serializer"
	"github.com/vk/netgraph/internal/telemetry"
)

// Network is a feed-forward network expressed as a DAG of layers.
// It is not safe for concurrent use.
type Network struct {
	definition  builder.Definition
	layers      []layer.Node
	initialized bool

	exec    *executor.Executor
	metrics *telemetry.Metrics
}

// Option configures a Network.
type Option func(*Network)

// WithMetrics records build sizes and phase outcomes on m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(n *Network) { n.metrics = m }
}

// New creates an unbuilt Network from a definition.
func New(def builder.Definition, opts ...Option) *Network {
	n := &Network{definition: def}
	for _, opt := range opts {
		opt(n)
	}
	n.exec = executor.New(executor.WithMetrics(n.metrics))
	return n
}

// Layers returns the canonical layer order, or nil before the network is
// built. The slice is a copy.
func (n *Network) Layers() []layer.Node {
	if n.layers == nil {
		return nil
	}
	out := make([]layer.Node, len(n.layers))
	copy(out, n.layers)
	return out
}

// Len returns the number of layers.
func (n *Network) Len() int { return len(n.layers) }

// InputLayer returns the designated input layer, or nil before build.
func (n *Network) InputLayer() layer.Node {
	if len(n.layers) == 0 {
		return nil
	}
	return n.layers[0]
}

// OutputLayer returns the last layer, or nil before build.
func (n *Network) OutputLayer() layer.Node {
	if len(n.layers) == 0 {
		return nil
	}
	return n.layers[len(n.layers)-1]
}

// Initialized reports whether the initialize phase has completed.
func (n *Network) Initialized() bool { return n.initialized }

// ConnectLayers builds the canonical layer order from the definition,
// replacing any previous order. The network must be initialized again
// afterwards.
func (n *Network) ConnectLayers(ctx context.Context) error {
	layers, err := builder.ConnectLayers(ctx, n.definition)
	if err != nil {
		return fmt.Errorf("failed to connect layers: %w", err)
	}
	n.adopt(layers)
	ctxlog.FromContext(ctx).Debug("Network layers connected.", "layer_count", len(layers))
	return nil
}

func (n *Network) adopt(layers []layer.Node) {
	n.layers = layers
	n.initialized = false
	n.metrics.SetLayers(len(layers))
}

// Initialize runs every layer's setup in forward order, connecting layers
// first if the network has not been built.
func (n *Network) Initialize(ctx context.Context) error {
	if n.layers == nil {
		if err := n.ConnectLayers(ctx); err != nil {
			return err
		}
	}
	n.initialized = false
	if err := n.exec.Run(ctx, executor.Initialize, n.layers); err != nil {
		return err
	}
	n.initialized = true
	return nil
}

// RunInput runs every layer's forward computation.
func (n *Network) RunInput(ctx context.Context) error {
	return n.run(ctx, executor.RunInput)
}

// CalculateDeltas runs every layer's comparison.
func (n *Network) CalculateDeltas(ctx context.Context) error {
	return n.run(ctx, executor.CalculateDeltas)
}

// AdjustWeights runs every layer's learning step.
func (n *Network) AdjustWeights(ctx context.Context) error {
	return n.run(ctx, executor.AdjustWeights)
}

func (n *Network) run(ctx context.Context, phase executor.Phase) error {
	if !n.initialized {
		return &executor.PhaseExecutionError{Phase: phase.Name, Index: -1, Err: executor.ErrNotInitialized}
	}
	return n.exec.Run(ctx, phase, n.layers)
}

// ToRecords serializes the canonical order.
func (n *Network) ToRecords(ctx context.Context) ([]serializer.Record, error) {
	if n.layers == nil {
		return nil, fmt.Errorf("network has no layers to serialize")
	}
	return serializer.ToRecords(ctx, n.layers)
}

// ToDocument wraps ToRecords in the persisted envelope.
func (n *Network) ToDocument(ctx context.Context) (serializer.Document, error) {
	records, err := n.ToRecords(ctx)
	if err != nil {
		return serializer.Document{}, err
	}
	return serializer.Document{Layers: records}, nil
}

// ToJSON encodes the network as {"layers": [...]}.
func (n *Network) ToJSON(ctx context.Context) ([]byte, error) {
	doc, err := n.ToDocument(ctx)
	if err != nil {
		return nil, err
	}
	return serializer.Marshal(doc, serializer.FormatJSON)
}

// FromRecords restores a built (not yet initialized) network.
func FromRecords(ctx context.Context, records []serializer.Record, reconstruct serializer.Reconstruct, opts ...Option) (*Network, error) {
	layers, err := serializer.FromRecords(ctx, records, reconstruct)
	if err != nil {
		return nil, fmt.Errorf("failed to restore network: %w", err)
	}
	if err := dag.Validate(layers); err != nil {
		return nil, fmt.Errorf("failed to restore network: %w", err)
	}
	n := New(builder.Definition{}, opts...)
	n.adopt(layers)
	return n, nil
}

// FromDocument restores a network from a decoded document.
func FromDocument(ctx context.Context, doc serializer.Document, reconstruct serializer.Reconstruct, opts ...Option) (*Network, error) {
	return FromRecords(ctx, doc.Layers, reconstruct, opts...)
}

// FromJSON restores a network from {"layers": [...]}.
func FromJSON(ctx context.Context, data []byte, reconstruct serializer.Reconstruct, opts ...Option) (*Network, error) {
	doc, err := serializer.Unmarshal(data, serializer.FormatJSON)
	if err != nil {
		return nil, err
	}
	return FromDocument(ctx, doc, reconstruct, opts...)
}
