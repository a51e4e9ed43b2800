package builder

import (
	"context"
	"fmt"

	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/dag"
	"github.com/vk/netgraph/internal/layer"
)

// ConnectLayers invokes the definition's factories and returns the canonical
// forward order: the input layer first, then every hidden layer, then the
// output layer.
func ConnectLayers(ctx context.Context, def Definition) ([]layer.Node, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("ConnectLayers: Starting graph construction.", "hidden_factories", len(def.Hidden))

	if def.Input == nil {
		return nil, &UnsupportedCompositionError{Position: -1, Reason: "input factory is missing"}
	}
	if def.Output == nil {
		return nil, &UnsupportedCompositionError{Position: -1, Reason: "output factory is missing"}
	}

	order := dag.New()

	// First pass: the designated input layer.
	input, err := def.Input()
	if err != nil {
		return nil, fmt.Errorf("creating input layer: %w", err)
	}
	if input == nil {
		return nil, &UnsupportedCompositionError{Position: -1, Reason: "input factory returned no layer"}
	}
	if err := order.Append(input); err != nil {
		return nil, err
	}
	logger.Debug("ConnectLayers: Input layer placed.", "type", input.Type())

	// Second pass: hidden layers, threading each result into the next call.
	prev := input
	for i, factory := range def.Hidden {
		if factory == nil {
			return nil, &UnsupportedCompositionError{Position: i, Reason: "factory is nil"}
		}
		node, err := factory(prev)
		if err != nil {
			return nil, fmt.Errorf("creating hidden layer %d: %w", i, err)
		}
		added, err := place(ctx, order, node, i)
		if err != nil {
			return nil, err
		}
		if len(added) > 1 && len(def.Hidden) > 1 {
			return nil, &UnsupportedCompositionError{
				Position: i,
				Reason: fmt.Sprintf("entry expands to %d layers; a nested composition must be the only hidden entry",
					len(added)),
			}
		}
		logger.Debug("ConnectLayers: Hidden entry placed.", "position", i, "layers_added", len(added), "terminal_type", node.Type())
		prev = node
	}

	// Third pass: the output layer, appended after the last hidden layer.
	output, err := def.Output(prev)
	if err != nil {
		return nil, fmt.Errorf("creating output layer: %w", err)
	}
	added, err := place(ctx, order, output, -1)
	if err != nil {
		return nil, err
	}
	if len(added) != 1 {
		return nil, &UnsupportedCompositionError{
			Position: -1,
			Reason:   fmt.Sprintf("output factory must create exactly one layer, created %d", len(added)),
		}
	}

	nodes := order.Nodes()
	if err := dag.Validate(nodes); err != nil {
		return nil, fmt.Errorf("error validating layer order: %w", err)
	}
	logger.Debug("ConnectLayers: Graph construction successful.", "layer_count", len(nodes))
	return nodes, nil
}

// place adds node and its not-yet-placed ancestors to order. The walk may
// only stop at layers already placed or at node itself.
func place(ctx context.Context, order *dag.Order, node layer.Node, position int) ([]layer.Node, error) {
	if node == nil {
		return nil, &UnsupportedCompositionError{Position: position, Reason: "factory returned no layer"}
	}
	if order.Contains(node) {
		return nil, &UnsupportedCompositionError{
			Position: position,
			Reason:   fmt.Sprintf("factory returned layer '%s' already placed at position %d", node.Type(), order.IndexOf(node)),
		}
	}
	return order.Place(ctx, node, false)
}
