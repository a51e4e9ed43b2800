package dag

import (
	"context"
	"fmt"

	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/layer"
)

// Order is an ordered, duplicate-free list of nodes under construction.
// It is not safe for concurrent use.
type Order struct {
	nodes  []layer.Node
	placed map[layer.Node]int
}

// New returns an empty Order.
func New() *Order {
	return &Order{placed: make(map[layer.Node]int)}
}

// Len returns the number of placed nodes.
func (o *Order) Len() int { return len(o.nodes) }

// Nodes returns a copy of the placed nodes in canonical order.
func (o *Order) Nodes() []layer.Node {
	out := make([]layer.Node, len(o.nodes))
	copy(out, o.nodes)
	return out
}

// IndexOf returns the position of n, or -1 if n has not been placed.
func (o *Order) IndexOf(n layer.Node) int {
	if i, ok := o.placed[n]; ok {
		return i
	}
	return -1
}

// Contains reports whether n has been placed.
func (o *Order) Contains(n layer.Node) bool {
	_, ok := o.placed[n]
	return ok
}

// Append places n at the end of the order without walking its inputs. Every
// input of n must already be placed.
func (o *Order) Append(n layer.Node) error {
	if n == nil {
		return fmt.Errorf("cannot place a nil layer")
	}
	if o.Contains(n) {
		return &DependencyOrderError{Index: o.IndexOf(n), Type: n.Type(), Reason: "layer is already placed"}
	}
	for _, in := range n.Inputs() {
		if !o.Contains(in) {
			return &DependencyOrderError{
				Index:     -1,
				Type:      n.Type(),
				InputType: typeOf(in),
				Reason:    fmt.Sprintf("input '%s' is not placed before it", typeOf(in)),
			}
		}
	}
	o.placed[n] = len(o.nodes)
	o.nodes = append(o.nodes, n)
	return nil
}

// Place walks the input references of terminal backward and places every
// not-yet-placed ancestor before terminal, then terminal itself. It returns
// the nodes added, in the order they were placed.
//
// When allowRoot is false, the walk may only terminate at nodes that are
// already placed or at terminal itself: discovering any other node without
// inputs means the graph has a second root that was never declared, and Place
// fails with a DependencyOrderError.
func (o *Order) Place(ctx context.Context, terminal layer.Node, allowRoot bool) ([]layer.Node, error) {
	logger := ctxlog.FromContext(ctx)
	if terminal == nil {
		return nil, fmt.Errorf("cannot place a nil layer")
	}

	visiting := make(map[layer.Node]bool)
	var added []layer.Node

	var visit func(n layer.Node) error
	visit = func(n layer.Node) error {
		if o.Contains(n) {
			return nil
		}
		if visiting[n] {
			return &DependencyOrderError{Index: -1, Type: n.Type(), Reason: "input references form a cycle"}
		}
		visiting[n] = true

		inputs := n.Inputs()
		if len(inputs) > layer.MaxInputs {
			return &DependencyOrderError{Index: -1, Type: n.Type(), Reason: fmt.Sprintf("layer has %d inputs, at most %d are supported", len(inputs), layer.MaxInputs)}
		}
		if len(inputs) == 0 && n != terminal && !allowRoot {
			return &DependencyOrderError{
				Index:  -1,
				Type:   n.Type(),
				Reason: "layer has no input and is not part of the network built so far",
			}
		}
		for _, in := range inputs {
			if in == nil {
				return &DependencyOrderError{Index: -1, Type: n.Type(), Reason: "input reference is nil"}
			}
			if err := visit(in); err != nil {
				return err
			}
		}

		delete(visiting, n)
		o.placed[n] = len(o.nodes)
		o.nodes = append(o.nodes, n)
		added = append(added, n)
		logger.Debug("Placed layer.", "index", len(o.nodes)-1, "type", n.Type())
		return nil
	}

	if err := visit(terminal); err != nil {
		o.rollback(added)
		return nil, err
	}
	return added, nil
}

// rollback removes nodes appended by a failed Place so the order stays
// consistent.
func (o *Order) rollback(added []layer.Node) {
	for _, n := range added {
		delete(o.placed, n)
	}
	o.nodes = o.nodes[:len(o.nodes)-len(added)]
}

// Validate checks that every input of every node sits at a strictly smaller
// position and that no node appears twice.
func Validate(nodes []layer.Node) error {
	index := make(map[layer.Node]int, len(nodes))
	for i, n := range nodes {
		if n == nil {
			return &DependencyOrderError{Index: i, Type: "<nil>", Reason: "layer is nil"}
		}
		if j, dup := index[n]; dup {
			return &DependencyOrderError{Index: i, Type: n.Type(), Reason: fmt.Sprintf("layer duplicates position %d", j)}
		}
		for _, in := range n.Inputs() {
			if _, ok := index[in]; !ok {
				return &DependencyOrderError{
					Index:     i,
					Type:      n.Type(),
					InputType: typeOf(in),
					Reason:    fmt.Sprintf("input '%s' does not appear at an earlier position", typeOf(in)),
				}
			}
		}
		index[n] = i
	}
	return nil
}

func typeOf(n layer.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Type()
}
