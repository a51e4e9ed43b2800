package builder

import "github.com/vk/netgraph/internal/layer"

// InputFactory creates the designated input layer.
type InputFactory func() (layer.Node, error)

// Factory creates a layer wired to prev (directly or through a nested chain).
type Factory func(prev layer.Node) (layer.Node, error)

// Definition is the declarative description of a network.
type Definition struct {
	Input  InputFactory
	Hidden []Factory
	Output Factory
}

// Input adapts an infallible constructor into an InputFactory.
func Input(fn func() layer.Node) InputFactory {
	return func() (layer.Node, error) { return fn(), nil }
}

// Step adapts an infallible single-argument constructor into a Factory.
func Step(fn func(prev layer.Node) layer.Node) Factory {
	return func(prev layer.Node) (layer.Node, error) { return fn(prev), nil }
}

// Steps adapts a list of infallible constructors.
func Steps(fns ...func(prev layer.Node) layer.Node) []Factory {
	out := make([]Factory, len(fns))
	for i, fn := range fns {
		out[i] = Step(fn)
	}
	return out
}
