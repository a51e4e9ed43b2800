package registry

import (
	"fmt"
	"sort"

	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/serializer"
)

// Constructor builds a layer of one type from its settings and inputs.
// Absent inputs are passed as nil.
type Constructor func(settings layer.Settings, inputs ...layer.Node) (layer.Node, error)

// Module is the interface layer packages implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the constructors known to one application instance.
type Registry struct {
	constructors map[string]Constructor
}

// New creates a Registry and registers the given modules into it.
func New(modules ...Module) *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	for _, m := range modules {
		m.Register(r)
	}
	return r
}

// Register binds a type tag to a constructor. Registering the same tag twice
// is a programming error and panics.
func (r *Registry) Register(tag string, ctor Constructor) {
	if tag == "" {
		panic("registry: empty layer type")
	}
	if ctor == nil {
		panic(fmt.Sprintf("registry: nil constructor for layer type '%s'", tag))
	}
	if _, exists := r.constructors[tag]; exists {
		panic(fmt.Sprintf("registry: layer type '%s' registered twice", tag))
	}
	r.constructors[tag] = ctor
}

// Has reports whether tag is registered.
func (r *Registry) Has(tag string) bool {
	_, ok := r.constructors[tag]
	return ok
}

// Types returns the registered tags in sorted order.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.constructors))
	for tag := range r.constructors {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// Build constructs a layer of type tag.
func (r *Registry) Build(tag string, settings layer.Settings, inputs ...layer.Node) (layer.Node, error) {
	ctor, ok := r.constructors[tag]
	if !ok {
		return nil, &serializer.UnknownTypeError{Type: tag}
	}
	n, err := ctor(settings.Clone(), inputs...)
	if err != nil {
		return nil, fmt.Errorf("building layer '%s': %w", tag, err)
	}
	return n, nil
}

// Reconstruct builds the layer for a serialized record.
func (r *Registry) Reconstruct(rec serializer.Record, input, input2 layer.Node) (layer.Node, error) {
	var inputs []layer.Node
	if input != nil {
		inputs = append(inputs, input)
	}
	if input2 != nil {
		inputs = append(inputs, input2)
	}
	return r.Build(rec.Type, rec.Settings, inputs...)
}
