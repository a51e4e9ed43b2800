package hcl

import (
	"fmt"

	"github.com/vk/netgraph/internal/builder"
	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
)

// Validate checks names, references and the input/output designation.
func (d *Description) Validate() error {
	if len(d.Layers) < 2 {
		return fmt.Errorf("a network needs at least an input and an output layer, got %d layer(s)", len(d.Layers))
	}

	names := make(map[string]*LayerSpec, len(d.Layers))
	var roots []string
	for _, l := range d.Layers {
		if _, dup := names[l.Name]; dup {
			return fmt.Errorf("layer '%s' is declared more than once", l.Name)
		}
		names[l.Name] = l
		if l.Input2 != "" && l.Input == "" {
			return fmt.Errorf("layer '%s' sets %s without %s", l.Name, attrInput2, attrInput)
		}
		if l.Input == "" {
			roots = append(roots, l.Name)
		}
	}
	if len(roots) != 1 {
		return fmt.Errorf("exactly one layer without inputs is required, found %d: %v", len(roots), roots)
	}

	for _, l := range d.Layers {
		for _, ref := range l.Inputs() {
			if _, ok := names[ref]; !ok {
				return fmt.Errorf("layer '%s' references undeclared layer '%s'", l.Name, ref)
			}
			if ref == l.Name {
				return fmt.Errorf("layer '%s' references itself", l.Name)
			}
		}
	}

	out := d.Output()
	if out.Input == "" {
		return fmt.Errorf("output layer '%s' has no input", out.Name)
	}

	// Every layer must feed the output, and input references must not cycle.
	state := make(map[string]int, len(d.Layers))
	var walk func(name string) error
	walk = func(name string) error {
		switch state[name] {
		case 1:
			return fmt.Errorf("layer '%s' is part of a reference cycle", name)
		case 2:
			return nil
		}
		state[name] = 1
		for _, ref := range names[name].Inputs() {
			if err := walk(ref); err != nil {
				return err
			}
		}
		state[name] = 2
		return nil
	}
	if err := walk(out.Name); err != nil {
		return err
	}
	for _, l := range d.Layers {
		if state[l.Name] != 2 {
			return fmt.Errorf("layer '%s' does not feed the output layer '%s'", l.Name, out.Name)
		}
	}
	return nil
}

// InputLayer returns the layer without inputs.
func (d *Description) InputLayer() *LayerSpec {
	for _, l := range d.Layers {
		if l.Input == "" {
			return l
		}
	}
	return nil
}

// Output returns the last declared layer.
func (d *Description) Output() *LayerSpec {
	if len(d.Layers) == 0 {
		return nil
	}
	return d.Layers[len(d.Layers)-1]
}

// Definition turns the description into a builder definition whose
// constructors come from reg. Each hidden layer gets its own factory, listed
// so that every layer follows the layers it reads from; the output factory
// then only creates the output layer, whatever its inputs are.
func (d *Description) Definition(reg *registry.Registry) (builder.Definition, error) {
	if err := d.Validate(); err != nil {
		return builder.Definition{}, err
	}
	for _, l := range d.Layers {
		if !reg.Has(l.Type) {
			return builder.Definition{}, fmt.Errorf("layer '%s': unknown layer type '%s'", l.Name, l.Type)
		}
	}

	in := d.InputLayer()
	out := d.Output()

	// built is reset by every input factory call so a network can be
	// connected more than once.
	var built map[string]layer.Node
	var resolve func(name string) (layer.Node, error)
	resolve = func(name string) (layer.Node, error) {
		if n, ok := built[name]; ok {
			return n, nil
		}
		spec, _ := d.Lookup(name)
		var inputs []layer.Node
		for _, ref := range spec.Inputs() {
			n, err := resolve(ref)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, n)
		}
		n, err := reg.Build(spec.Type, spec.Settings, inputs...)
		if err != nil {
			return nil, fmt.Errorf("layer '%s': %w", name, err)
		}
		built[name] = n
		return n, nil
	}

	def := builder.Definition{
		Input: func() (layer.Node, error) {
			built = make(map[string]layer.Node, len(d.Layers))
			return resolve(in.Name)
		},
		Output: func(layer.Node) (layer.Node, error) {
			return resolve(out.Name)
		},
	}
	for _, name := range d.hiddenOrder() {
		name := name
		def.Hidden = append(def.Hidden, func(layer.Node) (layer.Node, error) {
			return resolve(name)
		})
	}
	return def, nil
}

// hiddenOrder lists the layers between the input and the output layer, each
// after every layer it reads from. Inputs are visited in declaration order
// (input before input2).
func (d *Description) hiddenOrder() []string {
	in, out := d.InputLayer(), d.Output()
	seen := map[string]bool{in.Name: true, out.Name: true}
	var order []string
	var visit func(spec *LayerSpec)
	visit = func(spec *LayerSpec) {
		for _, ref := range spec.Inputs() {
			if seen[ref] {
				continue
			}
			seen[ref] = true
			next, _ := d.Lookup(ref)
			visit(next)
			order = append(order, ref)
		}
	}
	visit(out)
	return order
}
