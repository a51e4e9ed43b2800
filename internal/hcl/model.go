package hcl

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/netgraph/internal/layer"
)

// Reserved attribute names inside a layer block.
const (
	attrInput  = "input"
	attrInput2 = "input2"
)

// fileRoot is used to decode the top-level blocks of a file. Any other
// block or attribute is rejected by the decoder.
type fileRoot struct {
	Layers []*layerBlock `hcl:"layer,block"`
}

// layerBlock is the raw HCL form of a layer declaration.
type layerBlock struct {
	Type string   `hcl:"type,label"`
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// LayerSpec is one decoded layer declaration.
type LayerSpec struct {
	Type     string
	Name     string
	Input    string
	Input2   string
	Settings layer.Settings
}

// Inputs returns the names of the layers this layer reads from.
func (s *LayerSpec) Inputs() []string {
	var out []string
	if s.Input != "" {
		out = append(out, s.Input)
	}
	if s.Input2 != "" {
		out = append(out, s.Input2)
	}
	return out
}

// Description is a parsed network description, in declaration order.
type Description struct {
	Layers []*LayerSpec
}

// Lookup returns the layer declared under name.
func (d *Description) Lookup(name string) (*LayerSpec, bool) {
	for _, l := range d.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return nil, false
}
