package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/fsutil"
	"github.com/vk/netgraph/internal/layer"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Loader reads network descriptions from .hcl files.
type Loader struct{}

// NewLoader creates a new HCL description loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under paths, in lexical order, and validates
// the combined description.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Description, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	desc := &Description{}
	for _, file := range files {
		f, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		if err := l.decode(ctx, f.Body, desc); err != nil {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, err)
		}
	}

	if err := desc.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "layers", len(desc.Layers))
	return desc, nil
}

// Parse decodes a single in-memory description.
func (l *Loader) Parse(ctx context.Context, src []byte, filename string) (*Description, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	desc := &Description{}
	if err := l.decode(ctx, f.Body, desc); err != nil {
		return nil, fmt.Errorf("failed to decode HCL %s: %w", filename, err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

func (l *Loader) decode(ctx context.Context, body hcl.Body, desc *Description) error {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return diags
	}
	for _, block := range root.Layers {
		spec, err := translateLayer(ctx, block)
		if err != nil {
			return err
		}
		desc.Layers = append(desc.Layers, spec)
	}
	return nil
}

// translateLayer splits a block's attributes into input references and
// settings.
func translateLayer(ctx context.Context, block *layerBlock) (*LayerSpec, error) {
	logger := ctxlog.FromContext(ctx)
	spec := &LayerSpec{
		Type:     block.Type,
		Name:     block.Name,
		Settings: layer.Settings{},
	}

	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("layer '%s': %w", block.Name, diags)
	}
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("layer '%s', attribute '%s': %w", block.Name, name, diags)
		}
		switch name {
		case attrInput, attrInput2:
			ref, err := referenceName(val)
			if err != nil {
				return nil, fmt.Errorf("layer '%s', attribute '%s': %w", block.Name, name, err)
			}
			if name == attrInput {
				spec.Input = ref
			} else {
				spec.Input2 = ref
			}
		default:
			v, err := toGo(val)
			if err != nil {
				return nil, fmt.Errorf("layer '%s', attribute '%s': %w", block.Name, name, err)
			}
			spec.Settings[name] = v
		}
	}
	logger.Debug("Translated layer block.", "type", spec.Type, "name", spec.Name, "inputs", spec.Inputs(), "settings", spec.Settings.Keys())
	return spec, nil
}

func referenceName(val cty.Value) (string, error) {
	if val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
		return "", fmt.Errorf("must be the name of another layer")
	}
	return val.AsString(), nil
}

// toGo converts a cty value into the plain data a layer.Settings holds.
// Numbers become float64, collections become []any and map[string]any.
func toGo(val cty.Value) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil

	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(val, &f); err != nil {
			return nil, fmt.Errorf("could not convert number to float64: %w", err)
		}
		return f, nil

	case ty == cty.Bool:
		var b bool
		if err := gocty.FromCtyValue(val, &b); err != nil {
			return nil, err
		}
		return b, nil

	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		it := val.ElementIterator()
		for it.Next() {
			_, elem := it.Element()
			v, err := toGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		it := val.ElementIterator()
		for it.Next() {
			key, elem := it.Element()
			v, err := toGo(elem)
			if err != nil {
				return nil, fmt.Errorf("in key '%s': %w", key.AsString(), err)
			}
			out[key.AsString()] = v
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
