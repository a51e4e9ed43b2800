package serializer

import (
	"context"
	"fmt"

	"github.com/vk/netgraph/internal/ctxlog"
	"github.com/vk/netgraph/internal/dag"
	"github.com/vk/netgraph/internal/layer"
)

// Reconstruct builds the concrete layer for a record. input and input2 are
// the already-rebuilt layers at the record's input positions, or nil. It
// must return an *UnknownTypeError for tags it does not handle.
type Reconstruct func(record Record, input, input2 layer.Node) (layer.Node, error)

// ToRecords emits one record per layer in canonical order. Every settings
// field a layer describes is written, whether or not it equals a default.
func ToRecords(ctx context.Context, nodes []layer.Node) ([]Record, error) {
	logger := ctxlog.FromContext(ctx)
	index := make(map[layer.Node]int, len(nodes))
	records := make([]Record, 0, len(nodes))

	for i, n := range nodes {
		if n == nil {
			return nil, &dag.DependencyOrderError{Index: i, Type: "<nil>", Reason: "layer is nil"}
		}
		if _, dup := index[n]; dup {
			return nil, &dag.DependencyOrderError{Index: i, Type: n.Type(), Reason: "layer appears more than once"}
		}

		rec := Record{Type: n.Type(), Settings: n.Describe()}
		for k := range rec.Settings {
			if isReserved(k) {
				return nil, fmt.Errorf("layer %d ('%s'): setting '%s' collides with a reserved record field", i, n.Type(), k)
			}
		}

		inputs := n.Inputs()
		if len(inputs) > layer.MaxInputs {
			return nil, &dag.DependencyOrderError{Index: i, Type: n.Type(), Reason: fmt.Sprintf("layer has %d inputs, at most %d are supported", len(inputs), layer.MaxInputs)}
		}
		for slot, in := range inputs {
			j, ok := index[in]
			if !ok {
				return nil, &dag.DependencyOrderError{Index: i, Type: n.Type(), Reason: "input does not appear at an earlier position"}
			}
			if slot == 0 {
				rec.InputLayerIndex = Index(j)
			} else {
				rec.InputLayerIndex2 = Index(j)
			}
		}

		index[n] = i
		records = append(records, rec)
	}

	logger.Debug("Serialized layers.", "record_count", len(records))
	return records, nil
}

// FromRecords rebuilds a layer list from records. Every record is checked
// before the first reconstruction so an invalid list builds nothing.
func FromRecords(ctx context.Context, records []Record, reconstruct Reconstruct) ([]layer.Node, error) {
	logger := ctxlog.FromContext(ctx)
	if reconstruct == nil {
		return nil, fmt.Errorf("reconstruct callback is required")
	}
	if err := ValidateRecords(records); err != nil {
		return nil, err
	}

	nodes := make([]layer.Node, 0, len(records))
	for i, rec := range records {
		var input, input2 layer.Node
		if rec.InputLayerIndex != nil {
			input = nodes[*rec.InputLayerIndex]
		}
		if rec.InputLayerIndex2 != nil {
			input2 = nodes[*rec.InputLayerIndex2]
		}

		n, err := reconstruct(rec, input, input2)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if n == nil {
			return nil, fmt.Errorf("record %d: reconstruct returned no layer for type '%s'", i, rec.Type)
		}
		if n.Type() != rec.Type {
			return nil, &TypeMismatchError{Position: i, Want: rec.Type, Got: n.Type()}
		}
		logger.Debug("Reconstructed layer.", "index", i, "type", rec.Type)
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// ValidateRecords checks that every record names a type and that its input
// indices point at earlier records.
func ValidateRecords(records []Record) error {
	for i, rec := range records {
		if rec.Type == "" {
			return fmt.Errorf("record %d: field '%s' is empty", i, KeyType)
		}
		if rec.InputLayerIndex2 != nil && rec.InputLayerIndex == nil {
			return &UnresolvedReferenceError{Position: i, Field: KeyInputIndex, Reference: -1, Reason: "second input given without a first"}
		}
		for _, ref := range []struct {
			field string
			idx   *int
		}{{KeyInputIndex, rec.InputLayerIndex}, {KeyInputIndex2, rec.InputLayerIndex2}} {
			if ref.idx == nil {
				continue
			}
			j := *ref.idx
			switch {
			case j < 0:
				return &UnresolvedReferenceError{Position: i, Field: ref.field, Reference: j, Reason: "index is negative"}
			case j >= len(records):
				return &UnresolvedReferenceError{Position: i, Field: ref.field, Reference: j, Reason: "index is out of range"}
			case j >= i:
				return &UnresolvedReferenceError{Position: i, Field: ref.field, Reference: j, Reason: "index does not refer to an earlier record"}
			}
		}
	}
	return nil
}
