package serializer

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/vk/netgraph/internal/layer"
	"gopkg.in/yaml.v3"
)

// Field names of the persisted format.
const (
	KeyType        = "type"
	KeyInputIndex  = "inputLayerIndex"
	KeyInputIndex2 = "inputLayerIndex2"
)

// Record is the serialized form of one layer.
type Record struct {
	Type string
	// InputLayerIndex is the position of the first input, nil for the
	// designated input layer.
	InputLayerIndex *int
	// InputLayerIndex2 is the position of the second input of a merge layer.
	InputLayerIndex2 *int
	Settings         layer.Settings
}

// Document is the persisted envelope: {"layers": [...]}.
type Document struct {
	Layers []Record `json:"layers" yaml:"layers"`
}

// Index returns a pointer to i, for building records by hand.
func Index(i int) *int { return &i }

// Inputs returns the record's input positions in order.
func (r Record) Inputs() []int {
	var out []int
	if r.InputLayerIndex != nil {
		out = append(out, *r.InputLayerIndex)
	}
	if r.InputLayerIndex2 != nil {
		out = append(out, *r.InputLayerIndex2)
	}
	return out
}

// Map flattens the record into the persisted key/value shape.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Settings)+3)
	for k, v := range r.Settings {
		m[k] = v
	}
	m[KeyType] = r.Type
	if r.InputLayerIndex != nil {
		m[KeyInputIndex] = *r.InputLayerIndex
	}
	if r.InputLayerIndex2 != nil {
		m[KeyInputIndex2] = *r.InputLayerIndex2
	}
	return m
}

// RecordFromMap splits a flattened record into its reserved fields and
// settings.
func RecordFromMap(m map[string]any) (Record, error) {
	var r Record
	t, ok := m[KeyType].(string)
	if !ok {
		return r, fmt.Errorf("record field '%s' must be a string, got %T", KeyType, m[KeyType])
	}
	r.Type = t

	for _, key := range []string{KeyInputIndex, KeyInputIndex2} {
		raw, present := m[key]
		if !present || raw == nil {
			continue
		}
		idx, err := toIndex(raw)
		if err != nil {
			return r, fmt.Errorf("record field '%s': %w", key, err)
		}
		if key == KeyInputIndex {
			r.InputLayerIndex = &idx
		} else {
			r.InputLayerIndex2 = &idx
		}
	}

	for k, v := range m {
		if isReserved(k) {
			continue
		}
		if r.Settings == nil {
			r.Settings = layer.Settings{}
		}
		r.Settings[k] = v
	}
	return r, nil
}

// MarshalJSON writes the flattened record. encoding/json sorts map keys, so
// the output is deterministic.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON reads a flattened record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	rec, err := RecordFromMap(m)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// MarshalYAML writes the flattened record with the reserved keys first.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value any) error {
		var v yaml.Node
		if err := v.Encode(value); err != nil {
			return err
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &v)
		return nil
	}
	if err := add(KeyType, r.Type); err != nil {
		return nil, err
	}
	if r.InputLayerIndex != nil {
		if err := add(KeyInputIndex, *r.InputLayerIndex); err != nil {
			return nil, err
		}
	}
	if r.InputLayerIndex2 != nil {
		if err := add(KeyInputIndex2, *r.InputLayerIndex2); err != nil {
			return nil, err
		}
	}
	keys := make([]string, 0, len(r.Settings))
	for k := range r.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := add(k, r.Settings[k]); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// UnmarshalYAML reads a flattened record.
func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	var m map[string]any
	if err := value.Decode(&m); err != nil {
		return err
	}
	rec, err := RecordFromMap(m)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

func isReserved(key string) bool {
	return key == KeyType || key == KeyInputIndex || key == KeyInputIndex2
}

func toIndex(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("index %v is not an integer", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("index %q is not an integer", n.String())
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("index must be a number, got %T", v)
	}
}
