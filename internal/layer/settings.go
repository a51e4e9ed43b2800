package layer

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Settings holds a node's type-specific configuration. Values are plain Go
// data (numbers, strings, bools, slices, maps) so that they survive JSON and
// YAML round-trips.
type Settings map[string]any

// Clone returns a deep copy of s. Nested slices and maps are copied so a
// caller can never mutate a node's settings through a described copy.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = cloneValue(e)
		}
		return m
	case Settings:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []float64:
		return append([]float64(nil), t...)
	case []int:
		return append([]int(nil), t...)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode binds the settings onto a struct using its json tags. Numbers
// decoded from any persisted form (int, float64, json.Number) land in the
// struct field's declared type.
func (s Settings) Decode(target any) error {
	raw, err := json.Marshal(map[string]any(s))
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decoding settings: %w", err)
	}
	return nil
}

// Encode converts a settings struct back into a Settings map, using the
// same json tags Decode reads. Fields tagged omitempty with zero values are
// left out.
func Encode(source any) (Settings, error) {
	raw, err := json.Marshal(source)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	var out Settings
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return out, nil
}
