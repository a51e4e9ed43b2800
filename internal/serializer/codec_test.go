package serializer

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/internal/layer"
)

func sampleDocument() Document {
	return Document{Layers: []Record{
		{Type: "input", Settings: layer.Settings{"width": 2}},
		{Type: "dense", InputLayerIndex: Index(0), Settings: layer.Settings{"width": 3, "label": "h"}},
		{Type: "add", InputLayerIndex: Index(0), InputLayerIndex2: Index(1)},
	}}
}

func TestMarshal_YAMLPutsReservedKeysFirst(t *testing.T) {
	t.Parallel()

	data, err := Marshal(sampleDocument(), FormatYAML)
	require.NoError(t, err)

	want := `layers:
  - type: input
    width: 2
  - type: dense
    inputLayerIndex: 0
    label: h
    width: 3
  - type: add
    inputLayerIndex: 0
    inputLayerIndex2: 1
`
	assert.Equal(t, want, string(data))
}

func TestUnmarshal_YAMLRoundTrip(t *testing.T) {
	t.Parallel()

	doc := sampleDocument()
	data, err := Marshal(doc, FormatYAML)
	require.NoError(t, err)

	got, err := Unmarshal(data, FormatYAML)
	require.NoError(t, err)
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("YAML round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_JSONNumbersBecomeFloats(t *testing.T) {
	t.Parallel()

	got, err := Unmarshal([]byte(`{"layers":[{"type":"input","width":2},{"type":"dense","inputLayerIndex":0,"width":3}]}`), FormatJSON)
	require.NoError(t, err)

	want := Document{Layers: []Record{
		{Type: "input", Settings: layer.Settings{"width": 2.0}},
		{Type: "dense", InputLayerIndex: Index(0), Settings: layer.Settings{"width": 3.0}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshal_Errors(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"fractional index": `{"layers":[{"type":"a"},{"type":"b","inputLayerIndex":0.5}]}`,
		"string index":     `{"layers":[{"type":"a"},{"type":"b","inputLayerIndex":"0"}]}`,
		"missing type":     `{"layers":[{"width":1}]}`,
		"not json":         `{"layers":`,
	}
	for name, data := range tests {
		data := data
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Unmarshal([]byte(data), FormatJSON)
			assert.Error(t, err)
		})
	}
}

func TestMarshal_EmptyDocument(t *testing.T) {
	t.Parallel()

	data, err := Marshal(Document{}, FormatJSON)
	require.NoError(t, err)
	assert.JSONEq(t, `{"layers":[]}`, string(data))
}

func TestFormats(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = FormatForPath("model.json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = FormatForPath("model")
	assert.ErrorContains(t, err, "no file extension")

	_, err = ParseFormat("toml")
	assert.ErrorContains(t, err, "unsupported format")
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"model.json", "model.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Save(path, sampleDocument()))

		got, err := Load(path)
		require.NoError(t, err)
		require.Len(t, got.Layers, 3, name)
		assert.Equal(t, []int{0, 1}, got.Layers[2].Inputs(), name)
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "reading")
}
