package registry_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/internal/serializer"
	"github.com/vk/netgraph/internal/testutil"
)

func TestNew_RegistersModules(t *testing.T) {
	t.Parallel()

	r := registry.New(
		&testutil.RecorderModule{Types: []string{"b", "a"}},
		&testutil.RecorderModule{Types: []string{"c"}},
	)

	assert.Equal(t, []string{"a", "b", "c"}, r.Types())
	assert.True(t, r.Has("a"))
	assert.False(t, r.Has("z"))
}

func TestRegister_Panics(t *testing.T) {
	t.Parallel()

	ctor := func(layer.Settings, ...layer.Node) (layer.Node, error) { return nil, nil }

	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		r := registry.New()
		r.Register("a", ctor)
		assert.PanicsWithValue(t, "registry: layer type 'a' registered twice", func() { r.Register("a", ctor) })
	})
	t.Run("empty tag", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { registry.New().Register("", ctor) })
	})
	t.Run("nil constructor", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { registry.New().Register("a", nil) })
	})
}

func TestBuild(t *testing.T) {
	t.Parallel()

	mod := &testutil.RecorderModule{Types: []string{"a"}}
	r := registry.New(mod)

	settings := layer.Settings{"name": "x"}
	n, err := r.Build("a", settings)
	require.NoError(t, err)
	assert.Equal(t, "a", n.Type())
	assert.Equal(t, 1, mod.Built)

	settings["name"] = "changed"
	assert.Equal(t, "x", n.(*testutil.Recorder).Name(), "the constructor must get its own copy of the settings")

	_, err = r.Build("missing", nil)
	var typeErr *serializer.UnknownTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "missing", typeErr.Type)
}

func TestBuild_WrapsConstructorErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := registry.New()
	r.Register("bad", func(layer.Settings, ...layer.Node) (layer.Node, error) { return nil, boom })

	_, err := r.Build("bad", nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "building layer 'bad'")
}

func TestReconstruct_PassesOnlyPresentInputs(t *testing.T) {
	t.Parallel()

	var got []layer.Node
	r := registry.New()
	r.Register("x", func(_ layer.Settings, inputs ...layer.Node) (layer.Node, error) {
		got = inputs
		return testutil.NewRecorder(nil, "x", "x", inputs...), nil
	})

	in := testutil.NewRecorder(nil, "in", "in")
	_, err := r.Reconstruct(serializer.Record{Type: "x"}, in, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, in, got[0])

	_, err = r.Reconstruct(serializer.Record{Type: "x"}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
