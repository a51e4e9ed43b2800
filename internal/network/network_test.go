package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/internal/builder"
	"github.com/vk/netgraph/internal/executor"
	"github.com/vk/netgraph/internal/layer"
	"github.com/vk/netgraph/internal/registry"
	"github.com/vk/netgraph/internal/serializer"
	"github.com/vk/netgraph/internal/telemetry"
	"github.com/vk/netgraph/internal/testutil"
)

// fixture returns a definition of an input, k hidden recorders and an output,
// all recording into j.
func fixture(j *testutil.Journal, k int) builder.Definition {
	def := builder.Definition{
		Input: builder.Input(func() layer.Node {
			return testutil.NewRecorderWithSettings(j, "input", layer.Settings{"name": "in", "foo": true})
		}),
		Output: builder.Step(func(prev layer.Node) layer.Node {
			return testutil.NewRecorderWithSettings(j, "output", layer.Settings{"name": "out", "foo": true}, prev)
		}),
	}
	for i := 0; i < k; i++ {
		name := fmt.Sprintf("h%d", i)
		def.Hidden = append(def.Hidden, builder.Step(func(prev layer.Node) layer.Node {
			return testutil.NewRecorderWithSettings(j, "hidden", layer.Settings{"name": name, "foo": true}, prev)
		}))
	}
	return def
}

var forwardOrder = []string{"in", "h0", "h1", "h2", "out"}

func TestNetwork_HasNoLayersBeforeBuild(t *testing.T) {
	t.Parallel()

	n := New(fixture(nil, 3))
	assert.Nil(t, n.Layers())
	assert.Nil(t, n.InputLayer())
	assert.Nil(t, n.OutputLayer())
	assert.False(t, n.Initialized())
}

func TestNetwork_ConnectLayers(t *testing.T) {
	t.Parallel()

	n := New(fixture(nil, 3))
	require.NoError(t, n.ConnectLayers(context.Background()))
	require.Equal(t, 5, n.Len())

	layers := n.Layers()
	layers[0], layers[4] = layers[4], layers[0]
	assert.Equal(t, "input", n.InputLayer().Type(), "callers must not be able to reorder the network")
	assert.Equal(t, "output", n.OutputLayer().Type())
}

func TestNetwork_InitializeConnectsAndSetsUpInOrder(t *testing.T) {
	t.Parallel()

	j := &testutil.Journal{}
	n := New(fixture(j, 3))
	require.NoError(t, n.Initialize(context.Background()))

	assert.Equal(t, 5, n.Len())
	assert.True(t, n.Initialized())
	assert.Equal(t, forwardOrder, j.For(testutil.PhaseSetup))
	assert.Len(t, j.Entries(), 5)
}

func TestNetwork_PhasesCallEachLayerOnce(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := &testutil.Journal{}
	n := New(fixture(j, 3))
	require.NoError(t, n.Initialize(ctx))

	require.NoError(t, n.RunInput(ctx))
	require.NoError(t, n.CalculateDeltas(ctx))
	require.NoError(t, n.AdjustWeights(ctx))

	assert.Equal(t, forwardOrder, j.For(testutil.PhaseForward))
	assert.Equal(t, forwardOrder, j.For(testutil.PhaseCompare))
	assert.Equal(t, forwardOrder, j.For(testutil.PhaseLearn))
}

func TestNetwork_CalculateDeltasWithoutRunInput(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := &testutil.Journal{}
	n := New(fixture(j, 3))
	require.NoError(t, n.Initialize(ctx))

	require.NoError(t, n.CalculateDeltas(ctx))
	assert.Equal(t, forwardOrder, j.For(testutil.PhaseCompare))
	assert.Empty(t, j.For(testutil.PhaseForward))
}

func TestNetwork_PhasesRequireInitialize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j := &testutil.Journal{}
	n := New(fixture(j, 2))
	require.NoError(t, n.ConnectLayers(ctx))

	for name, run := range map[string]func(context.Context) error{
		"runInput":        n.RunInput,
		"calculateDeltas": n.CalculateDeltas,
		"adjustWeights":   n.AdjustWeights,
	} {
		err := run(ctx)
		var phaseErr *executor.PhaseExecutionError
		require.ErrorAs(t, err, &phaseErr, name)
		assert.Equal(t, name, phaseErr.Phase)
		assert.ErrorIs(t, err, executor.ErrNotInitialized, name)
	}
	assert.Empty(t, j.Entries(), "no layer may run before initialize")
}

func TestNetwork_FailedInitializeLeavesNetworkUninitialized(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("boom")
	def := fixture(nil, 1)
	def.Hidden = []builder.Factory{func(prev layer.Node) (layer.Node, error) {
		p := testutil.NewRecorder(nil, "hidden", "bad", prev)
		p.Fail = map[string]error{testutil.PhaseSetup: boom}
		return p, nil
	}}

	n := New(def)
	err := n.Initialize(ctx)
	require.ErrorIs(t, err, boom)
	assert.False(t, n.Initialized())
	assert.ErrorIs(t, n.RunInput(ctx), executor.ErrNotInitialized)
}

func TestNetwork_ReconnectRequiresInitialize(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	n := New(fixture(nil, 1))
	require.NoError(t, n.Initialize(ctx))
	require.NoError(t, n.ConnectLayers(ctx))
	assert.False(t, n.Initialized())
}

func TestNetwork_ConnectLayersError(t *testing.T) {
	t.Parallel()

	n := New(builder.Definition{})
	err := n.Initialize(context.Background())
	var compErr *builder.UnsupportedCompositionError
	require.ErrorAs(t, err, &compErr)
	assert.Nil(t, n.Layers())
}

func TestNetwork_JSONRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	n := New(fixture(nil, 3))
	require.NoError(t, n.ConnectLayers(ctx))

	data, err := n.ToJSON(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"layers":[
		{"type":"input","name":"in","foo":true},
		{"type":"hidden","name":"h0","foo":true,"inputLayerIndex":0},
		{"type":"hidden","name":"h1","foo":true,"inputLayerIndex":1},
		{"type":"hidden","name":"h2","foo":true,"inputLayerIndex":2},
		{"type":"output","name":"out","foo":true,"inputLayerIndex":3}
	]}`, string(data))

	j := &testutil.Journal{}
	reg := registry.New(&testutil.RecorderModule{Journal: j, Types: []string{"input", "hidden", "output"}})
	restored, err := FromJSON(ctx, data, reg.Reconstruct)
	require.NoError(t, err)

	assert.Equal(t, 5, restored.Len())
	assert.False(t, restored.Initialized())
	require.NoError(t, restored.Initialize(ctx))
	assert.Equal(t, forwardOrder, j.For(testutil.PhaseSetup))

	again, err := restored.ToJSON(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

func TestNetwork_FromRecordsErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	reg := registry.New(&testutil.RecorderModule{Types: []string{"a"}})

	_, err := FromRecords(ctx, []serializer.Record{{Type: "a", InputLayerIndex: serializer.Index(0)}}, reg.Reconstruct)
	var refErr *serializer.UnresolvedReferenceError
	assert.ErrorAs(t, err, &refErr)

	_, err = FromJSON(ctx, []byte(`{"layers":[{"type":"b"}]}`), reg.Reconstruct)
	var typeErr *serializer.UnknownTypeError
	assert.ErrorAs(t, err, &typeErr)

	_, err = FromJSON(ctx, []byte(`not json`), reg.Reconstruct)
	assert.Error(t, err)
}

func TestNetwork_ToRecordsBeforeBuild(t *testing.T) {
	t.Parallel()

	_, err := New(fixture(nil, 1)).ToJSON(context.Background())
	assert.ErrorContains(t, err, "no layers")
}

func TestNetwork_RecordsLayerCount(t *testing.T) {
	t.Parallel()

	m := telemetry.NewMetrics()
	n := New(fixture(nil, 3), WithMetrics(m))
	require.NoError(t, n.Initialize(context.Background()))

	expected := `
# HELP netgraph_layers Number of layers in the most recently built network
# TYPE netgraph_layers gauge
netgraph_layers 5
`
	require.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(expected), "netgraph_layers"))
}
