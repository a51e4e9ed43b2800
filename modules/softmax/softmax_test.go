package softmax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/modules/input"
	"github.com/vk/netgraph/modules/vec"
	"gonum.org/v1/gonum/floats"
)

func TestLayer_Forward(t *testing.T) {
	t.Parallel()

	in := input.New(3)
	require.NoError(t, in.SetValues([]float64{1000, 1000, 1000}))
	require.NoError(t, in.Forward())

	l := New(in)
	require.NoError(t, l.Setup())
	require.NoError(t, l.Forward())

	out := vec.Raw(l.Output())
	assert.InDeltaSlice(t, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}, out, 1e-12, "large inputs must not overflow")
	assert.InDelta(t, 1.0, floats.Sum(out), 1e-12)
}

func TestLayer_ForwardIsMonotonic(t *testing.T) {
	t.Parallel()

	in := input.New(3)
	require.NoError(t, in.SetValues([]float64{0, 1, 2}))
	require.NoError(t, in.Forward())

	l := New(in)
	require.NoError(t, l.Forward())
	out := vec.Raw(l.Output())
	assert.Less(t, out[0], out[1])
	assert.Less(t, out[1], out[2])
}
