package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/modules/input"
)

func setup(t *testing.T, values ...float64) *Layer {
	t.Helper()
	in := input.New(len(values))
	require.NoError(t, in.SetValues(values))
	require.NoError(t, in.Forward())

	l := New(in)
	require.NoError(t, l.Setup())
	require.NoError(t, l.Forward())
	return l
}

func TestLayer_Compare(t *testing.T) {
	t.Parallel()

	l := setup(t, 1, 2)
	l.SetTarget([]float64{0, 4})
	require.NoError(t, l.Compare())

	assert.Equal(t, []float64{1, 2}, l.Prediction())
	assert.Equal(t, []float64{1, -2}, l.Delta())
	assert.InDelta(t, 2.5, l.Loss(), 1e-12)
}

func TestLayer_CompareErrors(t *testing.T) {
	t.Parallel()

	l := setup(t, 1, 2)
	assert.ErrorContains(t, l.Compare(), "no target set")

	l.SetTarget([]float64{1})
	assert.ErrorContains(t, l.Compare(), "got 1 target values, want 2")

	fresh := New(input.New(1))
	fresh.SetTarget([]float64{1})
	assert.ErrorContains(t, fresh.Compare(), "run forward first")
}
