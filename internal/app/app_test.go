package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/internal/serializer"
	"github.com/vk/netgraph/internal/testutil"
)

const identityNetwork = `
layer "input" "in" {
  width = 2
}

layer "dense" "h" {
  input   = "in"
  width   = 2
  weights = [1, 0, 0, 1]
}

layer "relu" "act" {
  input = "h"
}

layer "output" "out" {
  input = "act"
}
`

func writeNetwork(t *testing.T) string {
	t.Helper()
	dir := testutil.WriteFiles(t, map[string]string{"net.hcl": identityNetwork})
	return filepath.Join(dir, "net.hcl")
}

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(Config{})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	_, err = NewConfig(Config{LogLevel: "loud"})
	assert.ErrorContains(t, err, "invalid log-level")
	_, err = NewConfig(Config{LogFormat: "xml"})
	assert.ErrorContains(t, err, "invalid log-format")
	_, err = NewConfig(Config{Format: "toml"})
	assert.ErrorContains(t, err, "unsupported format")
	_, err = NewConfig(Config{MetricsPort: -1})
	assert.ErrorContains(t, err, "invalid metrics-port")
}

func TestApp_Types(t *testing.T) {
	t.Parallel()

	a, out, _ := SetupAppTest(t, Config{})
	require.NoError(t, a.Types())
	assert.Equal(t, "add\ndense\ninput\noutput\nrelu\nsoftmax\n", out.String())
}

func TestApp_Inspect(t *testing.T) {
	t.Parallel()

	a, out, logs := SetupAppTest(t, Config{})
	require.NoError(t, a.Inspect(context.Background(), writeNetwork(t)))

	assert.Contains(t, out.String(), "INDEX")
	assert.Contains(t, out.String(), "dense")
	assert.Contains(t, logs.String(), "Network layers connected.")
}

func TestApp_BuildThenRunFromDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	docPath := filepath.Join(dir, "net.yaml")

	builder, _, _ := SetupAppTest(t, Config{Output: docPath})
	require.NoError(t, builder.Build(context.Background(), writeNetwork(t)))

	doc, err := serializer.Load(docPath)
	require.NoError(t, err)
	require.Len(t, doc.Layers, 4)
	assert.Equal(t, "dense", doc.Layers[1].Type)
	assert.Contains(t, doc.Layers[1].Settings, "biases", "settings derived in setup must be persisted")

	runner, out, _ := SetupAppTest(t, Config{})
	err = runner.Run(context.Background(), docPath, RunOptions{
		Values: []float64{1, -1},
		Target: []float64{0, 0},
		Learn:  true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "prediction: [1 0]")
	assert.Contains(t, out.String(), "loss: 0.5")
}

func TestApp_ConvertToStdout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "net.json")

	builder, _, _ := SetupAppTest(t, Config{Output: jsonPath})
	require.NoError(t, builder.Build(context.Background(), writeNetwork(t)))

	converter, out, _ := SetupAppTest(t, Config{Format: "yaml"})
	require.NoError(t, converter.Convert(context.Background(), jsonPath))

	doc, err := serializer.Unmarshal([]byte(out.String()), serializer.FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Layers, 4)
	assert.Equal(t, []int{2}, doc.Layers[3].Inputs())
}

func TestApp_RunErrors(t *testing.T) {
	t.Parallel()

	a, _, _ := SetupAppTest(t, Config{})
	path := writeNetwork(t)

	err := a.Run(context.Background(), path, RunOptions{Values: []float64{1}})
	assert.ErrorContains(t, err, "got 1 values, want 2")

	err = a.Run(context.Background(), filepath.Join(t.TempDir(), "missing.json"), RunOptions{})
	assert.ErrorContains(t, err, "error accessing path")
}

func TestApp_ConvertRejectsBrokenDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"layers":[{"type":"input","width":1},{"type":"output","inputLayerIndex":1}]}`), 0o644))

	a, _, _ := SetupAppTest(t, Config{})
	var refErr *serializer.UnresolvedReferenceError
	assert.ErrorAs(t, a.Convert(context.Background(), path), &refErr)
}

func TestApp_HealthAndMetricsEndpoints(t *testing.T) {
	t.Parallel()

	a, _, _ := SetupAppTest(t, Config{})
	require.NoError(t, a.Inspect(context.Background(), writeNetwork(t)))

	srv := httptest.NewServer(a.handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_ServerDisabledByDefault(t *testing.T) {
	t.Parallel()

	a, _, _ := SetupAppTest(t, Config{})
	a.Start()
	assert.Nil(t, a.httpServer)
	assert.NoError(t, a.Close())
}
