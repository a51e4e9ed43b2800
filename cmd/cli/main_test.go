package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/netgraph/internal/cli"
)

const tinyNetwork = `
layer "input" "in" { width = 2 }
layer "relu" "act" { input = "in" }
layer "output" "out" { input = "act" }
`

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"-h"})

	require.NoError(t, err, "run() should return a nil error for help")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err, "run() should return an error when argument parsing fails")
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
	require.Contains(t, err.Error(), "this-is-not-a-valid-flag")
}

func TestRun_InvalidHCL(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(`layer "input" "in" {`), 0o600))

	err := run(&bytes.Buffer{}, &bytes.Buffer{}, []string{"inspect", filePath})

	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_Inspect(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte(tinyNetwork), 0o600))

	out := &bytes.Buffer{}
	err := run(out, &bytes.Buffer{}, []string{"inspect", filePath})

	require.NoError(t, err)
	require.Contains(t, out.String(), "input")
	require.Contains(t, out.String(), "relu")
	require.Contains(t, out.String(), "output")
}
