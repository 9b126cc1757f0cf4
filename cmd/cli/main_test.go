package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_GeneratesConfiguration(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	project := `
task "jsCore_gen" {
  func "generate resmoke tasks" {
    vars = { suite = "core" }
  }
}

task "archive_dist_test_debug" {}

suite "core" {
  tests = ["jstests/core/a.js", "jstests/core/b.js"]
}

variant "linux" {
  run_on = ["ubuntu2204-small"]
  task "jsCore_gen" {}
}
`
	projectPath := filepath.Join(dir, "evergreen.hcl")
	require.NoError(t, os.WriteFile(projectPath, []byte(project), 0o600), "failed to set up test file")
	outDir := filepath.Join(dir, "out")

	args := []string{"-log-format", "text", "-env", filepath.Join(dir, "missing.env"), "-output", outDir, projectPath}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, out.String())
	require.FileExists(t, filepath.Join(outDir, "evergreen_config.json"))
	require.FileExists(t, filepath.Join(outDir, "generated_resmoke_config", "jsCore_0-linux.json"))
}

func TestRun_LoadError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A syntax error in the project file fails the load phase.
	dir := t.TempDir()
	filePath := filepath.Join(dir, "evergreen.hcl")
	require.NoError(t, os.WriteFile(filePath, []byte("task \"jsCore_gen\" {\n"), 0o600))

	args := []string{"-output", filepath.Join(dir, "out"), filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load configuration")
	require.Contains(t, err.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	err := run(context.Background(), out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
