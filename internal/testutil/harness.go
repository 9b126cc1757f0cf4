// Package testutil runs the application end to end over HCL fixtures.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/taskgen/internal/app"
	"github.com/vk/taskgen/internal/emit"
	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/hcl_adapter"
)

// RootPlaceholder is replaced in fixture contents with the temporary root.
const RootPlaceholder = "{{root}}"

// SettingsFile is the fixture name RunIntegrationTest passes as the
// settings file when present.
const SettingsFile = "settings.hcl"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	OutputDir string
	// Graph is the decoded generated configuration, nil if none was written.
	Graph *graph.Graph
}

// Suite reads the generated suite file of task.
func (r *HarnessResult) Suite(t *testing.T, task string) *graph.SuiteFile {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(r.OutputDir, filepath.FromSlash("generated_resmoke_config/"+task+".json")))
	require.NoError(t, err)
	var s graph.SuiteFile
	require.NoError(t, json.Unmarshal(raw, &s))
	return &s
}

// FuncVars returns the variables of the first call of fn in task, or nil.
func FuncVars(task *graph.Task, fn string) map[string]string {
	for _, c := range task.Commands {
		if c.Func == fn {
			return c.Vars
		}
	}
	return nil
}

// RunIntegrationTest writes files below a temporary root and runs the app
// on it. Files under "etc/" form the project; SettingsFile, if given, is
// the settings file.
func RunIntegrationTest(t *testing.T, files map[string]string) *HarnessResult {
	t.Helper()

	root := t.TempDir()
	projectDir := filepath.Join(root, "etc")
	outDir := filepath.Join(root, "out")
	require.NoError(t, os.Mkdir(projectDir, 0o755))

	for name, content := range files {
		filePath := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		content = strings.ReplaceAll(content, RootPlaceholder, filepath.ToSlash(root))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg := &app.Config{
		ProjectPaths: []string{projectDir},
		EnvFile:      filepath.Join(root, ".env"),
		OutputDir:    outDir,
		LogLevel:     "debug",
		LogFormat:    "text",
		WorkerCount:  4,
		Seed:         -1,
	}
	if _, ok := files[SettingsFile]; ok {
		cfg.SettingsPath = filepath.Join(root, SettingsFile)
	}

	logBuffer := &SafeBuffer{}
	runErr := app.NewApp(logBuffer, cfg, hcl_adapter.NewLoader()).Run(context.Background())

	if os.Getenv("TASKGEN_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	result := &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		OutputDir: outDir,
	}
	raw, err := os.ReadFile(filepath.Join(outDir, emit.ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return result
	}
	require.NoError(t, err)
	result.Graph = &graph.Graph{}
	require.NoError(t, json.Unmarshal(raw, result.Graph))
	return result
}
