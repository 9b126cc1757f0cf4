package emit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgen/internal/graph"
)

func sampleGraph() *graph.Graph {
	return &graph.Graph{
		RunID: "run-1",
		Tasks: []*graph.Task{
			{
				Name:      "jsCore_0-linux",
				DependsOn: []string{"compile"},
				Commands: []graph.FunctionCall{
					{Func: "do setup"},
					{Func: "run generated tests", Vars: map[string]string{"suite": "generated_resmoke_config/jsCore_0-linux.json"}},
				},
				Suite: &graph.SuiteFile{Name: "jsCore_0-linux", Origin: "core", Tests: []string{"a.js", "b.js"}, Runtime: 12.5},
			},
			{
				Name:     "fuzz_0-linux",
				Commands: []graph.FunctionCall{{Func: "run jstestfuzz", Vars: map[string]string{"num_files": "10"}}},
			},
		},
		Variants: []*graph.Variant{{
			Name:         "linux",
			Tasks:        []graph.TaskRef{{Name: "jsCore_0-linux", Distros: []string{"rhel80-large"}}, {Name: "fuzz_0-linux"}},
			DisplayTasks: []graph.DisplayTask{{Name: "jsCore", ExecutionTasks: []string{"jsCore_0-linux"}}},
		}},
		Setups: []*graph.Setup{{Task: "mv_gen", Variant: "linux", Commands: []graph.FunctionCall{{Func: "do multiversion setup"}}}},
	}
}

func TestJSONEmitter_Emit(t *testing.T) {
	dir := t.TempDir()
	e, err := NewJSONEmitter(dir)
	require.NoError(t, err)

	require.NoError(t, e.Emit(context.Background(), sampleGraph()))

	raw, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Len(t, doc["tasks"], 2)
	assert.Len(t, doc["buildvariants"], 1)
	assert.NotContains(t, string(raw), "origin_suite", "suite files are written separately")

	raw, err = os.ReadFile(filepath.Join(dir, "generated_resmoke_config", "jsCore_0-linux.json"))
	require.NoError(t, err)
	var suite graph.SuiteFile
	require.NoError(t, json.Unmarshal(raw, &suite))
	assert.Equal(t, graph.SuiteFile{Name: "jsCore_0-linux", Origin: "core", Tests: []string{"a.js", "b.js"}, Runtime: 12.5}, suite)

	_, err = os.Stat(filepath.Join(dir, "generated_resmoke_config", "fuzz_0-linux.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestJSONEmitter_EmptyGraph(t *testing.T) {
	e, err := NewJSONEmitter(t.TempDir())
	require.NoError(t, err)

	raw, err := e.Encode(&graph.Graph{RunID: "run-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"run_id":"run-1","tasks":[],"buildvariants":[]}`, string(raw))
}

func TestJSONEmitter_RejectsInvalidGraph(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(g *graph.Graph)
	}{
		{"missing run id", func(g *graph.Graph) { g.RunID = "" }},
		{"task without commands", func(g *graph.Graph) { g.Tasks[1].Commands = nil }},
		{"empty display task", func(g *graph.Graph) { g.Variants[0].DisplayTasks[0].ExecutionTasks = []string{} }},
		{"unnamed task", func(g *graph.Graph) { g.Tasks[0].Name = "" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			e, err := NewJSONEmitter(dir)
			require.NoError(t, err)

			g := sampleGraph()
			tc.mutate(g)
			err = e.Emit(context.Background(), g)
			assert.ErrorContains(t, err, "does not match schema")

			_, statErr := os.Stat(filepath.Join(dir, ConfigFile))
			assert.ErrorIs(t, statErr, os.ErrNotExist, "nothing is written for an invalid graph")
		})
	}
}

func TestNewJSONEmitter_RequiresDir(t *testing.T) {
	_, err := NewJSONEmitter("")
	assert.Error(t, err)
}
