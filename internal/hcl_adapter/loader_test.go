package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgen/internal/config"
)

func writeHCL(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeHCL(t, dir, "tasks.hcl", `
task "jsCore_gen" {
  tags       = ["core"]
  depends_on = ["version_gen"]

  func "generate resmoke tasks" {
    vars = {
      suite       = "core"
      num_tasks   = 3
      use_large   = true
      resmoke_arg = "--storageEngine=$${engine}"
    }
  }
  func "do setup" {}
}
`)
	writeHCL(t, dir, "nested/variants.hcl", `
variant "enterprise-rhel-80" {
  run_on   = ["rhel80-small"]
  platform = "linux"
  expansions = {
    unique_gen_suffix = "-ent"
    large_distro_name = "rhel80-large"
  }

  task "jsCore_gen" {
    distros = ["rhel80-xlarge"]
  }
}

suite "core" {
  tests = ["jstests/core/a.js"]
}

changed_test "jstests/core/a.js" {
  suite = "core"
  task  = "jsCore"
}
`)
	writeHCL(t, dir, "README.md", "not hcl")

	project, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "absent"))
	require.NoError(t, err)

	want := &config.Project{
		Tasks: []*config.Task{{
			Name:      "jsCore_gen",
			Tags:      []string{"core"},
			DependsOn: []string{"version_gen"},
			Commands: []*config.FunctionCall{
				{Func: "generate resmoke tasks", Vars: map[string]string{
					"suite":       "core",
					"num_tasks":   "3",
					"use_large":   "true",
					"resmoke_arg": "--storageEngine=${engine}",
				}},
				{Func: "do setup", Vars: map[string]string{}},
			},
		}},
		Variants: []*config.Variant{{
			Name:        "enterprise-rhel-80",
			DisplayName: "enterprise-rhel-80",
			RunOn:       []string{"rhel80-small"},
			Platform:    "linux",
			Expansions:  map[string]string{"unique_gen_suffix": "-ent", "large_distro_name": "rhel80-large"},
			Tasks:       []*config.TaskRef{{Name: "jsCore_gen", Distros: []string{"rhel80-xlarge"}}},
		}},
		Suites:       map[string]*config.Suite{"core": {Name: "core", Tests: []string{"jstests/core/a.js"}}},
		ChangedTests: []*config.ChangedTest{{Test: "jstests/core/a.js", Suite: "core", Task: "jsCore"}},
	}
	if diff := cmp.Diff(want, project); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "no hcl files",
			files:   map[string]string{"notes.txt": "x"},
			wantErr: "no .hcl files found",
		},
		{
			name:    "duplicate variant",
			files:   map[string]string{"a.hcl": `variant "linux" {}`, "b.hcl": `variant "linux" {}`},
			wantErr: `variant "linux"`,
		},
		{
			name:    "nested vars",
			files:   map[string]string{"a.hcl": "task \"t\" {\n  func \"f\" {\n    vars = { x = [\"a\"] }\n  }\n}\n"},
			wantErr: "vars.x must be a string",
		},
		{
			name:    "expansions not an object",
			files:   map[string]string{"a.hcl": `variant "linux" { expansions = "x" }`},
			wantErr: "expansions must be an object",
		},
		{
			name:    "unknown block",
			files:   map[string]string{"a.hcl": `step "x" "y" {}`},
			wantErr: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, content := range tc.files {
				writeHCL(t, dir, name, content)
			}
			_, err := NewLoader().Load(context.Background(), dir)
			if tc.wantErr == "" {
				assert.NoError(t, err, "unknown top-level blocks are ignored")
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
