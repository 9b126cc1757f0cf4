package integration_tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/testutil"
)

const burnInProject = `
task "compile" {}

task "jsCore_gen" {
  func "generate resmoke tasks" {
    vars = { suite = "core" }
  }
}

task "burn_in_tests_gen" {
  func "generate resmoke tasks" {}
}

task "burn_in_tasks_gen" {
  func "generate resmoke tasks" {}
}

task "burn_in_tags_gen" {
  func "generate resmoke tasks" {}
}

suite "core" {
  tests = ["jstests/core/a.js", "jstests/core/b.js"]
}

variant "linux" {
  display_name = "! Linux"
  run_on       = ["rhel80"]
  expansions = {
    burn_in_task_name   = "jsCore"
    burn_in_task_repeat = 2
  }

  task "burn_in_tests_gen" {}
  task "burn_in_tasks_gen" {}
}

variant "tagger" {
  display_name = "Burn-in tags"
  run_on       = ["rhel80"]
  expansions = {
    burn_in_tag_include_build_variants  = "linux"
    burn_in_tag_compile_task_dependency = "compile"
  }

  task "burn_in_tags_gen" {}
}
`

func TestBurnIn_AllModesFromChangedTests(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	files := map[string]string{
		"etc/project.hcl": burnInProject,
		"etc/changes.hcl": `
changed_test "jstests/core/a.js" {
  suite = "core"
  task  = "jsCore"
}
`,
		testutil.SettingsFile: "generator {\n  default_dependency = \"compile\"\n}\n",
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err, result.LogOutput)
	out := result.Graph

	assert.Equal(t, []string{
		"burn_in:jsCore_0-linux",
		"burn_in_tasks:jsCore_0-linux",
		"burn_in_tasks:jsCore_1-linux",
		"burn_in:jsCore_0-linux-generated-by-burn-in-tags",
	}, graph.Names(out.Tasks))
	assert.Equal(t, []string{"jstests/core/a.js"}, result.Suite(t, "burn_in:jsCore_0-linux").Tests)
	assert.Equal(t, []string{"jstests/core/a.js", "jstests/core/b.js"}, result.Suite(t, "burn_in_tasks:jsCore_1-linux").Tests)

	require.Len(t, out.Variants, 3)
	assert.Equal(t, []string{"linux", "tagger", "linux-generated-by-burn-in-tags"},
		[]string{out.Variants[0].Name, out.Variants[1].Name, out.Variants[2].Name})

	tagged := out.Variants[2]
	assert.Equal(t, "! Linux (burn-in tags)", tagged.DisplayName)
	assert.Equal(t, []string{"rhel80"}, tagged.RunOn)
	assert.Equal(t, []graph.TaskRef{{Name: "burn_in:jsCore_0-linux-generated-by-burn-in-tags"}}, tagged.Tasks)
}

func TestBurnIn_NoChangedTests(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Without changes there is nothing to burn in, except whole tasks.
	files := map[string]string{
		"etc/project.hcl":     burnInProject,
		testutil.SettingsFile: "generator {\n  default_dependency = \"compile\"\n}\n",
	}

	// --- Act ---
	result := testutil.RunIntegrationTest(t, files)

	// --- Assert ---
	require.NoError(t, result.Err, result.LogOutput)
	assert.Equal(t, []string{
		"burn_in_tasks:jsCore_0-linux",
		"burn_in_tasks:jsCore_1-linux",
	}, graph.Names(result.Graph.Tasks))
	assert.Len(t, result.Graph.Variants, 2, "no burn-in tags variant without changed tests")
}
