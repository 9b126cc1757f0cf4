package expand

import (
	"maps"
	"path"
	"strings"

	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/taskdef"
)

// GeneratedConfigDir is where generated suite files are written.
const GeneratedConfigDir = "generated_resmoke_config"

// Variables consumed by generation and not forwarded verbatim.
var consumedVars = []string{
	taskdef.VarSuite,
	taskdef.VarNumTasks,
	taskdef.VarResmokeArgs,
	taskdef.VarResmokeJobsMax,
	taskdef.VarUseLargeDistro,
	taskdef.VarUseXLargeDistro,
	taskdef.VarIsFuzzer,
	taskdef.VarIsFuzzerAlias,
}

// MultiversionVersionVar carries the old version a multiversion task
// excludes tests for.
const MultiversionVersionVar = "multiversion_exclude_tags_version"

// SuitePath is the path of the generated suite file for a task.
func SuitePath(taskName string) string {
	return path.Join(GeneratedConfigDir, taskName+".json")
}

// resmokeArgs prefixes args with the origin suite so results are reported
// against the suite the tests came from.
func resmokeArgs(origin string, args ...string) string {
	parts := []string{"--originSuite=" + origin}
	for _, a := range args {
		if a = strings.TrimSpace(a); a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, " ")
}

func setupCommands() []graph.FunctionCall {
	return []graph.FunctionCall{
		{Func: taskdef.SetupFunc},
		{Func: taskdef.APICredentialsFunc},
	}
}

func runTestsCommands(vars map[string]string, multiversion bool) []graph.FunctionCall {
	cmds := setupCommands()
	if multiversion {
		cmds = append(cmds, graph.FunctionCall{Func: taskdef.MultiversionSetupFunc})
	}
	return append(cmds, graph.FunctionCall{Func: taskdef.RunGeneratedTestsFunc, Vars: vars})
}

func fuzzerCommands(vars map[string]string, multiversion bool) []graph.FunctionCall {
	cmds := setupCommands()
	if multiversion {
		cmds = append(cmds, graph.FunctionCall{Func: taskdef.MultiversionSetupFunc})
	}
	return append(cmds,
		graph.FunctionCall{Func: taskdef.SetupFuzzerFunc},
		graph.FunctionCall{Func: taskdef.RunFuzzerFunc, Vars: maps.Clone(vars)},
		graph.FunctionCall{Func: taskdef.RunGeneratedTestsFunc, Vars: maps.Clone(vars)},
	)
}
