package expand

import (
	"strconv"

	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/splitter"
	"github.com/vk/taskgen/internal/taskdef"
)

// Resmoke builds one task per sub-suite of a runtime-split task. Each task
// runs a generated suite file listing exactly its tests.
func Resmoke(def *taskdef.Definition, t Target, subs []splitter.SubSuite, claim Claimer) ([]*graph.Task, error) {
	display := def.BaseName()
	tasks := make([]*graph.Task, 0, len(subs))
	for _, s := range subs {
		name := SubTaskName(display, s.Index, len(subs), t)
		tasks = append(tasks, &graph.Task{
			Name:      name,
			Parent:    display,
			DependsOn: append([]string(nil), t.Dependencies...),
			Distro:    t.Distro,
			Commands:  runTestsCommands(runVars(def.Params, name, s.Origin), false),
			Suite: &graph.SuiteFile{
				Name:    name,
				Origin:  s.Origin,
				Tests:   s.Tests,
				Runtime: s.Runtime,
			},
		})
	}
	if err := claimAll(claim, Owner(def.Task.Name, t.Variant), tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// runVars builds the variables of "run generated tests" for a task that
// runs a generated suite file.
func runVars(p taskdef.Params, name, origin string, extraArgs ...string) map[string]string {
	vars := p.PassThrough(consumedVars...)
	vars[taskdef.VarSuite] = SuitePath(name)
	vars[taskdef.VarResmokeArgs] = resmokeArgs(origin, append([]string{p.ResmokeArgs}, extraArgs...)...)
	if p.ResmokeJobsMax > 0 {
		vars[taskdef.VarResmokeJobsMax] = strconv.Itoa(p.ResmokeJobsMax)
	}
	return vars
}
