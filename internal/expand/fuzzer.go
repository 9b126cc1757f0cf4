package expand

import (
	"maps"

	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/taskdef"
)

// Fuzzer replicates a fuzzer definition into num_tasks independent tasks,
// each generating num_files test files. Every generate variable except
// num_tasks is forwarded. A definition that also carries multiversion
// combinations yields num_tasks tasks per combination.
func Fuzzer(def *taskdef.Definition, t Target, claim Claimer) ([]*graph.Task, error) {
	p := def.Params
	if p.NumTasks < 1 {
		return nil, taskdef.Errorf(def.Task.Name, t.Variant, "fuzzer %s must be at least 1, got %d", taskdef.VarNumTasks, p.NumTasks)
	}
	numFiles, err := t.Expand(def.Task.Name, p.NumFiles)
	if err != nil {
		return nil, err
	}

	base := p.PassThrough(taskdef.VarNumTasks)
	base[taskdef.VarNumFiles] = numFiles

	display := def.BaseName()
	var tasks []*graph.Task
	build := func(prefix string, vars map[string]string, deps []string, multiversion bool) {
		for i := 0; i < p.NumTasks; i++ {
			tasks = append(tasks, &graph.Task{
				Name:      SubTaskName(prefix, i, p.NumTasks, t),
				Parent:    display,
				DependsOn: deps,
				Distro:    t.Distro,
				Commands:  fuzzerCommands(vars, multiversion),
			})
		}
	}

	if len(p.Combinations) == 0 {
		build(display, base, append([]string(nil), t.Dependencies...), false)
	} else {
		deps := withDependency(t.Dependencies, taskdef.SelectMultiversionTask)
		for _, c := range p.Combinations {
			vars := maps.Clone(base)
			vars[taskdef.VarSuite] = c.Suite
			vars[MultiversionVersionVar] = c.Version
			build(c.Suite, vars, deps, true)
		}
	}

	if err := claimAll(claim, Owner(def.Task.Name, t.Variant), tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
