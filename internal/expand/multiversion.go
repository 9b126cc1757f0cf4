package expand

import (
	"context"
	"fmt"

	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/splitter"
	"github.com/vk/taskgen/internal/taskdef"
)

// MultiversionOptions controls splitting of large multiversion suites.
type MultiversionOptions struct {
	// SplitThreshold is the test count above which a combination's suite is
	// runtime-split. Zero disables splitting.
	SplitThreshold int
	// Tests resolves the tests of a suite. Only called when splitting is
	// enabled.
	Tests func(ctx context.Context, suite string) ([]string, error)
	// Split partitions a suite's tests. Only called for suites above the
	// threshold.
	Split func(ctx context.Context, suite string, tests []string) ([]splitter.SubSuite, error)
}

// Multiversion expands an implicit multiversion definition into one task
// per suite/version combination, or one task per sub-suite when the
// combination's suite is large. Names are claimed as they are produced, so
// a combination whose name is already taken aborts the expansion with a
// collision error.
func Multiversion(ctx context.Context, def *taskdef.Definition, t Target, opts MultiversionOptions, claim Claimer) ([]*graph.Task, error) {
	if len(def.Params.Combinations) == 0 {
		return nil, taskdef.Errorf(def.Task.Name, t.Variant, "multiversion task has no suite/version combinations")
	}

	owner := Owner(def.Task.Name, t.Variant)
	display := def.BaseName()
	deps := withDependency(t.Dependencies, taskdef.SelectMultiversionTask)

	var tasks []*graph.Task
	for _, c := range def.Params.Combinations {
		subs, err := splitCombination(ctx, c, opts)
		if err != nil {
			return nil, fmt.Errorf("multiversion suite %q of %s: %w", c.Suite, owner, err)
		}

		var produced []*graph.Task
		if len(subs) == 0 {
			vars := def.Params.PassThrough(consumedVars...)
			vars[taskdef.VarSuite] = c.Suite
			vars[taskdef.VarResmokeArgs] = resmokeArgs(c.Suite, def.Params.ResmokeArgs)
			vars[MultiversionVersionVar] = c.Version
			produced = append(produced, &graph.Task{
				Name:      c.Suite + t.NameSuffix(),
				Parent:    display,
				DependsOn: deps,
				Distro:    t.Distro,
				Commands:  runTestsCommands(vars, true),
			})
		} else {
			for _, s := range subs {
				name := SubTaskName(c.Suite, s.Index, len(subs), t)
				vars := runVars(def.Params, name, c.Suite)
				vars[MultiversionVersionVar] = c.Version
				produced = append(produced, &graph.Task{
					Name:      name,
					Parent:    display,
					DependsOn: deps,
					Distro:    t.Distro,
					Commands:  runTestsCommands(vars, true),
					Suite: &graph.SuiteFile{
						Name:    name,
						Origin:  c.Suite,
						Tests:   s.Tests,
						Runtime: s.Runtime,
					},
				})
			}
		}

		if err := claimAll(claim, owner, produced); err != nil {
			return nil, err
		}
		tasks = append(tasks, produced...)
	}
	return tasks, nil
}

func splitCombination(ctx context.Context, c taskdef.Combination, opts MultiversionOptions) ([]splitter.SubSuite, error) {
	if opts.SplitThreshold <= 0 || opts.Tests == nil || opts.Split == nil {
		return nil, nil
	}
	tests, err := opts.Tests(ctx, c.Suite)
	if err != nil {
		return nil, err
	}
	if len(tests) <= opts.SplitThreshold {
		return nil, nil
	}
	return opts.Split(ctx, c.Suite, tests)
}

// ExplicitSetup attaches the multiversion setup steps to a task that is
// not expanded.
func ExplicitSetup(def *taskdef.Definition, t Target) *graph.Setup {
	return &graph.Setup{
		Task:     def.Task.Name,
		Variant:  t.Variant,
		Commands: []graph.FunctionCall{{Func: taskdef.MultiversionSetupFunc}},
	}
}
