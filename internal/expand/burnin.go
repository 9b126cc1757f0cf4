package expand

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/taskdef"
)

// Expansions that configure burn-in on the generating variant.
const (
	BurnInTagIncludeExpansion    = "burn_in_tag_include_build_variants"
	BurnInTagIncludeAllExpansion = "burn_in_tag_include_all_required_and_suggested"
	BurnInTagExcludeExpansion    = "burn_in_tag_exclude_build_variants"
	BurnInTagCompileDepExpansion = "burn_in_tag_compile_task_dependency"
	BurnInTaskNameExpansion      = "burn_in_task_name"
	BurnInTaskRepeatExpansion    = "burn_in_task_repeat"
	BurnInTagsVariantSuffix      = "-generated-by-burn-in-tags"
	DefaultBurnInRepeatArgs      = "--repeatTestsSecs=600 --repeatTestsMin=2 --repeatTestsMax=1000"
	burnInTestsPrefix            = "burn_in:"
	burnInTasksPrefix            = "burn_in_tasks:"
)

// Resolver returns the classified definition that runs a task, or nil if
// the project does not define it.
type Resolver func(task string) *taskdef.Definition

// BurnInTests builds one task per (task, suite) group of changed tests.
// Each task runs only its group's tests, repeated per repeatArgs. Groups
// owned by an implicit multiversion task get one task per combination.
func BurnInTests(def *taskdef.Definition, t Target, changed []*config.ChangedTest, resolve Resolver, repeatArgs string, claim Claimer) ([]*graph.Task, error) {
	type group struct {
		task, suite string
		tests       []string
	}
	groups := make(map[string]*group)
	seen := make(map[string]bool)
	for _, c := range changed {
		key := c.Task + "\x00" + c.Suite
		g, ok := groups[key]
		if !ok {
			g = &group{task: c.Task, suite: c.Suite}
			groups[key] = g
		}
		if !seen[key+"\x00"+c.Test] {
			seen[key+"\x00"+c.Test] = true
			g.tests = append(g.tests, c.Test)
		}
	}
	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].task != ordered[j].task {
			return ordered[i].task < ordered[j].task
		}
		return ordered[i].suite < ordered[j].suite
	})

	display := def.BaseName()
	tasks := make([]*graph.Task, 0, len(ordered))
	burnIn := func(name, origin string, params taskdef.Params, tests []string, version string) *graph.Task {
		vars := runVars(params, name, origin, repeatArgs)
		deps := append([]string(nil), t.Dependencies...)
		if version != "" {
			vars[MultiversionVersionVar] = version
			deps = withDependency(deps, taskdef.SelectMultiversionTask)
		}
		return &graph.Task{
			Name:      name,
			Parent:    display,
			DependsOn: deps,
			Distro:    t.Distro,
			Commands:  runTestsCommands(vars, version != ""),
			Suite:     &graph.SuiteFile{Name: name, Origin: origin, Tests: tests},
		}
	}
	for i, g := range ordered {
		params := taskdef.Params{Suite: g.suite}
		origin := resolve(g.task)
		if origin != nil {
			params = origin.Params
		}
		// Implicit multiversion tests burn in under every generated
		// combination, each against its own old version.
		if origin != nil && origin.Mode == taskdef.ImplicitMultiversion && len(params.Combinations) > 0 {
			for _, c := range params.Combinations {
				name := fmt.Sprintf("%s%s_%d-%s%s", burnInTestsPrefix, c.Suite, i, t.Variant, t.Suffix)
				tasks = append(tasks, burnIn(name, c.Suite, params, g.tests, c.Version))
			}
			continue
		}
		name := fmt.Sprintf("%s%s_%d-%s%s", burnInTestsPrefix, taskdef.StripGen(g.task), i, t.Variant, t.Suffix)
		tasks = append(tasks, burnIn(name, g.suite, params, g.tests, ""))
	}

	if err := claimAll(claim, Owner(def.Task.Name, t.Variant), tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// ResolveTagVariants returns the variants burn-in tags replicates onto:
// the include list, plus every required or suggested variant when the
// bulk flag is set, minus the exclude list. The result is sorted by name.
func ResolveTagVariants(project *config.Project, gen *config.Variant) ([]*config.Variant, error) {
	selected := make(map[string]*config.Variant)

	include, _ := gen.Expansion(BurnInTagIncludeExpansion)
	for _, name := range strings.Fields(include) {
		v := project.Variant(name)
		if v == nil {
			return nil, taskdef.Errorf(taskdef.BurnInTagsTask, gen.Name, "burn-in tag variant %q does not exist", name)
		}
		selected[name] = v
	}

	if raw, ok := gen.Expansion(BurnInTagIncludeAllExpansion); ok {
		all, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, &taskdef.ConfigError{Task: taskdef.BurnInTagsTask, Variant: gen.Name, Reason: BurnInTagIncludeAllExpansion + " is not a boolean", Err: err}
		}
		if all {
			for _, v := range project.Variants {
				if v.IsRequired() || v.IsSuggested() {
					selected[v.Name] = v
				}
			}
		}
	}

	exclude, _ := gen.Expansion(BurnInTagExcludeExpansion)
	for _, name := range strings.Fields(exclude) {
		delete(selected, name)
	}
	for name := range selected {
		if strings.HasSuffix(name, BurnInTagsVariantSuffix) {
			delete(selected, name)
		}
	}

	if len(selected) == 0 {
		return nil, taskdef.Errorf(taskdef.BurnInTagsTask, gen.Name, "no build variants resolved for burn-in tags")
	}
	out := make([]*config.Variant, 0, len(selected))
	for _, v := range selected {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// TagVariantName is the name of the variant burn-in tags generates for base.
func TagVariantName(base string) string {
	return base + BurnInTagsVariantSuffix
}

// BurnInTasks replicates the target task repeat times on one variant.
// Every copy runs the full, unsplit test set; fuzzers cannot be burned in
// this way.
func BurnInTasks(def, target *taskdef.Definition, tests []string, repeat int, t Target, repeatArgs string, claim Claimer) ([]*graph.Task, error) {
	if target.Mode == taskdef.Fuzzer {
		return nil, taskdef.Errorf(def.Task.Name, t.Variant, "burn-in target %q is a fuzzer, which cannot be burned in", target.Task.Name)
	}
	if repeat < 1 {
		return nil, taskdef.Errorf(def.Task.Name, t.Variant, "burn-in task repeat must be at least 1, got %d", repeat)
	}

	display := def.BaseName()
	base := target.BaseName()
	suite := target.Params.Suite
	tasks := make([]*graph.Task, 0, repeat)
	for i := 0; i < repeat; i++ {
		name := fmt.Sprintf("%s%s_%d-%s%s", burnInTasksPrefix, base, i, t.Variant, t.Suffix)
		tasks = append(tasks, &graph.Task{
			Name:      name,
			Parent:    display,
			DependsOn: append([]string(nil), t.Dependencies...),
			Distro:    t.Distro,
			Commands:  runTestsCommands(runVars(target.Params, name, suite, repeatArgs), false),
			Suite:     &graph.SuiteFile{Name: name, Origin: suite, Tests: append([]string(nil), tests...)},
		})
	}

	if err := claimAll(claim, Owner(def.Task.Name, t.Variant), tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
