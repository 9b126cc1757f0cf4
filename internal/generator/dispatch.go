package generator

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/expand"
	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/splitter"
	"github.com/vk/taskgen/internal/taskdef"
)

// process expands one unit on its generating variant.
func (r *run) process(ctx context.Context, u *unit) error {
	def := u.def
	v := u.variants[0]
	ctx = ctxlog.With(ctx, "task", def.Task.Name, "variant", v.Name, "mode", def.Mode)
	logger := ctxlog.FromContext(ctx)

	u.distros = make(map[string]string, len(u.variants))
	for _, rv := range u.variants {
		d, err := expand.ResolveDistro(def, rv, r.settings.LargeDistroExceptions)
		if err != nil {
			return err
		}
		u.distros[rv.Name] = d
	}
	t := r.target(def, v, u.distros[v.Name])

	var err error
	switch def.Mode {
	case taskdef.RuntimeSplit:
		u.tasks, err = r.runtimeSplit(ctx, u, t)
	case taskdef.Fuzzer:
		u.tasks, err = expand.Fuzzer(def, t, r.reg)
	case taskdef.ImplicitMultiversion:
		u.tasks, err = expand.Multiversion(ctx, def, t, r.multiversionOptions(u), r.reg)
	case taskdef.ExplicitMultiversion:
		u.setups = []*graph.Setup{expand.ExplicitSetup(def, t)}
	case taskdef.BurnInTests:
		u.tasks, err = r.burnInTests(ctx, def, t, v.Name)
	case taskdef.BurnInTags:
		u.extra, u.extraTasks, err = r.burnInTags(ctx, def, v)
	case taskdef.BurnInTasks:
		u.tasks, err = r.burnInTasks(ctx, def, v, t)
	default:
		err = fmt.Errorf("task %q: unhandled generation mode %s", def.Task.Name, def.Mode)
	}
	if err != nil {
		return err
	}

	logger.Info("Generated tasks.",
		"sub_tasks", len(u.tasks)+len(u.extraTasks),
		"shared_with", len(u.variants)-1,
	)
	return nil
}

// target builds the expansion context of def on v.
func (r *run) target(def *taskdef.Definition, v *config.Variant, distro string) expand.Target {
	suffix, _ := v.Expansion(expand.UniqueGenSuffixExpansion)
	return expand.Target{
		Variant:      v.Name,
		Platform:     v.PlatformName(),
		Suffix:       suffix,
		Distro:       distro,
		Dependencies: r.dependencies(def.Task),
		Expansions:   v.Expansions,
	}
}

// dependencies are the task's own dependencies without the generating
// task, or the default dependency when none remain.
func (r *run) dependencies(t *config.Task) []string {
	var deps []string
	for _, d := range t.DependsOn {
		if d != r.settings.GeneratingTask {
			deps = append(deps, d)
		}
	}
	if len(deps) == 0 && r.settings.DefaultDependency != "" {
		deps = []string{r.settings.DefaultDependency}
	}
	return deps
}

// resolve returns the definition that runs task, trying the generator
// name when task itself is not defined.
func (r *run) resolve(task string) *taskdef.Definition {
	if def, ok := r.defs[task]; ok {
		return def
	}
	return r.defs[task+"_gen"]
}

// splitSuite sizes and splits tests using history recorded under statsTask.
func (r *run) splitSuite(ctx context.Context, u *unit, statsTask, suite string, tests []string, override int) ([]splitter.SubSuite, error) {
	v := u.variants[0]
	res := r.deps.Stats.FetchFor(ctx, statsTask, v.Name, tests)
	n := r.settings.Policy.Count(tests, res, u.required(), override)
	rng := splitter.NewRand(r.settings.Seed, statsTask, v.Name)
	return splitter.Split(ctx, splitter.Input{Suite: suite, Tests: tests, Count: n, Stats: res}, rng)
}

func (r *run) runtimeSplit(ctx context.Context, u *unit, t expand.Target) ([]*graph.Task, error) {
	def := u.def
	suite := def.Params.Suite
	tests, err := r.suites.Discover(ctx, suite)
	if err != nil {
		return nil, fmt.Errorf("failed to discover tests of suite %q for %s: %w", suite, expand.Owner(def.Task.Name, t.Variant), err)
	}
	if len(tests) == 0 {
		ctxlog.FromContext(ctx).Warn("Suite has no tests, nothing to generate.", "suite", suite)
	}
	subs, err := r.splitSuite(ctx, u, def.BaseName(), suite, tests, def.Params.NumTasks)
	if err != nil {
		return nil, fmt.Errorf("failed to split suite %q for %s: %w", suite, expand.Owner(def.Task.Name, t.Variant), err)
	}
	return expand.Resmoke(def, t, subs, r.reg)
}

func (r *run) multiversionOptions(u *unit) expand.MultiversionOptions {
	return expand.MultiversionOptions{
		SplitThreshold: r.settings.MultiversionSplitThreshold,
		Tests:          r.suites.Discover,
		Split: func(ctx context.Context, suite string, tests []string) ([]splitter.SubSuite, error) {
			return r.splitSuite(ctx, u, suite, suite, tests, 0)
		},
	}
}

func (r *run) changed(ctx context.Context, def *taskdef.Definition, variant string) ([]*config.ChangedTest, error) {
	if r.deps.BurnIn == nil {
		return nil, taskdef.Errorf(def.Task.Name, variant, "burn-in generation requires changed-test discovery")
	}
	changed, err := r.deps.BurnIn.Changed(ctx, variant)
	if err != nil {
		return nil, fmt.Errorf("failed to discover changed tests for %s: %w", expand.Owner(def.Task.Name, variant), err)
	}
	return changed, nil
}

func (r *run) burnInTests(ctx context.Context, def *taskdef.Definition, t expand.Target, variant string) ([]*graph.Task, error) {
	changed, err := r.changed(ctx, def, variant)
	if err != nil {
		return nil, err
	}
	return expand.BurnInTests(def, t, changed, r.resolve, r.settings.BurnInRepeatArgs, r.reg)
}

// burnInTags generates a burn-in variant for every variant resolved from
// gen's expansions.
func (r *run) burnInTags(ctx context.Context, def *taskdef.Definition, gen *config.Variant) ([]*graph.Variant, []*graph.Task, error) {
	bases, err := expand.ResolveTagVariants(r.project, gen)
	if err != nil {
		return nil, nil, err
	}
	compile, ok := gen.Expansion(expand.BurnInTagCompileDepExpansion)
	if !ok {
		return nil, nil, taskdef.Errorf(def.Task.Name, gen.Name, "burn-in tags requires the %q expansion", expand.BurnInTagCompileDepExpansion)
	}

	logger := ctxlog.FromContext(ctx)
	var variants []*graph.Variant
	var tasks []*graph.Task
	for _, b := range bases {
		changed, err := r.changed(ctx, def, b.Name)
		if err != nil {
			return nil, nil, err
		}
		if len(changed) == 0 {
			logger.Debug("No changed tests on burn-in tag variant, skipping.", "base_variant", b.Name)
			continue
		}

		name := expand.TagVariantName(b.Name)
		suffix, _ := b.Expansion(expand.UniqueGenSuffixExpansion)
		t := expand.Target{
			Variant:      name,
			Platform:     b.PlatformName(),
			Suffix:       suffix,
			Dependencies: []string{compile},
			Expansions:   b.Expansions,
		}
		generated, err := expand.BurnInTests(def, t, changed, r.resolve, r.settings.BurnInRepeatArgs, r.reg)
		if err != nil {
			return nil, nil, err
		}

		gv := &graph.Variant{
			Name:        name,
			DisplayName: b.DisplayName + " (burn-in tags)",
			RunOn:       slices.Clone(b.RunOn),
			Expansions:  maps.Clone(b.Expansions),
		}
		needsSelect := false
		for _, task := range generated {
			gv.Tasks = append(gv.Tasks, graph.TaskRef{Name: task.Name})
			needsSelect = needsSelect || slices.Contains(task.DependsOn, taskdef.SelectMultiversionTask)
		}
		if needsSelect {
			gv.Tasks = append(gv.Tasks, graph.TaskRef{Name: taskdef.SelectMultiversionTask})
		}
		if dt, ok := graph.Assemble(def.BaseName(), graph.Names(generated)); ok {
			gv.DisplayTasks = append(gv.DisplayTasks, dt)
		}
		variants = append(variants, gv)
		tasks = append(tasks, generated...)
	}
	return variants, tasks, nil
}

func (r *run) burnInTasks(ctx context.Context, def *taskdef.Definition, v *config.Variant, t expand.Target) ([]*graph.Task, error) {
	name, ok := v.Expansion(expand.BurnInTaskNameExpansion)
	if !ok {
		return nil, taskdef.Errorf(def.Task.Name, v.Name, "burn-in tasks requires the %q expansion", expand.BurnInTaskNameExpansion)
	}
	target := r.resolve(name)
	if target == nil || target.Mode == taskdef.NotGenerated {
		return nil, taskdef.Errorf(def.Task.Name, v.Name, "burn-in target %q is not a generated task", name)
	}

	repeat := r.settings.BurnInTaskRepeat
	if raw, ok := v.Expansion(expand.BurnInTaskRepeatExpansion); ok {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, &taskdef.ConfigError{Task: def.Task.Name, Variant: v.Name, Reason: expand.BurnInTaskRepeatExpansion + " is not an integer", Err: err}
		}
		repeat = n
	}

	var tests []string
	if target.Mode != taskdef.Fuzzer {
		if target.Params.Suite == "" {
			return nil, taskdef.Errorf(def.Task.Name, v.Name, "burn-in target %q has no single suite to run", name)
		}
		var err error
		if tests, err = r.suites.Discover(ctx, target.Params.Suite); err != nil {
			return nil, fmt.Errorf("failed to discover tests of suite %q for %s: %w", target.Params.Suite, expand.Owner(def.Task.Name, v.Name), err)
		}
	}
	return expand.BurnInTasks(def, target, tests, repeat, t, r.settings.BurnInRepeatArgs, r.reg)
}
