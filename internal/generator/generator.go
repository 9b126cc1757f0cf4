package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/discovery"
	"github.com/vk/taskgen/internal/executor"
	"github.com/vk/taskgen/internal/expand"
	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/registry"
	"github.com/vk/taskgen/internal/stats"
	"github.com/vk/taskgen/internal/taskdef"
)

// projectOwner owns the names of the project's own tasks in the registry.
const projectOwner = "the project configuration"

// StatsSource supplies runtime history. *stats.Lookup implements it.
type StatsSource interface {
	FetchFor(ctx context.Context, task, variant string, tests []string) stats.Result
}

// Deps are the collaborators of a Generator. BurnIn may be nil for
// projects without burn-in generators.
type Deps struct {
	Stats  StatsSource
	Tests  discovery.TestDiscovery
	BurnIn discovery.BurnInDiscovery
}

// Generator produces the generated-task graph of one project.
type Generator struct {
	project  *config.Project
	deps     Deps
	settings Settings
	newID    func() string
}

// New creates a Generator for project p.
func New(p *config.Project, deps Deps, s Settings) (*Generator, error) {
	if p == nil {
		return nil, errors.New("project is required")
	}
	if deps.Stats == nil {
		return nil, errors.New("stats source is required")
	}
	if deps.Tests == nil {
		return nil, errors.New("test discovery is required")
	}
	return &Generator{
		project:  p,
		deps:     deps,
		settings: s,
		newID:    uuid.NewString,
	}, nil
}

// unit is a group of (task, variant) pairs that share generated output.
// The first variant generates; the rest only reference the result.
type unit struct {
	key      string
	def      *taskdef.Definition
	variants []*config.Variant

	tasks   []*graph.Task
	setups  []*graph.Setup
	distros map[string]string
	// extra holds variants generated by burn-in tags together with their
	// tasks, which the unit's own variants do not reference.
	extra      []*graph.Variant
	extraTasks []*graph.Task
}

func (u *unit) required() bool {
	for _, v := range u.variants {
		if v.IsRequired() {
			return true
		}
	}
	return false
}

// run is the state of one Run call.
type run struct {
	*Generator
	defs   map[string]*taskdef.Definition
	reg    *registry.Registry
	suites *suiteCache
}

// Run generates the graph. It returns the first fatal error, after every
// in-flight unit has finished, and no graph in that case.
func (g *Generator) Run(ctx context.Context) (*graph.Graph, error) {
	runID := g.newID()
	ctx = ctxlog.With(ctx, "run_id", runID)
	logger := ctxlog.FromContext(ctx)

	defs, err := classifyAll(ctx, g.project)
	if err != nil {
		return nil, err
	}
	units, err := plan(g.project, defs)
	if err != nil {
		return nil, err
	}

	r := &run{
		Generator: g,
		defs:      defs,
		reg:       registry.New(),
		suites:    newSuiteCache(g.deps.Tests),
	}
	names := make([]string, len(g.project.Tasks))
	for i, t := range g.project.Tasks {
		names[i] = t.Name
	}
	if err := r.reg.ClaimAll(projectOwner, names...); err != nil {
		return nil, err
	}

	jobs := make([]executor.Job, len(units))
	for i, u := range units {
		jobs[i] = executor.Job{
			Name: u.key,
			Run:  func(ctx context.Context) error { return r.process(ctx, u) },
		}
	}
	pool := executor.New(g.settings.Workers)
	logger.Info("Generating tasks.", "units", len(units), "workers", pool.Workers())
	if err := pool.Run(ctx, jobs); err != nil {
		return nil, err
	}

	out := r.assemble(ctx, units)
	out.RunID = runID
	if err := graph.Validate(out, r.base()); err != nil {
		return nil, fmt.Errorf("generated graph is invalid: %w", err)
	}
	logger.Info("Generation finished.", "tasks", len(out.Tasks), "variants", len(out.Variants), "setups", len(out.Setups))
	return out, nil
}

// classifyAll classifies every project task. The first configuration
// error aborts.
func classifyAll(ctx context.Context, p *config.Project) (map[string]*taskdef.Definition, error) {
	logger := ctxlog.FromContext(ctx)
	defs := make(map[string]*taskdef.Definition, len(p.Tasks))
	for _, t := range p.Tasks {
		def, err := taskdef.Classify(t)
		if err != nil {
			return nil, err
		}
		if def.Mode != taskdef.NotGenerated {
			logger.Debug("Classified task.", "task", t.Name, "mode", def.Mode)
		}
		defs[t.Name] = def
	}
	return defs, nil
}

// plan groups the generated (task, variant) pairs into units, in variant
// then task reference order.
func plan(p *config.Project, defs map[string]*taskdef.Definition) ([]*unit, error) {
	byKey := make(map[string]*unit)
	var units []*unit
	for _, v := range p.Variants {
		for _, ref := range v.Tasks {
			def, ok := defs[ref.Name]
			if !ok {
				return nil, taskdef.Errorf(ref.Name, v.Name, "variant references an undefined task")
			}
			if def.Mode == taskdef.NotGenerated {
				continue
			}
			key := unitKey(def, v)
			u, ok := byKey[key]
			if !ok {
				u = &unit{key: key, def: def}
				byKey[key] = u
				units = append(units, u)
			}
			u.variants = append(u.variants, v)
		}
	}
	return units, nil
}

// unitKey decides which pairs share output. Burn-in and explicit
// multiversion output depends on the variant itself; everything else is
// shared by variants with the same platform and unique suffix.
func unitKey(def *taskdef.Definition, v *config.Variant) string {
	switch def.Mode {
	case taskdef.BurnInTests, taskdef.BurnInTags, taskdef.BurnInTasks, taskdef.ExplicitMultiversion:
		return def.Task.Name + "@" + v.Name
	}
	suffix, _ := v.Expansion(expand.UniqueGenSuffixExpansion)
	return expand.Target{Platform: v.PlatformName(), Suffix: suffix}.DedupeKey(def.Task.Name)
}

// base describes the project the generated graph is merged into.
func (r *run) base() graph.Base {
	b := graph.Base{VariantTasks: make(map[string][]string, len(r.project.Variants))}
	for _, t := range r.project.Tasks {
		b.Tasks = append(b.Tasks, t.Name)
	}
	for _, v := range r.project.Variants {
		for _, ref := range v.Tasks {
			b.VariantTasks[v.Name] = append(b.VariantTasks[v.Name], ref.Name)
		}
	}
	return b
}
