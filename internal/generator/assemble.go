package generator

import (
	"context"
	"slices"

	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/taskdef"
)

// assemble builds the graph from drained units. Variants follow project
// order, and variants generated by burn-in tags come last.
func (r *run) assemble(ctx context.Context, units []*unit) *graph.Graph {
	logger := ctxlog.FromContext(ctx)
	out := &graph.Graph{}

	byVariant := make(map[string][]*unit)
	var extra []*graph.Variant
	for _, u := range units {
		out.Tasks = append(out.Tasks, u.tasks...)
		out.Tasks = append(out.Tasks, u.extraTasks...)
		out.Setups = append(out.Setups, u.setups...)
		extra = append(extra, u.extra...)
		for _, v := range u.variants {
			byVariant[v.Name] = append(byVariant[v.Name], u)
		}
	}

	for _, v := range r.project.Variants {
		us := byVariant[v.Name]
		if len(us) == 0 {
			continue
		}

		gv := &graph.Variant{Name: v.Name}
		var generators []string
		needsSelect := false
		for _, u := range us {
			generators = append(generators, u.def.Task.Name)
			if len(u.tasks) == 0 {
				if u.def.Mode != taskdef.ExplicitMultiversion && u.def.Mode != taskdef.BurnInTags {
					logger.Debug("No tasks generated, skipping display task.", "task", u.def.Task.Name, "variant", v.Name)
				}
				continue
			}

			var distros []string
			if d := u.distros[v.Name]; d != "" {
				distros = []string{d}
			}
			var parents []string
			children := make(map[string][]string)
			for _, t := range u.tasks {
				gv.Tasks = append(gv.Tasks, graph.TaskRef{Name: t.Name, Distros: distros})
				if _, ok := children[t.Parent]; !ok {
					parents = append(parents, t.Parent)
				}
				children[t.Parent] = append(children[t.Parent], t.Name)
				if slices.Contains(t.DependsOn, taskdef.SelectMultiversionTask) {
					needsSelect = true
				}
			}
			for _, p := range parents {
				if dt, ok := graph.Assemble(p, children[p]); ok {
					gv.DisplayTasks = append(gv.DisplayTasks, dt)
				}
			}
		}

		if needsSelect && !v.HasTask(taskdef.SelectMultiversionTask) {
			gv.Tasks = append(gv.Tasks, graph.TaskRef{Name: taskdef.SelectMultiversionTask})
		}
		if dt, ok := graph.Assemble(taskdef.GeneratorDisplayGroup, generators); ok {
			gv.DisplayTasks = append(gv.DisplayTasks, dt)
		}
		out.Variants = append(out.Variants, gv)
	}

	out.Variants = append(out.Variants, extra...)
	return out
}
