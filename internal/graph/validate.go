package graph

import (
	"fmt"

	"github.com/vk/taskgen/internal/dag"
)

// Base describes the existing configuration a graph is merged into.
type Base struct {
	// Tasks are the project's own tasks. Generated tasks may depend on
	// them and variants may reference them.
	Tasks []string
	// VariantTasks lists the tasks each existing variant already runs.
	VariantTasks map[string][]string
}

// Validate checks the structural integrity of g merged into base.
func Validate(g *Graph, base Base) error {
	d := dag.New()
	generated := make(map[string]bool, len(g.Tasks))
	for _, t := range g.Tasks {
		if generated[t.Name] {
			return fmt.Errorf("task %q is generated more than once", t.Name)
		}
		generated[t.Name] = true
		d.AddNode(t.Name)
	}
	for _, name := range base.Tasks {
		d.AddNode(name)
	}

	for _, t := range g.Tasks {
		for _, dep := range t.DependsOn {
			if !d.Has(dep) {
				return fmt.Errorf("task %q depends on unknown task %q", t.Name, dep)
			}
			if err := d.AddEdge(dep, t.Name); err != nil {
				return fmt.Errorf("task %q: %w", t.Name, err)
			}
		}
	}
	if err := d.DetectCycles(); err != nil {
		return err
	}

	for _, v := range g.Variants {
		refs := make(map[string]bool, len(v.Tasks))
		for _, name := range base.VariantTasks[v.Name] {
			refs[name] = true
		}
		for _, ref := range v.Tasks {
			if !d.Has(ref.Name) {
				return fmt.Errorf("variant %q references unknown task %q", v.Name, ref.Name)
			}
			refs[ref.Name] = true
		}
		for _, dt := range v.DisplayTasks {
			for _, child := range dt.ExecutionTasks {
				if !refs[child] {
					return fmt.Errorf("display task %q on variant %q names %q, which the variant does not run", dt.Name, v.Name, child)
				}
			}
		}
	}
	return nil
}
