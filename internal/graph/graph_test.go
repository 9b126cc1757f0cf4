package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGraph() *Graph {
	return &Graph{
		Tasks: []*Task{
			{Name: "jsCore_0-linux", DependsOn: []string{"compile"}},
			{Name: "jsCore_1-linux", DependsOn: []string{"compile"}},
		},
		Variants: []*Variant{{
			Name: "linux",
			Tasks: []TaskRef{
				{Name: "jsCore_0-linux"},
				{Name: "jsCore_1-linux"},
			},
			DisplayTasks: []DisplayTask{
				{Name: "jsCore", ExecutionTasks: []string{"jsCore_0-linux", "jsCore_1-linux"}},
				{Name: "generator_tasks", ExecutionTasks: []string{"jsCore_gen"}},
			},
		}},
	}
}

func TestAssemble(t *testing.T) {
	children := []string{"b", "a"}
	dt, ok := Assemble("jsCore", children)
	require.True(t, ok)
	assert.Equal(t, DisplayTask{Name: "jsCore", ExecutionTasks: []string{"b", "a"}}, dt)

	children[0] = "mutated"
	assert.Equal(t, "b", dt.ExecutionTasks[0])

	_, ok = Assemble("empty", nil)
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	base := Base{
		Tasks:        []string{"compile", "jsCore_gen"},
		VariantTasks: map[string][]string{"linux": {"jsCore_gen"}},
	}

	t.Run("valid graph", func(t *testing.T) {
		assert.NoError(t, Validate(validGraph(), base))
	})

	t.Run("duplicate task", func(t *testing.T) {
		g := validGraph()
		g.Tasks = append(g.Tasks, &Task{Name: "jsCore_0-linux"})
		assert.ErrorContains(t, Validate(g, base), "generated more than once")
	})

	t.Run("unknown dependency", func(t *testing.T) {
		g := validGraph()
		g.Tasks[0].DependsOn = []string{"archive"}
		assert.ErrorContains(t, Validate(g, base), `depends on unknown task "archive"`)
	})

	t.Run("dependency cycle", func(t *testing.T) {
		g := validGraph()
		g.Tasks[0].DependsOn = []string{"jsCore_1-linux"}
		g.Tasks[1].DependsOn = []string{"jsCore_0-linux"}
		assert.ErrorContains(t, Validate(g, base), "cycle detected")
	})

	t.Run("unknown variant reference", func(t *testing.T) {
		g := validGraph()
		g.Variants[0].Tasks = append(g.Variants[0].Tasks, TaskRef{Name: "ghost"})
		assert.ErrorContains(t, Validate(g, base), `references unknown task "ghost"`)
	})

	t.Run("display child not scheduled", func(t *testing.T) {
		g := validGraph()
		g.Variants[0].Tasks = g.Variants[0].Tasks[1:]
		assert.ErrorContains(t, Validate(g, base), "does not run")
	})

	t.Run("display child only in another variant", func(t *testing.T) {
		g := validGraph()
		g.Variants[0].Name = "windows"
		assert.ErrorContains(t, Validate(g, base), `names "jsCore_gen"`)
	})
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Names([]*Task{{Name: "a"}, {Name: "b"}}))
}
