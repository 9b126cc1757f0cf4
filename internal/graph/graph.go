package graph

// Graph is the complete result of a generation run.
type Graph struct {
	RunID    string     `json:"run_id"`
	Tasks    []*Task    `json:"tasks"`
	Variants []*Variant `json:"buildvariants"`
	Setups   []*Setup   `json:"setups,omitempty"`
}

// FunctionCall is one command of a generated task.
type FunctionCall struct {
	Func string            `json:"func"`
	Vars map[string]string `json:"vars,omitempty"`
}

// Task is one generated, independently schedulable task.
type Task struct {
	Name      string         `json:"name"`
	DependsOn []string       `json:"depends_on,omitempty"`
	Commands  []FunctionCall `json:"commands"`

	// Parent is the display name the task is grouped under.
	Parent string `json:"-"`
	// Distro overrides the variant's default distro when set.
	Distro string `json:"-"`
	// Suite is the resmoke suite file the task runs, if any.
	Suite *SuiteFile `json:"-"`
}

// SuiteFile is a generated resmoke suite: the tests one sub-task runs.
type SuiteFile struct {
	Name    string   `json:"name"`
	Origin  string   `json:"origin_suite"`
	Tests   []string `json:"tests"`
	Runtime float64  `json:"estimated_runtime_secs"`
}

// Variant is a build variant as it appears in the generated output.
type Variant struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"display_name,omitempty"`
	RunOn        []string          `json:"run_on,omitempty"`
	Expansions   map[string]string `json:"expansions,omitempty"`
	Tasks        []TaskRef         `json:"tasks,omitempty"`
	DisplayTasks []DisplayTask     `json:"display_tasks,omitempty"`
}

// TaskRef schedules a task on a variant.
type TaskRef struct {
	Name    string   `json:"name"`
	Distros []string `json:"distros,omitempty"`
}

// DisplayTask groups the tasks generated from one parent on one variant.
type DisplayTask struct {
	Name           string   `json:"name"`
	ExecutionTasks []string `json:"execution_tasks"`
}

// Setup attaches extra commands to an existing, unexpanded task.
type Setup struct {
	Task     string         `json:"task"`
	Variant  string         `json:"variant"`
	Commands []FunctionCall `json:"commands"`
}

// Names returns the names of tasks in order.
func Names(tasks []*Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}
