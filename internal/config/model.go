package config

import (
	"slices"
	"strings"
)

// Project is the unified representation of a project configuration file.
type Project struct {
	Tasks        []*Task
	Variants     []*Variant
	Suites       map[string]*Suite
	ChangedTests []*ChangedTest
}

// Task is a task definition: a name, tags, the function calls it makes and
// the tasks it depends on.
type Task struct {
	Name      string
	Tags      []string
	Commands  []*FunctionCall
	DependsOn []string
}

// FunctionCall is one invocation of a named command function with its
// variables rendered as strings.
type FunctionCall struct {
	Func string
	Vars map[string]string
}

// Variant is a build variant: the tasks it runs and its expansions.
type Variant struct {
	Name        string
	DisplayName string
	RunOn       []string
	Platform    string
	Expansions  map[string]string
	Tasks       []*TaskRef
}

// TaskRef is a reference from a variant to a task, with an optional
// distro override.
type TaskRef struct {
	Name    string
	Distros []string
}

// Suite is a declared test suite and the test files it runs.
type Suite struct {
	Name  string
	Tests []string
}

// ChangedTest maps a changed test file to the suite and task that run it
// on one build variant.
type ChangedTest struct {
	Test    string
	Suite   string
	Task    string
	Variant string
}

// Task returns the task definition with the given name, or nil.
func (p *Project) Task(name string) *Task {
	for _, t := range p.Tasks {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Variant returns the build variant with the given name, or nil.
func (p *Project) Variant(name string) *Variant {
	for _, v := range p.Variants {
		if v.Name == name {
			return v
		}
	}
	return nil
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	return slices.Contains(t.Tags, tag)
}

// FindFunc returns the first call of the named function, or nil if the task
// never invokes it.
func (t *Task) FindFunc(name string) *FunctionCall {
	for _, c := range t.Commands {
		if c.Func == name {
			return c
		}
	}
	return nil
}

// Expansion returns the value of the named expansion and whether it is set
// to a non-empty value.
func (v *Variant) Expansion(name string) (string, bool) {
	val, ok := v.Expansions[name]
	if !ok || strings.TrimSpace(val) == "" {
		return "", false
	}
	return val, true
}

// IsRequired reports whether the variant is marked required. Required
// variants have display names starting with "!".
func (v *Variant) IsRequired() bool {
	return strings.HasPrefix(v.DisplayName, "!")
}

// IsSuggested reports whether the variant is marked suggested. Suggested
// variants have display names starting with "*".
func (v *Variant) IsSuggested() bool {
	return strings.HasPrefix(v.DisplayName, "*")
}

// HasTask reports whether the variant references the named task.
func (v *Variant) HasTask(name string) bool {
	for _, ref := range v.Tasks {
		if ref.Name == name {
			return true
		}
	}
	return false
}

// TaskRef returns the variant's reference to the named task, or nil.
func (v *Variant) TaskRef(name string) *TaskRef {
	for _, ref := range v.Tasks {
		if ref.Name == name {
			return ref
		}
	}
	return nil
}

// PlatformName returns the declared platform, or one inferred from the
// first run_on distro. It returns "" when neither yields an answer.
func (v *Variant) PlatformName() string {
	if v.Platform != "" {
		return v.Platform
	}
	if len(v.RunOn) == 0 {
		return ""
	}
	distro := strings.ToLower(v.RunOn[0])
	switch {
	case strings.Contains(distro, "windows"):
		return "windows"
	case strings.Contains(distro, "macos"):
		return "macos"
	case strings.Contains(distro, "rhel"),
		strings.Contains(distro, "ubuntu"),
		strings.Contains(distro, "amazon"),
		strings.Contains(distro, "debian"),
		strings.Contains(distro, "suse"),
		strings.Contains(distro, "linux"):
		return "linux"
	}
	return ""
}
