package taskdef

// Mode is the generation strategy selected for a task definition.
type Mode int

const (
	NotGenerated Mode = iota
	Fuzzer
	RuntimeSplit
	ExplicitMultiversion
	ImplicitMultiversion
	BurnInTests
	BurnInTags
	BurnInTasks
)

var modeNames = map[Mode]string{
	NotGenerated:         "not_generated",
	Fuzzer:               "fuzzer",
	RuntimeSplit:         "runtime_split",
	ExplicitMultiversion: "explicit_multiversion",
	ImplicitMultiversion: "implicit_multiversion",
	BurnInTests:          "burn_in_tests",
	BurnInTags:           "burn_in_tags",
	BurnInTasks:          "burn_in_tasks",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// IsBurnIn reports whether the mode is one of the burn-in strategies.
func (m Mode) IsBurnIn() bool {
	return m == BurnInTests || m == BurnInTags || m == BurnInTasks
}
