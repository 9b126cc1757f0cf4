package graph

import "slices"

// Assemble builds the display group of parent on one variant. It reports
// false when there are no children, since an empty group is rejected by
// the host build system.
func Assemble(parent string, children []string) (DisplayTask, bool) {
	if len(children) == 0 {
		return DisplayTask{}, false
	}
	return DisplayTask{Name: parent, ExecutionTasks: slices.Clone(children)}, true
}
