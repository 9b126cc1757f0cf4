package splitter

import (
	"math"

	"github.com/vk/taskgen/internal/stats"
)

// Policy decides how many sub-suites a suite is split into.
type Policy struct {
	DefaultSubtasks int
	MaxSubtasks     int
	// RuntimePerRequiredSubtask is the target runtime, in seconds, of one
	// sub-suite of a long suite on a required variant.
	RuntimePerRequiredSubtask float64
	// LargeRequiredThreshold is the total runtime, in seconds, above which
	// a suite on a required variant is sized by runtime.
	LargeRequiredThreshold float64
}

// DefaultPolicy returns the stock sizing policy.
func DefaultPolicy() Policy {
	return Policy{
		DefaultSubtasks:           5,
		MaxSubtasks:               10,
		RuntimePerRequiredSubtask: 3600,
		LargeRequiredThreshold:    7200,
	}
}

// Count returns the number of sub-suites for tests. An explicit override
// (a num_tasks variable) wins. Long suites on required variants get one
// sub-suite per RuntimePerRequiredSubtask of history, capped at
// MaxSubtasks.
func (p Policy) Count(tests []string, res stats.Result, required bool, override int) int {
	if override > 0 {
		return override
	}
	n := p.DefaultSubtasks
	if required && res.Usable() && p.RuntimePerRequiredSubtask > 0 {
		total := res.Durations.Total(tests)
		if total > p.LargeRequiredThreshold {
			n = int(math.Ceil(total / p.RuntimePerRequiredSubtask))
		}
	}
	if p.MaxSubtasks > 0 {
		n = min(n, p.MaxSubtasks)
	}
	return max(n, 1)
}
