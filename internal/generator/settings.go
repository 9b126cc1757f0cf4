package generator

import (
	"github.com/vk/taskgen/internal/expand"
	"github.com/vk/taskgen/internal/splitter"
)

// Settings tunes a generation run.
type Settings struct {
	// Seed makes shuffles reproducible. Equal seeds on equal inputs produce
	// equal graphs.
	Seed    uint64
	Workers int
	Policy  splitter.Policy

	// MultiversionSplitThreshold is the test count above which a
	// multiversion suite is runtime-split. Zero disables splitting.
	MultiversionSplitThreshold int

	BurnInRepeatArgs string
	BurnInTaskRepeat int

	// LargeDistroExceptions lists variants that run large-distro tasks on
	// their default distro instead of failing.
	LargeDistroExceptions []string

	// GeneratingTask is the task that runs the generator itself. It is
	// removed from the dependencies of generated tasks.
	GeneratingTask string
	// DefaultDependency is used when a task has no other dependencies.
	DefaultDependency string
}

// DefaultSettings returns the stock settings.
func DefaultSettings() Settings {
	return Settings{
		Seed:                       1,
		Workers:                    4,
		Policy:                     splitter.DefaultPolicy(),
		MultiversionSplitThreshold: 0,
		BurnInRepeatArgs:           expand.DefaultBurnInRepeatArgs,
		BurnInTaskRepeat:           10,
		GeneratingTask:             "version_gen",
		DefaultDependency:          "archive_dist_test_debug",
	}
}
