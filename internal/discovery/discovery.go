package discovery

import (
	"context"
	"errors"

	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/fsutil"
)

// ErrUnknownSuite is returned when a suite cannot be resolved.
var ErrUnknownSuite = errors.New("unknown suite")

// TestDiscovery lists the test files a suite runs.
type TestDiscovery interface {
	Discover(ctx context.Context, suite string) ([]string, error)
}

// BurnInDiscovery lists the tests changed on a build variant, each mapped
// to the task and suite that run it.
type BurnInDiscovery interface {
	Changed(ctx context.Context, variant string) ([]*config.ChangedTest, error)
}

// dropMissing removes tests that do not exist under root. An empty root
// disables the check.
func dropMissing(ctx context.Context, root, suite string, tests []string) ([]string, error) {
	if root == "" {
		return tests, nil
	}
	existing, missing, err := fsutil.SplitExisting(root, tests)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		ctxlog.FromContext(ctx).Warn("Dropping tests missing on disk", "suite", suite, "count", len(missing), "first", missing[0])
	}
	return existing, nil
}
