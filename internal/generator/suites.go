package generator

import (
	"context"
	"slices"
	"sync"

	"github.com/vk/taskgen/internal/discovery"
	"golang.org/x/sync/singleflight"
)

// suiteCache memoizes discovery per suite for one run. Concurrent requests
// for the same suite share a single discovery call.
type suiteCache struct {
	source discovery.TestDiscovery
	group  singleflight.Group

	mu    sync.Mutex
	tests map[string][]string
}

func newSuiteCache(source discovery.TestDiscovery) *suiteCache {
	return &suiteCache{source: source, tests: make(map[string][]string)}
}

// Discover returns a copy of the tests of suite.
func (c *suiteCache) Discover(ctx context.Context, suite string) ([]string, error) {
	c.mu.Lock()
	cached, ok := c.tests[suite]
	c.mu.Unlock()
	if ok {
		return slices.Clone(cached), nil
	}

	v, err, _ := c.group.Do(suite, func() (any, error) {
		tests, err := c.source.Discover(ctx, suite)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.tests[suite] = tests
		c.mu.Unlock()
		return tests, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]string)), nil
}
