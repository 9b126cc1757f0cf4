package discovery

import (
	"context"
	"fmt"

	"github.com/vk/taskgen/internal/config"
)

// Static resolves suites and changed tests from the project configuration.
type Static struct {
	project *config.Project
	root    string
}

// NewStatic creates a Static adapter over p. When root is non-empty, tests
// are checked against the file system relative to it.
func NewStatic(p *config.Project, root string) *Static {
	return &Static{project: p, root: root}
}

// Discover returns the tests declared for suite, in declaration order.
func (s *Static) Discover(ctx context.Context, suite string) ([]string, error) {
	decl, ok := s.project.Suites[suite]
	if !ok {
		return nil, fmt.Errorf("suite %q: %w", suite, ErrUnknownSuite)
	}
	tests, err := dropMissing(ctx, s.root, suite, append([]string(nil), decl.Tests...))
	if err != nil {
		return nil, fmt.Errorf("failed to check tests of suite %q: %w", suite, err)
	}
	return tests, nil
}

// Changed returns the changed tests declared for variant. Entries without a
// variant apply to every variant.
func (s *Static) Changed(ctx context.Context, variant string) ([]*config.ChangedTest, error) {
	var out []*config.ChangedTest
	for _, c := range s.project.ChangedTests {
		if c.Variant != "" && c.Variant != variant {
			continue
		}
		if s.root != "" {
			kept, err := dropMissing(ctx, s.root, c.Suite, []string{c.Test})
			if err != nil {
				return nil, fmt.Errorf("failed to check changed test %q: %w", c.Test, err)
			}
			if len(kept) == 0 {
				continue
			}
		}
		cp := *c
		cp.Variant = variant
		out = append(out, &cp)
	}
	return out, nil
}
