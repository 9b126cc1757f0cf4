package discovery

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/vk/taskgen/internal/ctxlog"
)

// Command resolves suites by running an external program with the suite
// name appended to Args. Each non-empty stdout line is one test path;
// lines starting with "#" are ignored.
type Command struct {
	Path string
	Args []string
	Dir  string
	// Root, when set, drops tests that do not exist beneath it.
	Root string
}

// Discover runs the command for suite and returns the tests it prints.
func (c *Command) Discover(ctx context.Context, suite string) ([]string, error) {
	args := append(append([]string(nil), c.Args...), suite)
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Dir = c.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	ctxlog.FromContext(ctx).Debug("Running test discovery command", "suite", suite, "command", c.Path)
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("discovery command for suite %q failed: %w", suite, err)
		}
		return nil, fmt.Errorf("discovery command for suite %q failed: %w: %s", suite, err, msg)
	}

	var tests []string
	sc := bufio.NewScanner(&stdout)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tests = append(tests, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read discovery output for suite %q: %w", suite, err)
	}
	return dropMissing(ctx, c.Root, suite, tests)
}
