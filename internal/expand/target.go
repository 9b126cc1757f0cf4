package expand

import (
	"fmt"
	"math"
	"strings"

	"github.com/vk/taskgen/internal/graph"
	"github.com/vk/taskgen/internal/taskdef"
)

// Expansions read from build variants.
const (
	UniqueGenSuffixExpansion = "unique_gen_suffix"
	LargeDistroExpansion     = "large_distro_name"
	XLargeDistroExpansion    = "xlarge_distro_name"
)

// Target is the variant context an expansion runs in.
type Target struct {
	Variant      string
	Platform     string
	Suffix       string
	Distro       string
	Dependencies []string
	Expansions   map[string]string
}

// NameSuffix is appended to every generated name so the same task on
// different platforms or with different unique suffixes never collides.
func (t Target) NameSuffix() string {
	var b strings.Builder
	if t.Platform != "" {
		b.WriteString("-")
		b.WriteString(t.Platform)
	}
	b.WriteString(t.Suffix)
	return b.String()
}

// DedupeKey identifies the generated output of task on this target. Two
// variants with the same key share one set of generated tasks.
func (t Target) DedupeKey(task string) string {
	return task + t.NameSuffix()
}

// Expand resolves a "${name}" value from the variant's expansions. Other
// values are returned unchanged.
func (t Target) Expand(task, value string) (string, error) {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value, nil
	}
	key := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")
	v, ok := t.Expansions[key]
	if !ok || v == "" {
		return "", taskdef.Errorf(task, t.Variant, "expansion %q is not defined", key)
	}
	return v, nil
}

// SubTaskName names sub-task index of total generated from display. The
// index is zero-padded to the width of the largest index.
func SubTaskName(display string, index, total int, t Target) string {
	width := 0
	if total > 1 {
		width = int(math.Ceil(math.Log10(float64(total))))
	}
	return fmt.Sprintf("%s_%0*d%s", display, width, index, t.NameSuffix())
}

// Claimer records generated names and rejects duplicates.
type Claimer interface {
	ClaimAll(owner string, names ...string) error
}

// Owner identifies the generator of a task in collision reports.
func Owner(task, variant string) string {
	return fmt.Sprintf("%s on %s", task, variant)
}

func claimAll(c Claimer, owner string, tasks []*graph.Task) error {
	return c.ClaimAll(owner, graph.Names(tasks)...)
}

func withDependency(deps []string, extra string) []string {
	out := make([]string, 0, len(deps)+1)
	out = append(out, deps...)
	for _, d := range deps {
		if d == extra {
			return out
		}
	}
	return append(out, extra)
}
