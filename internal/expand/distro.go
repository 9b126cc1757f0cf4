package expand

import (
	"slices"

	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/taskdef"
)

// ResolveDistro returns the distro override requested by a task's
// use_large_distro or use_xlarge_distro flag on variant v. A variant that
// lacks the matching expansion is an error unless it is listed in
// exceptions, in which case the task runs on the default distro.
func ResolveDistro(def *taskdef.Definition, v *config.Variant, exceptions []string) (string, error) {
	var expansion string
	switch {
	case def.Params.UseXLargeDistro:
		expansion = XLargeDistroExpansion
	case def.Params.UseLargeDistro:
		expansion = LargeDistroExpansion
	default:
		return "", nil
	}

	if distro, ok := v.Expansion(expansion); ok {
		return distro, nil
	}
	if slices.Contains(exceptions, v.Name) {
		return "", nil
	}
	return "", taskdef.Errorf(def.Task.Name, v.Name,
		"requests a large distro but the variant defines no %q expansion and is not listed as an exception", expansion)
}
