package hcl_adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/taskgen/internal/config"
	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/fsutil"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL project loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file under the given paths and merges their
// blocks into one project. Task and variant names must be unique across
// all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	project := &config.Project{
		Suites: make(map[string]*config.Suite),
	}

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	if len(hclFiles) == 0 {
		return nil, fmt.Errorf("no .hcl files found in %v", paths)
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	parser := hclparse.NewParser()
	seenTasks := make(map[string]string)
	seenVariants := make(map[string]string)

	for _, file := range hclFiles {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		for _, tb := range root.Tasks {
			if prev, ok := seenTasks[tb.Name]; ok {
				return nil, fmt.Errorf("task %q in %s is already defined in %s", tb.Name, file, prev)
			}
			seenTasks[tb.Name] = file
			task, err := l.translateTask(ctx, tb)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			project.Tasks = append(project.Tasks, task)
		}
		for _, vb := range root.Variants {
			if prev, ok := seenVariants[vb.Name]; ok {
				return nil, fmt.Errorf("variant %q in %s is already defined in %s", vb.Name, file, prev)
			}
			seenVariants[vb.Name] = file
			variant, err := l.translateVariant(ctx, vb)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", file, err)
			}
			project.Variants = append(project.Variants, variant)
		}
		for _, sb := range root.Suites {
			project.Suites[sb.Name] = &config.Suite{Name: sb.Name, Tests: sb.Tests}
		}
		for _, cb := range root.Changed {
			project.ChangedTests = append(project.ChangedTests, &config.ChangedTest{
				Test:    cb.Test,
				Suite:   cb.Suite,
				Task:    cb.Task,
				Variant: cb.Variant,
			})
		}
	}

	logger.Debug("HCL loading complete.",
		"tasks", len(project.Tasks),
		"variants", len(project.Variants),
		"suites", len(project.Suites),
		"changed_tests", len(project.ChangedTests),
	)
	return project, nil
}

// translateTask converts the HCL task schema into the agnostic model.
func (l *Loader) translateTask(ctx context.Context, tb *taskBlock) (*config.Task, error) {
	task := &config.Task{
		Name:      tb.Name,
		Tags:      tb.Tags,
		DependsOn: tb.DependsOn,
	}
	for _, fb := range tb.Funcs {
		vars, err := stringMap(ctx, fb.Vars, "vars")
		if err != nil {
			return nil, fmt.Errorf("task %q, func %q: %w", tb.Name, fb.Name, err)
		}
		task.Commands = append(task.Commands, &config.FunctionCall{Func: fb.Name, Vars: vars})
	}
	return task, nil
}

// translateVariant converts the HCL variant schema into the agnostic model.
func (l *Loader) translateVariant(ctx context.Context, vb *variantBlock) (*config.Variant, error) {
	expansions, err := stringMap(ctx, vb.Expansions, "expansions")
	if err != nil {
		return nil, fmt.Errorf("variant %q: %w", vb.Name, err)
	}
	displayName := vb.DisplayName
	if displayName == "" {
		displayName = vb.Name
	}
	variant := &config.Variant{
		Name:        vb.Name,
		DisplayName: displayName,
		RunOn:       vb.RunOn,
		Platform:    vb.Platform,
		Expansions:  expansions,
	}
	for _, ref := range vb.Tasks {
		variant.Tasks = append(variant.Tasks, &config.TaskRef{Name: ref.Name, Distros: ref.Distros})
	}
	return variant, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue // It's not an error if a configured path doesn't exist.
			}
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			if filepath.Ext(path) == ".hcl" {
				add(path)
			}
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}
	return allFiles, nil
}
