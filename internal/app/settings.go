package app

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/taskgen/internal/generator"
	"github.com/vk/taskgen/internal/stats"
)

// Stats backend names accepted by the settings file.
const (
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Settings is the tuning loaded from the optional settings file.
type Settings struct {
	Generator generator.Settings
	Lookup    stats.LookupConfig
	Stats     StatsSettings
	Discovery DiscoverySettings
}

// StatsSettings selects and configures the stats backend.
type StatsSettings struct {
	Backend  string
	Endpoint string
	Region   string
	Bucket   string
	UseSSL   bool
	// Dir seeds the memory backend from <variant>/<task>.json files.
	Dir string
}

// DiscoverySettings selects how suites are resolved.
type DiscoverySettings struct {
	// Command, when set, is run with the suite name appended.
	Command []string
	// Root drops discovered tests that do not exist beneath it.
	Root string
}

// DefaultSettings returns the settings used without a settings file.
func DefaultSettings() Settings {
	return Settings{
		Generator: generator.DefaultSettings(),
		Lookup:    stats.DefaultLookupConfig(),
		Stats:     StatsSettings{Backend: BackendMemory},
	}
}

type settingsFile struct {
	Generator *generatorBlock `hcl:"generator,block"`
	Stats     *statsBlock     `hcl:"stats,block"`
	Discovery *discoveryBlock `hcl:"discovery,block"`
}

type generatorBlock struct {
	Seed                       *int64   `hcl:"seed,optional"`
	Workers                    *int     `hcl:"workers,optional"`
	DefaultSubtasks            *int     `hcl:"default_subtasks_per_task,optional"`
	MaxSubtasks                *int     `hcl:"max_subtasks_per_task,optional"`
	RuntimePerRequiredSubtask  *float64 `hcl:"test_runtime_per_required_subtask,optional"`
	LargeRequiredThreshold     *float64 `hcl:"large_required_task_runtime_threshold,optional"`
	MultiversionSplitThreshold *int     `hcl:"multiversion_split_threshold,optional"`
	BurnInRepeatArgs           *string  `hcl:"burn_in_repeat_args,optional"`
	BurnInTaskRepeat           *int     `hcl:"burn_in_task_repeat,optional"`
	LargeDistroExceptions      []string `hcl:"large_distro_exceptions,optional"`
	GeneratingTask             *string  `hcl:"generating_task,optional"`
	DefaultDependency          *string  `hcl:"default_dependency,optional"`
}

type statsBlock struct {
	Backend        *string `hcl:"backend,optional"`
	Endpoint       *string `hcl:"endpoint,optional"`
	Region         *string `hcl:"region,optional"`
	Bucket         *string `hcl:"bucket,optional"`
	UseSSL         *bool   `hcl:"use_ssl,optional"`
	Dir            *string `hcl:"dir,optional"`
	Project        *string `hcl:"project,optional"`
	LookbackDays   *int    `hcl:"lookback_days,optional"`
	Retries        *int    `hcl:"retries,optional"`
	BackoffBaseMS  *int    `hcl:"backoff_base_ms,optional"`
	BackoffMaxMS   *int    `hcl:"backoff_max_ms,optional"`
	TimeoutSeconds *int    `hcl:"timeout_seconds,optional"`
	CacheSize      *int    `hcl:"cache_size,optional"`
}

type discoveryBlock struct {
	Command []string `hcl:"command,optional"`
	Root    *string  `hcl:"root,optional"`
}

// LoadSettings reads the settings file at path over DefaultSettings. An
// empty path yields the defaults.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return s, fmt.Errorf("failed to parse settings file %s: %w", path, diags)
	}
	var root settingsFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return s, fmt.Errorf("failed to decode settings file %s: %w", path, diags)
	}

	if b := root.Generator; b != nil {
		if b.Seed != nil {
			if *b.Seed < 0 {
				return s, fmt.Errorf("%s: seed must not be negative", path)
			}
			s.Generator.Seed = uint64(*b.Seed)
		}
		setIfPresent(&s.Generator.Workers, b.Workers)
		setIfPresent(&s.Generator.Policy.DefaultSubtasks, b.DefaultSubtasks)
		setIfPresent(&s.Generator.Policy.MaxSubtasks, b.MaxSubtasks)
		setIfPresent(&s.Generator.Policy.RuntimePerRequiredSubtask, b.RuntimePerRequiredSubtask)
		setIfPresent(&s.Generator.Policy.LargeRequiredThreshold, b.LargeRequiredThreshold)
		setIfPresent(&s.Generator.MultiversionSplitThreshold, b.MultiversionSplitThreshold)
		setIfPresent(&s.Generator.BurnInRepeatArgs, b.BurnInRepeatArgs)
		setIfPresent(&s.Generator.BurnInTaskRepeat, b.BurnInTaskRepeat)
		setIfPresent(&s.Generator.GeneratingTask, b.GeneratingTask)
		setIfPresent(&s.Generator.DefaultDependency, b.DefaultDependency)
		if b.LargeDistroExceptions != nil {
			s.Generator.LargeDistroExceptions = b.LargeDistroExceptions
		}
	}

	if b := root.Stats; b != nil {
		setIfPresent(&s.Stats.Backend, b.Backend)
		setIfPresent(&s.Stats.Endpoint, b.Endpoint)
		setIfPresent(&s.Stats.Region, b.Region)
		setIfPresent(&s.Stats.Bucket, b.Bucket)
		setIfPresent(&s.Stats.UseSSL, b.UseSSL)
		setIfPresent(&s.Stats.Dir, b.Dir)
		setIfPresent(&s.Lookup.Project, b.Project)
		setIfPresent(&s.Lookup.Retries, b.Retries)
		setIfPresent(&s.Lookup.CacheSize, b.CacheSize)
		if b.LookbackDays != nil {
			s.Lookup.Lookback = time.Duration(*b.LookbackDays) * 24 * time.Hour
		}
		if b.BackoffBaseMS != nil {
			s.Lookup.BackoffBase = time.Duration(*b.BackoffBaseMS) * time.Millisecond
		}
		if b.BackoffMaxMS != nil {
			s.Lookup.BackoffMax = time.Duration(*b.BackoffMaxMS) * time.Millisecond
		}
		if b.TimeoutSeconds != nil {
			s.Lookup.Timeout = time.Duration(*b.TimeoutSeconds) * time.Second
		}
	}

	if b := root.Discovery; b != nil {
		s.Discovery.Command = b.Command
		setIfPresent(&s.Discovery.Root, b.Root)
	}

	switch s.Stats.Backend {
	case BackendS3, BackendMemory:
	default:
		return s, fmt.Errorf("%s: unsupported stats backend %q", path, s.Stats.Backend)
	}
	return s, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
