package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the run options that come from the command line.
type Config struct {
	ProjectPaths []string // hcl files or directories
	SettingsPath string   // optional settings.hcl
	EnvFile      string   // optional .env file
	OutputDir    string

	LogFormat   string
	LogLevel    string
	WorkerCount int
	// Seed overrides the settings file seed when non-negative.
	Seed int64
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ProjectPaths) == 0 {
		return nil, errors.New("at least one project path is required")
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, errors.New("OutputDir is a required configuration field and cannot be empty")
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("worker count must not be negative, got %d", cfg.WorkerCount)
	}
	return &cfg, nil
}
