package config

import "context"

// Loader is the interface for a format-specific project configuration loader.
type Loader interface {
	// Load reads configuration from the given paths and translates it into
	// the format-agnostic project model.
	Load(ctx context.Context, paths ...string) (*Project, error)
}
