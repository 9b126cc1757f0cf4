package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/fsutil"
	"github.com/vk/taskgen/internal/inmemorystore"
	"github.com/vk/taskgen/internal/stats"
)

// newStatsBackend builds the configured stats backend. The environment
// supplies credentials and may override the S3 endpoint.
func newStatsBackend(ctx context.Context, s Settings, env Env) (stats.Backend, error) {
	logger := ctxlog.FromContext(ctx)
	switch s.Stats.Backend {
	case BackendS3:
		endpoint := s.Stats.Endpoint
		if env.S3Endpoint != "" {
			endpoint = env.S3Endpoint
		}
		logger.Debug("Using S3 stats backend.", "endpoint", endpoint, "bucket", s.Stats.Bucket)
		return stats.NewS3Backend(stats.S3Config{
			Endpoint:  endpoint,
			Region:    s.Stats.Region,
			AccessKey: env.S3AccessKey,
			SecretKey: env.S3SecretKey,
			Bucket:    s.Stats.Bucket,
			UseSSL:    s.Stats.UseSSL,
		})
	case BackendMemory:
		store := inmemorystore.New(s.Lookup.Project)
		if s.Stats.Dir != "" {
			if err := seedStore(ctx, store, s.Stats.Dir); err != nil {
				return nil, err
			}
		}
		return store, nil
	}
	return nil, fmt.Errorf("unsupported stats backend %q", s.Stats.Backend)
}

// seedStore loads <variant>/<task>.json stats documents from dir.
func seedStore(ctx context.Context, store *inmemorystore.Store, dir string) error {
	logger := ctxlog.FromContext(ctx)
	files, err := fsutil.FindFilesByExtension(dir, ".json")
	if err != nil {
		return fmt.Errorf("failed to list stats directory %s: %w", dir, err)
	}

	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 2 {
			logger.Warn("Ignoring stats file outside <variant>/<task>.json layout.", "file", file)
			continue
		}
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read stats file %s: %w", file, err)
		}
		d, err := stats.DecodeTestStats(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		store.Put(parts[0], strings.TrimSuffix(parts[1], ".json"), d)
	}
	logger.Debug("Seeded memory stats backend.", "dir", dir, "documents", len(files))
	return nil
}
