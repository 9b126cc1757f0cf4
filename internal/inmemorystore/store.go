// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of stats.Backend.
//
// It backs offline runs (no stats service configured) and tests. Entries
// are keyed by the same project/variant/task path the S3 backend uses, and
// failures can be injected per key to exercise the degraded paths of
// stats.Lookup.
//
// The store uses sync.Map: keys are written once while seeding and then
// read concurrently by every worker of a generation run.
package inmemorystore

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/vk/taskgen/internal/stats"
)

// Store is an in-memory stats.Backend.
type Store struct {
	project   string
	durations sync.Map // Key: stats.Query.Key(), Value: stats.DurationMap
	failures  sync.Map // Key: stats.Query.Key(), Value: error
	calls     atomic.Int64
}

// New creates a new, empty store for the given project.
func New(project string) *Store {
	return &Store{project: project}
}

func (s *Store) key(variant, task string) string {
	return stats.Query{Project: s.project, Variant: variant, Task: task}.Key()
}

// Put records the history of task on variant.
func (s *Store) Put(variant, task string, d stats.DurationMap) {
	s.durations.Store(s.key(variant, task), maps.Clone(d))
}

// Fail makes every fetch of task on variant return err.
func (s *Store) Fail(variant, task string, err error) {
	s.failures.Store(s.key(variant, task), err)
}

// Calls returns how many fetches the store has served.
func (s *Store) Calls() int {
	return int(s.calls.Load())
}

// Fetch implements stats.Backend. Unknown keys report stats.ErrNotFound.
func (s *Store) Fetch(ctx context.Context, q stats.Query) (stats.DurationMap, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := q.Key()
	if err, ok := s.failures.Load(key); ok {
		return nil, err.(error)
	}
	d, ok := s.durations.Load(key)
	if !ok {
		return nil, stats.ErrNotFound
	}
	return maps.Clone(d.(stats.DurationMap)), nil
}
