// Package stats fetches historical per-test runtimes for a (task, variant)
// pair. Lookup owns the retry, backoff, timeout and caching policy and
// reports one of three outcomes: Success, NotFound or Unavailable. Backends
// only move bytes: S3Backend reads the stats objects written by the CI
// system, and inmemorystore.Store serves fixtures and offline runs.
package stats
