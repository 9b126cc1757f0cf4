// Package dag is a small concurrency-safe directed graph used to check the
// dependency edges of a generated task graph before it is emitted: every
// edge must point at a known node and the graph must be acyclic.
package dag
