// Package generator turns a loaded project into the graph of generated
// tasks.
//
// A run classifies every task once, groups the (task, variant) pairs that
// produce identical output, expands each group on a bounded worker pool and
// assembles per-variant task references and display groups only after the
// pool has drained. Any fatal error aborts the run before a graph is
// returned, so callers never see a partial result.
package generator
