// Package graph is the output model of a generation run: the generated
// tasks, the per-variant task references and display groups, and the setup
// steps attached to tasks that are not expanded.
//
// # Lifecycle
//
// Expanders produce Task values while the worker pool runs. Only after the
// pool has drained does the generator build Variant entries and call
// Assemble for each (parent task, variant) pair, so a display group always
// names every child of its parent. Validate is the last step before the
// graph is handed to an emitter.
//
// # Validation
//
// Validate loads every task and dependency into a dag.Graph and rejects
//   - duplicate task names,
//   - variant references to tasks that are neither generated nor external,
//   - display groups naming tasks the variant neither references nor
//     already runs in the base configuration,
//   - dependency cycles.
package graph
