// Package expand turns classified task definitions into concrete generated
// tasks. Each expander is synchronous and in-memory: the caller resolves
// tests and runtime history first and hands the expander a Target that
// describes the variant it generates for. Every name an expander produces
// is claimed in the run-wide registry before the task is returned.
package expand
