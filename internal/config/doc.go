// Package config defines the format-agnostic project model consumed by the
// generator: task definitions, build variants, declared suites and the
// changed-test mappings used by burn-in, along with the Loader interface
// that concrete parsers (such as the HCL adapter) implement.
//
// The model is read once at the start of a run and is treated as read-only
// by every other package.
package config
