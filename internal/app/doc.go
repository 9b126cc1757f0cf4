// Package app wires a generation run together: it loads the environment,
// the settings file and the project, builds the stats, discovery and
// generator collaborators, and hands the resulting graph to the emitter.
// It is decoupled from any specific entrypoint like the CLI.
package app
