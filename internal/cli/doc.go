// Package cli turns command-line arguments into an app.Config. It owns
// flag definitions, usage text and the exit codes of invalid invocations.
package cli
