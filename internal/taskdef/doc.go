// Package taskdef classifies generator task definitions into a generation
// Mode and decodes their variables once into a validated Params value.
//
// Classification is pure: it reads a config.Task and never touches the
// network or the file system. Everything downstream dispatches on the
// returned Definition rather than re-inspecting raw variables.
package taskdef
