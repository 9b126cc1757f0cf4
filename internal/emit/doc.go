// Package emit writes a generated graph for the CI system to pick up.
//
// JSONEmitter writes the task configuration as evergreen_config.json and
// one suite file per split sub-task under generated_resmoke_config/. The
// configuration is validated against an embedded JSON schema before
// anything touches the disk.
package emit
