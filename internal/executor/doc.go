// Package executor runs independent jobs on a bounded pool of workers.
//
// The first job to fail cancels the pool: jobs still queued are skipped and
// Run returns that error once every in-flight job has returned.
package executor
