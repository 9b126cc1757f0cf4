// Package registry holds the run-wide set of generated task names.
//
// Every generated task claims its name here before it is added to the
// output. A second claim of the same name fails with a CollisionError that
// names both owners; names are never renamed or merged. The registry is a
// single mutex-owned map shared by all workers of a run.
package registry
