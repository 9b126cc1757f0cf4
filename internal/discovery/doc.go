// Package discovery resolves the test files of a suite and the changed
// tests burn-in generation works from.
//
// Static serves both from the suite and changed_test blocks of the loaded
// project. Command asks an external program, typically the test runner's
// own suite resolver, for one test path per output line. Either adapter
// drops tests that are missing on disk when a root directory is set.
package discovery
