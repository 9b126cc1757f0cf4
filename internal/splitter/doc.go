// Package splitter partitions a suite's tests into balanced sub-suites.
//
// With usable runtime history it runs longest-processing-time-first bin
// packing over the tests that have history and deals the rest round-robin.
// Without history it shuffles and deals every test round-robin. Both paths
// draw randomness only from the caller's seeded *rand.Rand, so a run is
// reproducible for a given seed.
package splitter
