package splitter

import (
	"context"
	"errors"
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"github.com/vk/taskgen/internal/ctxlog"
	"github.com/vk/taskgen/internal/stats"
)

// SubSuite is one partition of a suite. Runtime is the sum of the known
// durations of its tests.
type SubSuite struct {
	Index   int
	Origin  string
	Tests   []string
	Runtime float64
}

// Input describes one split request.
type Input struct {
	Suite string
	Tests []string
	Count int
	Stats stats.Result
}

// ErrInvalidCount is returned when fewer than one sub-suite is requested.
var ErrInvalidCount = errors.New("sub-suite count must be at least 1")

// NewRand returns the generator used for one (task, variant) pair. Mixing
// the pair into the run seed keeps each pair's shuffle independent of the
// order the worker pool processes pairs in.
func NewRand(seed uint64, task, variant string) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(task + "|" + variant))
	return rand.New(rand.NewPCG(seed, h.Sum64()))
}

// Split partitions in.Tests into at most in.Count sub-suites. Every input
// test lands in exactly one sub-suite. Empty buckets are dropped and the
// remaining sub-suites are renumbered from zero.
func Split(ctx context.Context, in Input, rng *rand.Rand) ([]SubSuite, error) {
	if in.Count < 1 {
		return nil, ErrInvalidCount
	}
	if len(in.Tests) == 0 {
		return nil, nil
	}
	logger := ctxlog.FromContext(ctx).With("suite", in.Suite)

	var durations stats.DurationMap
	if in.Stats.Kind == stats.Success {
		durations = in.Stats.Durations
	}

	var known, unknown []string
	for _, t := range in.Tests {
		if d, ok := durations.Lookup(t); ok && d > 0 {
			known = append(known, t)
		} else {
			unknown = append(unknown, t)
		}
	}

	buckets := make([][]string, in.Count)
	if len(known) == 0 {
		logger.Debug("Splitting without runtime history.", "reason", in.Stats.Kind, "tests", len(in.Tests), "buckets", in.Count)
		dealRoundRobin(buckets, shuffled(in.Tests, rng))
	} else {
		logger.Debug("Splitting by runtime.", "known", len(known), "unknown", len(unknown), "buckets", in.Count)
		packLongestFirst(buckets, known, durations)
		dealRoundRobin(buckets, shuffled(unknown, rng))
	}

	suites := make([]SubSuite, 0, len(buckets))
	for i, tests := range buckets {
		if len(tests) == 0 {
			logger.Debug("Dropping empty sub-suite.", "bucket", i)
			continue
		}
		suites = append(suites, SubSuite{
			Index:   len(suites),
			Origin:  in.Suite,
			Tests:   tests,
			Runtime: durations.Total(tests),
		})
	}
	return suites, nil
}

// packLongestFirst assigns tests in descending duration order to the
// bucket with the smallest running total. Ties between tests keep input
// order and ties between buckets go to the lowest index.
func packLongestFirst(buckets [][]string, tests []string, durations stats.DurationMap) {
	ordered := make([]string, len(tests))
	copy(ordered, tests)
	weight := func(t string) float64 {
		d, _ := durations.Lookup(t)
		return d
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return weight(ordered[i]) > weight(ordered[j])
	})

	sums := make([]float64, len(buckets))
	for _, t := range ordered {
		target := 0
		for i := 1; i < len(sums); i++ {
			if sums[i] < sums[target] {
				target = i
			}
		}
		buckets[target] = append(buckets[target], t)
		sums[target] += weight(t)
	}
}

func dealRoundRobin(buckets [][]string, tests []string) {
	for i, t := range tests {
		b := i % len(buckets)
		buckets[b] = append(buckets[b], t)
	}
}

func shuffled(tests []string, rng *rand.Rand) []string {
	out := make([]string, len(tests))
	copy(out, tests)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
