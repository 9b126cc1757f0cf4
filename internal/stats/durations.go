package stats

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"
)

// DurationMap maps a test identifier to its average passing runtime in
// seconds. It may be empty or cover only part of a suite.
type DurationMap map[string]float64

// TestStats is one entry of a stats document as stored by the CI system.
// Hook entries are named "<test>:<hook>".
type TestStats struct {
	TestFile        string  `json:"test_file"`
	AvgDurationPass float64 `json:"avg_duration_pass"`
	NumPass         int     `json:"num_pass"`
}

// NormalizeTestName reduces a test path to the name the stats store keys
// it by: its base name without the ".js" extension.
func NormalizeTestName(test string) string {
	test = strings.ReplaceAll(test, "\\", "/")
	return strings.TrimSuffix(path.Base(test), ".js")
}

// FromTestStats folds raw stats entries into a DurationMap. Repeated
// entries for one test are averaged weighted by pass count, and hook
// runtimes are added onto the test that owns them.
func FromTestStats(entries []TestStats) DurationMap {
	type acc struct {
		weighted float64
		passes   int
	}
	tests := make(map[string]*acc)
	hooks := make(map[string]float64)

	for _, e := range entries {
		if e.TestFile == "" || e.AvgDurationPass <= 0 {
			continue
		}
		if owner, _, isHook := strings.Cut(e.TestFile, ":"); isHook {
			hooks[NormalizeTestName(owner)] += e.AvgDurationPass
			continue
		}
		name := NormalizeTestName(e.TestFile)
		a, ok := tests[name]
		if !ok {
			a = &acc{}
			tests[name] = a
		}
		passes := max(e.NumPass, 1)
		a.weighted += e.AvgDurationPass * float64(passes)
		a.passes += passes
	}

	out := make(DurationMap, len(tests))
	for name, a := range tests {
		out[name] = a.weighted/float64(a.passes) + hooks[name]
	}
	return out
}

// DecodeTestStats parses a stats document, a JSON array of TestStats, into
// a DurationMap.
func DecodeTestStats(data []byte) (DurationMap, error) {
	var entries []TestStats
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode stats document: %w", err)
	}
	return FromTestStats(entries), nil
}

// Lookup returns the runtime of a test, matching the exact identifier
// first and the normalized test name second.
func (d DurationMap) Lookup(test string) (float64, bool) {
	if v, ok := d[test]; ok {
		return v, true
	}
	v, ok := d[NormalizeTestName(test)]
	return v, ok
}

// Total sums the known runtimes of the given tests.
func (d DurationMap) Total(tests []string) float64 {
	var total float64
	for _, t := range tests {
		if v, ok := d.Lookup(t); ok && v > 0 {
			total += v
		}
	}
	return total
}
