package taskdef

import (
	"maps"
	"sort"
	"strconv"
	"strings"

	"github.com/vk/taskgen/internal/config"
)

// Definition is a classified task: its mode and decoded parameters.
type Definition struct {
	Task   *config.Task
	Mode   Mode
	Params Params
}

// Params holds the generate-function variables decoded once at
// classification time.
type Params struct {
	Suite           string
	IsFuzzer        bool
	NumTasks        int
	NumFiles        string
	UseLargeDistro  bool
	UseXLargeDistro bool
	ResmokeArgs     string
	ResmokeJobsMax  int
	Combinations    []Combination

	// Vars is every variable of the generate function, verbatim.
	Vars map[string]string
}

// Combination assigns an old version to one multiversion suite.
type Combination struct {
	Suite   string
	Version string
}

// BaseName returns the task name with a trailing "_gen" removed.
func (d *Definition) BaseName() string {
	return StripGen(d.Task.Name)
}

// StripGen removes a trailing "_gen" from a generator task name.
func StripGen(name string) string {
	return strings.TrimSuffix(name, "_gen")
}

// PassThrough returns a copy of the generate-function variables without
// the given keys.
func (p Params) PassThrough(drop ...string) map[string]string {
	out := maps.Clone(p.Vars)
	if out == nil {
		out = map[string]string{}
	}
	for _, k := range drop {
		delete(out, k)
	}
	return out
}

func decodeParams(task *config.Task, vars map[string]string) (Params, error) {
	p := Params{
		Suite:       vars[VarSuite],
		NumFiles:    vars[VarNumFiles],
		ResmokeArgs: vars[VarResmokeArgs],
		Vars:        maps.Clone(vars),
	}
	if p.Suite == "" {
		p.Suite = StripGen(task.Name)
	}

	var err error
	fuzz := vars[VarIsFuzzer]
	if fuzz == "" {
		fuzz = vars[VarIsFuzzerAlias]
	}
	if p.IsFuzzer, err = parseBool(task, VarIsFuzzer, fuzz); err != nil {
		return p, err
	}
	if p.UseLargeDistro, err = parseBool(task, VarUseLargeDistro, vars[VarUseLargeDistro]); err != nil {
		return p, err
	}
	if p.UseXLargeDistro, err = parseBool(task, VarUseXLargeDistro, vars[VarUseXLargeDistro]); err != nil {
		return p, err
	}
	if p.NumTasks, err = parseInt(task, VarNumTasks, vars[VarNumTasks]); err != nil {
		return p, err
	}
	if p.ResmokeJobsMax, err = parseInt(task, VarResmokeJobsMax, vars[VarResmokeJobsMax]); err != nil {
		return p, err
	}
	return p, nil
}

// decodeCombinations reads the suite to version map of the multiversion
// init function into a slice sorted by suite name.
func decodeCombinations(task *config.Task, call *config.FunctionCall) ([]Combination, error) {
	if call == nil || len(call.Vars) == 0 {
		return nil, Errorf(task.Name, "", "%q declares no suite/version combinations", InitMultiversionFunc)
	}
	combos := make([]Combination, 0, len(call.Vars))
	for suite, version := range call.Vars {
		if strings.TrimSpace(suite) == "" || strings.TrimSpace(version) == "" {
			return nil, Errorf(task.Name, "", "%q has an empty suite or version entry", InitMultiversionFunc)
		}
		combos = append(combos, Combination{Suite: suite, Version: version})
	}
	sort.Slice(combos, func(i, j int) bool { return combos[i].Suite < combos[j].Suite })
	return combos, nil
}

func parseBool(task *config.Task, name, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &ConfigError{Task: task.Name, Reason: "variable " + name + " is not a boolean", Err: err}
	}
	return v, nil
}

func parseInt(task *config.Task, name, raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ConfigError{Task: task.Name, Reason: "variable " + name + " is not an integer", Err: err}
	}
	return v, nil
}
