package taskdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/taskgen/internal/config"
)

func genTask(name string, tags []string, vars map[string]string, extra ...*config.FunctionCall) *config.Task {
	cmds := []*config.FunctionCall{{Func: GenerateResmokeFunc, Vars: vars}}
	return &config.Task{Name: name, Tags: tags, Commands: append(extra, cmds...)}
}

func TestClassify_Modes(t *testing.T) {
	initCall := &config.FunctionCall{
		Func: InitMultiversionFunc,
		Vars: map[string]string{"b_mixed": "last_lts", "a_mixed": "last_continuous"},
	}

	testCases := []struct {
		name string
		task *config.Task
		want Mode
	}{
		{
			name: "no generate function",
			task: &config.Task{Name: "compile", Commands: []*config.FunctionCall{{Func: "do setup"}}},
			want: NotGenerated,
		},
		{
			name: "fuzzer wins over everything",
			task: genTask("burn_in_tests_gen", nil, map[string]string{"is_jstestfuzz": "true", "num_tasks": "2", "num_files": "5"}),
			want: Fuzzer,
		},
		{
			name: "fuzzer alias",
			task: genTask("fuzz_gen", nil, map[string]string{"is_fuzzer": "true", "num_tasks": "2", "num_files": "5"}),
			want: Fuzzer,
		},
		{
			name: "fuzzer calling init without multiversion tag",
			task: genTask("fuzz_gen", nil, map[string]string{"is_jstestfuzz": "true", "num_tasks": "2", "num_files": "5"}, initCall),
			want: Fuzzer,
		},
		{
			name: "implicit multiversion",
			task: genTask("mv_gen", []string{"multiversion"}, nil, initCall),
			want: ImplicitMultiversion,
		},
		{
			name: "explicit multiversion",
			task: genTask("mv_gen", []string{"multiversion", "no_multiversion_generate_tasks"}, nil),
			want: ExplicitMultiversion,
		},
		{
			name: "explicit multiversion ignores init function",
			task: genTask("mv_gen", []string{"multiversion", "no_multiversion_generate_tasks"}, nil, initCall),
			want: ExplicitMultiversion,
		},
		{name: "burn in tests", task: genTask("burn_in_tests_gen", nil, nil), want: BurnInTests},
		{name: "burn in tags", task: genTask("burn_in_tags_gen", nil, nil), want: BurnInTags},
		{name: "burn in tasks", task: genTask("burn_in_tasks_gen", nil, nil), want: BurnInTasks},
		{name: "runtime split", task: genTask("jsCore_gen", []string{"js"}, nil), want: RuntimeSplit},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			def, err := Classify(tc.task)
			require.NoError(t, err)
			assert.Equal(t, tc.want, def.Mode, "got mode %s", def.Mode)
		})
	}
}

func TestClassify_ImplicitMultiversionTakesSuitesFromInit(t *testing.T) {
	initCall := &config.FunctionCall{
		Func: InitMultiversionFunc,
		Vars: map[string]string{"b_mixed": "last_lts", "a_mixed": "last_continuous"},
	}
	task := genTask("mv_gen", []string{"multiversion"}, map[string]string{"suite": "ignored"}, initCall)

	def, err := Classify(task)
	require.NoError(t, err)
	assert.Empty(t, def.Params.Suite)
	assert.Equal(t, []Combination{
		{Suite: "a_mixed", Version: "last_continuous"},
		{Suite: "b_mixed", Version: "last_lts"},
	}, def.Params.Combinations)
}

func TestClassify_DecodesParams(t *testing.T) {
	task := genTask("jsCore_gen", nil, map[string]string{
		"use_large_distro": "true",
		"resmoke_args":     "--storageEngine=wiredTiger",
		"resmoke_jobs_max": "4",
		"num_tasks":        "3",
	})

	def, err := Classify(task)
	require.NoError(t, err)
	assert.Equal(t, "jsCore", def.Params.Suite)
	assert.Equal(t, "jsCore", def.BaseName())
	assert.True(t, def.Params.UseLargeDistro)
	assert.False(t, def.Params.UseXLargeDistro)
	assert.Equal(t, 4, def.Params.ResmokeJobsMax)
	assert.Equal(t, 3, def.Params.NumTasks)
	assert.Equal(t, "--storageEngine=wiredTiger", def.Params.ResmokeArgs)

	pass := def.Params.PassThrough(VarNumTasks)
	assert.NotContains(t, pass, VarNumTasks)
	assert.Contains(t, def.Params.Vars, VarNumTasks, "PassThrough must not mutate the decoded vars")
}

func TestClassify_ConfigErrors(t *testing.T) {
	testCases := []struct {
		name    string
		task    *config.Task
		wantErr string
	}{
		{
			name:    "non boolean flag",
			task:    genTask("a_gen", nil, map[string]string{"use_large_distro": "maybe"}),
			wantErr: "use_large_distro is not a boolean",
		},
		{
			name:    "non integer count",
			task:    genTask("a_gen", nil, map[string]string{"num_tasks": "many"}),
			wantErr: "num_tasks is not an integer",
		},
		{
			name:    "fuzzer with zero tasks",
			task:    genTask("f_gen", nil, map[string]string{"is_jstestfuzz": "true", "num_tasks": "0", "num_files": "5"}),
			wantErr: "must be at least 1",
		},
		{
			name:    "fuzzer without files",
			task:    genTask("f_gen", nil, map[string]string{"is_jstestfuzz": "true", "num_tasks": "2"}),
			wantErr: "requires num_files",
		},
		{
			name:    "multiversion without init or opt out",
			task:    genTask("mv_gen", []string{"multiversion"}, nil),
			wantErr: "without calling",
		},
		{
			name: "init without multiversion tag",
			task: genTask("mv_gen", nil, nil, &config.FunctionCall{
				Func: InitMultiversionFunc, Vars: map[string]string{"a": "last_lts"},
			}),
			wantErr: "is not tagged",
		},
		{
			name:    "init without combinations",
			task:    genTask("mv_gen", []string{"multiversion"}, nil, &config.FunctionCall{Func: InitMultiversionFunc}),
			wantErr: "declares no suite/version combinations",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Classify(tc.task)
			require.Error(t, err)
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tc.task.Name, cfgErr.Task)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}
