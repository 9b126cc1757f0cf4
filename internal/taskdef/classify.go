package taskdef

import "github.com/vk/taskgen/internal/config"

// Classify decides the generation mode of a task and decodes its
// parameters. Tasks that never call the generate function pass through as
// NotGenerated. The first matching rule wins:
//
//  1. fuzzer flag set: Fuzzer
//  2. init function without the multiversion tag: error
//  3. multiversion tag, generation not disabled, init function present: ImplicitMultiversion
//  4. multiversion tag with generation disabled: ExplicitMultiversion
//  5. a burn-in generator name: the matching BurnIn mode
//  6. otherwise: RuntimeSplit
func Classify(task *config.Task) (*Definition, error) {
	gen := task.FindFunc(GenerateResmokeFunc)
	if gen == nil {
		return &Definition{Task: task, Mode: NotGenerated}, nil
	}

	params, err := decodeParams(task, gen.Vars)
	if err != nil {
		return nil, err
	}
	def := &Definition{Task: task, Params: params}

	multiversion := task.HasTag(MultiversionTag)
	noGenerate := task.HasTag(NoMultiversionGenerateTag)
	initCall := task.FindFunc(InitMultiversionFunc)

	switch {
	case params.IsFuzzer:
		def.Mode = Fuzzer
		if params.NumTasks < 1 {
			return nil, Errorf(task.Name, "", "fuzzer %s must be at least 1, got %d", VarNumTasks, params.NumTasks)
		}
		if params.NumFiles == "" {
			return nil, Errorf(task.Name, "", "fuzzer requires %s", VarNumFiles)
		}
		if multiversion && !noGenerate && initCall != nil {
			if def.Params.Combinations, err = decodeCombinations(task, initCall); err != nil {
				return nil, err
			}
		}

	case initCall != nil && !multiversion:
		return nil, Errorf(task.Name, "", "calls %q but is not tagged %q", InitMultiversionFunc, MultiversionTag)

	case multiversion && !noGenerate && initCall != nil:
		def.Mode = ImplicitMultiversion
		if def.Params.Combinations, err = decodeCombinations(task, initCall); err != nil {
			return nil, err
		}
		// Suites come only from the init function.
		def.Params.Suite = ""

	case multiversion && noGenerate:
		def.Mode = ExplicitMultiversion

	case multiversion:
		return nil, Errorf(task.Name, "", "tagged %q without %q and without calling %q",
			MultiversionTag, NoMultiversionGenerateTag, InitMultiversionFunc)

	case task.Name == BurnInTestsTask:
		def.Mode = BurnInTests
	case task.Name == BurnInTagsTask:
		def.Mode = BurnInTags
	case task.Name == BurnInTasksTask:
		def.Mode = BurnInTasks

	default:
		def.Mode = RuntimeSplit
		if params.NumTasks < 0 {
			return nil, Errorf(task.Name, "", "%s must not be negative, got %d", VarNumTasks, params.NumTasks)
		}
	}

	return def, nil
}
