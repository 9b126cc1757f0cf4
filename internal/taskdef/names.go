package taskdef

// Function names recognised inside task definitions.
const (
	GenerateResmokeFunc       = "generate resmoke tasks"
	InitMultiversionFunc      = "initialize multiversion tasks"
	MultiversionSetupFunc     = "do multiversion setup"
	SetupFunc                 = "do setup"
	APICredentialsFunc        = "configure evergreen api credentials"
	RunGeneratedTestsFunc     = "run generated tests"
	SetupFuzzerFunc           = "setup jstestfuzz"
	RunFuzzerFunc             = "run jstestfuzz"
	SelectMultiversionTask    = "select_multiversion_binaries"
	GeneratorDisplayGroup     = "generator_tasks"
	MultiversionTag           = "multiversion"
	NoMultiversionGenerateTag = "no_multiversion_generate_tasks"
)

// Burn-in generator task names.
const (
	BurnInTestsTask = "burn_in_tests_gen"
	BurnInTagsTask  = "burn_in_tags_gen"
	BurnInTasksTask = "burn_in_tasks_gen"
)

// Variables read from the generate function.
const (
	VarSuite           = "suite"
	VarNumTasks        = "num_tasks"
	VarNumFiles        = "num_files"
	VarIsFuzzer        = "is_jstestfuzz"
	VarIsFuzzerAlias   = "is_fuzzer"
	VarUseLargeDistro  = "use_large_distro"
	VarUseXLargeDistro = "use_xlarge_distro"
	VarResmokeArgs     = "resmoke_args"
	VarResmokeJobsMax  = "resmoke_jobs_max"
)
