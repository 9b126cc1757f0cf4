package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/taskgen/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// pathList collects a repeatable, comma-separated flag.
type pathList []string

func (p *pathList) String() string {
	return strings.Join(*p, ",")
}

func (p *pathList) Set(value string) error {
	for _, s := range strings.Split(value, ",") {
		if s = strings.TrimSpace(s); s != "" {
			*p = append(*p, s)
		}
	}
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("taskgen", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
taskgen - Generates and splits the test tasks of a CI build project.

Usage:
  taskgen [options] [PROJECT_PATH...]

Arguments:
  PROJECT_PATH
    Path to a single .hcl file or a directory containing .hcl files.

Options:
`)
		flagSet.PrintDefaults()
	}

	var projects pathList
	flagSet.Var(&projects, "project", "Project .hcl file or directory. Repeatable or comma-separated.")
	settingsFlag := flagSet.String("settings", "", "Path to the optional settings .hcl file.")
	envFlag := flagSet.String("env", ".env", "Path to an optional .env file with stats credentials.")
	outputFlag := flagSet.String("output", "generated", "Directory the generated configuration is written to.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Number of concurrent generation workers. 0 uses the settings file.")
	seedFlag := flagSet.Int64("seed", -1, "Seed for test shuffling. Negative uses the settings file.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	for _, arg := range flagSet.Args() {
		if err := projects.Set(arg); err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
	}
	slog.Debug("Project paths determined.", "paths", []string(projects))

	if len(projects) == 0 {
		slog.Debug("No project path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProjectPaths: projects,
		SettingsPath: *settingsFlag,
		EnvFile:      *envFlag,
		OutputDir:    *outputFlag,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		WorkerCount:  *workersFlag,
		Seed:         *seedFlag,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
