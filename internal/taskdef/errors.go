package taskdef

import "fmt"

// ConfigError reports a malformed or ambiguous task definition. It is
// always fatal to the run.
type ConfigError struct {
	Task    string
	Variant string
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	where := fmt.Sprintf("task %q", e.Task)
	if e.Variant != "" {
		where += fmt.Sprintf(" on variant %q", e.Variant)
	}
	if e.Err != nil {
		return fmt.Sprintf("configuration error in %s: %s: %v", where, e.Reason, e.Err)
	}
	return fmt.Sprintf("configuration error in %s: %s", where, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Errorf builds a ConfigError for the given task and variant.
func Errorf(task, variant, format string, args ...any) *ConfigError {
	return &ConfigError{Task: task, Variant: variant, Reason: fmt.Sprintf(format, args...)}
}
