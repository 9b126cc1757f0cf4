package stats

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"
)

// ErrNotFound is returned by a backend when the pair has no history.
var ErrNotFound = errors.New("stats: no history for task")

// Query addresses the stats of one task on one variant. Since bounds the
// lookback window; the zero value means no bound.
type Query struct {
	Project string
	Variant string
	Task    string
	Since   time.Time
}

// Key is the project/variant/task path the stats are stored under.
func (q Query) Key() string {
	return path.Join(q.Project, q.Variant, q.Task)
}

// Backend fetches raw runtime history. Implementations return ErrNotFound
// for missing history and wrap failures that retrying cannot fix with
// Terminal. Every other error is treated as transient.
type Backend interface {
	Fetch(ctx context.Context, q Query) (DurationMap, error)
}

// TerminalError marks a backend failure that will not go away on retry,
// such as bad credentials or a malformed document.
type TerminalError struct {
	Err error
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal stats error: %v", e.Err)
}

func (e *TerminalError) Unwrap() error {
	return e.Err
}

// Terminal wraps err so Lookup stops retrying it.
func Terminal(err error) error {
	if err == nil {
		return nil
	}
	return &TerminalError{Err: err}
}

func isRetryable(err error) bool {
	var term *TerminalError
	return !errors.As(err, &term) && !errors.Is(err, ErrNotFound)
}
