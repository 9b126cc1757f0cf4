package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vk/taskgen/internal/ctxlog"
)

// LookupConfig holds the operational tuning of a Lookup.
type LookupConfig struct {
	Project     string
	Lookback    time.Duration
	Retries     int
	BackoffBase time.Duration
	BackoffMax  time.Duration
	Timeout     time.Duration
	CacheSize   int
}

// DefaultLookupConfig returns the values used when the settings file
// leaves them unset.
func DefaultLookupConfig() LookupConfig {
	return LookupConfig{
		Lookback:    14 * 24 * time.Hour,
		Retries:     3,
		BackoffBase: 500 * time.Millisecond,
		BackoffMax:  8 * time.Second,
		Timeout:     10 * time.Second,
		CacheSize:   1024,
	}
}

// Lookup fetches runtime history through a Backend with bounded retries,
// a per-attempt timeout and an LRU cache of settled outcomes.
type Lookup struct {
	backend Backend
	cfg     LookupConfig
	cache   *lru.Cache[string, Result]
	now     func() time.Time
	wait    func(ctx context.Context, d time.Duration) error
}

// NewLookup creates a Lookup. Zero-valued tuning fields fall back to
// DefaultLookupConfig.
func NewLookup(backend Backend, cfg LookupConfig) (*Lookup, error) {
	if backend == nil {
		return nil, errors.New("stats backend is required")
	}
	def := DefaultLookupConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = def.BackoffBase
	}
	if cfg.BackoffMax < cfg.BackoffBase {
		cfg.BackoffMax = max(def.BackoffMax, cfg.BackoffBase)
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}

	cache, err := lru.New[string, Result](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create stats cache: %w", err)
	}
	return &Lookup{
		backend: backend,
		cfg:     cfg,
		cache:   cache,
		now:     time.Now,
		wait:    sleepContext,
	}, nil
}

// FetchFor is Fetch guarded for an empty test set, which resolves to an
// empty Success without reaching the backend.
func (l *Lookup) FetchFor(ctx context.Context, task, variant string, tests []string) Result {
	if len(tests) == 0 {
		ctxlog.FromContext(ctx).Debug("Empty test set, skipping stats lookup.", "task", task, "variant", variant)
		return Found(DurationMap{})
	}
	return l.Fetch(ctx, task, variant)
}

// Fetch returns the runtime history of task on variant. It never returns
// an error: failures degrade to NotFound or Unavailable.
//
// Attempts run on a context detached from ctx's cancellation so an aborting
// run lets in-flight requests finish within their timeout. Cancellation of
// ctx does stop further retries.
func (l *Lookup) Fetch(ctx context.Context, task, variant string) Result {
	logger := ctxlog.FromContext(ctx).With("task", task, "variant", variant)
	q := Query{Project: l.cfg.Project, Variant: variant, Task: task}
	if l.cfg.Lookback > 0 {
		q.Since = l.now().Add(-l.cfg.Lookback)
	}
	key := q.Key()

	if r, ok := l.cache.Get(key); ok {
		logger.Debug("Stats cache hit.", "outcome", r.Kind)
		return r
	}

	detached := context.WithoutCancel(ctx)
	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= l.cfg.Retries; attempt++ {
		if attempt > 0 {
			if err := l.wait(ctx, l.backoff(attempt)); err != nil {
				lastErr = fmt.Errorf("retry abandoned: %w (last error: %v)", err, lastErr)
				break
			}
		}
		attempts++

		durations, err := l.attemptFetch(detached, q)
		if err == nil {
			r := Found(durations)
			l.cache.Add(key, r)
			logger.Debug("Fetched runtime stats.", "tests", len(durations), "attempts", attempts)
			return r
		}
		if errors.Is(err, ErrNotFound) {
			r := Result{Kind: NotFound}
			l.cache.Add(key, r)
			logger.Info("No runtime history, splitting evenly.")
			return r
		}

		lastErr = err
		if !isRetryable(err) {
			break
		}
		logger.Debug("Stats fetch attempt failed.", "attempt", attempts, "error", err)
	}

	logger.Warn("Runtime stats unavailable, splitting evenly.", "attempts", attempts, "error", lastErr)
	return Result{Kind: Unavailable, Err: lastErr}
}

func (l *Lookup) attemptFetch(ctx context.Context, q Query) (DurationMap, error) {
	ctx, cancel := context.WithTimeout(ctx, l.cfg.Timeout)
	defer cancel()
	d, err := l.backend.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = DurationMap{}
	}
	return d, nil
}

// backoff returns the delay before the given retry: base doubled per
// previous retry, capped at BackoffMax.
func (l *Lookup) backoff(retry int) time.Duration {
	d := l.cfg.BackoffBase
	for i := 1; i < retry; i++ {
		d *= 2
		if d >= l.cfg.BackoffMax {
			return l.cfg.BackoffMax
		}
	}
	return min(d, l.cfg.BackoffMax)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
