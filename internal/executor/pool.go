package executor

import (
	"context"

	"github.com/vk/taskgen/internal/ctxlog"
	"golang.org/x/sync/errgroup"
)

// Job is one unit of work.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Pool runs jobs with a fixed number of workers.
type Pool struct {
	workers int
}

// New creates a pool of the given size. Sizes below one are raised to one.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes jobs and blocks until all workers have returned. It returns
// the first job error, or the parent context's error if it was cancelled.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	logger := ctxlog.FromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)
	ready := make(chan Job)

	g.Go(func() error {
		defer close(ready)
		for i, j := range jobs {
			select {
			case ready <- j:
			case <-gctx.Done():
				logger.Debug("Pool cancelled, not dispatching remaining jobs.", "skipped", len(jobs)-i)
				return nil
			}
		}
		return nil
	})

	for id := 0; id < p.workers; id++ {
		g.Go(func() error {
			return p.worker(gctx, ready, id)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// worker is the processing loop of a single worker.
func (p *Pool) worker(ctx context.Context, ready <-chan Job, workerID int) error {
	logger := ctxlog.FromContext(ctx).With("workerID", workerID)
	logger.Debug("Worker started.")
	defer logger.Debug("Worker finished.")

	for j := range ready {
		if ctx.Err() != nil {
			logger.Debug("Skipping queued job.", "job", j.Name)
			continue
		}
		logger.Debug("Worker picked up job.", "job", j.Name)
		if err := j.Run(ctx); err != nil {
			logger.Error("Job failed.", "job", j.Name, "error", err)
			return err
		}
	}
	return nil
}
