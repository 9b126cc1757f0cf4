package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEveryJob(t *testing.T) {
	var mu sync.Mutex
	var ran []string
	jobs := make([]Job, 20)
	for i := range jobs {
		name := fmt.Sprintf("job%d", i)
		jobs[i] = Job{Name: name, Run: func(ctx context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			ran = append(ran, name)
			return nil
		}}
	}

	require.NoError(t, New(4).Run(context.Background(), jobs))
	assert.Len(t, ran, 20)
}

func TestPool_BoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	jobs := make([]Job, 12)
	for i := range jobs {
		jobs[i] = Job{Name: fmt.Sprint(i), Run: func(ctx context.Context) error {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			inFlight.Add(-1)
			return nil
		}}
	}

	require.NoError(t, New(3).Run(context.Background(), jobs))
	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.GreaterOrEqual(t, peak.Load(), int32(1))
}

func TestPool_FirstErrorSkipsQueuedJobs(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Int32
	jobs := []Job{
		{Name: "ok", Run: func(ctx context.Context) error { ran.Add(1); return nil }},
		{Name: "fail", Run: func(ctx context.Context) error { ran.Add(1); return boom }},
	}
	for i := 0; i < 5; i++ {
		jobs = append(jobs, Job{Name: fmt.Sprint("queued", i), Run: func(ctx context.Context) error {
			ran.Add(1)
			return nil
		}})
	}

	err := New(1).Run(context.Background(), jobs)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int32(2), ran.Load(), "jobs queued behind the failure must not run")
}

func TestPool_InFlightJobsDrain(t *testing.T) {
	boom := errors.New("boom")
	release := make(chan struct{})
	var drained atomic.Bool
	jobs := []Job{
		{Name: "slow", Run: func(ctx context.Context) error {
			<-release
			drained.Store(true)
			return nil
		}},
		{Name: "fail", Run: func(ctx context.Context) error {
			close(release)
			return boom
		}},
	}

	err := New(2).Run(context.Background(), jobs)
	assert.ErrorIs(t, err, boom)
	assert.True(t, drained.Load(), "Run must wait for in-flight jobs")
}

func TestPool_CancelledParent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	jobs := []Job{{Name: "a", Run: func(ctx context.Context) error { ran.Add(1); return nil }}}

	err := New(2).Run(ctx, jobs)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, ran.Load())
}

func TestNew_ClampsWorkers(t *testing.T) {
	assert.Equal(t, 1, New(0).Workers())
	assert.Equal(t, 1, New(-3).Workers())
	assert.Equal(t, 8, New(8).Workers())
}
