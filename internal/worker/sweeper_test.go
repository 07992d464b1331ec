package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
)

type countingSweep struct {
	mu    sync.Mutex
	calls []time.Time
	n     int
	err   error
}

func (c *countingSweep) Execute(ctx context.Context, now time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("sweep without deadline")
	}
	c.calls = append(c.calls, now)
	return c.n, c.err
}

func (c *countingSweep) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

var fixedNow = time.Date(2030, 3, 4, 12, 0, 0, 0, time.UTC)

func newSweeper(job Sweep, locker lock.Locker, m *metrics.Metrics) *Sweeper {
	return NewSweeper(job, locker, SweeperConfig{Schedule: "@every 1s", Timeout: time.Second}, zerolog.Nop(), m,
		func() time.Time { return fixedNow })
}

func TestRunOnce(t *testing.T) {
	job := &countingSweep{n: 3}
	m := metrics.New(prometheus.NewRegistry(), "test")

	n, err := newSweeper(job, lock.NewLocal(), m).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	require.Equal(t, 1, job.count())
	assert.Equal(t, fixedNow, job.calls[0])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRuns.WithLabelValues("ok")))
}

func TestRunOnceSkipsWhenLocked(t *testing.T) {
	job := &countingSweep{}
	locker := lock.NewLocal()
	m := metrics.New(prometheus.NewRegistry(), "test")

	release, err := locker.Acquire(context.Background(), sweepLockKey, time.Minute)
	require.NoError(t, err)
	defer release()

	n, err := newSweeper(job, locker, m).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Zero(t, n)
	assert.Zero(t, job.count())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRuns.WithLabelValues("skipped")))
}

func TestRunOnceReleasesLockOnError(t *testing.T) {
	job := &countingSweep{err: errors.New("db down")}
	locker := lock.NewLocal()
	s := newSweeper(job, locker, nil)

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)

	_, err = s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, job.count())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(&countingSweep{}, lock.NewLocal(), SweeperConfig{Schedule: "whenever"}, zerolog.Nop(), nil, nil)
	assert.Error(t, s.Start())
}

func TestStartTicks(t *testing.T) {
	job := &countingSweep{}
	s := newSweeper(job, lock.NewLocal(), nil)

	require.NoError(t, s.Start())
	defer s.Stop(context.Background())

	assert.Eventually(t, func() bool { return job.count() > 0 }, 3*time.Second, 50*time.Millisecond)
}

// blockingSweep runs until its context is cancelled.
type blockingSweep struct {
	started  chan struct{}
	finished chan struct{}
}

func (b *blockingSweep) Execute(ctx context.Context, _ time.Time) (int, error) {
	close(b.started)
	<-ctx.Done()
	close(b.finished)
	return 0, ctx.Err()
}

func TestStopCancelsAndAwaitsRunningSweep(t *testing.T) {
	job := &blockingSweep{started: make(chan struct{}), finished: make(chan struct{})}
	s := NewSweeper(job, lock.NewLocal(), SweeperConfig{Schedule: "@every 1s", Timeout: time.Hour},
		zerolog.Nop(), nil, func() time.Time { return fixedNow })

	require.NoError(t, s.Start())

	select {
	case <-job.started:
	case <-time.After(3 * time.Second):
		t.Fatal("sweep never started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	s.Stop(ctx)

	select {
	case <-job.finished:
	default:
		t.Fatal("Stop returned while the sweep was still running")
	}
}
