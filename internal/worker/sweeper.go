package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

const sweepLockKey = "sweep:missed-appointments"

// Sweep is the missed-appointment job run on every tick.
type Sweep interface {
	Execute(ctx context.Context, now time.Time) (int, error)
}

type SweeperConfig struct {
	Schedule string
	Timeout  time.Duration
	LockTTL  time.Duration
}

// Sweeper runs the sweep on a cron schedule. Only the replica holding the
// lock sweeps on a given tick.
type Sweeper struct {
	job     Sweep
	locker  lock.Locker
	cfg     SweeperConfig
	log     zerolog.Logger
	metrics *metrics.Metrics
	clock   timezone.Clock

	cron *cron.Cron

	// base is the parent of every scheduled run; Stop cancels it.
	base   context.Context
	cancel context.CancelFunc
}

func NewSweeper(
	job Sweep,
	locker lock.Locker,
	cfg SweeperConfig,
	log zerolog.Logger,
	m *metrics.Metrics,
	clock timezone.Clock,
) *Sweeper {

	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	if cfg.LockTTL < cfg.Timeout {
		cfg.LockTTL = cfg.Timeout + 30*time.Second
	}
	if clock == nil {
		clock = timezone.SystemClock
	}

	base, cancel := context.WithCancel(context.Background())

	return &Sweeper{
		base:    base,
		cancel:  cancel,
		job:     job,
		locker:  locker,
		cfg:     cfg,
		log:     log.With().Str("component", "sweeper").Logger(),
		metrics: m,
		clock:   clock,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
}

func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, func() { _, _ = s.RunOnce(s.base) }); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	s.log.Info().Str("schedule", s.cfg.Schedule).Msg("sweeper started")
	return nil
}

// Stop prevents new ticks and returns once no sweep is running. A sweep still
// running when ctx ends is cancelled and then awaited.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("sweeper stop timed out, cancelling running sweep")
		s.cancel()
		<-done.Done()
	}
	s.cancel()
}

// RunOnce performs a single guarded sweep. It reports 0, nil when another
// replica holds the lock.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	started := time.Now()

	release, err := s.locker.Acquire(ctx, sweepLockKey, s.cfg.LockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		s.metrics.SweepRun("skipped", time.Since(started))
		s.log.Debug().Msg("sweep skipped, lock held elsewhere")
		return 0, nil
	}
	if err != nil {
		s.metrics.SweepRun("error", time.Since(started))
		s.log.Error().Err(err).Msg("sweep lock unavailable")
		return 0, err
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	n, err := s.job.Execute(ctx, s.clock())
	if err != nil {
		s.metrics.SweepRun("error", time.Since(started))
		s.log.Error().Err(err).Int("transitioned", n).Msg("sweep failed")
		return n, err
	}

	s.metrics.SweepRun("ok", time.Since(started))
	return n, nil
}
