package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barbershop-booking/internal/db"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/barbershop-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-booking/internal/logger"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/routes"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// ======================================================
	// INFRA
	// ======================================================
	repo := infraRepo.NewAppointmentGormRepository(db, cfg.DBTimeout)

	windows := availability.NewCachedProvider(
		availability.NewRepositoryProvider(repo),
		cfg.WindowCacheTTL,
	)
	schedule := availability.NewLoader(windows, repo)

	m := metrics.New(prometheus.DefaultRegisterer, "barbershop")

	auditDispatcher := audit.NewDispatcher(audit.New(db), log)
	notifier := notify.NewDispatcher(notify.Config{}, repo, senders(cfg, log), log, m)

	locker, closeLocker := newLocker(cfg, log)
	defer closeLocker()

	// ======================================================
	// SWEEPER
	// ======================================================
	sweep := ucAppointment.NewSweepMissedAppointments(ucAppointment.Deps{
		Repo:     repo,
		Schedule: schedule,
		Audit:    auditDispatcher,
		Notify:   notifier,
		Metrics:  m,
		Clock:    timezone.SystemClock,
		Log:      log,
	}, cfg.SweepBatchSize)

	sweeper := worker.NewSweeper(sweep, locker, worker.SweeperConfig{
		Schedule: cfg.SweepSchedule,
		Timeout:  cfg.SweepTimeout,
		LockTTL:  cfg.SweepLockTTL,
	}, log, m, timezone.SystemClock)

	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.SweepSchedule).Msg("invalid sweep schedule")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	routes.RegisterRoutes(r, routes.Dependencies{
		Store:    repo,
		Schedule: schedule,
		Cache:    windows,
		Audit:    auditDispatcher,
		Notify:   notifier,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Clock:    timezone.SystemClock,
		Log:      log,
		Config:   cfg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	sweeper.Stop(shutdownCtx)

	// producers are gone; drain what they queued
	notifier.Close()
	auditDispatcher.Close()
}

func senders(cfg *config.Config, log zerolog.Logger) []notify.Sender {
	var out []notify.Sender
	if cfg.EmailEnabled() {
		out = append(out, notify.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom))
	}
	if cfg.SMSEnabled() {
		out = append(out, notify.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom))
	}
	if len(out) == 0 {
		log.Warn().Msg("no notification channel configured")
	}
	return out
}

// newLocker uses redis when configured so that only one replica sweeps.
func newLocker(cfg *config.Config, log zerolog.Logger) (lock.Locker, func()) {
	if cfg.RedisURL == "" {
		log.Info().Msg("REDIS_URL not set, sweeper lock is process-local")
		return lock.NewLocal(), func() {}
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid REDIS_URL")
	}

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	return lock.NewRedis(rdb, "barbershop:", log), func() { _ = rdb.Close() }
}
