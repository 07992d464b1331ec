package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
)

const defaultSweepBatch = 200

// SweepMissedAppointments marks as no-show every scheduled or confirmed
// appointment whose end has passed.
type SweepMissedAppointments struct {
	deps      Deps
	batchSize int
}

func NewSweepMissedAppointments(deps Deps, batchSize int) *SweepMissedAppointments {
	if batchSize <= 0 {
		batchSize = defaultSweepBatch
	}
	return &SweepMissedAppointments{deps: deps, batchSize: batchSize}
}

// Execute returns how many appointments were transitioned. Item failures are
// logged and skipped; only a failed lookup aborts the run.
func (uc *SweepMissedAppointments) Execute(ctx context.Context, now time.Time) (int, error) {
	log := uc.deps.Log.With().Str("component", "sweeper").Logger()

	transitioned, failed := 0, 0
	defer func() { uc.deps.Metrics.Swept(transitioned, failed) }()

	var cursor *domain.OverdueCursor

	for {
		if err := ctx.Err(); err != nil {
			return transitioned, domain.Transient("sweep", err)
		}

		batch, err := uc.deps.Repo.FindOverdueAppointments(ctx, now, cursor, uc.batchSize)
		if err != nil {
			return transitioned, err
		}

		for i := range batch {
			ap := &batch[i]
			if err := uc.deps.apply(ctx, ap, domain.ActionMarkNoShow, now, nil); err != nil {
				failed++
				log.Warn().
					Err(err).
					Uint("appointment_id", ap.ID).
					Str("status", ap.Status).
					Msg("skip appointment")
				continue
			}
			transitioned++
		}

		if len(batch) < uc.batchSize {
			break
		}
		// page past failed items so they cannot starve the rest of the run
		cursor = domain.CursorAfter(batch[len(batch)-1])
	}

	if transitioned > 0 || failed > 0 {
		log.Info().
			Int("transitioned", transitioned).
			Int("failed", failed).
			Msg("sweep finished")
	}
	return transitioned, nil
}
