package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

func TestSweepMarksOverdueAsNoShow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	late := f.seed(monday(9, 0), 30, domain.StatusScheduled)
	lateConfirmed := f.seed(monday(9, 30), 30, domain.StatusConfirmed)
	running := f.seed(monday(10, 0), 30, domain.StatusInProgress)
	future := f.seed(monday(11, 30), 30, domain.StatusScheduled)
	endsNow := f.seed(monday(11, 0), 30, domain.StatusScheduled)

	now := monday(11, 30)
	uc := NewSweepMissedAppointments(f.deps, 10)

	n, err := uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for id, want := range map[uint]domain.Status{
		late.ID:          domain.StatusNoShow,
		lateConfirmed.ID: domain.StatusNoShow,
		running.ID:       domain.StatusInProgress,
		future.ID:        domain.StatusScheduled,
		endsNow.ID:       domain.StatusScheduled,
	} {
		got, err := f.repo.GetAppointment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(want), got.Status, "appointment %d", id)
	}

	stamped, err := f.repo.GetAppointment(ctx, late.ID)
	require.NoError(t, err)
	require.NotNil(t, stamped.NoShowAt)
	assert.True(t, stamped.NoShowAt.Equal(now))

	// second run finds nothing new
	n, err = uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweepWalksMultipleBatches(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		f.seed(monday(9, 0).Add(time.Duration(i)*20*time.Minute), 20, domain.StatusScheduled)
	}

	n, err := NewSweepMissedAppointments(f.deps, 3).Execute(context.Background(), monday(18, 0))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

// flakyRepo fails status updates for the listed appointments.
type flakyRepo struct {
	domain.Repository
	fail map[uint]bool
}

func (r flakyRepo) UpdateAppointmentStatus(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	if r.fail[ap.ID] {
		return domain.Transient("update", errors.New("connection reset"))
	}
	return r.Repository.UpdateAppointmentStatus(ctx, ap, from)
}

func TestSweepSkipsFailedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	broken := f.seed(monday(9, 0), 30, domain.StatusScheduled)
	ok := f.seed(monday(9, 30), 30, domain.StatusScheduled)

	deps := f.deps
	deps.Repo = flakyRepo{Repository: f.repo, fail: map[uint]bool{broken.ID: true}}

	n, err := NewSweepMissedAppointments(deps, 10).Execute(ctx, monday(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.repo.GetAppointment(ctx, ok.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), got.Status)

	// the failed one stays eligible for the next run
	n, err = NewSweepMissedAppointments(f.deps, 10).Execute(ctx, monday(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSweepPagesPastFullBatchOfFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.seed(monday(9, 0), 30, domain.StatusScheduled)
	second := f.seed(monday(9, 30), 30, domain.StatusScheduled)
	behind := f.seed(monday(10, 0), 30, domain.StatusScheduled)

	deps := f.deps
	deps.Repo = flakyRepo{Repository: f.repo, fail: map[uint]bool{first.ID: true, second.ID: true}}

	n, err := NewSweepMissedAppointments(deps, 2).Execute(ctx, monday(12, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.repo.GetAppointment(ctx, behind.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusNoShow), got.Status)

	for _, id := range []uint{first.ID, second.ID} {
		got, err := f.repo.GetAppointment(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(domain.StatusScheduled), got.Status)
	}
}

func TestSweepSkipsConcurrentlyChangedItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ap := f.seed(monday(9, 0), 30, domain.StatusScheduled)
	deps := f.deps
	deps.Repo = racingRepo{Repository: f.repo, f: f}

	n, err := NewSweepMissedAppointments(deps, 10).Execute(ctx, monday(12, 0))
	require.NoError(t, err)
	assert.Zero(t, n)

	got, err := f.repo.GetAppointment(ctx, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), got.Status)
}

// racingRepo completes the appointment right after the sweeper read it.
type racingRepo struct {
	domain.Repository
	f *fixture
}

func (r racingRepo) FindOverdueAppointments(
	ctx context.Context,
	now time.Time,
	after *domain.OverdueCursor,
	limit int,
) ([]models.Appointment, error) {
	aps, err := r.Repository.FindOverdueAppointments(ctx, now, after, limit)
	for _, ap := range aps {
		done := ap
		done.Status = string(domain.StatusCompleted)
		r.f.repo.AddAppointment(done)
	}
	return aps, err
}
