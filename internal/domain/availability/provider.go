package availability

import (
	"context"
	"sort"

	"github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

// WindowProvider answers which recurring ranges apply on a weekday.
type WindowProvider interface {
	// WindowsFor returns the barber's enabled windows ordered by start;
	// empty when the barber does not work that day.
	WindowsFor(ctx context.Context, barberID uint, day appointment.DayOfWeek) ([]ClockRange, error)

	// ShopWindowFor returns the opening range; open is false when the shop is
	// closed that day.
	ShopWindowFor(ctx context.Context, barbershopID uint, day appointment.DayOfWeek) (window ClockRange, open bool, err error)
}

// ScheduleSource is the slice of the repository the provider reads.
type ScheduleSource interface {
	GetBarber(ctx context.Context, barberID uint) (*models.User, error)
	GetBarbershopByID(ctx context.Context, id uint) (*models.Barbershop, error)
	FindWorkingWindows(ctx context.Context, barberID uint, day appointment.DayOfWeek) ([]models.WorkingWindow, error)
	FindOperatingHours(ctx context.Context, barbershopID uint, day appointment.DayOfWeek) (*models.OperatingHours, error)
}

type RepositoryProvider struct {
	src ScheduleSource
}

func NewRepositoryProvider(src ScheduleSource) *RepositoryProvider {
	return &RepositoryProvider{src: src}
}

func (p *RepositoryProvider) WindowsFor(
	ctx context.Context,
	barberID uint,
	day appointment.DayOfWeek,
) ([]ClockRange, error) {

	if _, err := p.src.GetBarber(ctx, barberID); err != nil {
		return nil, err
	}

	rows, err := p.src.FindWorkingWindows(ctx, barberID, day)
	if err != nil {
		return nil, err
	}

	out := make([]ClockRange, 0, len(rows))
	for _, row := range rows {
		if !row.IsAvailable {
			continue
		}
		r, err := ParseRange(row.StartTime, row.EndTime)
		if err != nil {
			// rows are validated on write; a malformed one contributes nothing
			continue
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (p *RepositoryProvider) ShopWindowFor(
	ctx context.Context,
	barbershopID uint,
	day appointment.DayOfWeek,
) (ClockRange, bool, error) {

	if _, err := p.src.GetBarbershopByID(ctx, barbershopID); err != nil {
		return ClockRange{}, false, err
	}

	oh, err := p.src.FindOperatingHours(ctx, barbershopID, day)
	if err != nil {
		return ClockRange{}, false, err
	}
	if oh == nil || oh.IsClosed {
		return ClockRange{}, false, nil
	}

	r, err := ParseRange(oh.OpeningTime, oh.ClosingTime)
	if err != nil {
		return ClockRange{}, false, nil
	}
	return r, true, nil
}

var _ WindowProvider = (*RepositoryProvider)(nil)
