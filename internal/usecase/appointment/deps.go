package appointment

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-booking/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/domain/availability"
	"github.com/BruksfildServices01/barbershop-booking/internal/metrics"
	"github.com/BruksfildServices01/barbershop-booking/internal/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/timezone"
)

// Deps are the collaborators shared by the appointment use cases. Audit,
// Notify and Metrics may be nil.
type Deps struct {
	Repo     domain.Repository
	Schedule *availability.Loader
	Audit    *audit.Dispatcher
	Notify   *notify.Dispatcher
	Metrics  *metrics.Metrics
	Clock    timezone.Clock
	Log      zerolog.Logger

	// MinAdvanceMinutes applies to shops without their own setting.
	MinAdvanceMinutes int
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}
