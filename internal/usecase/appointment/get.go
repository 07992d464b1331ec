package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type GetAppointment struct {
	deps Deps
}

func NewGetAppointment(deps Deps) *GetAppointment {
	return &GetAppointment{deps: deps}
}

func (uc *GetAppointment) Execute(ctx context.Context, appointmentID uint) (*models.Appointment, error) {
	return uc.deps.Repo.GetAppointment(ctx, appointmentID)
}
