package authz

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barbershop-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

var ErrForbidden = errors.New("forbidden")

// Principal is the authenticated caller as carried by the access token.
type Principal struct {
	UserID       uint
	BarbershopID uint
	Role         string
}

func (p Principal) IsOwner() bool  { return p.Role == models.RoleOwner }
func (p Principal) IsBarber() bool { return p.Role == models.RoleBarber }
func (p Principal) IsClient() bool { return p.Role == models.RoleClient }

type ClientLookup interface {
	GetClient(ctx context.Context, clientID uint) (*models.Client, error)
}

// Authorizer decides visibility: owners see their whole shop, barbers their
// own agenda, clients their own bookings.
type Authorizer struct {
	clients ClientLookup
}

func New(clients ClientLookup) *Authorizer {
	return &Authorizer{clients: clients}
}

// ownsClient reports whether clientID is the client record of p.
func (a *Authorizer) ownsClient(ctx context.Context, p Principal, clientID uint) (bool, error) {
	c, err := a.clients.GetClient(ctx, clientID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.UserID != nil && *c.UserID == p.UserID && c.BarbershopID == p.BarbershopID, nil
}

func (a *Authorizer) CanViewAppointment(ctx context.Context, p Principal, ap *models.Appointment) error {
	if ap.BarbershopID != p.BarbershopID {
		return ErrForbidden
	}

	switch {
	case p.IsOwner():
		return nil
	case p.IsBarber():
		if ap.BarberID == p.UserID {
			return nil
		}
	case p.IsClient():
		ok, err := a.ownsClient(ctx, p, ap.ClientID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrForbidden
}

// CanTransition allows staff every action on visible appointments and
// clients only to cancel their own.
func (a *Authorizer) CanTransition(
	ctx context.Context,
	p Principal,
	ap *models.Appointment,
	action domain.Action,
) error {
	if err := a.CanViewAppointment(ctx, p, ap); err != nil {
		return err
	}
	if p.IsClient() && action != domain.ActionCancel {
		return ErrForbidden
	}
	return nil
}

// CanBook checks who may put a booking on barberID for clientID.
func (a *Authorizer) CanBook(
	ctx context.Context,
	p Principal,
	barbershopID uint,
	barberID uint,
	clientID uint,
) error {
	if barbershopID != p.BarbershopID {
		return ErrForbidden
	}

	switch {
	case p.IsOwner():
		return nil
	case p.IsBarber():
		if barberID == p.UserID {
			return nil
		}
	case p.IsClient():
		ok, err := a.ownsClient(ctx, p, clientID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrForbidden
}

// CanViewAgenda guards listing a barber's appointments.
func (a *Authorizer) CanViewAgenda(p Principal, barbershopID, barberID uint) error {
	if barbershopID != p.BarbershopID {
		return ErrForbidden
	}
	if p.IsOwner() || (p.IsBarber() && barberID == p.UserID) {
		return nil
	}
	return ErrForbidden
}

// CanManageWindows guards editing a barber's weekly working windows.
func (a *Authorizer) CanManageWindows(p Principal, barber *models.User) error {
	return a.CanViewAgenda(p, barber.BarbershopID, barber.ID)
}

func (a *Authorizer) CanManageShop(p Principal, barbershopID uint) error {
	if p.IsOwner() && barbershopID == p.BarbershopID {
		return nil
	}
	return ErrForbidden
}
