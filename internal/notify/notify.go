package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barbershop-booking/internal/models"
)

type Kind string

const (
	KindCreated     Kind = "appointment_created"
	KindRescheduled Kind = "appointment_rescheduled"
	KindConfirmed   Kind = "appointment_confirmed"
	KindCancelled   Kind = "appointment_cancelled"
	KindNoShow      Kind = "appointment_no_show"
)

type Event struct {
	Kind          Kind
	AppointmentID uint
	BarbershopID  uint
	ClientID      uint
	Start         time.Time
}

type Contact struct {
	Name  string
	Email string
	Phone string
}

type Message struct {
	Subject string
	Body    string
}

// Sender delivers one message over one channel.
type Sender interface {
	Channel() string
	Accepts(to Contact) bool
	Send(ctx context.Context, to Contact, msg Message) error
}

type ContactResolver interface {
	GetClient(ctx context.Context, clientID uint) (*models.Client, error)
}

func render(ev Event, to Contact) Message {
	when := ev.Start.Format("02/01/2006 15:04")

	var subject, body string
	switch ev.Kind {
	case KindCreated:
		subject = "Agendamento confirmado"
		body = fmt.Sprintf("Olá %s, seu horário foi agendado para %s.", to.Name, when)
	case KindRescheduled:
		subject = "Agendamento alterado"
		body = fmt.Sprintf("Olá %s, seu horário foi alterado para %s.", to.Name, when)
	case KindConfirmed:
		subject = "Presença confirmada"
		body = fmt.Sprintf("Olá %s, confirmamos seu horário de %s.", to.Name, when)
	case KindCancelled:
		subject = "Agendamento cancelado"
		body = fmt.Sprintf("Olá %s, seu horário de %s foi cancelado.", to.Name, when)
	case KindNoShow:
		subject = "Não comparecimento"
		body = fmt.Sprintf("Olá %s, registramos sua ausência no horário de %s.", to.Name, when)
	default:
		subject = "Agendamento"
		body = fmt.Sprintf("Olá %s, há uma atualização no seu horário de %s.", to.Name, when)
	}

	return Message{Subject: subject, Body: body}
}
