package appointment

import (
	"context"
	"time"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

type CreatePrivateAppointmentInput struct {
	ProfessionalID uint
	ServiceID      uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string
	Time  string
	Notes string
}

// CreatePrivateAppointment é o agendamento direto feito pelo profissional
// no painel: nasce confirmado, sem cobrança antecipada.
type CreatePrivateAppointment struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewCreatePrivateAppointment(
	store domain.Store,
	audit *audit.Dispatcher,
) *CreatePrivateAppointment {
	return &CreatePrivateAppointment{
		store: store,
		audit: audit,
	}
}

func (uc *CreatePrivateAppointment) Execute(
	ctx context.Context,
	userID uint,
	in CreatePrivateAppointmentInput,
) (*models.Appointment, error) {

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	svc, err := uc.store.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	client, err := uc.store.GetOrCreateClient(
		ctx,
		&in.ProfessionalID,
		in.ClientName,
		in.ClientPhone,
		in.ClientEmail,
	)
	if err != nil {
		return nil, err
	}

	ap := &models.Appointment{
		ProfessionalID: in.ProfessionalID,
		ServiceID:      svc.ID,
		ClientID:       &client.ID,
		ClientEmail:    in.ClientEmail,
		ScheduledAt:    start,
		Status:         string(domain.DirectBookingStatus()),
		Value:          svc.Price,
		Notes:          in.Notes,
	}

	duration := time.Duration(svc.DurationMin) * time.Minute
	if err := uc.store.InsertAppointment(ctx, ap, duration); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  uc.store.Owner(),
		UserID:   &userID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
