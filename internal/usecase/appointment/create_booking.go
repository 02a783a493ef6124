package appointment

import (
	"context"
	"log"
	"time"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ProfessionalID uint
	ServiceID      uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	Date  string // 2006-01-02
	Time  string // 15:04
	Notes string

	// Package cria as 4 sessões semanais de um pacote mensal
	// compartilhando um token em Notes.
	Package bool
}

// ======================================================
// USE CASE
// ======================================================

// CreateBooking é a reserva pública feita pelo cliente: nasce pendente e
// só vira agendado quando um pagamento é confirmado (via derivação de
// status, nunca escrevendo o status aqui).
type CreateBooking struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewCreateBooking(store domain.Store, audit *audit.Dispatcher) *CreateBooking {
	return &CreateBooking{store: store, audit: audit}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) ([]models.Appointment, error) {

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

	if _, err := uc.store.GetProfessional(ctx, in.ProfessionalID); err != nil {
		return nil, httperr.ErrBusiness("professional_not_found")
	}

	duration := time.Duration(svc.DurationMin) * time.Minute

	// antecedência mínima do expediente vale também na escrita
	settings, err := uc.store.GetCalendarSettings(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}
	lead := time.Duration(0)
	if settings != nil && settings.MinLeadMinutes > 0 {
		lead = time.Duration(settings.MinLeadMinutes) * time.Minute
	}
	if start.Before(timezone.Now().Add(lead)) {
		return nil, httperr.ErrBusiness("too_soon")
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

	notes := in.Notes
	sessions := 1
	if in.Package {
		sessions = domain.PackageSessions
		notes = domain.NotesWithToken(in.Notes, domain.NewPackageToken())
	}

	var created []models.Appointment
	for i := 0; i < sessions; i++ {
		ap := models.Appointment{
			ProfessionalID: in.ProfessionalID,
			ServiceID:      svc.ID,
			ClientID:       &client.ID,
			ClientEmail:    in.ClientEmail,
			ScheduledAt:    start.AddDate(0, 0, 7*i),
			Status:         string(domain.InitialStatus()),
			Value:          svc.Price,
			Notes:          notes,
		}

		// o InsertAppointment refaz a checagem de conflito com lock;
		// corrida entre leitura e escrita volta como slot_taken
		if err := uc.store.InsertAppointment(ctx, &ap, duration); err != nil {
			if len(created) > 0 {
				ids := make([]uint, 0, len(created))
				for _, c := range created {
					ids = append(ids, c.ID)
				}
				// melhor esforço; sessões penduradas saem depois na
				// limpeza por retenção
				if derr := uc.store.DeleteAppointments(ctx, ids); derr != nil {
					log.Println("rollback de sessões do pacote:", derr)
				}
			}
			return nil, err
		}

		created = append(created, ap)
	}

	first := created[0]
	uc.audit.Dispatch(audit.Event{
		OwnerID:  uc.store.Owner(),
		Action:   "booking_created",
		Entity:   "appointment",
		EntityID: &first.ID,
		Metadata: map[string]any{"sessions": sessions},
	})

	return created, nil
}
