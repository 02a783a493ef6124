package appointment

import (
	"context"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

type CompleteAppointment struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewCompleteAppointment(
	store domain.Store,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		store: store,
		audit: audit,
	}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Complete(ap, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.store.UpdateAppointmentStatus(ctx, ap.ID, domain.StatusConcluido); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  uc.store.Owner(),
		UserID:   &userID,
		Action:   "appointment_completed",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
