package appointment

import (
	"context"

	"github.com/Agenda-Right-Time/agenda-api/internal/audit"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

type CancelAppointment struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewCancelAppointment(
	store domain.Store,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		store: store,
		audit: audit,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	userID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.store.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, timezone.Now()); err != nil {
		return nil, err
	}

	if err := uc.store.UpdateAppointmentStatus(ctx, ap.ID, domain.StatusCancelado); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		OwnerID:  uc.store.Owner(),
		UserID:   &userID,
		Action:   "appointment_cancelled",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
