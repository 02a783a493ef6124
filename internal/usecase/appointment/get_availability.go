package appointment

import (
	"context"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

type AvailabilityInput struct {
	ProfessionalID uint
	ServiceID      uint
	Date           time.Time
}

type GetAvailability struct {
	store domain.Store
}

func NewGetAvailability(store domain.Store) *GetAvailability {
	return &GetAvailability{store: store}
}

// Execute busca expediente, exceções e agenda do dia e delega o cálculo
// puro para domain.AvailableSlots.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	in AvailabilityInput,
) ([]time.Time, error) {

	svc, err := uc.store.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	duration := time.Duration(svc.DurationMin) * time.Minute
	if duration <= 0 {
		duration = time.Duration(domain.DefaultSlotInterval) * time.Minute
	}

	settings, err := uc.store.GetCalendarSettings(ctx, in.ProfessionalID)
	if err != nil {
		return nil, err
	}

	dateStr := in.Date.Format("2006-01-02")

	closedDates, err := uc.store.ListClosedDates(ctx, in.ProfessionalID, dateStr)
	if err != nil {
		return nil, err
	}
	closedSlots, err := uc.store.ListClosedTimeSlots(ctx, in.ProfessionalID, dateStr)
	if err != nil {
		return nil, err
	}

	busy, err := uc.busyRanges(ctx, in.ProfessionalID, in.Date)
	if err != nil {
		return nil, err
	}

	sched := domain.DaySchedule{
		Settings:    settings,
		Busy:        busy,
		ClosedDates: closedDates,
		ClosedSlots: closedSlots,
	}

	return domain.AvailableSlots(in.Date, duration, sched, timezone.Now()), nil
}

// busyRanges monta os intervalos ocupados por agendamentos não cancelados
// do profissional no dia, usando a duração do serviço de cada um.
func (uc *GetAvailability) busyRanges(
	ctx context.Context,
	professionalID uint,
	date time.Time,
) ([]domain.TimeRange, error) {

	dayStart := timezone.DayStart(date)
	dayEnd := dayStart.Add(24 * time.Hour)

	apps, err := uc.store.ListAppointments(ctx, domain.ListFilters{
		ProfessionalID: &professionalID,
		From:           &dayStart,
		To:             &dayEnd,
	})
	if err != nil {
		return nil, err
	}

	var busy []domain.TimeRange
	for _, ap := range apps {
		if domain.Status(ap.Status) == domain.StatusCancelado {
			continue
		}

		d := time.Duration(ap.Service.DurationMin) * time.Minute
		if d <= 0 {
			d = time.Duration(domain.DefaultSlotInterval) * time.Minute
		}

		busy = append(busy, domain.TimeRange{
			Start: ap.ScheduledAt,
			End:   ap.ScheduledAt.Add(d),
		})
	}

	return busy, nil
}
