package appointment

import (
	"context"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// fakeStore implementa o que os casos de uso tocam; o embed cobre o resto
// da interface e estoura se algo inesperado for chamado.
type fakeStore struct {
	domain.Store

	owner        models.User
	appointments []models.Appointment
	payments     []models.Payment
	services     []models.Service
	profs        []models.Professional
	settings     *models.CalendarSettings

	insertErrOn int // falha no N-ésimo InsertAppointment (0 = nunca)
	insertCalls int

	inserted  []models.Payment
	statuses  map[uint]domain.Status
	deleted   []uint
	deleteErr error
}

func (f *fakeStore) Owner() uint { return f.owner.ID }

func (f *fakeStore) GetOwnerAccount(_ context.Context) (*models.User, error) {
	owner := f.owner
	return &owner, nil
}

func (f *fakeStore) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range f.appointments {
		if ap.ID == id {
			cp := ap
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeStore) ListAppointments(_ context.Context, flt domain.ListFilters) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if flt.From != nil && ap.ScheduledAt.Before(*flt.From) {
			continue
		}
		if flt.To != nil && !ap.ScheduledAt.Before(*flt.To) {
			continue
		}
		out = append(out, ap)
	}
	return out, nil
}

func (f *fakeStore) InsertAppointment(_ context.Context, ap *models.Appointment, _ time.Duration) error {
	f.insertCalls++
	if f.insertErrOn > 0 && f.insertCalls >= f.insertErrOn {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}

	ap.ID = uint(1000 + f.insertCalls)
	ap.OwnerID = f.owner.ID
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeStore) UpdateAppointmentStatus(_ context.Context, id uint, st domain.Status) error {
	if f.statuses == nil {
		f.statuses = make(map[uint]domain.Status)
	}
	f.statuses[id] = st
	return nil
}

func (f *fakeStore) DeleteAppointments(_ context.Context, ids []uint) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

func (f *fakeStore) ListPayments(_ context.Context, ids []uint) ([]models.Payment, error) {
	want := make(map[uint]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var out []models.Payment
	for _, p := range f.payments {
		if p.AppointmentID != nil && want[*p.AppointmentID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertPayment(_ context.Context, p *models.Payment) error {
	p.ID = uint(len(f.inserted) + 1)
	f.inserted = append(f.inserted, *p)
	return nil
}

func (f *fakeStore) GetService(_ context.Context, id uint) (*models.Service, error) {
	for _, s := range f.services {
		if s.ID == id {
			cp := s
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeStore) GetProfessional(_ context.Context, id uint) (*models.Professional, error) {
	for _, p := range f.profs {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeStore) GetOrCreateClient(_ context.Context, professionalID *uint, name, phone, email string) (*models.Client, error) {
	return &models.Client{
		ID:             77,
		OwnerID:        f.owner.ID,
		ProfessionalID: professionalID,
		Name:           name,
		Phone:          phone,
		Email:          email,
	}, nil
}

func (f *fakeStore) GetCalendarSettings(_ context.Context, _ uint) (*models.CalendarSettings, error) {
	return f.settings, nil
}

func (f *fakeStore) ListClosedDates(_ context.Context, _ uint, _ string) ([]models.ClosedDate, error) {
	return nil, nil
}

func (f *fakeStore) ListClosedTimeSlots(_ context.Context, _ uint, _ string) ([]models.ClosedTimeSlot, error) {
	return nil, nil
}
