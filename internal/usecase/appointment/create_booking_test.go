package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/httperr"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

func bookingStore() *fakeStore {
	return &fakeStore{
		owner:    models.User{ID: 1, Name: "Estúdio Ana"},
		services: []models.Service{{ID: 3, Name: "Corte", DurationMin: 30, Price: 80}},
		profs:    []models.Professional{{ID: 2, Name: "Ana"}},
	}
}

func futureBookingInput() CreateBookingInput {
	// bem no futuro, para a antecedência mínima nunca interferir
	day := timezone.Now().AddDate(0, 1, 0)
	return CreateBookingInput{
		ProfessionalID: 2,
		ServiceID:      3,
		ClientName:     "João",
		ClientPhone:    "11999990000",
		ClientEmail:    "joao@example.com",
		Date:           day.Format("2006-01-02"),
		Time:           "10:00",
	}
}

func TestCreateBooking_Single(t *testing.T) {
	store := bookingStore()
	uc := NewCreateBooking(store, nil)

	created, err := uc.Execute(context.Background(), futureBookingInput())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("esperava 1 agendamento, veio %d", len(created))
	}

	ap := created[0]
	if ap.Status != string(domain.StatusPendente) {
		t.Fatalf("reserva pública nasce pendente, veio %s", ap.Status)
	}
	if ap.Value != 80 {
		t.Fatalf("valor do serviço: esperava 80, veio %v", ap.Value)
	}
	if _, ok := domain.PackageToken(ap.Notes); ok {
		t.Fatalf("avulso não carrega token de pacote: %q", ap.Notes)
	}
}

func TestCreateBooking_PackageCreatesWeeklySessions(t *testing.T) {
	store := bookingStore()
	uc := NewCreateBooking(store, nil)

	in := futureBookingInput()
	in.Package = true

	created, err := uc.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(created) != domain.PackageSessions {
		t.Fatalf("esperava %d sessões, veio %d", domain.PackageSessions, len(created))
	}

	token, ok := domain.PackageToken(created[0].Notes)
	if !ok {
		t.Fatalf("sessão sem token: %q", created[0].Notes)
	}

	for i, ap := range created {
		got, ok := domain.PackageToken(ap.Notes)
		if !ok || got != token {
			t.Fatalf("sessão %d com token diferente: %q", i, ap.Notes)
		}

		wantAt := created[0].ScheduledAt.AddDate(0, 0, 7*i)
		if !ap.ScheduledAt.Equal(wantAt) {
			t.Fatalf("sessão %d: esperava %v, veio %v", i, wantAt, ap.ScheduledAt)
		}
	}
}

func TestCreateBooking_PackageRollsBackOnConflict(t *testing.T) {
	store := bookingStore()
	store.insertErrOn = 3 // terceira sessão colide

	uc := NewCreateBooking(store, nil)

	in := futureBookingInput()
	in.Package = true

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsConflict(err) {
		t.Fatalf("esperava slot_taken, veio %v", err)
	}

	// as 2 sessões que entraram são desfeitas
	if len(store.deleted) != 2 {
		t.Fatalf("esperava rollback de 2 sessões, veio %v", store.deleted)
	}
}

func TestCreateBooking_RollbackFailureKeepsConflict(t *testing.T) {
	store := bookingStore()
	store.insertErrOn = 3
	store.deleteErr = errors.New("conexão caiu")

	uc := NewCreateBooking(store, nil)

	in := futureBookingInput()
	in.Package = true

	// a falha do rollback não pode mascarar o conflito original
	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsConflict(err) {
		t.Fatalf("esperava slot_taken mesmo com rollback falhando, veio %v", err)
	}
}

func TestCreateBooking_RejectsTooSoon(t *testing.T) {
	store := bookingStore()
	store.settings = &models.CalendarSettings{MinLeadMinutes: 120}

	uc := NewCreateBooking(store, nil)

	soon := timezone.Now().Add(30 * time.Minute)
	in := futureBookingInput()
	in.Date = soon.Format("2006-01-02")
	in.Time = soon.Format("15:04")

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "too_soon") {
		t.Fatalf("esperava too_soon, veio %v", err)
	}
	if store.insertCalls != 0 {
		t.Fatalf("nada deveria ser gravado")
	}
}

func TestCreateBooking_InvalidDate(t *testing.T) {
	uc := NewCreateBooking(bookingStore(), nil)

	in := futureBookingInput()
	in.Date = "31-12-2026"

	_, err := uc.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, "invalid_date_or_time") {
		t.Fatalf("esperava invalid_date_or_time, veio %v", err)
	}
}
