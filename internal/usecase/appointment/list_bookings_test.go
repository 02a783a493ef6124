package appointment

import (
	"context"
	"testing"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

func TestListBookings_ReconciledView(t *testing.T) {
	token := "PKG-1a2b3c4d"
	notes := domain.NotesWithToken("", token)
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	paidID := uint(1)
	pendingID := uint(2)
	pkgPaidID := uint(3)

	store := &fakeStore{
		owner: models.User{ID: 1},
		appointments: []models.Appointment{
			// avulso com sinal de 50% pago
			{ID: 1, Status: "pendente", Value: 100, ScheduledAt: base,
				Service: models.Service{Name: "Corte"}},
			// avulso aguardando pagamento
			{ID: 2, Status: "pendente", Value: 80, ScheduledAt: base.Add(time.Hour)},
			// pacote de 4 sessões com pagamento integral na primeira
			{ID: 3, Status: "pendente", Value: 50, ScheduledAt: base.AddDate(0, 0, 1), Notes: notes},
			{ID: 4, Status: "pendente", Value: 50, ScheduledAt: base.AddDate(0, 0, 8), Notes: notes},
			{ID: 5, Status: "pendente", Value: 50, ScheduledAt: base.AddDate(0, 0, 15), Notes: notes},
			{ID: 6, Status: "cancelado", Value: 50, ScheduledAt: base.AddDate(0, 0, 22), Notes: notes},
		},
		payments: []models.Payment{
			{ID: 11, AppointmentID: &paidID, Status: "pago", Value: 50},
			{ID: 12, AppointmentID: &pendingID, Status: "pendente", Value: 40},
			{ID: 13, AppointmentID: &pkgPaidID, Status: "pago", Value: 200},
		},
	}

	uc := NewListBookings(store)

	out, err := uc.Execute(context.Background(), ListBookingsInput{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	// 2 avulsos + 1 agregado de pacote
	if len(out) != 3 {
		t.Fatalf("esperava 3 entradas, veio %d", len(out))
	}

	// ordenado por horário
	for i := 1; i < len(out); i++ {
		if out[i].ScheduledAt.Before(out[i-1].ScheduledAt) {
			t.Fatalf("entradas fora de ordem")
		}
	}

	byID := make(map[uint]int)
	for i, b := range out {
		byID[b.ID] = i
	}

	paid := out[byID[1]]
	if paid.Kind != "single" || paid.Status != "agendado" || paid.PercentPaid != 50 {
		t.Fatalf("avulso pago: esperava agendado/50%%, veio %s/%d%%", paid.Status, paid.PercentPaid)
	}
	if paid.ServiceName != "Corte" {
		t.Fatalf("nome do serviço não propagou: %q", paid.ServiceName)
	}

	pending := out[byID[2]]
	if pending.Status != "pendente" || pending.PercentPaid != 0 {
		t.Fatalf("avulso pendente: veio %s/%d%%", pending.Status, pending.PercentPaid)
	}

	pkg := out[byID[3]]
	if pkg.Kind != "package" || pkg.PackageToken != token {
		t.Fatalf("agregado de pacote errado: %+v", pkg)
	}
	if pkg.Status != "confirmado" || pkg.PercentPaid != 100 {
		t.Fatalf("pacote pago: esperava confirmado/100%%, veio %s/%d%%", pkg.Status, pkg.PercentPaid)
	}
	if pkg.Value != 200 {
		t.Fatalf("total do pacote inclui sessão cancelada: esperava 200, veio %v", pkg.Value)
	}
	if len(pkg.Sessions) != 4 || pkg.CancelledSessions != 1 {
		t.Fatalf("sessões do agregado erradas: %d sessões, %d canceladas",
			len(pkg.Sessions), pkg.CancelledSessions)
	}
}

func TestListBookings_IncompletePackageListsAsSingles(t *testing.T) {
	notes := domain.NotesWithToken("", "PKG-aa11bb22")
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	store := &fakeStore{
		owner: models.User{ID: 1},
		appointments: []models.Appointment{
			{ID: 1, Status: "pendente", Value: 50, ScheduledAt: base, Notes: notes},
			{ID: 2, Status: "pendente", Value: 50, ScheduledAt: base.AddDate(0, 0, 7), Notes: notes},
		},
	}

	out, err := NewListBookings(store).Execute(context.Background(), ListBookingsInput{})
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if len(out) != 2 {
		t.Fatalf("esperava 2 entradas avulsas, veio %d", len(out))
	}
	for _, b := range out {
		if b.Kind != "single" {
			t.Fatalf("pacote incompleto lista como avulso, veio %s", b.Kind)
		}
	}
}
