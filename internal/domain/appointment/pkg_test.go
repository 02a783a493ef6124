package appointment

import (
	"testing"
	"time"

	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

func TestPackageToken_RoundTrip(t *testing.T) {
	token := NewPackageToken()
	notes := NotesWithToken("cliente prefere manhã", token)

	got, ok := PackageToken(notes)
	if !ok {
		t.Fatalf("token não encontrado em %q", notes)
	}
	if got != token {
		t.Fatalf("esperava %s, veio %s", token, got)
	}
}

func TestPackageToken_Malformed(t *testing.T) {
	cases := []string{
		"",
		"sem token nenhum",
		"[pacote:PKG-xyz]",      // hex inválido
		"[pacote:PKG-1a2b]",     // curto demais
		"[pacote PKG-1a2b3c4d]", // sem dois-pontos
	}
	for _, notes := range cases {
		if _, ok := PackageToken(notes); ok {
			t.Fatalf("%q não deveria render token", notes)
		}
	}
}

func pkgMember(id uint, token, status string, value float64, day int) models.Appointment {
	return models.Appointment{
		ID:          id,
		Status:      status,
		Value:       value,
		Notes:       NotesWithToken("", token),
		ScheduledAt: time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
	}
}

func TestGroupPackages(t *testing.T) {
	rows := []models.Appointment{
		pkgMember(4, "PKG-1a2b3c4d", "pendente", 50, 23),
		pkgMember(1, "PKG-1a2b3c4d", "pendente", 50, 2),
		pkgMember(2, "PKG-1a2b3c4d", "cancelado", 50, 9),
		pkgMember(3, "PKG-1a2b3c4d", "pendente", 50, 16),
		{ID: 10, Status: "pendente", Value: 80, Notes: "avulso"},
	}

	packages, singles := GroupPackages(rows)

	if len(packages) != 1 {
		t.Fatalf("esperava 1 pacote, veio %d", len(packages))
	}
	if len(singles) != 1 || singles[0].ID != 10 {
		t.Fatalf("esperava só o avulso 10 fora do pacote, veio %+v", singles)
	}

	p := packages[0]
	if p.Token != "PKG-1a2b3c4d" {
		t.Fatalf("token errado: %s", p.Token)
	}

	// membros em ordem cronológica
	for i, want := range []uint{1, 2, 3, 4} {
		if p.Members[i].ID != want {
			t.Fatalf("membro %d: esperava ID %d, veio %d", i, want, p.Members[i].ID)
		}
	}

	// sessão cancelada continua contando no total histórico
	if p.TotalValue != 200 {
		t.Fatalf("total: esperava 200, veio %v", p.TotalValue)
	}
	if p.Cancelled != 1 || p.Completed != 0 || p.Active != 3 {
		t.Fatalf("contagens erradas: %+v", p)
	}
}

func TestGroupPackages_FewerMembersDegradeToSingles(t *testing.T) {
	rows := []models.Appointment{
		pkgMember(1, "PKG-aa11bb22", "pendente", 50, 2),
		pkgMember(2, "PKG-aa11bb22", "pendente", 50, 9),
	}

	packages, singles := GroupPackages(rows)

	if len(packages) != 0 {
		t.Fatalf("pacote incompleto não deveria agregar: %+v", packages)
	}
	if len(singles) != 2 {
		t.Fatalf("as 2 sessões deveriam virar avulsas, veio %d", len(singles))
	}
}

func TestPackage_DeriveStatus(t *testing.T) {
	token := "PKG-1a2b3c4d"
	members := []models.Appointment{
		pkgMember(1, token, "cancelado", 50, 2),
		pkgMember(2, token, "pendente", 50, 9),
		pkgMember(3, token, "pendente", 50, 16),
		pkgMember(4, token, "pendente", 50, 23),
	}

	packages, _ := GroupPackages(members)
	if len(packages) != 1 {
		t.Fatalf("esperava 1 pacote, veio %d", len(packages))
	}
	p := packages[0]

	// pagamento pago em qualquer sessão confirma o agregado inteiro,
	// mesmo com uma sessão cancelada no meio
	aptID := uint(2)
	byAppt := map[uint][]models.Payment{
		2: {{AppointmentID: &aptID, Status: "pago", Value: 200}},
	}

	if got := p.DeriveStatus(byAppt); got != StatusConfirmado {
		t.Fatalf("pacote pago: esperava confirmado, veio %s", got)
	}
	if got := p.PercentPaid(byAppt); got != 100 {
		t.Fatalf("pacote pago: esperava 100%%, veio %d", got)
	}

	// sem pagamento nenhum
	if got := p.DeriveStatus(nil); got != StatusAgendado {
		t.Fatalf("pacote sem pagamentos: esperava agendado, veio %s", got)
	}
	if got := p.PercentPaid(nil); got != 0 {
		t.Fatalf("pacote sem pagamentos: esperava 0%%, veio %d", got)
	}
}

func TestPackage_DeriveStatus_AllTerminal(t *testing.T) {
	token := "PKG-1a2b3c4d"

	build := func(statuses [4]string) Package {
		var rows []models.Appointment
		for i, st := range statuses {
			rows = append(rows, pkgMember(uint(i+1), token, st, 50, (i+1)*7))
		}
		packages, _ := GroupPackages(rows)
		return packages[0]
	}

	done := build([4]string{"concluido", "concluido", "cancelado", "concluido"})
	if got := done.DeriveStatus(nil); got != StatusConcluido {
		t.Fatalf("pacote encerrado com sessão concluída: esperava concluido, veio %s", got)
	}

	dead := build([4]string{"cancelado", "cancelado", "cancelado", "cancelado"})
	if got := dead.DeriveStatus(nil); got != StatusCancelado {
		t.Fatalf("pacote todo cancelado: esperava cancelado, veio %s", got)
	}
}

func TestPackage_Representative(t *testing.T) {
	token := "PKG-1a2b3c4d"
	rows := []models.Appointment{
		pkgMember(1, token, "cancelado", 50, 2),
		pkgMember(2, token, "pendente", 50, 9),
		pkgMember(3, token, "pendente", 50, 16),
		pkgMember(4, token, "pendente", 50, 23),
	}
	packages, _ := GroupPackages(rows)
	p := packages[0]

	if got := p.Representative(); got.ID != 2 {
		t.Fatalf("esperava a primeira sessão ativa (2), veio %d", got.ID)
	}
}
