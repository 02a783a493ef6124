package janitor

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/Agenda-Right-Time/agenda-api/internal/config"
	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
	"github.com/Agenda-Right-Time/agenda-api/internal/timezone"
)

// Janitor faz a limpeza de ciclo de vida de um dono: remove agendamentos
// antigos e cancela pendentes cujo pagamento expirou. Roda em melhor
// esforço a cada carga do painel e numa varredura agendada; falhas são
// logadas e nunca bloqueiam a leitura.
type Janitor struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Janitor {
	return &Janitor{cfg: cfg}
}

// Run executa as duas passadas sobre o escopo do store.
func (j *Janitor) Run(ctx context.Context, store domain.Store, now time.Time) {
	j.purgeOld(ctx, store, now)
	j.cancelExpired(ctx, store, now)
}

// purgeOld apaga agendamentos (e seus pagamentos) anteriores ao início de
// hoje menos a retenção configurada.
func (j *Janitor) purgeOld(ctx context.Context, store domain.Store, now time.Time) {
	cutoff := timezone.DayStart(now).AddDate(0, 0, -j.cfg.JanitorRetentionDays)

	old, err := store.ListAppointments(ctx, domain.ListFilters{To: &cutoff})
	if err != nil {
		log.Println("janitor: list old:", err)
		return
	}
	if len(old) == 0 {
		return
	}

	ids := make([]uint, 0, len(old))
	for _, ap := range old {
		ids = append(ids, ap.ID)
	}

	if err := store.DeletePayments(ctx, ids); err != nil {
		log.Println("janitor: delete payments:", err)
		return
	}
	if err := store.DeleteAppointments(ctx, ids); err != nil {
		log.Println("janitor: delete appointments:", err)
	}
}

// cancelExpired cancela agendamentos pendentes cujos pagamentos são todos
// pendentes e vencidos. A consulta parte só de status pendente, então
// confirmados e concluídos nunca são tocados, mesmo com pagamento
// pendente vencido pendurado.
func (j *Janitor) cancelExpired(ctx context.Context, store domain.Store, now time.Time) {
	pending, err := store.ListAppointments(ctx, domain.ListFilters{
		Statuses: []domain.Status{domain.StatusPendente},
	})
	if err != nil {
		log.Println("janitor: list pending:", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	ids := make([]uint, 0, len(pending))
	for _, ap := range pending {
		ids = append(ids, ap.ID)
	}

	pays, err := store.ListPayments(ctx, ids)
	if err != nil {
		log.Println("janitor: list payments:", err)
		return
	}
	byAppt := domain.GroupPaymentsByAppointment(pays)

	for _, ap := range pending {
		if !shouldCancel(byAppt[ap.ID], now) {
			continue
		}
		if err := store.UpdateAppointmentStatus(ctx, ap.ID, domain.StatusCancelado); err != nil {
			log.Println("janitor: cancel expired:", err)
		}
	}
}

// shouldCancel: todos os pagamentos são pendentes e vencidos, e existe
// pelo menos um. Pagamento pago ou sem expiração (pacote) segura a linha;
// um pagamento pendente ainda no prazo pode estar em confirmação.
func shouldCancel(payments []models.Payment, now time.Time) bool {
	if len(payments) == 0 {
		return false
	}
	for _, p := range payments {
		if domain.PaymentStatus(p.Status) != domain.PaymentPendente {
			return false
		}
		if p.ExpiresAt == nil || !p.ExpiresAt.Before(now) {
			return false
		}
	}
	return true
}

// StoreFactory constrói o store escopado de um dono; a varredura agendada
// usa isso para percorrer todos os tenants.
type StoreFactory func(ownerID uint) domain.Store

// StartSweep agenda a varredura periódica por dono.
func (j *Janitor) StartSweep(listOwners func(ctx context.Context) ([]uint, error), stores StoreFactory) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(timezone.Location(timezone.DefaultTimezone))

	scheduler.Every(1).Hour().Do(func() {
		ctx := context.Background()

		owners, err := listOwners(ctx)
		if err != nil {
			log.Println("janitor sweep: list owners:", err)
			return
		}

		for _, ownerID := range owners {
			j.Run(ctx, stores(ownerID), timezone.Now())
		}
	})

	scheduler.StartAsync()
	log.Println("janitor sweep started")

	return scheduler
}
