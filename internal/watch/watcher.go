package watch

import (
	"context"
	"log"
	"sync"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
)

// CheckFunc consulta o provedor sobre uma referência de cobrança.
type CheckFunc func(ctx context.Context, reference string) (domain.PaymentStatus, error)

// Watcher detecta a confirmação de pagamento por dois canais concorrentes:
// polling de intervalo fixo contra o provedor e eventos realtime do bus.
// Os dois podem reportar a mesma confirmação; quem chega primeiro vence e
// o duplicado é descartado, então o efeito colateral (onConfirmed) dispara
// exatamente uma vez por agendamento durante a sessão de watch.
//
// A escrita do pagamento como pago acontece antes do onConfirmed, para a
// tela nunca navegar com o modelo de leitura atrasado.
type Watcher struct {
	store       domain.Store
	bus         events.Bus
	check       CheckFunc
	onConfirmed func(appointmentID uint)
	interval    time.Duration

	mu      sync.Mutex
	applied map[uint]bool
	polling bool
}

func New(
	store domain.Store,
	bus events.Bus,
	check CheckFunc,
	onConfirmed func(appointmentID uint),
	interval time.Duration,
) *Watcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Watcher{
		store:       store,
		bus:         bus,
		check:       check,
		onConfirmed: onConfirmed,
		interval:    interval,
		applied:     make(map[uint]bool),
	}
}

// Start inicia o polling e a assinatura realtime e devolve o stop handle.
// O stop é idempotente e garante que nenhum ticker nem assinatura fica
// vivo depois que a tela consumidora desmonta.
func (w *Watcher) Start(ctx context.Context) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	evCh, unsubscribe := w.bus.Subscribe(ctx, w.store.Owner())

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.poll(ctx)
			case ev, ok := <-evCh:
				if !ok {
					return
				}
				w.handleEvent(ctx, ev)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			unsubscribe()
		})
	}
}

// poll consulta o provedor para cada agendamento pendente do dono. O flag
// polling descarta ticks enquanto a rodada anterior ainda está no ar, o
// que mantém o intervalo mínimo entre chamadas.
func (w *Watcher) poll(ctx context.Context) {
	w.mu.Lock()
	if w.polling {
		w.mu.Unlock()
		return
	}
	w.polling = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.polling = false
		w.mu.Unlock()
	}()

	pending, err := w.store.ListAppointments(ctx, domain.ListFilters{
		Statuses: []domain.Status{domain.StatusPendente},
	})
	if err != nil {
		log.Println("watch: list pending:", err)
		return
	}

	ids := make([]uint, 0, len(pending))
	for _, ap := range pending {
		ids = append(ids, ap.ID)
	}

	pays, err := w.store.ListPayments(ctx, ids)
	if err != nil {
		log.Println("watch: list payments:", err)
		return
	}

	for _, pay := range pays {
		if domain.PaymentStatus(pay.Status) != domain.PaymentPendente {
			continue
		}
		if pay.ProviderReference == "" || pay.AppointmentID == nil {
			continue
		}
		if w.alreadyApplied(*pay.AppointmentID) {
			continue
		}

		st, err := w.check(ctx, pay.ProviderReference)
		if err != nil {
			// falha transitória: a próxima rodada tenta de novo
			continue
		}
		if st == domain.PaymentPago {
			w.confirm(ctx, *pay.AppointmentID, pay.ID)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, ev events.Event) {
	switch ev.Table {
	case "payments":
		if ev.Op == events.OpUpdate && ev.Status == string(domain.PaymentPago) && ev.AppointmentID != 0 {
			// pagamento já está pago no store; só os efeitos restam
			w.confirm(ctx, ev.AppointmentID, 0)
		}
	case "appointments":
		if ev.Op != events.OpUpdate {
			return
		}
		switch domain.Status(ev.Status) {
		case domain.StatusConfirmado, domain.StatusAgendado:
			w.confirm(ctx, ev.RecordID, 0)
		}
	}
}

func (w *Watcher) alreadyApplied(appointmentID uint) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.applied[appointmentID]
}

// confirm aplica a confirmação uma única vez por agendamento. paymentID
// zero significa que não há pagamento a virar (o sinal veio do realtime,
// onde a linha já está paga).
func (w *Watcher) confirm(ctx context.Context, appointmentID uint, paymentID uint) {
	w.mu.Lock()
	if w.applied[appointmentID] {
		w.mu.Unlock()
		return
	}
	w.applied[appointmentID] = true
	w.mu.Unlock()

	if paymentID != 0 {
		if err := w.store.UpdatePaymentStatus(ctx, paymentID, domain.PaymentPago); err != nil {
			log.Println("watch: mark paid:", err)
			// sem a escrita aplicada a confirmação não aconteceu;
			// libera para o outro canal tentar de novo
			w.mu.Lock()
			delete(w.applied, appointmentID)
			w.mu.Unlock()
			return
		}
	}

	if w.onConfirmed != nil {
		w.onConfirmed(appointmentID)
	}
}
