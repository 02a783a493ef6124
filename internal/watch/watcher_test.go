package watch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	domain "github.com/Agenda-Right-Time/agenda-api/internal/domain/appointment"
	"github.com/Agenda-Right-Time/agenda-api/internal/events"
	"github.com/Agenda-Right-Time/agenda-api/internal/models"
)

// fakeStore implementa só o que o watcher usa; o embed cobre o resto da
// interface e estoura se algo inesperado for chamado.
type fakeStore struct {
	domain.Store

	mu           sync.Mutex
	appointments []models.Appointment
	payments     []models.Payment

	markPaidErr error
	paidCalls   []uint // IDs de pagamento marcados como pagos
}

func (f *fakeStore) Owner() uint { return 1 }

func (f *fakeStore) ListAppointments(_ context.Context, flt domain.ListFilters) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, ap := range f.appointments {
		if len(flt.Statuses) > 0 {
			match := false
			for _, st := range flt.Statuses {
				if domain.Status(ap.Status) == st {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, ap)
	}
	return out, nil
}

func (f *fakeStore) ListPayments(_ context.Context, _ []uint) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Payment(nil), f.payments...), nil
}

func (f *fakeStore) UpdatePaymentStatus(_ context.Context, id uint, st domain.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.markPaidErr != nil {
		return f.markPaidErr
	}

	f.paidCalls = append(f.paidCalls, id)
	for i := range f.payments {
		if f.payments[i].ID == id {
			f.payments[i].Status = string(st)
		}
	}
	return nil
}

func (f *fakeStore) paid() []uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]uint(nil), f.paidCalls...)
}

func pendingStore() *fakeStore {
	aptID := uint(10)
	return &fakeStore{
		appointments: []models.Appointment{
			{ID: aptID, Status: "pendente", Value: 80},
		},
		payments: []models.Payment{
			{ID: 5, AppointmentID: &aptID, Status: "pendente", ProviderReference: "mp-123"},
		},
	}
}

func waitConfirm(t *testing.T, ch <-chan uint) uint {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(2 * time.Second):
		t.Fatalf("confirmação não chegou")
		return 0
	}
}

func TestWatcher_PollConfirmsOnce(t *testing.T) {
	store := pendingStore()
	bus := events.NewMemoryBus()

	var checks atomic.Int32
	check := func(_ context.Context, ref string) (domain.PaymentStatus, error) {
		checks.Add(1)
		if ref != "mp-123" {
			t.Errorf("referência errada: %s", ref)
		}
		return domain.PaymentPago, nil
	}

	confirmed := make(chan uint, 10)
	w := New(store, bus, check, func(id uint) { confirmed <- id }, 5*time.Millisecond)

	stop := w.Start(context.Background())
	defer stop()

	if got := waitConfirm(t, confirmed); got != 10 {
		t.Fatalf("esperava confirmação do agendamento 10, veio %d", got)
	}

	// rodadas seguintes não reaplicam
	time.Sleep(50 * time.Millisecond)
	select {
	case id := <-confirmed:
		t.Fatalf("confirmação duplicada para %d", id)
	default:
	}

	if paid := store.paid(); len(paid) != 1 || paid[0] != 5 {
		t.Fatalf("esperava exatamente um mark-paid do pagamento 5, veio %v", paid)
	}
}

func TestWatcher_RealtimeEventConfirms(t *testing.T) {
	store := pendingStore()
	bus := events.NewMemoryBus()

	// provedor nunca responde nessa sessão; só o realtime sinaliza
	check := func(_ context.Context, _ string) (domain.PaymentStatus, error) {
		return domain.PaymentPendente, nil
	}

	confirmed := make(chan uint, 10)
	w := New(store, bus, check, func(id uint) { confirmed <- id }, time.Hour)

	stop := w.Start(context.Background())
	defer stop()

	// dá tempo da assinatura existir antes do publish
	time.Sleep(10 * time.Millisecond)

	bus.Publish(context.Background(), events.Event{
		Table:         "payments",
		Op:            events.OpUpdate,
		OwnerID:       1,
		RecordID:      5,
		AppointmentID: 10,
		Status:        "pago",
	})

	if got := waitConfirm(t, confirmed); got != 10 {
		t.Fatalf("esperava confirmação do agendamento 10, veio %d", got)
	}

	// no caminho realtime a linha já está paga, nada a escrever
	if paid := store.paid(); len(paid) != 0 {
		t.Fatalf("realtime não deveria reescrever pagamento, veio %v", paid)
	}
}

func TestWatcher_PollAndRealtimeRace(t *testing.T) {
	store := pendingStore()
	bus := events.NewMemoryBus()

	check := func(_ context.Context, _ string) (domain.PaymentStatus, error) {
		return domain.PaymentPago, nil
	}

	var confirms atomic.Int32
	w := New(store, bus, check, func(uint) { confirms.Add(1) }, 3*time.Millisecond)

	stop := w.Start(context.Background())
	defer stop()

	// o mesmo agendamento chega pelos dois canais
	for i := 0; i < 5; i++ {
		bus.Publish(context.Background(), events.Event{
			Table:         "payments",
			Op:            events.OpUpdate,
			OwnerID:       1,
			RecordID:      5,
			AppointmentID: 10,
			Status:        "pago",
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(50 * time.Millisecond)

	if got := confirms.Load(); got != 1 {
		t.Fatalf("esperava exatamente 1 confirmação, veio %d", got)
	}
}

func TestWatcher_WriteFailureRetries(t *testing.T) {
	store := pendingStore()
	store.markPaidErr = errors.New("db down")
	bus := events.NewMemoryBus()

	check := func(_ context.Context, _ string) (domain.PaymentStatus, error) {
		return domain.PaymentPago, nil
	}

	confirmed := make(chan uint, 10)
	w := New(store, bus, check, func(id uint) { confirmed <- id }, 5*time.Millisecond)

	stop := w.Start(context.Background())
	defer stop()

	// enquanto a escrita falha, nenhuma confirmação sai
	time.Sleep(30 * time.Millisecond)
	select {
	case id := <-confirmed:
		t.Fatalf("confirmação sem escrita aplicada: %d", id)
	default:
	}

	// banco volta; a próxima rodada confirma
	store.mu.Lock()
	store.markPaidErr = nil
	store.mu.Unlock()

	if got := waitConfirm(t, confirmed); got != 10 {
		t.Fatalf("esperava confirmação do agendamento 10, veio %d", got)
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	store := pendingStore()
	bus := events.NewMemoryBus()

	check := func(_ context.Context, _ string) (domain.PaymentStatus, error) {
		return domain.PaymentPendente, nil
	}

	w := New(store, bus, check, nil, time.Hour)
	stop := w.Start(context.Background())

	stop()
	stop() // segunda chamada não pode panicar

	// publicar após o stop não entrega nada (canal já fechado/removido)
	bus.Publish(context.Background(), events.Event{
		Table:   "payments",
		Op:      events.OpUpdate,
		OwnerID: 1,
		Status:  "pago",
	})
}
