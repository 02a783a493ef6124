package events

import (
	"context"
	"sync"
)

// MemoryBus entrega eventos dentro do processo. É o fallback quando não há
// Redis configurado e o transporte usado nos testes.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[uint]map[chan Event]bool
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		subs: make(map[uint]map[chan Event]bool),
	}
}

func (b *MemoryBus) Publish(_ context.Context, ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs[ev.OwnerID] {
		select {
		case ch <- ev:
		default:
			// assinante lento perde o evento; o polling cobre a lacuna
		}
	}
}

func (b *MemoryBus) Subscribe(_ context.Context, ownerID uint) (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	if b.subs[ownerID] == nil {
		b.subs[ownerID] = make(map[chan Event]bool)
	}
	b.subs[ownerID][ch] = true
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[ownerID], ch)
			b.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

var _ Bus = (*MemoryBus)(nil)
