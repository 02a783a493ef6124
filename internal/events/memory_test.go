package events

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBus_DeliversToOwnScope(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch1, cancel1 := bus.Subscribe(ctx, 1)
	defer cancel1()
	ch2, cancel2 := bus.Subscribe(ctx, 2)
	defer cancel2()

	bus.Publish(ctx, Event{Table: "appointments", Op: OpUpdate, OwnerID: 1, RecordID: 9})

	select {
	case ev := <-ch1:
		if ev.RecordID != 9 {
			t.Fatalf("evento errado: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatalf("assinante do dono 1 não recebeu")
	}

	select {
	case ev := <-ch2:
		t.Fatalf("evento vazou para outro dono: %+v", ev)
	default:
	}
}

func TestMemoryBus_CancelClosesChannel(t *testing.T) {
	bus := NewMemoryBus()
	ctx := context.Background()

	ch, cancel := bus.Subscribe(ctx, 1)
	cancel()
	cancel() // idempotente

	if _, ok := <-ch; ok {
		t.Fatalf("canal deveria estar fechado")
	}

	// publicar depois do cancel não pode panicar nem entregar
	bus.Publish(ctx, Event{Table: "payments", Op: OpInsert, OwnerID: 1})
}
