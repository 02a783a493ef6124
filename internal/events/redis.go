package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
)

// RedisBus propaga eventos entre instâncias via pub/sub, um canal por dono.
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(addr string) (*RedisBus, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &RedisBus{rdb: rdb}, nil
}

func channel(ownerID uint) string {
	return fmt.Sprintf("agenda:changes:%d", ownerID)
}

func (b *RedisBus) Publish(ctx context.Context, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Println("events: marshal:", err)
		return
	}

	if err := b.rdb.Publish(ctx, channel(ev.OwnerID), payload).Err(); err != nil {
		// realtime é melhor-esforço; o polling cobre a lacuna
		log.Println("events: publish:", err)
	}
}

func (b *RedisBus) Subscribe(ctx context.Context, ownerID uint) (<-chan Event, func()) {
	pubsub := b.rdb.Subscribe(ctx, channel(ownerID))
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Println("events: unmarshal:", err)
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			_ = pubsub.Close()
		})
	}

	return out, cancel
}

var _ Bus = (*RedisBus)(nil)
