package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisBroker publishes job events over Redis pub/sub so streams work across
// multiple API replicas. Channel name is "job:" + job id.
type RedisBroker struct {
	rdb *redis.Client
}

func NewRedisBroker(url string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisBroker{rdb: rdb}, nil
}

func channelFor(jobID string) string { return "job:" + jobID }

func (b *RedisBroker) Publish(ctx context.Context, ev JobEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("events: encode %s for job %s: %v", ev.Type, ev.JobID, err)
		return
	}
	if err := b.rdb.Publish(ctx, channelFor(ev.JobID), data).Err(); err != nil {
		log.Printf("events: publish %s for job %s: %v", ev.Type, ev.JobID, err)
	}
}

func (b *RedisBroker) Subscribe(jobID string) (<-chan JobEvent, func()) {
	sub := b.rdb.Subscribe(context.Background(), channelFor(jobID))
	ch := make(chan JobEvent, 16)

	go func() {
		defer close(ch)
		for msg := range sub.Channel() {
			var ev JobEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("events: decode event for job %s: %v", jobID, err)
				continue
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}()

	cancel := func() { _ = sub.Close() }
	return ch, cancel
}

func (b *RedisBroker) Close() error { return b.rdb.Close() }
