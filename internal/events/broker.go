package events

import (
	"context"
	"sync"
)

// Event types published on job status transitions.
const (
	TypeProcessing = "job.processing"
	TypeDone       = "job.done"
	TypeError      = "job.error"
)

// JobEvent is the message fanned out to stream subscribers when a job changes
// state. Terminal events carry the final status; the result itself is fetched
// through the status endpoint.
type JobEvent struct {
	JobID    string `json:"jobId"`
	Type     string `json:"type"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// Terminal reports whether no further events will follow for the job.
func (e JobEvent) Terminal() bool { return e.Type == TypeDone || e.Type == TypeError }

// Broker fans job events out to subscribers. Publishing never blocks on slow
// consumers; a subscriber that falls behind loses events.
type Broker interface {
	Publish(ctx context.Context, ev JobEvent)
	// Subscribe returns a channel of events for one job and a cancel func the
	// caller must invoke when done.
	Subscribe(jobID string) (<-chan JobEvent, func())
	Close() error
}

// MemoryBroker is the in-process fan-out used when no Redis is configured.
type MemoryBroker struct {
	mu   sync.Mutex
	subs map[string]map[chan JobEvent]struct{}
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: map[string]map[chan JobEvent]struct{}{}}
}

func (b *MemoryBroker) Publish(ctx context.Context, ev JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[ev.JobID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *MemoryBroker) Subscribe(jobID string) (<-chan JobEvent, func()) {
	ch := make(chan JobEvent, 16)
	b.mu.Lock()
	if b.subs[jobID] == nil {
		b.subs[jobID] = map[chan JobEvent]struct{}{}
	}
	b.subs[jobID][ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if set, ok := b.subs[jobID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(b.subs, jobID)
			}
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

func (b *MemoryBroker) Close() error { return nil }
