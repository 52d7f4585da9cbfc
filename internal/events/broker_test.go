package events

import (
	"context"
	"testing"
	"time"
)

func TestMemoryBrokerPublishSubscribe(t *testing.T) {
	b := NewMemoryBroker()
	ch, cancel := b.Subscribe("j1")
	defer cancel()

	ev := JobEvent{JobID: "j1", Type: TypeProcessing, Status: "processing", Progress: 10}
	b.Publish(context.Background(), ev)

	select {
	case got := <-ch:
		if got.Type != TypeProcessing || got.Progress != 10 {
			t.Fatalf("got %+v", got)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestMemoryBrokerIsolatesJobs(t *testing.T) {
	b := NewMemoryBroker()
	ch, cancel := b.Subscribe("j1")
	defer cancel()

	b.Publish(context.Background(), JobEvent{JobID: "j2", Type: TypeDone, Status: "done"})

	select {
	case got := <-ch:
		t.Fatalf("event leaked across jobs: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryBrokerUnsubscribe(t *testing.T) {
	b := NewMemoryBroker()
	ch, cancel := b.Subscribe("j1")
	cancel()

	b.Publish(context.Background(), JobEvent{JobID: "j1", Type: TypeDone, Status: "done"})
	select {
	case got := <-ch:
		t.Fatalf("event after unsubscribe: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTerminal(t *testing.T) {
	if (JobEvent{Type: TypeProcessing}).Terminal() {
		t.Fatal("processing is not terminal")
	}
	if !(JobEvent{Type: TypeDone}).Terminal() || !(JobEvent{Type: TypeError}).Terminal() {
		t.Fatal("done and error are terminal")
	}
}
