package events

import (
	"sync"
	"testing"
	"time"
)

func TestAppendAndReplay(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(GameEvent{ID: "E1", Type: EventTypeClick, ActorID: "PLAYER", Tick: 1})
	el.Append(GameEvent{ID: "E2", Type: EventTypeTimeTick, ActorID: "SYSTEM_TICKER", Tick: 2})
	el.Append(GameEvent{ID: "E3", Type: EventTypeClick, ActorID: "PLAYER", Tick: 3})

	if got := el.Len(); got != 3 {
		t.Errorf("Expected 3 events, got %d", got)
	}

	history := el.Replay()
	if len(history) != 3 || history[0].ID != "E1" || history[2].ID != "E3" {
		t.Errorf("Expected replay in append order, got %v", history)
	}
}

func TestGetByType(t *testing.T) {
	el := NewEventLog(nil)

	el.Append(GameEvent{ID: "E1", Type: EventTypeClick})
	el.Append(GameEvent{ID: "E2", Type: EventTypeGeneratorPurchase})
	el.Append(GameEvent{ID: "E3", Type: EventTypeClick})

	clicks := el.GetByType(EventTypeClick)
	if len(clicks) != 2 {
		t.Fatalf("Expected 2 clicks, got %d", len(clicks))
	}
	if clicks[0].ID != "E1" || clicks[1].ID != "E3" {
		t.Errorf("Expected clicks E1 and E3, got %v", clicks)
	}
	if got := el.GetByType(EventTypePrestige); len(got) != 0 {
		t.Errorf("Expected no prestige events, got %v", got)
	}
}

func TestGetSinceTick(t *testing.T) {
	el := NewEventLog(nil)

	for i := int64(1); i <= 5; i++ {
		el.Append(GameEvent{Type: EventTypeTimeTick, Tick: i})
	}

	since := el.GetSinceTick(3)
	if len(since) != 3 {
		t.Fatalf("Expected 3 events since tick 3, got %d", len(since))
	}
	if since[0].Tick != 3 {
		t.Errorf("Expected inclusive lower bound, got tick %d", since[0].Tick)
	}
}

// recordingPersister captures write-through appends for inspection.
type recordingPersister struct {
	mu     sync.Mutex
	events []GameEvent
}

func (p *recordingPersister) Append(e GameEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPersister) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recordingPersister) ids() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.ID
	}
	return out
}

func TestPersisterWriteThrough(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	el.Append(GameEvent{ID: "E1", Type: EventTypeClick})
	el.Append(GameEvent{ID: "E2", Type: EventTypePrestige})

	// Persistence is asynchronous; wait for it to drain.
	deadline := time.Now().Add(2 * time.Second)
	for p.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := p.count(); got != 2 {
		t.Errorf("Expected 2 persisted events, got %d", got)
	}
}

func TestPersisterSeesAppendOrder(t *testing.T) {
	p := &recordingPersister{}
	el := NewEventLog(p)

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				el.Append(GameEvent{ID: GenerateEventID(), Type: EventTypeTimeTick})
			}
		}()
	}
	wg.Wait()

	// Close blocks until the writer goroutine has drained its queue.
	el.Close()

	history := el.Replay()
	persisted := p.ids()
	if len(persisted) != len(history) {
		t.Fatalf("Expected %d persisted events, got %d", len(history), len(persisted))
	}
	for i, e := range history {
		if persisted[i] != e.ID {
			t.Fatalf("Persisted order diverged at index %d: log has %s, persister has %s", i, e.ID, persisted[i])
		}
	}
}

func TestCloseWithoutPersisterIsNoOp(t *testing.T) {
	el := NewEventLog(nil)
	el.Append(GameEvent{ID: "E1", Type: EventTypeClick})
	el.Close()
	el.Close()
	if el.Len() != 1 {
		t.Errorf("Expected 1 event after close, got %d", el.Len())
	}
}

func TestGenerateEventIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		if seen[id] {
			t.Fatalf("Duplicate event id %s", id)
		}
		seen[id] = true
	}
}
