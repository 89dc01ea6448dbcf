package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestCatalogWatchEmitsSourceChanges(t *testing.T) {
	base := t.TempDir()
	c, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Let the watcher goroutine start before writing.
	time.Sleep(50 * time.Millisecond)

	if _, err := c.Add("fruit", "Apple", "Apple"); err != nil {
		t.Fatalf("add option: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventSourcesInvalidated {
				return
			}
			if evt.Type == EventSourceChanged {
				if evt.Source != "fruit" {
					t.Fatalf("expected source 'fruit', got %q", evt.Source)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for source change event")
		}
	}
}

func TestBurstCoalesces(t *testing.T) {
	b := newBurst()
	for i := 0; i < 5; i++ {
		b.add(Event{Type: EventSourceChanged, Source: "fruit"})
	}
	b.add(Event{Type: EventSourceChanged, Source: "veg"})

	got := b.take()
	if len(got) != 2 || got[0].Source != "fruit" || got[1].Source != "veg" {
		t.Fatalf("take = %+v, want fruit then veg", got)
	}
	if len(b.take()) != 0 {
		t.Fatalf("take should empty the burst")
	}

	b.add(Event{Type: EventSourceChanged, Source: "fruit"})
	b.add(Event{Type: EventSourcesInvalidated})
	if got := b.take(); len(got) != 1 || got[0].Type != EventSourcesInvalidated {
		t.Fatalf("take = %+v, want a single invalidation", got)
	}
}

func TestCatalogWatchClosesWithPendingBurst(t *testing.T) {
	c, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		ch, err := c.Watch(ctx)
		if err != nil {
			cancel()
			t.Fatalf("watch: %v", err)
		}
		if _, err := c.Add("fruit", fmt.Sprintf("f%d", i), "f"); err != nil {
			cancel()
			t.Fatalf("add: %v", err)
		}
		// Cancel while the burst timer may be armed or firing.
		time.Sleep(time.Duration(i*10) * time.Millisecond)
		cancel()

		deadline := time.After(2 * time.Second)
	drain:
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					break drain
				}
			case <-deadline:
				t.Fatal("watch channel not closed after cancel")
			}
		}
	}
}
