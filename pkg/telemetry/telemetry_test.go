package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishSubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch, unsub := hub.Subscribe()
	defer unsub()

	hub.Publish(Event{Type: EventWindowCreated, Title: "Notes"})

	select {
	case ev := <-ch:
		assert.Equal(t, EventWindowCreated, ev.Type)
		assert.Equal(t, "Notes", ev.Title)
		assert.False(t, ev.Timestamp.IsZero(), "timestamp should be filled in")
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestHub_KeepsExplicitTimestamp(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ch, unsub := hub.Subscribe()
	defer unsub()

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	hub.Publish(Event{Type: EventDragCommitted, Timestamp: ts})
	ev := <-ch
	assert.Equal(t, ts, ev.Timestamp)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	ch1, unsub1 := hub.Subscribe()
	ch2, unsub2 := hub.Subscribe()
	defer unsub2()

	unsub1()
	_, ok := <-ch1
	assert.False(t, ok, "channel should be closed after unsubscribe")
	assert.NotPanics(t, unsub1)

	hub.Publish(Event{Type: EventFocusChanged})
	select {
	case <-ch2:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("remaining subscriber should still receive events")
	}
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe()

	hub.Close()
	hub.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.NotPanics(t, func() { hub.Publish(Event{Type: EventWindowClosed}) })

	late, unsub := hub.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribing after close yields a closed channel")
	unsub()
}

func TestHub_NonBlockingPublish(t *testing.T) {
	hub := NewHub()
	defer hub.Close()
	ch, unsub := hub.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < SubscriberBuffer*2; i++ {
			hub.Publish(Event{Type: EventFocusChanged})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Len(t, ch, SubscriberBuffer)
}

func TestHub_NilPublish(t *testing.T) {
	var hub *Hub
	assert.NotPanics(t, func() { hub.Publish(Event{Type: EventWindowCreated}) })
}

func TestHub_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, unsub := hub.Subscribe()
			hub.Publish(Event{Type: EventWindowRestored})
			unsub()
			for range ch {
			}
		}()
	}
	wg.Wait()
	require.Empty(t, hub.subscribers)
}
