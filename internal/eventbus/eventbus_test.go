package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"
)

type testEvent struct {
	kind string
	seq  int
}

func (e testEvent) Kind() string { return e.kind }

func TestPerSubscriberOrdering(t *testing.T) {
	b := New()
	defer b.Close()

	var mu sync.Mutex
	var seen []int
	done := make(chan struct{})

	count := 0
	b.Subscribe("ordered", func(ctx context.Context, ev Event) error {
		e := ev.(testEvent)
		// simulate variable handler latency to try to provoke reordering
		if e.seq%2 == 0 {
			time.Sleep(2 * time.Millisecond)
		}
		mu.Lock()
		seen = append(seen, e.seq)
		count++
		if count == 10 {
			close(done)
		}
		mu.Unlock()
		return nil
	})

	for i := 0; i < 10; i++ {
		b.Publish(testEvent{kind: "ordered", seq: i})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for handlers")
	}

	mu.Lock()
	defer mu.Unlock()
	for i, v := range seen {
		if v != i {
			t.Fatalf("ordering violated: seen=%v", seen)
		}
	}
}

func TestIndependentSubscribersDoNotBlock(t *testing.T) {
	b := New()
	defer b.Close()

	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})
	b.Subscribe("x", func(ctx context.Context, ev Event) error {
		close(slowStarted)
		<-slowRelease
		return nil
	})

	fastDone := make(chan struct{})
	b.Subscribe("x", func(ctx context.Context, ev Event) error {
		close(fastDone)
		return nil
	})

	b.Publish(testEvent{kind: "x"})

	<-slowStarted
	select {
	case <-fastDone:
	case <-time.After(time.Second):
		t.Fatal("fast subscriber blocked by slow one")
	}
	close(slowRelease)
}

func TestHandlerPanicDoesNotStopOtherSubscribers(t *testing.T) {
	b := New()
	defer b.Close()

	b.Subscribe("panicky", func(ctx context.Context, ev Event) error {
		panic("boom")
	})

	ok := make(chan struct{})
	b.Subscribe("panicky", func(ctx context.Context, ev Event) error {
		close(ok)
		return nil
	})

	b.Publish(testEvent{kind: "panicky"})

	select {
	case <-ok:
	case <-time.After(time.Second):
		t.Fatal("second subscriber never ran after first panicked")
	}
}
