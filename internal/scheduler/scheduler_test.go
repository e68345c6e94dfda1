package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// fakeAssembler records every Assemble call; it never fails.
type fakeAssembler struct {
	mu    sync.Mutex
	calls int
	seen  [][]*txn.Transaction
}

func (f *fakeAssembler) Assemble(ctx context.Context, pending []*txn.Transaction) (*txn.Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.seen = append(f.seen, pending)
	return &txn.Block{BlockIndex: uint64(f.calls)}, nil
}

func (f *fakeAssembler) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func waitForState(t *testing.T, s *Scheduler, want State) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if s.State() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %s, got %s", want, s.State())
}

func TestPulseProducesBlockAndReturnsToIdle(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	mp := mempool.New(bus)
	asm := &fakeAssembler{}
	ticker := NewManualTicker()
	s := New(bus, mp, asm, ticker, 10, 100)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Run(ctx)
	defer s.Stop()

	ticker.Pulse(time.Now())
	waitForState(t, s, Idle)

	if asm.callCount() != 1 {
		t.Fatalf("expected 1 assemble call, got %d", asm.callCount())
	}
}

func TestPausesAfterMaxEmptyBlocks(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	mp := mempool.New(bus)
	asm := &fakeAssembler{}
	ticker := NewManualTicker()
	s := New(bus, mp, asm, ticker, 10, 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Run(ctx)
	defer s.Stop()

	for i := 0; i < 3; i++ {
		ticker.Pulse(time.Now())
		if i < 2 {
			waitForState(t, s, Idle)
		}
	}
	waitForState(t, s, PausedForEmpty)

	// a further pulse while paused must not call Assemble again.
	before := asm.callCount()
	ticker.Pulse(time.Now())
	time.Sleep(20 * time.Millisecond)
	if asm.callCount() != before {
		t.Fatalf("expected no new assemble call while paused, before=%d after=%d", before, asm.callCount())
	}
}

func TestTransactionReceivedWakesFromPause(t *testing.T) {
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	mp := mempool.New(bus)
	asm := &fakeAssembler{}
	ticker := NewManualTicker()
	s := New(bus, mp, asm, ticker, 10, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Run(ctx)
	defer s.Stop()

	ticker.Pulse(time.Now())
	waitForState(t, s, PausedForEmpty)

	var woke int32
	bus.Subscribe("TransactionReceived", func(ctx context.Context, ev eventbus.Event) error {
		atomic.AddInt32(&woke, 1)
		return nil
	})
	bus.Publish(mempool.TransactionReceived{Transaction: &txn.Transaction{ID: ids.New()}})

	waitForState(t, s, Idle)
}
