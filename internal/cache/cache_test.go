package cache

import (
	"context"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/indexer"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

func newTestCache(t *testing.T) (*Cache, *storage.MemStore, *eventbus.Bus) {
	t.Helper()
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	c, err := New(store, bus, 128, 128)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, store, bus
}

func TestChainStateFallsBackToStorageOnMiss(t *testing.T) {
	c, store, _ := newTestCache(t)

	w := store.Write()
	w.SetChainState(txn.BlockchainState{BlockIndex: 3})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cs, ok := c.ChainState()
	if !ok || cs.BlockIndex != 3 {
		t.Fatalf("expected chain state block index 3, got %+v (ok=%v)", cs, ok)
	}
}

func TestChainStateServesFromCacheAfterFirstRead(t *testing.T) {
	c, store, _ := newTestCache(t)

	w := store.Write()
	w.SetChainState(txn.BlockchainState{BlockIndex: 1})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, ok := c.ChainState(); !ok {
		t.Fatal("expected chain state to exist")
	}

	// Mutate storage directly without going through the cache: a cached
	// read must still see the old value until invalidated.
	w2 := store.Write()
	w2.SetChainState(txn.BlockchainState{BlockIndex: 2})
	if err := w2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	cs, _ := c.ChainState()
	if cs.BlockIndex != 1 {
		t.Fatalf("expected stale cached value 1, got %d", cs.BlockIndex)
	}
}

func TestBlockIndexingCompletedInvalidatesCache(t *testing.T) {
	c, store, bus := newTestCache(t)

	w := store.Write()
	w.SetChainState(txn.BlockchainState{BlockIndex: 1})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if _, ok := c.ChainState(); !ok {
		t.Fatal("expected chain state to exist")
	}

	w2 := store.Write()
	w2.SetChainState(txn.BlockchainState{BlockIndex: 5})
	if err := w2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	done := make(chan struct{})
	bus.Subscribe(indexer.BlockIndexingCompleted{}.Kind(), func(ctx context.Context, ev eventbus.Event) error {
		close(done)
		return nil
	})
	bus.Publish(indexer.BlockIndexingCompleted{BlockIndex: 5})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for invalidation subscriber")
	}
	// Give the cache's own subscriber goroutine a moment to run; the bus
	// delivers to each subscriber on its own goroutine with no ordering
	// guarantee across subscribers, only within one.
	time.Sleep(10 * time.Millisecond)

	cs, ok := c.ChainState()
	if !ok || cs.BlockIndex != 5 {
		t.Fatalf("expected cache to have picked up the fresh value 5 after invalidation, got %+v (ok=%v)", cs, ok)
	}
}

func TestFeedParticipantFallsBackToStorage(t *testing.T) {
	c, store, _ := newTestCache(t)
	feedID := ids.New()
	addr := identity.Address{0x09}

	w := store.Write()
	w.PutFeed(&storage.Feed{FeedID: feedID})
	w.PutParticipant(&storage.FeedParticipant{FeedID: feedID, Address: addr, Role: txn.RoleMember})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	p, ok := c.FeedParticipant(feedID, addr)
	if !ok || p.Role != txn.RoleMember {
		t.Fatalf("expected cached-through participant lookup to succeed, got %+v (ok=%v)", p, ok)
	}
}
