package metrics

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/chain"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/indexer"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

func newTestRegistry(t *testing.T) (*Registry, *storage.MemStore, *eventbus.Bus) {
	t.Helper()
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	mp := mempool.New(bus)
	return New(store, mp, bus), store, bus
}

func waitForSubscriberDelivery() {
	time.Sleep(10 * time.Millisecond)
}

func TestHealthzReportsOK(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	r.Router().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("expected body ok, got %q", rec.Body.String())
	}
}

func TestMetricsEndpointExposesRegisteredGauges(t *testing.T) {
	r, store, _ := newTestRegistry(t)

	w := store.Write()
	w.SetChainState(txn.BlockchainState{BlockIndex: 7})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	r.refresh()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Router().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "hushnode_block_height 7") {
		t.Fatalf("expected block height gauge in output, got:\n%s", body)
	}
}

func TestBlockCreatedIncrementsBlocksAssembledCounter(t *testing.T) {
	r, _, bus := newTestRegistry(t)

	block := &txn.Block{BlockIndex: 1}
	bus.Publish(chain.BlockCreated{Block: block})
	waitForSubscriberDelivery()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Router().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "hushnode_blocks_assembled_total 1") {
		t.Fatalf("expected blocks_assembled_total to be 1, got:\n%s", rec.Body.String())
	}
}

func TestIndexingErrorOccurredIncrementsErrorCounter(t *testing.T) {
	r, _, bus := newTestRegistry(t)

	bus.Publish(indexer.IndexingErrorOccurred{PayloadKind: "Reward"})
	waitForSubscriberDelivery()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Router().ServeHTTP(rec, req)

	if !strings.Contains(rec.Body.String(), "hushnode_indexing_errors_total 1") {
		t.Fatalf("expected indexing_errors_total to be 1, got:\n%s", rec.Body.String())
	}
}

func TestServeShutsDownOnContextCancel(t *testing.T) {
	r, _, _ := newTestRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Serve(ctx, "127.0.0.1:0")
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for Serve to return after cancel")
	}
}
