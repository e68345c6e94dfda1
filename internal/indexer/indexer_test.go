package indexer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

func newTestIndexer(t *testing.T) (*Indexer, *storage.MemStore, *eventbus.Bus) {
	t.Helper()
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	idx := NewDefault(store, bus, nil)
	return idx, store, bus
}

func rewardTx(amt string) *txn.Transaction {
	return &txn.Transaction{
		ID:          ids.New(),
		PayloadKind: txn.KindReward,
		Timestamp:   time.Now().UTC(),
		State:       txn.Validated,
		Payload:     &txn.RewardPayload{Token: "HUSH", Precision: 9, Amount: amount.MustParse(amt)},
		UserSig:     txn.UserSignature{Signatory: identity.Address{0x01}},
	}
}

func TestIndexBlockCreatesFeedAndParticipant(t *testing.T) {
	idx, store, _ := newTestIndexer(t)
	feedID := ids.New()
	owner := identity.Address{0xAA}

	tx := &txn.Transaction{
		ID:          ids.New(),
		PayloadKind: txn.KindNewPersonalFeed,
		Timestamp:   time.Now().UTC(),
		State:       txn.Validated,
		Payload:     &txn.NewPersonalFeedPayload{FeedID: feedID, Title: "me", FeedType: txn.FeedPersonal},
		UserSig:     txn.UserSignature{Signatory: owner},
	}

	block := &txn.Block{BlockIndex: 1, Transactions: []*txn.Transaction{tx}}
	if err := idx.IndexBlock(context.Background(), block); err != nil {
		t.Fatalf("IndexBlock: %v", err)
	}

	f, ok := store.Read().Feed(feedID)
	if !ok {
		t.Fatal("expected feed row to exist")
	}
	if f.Title != "me" {
		t.Fatalf("unexpected title %q", f.Title)
	}
	p, ok := store.Read().FeedParticipant(feedID, owner)
	if !ok || p.Role != txn.RoleOwner {
		t.Fatalf("expected owner participant row, got %+v (ok=%v)", p, ok)
	}
}

func TestIndexBlockRunsMultipleStrategiesForSameTxKind(t *testing.T) {
	// Register two recording strategies for KindReward and verify the
	// generic multi-strategy loop runs both, in registration order.
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	var ran []string
	s1 := recordingStrategy{kind: txn.KindReward, name: "first", ran: &ran}
	s2 := recordingStrategy{kind: txn.KindReward, name: "second", ran: &ran}
	idx := New(store, bus, []Strategy{s1, s2})

	block := &txn.Block{BlockIndex: 1, Transactions: []*txn.Transaction{rewardTx("1.000000000")}}
	if err := idx.IndexBlock(context.Background(), block); err != nil {
		t.Fatalf("IndexBlock: %v", err)
	}
	if len(ran) != 2 || ran[0] != "first" || ran[1] != "second" {
		t.Fatalf("expected both strategies to run in registration order, got %v", ran)
	}
}

type recordingStrategy struct {
	kind txn.PayloadKind
	name string
	ran  *[]string
}

func (s recordingStrategy) CanHandle(kind txn.PayloadKind) bool { return kind == s.kind }

func (s recordingStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	*s.ran = append(*s.ran, s.name)
	return nil
}

type failingStrategy struct {
	kind txn.PayloadKind
}

func (s failingStrategy) CanHandle(kind txn.PayloadKind) bool { return kind == s.kind }

func (s failingStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	return errBoom
}

var errBoom = errors.New("boom")

func TestStrategyErrorDoesNotHaltBlockProcessing(t *testing.T) {
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)

	var ran []string
	failing := failingStrategy{kind: txn.KindReward}
	succeeding := recordingStrategy{kind: txn.KindReward, name: "after-failure", ran: &ran}
	idx := New(store, bus, []Strategy{failing, succeeding})

	tx := rewardTx("2.000000000")
	block := &txn.Block{BlockIndex: 1, Transactions: []*txn.Transaction{tx}}
	if err := idx.IndexBlock(context.Background(), block); err != nil {
		t.Fatalf("IndexBlock should not surface strategy errors: %v", err)
	}
	if len(ran) != 1 || ran[0] != "after-failure" {
		t.Fatalf("expected the second strategy to still run after the first failed, got %v", ran)
	}
	if !idx.IndexedWithError(tx.ID) {
		t.Fatal("expected transaction to be recorded as indexed-with-error")
	}
}

func TestBlockIndexingCompletedPublishedAfterLastTransaction(t *testing.T) {
	idx, _, bus := newTestIndexer(t)

	received := make(chan uint64, 1)
	bus.Subscribe(BlockIndexingCompleted{}.Kind(), func(ctx context.Context, ev eventbus.Event) error {
		received <- ev.(BlockIndexingCompleted).BlockIndex
		return nil
	})

	block := &txn.Block{BlockIndex: 7, Transactions: []*txn.Transaction{rewardTx("3.000000000")}}
	if err := idx.IndexBlock(context.Background(), block); err != nil {
		t.Fatalf("IndexBlock: %v", err)
	}

	select {
	case idxAt := <-received:
		if idxAt != 7 {
			t.Fatalf("expected BlockIndexingCompleted for block 7, got %d", idxAt)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for BlockIndexingCompleted")
	}
}

func TestFundsTransferDebitsAndCredits(t *testing.T) {
	idx, store, _ := newTestIndexer(t)
	from := identity.Address{0x01}
	to := identity.Address{0x02}

	w := store.Write()
	w.CreditBalance(from, "HUSH", amount.MustParse("10.000000000"))
	if err := w.Commit(); err != nil {
		t.Fatalf("seed balance: %v", err)
	}

	transferTx := &txn.Transaction{
		ID:          ids.New(),
		PayloadKind: txn.KindFundsTransfer,
		Timestamp:   time.Now().UTC(),
		State:       txn.Validated,
		Payload: &txn.FundsTransferPayload{
			Token:     "HUSH",
			Precision: 9,
			Amount:    amount.MustParse("4.000000000"),
			From:      from,
			To:        to,
		},
	}

	block := &txn.Block{BlockIndex: 1, Transactions: []*txn.Transaction{transferTx}}
	if err := idx.IndexBlock(context.Background(), block); err != nil {
		t.Fatalf("IndexBlock: %v", err)
	}

	if got := store.Read().Balance(from, "HUSH"); got.Cmp(amount.MustParse("6.000000000")) != 0 {
		t.Fatalf("expected sender balance 6, got %s", got)
	}
	if got := store.Read().Balance(to, "HUSH"); got.Cmp(amount.MustParse("4.000000000")) != 0 {
		t.Fatalf("expected recipient balance 4, got %s", got)
	}
}
