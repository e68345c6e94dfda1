package chain

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/mempool"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

func newTestAssembler(t *testing.T) (*Assembler, *storage.MemStore, *eventbus.Bus) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	idStore, err := identity.NewStore(identity.StaticKeySource{Key: key})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	mp := mempool.New(bus)
	a := New(store, mp, idStore, bus, "HUSH", amount.MustParse("5.000000000"))
	return a, store, bus
}

func TestAssembleGenesisContainsOnlyRewardTx(t *testing.T) {
	a, store, _ := newTestAssembler(t)

	block, err := a.Assemble(context.Background(), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if !block.IsGenesis() {
		t.Fatalf("expected genesis block, got index %d previous %s", block.BlockIndex, block.PreviousBlockID)
	}
	if len(block.Transactions) != 1 {
		t.Fatalf("expected exactly 1 transaction in genesis block, got %d", len(block.Transactions))
	}
	if block.Transactions[0].PayloadKind != txn.KindReward {
		t.Fatalf("expected reward payload, got %s", block.Transactions[0].PayloadKind)
	}
	if block.Transactions[0].State != txn.Validated {
		t.Fatalf("expected reward tx Validated, got %s", block.Transactions[0].State)
	}

	state, ok := store.Read().ChainState()
	if !ok {
		t.Fatal("expected chain state to exist after genesis")
	}
	if state.BlockIndex != 0 || state.Current != block.BlockID {
		t.Fatalf("unexpected chain state after genesis: %+v", state)
	}
}

func TestAssembleNormalBlockPrependsRewardAndAdvancesState(t *testing.T) {
	a, store, _ := newTestAssembler(t)

	genesis, err := a.Assemble(context.Background(), nil)
	if err != nil {
		t.Fatalf("Assemble genesis: %v", err)
	}

	pendingTx := &txn.Transaction{
		ID:          genesis.NextBlockID, // arbitrary distinct id, content irrelevant to assembler
		PayloadKind: txn.KindReward,
		State:       txn.Validated,
		Payload:     &txn.RewardPayload{Token: "HUSH", Precision: 9, Amount: amount.MustParse("1.000000000")},
	}

	block, err := a.Assemble(context.Background(), []*txn.Transaction{pendingTx})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if block.BlockIndex != 1 {
		t.Fatalf("expected block index 1, got %d", block.BlockIndex)
	}
	if block.PreviousBlockID != genesis.BlockID {
		t.Fatalf("expected previous_block_id to chain to genesis")
	}
	if len(block.Transactions) != 2 {
		t.Fatalf("expected reward + 1 pending tx, got %d", len(block.Transactions))
	}
	if block.Transactions[0].PayloadKind != txn.KindReward {
		t.Fatalf("expected reward tx first")
	}
	if block.Transactions[1].ID != pendingTx.ID {
		t.Fatalf("expected pending tx preserved in FIFO position")
	}

	state, ok := store.Read().ChainState()
	if !ok || state.BlockIndex != 1 || state.Current != block.BlockID {
		t.Fatalf("unexpected chain state after second block: %+v (ok=%v)", state, ok)
	}
}
