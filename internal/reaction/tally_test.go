package reaction

import (
	"math/big"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

func voteAt(scalar int64) Vote {
	g := Generator()
	var v Vote
	for i := 0; i < 6; i++ {
		p := ScalarMul(big.NewInt(scalar+int64(i)), g)
		v.C1[i] = Encode(p)
		v.C2[i] = Encode(p)
	}
	return v
}

func newTestTally(t *testing.T) (*Tally, *storage.MemStore) {
	t.Helper()
	store := storage.NewMemStore()
	bus := eventbus.New()
	t.Cleanup(bus.Close)
	nullifiers := NewNullifierStore(store)
	return NewTally(store, nullifiers, bus), store
}

func TestFirstVoteCreatesTally(t *testing.T) {
	tally, store := newTestTally(t)
	messageID, feedID := ids.New(), ids.New()
	var nullifier [32]byte
	nullifier[0] = 1

	if err := tally.Apply(messageID, feedID, nullifier, voteAt(1), nil, time.Now()); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	row, ok := store.Read().Tally(messageID)
	if !ok {
		t.Fatal("expected tally row to exist")
	}
	if row.TotalCount != 1 {
		t.Fatalf("expected total_count 1, got %d", row.TotalCount)
	}
	if row.Version != 1 {
		t.Fatalf("expected version 1, got %d", row.Version)
	}
}

func TestSubsequentVoterIncrementsCountAndVersion(t *testing.T) {
	tally, store := newTestTally(t)
	messageID, feedID := ids.New(), ids.New()
	var n1, n2 [32]byte
	n1[0], n2[0] = 1, 2

	if err := tally.Apply(messageID, feedID, n1, voteAt(1), nil, time.Now()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := tally.Apply(messageID, feedID, n2, voteAt(2), nil, time.Now()); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	row, _ := store.Read().Tally(messageID)
	if row.TotalCount != 2 {
		t.Fatalf("expected total_count 2, got %d", row.TotalCount)
	}
	if row.Version != 2 {
		t.Fatalf("expected version 2, got %d", row.Version)
	}
}

func TestVoteChangeLeavesCountUnchangedButAdvancesVersion(t *testing.T) {
	tally, store := newTestTally(t)
	messageID, feedID := ids.New(), ids.New()
	var nullifier [32]byte
	nullifier[0] = 1

	if err := tally.Apply(messageID, feedID, nullifier, voteAt(1), nil, time.Now()); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := tally.Apply(messageID, feedID, nullifier, voteAt(5), nil, time.Now()); err != nil {
		t.Fatalf("vote change apply: %v", err)
	}

	row, _ := store.Read().Tally(messageID)
	if row.TotalCount != 1 {
		t.Fatalf("expected total_count unchanged at 1, got %d", row.TotalCount)
	}
	if row.Version != 2 {
		t.Fatalf("expected version to advance to 2, got %d", row.Version)
	}

	expected := voteAt(5)
	if string(row.C1[0]) != string(expected.C1[0]) {
		t.Fatalf("expected tally to reflect the replacement vote, not the original")
	}
}

func TestNullifierReplayOnDifferentMessageIsRejected(t *testing.T) {
	tally, store := newTestTally(t)
	messageA, feedID := ids.New(), ids.New()
	messageB := ids.New()
	var nullifier [32]byte
	nullifier[0] = 1

	if err := tally.Apply(messageA, feedID, nullifier, voteAt(1), nil, time.Now()); err != nil {
		t.Fatalf("first apply: %v", err)
	}

	err := tally.Apply(messageB, feedID, nullifier, voteAt(2), nil, time.Now())
	if !utils.Is(err, utils.ErrNullifierReuseOnOther) {
		t.Fatalf("expected ErrNullifierReuseOnOther, got %v", err)
	}

	if _, ok := store.Read().Tally(messageB); ok {
		t.Fatal("expected no tally to have been created for message B")
	}
	rowA, _ := store.Read().Tally(messageA)
	if rowA.TotalCount != 1 || rowA.Version != 1 {
		t.Fatalf("expected message A's tally to be untouched by the rejected replay, got %+v", rowA)
	}
}
