package storage

import (
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

func TestAbsentBalanceIsZero(t *testing.T) {
	s := NewMemStore()
	var addr identity.Address
	bal := s.Read().Balance(addr, "HUSH")
	if !bal.IsZero() {
		t.Fatalf("expected zero balance for unknown address, got %s", bal)
	}
}

func TestCreditAndDebitBalance(t *testing.T) {
	s := NewMemStore()
	var addr identity.Address

	w := s.Write()
	w.CreditBalance(addr, "HUSH", amount.MustParse("10.000000000"))
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if got := s.Read().Balance(addr, "HUSH"); got.String() != "10.000000000" {
		t.Fatalf("expected 10.000000000, got %s", got)
	}

	w2 := s.Write()
	w2.DebitBalance(addr, "HUSH", amount.MustParse("4.000000000"))
	if err := w2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got := s.Read().Balance(addr, "HUSH"); got.String() != "6.000000000" {
		t.Fatalf("expected 6.000000000, got %s", got)
	}
}

func TestChainStateAbsentBeforeGenesis(t *testing.T) {
	s := NewMemStore()
	if _, ok := s.Read().ChainState(); ok {
		t.Fatal("expected no chain state before genesis")
	}
}

func TestFeedParticipantRoleUpdate(t *testing.T) {
	s := NewMemStore()
	feedID := ids.New()
	var admin identity.Address

	w := s.Write()
	w.PutFeed(&Feed{FeedID: feedID, Title: "group", FeedType: txn.FeedGroup})
	w.PutParticipant(&FeedParticipant{FeedID: feedID, Address: admin, Role: txn.RoleMember})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	w2 := s.Write()
	w2.SetParticipantRole(feedID, admin, txn.RoleAdmin)
	if err := w2.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	p, ok := s.Read().FeedParticipant(feedID, admin)
	if !ok || p.Role != txn.RoleAdmin {
		t.Fatalf("expected role Admin, got %+v (ok=%v)", p, ok)
	}
}

func TestCommitmentLeafIndexIsInsertionOrdinal(t *testing.T) {
	s := NewMemStore()
	feedID := ids.New()

	var c1, c2 [32]byte
	c1[0], c2[0] = 1, 2

	w := s.Write()
	idx1 := w.AppendCommitment(feedID, c1, time.Now())
	idx2 := w.AppendCommitment(feedID, c2, time.Now())
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	if idx1 != 0 || idx2 != 1 {
		t.Fatalf("expected leaf indices 0,1 got %d,%d", idx1, idx2)
	}

	got, ok := s.Read().CommitmentIndex(feedID, c2)
	if !ok || got != 1 {
		t.Fatalf("expected commitment index 1, got %d (ok=%v)", got, ok)
	}
}

func TestTalliesSinceOrdersByVersionAndFiltersZeroCount(t *testing.T) {
	s := NewMemStore()
	feedID := ids.New()

	w := s.Write()
	w.UpsertTally(&ReactionTally{MessageID: ids.New(), FeedID: feedID, TotalCount: 1, Version: 2})
	w.UpsertTally(&ReactionTally{MessageID: ids.New(), FeedID: feedID, TotalCount: 1, Version: 1})
	w.UpsertTally(&ReactionTally{MessageID: ids.New(), FeedID: feedID, TotalCount: 0, Version: 3})
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got := s.Read().TalliesSince([]ids.ID{feedID}, 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 tallies (zero-count excluded), got %d", len(got))
	}
	if got[0].Version != 1 || got[1].Version != 2 {
		t.Fatalf("expected ascending version order, got %d,%d", got[0].Version, got[1].Version)
	}
}
