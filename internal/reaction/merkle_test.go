package reaction

import (
	"context"
	"testing"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
)

func TestRegisterIsIdempotent(t *testing.T) {
	store := storage.NewMemStore()
	m, err := NewMembership(store, 4)
	if err != nil {
		t.Fatalf("NewMembership: %v", err)
	}
	feedID := ids.New()
	var c [32]byte
	c[0] = 7

	root1, idx1, err := m.Register(context.Background(), feedID, c, 1, time.Now())
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	root2, idx2, err := m.Register(context.Background(), feedID, c, 1, time.Now())
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if idx1 != idx2 || root1 != root2 {
		t.Fatalf("duplicate register should return the same root/index, got (%x,%d) vs (%x,%d)", root1, idx1, root2, idx2)
	}
}

func TestRegisterChangesRoot(t *testing.T) {
	store := storage.NewMemStore()
	m, err := NewMembership(store, 4)
	if err != nil {
		t.Fatalf("NewMembership: %v", err)
	}
	feedID := ids.New()
	var c1, c2 [32]byte
	c1[0], c2[0] = 1, 2

	root1, _, err := m.Register(context.Background(), feedID, c1, 1, time.Now())
	if err != nil {
		t.Fatalf("register c1: %v", err)
	}
	root2, _, err := m.Register(context.Background(), feedID, c2, 1, time.Now())
	if err != nil {
		t.Fatalf("register c2: %v", err)
	}
	if root1 == root2 {
		t.Fatalf("root should change after a second registration")
	}
}

func TestProveUnknownCommitmentReturnsNotMember(t *testing.T) {
	store := storage.NewMemStore()
	m, err := NewMembership(store, 4)
	if err != nil {
		t.Fatalf("NewMembership: %v", err)
	}
	var c [32]byte
	_, err = m.Prove(ids.New(), c)
	if err == nil {
		t.Fatal("expected NotMember error for unregistered commitment")
	}
}

func TestValidateRootAcceptsWithinGraceWindow(t *testing.T) {
	store := storage.NewMemStore()
	m, err := NewMembership(store, 4)
	if err != nil {
		t.Fatalf("NewMembership: %v", err)
	}
	feedID := ids.New()

	var roots [][32]byte
	for i := byte(0); i < 4; i++ {
		var c [32]byte
		c[0] = i
		root, _, err := m.Register(context.Background(), feedID, c, uint64(i), time.Now())
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		roots = append(roots, root)
	}

	if !m.ValidateRoot(feedID, roots[len(roots)-1], DefaultGrace) {
		t.Fatal("most recent root should validate")
	}
	if !m.ValidateRoot(feedID, roots[1], 3) {
		t.Fatal("a root within the grace window should validate")
	}
	if m.ValidateRoot(feedID, roots[0], 3) {
		t.Fatal("a root outside the grace window should not validate")
	}
}
