package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/config"
)

func TestBuildNodeWiresEveryComponent(t *testing.T) {
	cfg := config.Default()
	cfg.Producer.CredentialFile = filepath.Join(t.TempDir(), "producer.key")

	n, err := buildNode(&cfg)
	if err != nil {
		t.Fatalf("buildNode: %v", err)
	}
	defer n.bus.Close()

	if n.identity.ProducerAddress().String() == "" {
		t.Fatal("expected a derived producer address")
	}
}

func TestBuildNodePersistsAndReloadsProducerKey(t *testing.T) {
	cfg := config.Default()
	cfg.Producer.CredentialFile = filepath.Join(t.TempDir(), "producer.key")

	first, err := buildNode(&cfg)
	if err != nil {
		t.Fatalf("buildNode (first): %v", err)
	}
	defer first.bus.Close()

	second, err := buildNode(&cfg)
	if err != nil {
		t.Fatalf("buildNode (second): %v", err)
	}
	defer second.bus.Close()

	if first.identity.ProducerAddress() != second.identity.ProducerAddress() {
		t.Fatal("expected the same producer address across reloads of a persisted key")
	}
}

func TestGenesisAssemblesOneBlock(t *testing.T) {
	cfg := config.Default()
	cfg.Producer.CredentialFile = filepath.Join(t.TempDir(), "producer.key")

	n, err := buildNode(&cfg)
	if err != nil {
		t.Fatalf("buildNode: %v", err)
	}
	defer n.bus.Close()

	block, err := n.assembler.Assemble(context.Background(), nil)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if block.BlockIndex != 0 {
		t.Fatalf("expected genesis block index 0, got %d", block.BlockIndex)
	}
	if len(block.Transactions) != 1 {
		t.Fatalf("expected genesis block to contain exactly the reward transaction, got %d", len(block.Transactions))
	}
}
