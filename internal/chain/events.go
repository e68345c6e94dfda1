package chain

import "github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"

// BlockCreated is published after a block and its chain-state update commit
// together (spec §4.E step 7).
type BlockCreated struct {
	Block *txn.Block
}

func (BlockCreated) Kind() string { return "BlockCreated" }

// BlockchainInitialized is published once, after the genesis block commits
// (spec §4.E "Emit BlockchainInitialized afterwards").
type BlockchainInitialized struct {
	Genesis *txn.Block
}

func (BlockchainInitialized) Kind() string { return "BlockchainInitialized" }
