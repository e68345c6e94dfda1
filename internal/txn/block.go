package txn

import (
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
)

// Block is an ordered sequence of Validated transactions plus chain-linkage
// metadata (spec §3).
type Block struct {
	BlockID         ids.ID
	BlockIndex      uint64
	PreviousBlockID ids.ID
	NextBlockID     ids.ID
	Timestamp       time.Time
	Hash            [32]byte
	Transactions    []*Transaction
}

// IsGenesis reports whether b is block 0 (previous = empty, spec §3).
func (b *Block) IsGenesis() bool {
	return b.BlockIndex == 0 && b.PreviousBlockID.IsEmpty()
}

// BlockchainState is the single-row chain-state pointer (spec §3).
type BlockchainState struct {
	StateID    ids.ID
	BlockIndex uint64
	Previous   ids.ID
	Current    ids.ID
	Next       ids.ID
}
