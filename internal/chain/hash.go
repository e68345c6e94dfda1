package chain

import (
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// blockHashFields is the RLP-encoded shape a block's hash is computed over
// (spec §4.E step 5: "block_index, previous_id, current_id, next_id,
// timestamp, ordered_tx_hashes").
type blockHashFields struct {
	BlockIndex uint64
	PreviousID [16]byte
	CurrentID  [16]byte
	NextID     [16]byte
	Timestamp  int64
	TxHashes   [][32]byte
}

// computeBlockHash is grounded on the teacher's replication.go block-hash
// idiom (RLP-encode the header, then hash), swapped from double-SHA256 to
// Keccak256 for consistency with the rest of HushNode's go-ethereum/crypto
// usage (transaction digests, signature recovery).
func computeBlockHash(b *txn.Block) ([32]byte, error) {
	hashes := make([][32]byte, len(b.Transactions))
	for i, t := range b.Transactions {
		h, err := t.Digest()
		if err != nil {
			return [32]byte{}, utils.WrapKind(utils.ErrMalformedPayload, err, "digest transaction for block hash")
		}
		hashes[i] = h
	}

	fields := blockHashFields{
		BlockIndex: b.BlockIndex,
		PreviousID: [16]byte(b.PreviousBlockID),
		CurrentID:  [16]byte(b.BlockID),
		NextID:     [16]byte(b.NextBlockID),
		Timestamp:  b.Timestamp.UnixNano(),
		TxHashes:   hashes,
	}
	enc, err := rlp.EncodeToBytes(fields)
	if err != nil {
		return [32]byte{}, utils.WrapKind(utils.ErrMalformedPayload, err, "rlp encode block hash fields")
	}
	return crypto.Keccak256Hash(enc), nil
}
