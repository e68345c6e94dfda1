// Package storage implements HushNode's persisted tables and the
// unit-of-work scopes (read-only and writable) every other component reads
// and writes through (spec §3 "Ownership", §6 persisted tables). Grounded
// on Synnergy's in-memory Ledger (core/ledger.go): mutex-guarded maps plus
// slices, mutated directly under lock, generalised here into explicit
// read and write scopes. A writable scope's mutators apply directly while it
// holds the store lock; Rollback releases the lock but does not undo
// mutations already made, so callers validate before mutating.
package storage

import (
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/amount"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// AddressBalance is spec §3's per-address, per-token balance row. An absent
// row is zero balance; see Read.Balance.
type AddressBalance struct {
	Address identity.Address
	Token   string
	Balance amount.Amount
}

// Feed is spec §3's Feed entity (participants live in the FeedParticipant
// table, not embedded, so role changes don't rewrite the feed row).
type Feed struct {
	FeedID              ids.ID
	Title               string
	Description         string
	FeedType            txn.FeedType
	IsPublic            bool
	CreatedAtBlock      uint64
	CurrentKeyGeneration uint64
}

// FeedParticipant is spec §3's FeedParticipant row.
type FeedParticipant struct {
	FeedID            ids.ID
	Address           identity.Address
	Role              txn.ParticipantRole
	EncryptedFeedKey  []byte
	KeyGeneration     uint64
}

// FeedMessage is spec §3's FeedMessage row.
type FeedMessage struct {
	MessageID        ids.ID
	FeedID           ids.ID
	EncryptedContent []byte
	AuthorAddress    identity.Address
	Timestamp        time.Time
	BlockIndex       uint64
	AuthorCommitment []byte
	ReplyTo          *ids.ID
}

// GroupFeedKeyGeneration is spec §3's GroupFeedKeyGeneration row plus its
// N encrypted-key rows, kept inline since they're always read together.
type GroupFeedKeyGeneration struct {
	FeedID         ids.ID
	Generation     uint64
	ValidFromBlock uint64
	Trigger        txn.KeyRotationTrigger
	EncryptedKeys  []txn.EncryptedKeyEntry
}

// ReactionTally is spec §3's per-message ReactionTally row: six ElGamal
// ciphertexts (one per emoji slot), each an (C1, C2) pair of raw,
// curve-encoded point bytes (decoded by internal/reaction).
type ReactionTally struct {
	MessageID   ids.ID
	FeedID      ids.ID
	C1          [6][]byte
	C2          [6][]byte
	TotalCount  uint64
	Version     uint64
}

// ReactionNullifier is spec §3's ReactionNullifier row.
type ReactionNullifier struct {
	Nullifier       [32]byte
	MessageID       ids.ID
	VoteC1          [6][]byte
	VoteC2          [6][]byte
	EncryptedBackup []byte
	UpdatedAt       time.Time
}

// MerkleRootEntry is one row of spec §3's MerkleRootHistory log.
type MerkleRootEntry struct {
	FeedID     ids.ID
	Root       [32]byte
	BlockIndex uint64
	CreatedAt  time.Time
}

// FeedMemberCommitment is spec §3's FeedMemberCommitment row; leaf index is
// the row's ordinal among all rows for FeedID ordered by RegisteredAt (the
// slice position in MemStore.commitments).
type FeedMemberCommitment struct {
	FeedID       ids.ID
	Commitment   [32]byte
	RegisteredAt time.Time
}
