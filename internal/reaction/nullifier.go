package reaction

import (
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// Vote is one decoded ElGamal ciphertext halves pair, as carried by a
// ReactionVotePayload (spec §4.G.4).
type Vote struct {
	C1 [6][]byte
	C2 [6][]byte
}

// NullifierStore tracks which nullifiers have been observed, distinguishing
// a brand-new vote from a vote-change on the same nullifier (spec §4.G.3).
type NullifierStore struct {
	store *storage.MemStore
}

// NewNullifierStore wraps store.
func NewNullifierStore(store *storage.MemStore) *NullifierStore {
	return &NullifierStore{store: store}
}

// Observe looks up nullifier against messageID. If it has never been seen,
// the caller should treat this as a new vote; if seen on the same message,
// the returned record is the previous vote the caller must subtract from
// the tally before adding the new one (spec §4.G.3 "treat as vote-change:
// the tally must subtract the stored ciphertext and add the new one"). If
// the nullifier was seen on a *different* message, it is a replay attempt
// across messages, not a vote-change, and must be rejected with
// ErrNullifierReuseOnOther (spec §4.G.3).
func (n *NullifierStore) Observe(nullifier [32]byte, messageID ids.ID) (previous *storage.ReactionNullifier, isRecurrence bool, err error) {
	rec, ok := n.store.Read().Nullifier(nullifier)
	if !ok {
		return nil, false, nil
	}
	if rec.MessageID != messageID {
		return nil, false, utils.Newf(utils.ErrNullifierReuseOnOther, "nullifier already used on message %s", rec.MessageID.String())
	}
	return rec, true, nil
}

// Record persists nullifier's current vote (initial insert or update after
// a vote-change), via an already-open WriteScope so it commits atomically
// with the tally mutation it accompanies.
func (n *NullifierStore) Record(w *storage.WriteScope, nullifier [32]byte, messageID ids.ID, vote Vote, encryptedBackup []byte, at time.Time) {
	w.PutNullifier(&storage.ReactionNullifier{
		Nullifier:       nullifier,
		MessageID:       messageID,
		VoteC1:          vote.C1,
		VoteC2:          vote.C2,
		EncryptedBackup: encryptedBackup,
		UpdatedAt:       at,
	})
}
