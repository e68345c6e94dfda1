package reaction

import (
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
)

// ReactionTallyCreated is published the first time a message receives a
// vote (spec §4.G.4).
type ReactionTallyCreated struct {
	MessageID ids.ID
	FeedID    ids.ID
	Version   uint64
}

func (ReactionTallyCreated) Kind() string { return "ReactionTallyCreated" }

// ReactionTallyUpdated is published on every subsequent-voter or
// vote-change update (spec §4.G.4).
type ReactionTallyUpdated struct {
	MessageID ids.ID
	FeedID    ids.ID
	Version   uint64
}

func (ReactionTallyUpdated) Kind() string { return "ReactionTallyUpdated" }

// Tally implements spec §4.G.4's per-message ElGamal ciphertext update
// semantics: first vote, subsequent first-time voter, and vote-change,
// each running under the store's single write scope (spec §5 "per-message
// mutual exclusion... or equivalent" — the coarse-grained mutex documented
// in internal/storage serialises this globally rather than per message).
type Tally struct {
	store      *storage.MemStore
	nullifiers *NullifierStore
	bus        *eventbus.Bus
}

// NewTally builds a Tally service.
func NewTally(store *storage.MemStore, nullifiers *NullifierStore, bus *eventbus.Bus) *Tally {
	return &Tally{store: store, nullifiers: nullifiers, bus: bus}
}

// Apply records one decoded vote against messageID/feedID, branching on
// whether nullifier has been seen before (spec §4.G.4).
func (t *Tally) Apply(messageID, feedID ids.ID, nullifier [32]byte, vote Vote, encryptedBackup []byte, at time.Time) error {
	previous, isRecurrence, err := t.nullifiers.Observe(nullifier, messageID)
	if err != nil {
		return err
	}
	existing, hasTally := t.store.Read().Tally(messageID)

	w := t.store.Write()
	defer w.Rollback()

	switch {
	case isRecurrence:
		// Vote change: subtract the old vote, add the new one. total_count
		// is unchanged; version still advances (spec §4.G.4).
		updated := subtractVote(existing, Vote{C1: previous.VoteC1, C2: previous.VoteC2})
		updated = addVote(updated, vote)
		updated.Version = w.NextTallyVersion()
		w.UpsertTally(updated)
		t.nullifiers.Record(w, nullifier, messageID, vote, encryptedBackup, at)
		if err := w.Commit(); err != nil {
			return err
		}
		t.publish(ReactionTallyUpdated{MessageID: messageID, FeedID: feedID, Version: updated.Version})
		return nil

	case !hasTally:
		// First vote for this message.
		fresh := &storage.ReactionTally{
			MessageID:  messageID,
			FeedID:     feedID,
			C1:         vote.C1,
			C2:         vote.C2,
			TotalCount: 1,
			Version:    w.NextTallyVersion(),
		}
		w.UpsertTally(fresh)
		t.nullifiers.Record(w, nullifier, messageID, vote, encryptedBackup, at)
		if err := w.Commit(); err != nil {
			return err
		}
		t.publish(ReactionTallyCreated{MessageID: messageID, FeedID: feedID, Version: fresh.Version})
		return nil

	default:
		// Subsequent first-time voter.
		updated := addVote(existing, vote)
		updated.TotalCount = existing.TotalCount + 1
		updated.Version = w.NextTallyVersion()
		w.UpsertTally(updated)
		t.nullifiers.Record(w, nullifier, messageID, vote, encryptedBackup, at)
		if err := w.Commit(); err != nil {
			return err
		}
		t.publish(ReactionTallyUpdated{MessageID: messageID, FeedID: feedID, Version: updated.Version})
		return nil
	}
}

func (t *Tally) publish(ev eventbus.Event) {
	if t.bus != nil {
		t.bus.Publish(ev)
	}
}

// addVote homomorphically adds vote into tally componentwise
// (spec §4.G.4 "tally' = tally ⊕ vote").
func addVote(tally *storage.ReactionTally, vote Vote) *storage.ReactionTally {
	out := &storage.ReactionTally{
		MessageID:  tally.MessageID,
		FeedID:     tally.FeedID,
		TotalCount: tally.TotalCount,
		Version:    tally.Version,
	}
	for i := 0; i < 6; i++ {
		c1 := Add(mustDecode(tally.C1[i]), mustDecode(vote.C1[i]))
		c2 := Add(mustDecode(tally.C2[i]), mustDecode(vote.C2[i]))
		out.C1[i] = Encode(c1)
		out.C2[i] = Encode(c2)
	}
	return out
}

// subtractVote homomorphically removes vote from tally componentwise
// (spec §4.G.4 "tally' = tally ⊖ old_vote ⊕ new_vote").
func subtractVote(tally *storage.ReactionTally, vote Vote) *storage.ReactionTally {
	out := &storage.ReactionTally{
		MessageID:  tally.MessageID,
		FeedID:     tally.FeedID,
		TotalCount: tally.TotalCount,
		Version:    tally.Version,
	}
	for i := 0; i < 6; i++ {
		c1 := Sub(mustDecode(tally.C1[i]), mustDecode(vote.C1[i]))
		c2 := Sub(mustDecode(tally.C2[i]), mustDecode(vote.C2[i]))
		out.C1[i] = Encode(c1)
		out.C2[i] = Encode(c2)
	}
	return out
}

// mustDecode decodes a stored ciphertext half, treating an absent/empty
// encoding as the curve identity (spec's zero ciphertext for an emoji slot
// nobody voted for yet).
func mustDecode(raw []byte) Point {
	if len(raw) == 0 {
		return Identity()
	}
	p, err := Decode(raw)
	if err != nil {
		return Identity()
	}
	return p
}
