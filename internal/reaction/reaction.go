package reaction

import (
	"context"
	"time"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// Service composes Membership, Verifier, NullifierStore and Tally into the
// single entry point the indexer's ReactionVote strategy calls (spec
// §4.G umbrella: "the hardest subsystem").
type Service struct {
	Membership *Membership
	Verifier   *Verifier
	Nullifiers *NullifierStore
	Tally      *Tally
	Grace      int
}

// NewService wires the four reaction sub-components together.
func NewService(store *storage.MemStore, bus *eventbus.Bus, depth int) (*Service, error) {
	membership, err := NewMembership(store, depth)
	if err != nil {
		return nil, err
	}
	nullifiers := NewNullifierStore(store)
	return &Service{
		Membership: membership,
		Verifier:   NewVerifier(),
		Nullifiers: nullifiers,
		Tally:      NewTally(store, nullifiers, bus),
		Grace:      DefaultGrace,
	}, nil
}

// ProcessVote runs the full spec §4.G pipeline for one ReactionVotePayload:
// validate the Merkle root's freshness, verify the proof, then apply the
// vote to the tally (first-vote / subsequent-voter / vote-change).
func (s *Service) ProcessVote(pl *txn.ReactionVotePayload, blockIndex uint64, at time.Time) error {
	if !s.Membership.ValidateRoot(pl.FeedID, pl.MerkleRoot, s.Grace) {
		return utils.New(utils.ErrUnknownMerkleRoot, "merkle root outside grace window")
	}

	// feed_pk isn't carried on the wire payload: the circuit's feed_pk
	// public input is reconstructed here from the feed identifier itself,
	// since HushNode pins a feed's reaction key material to its FeedID
	// rather than issuing a separate per-feed signing key.
	var feedPK [32]byte
	copy(feedPK[:16], pl.FeedID[:])
	public := PublicInputs{
		Nullifier:        pl.Nullifier,
		CiphertextC1:     pl.CiphertextC1,
		CiphertextC2:     pl.CiphertextC2,
		MessageID:        [16]byte(pl.MessageID),
		FeedPK:           feedPK,
		MerkleRoot:       pl.MerkleRoot,
		AuthorCommitment: pl.AuthorCommitment,
	}
	if _, err := s.Verifier.Verify(pl.CircuitVersion, pl.Proof, public); err != nil {
		return err
	}

	vote := Vote{C1: pl.CiphertextC1, C2: pl.CiphertextC2}
	return s.Tally.Apply(pl.MessageID, pl.FeedID, pl.Nullifier, vote, pl.EncryptedBackup, at)
}

// RegisterMember appends a member's commitment to feedID's Merkle tree
// (spec §4.G.1 register, invoked by the group-feed message index strategy
// with the author's commitment, not by ReactionVote).
func (s *Service) RegisterMember(ctx context.Context, feedID ids.ID, commitment [32]byte, blockIndex uint64, at time.Time) ([32]byte, int, error) {
	return s.Membership.Register(ctx, feedID, commitment, blockIndex, at)
}
