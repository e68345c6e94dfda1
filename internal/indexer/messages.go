package indexer

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/reaction"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// feedMessageStrategy projects KindNewFeedMessage (personal and chat feeds,
// no anonymous-reaction membership involved).
type feedMessageStrategy struct {
	bus *eventbus.Bus
}

func (feedMessageStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindNewFeedMessage
}

func (s feedMessageStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.NewFeedMessagePayload)
	w := store.Write()
	defer w.Rollback()
	w.PutMessage(&storage.FeedMessage{
		MessageID:        pl.MessageID,
		FeedID:           pl.FeedID,
		EncryptedContent: pl.Content,
		AuthorAddress:    tx.UserSig.Signatory,
		Timestamp:        tx.Timestamp,
		BlockIndex:       blockIndex,
		AuthorCommitment: pl.AuthorCommitment,
		ReplyTo:          pl.ReplyTo,
	})
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(FeedMessageIndexed{MessageID: pl.MessageID, FeedID: pl.FeedID})
	return nil
}

// groupFeedMessageStrategy projects KindNewGroupFeedMessage. A group
// message's AuthorCommitment doubles as its author's anonymous-reaction
// membership leaf: since the data model carries no dedicated "register
// member" payload, the first message an author posts under a given
// commitment lazily registers it (Membership.Register is idempotent,
// appending iff the commitment is absent).
type groupFeedMessageStrategy struct {
	bus      *eventbus.Bus
	reaction *reaction.Service
}

func (groupFeedMessageStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindNewGroupFeedMessage
}

func (s groupFeedMessageStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.NewGroupFeedMessagePayload)
	w := store.Write()
	defer w.Rollback()
	w.PutMessage(&storage.FeedMessage{
		MessageID:        pl.MessageID,
		FeedID:           pl.FeedID,
		EncryptedContent: pl.Content,
		AuthorAddress:    tx.UserSig.Signatory,
		Timestamp:        tx.Timestamp,
		BlockIndex:       blockIndex,
		AuthorCommitment: pl.AuthorCommitment,
		ReplyTo:          pl.ReplyTo,
	})
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(FeedMessageIndexed{MessageID: pl.MessageID, FeedID: pl.FeedID})

	if len(pl.AuthorCommitment) == 32 && s.reaction != nil {
		var commitment [32]byte
		copy(commitment[:], pl.AuthorCommitment)
		if _, _, err := s.reaction.RegisterMember(ctx, pl.FeedID, commitment, blockIndex, tx.Timestamp); err != nil {
			return err
		}
	}
	return nil
}
