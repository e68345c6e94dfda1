package indexer

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/reaction"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// rewardStrategy credits a block's reward transaction to its signatory
// (spec §4.E "reward transactions credit the producer").
type rewardStrategy struct {
	bus *eventbus.Bus
}

func (rewardStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindReward
}

func (s rewardStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.RewardPayload)
	w := store.Write()
	defer w.Rollback()
	w.CreditBalance(tx.UserSig.Signatory, pl.Token, pl.Amount)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(RewardCredited{Recipient: tx.UserSig.Signatory, Token: pl.Token})
	return nil
}

// fundsTransferStrategy debits From and credits To by Amount (spec §6
// FundsTransfer). Sufficiency is a mempool-time rejection, not an
// indexing-time one, so Handle never fails for insufficient balance.
type fundsTransferStrategy struct {
	bus *eventbus.Bus
}

func (fundsTransferStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindFundsTransfer
}

func (s fundsTransferStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.FundsTransferPayload)
	w := store.Write()
	defer w.Rollback()
	w.DebitBalance(pl.From, pl.Token, pl.Amount)
	w.CreditBalance(pl.To, pl.Token, pl.Amount)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(FundsTransferIndexed{From: pl.From, To: pl.To, Token: pl.Token})
	return nil
}

// reactionVoteStrategy delegates entirely to reaction.Service, which
// manages its own storage transaction (it must not be handed an
// already-open WriteScope: MemStore's mutex is not reentrant).
type reactionVoteStrategy struct {
	bus      *eventbus.Bus
	reaction *reaction.Service
}

func (reactionVoteStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindReactionVote
}

func (s reactionVoteStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.ReactionVotePayload)
	if err := s.reaction.ProcessVote(pl, blockIndex, tx.Timestamp); err != nil {
		return err
	}
	s.bus.Publish(ReactionVoteIndexed{FeedID: pl.FeedID})
	return nil
}
