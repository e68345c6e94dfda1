package indexer

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// personalFeedStrategy projects KindNewPersonalFeed into a Feed row plus its
// owner's FeedParticipant row. A personal feed doubles as its owner's
// identity/profile entity (spec §4.F names a separate Identity/Profile
// strategy, but the data model carries no dedicated payload for it — a
// user's personal feed is the only per-user entity created on-chain, so this
// strategy also serves that role).
type personalFeedStrategy struct {
	bus *eventbus.Bus
}

func (personalFeedStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindNewPersonalFeed
}

func (s personalFeedStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.NewPersonalFeedPayload)
	w := store.Write()
	defer w.Rollback()
	w.PutFeed(&storage.Feed{
		FeedID:         pl.FeedID,
		Title:          pl.Title,
		FeedType:       pl.FeedType,
		IsPublic:       false,
		CreatedAtBlock: blockIndex,
	})
	w.PutParticipant(&storage.FeedParticipant{
		FeedID:           pl.FeedID,
		Address:          tx.UserSig.Signatory,
		Role:             txn.RoleOwner,
		EncryptedFeedKey: pl.EncryptedFeedKey,
	})
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(FeedCreated{FeedID: pl.FeedID})
	return nil
}

// chatFeedStrategy projects KindNewChatFeed into a Feed row plus one
// FeedParticipant per invited participant.
type chatFeedStrategy struct {
	bus *eventbus.Bus
}

func (chatFeedStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindNewChatFeed
}

func (s chatFeedStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.NewChatFeedPayload)
	w := store.Write()
	defer w.Rollback()
	w.PutFeed(&storage.Feed{
		FeedID:         pl.FeedID,
		FeedType:       pl.FeedType,
		IsPublic:       false,
		CreatedAtBlock: blockIndex,
	})
	for _, p := range pl.Participants {
		w.PutParticipant(&storage.FeedParticipant{
			FeedID:           pl.FeedID,
			Address:          p.Address,
			Role:             txn.RoleMember,
			EncryptedFeedKey: p.EncryptedKey,
		})
	}
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(FeedCreated{FeedID: pl.FeedID})
	return nil
}

// groupFeedStrategy projects KindNewGroupFeed into a Feed row plus one
// FeedParticipant per seeded member, at each seed's requested role.
type groupFeedStrategy struct {
	bus *eventbus.Bus
}

func (groupFeedStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindNewGroupFeed
}

func (s groupFeedStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.NewGroupFeedPayload)
	w := store.Write()
	defer w.Rollback()
	w.PutFeed(&storage.Feed{
		FeedID:         pl.FeedID,
		Title:          pl.Title,
		Description:    pl.Description,
		FeedType:       txn.FeedGroup,
		IsPublic:       pl.IsPublic,
		CreatedAtBlock: blockIndex,
	})
	for _, p := range pl.Participants {
		w.PutParticipant(&storage.FeedParticipant{
			FeedID:           pl.FeedID,
			Address:          p.Address,
			Role:             p.Role,
			EncryptedFeedKey: p.EncryptedKey,
		})
	}
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(FeedCreated{FeedID: pl.FeedID})
	return nil
}

// deleteGroupFeedStrategy projects KindDeleteGroupFeed.
type deleteGroupFeedStrategy struct {
	bus *eventbus.Bus
}

func (deleteGroupFeedStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindDeleteGroupFeed
}

func (s deleteGroupFeedStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.DeleteGroupFeedPayload)
	w := store.Write()
	defer w.Rollback()
	w.DeleteFeed(pl.FeedID)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(GroupFeedDeleted{FeedID: pl.FeedID})
	return nil
}

// updateGroupTitleStrategy and updateGroupDescriptionStrategy patch one
// field of an existing Feed row; the current row is read before the write
// scope opens (MemStore's mutex isn't reentrant, so Read and Write can't
// interleave on one goroutine).
type updateGroupTitleStrategy struct {
	bus *eventbus.Bus
}

func (updateGroupTitleStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindUpdateGroupTitle
}

func (s updateGroupTitleStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.UpdateGroupTitlePayload)
	existing, ok := store.Read().Feed(pl.FeedID)
	if !ok {
		return unknownFeed(pl.FeedID)
	}
	updated := *existing
	updated.Title = pl.NewTitle
	w := store.Write()
	defer w.Rollback()
	w.PutFeed(&updated)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(GroupFeedUpdated{FeedID: pl.FeedID})
	return nil
}

type updateGroupDescriptionStrategy struct {
	bus *eventbus.Bus
}

func (updateGroupDescriptionStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindUpdateGroupDescription
}

func (s updateGroupDescriptionStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.UpdateGroupDescriptionPayload)
	existing, ok := store.Read().Feed(pl.FeedID)
	if !ok {
		return unknownFeed(pl.FeedID)
	}
	updated := *existing
	updated.Description = pl.NewDescription
	w := store.Write()
	defer w.Rollback()
	w.PutFeed(&updated)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(GroupFeedUpdated{FeedID: pl.FeedID})
	return nil
}
