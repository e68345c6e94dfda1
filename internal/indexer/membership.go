package indexer

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/eventbus"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/storage"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
)

// joinGroupFeedStrategy adds a new member at RoleMember (spec §4.F
// "GroupFeed lifecycle").
type joinGroupFeedStrategy struct {
	bus *eventbus.Bus
}

func (joinGroupFeedStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindJoinGroupFeed
}

func (s joinGroupFeedStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.JoinGroupFeedPayload)
	w := store.Write()
	defer w.Rollback()
	w.PutParticipant(&storage.FeedParticipant{
		FeedID:  pl.FeedID,
		Address: pl.UserAddress,
		Role:    txn.RoleMember,
	})
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.UserAddress, Role: int(txn.RoleMember)})
	return nil
}

// addMemberToGroupStrategy adds an admin-invited member at RoleMember,
// carrying the member's encrypted feed key (spec §6 AddMemberToGroup).
type addMemberToGroupStrategy struct {
	bus *eventbus.Bus
}

func (addMemberToGroupStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindAddMemberToGroup
}

func (s addMemberToGroupStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.AddMemberToGroupPayload)
	w := store.Write()
	defer w.Rollback()
	w.PutParticipant(&storage.FeedParticipant{
		FeedID:           pl.FeedID,
		Address:          pl.NewMember,
		Role:             txn.RoleMember,
		EncryptedFeedKey: pl.NewMemberEncryptKey,
	})
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.NewMember, Role: int(txn.RoleMember)})
	return nil
}

// banFromGroupStrategy sets the target participant's role to RoleBanned
// (spec §6 BanFromGroup).
type banFromGroupStrategy struct {
	bus *eventbus.Bus
}

func (banFromGroupStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindBanFromGroup
}

func (s banFromGroupStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.BanFromGroupPayload)
	w := store.Write()
	defer w.Rollback()
	w.SetParticipantRole(pl.FeedID, pl.Banned, txn.RoleBanned)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.Banned, Role: int(txn.RoleBanned)})
	return nil
}

// unbanFromGroupStrategy restores a banned participant to RoleMember (spec
// §6 UnbanFromGroup).
type unbanFromGroupStrategy struct {
	bus *eventbus.Bus
}

func (unbanFromGroupStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindUnbanFromGroup
}

func (s unbanFromGroupStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.UnbanFromGroupPayload)
	w := store.Write()
	defer w.Rollback()
	w.SetParticipantRole(pl.FeedID, pl.Unbanned, txn.RoleMember)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.Unbanned, Role: int(txn.RoleMember)})
	return nil
}

// blockMemberStrategy sets the target participant's role to RoleBlocked; a
// blocked member stays visible in feed reads. Only the role changes: no
// mempool handler or indexer strategy checks RoleBlocked, so posting,
// joining and key-rotation recipients are not restricted by it.
type blockMemberStrategy struct {
	bus *eventbus.Bus
}

func (blockMemberStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindBlockMember
}

func (s blockMemberStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.BlockMemberPayload)
	w := store.Write()
	defer w.Rollback()
	w.SetParticipantRole(pl.FeedID, pl.Blocked, txn.RoleBlocked)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.Blocked, Role: int(txn.RoleBlocked)})
	return nil
}

// unblockMemberStrategy restores a blocked participant to RoleMember (spec
// §6 UnblockMember).
type unblockMemberStrategy struct {
	bus *eventbus.Bus
}

func (unblockMemberStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindUnblockMember
}

func (s unblockMemberStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.UnblockMemberPayload)
	w := store.Write()
	defer w.Rollback()
	w.SetParticipantRole(pl.FeedID, pl.Unblocked, txn.RoleMember)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.Unblocked, Role: int(txn.RoleMember)})
	return nil
}

// promoteToAdminStrategy sets the target participant's role to RoleAdmin
// (spec §6 PromoteToAdmin).
type promoteToAdminStrategy struct {
	bus *eventbus.Bus
}

func (promoteToAdminStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindPromoteToAdmin
}

func (s promoteToAdminStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.PromoteToAdminPayload)
	w := store.Write()
	defer w.Rollback()
	w.SetParticipantRole(pl.FeedID, pl.Member, txn.RoleAdmin)
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(MembershipChanged{FeedID: pl.FeedID, Address: pl.Member, Role: int(txn.RoleAdmin)})
	return nil
}

// groupKeyRotationStrategy records a new GroupFeedKeyGeneration and updates
// each recipient's EncryptedFeedKey/KeyGeneration in place. Current
// participant rows are read before the write scope opens, matching the rest
// of the package's read-before-write discipline.
type groupKeyRotationStrategy struct {
	bus *eventbus.Bus
}

func (groupKeyRotationStrategy) CanHandle(kind txn.PayloadKind) bool {
	return kind == txn.KindGroupKeyRotation
}

func (s groupKeyRotationStrategy) Handle(ctx context.Context, store *storage.MemStore, tx *txn.Transaction, blockIndex uint64) error {
	pl := tx.Payload.(*txn.GroupKeyRotationPayload)
	read := store.Read()
	updates := make([]*storage.FeedParticipant, 0, len(pl.EncryptedKeys))
	for _, entry := range pl.EncryptedKeys {
		p, ok := read.FeedParticipant(pl.FeedID, entry.Member)
		if !ok {
			continue
		}
		updated := *p
		updated.EncryptedFeedKey = entry.EncryptedKey
		updated.KeyGeneration = pl.NewGen
		updates = append(updates, &updated)
	}

	w := store.Write()
	defer w.Rollback()
	w.PutKeyGeneration(&storage.GroupFeedKeyGeneration{
		FeedID:         pl.FeedID,
		Generation:     pl.NewGen,
		ValidFromBlock: pl.ValidFromBlock,
		Trigger:        pl.Trigger,
		EncryptedKeys:  pl.EncryptedKeys,
	})
	for _, p := range updates {
		w.PutParticipant(p)
	}
	if err := w.Commit(); err != nil {
		return err
	}
	s.bus.Publish(GroupFeedKeyRotated{FeedID: pl.FeedID, Generation: pl.NewGen})
	return nil
}
