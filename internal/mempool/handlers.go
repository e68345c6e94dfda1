package mempool

import (
	"context"

	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/identity"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/ids"
	"github.com/Hushnetwork-social/hush-server-node-sub007/internal/txn"
	"github.com/Hushnetwork-social/hush-server-node-sub007/pkg/utils"
)

// preconditionFunc is a payload-kind-specific check run after signature
// verification and before producer cosigning (spec §4.C "author exists,
// funds sufficient, feed membership present, etc."). A nil func means the
// generic signature check is the whole of validation for that kind.
type preconditionFunc func(ctx context.Context, ledger Ledger, tx *txn.Transaction) error

// kindHandler is the single ContentHandler implementation every payload
// kind is registered through (spec §4.B "Registration is data-driven:
// adding a new payload kind requires only adding a handler... no other
// component changes" — here "adding a handler" means adding one table row
// in NewHandlers, not a new type).
type kindHandler struct {
	kind     txn.PayloadKind
	identity *identity.Store
	ledger   Ledger
	check    preconditionFunc
}

func (h *kindHandler) CanValidate(kind txn.PayloadKind) bool { return kind == h.kind }

func (h *kindHandler) ValidateAndCosign(ctx context.Context, tx *txn.Transaction) error {
	if tx.State != txn.Signed {
		return utils.Newf(utils.ErrMalformedPayload, "transaction %s is not in Signed state", tx.ID)
	}

	digest, err := tx.Digest()
	if err != nil {
		return err
	}
	if err := identity.VerifyUserSignature(digest, tx.UserSig.Signature, tx.UserSig.Signatory); err != nil {
		return err
	}

	if h.check != nil {
		if err := h.check(ctx, h.ledger, tx); err != nil {
			return err
		}
	}

	cosignDigest, err := tx.CosignDigest()
	if err != nil {
		return err
	}
	sig, err := h.identity.SignAsProducer(cosignDigest)
	if err != nil {
		return err
	}
	return tx.Validate(txn.ValidatorSignature{Signature: sig})
}

// NewHandlers builds the full set of ContentHandlers for every mempool-facing
// payload kind (Reward is excluded: it is assembler-issued, never
// user-submitted, per spec §4.E step 3).
func NewHandlers(store *identity.Store, ledger Ledger) []ContentHandler {
	table := []struct {
		kind  txn.PayloadKind
		check preconditionFunc
	}{
		{txn.KindFundsTransfer, checkFundsTransfer},
		{txn.KindNewPersonalFeed, nil},
		{txn.KindNewChatFeed, nil},
		{txn.KindNewGroupFeed, nil},
		{txn.KindJoinGroupFeed, checkFeedExists(func(p txn.Payload) ids.ID {
			return ids.ID(p.(*txn.JoinGroupFeedPayload).FeedID)
		})},
		{txn.KindBanFromGroup, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.BanFromGroupPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindUnbanFromGroup, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.UnbanFromGroupPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindBlockMember, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.BlockMemberPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindUnblockMember, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.UnblockMemberPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindPromoteToAdmin, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.PromoteToAdminPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindAddMemberToGroup, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.AddMemberToGroupPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindGroupKeyRotation, nil},
		{txn.KindUpdateGroupTitle, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.UpdateGroupTitlePayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindUpdateGroupDescription, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.UpdateGroupDescriptionPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindDeleteGroupFeed, checkAdmin(func(p txn.Payload) (ids.ID, identity.Address) {
			pl := p.(*txn.DeleteGroupFeedPayload)
			return ids.ID(pl.FeedID), pl.Admin
		})},
		{txn.KindNewFeedMessage, checkFeedExists(func(p txn.Payload) ids.ID {
			return ids.ID(p.(*txn.NewFeedMessagePayload).FeedID)
		})},
		{txn.KindNewGroupFeedMessage, checkFeedExists(func(p txn.Payload) ids.ID {
			return ids.ID(p.(*txn.NewGroupFeedMessagePayload).FeedID)
		})},
		{txn.KindReactionVote, checkFeedExists(func(p txn.Payload) ids.ID {
			return ids.ID(p.(*txn.ReactionVotePayload).FeedID)
		})},
	}

	handlers := make([]ContentHandler, 0, len(table))
	for _, row := range table {
		handlers = append(handlers, &kindHandler{
			kind:     row.kind,
			identity: store,
			ledger:   ledger,
			check:    row.check,
		})
	}
	return handlers
}

// checkFundsTransfer requires the sender to hold sufficient balance of the
// transferred token (spec §4.C "funds sufficient"). An absent balance row
// is zero balance (spec §3 AddressBalance "Absent row ≡ zero balance"), so
// a never-seen sender is rejected here as InsufficientFunds rather than
// needing a separate existence check.
func checkFundsTransfer(ctx context.Context, ledger Ledger, tx *txn.Transaction) error {
	pl, ok := tx.Payload.(*txn.FundsTransferPayload)
	if !ok {
		return utils.New(utils.ErrMalformedPayload, "expected FundsTransferPayload")
	}
	balance, err := ledger.Balance(ctx, pl.From, pl.Token)
	if err != nil {
		return err
	}
	if balance.Cmp(pl.Amount) < 0 {
		return utils.Newf(utils.ErrInsufficientFunds, "sender %s has insufficient %s balance", pl.From, pl.Token)
	}
	return nil
}

// checkFeedExists builds a preconditionFunc requiring the payload's
// referenced feed to exist (spec §4.C "author exists... feed membership
// present").
func checkFeedExists(feedOf func(p txn.Payload) ids.ID) preconditionFunc {
	return func(ctx context.Context, ledger Ledger, tx *txn.Transaction) error {
		feedID := feedOf(tx.Payload)
		exists, err := ledger.FeedExists(ctx, feedID)
		if err != nil {
			return err
		}
		if !exists {
			return utils.Newf(utils.ErrUnknownFeed, "unknown feed %s", feedID)
		}
		return nil
	}
}

// checkAdmin builds a preconditionFunc requiring the named actor to hold
// Owner or Admin role on the referenced feed (spec §7 UnauthorizedForRole).
func checkAdmin(actorOf func(p txn.Payload) (ids.ID, identity.Address)) preconditionFunc {
	return func(ctx context.Context, ledger Ledger, tx *txn.Transaction) error {
		feedID, admin := actorOf(tx.Payload)
		role, present, err := ledger.FeedParticipant(ctx, feedID, admin)
		if err != nil {
			return err
		}
		if !present {
			return utils.Newf(utils.ErrNotMember, "%s is not a member of feed %s", admin, feedID)
		}
		if role != txn.RoleOwner && role != txn.RoleAdmin {
			return utils.Newf(utils.ErrUnauthorizedForRole, "%s does not hold admin rights on feed %s", admin, feedID)
		}
		return nil
	}
}
